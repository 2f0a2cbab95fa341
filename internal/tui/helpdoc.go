package tui

import _ "embed"

// helpMarkdown is the long-form help shown by the `?` overlay.
//
//go:embed help.md
var helpMarkdown string
