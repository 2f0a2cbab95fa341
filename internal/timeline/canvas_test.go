package timeline

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

func TestCanvasClipsWrites(t *testing.T) {
	c := NewCanvas(4, 2)
	style := lipgloss.NewStyle()
	c.Set(-1, 0, 'x', &style)
	c.Set(4, 0, 'x', &style)
	c.Set(0, -1, 'x', &style)
	c.Set(0, 2, 'x', &style)
	for y := 0; y < 2; y++ {
		if got := c.PlainLine(y); got != "    " {
			t.Fatalf("expected out of range writes dropped, row %d = %q", y, got)
		}
	}
}

func TestCanvasZeroSize(t *testing.T) {
	for _, c := range []*Canvas{NewCanvas(0, 0), NewCanvas(-3, 5), NewCanvas(5, -3)} {
		c.Set(0, 0, 'x', nil)
		c.SetString(0, 0, "hello", nil)
		if out := c.String(); strings.Contains(out, "x") || strings.Contains(out, "hello") {
			t.Fatalf("writes into an empty canvas must vanish, got %q", out)
		}
	}
}

func TestCanvasSetString(t *testing.T) {
	c := NewCanvas(6, 1)
	c.SetString(1, 0, "abcdefgh", nil)
	if got := c.PlainLine(0); got != " abcde" {
		t.Fatalf("expected clipped string, got %q", got)
	}
}

func TestCanvasWideRunesKeepRowWidth(t *testing.T) {
	c := NewCanvas(8, 1)
	c.SetString(0, 0, "a日b", nil)
	line := c.PlainLine(0)
	if runewidth.StringWidth(line) != 8 {
		t.Fatalf("expected display width 8, got %d in %q", runewidth.StringWidth(line), line)
	}
	if !strings.HasPrefix(line, "a日b") {
		t.Fatalf("unexpected row content %q", line)
	}
}

func TestCanvasOverwritingWideTailBlanksHead(t *testing.T) {
	c := NewCanvas(8, 1)
	c.Set(2, 0, '日', nil)
	c.Set(3, 0, 'x', nil)
	line := c.PlainLine(0)
	if runewidth.StringWidth(line) != 8 {
		t.Fatalf("expected display width 8 after overwrite, got %d in %q", runewidth.StringWidth(line), line)
	}
	if line[3] != 'x' {
		t.Fatalf("expected x at column 3, got %q", line)
	}
	if strings.ContainsRune(line, '日') {
		t.Fatalf("expected the orphaned wide rune blanked, got %q", line)
	}
}

func TestCanvasWideRuneAtRightEdge(t *testing.T) {
	c := NewCanvas(4, 1)
	c.Set(3, 0, '日', nil)
	line := c.PlainLine(0)
	if runewidth.StringWidth(line) != 4 {
		t.Fatalf("expected display width 4, got %d in %q", runewidth.StringWidth(line), line)
	}
}

func TestCanvasLineGroupsStyles(t *testing.T) {
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	c := NewCanvas(4, 1)
	c.Set(0, 0, 'a', &red)
	c.Set(1, 0, 'b', &red)
	c.Set(2, 0, 'c', nil)
	c.Set(3, 0, 'd', nil)

	line := c.Line(0)
	if !strings.Contains(line, "cd") {
		t.Fatalf("unstyled run must stay contiguous, got %q", line)
	}
	if !strings.HasSuffix(line, "cd") {
		t.Fatalf("expected plain tail, got %q", line)
	}
}

func TestCanvasCellAt(t *testing.T) {
	style := lipgloss.NewStyle()
	c := NewCanvas(3, 3)
	c.Set(1, 2, 'z', &style)
	r, got := c.CellAt(1, 2)
	if r != 'z' || got != &style {
		t.Fatalf("expected the stored cell back, got %q/%v", r, got)
	}
	if r, s := c.CellAt(9, 9); r != 0 || s != nil {
		t.Fatalf("expected zero cell out of bounds")
	}
}

func TestCanvasLinesCount(t *testing.T) {
	c := NewCanvas(2, 3)
	if got := len(c.Lines()); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	if c.Line(5) != "" || c.PlainLine(-1) != "" {
		t.Fatalf("expected empty strings for out of range rows")
	}
}
