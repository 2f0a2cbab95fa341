// Command tidvis is the portfolio timeline dashboard. The bare command
// opens the terminal UI; subcommands sync, export, import, and serve
// the offline snapshot without entering the UI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/skiva/tidvis/internal/adapters/api"
	"github.com/skiva/tidvis/internal/adapters/server"
	"github.com/skiva/tidvis/internal/adapters/server/common"
	"github.com/skiva/tidvis/internal/adapters/storage/sqlite"
	"github.com/skiva/tidvis/internal/app"
	"github.com/skiva/tidvis/internal/config"
	"github.com/skiva/tidvis/internal/platform"
	"github.com/skiva/tidvis/internal/tui"
)

// version is the build version, set via ldflags at release time.
var version = "dev"

const appName = "tidvis"

// program abstracts the bubbletea program loop so tests can swap in a
// fake that never touches the real terminal.
type program interface {
	Run() (tea.Model, error)
}

var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// serveRunner starts the HTTP/MCP mirror. Tests replace it to capture
// the assembled config without binding a socket.
var serveRunner = func(ctx context.Context, cfg server.Config, deps server.Dependencies) error {
	return server.Run(ctx, cfg, deps)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

// rootOptions carries the persistent flag values shared by every
// subcommand. Empty strings mean "not set"; setup resolves them
// against environment variables and platform defaults.
type rootOptions struct {
	configPath string
	dbPath     string
	baseURL    string
	logLevel   string
	devMode    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Terminal Gantt dashboard for the project portfolio",
		Long: appName + ` renders the project portfolio as a scrollable, zoomable
Gantt timeline in the terminal. Portfolio data is synced from the
directory API into a local snapshot, so the dashboard keeps working
when the upstream is unreachable.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("TIDVIS_DEV_MODE"); ok {
		defaultDevMode = envDev
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file path (default: platform config dir)")
	flags.StringVar(&opts.dbPath, "db", "", "snapshot database path (default: platform data dir)")
	flags.StringVar(&opts.baseURL, "base-url", "", "directory API base URL (default: config value)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override: debug, info, warn, error")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use the dev-mode config and data locations")

	cmd.AddCommand(
		newRefreshCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newServeCmd(opts),
		newPathsCmd(opts),
	)
	return cmd
}

// resolvePaths applies the flag > environment > platform-default
// precedence for the config file and database locations.
func (o *rootOptions) resolvePaths() (platform.Paths, string, string, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: appName,
		DevMode: o.devMode,
	})
	if err != nil {
		return platform.Paths{}, "", "", fmt.Errorf("resolve platform paths: %w", err)
	}

	configPath := strings.TrimSpace(o.configPath)
	if configPath == "" {
		configPath = strings.TrimSpace(os.Getenv("TIDVIS_CONFIG"))
	}
	if configPath == "" {
		configPath = paths.ConfigPath
	}

	dbPath := strings.TrimSpace(o.dbPath)
	if dbPath == "" {
		dbPath = strings.TrimSpace(os.Getenv("TIDVIS_DB"))
	}
	if dbPath == "" {
		dbPath = paths.DBPath
	}

	return paths, configPath, dbPath, nil
}

// runtimeDeps bundles the resolved configuration and live dependencies
// a command runs against.
type runtimeDeps struct {
	cfg        config.Config
	paths      platform.Paths
	configPath string
	dbPath     string
	baseURL    string
	logger     *runtimeLogger
	store      *sqlite.Store
	svc        *app.Service
}

// setup resolves paths, loads config, starts logging, opens the
// snapshot store, and wires the portfolio service. muteConsole keeps
// the console sink quiet for the duration (used before entering the
// TUI, where stderr output would tear the screen).
func (o *rootOptions) setup(stderr io.Writer, muteConsole bool) (*runtimeDeps, error) {
	paths, configPath, dbPath, err := o.resolvePaths()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath, config.Default())
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	if level := strings.TrimSpace(o.logLevel); level != "" {
		cfg.Logging.Level = level
	}

	baseURL := strings.TrimSpace(o.baseURL)
	if baseURL == "" {
		baseURL = strings.TrimSpace(os.Getenv("TIDVIS_BASE_URL"))
	}
	if baseURL == "" {
		baseURL = cfg.API.BaseURL
	}

	logger, err := newRuntimeLogger(stderr, o.devMode, cfg.Logging, paths.DataDir, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	if muteConsole {
		logger.SetConsoleEnabled(false)
	}
	logger.Info("startup configuration resolved",
		"dev_mode", o.devMode, "config_path", configPath, "base_url", baseURL)
	if path := logger.FilePath(); path != "" {
		logger.Debug("file logging enabled", "path", path)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		logger.Error("snapshot store open failed", "db_path", dbPath, "err", err)
		logger.Close()
		return nil, fmt.Errorf("open snapshot store %q: %w", dbPath, err)
	}
	logger.Debug("snapshot store ready", "db_path", dbPath)

	client := api.New(baseURL,
		api.WithTimeout(cfg.API.Timeout()),
		api.WithPageSize(cfg.API.PageSize),
		api.WithLogger(logger.clientSink()),
	)

	return &runtimeDeps{
		cfg:        cfg,
		paths:      paths,
		configPath: configPath,
		dbPath:     dbPath,
		baseURL:    baseURL,
		logger:     logger,
		store:      store,
		svc:        app.NewService(client, store, nil),
	}, nil
}

func (r *runtimeDeps) close() {
	if err := r.store.Close(); err != nil {
		r.logger.Warn("snapshot store close failed", "err", err)
	}
	r.logger.Close()
}

func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	rt, err := opts.setup(cmd.ErrOrStderr(), true)
	if err != nil {
		return err
	}
	defer rt.close()

	theme := tui.DefaultTheme()
	if themePath := resolveThemePath(rt.cfg.UI.Theme, rt.configPath); themePath != "" {
		theme, err = tui.LoadTheme(themePath, theme)
		if err != nil {
			return fmt.Errorf("load theme %q: %w", themePath, err)
		}
		rt.logger.Info("theme loaded", "path", themePath)
	}

	m := tui.NewModel(rt.svc,
		tui.WithTheme(theme),
		tui.WithZoomBounds(rt.cfg.Timeline.ZoomMin, rt.cfg.Timeline.ZoomMax),
		tui.WithDefaultZoom(rt.cfg.Timeline.DefaultZoom),
		tui.WithTickSpacing(rt.cfg.Timeline.TickSpacing),
		tui.WithParticles(string(rt.cfg.UI.Particles)),
	)

	rt.logger.Info("starting dashboard program loop")
	if _, err := programFactory(m).Run(); err != nil {
		rt.logger.Error("dashboard program failed", "err", err)
		return fmt.Errorf("run dashboard: %w", err)
	}
	rt.logger.Info("dashboard program exited")
	return nil
}

func newRefreshCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Sync the portfolio from the directory API into the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.setup(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			snap, err := rt.svc.Refresh(cmd.Context())
			if err != nil {
				rt.logger.Error("refresh failed", "err", err)
				return fmt.Errorf("refresh snapshot: %w", err)
			}
			stats := snap.Stats(rt.svc.Now())
			rt.logger.Info("snapshot refreshed",
				"projects", stats.Projects, "clients", stats.Clients, "users", stats.Users)
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d projects, %d clients, %d users (%d overdue)\n",
				stats.Projects, stats.Clients, stats.Users, stats.Overdue)
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the snapshot as JSON to a file or stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.setup(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			file, err := rt.svc.ExportSnapshot(cmd.Context())
			if err != nil {
				rt.logger.Error("export failed", "err", err)
				return fmt.Errorf("export snapshot: %w", err)
			}

			encoded, err := json.MarshalIndent(file, "", "  ")
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			encoded = append(encoded, '\n')

			if outPath == "-" {
				if _, err := cmd.OutOrStdout().Write(encoded); err != nil {
					return fmt.Errorf("write snapshot to stdout: %w", err)
				}
				return nil
			}
			if dir := filepath.Dir(outPath); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}
			}
			if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			rt.logger.Info("snapshot exported",
				"path", outPath, "projects", len(file.Projects))
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d projects, %d clients, %d users to %s\n",
				len(file.Projects), len(file.Clients), len(file.Users), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output path, or '-' for stdout")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a snapshot JSON export into the local database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return fmt.Errorf("--in is required")
			}
			rt, err := opts.setup(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			content, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}
			var file app.SnapshotFile
			if err := json.Unmarshal(content, &file); err != nil {
				return fmt.Errorf("decode import file: %w", err)
			}

			snap, err := rt.svc.ImportSnapshot(cmd.Context(), file)
			if err != nil {
				rt.logger.Error("import failed", "path", inPath, "err", err)
				return fmt.Errorf("import snapshot: %w", err)
			}
			rt.logger.Info("snapshot imported",
				"path", inPath, "projects", len(snap.Projects))
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d projects, %d clients, %d users\n",
				len(snap.Projects), len(snap.Clients), len(snap.Users))
			return nil
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "snapshot JSON file to import")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		bind        string
		apiEndpoint string
		mcpEndpoint string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio over HTTP and MCP",
		Long: `serve exposes the synced portfolio read-only: a JSON API under the
API endpoint and an MCP streamable-HTTP surface for agent tooling.
Each request revalidates against the upstream and falls back to the
cached snapshot when the upstream is unreachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := opts.setup(cmd.ErrOrStderr(), false)
			if err != nil {
				return err
			}
			defer rt.close()

			rt.logger.Info("starting mirror server",
				"bind", bind, "api_endpoint", apiEndpoint, "mcp_endpoint", mcpEndpoint)
			err = serveRunner(cmd.Context(), server.Config{
				HTTPBind:      bind,
				APIEndpoint:   apiEndpoint,
				MCPEndpoint:   mcpEndpoint,
				ServerName:    appName,
				ServerVersion: version,
			}, server.Dependencies{
				Source: common.NewServiceSource(rt.svc),
			})
			if err != nil {
				rt.logger.Error("mirror server failed", "err", err)
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&bind, "http", "127.0.0.1:8080", "HTTP listen address")
	cmd.Flags().StringVar(&apiEndpoint, "api-endpoint", "/api/v1", "base endpoint for the JSON API")
	cmd.Flags().StringVar(&mcpEndpoint, "mcp-endpoint", "/mcp", "endpoint for the MCP surface")
	return cmd
}

func newPathsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the resolved config and data locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, configPath, dbPath, err := opts.resolvePaths()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dev_mode: %t\n", opts.devMode)
			fmt.Fprintf(out, "config:   %s\n", configPath)
			fmt.Fprintf(out, "db:       %s\n", dbPath)
			return nil
		},
	}
}

// runtimeLogger fans log records out to a console sink and an optional
// file sink. The console sink can be muted while the TUI owns the
// terminal; the file sink keeps recording regardless.
type runtimeLogger struct {
	consoleSink    *charmLog.Logger
	fileSink       *charmLog.Logger
	consoleEnabled bool
	filePath       string
	closeFile      func() error
}

// newRuntimeLogger builds the console sink on stderr and, when a file
// destination applies, a logfmt file sink alongside it.
func newRuntimeLogger(stderr io.Writer, devMode bool, cfg config.LoggingConfig, dataDir string, now func() time.Time) (*runtimeLogger, error) {
	levelName := strings.TrimSpace(cfg.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := charmLog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	if stderr == nil {
		stderr = io.Discard
	}
	if now == nil {
		now = time.Now
	}

	logger := &runtimeLogger{
		consoleSink: charmLog.NewWithOptions(stderr, charmLog.Options{
			Level:           level,
			Prefix:          appName,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Formatter:       charmLog.TextFormatter,
		}),
		consoleEnabled: true,
	}

	filePath := logFilePath(cfg, dataDir, devMode, now().UTC())
	if filePath == "" {
		return logger, nil
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	logFile, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	// Logfmt in the file so the records stay grep- and parse-friendly.
	logger.fileSink = charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.filePath = filePath
	logger.closeFile = logFile.Close
	return logger, nil
}

// logFilePath picks the file sink destination: an explicit config path
// wins, dev mode falls back to a dated file under the data dir, and
// otherwise file logging stays off.
func logFilePath(cfg config.LoggingConfig, dataDir string, devMode bool, now time.Time) string {
	if path := strings.TrimSpace(cfg.File); path != "" {
		return path
	}
	if !devMode || strings.TrimSpace(dataDir) == "" {
		return ""
	}
	name := fmt.Sprintf("%s-%s.log", appName, now.Format("20060102"))
	return filepath.Join(dataDir, "log", name)
}

// SetConsoleEnabled toggles the console sink. The file sink is not
// affected.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

// FilePath returns the file sink destination, or "" when file logging
// is off.
func (l *runtimeLogger) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

// clientSink picks the sink the API client logs through: the console
// while it is enabled, else the file sink, else a discard logger so an
// active TUI never sees stray client output.
func (l *runtimeLogger) clientSink() *charmLog.Logger {
	if l == nil {
		return charmLog.New(io.Discard)
	}
	if l.consoleEnabled {
		return l.consoleSink
	}
	if l.fileSink != nil {
		return l.fileSink
	}
	return charmLog.New(io.Discard)
}

func (l *runtimeLogger) sinks() []*charmLog.Logger {
	if l == nil {
		return nil
	}
	out := make([]*charmLog.Logger, 0, 2)
	if l.consoleEnabled && l.consoleSink != nil {
		out = append(out, l.consoleSink)
	}
	if l.fileSink != nil {
		out = append(out, l.fileSink)
	}
	return out
}

func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	for _, sink := range l.sinks() {
		sink.Debug(msg, keyvals...)
	}
}

func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	for _, sink := range l.sinks() {
		sink.Info(msg, keyvals...)
	}
}

func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	for _, sink := range l.sinks() {
		sink.Warn(msg, keyvals...)
	}
}

func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	for _, sink := range l.sinks() {
		sink.Error(msg, keyvals...)
	}
}

// Close releases the file sink, if any. Safe to call more than once.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	closeFile := l.closeFile
	l.closeFile = nil
	l.fileSink = nil
	return closeFile()
}

// resolveThemePath resolves the configured theme file against the
// config file's directory when the value is relative.
func resolveThemePath(theme, configPath string) string {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return ""
	}
	if filepath.IsAbs(theme) {
		return theme
	}
	return filepath.Join(filepath.Dir(configPath), theme)
}

// parseBoolEnv reads a boolean environment variable. The second return
// value reports whether the variable was set to a parseable value.
func parseBoolEnv(name string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return parsed, true
}
