// Package mcpapi provides a stateless MCP streamable-HTTP adapter.
package mcpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/skiva/tidvis/internal/adapters/server/common"
	"github.com/skiva/tidvis/internal/timeline"
)

// windowDateLayout is the wire format for timeline window bounds.
const windowDateLayout = "2006-01-02"

// defaultWindowDays spans one quarter of timeline when the caller gives no range.
const defaultWindowDays = 90

// maxWindowDays caps one timeline_window response.
const maxWindowDays = 1000

// Config captures MCP transport configuration.
type Config struct {
	ServerName    string
	ServerVersion string
	EndpointPath  string
}

// Handler wraps one stateless MCP streamable HTTP handler.
type Handler struct {
	httpHandler http.Handler
}

// NewHandler builds one stateless MCP adapter exposing read-only portfolio tools.
func NewHandler(cfg Config, source common.PortfolioSource) (*Handler, error) {
	if source == nil {
		return nil, fmt.Errorf("portfolio source is required")
	}
	cfg = normalizeConfig(cfg)

	mcpSrv := mcpserver.NewMCPServer(
		cfg.ServerName,
		cfg.ServerVersion,
		mcpserver.WithToolCapabilities(false),
	)
	registerOverviewTool(mcpSrv, source)
	registerListProjectsTool(mcpSrv, source)
	registerTimelineWindowTool(mcpSrv, source)

	streamable := mcpserver.NewStreamableHTTPServer(
		mcpSrv,
		mcpserver.WithEndpointPath(cfg.EndpointPath),
		mcpserver.WithStateLess(true),
	)
	return &Handler{httpHandler: streamable}, nil
}

// ServeHTTP handles one MCP streamable HTTP request.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.httpHandler == nil {
		http.Error(w, "mcp handler unavailable", http.StatusServiceUnavailable)
		return
	}
	h.httpHandler.ServeHTTP(w, r)
}

// normalizeConfig applies deterministic defaults to MCP adapter config.
func normalizeConfig(cfg Config) Config {
	cfg.ServerName = strings.TrimSpace(cfg.ServerName)
	if cfg.ServerName == "" {
		cfg.ServerName = "tidvis"
	}
	cfg.ServerVersion = strings.TrimSpace(cfg.ServerVersion)
	if cfg.ServerVersion == "" {
		cfg.ServerVersion = "dev"
	}
	cfg.EndpointPath = strings.TrimSpace(cfg.EndpointPath)
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = "/mcp"
	}
	if !strings.HasPrefix(cfg.EndpointPath, "/") {
		cfg.EndpointPath = "/" + cfg.EndpointPath
	}
	cfg.EndpointPath = "/" + strings.Trim(cfg.EndpointPath, "/")
	return cfg
}

// overviewResult is the structured payload of `tidvis.portfolio_overview`.
type overviewResult struct {
	SyncedAt  string `json:"synced_at,omitempty"`
	Today     string `json:"today"`
	Projects  int    `json:"projects"`
	Clients   int    `json:"clients"`
	Users     int    `json:"users"`
	Active    int    `json:"active"`
	Completed int    `json:"completed"`
	Overdue   int    `json:"overdue"`
}

// registerOverviewTool registers the `tidvis.portfolio_overview` tool.
func registerOverviewTool(srv *mcpserver.MCPServer, source common.PortfolioSource) {
	srv.AddTool(
		mcp.NewTool(
			"tidvis.portfolio_overview",
			mcp.WithDescription("Return record and schedule-status counts for the whole portfolio."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			snap, err := source.Portfolio(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			now := source.Now()
			stats := snap.Stats(now)
			overview := overviewResult{
				Today:     now.UTC().Format(windowDateLayout),
				Projects:  stats.Projects,
				Clients:   stats.Clients,
				Users:     stats.Users,
				Active:    stats.Active,
				Completed: stats.Completed,
				Overdue:   stats.Overdue,
			}
			if !snap.SyncedAt.IsZero() {
				overview.SyncedAt = snap.SyncedAt.UTC().Format(time.RFC3339)
			}
			result, err := mcp.NewToolResultJSON(overview)
			if err != nil {
				return nil, fmt.Errorf("encode portfolio_overview result: %w", err)
			}
			return result, nil
		},
	)
}

// projectRow is one `tidvis.list_projects` item: the wire record plus its schedule status.
type projectRow struct {
	common.ProjectRecord
	Status string `json:"status"`
}

// registerListProjectsTool registers the `tidvis.list_projects` tool.
func registerListProjectsTool(srv *mcpserver.MCPServer, source common.PortfolioSource) {
	srv.AddTool(
		mcp.NewTool(
			"tidvis.list_projects",
			mcp.WithDescription("List portfolio projects with schedule status, optionally filtered."),
			mcp.WithString("status", mcp.Description("Filter by schedule status"), mcp.Enum("active", "completed", "overdue")),
			mcp.WithString("client_id", mcp.Description("Filter by owning client id")),
			mcp.WithString("from", mcp.Description("Keep projects overlapping this date or later (YYYY-MM-DD)")),
			mcp.WithString("to", mcp.Description("Keep projects overlapping this date or earlier (YYYY-MM-DD)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			statusFilter := strings.ToLower(strings.TrimSpace(req.GetString("status", "")))
			clientFilter := strings.TrimSpace(req.GetString("client_id", ""))
			fromDay, hasFrom, err := dayArg(req, "from")
			if err != nil {
				return toolResultFromError(err), nil
			}
			toDay, hasTo, err := dayArg(req, "to")
			if err != nil {
				return toolResultFromError(err), nil
			}

			snap, err := source.Portfolio(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			today := timeline.DayIndex(source.Now())

			rows := make([]projectRow, 0, len(snap.Projects))
			for _, p := range snap.Projects {
				if clientFilter != "" && p.ClientID != clientFilter {
					continue
				}
				iv := timeline.FromProject(p)
				if hasFrom && iv.End < fromDay {
					continue
				}
				if hasTo && iv.Start > toDay {
					continue
				}
				status := iv.Status(today).String()
				if statusFilter != "" && status != statusFilter {
					continue
				}
				rows = append(rows, projectRow{
					ProjectRecord: common.ProjectRecordFromDomain(p),
					Status:        status,
				})
			}
			result, err := mcp.NewToolResultJSON(map[string]any{
				"items": rows,
				"count": len(rows),
			})
			if err != nil {
				return nil, fmt.Errorf("encode list_projects result: %w", err)
			}
			return result, nil
		},
	)
}

// windowRow is one laid-out bar in a `tidvis.timeline_window` response.
type windowRow struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	Lane      int    `json:"lane"`
	StartCol  int    `json:"start_col"`
	EndCol    int    `json:"end_col"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// windowTick is one axis tick in a `tidvis.timeline_window` response.
type windowTick struct {
	Column      int    `json:"column"`
	Label       string `json:"label"`
	Granularity string `json:"granularity"`
}

// registerTimelineWindowTool registers the `tidvis.timeline_window` tool.
func registerTimelineWindowTool(srv *mcpserver.MCPServer, source common.PortfolioSource) {
	srv.AddTool(
		mcp.NewTool(
			"tidvis.timeline_window",
			mcp.WithDescription("Lay the portfolio out in lanes and columns for one date window, with axis ticks."),
			mcp.WithString("from", mcp.Description("Window start date (YYYY-MM-DD, default two weeks before today)")),
			mcp.WithNumber("days", mcp.Description("Window length in days (default 90)")),
			mcp.WithNumber("zoom", mcp.Description("Days per column, 1..30 (default 1)")),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			snap, err := source.Portfolio(ctx)
			if err != nil {
				return toolResultFromError(err), nil
			}
			today := timeline.DayIndex(source.Now())

			fromDay, hasFrom, err := dayArg(req, "from")
			if err != nil {
				return toolResultFromError(err), nil
			}
			if !hasFrom {
				fromDay = today - 14
			}
			days := req.GetInt("days", defaultWindowDays)
			if days < 1 || days > maxWindowDays {
				return toolResultFromError(fmt.Errorf("%w: days must be between 1 and %d", common.ErrInvalidRequest, maxWindowDays)), nil
			}
			zoom := req.GetInt("zoom", timeline.DefaultZoom)
			if zoom < timeline.ZoomMin || zoom > timeline.ZoomMax {
				return toolResultFromError(fmt.Errorf("%w: zoom must be between %d and %d", common.ErrInvalidRequest, timeline.ZoomMin, timeline.ZoomMax)), nil
			}
			toDay := fromDay + days - 1
			columns := (days + zoom - 1) / zoom

			vp := timeline.Viewport{Zoom: zoom, ScrollOffset: fromDay}
			mapper := timeline.NewMapper(vp)
			window := timeline.NewInterval("", "", fromDay, toDay, false)

			intervals := timeline.FromProjects(snap.Projects)
			lanes := timeline.AssignLanes(intervals)
			rows := make([]windowRow, 0, len(intervals))
			for i, iv := range intervals {
				if !iv.Overlaps(window) {
					continue
				}
				rows = append(rows, windowRow{
					ID:        iv.ID,
					Name:      iv.Label,
					Status:    iv.Status(today).String(),
					Lane:      lanes[i],
					StartCol:  mapper.DateToColumn(iv.Start),
					EndCol:    mapper.DateToColumn(iv.End),
					StartDate: timeline.DayDate(iv.Start).Format(windowDateLayout),
					EndDate:   timeline.DayDate(iv.End).Format(windowDateLayout),
				})
			}

			ticks := make([]windowTick, 0)
			for _, tick := range mapper.AxisTicks(columns) {
				ticks = append(ticks, windowTick{
					Column:      tick.Column,
					Label:       tick.Label,
					Granularity: tick.Granularity.String(),
				})
			}

			result, err := mcp.NewToolResultJSON(map[string]any{
				"from":       timeline.DayDate(fromDay).Format(windowDateLayout),
				"to":         timeline.DayDate(toDay).Format(windowDateLayout),
				"zoom":       zoom,
				"columns":    columns,
				"lane_count": timeline.LaneCount(lanes),
				"today_col":  mapper.DateToColumn(today),
				"rows":       rows,
				"ticks":      ticks,
			})
			if err != nil {
				return nil, fmt.Errorf("encode timeline_window result: %w", err)
			}
			return result, nil
		},
	)
}

// dayArg parses one optional YYYY-MM-DD tool argument into a day index.
func dayArg(req mcp.CallToolRequest, name string) (day int, ok bool, err error) {
	raw := strings.TrimSpace(req.GetString(name, ""))
	if raw == "" {
		return 0, false, nil
	}
	parsed, err := time.Parse(windowDateLayout, raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", common.ErrInvalidRequest, name)
	}
	return timeline.DayIndex(parsed), true, nil
}

// toolResultFromError maps source errors into MCP-visible tool errors.
func toolResultFromError(err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return mcp.NewToolResultError("unknown error")
	case errors.Is(err, common.ErrInvalidRequest):
		return mcp.NewToolResultError("invalid_request: " + err.Error())
	case errors.Is(err, common.ErrNotFound):
		return mcp.NewToolResultError("not_found: " + err.Error())
	case errors.Is(err, common.ErrSourceUnavailable):
		return mcp.NewToolResultError("unavailable: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}
