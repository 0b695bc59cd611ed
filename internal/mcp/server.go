// Package mcp exposes the evaluation results as MCP tools so agent clients
// can query progress, summaries, and individual result records over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/arenahq/arena/internal/catalog"
	"github.com/arenahq/arena/internal/checkpoint"
	"github.com/arenahq/arena/internal/config"
	"github.com/arenahq/arena/internal/phases"
	"github.com/arenahq/arena/internal/report"
	"github.com/arenahq/arena/internal/store"
)

// Server wraps the results store and run ledger and exposes them as MCP
// tools. The ledger may be nil; the history tool then reports an error.
type Server struct {
	cfg      *config.Config
	manifest *config.Manifest
	store    *checkpoint.Store
	ledger   store.Ledger
}

// NewServer creates the MCP server wrapper.
func NewServer(cfg *config.Config, m *config.Manifest, cs *checkpoint.Store, ledger store.Ledger) *Server {
	return &Server{cfg: cfg, manifest: m, store: cs, ledger: ledger}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("arena", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.statusTool())
	srv.AddTool(s.hardSummaryTool())
	srv.AddTool(s.softSummaryTool())
	srv.AddTool(s.judgeBiasTool())
	srv.AddTool(s.getResultTool())
	srv.AddTool(s.listRunsTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// arena_status
func (s *Server) statusTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("arena_status",
		mcp.WithDescription("Report evaluation progress: for each phase, how many tasks have a persisted result out of the full catalog. Returns a JSON array of {phase, done, total}."),
	)
	return tool, s.handleStatus
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	progress := phases.Status(s.cfg, s.manifest, s.store)
	data, err := json.Marshal(progress)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// arena_hard_summary
func (s *Server) hardSummaryTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("arena_hard_summary",
		mcp.WithDescription("Get the bug-detection summary (majority-vote detection rates per source, model, and difficulty). Requires a prior report run."),
	)
	return tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.reportFile("hard_summary.json")
	}
}

// arena_soft_summary
func (s *Server) softSummaryTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("arena_soft_summary",
		mcp.WithDescription("Get the review-quality summary (per-model averages across scoring dimensions, plus any excluded judge entries). Requires a prior report run."),
	)
	return tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.reportFile("soft_summary.json")
	}
}

// arena_judge_bias
func (s *Server) judgeBiasTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("arena_judge_bias",
		mcp.WithDescription("Get the judge bias analysis: for each judging model, the average score it gave its own review versus others, and the delta. Requires a prior report run."),
	)
	return tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.reportFile("judge_bias.json")
	}
}

func (s *Server) reportFile(name string) (*mcp.CallToolResult, error) {
	path := filepath.Join(s.store.Dir(), report.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no %s yet; run the report phase first", name)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// arena_get_result
func (s *Server) getResultTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("arena_get_result",
		mcp.WithDescription("Fetch one raw result record by its checkpoint path relative to the results directory, e.g. review/pr-33820/gpt.json or judge/hard/review/pr-33820/gpt_bug_race-1_by_claude.json."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Checkpoint path relative to the results directory")),
	)
	return tool, s.handleGetResult
}

func (s *Server) handleGetResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rel, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: path"), nil
	}

	// Only paths the catalog could have produced are readable. This keeps
	// the tool from serving arbitrary files.
	if _, err := catalog.ParsePath(rel); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not a result path: %s", rel)), nil
	}
	if !s.store.Exists(rel) {
		return mcp.NewToolResultError(fmt.Sprintf("no result at %s", rel)), nil
	}

	data, err := os.ReadFile(s.store.Abs(rel))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// arena_list_runs
func (s *Server) listRunsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("arena_list_runs",
		mcp.WithDescription("List recent phase runs from the run ledger: id, phase, start/finish times, and completed/skipped/failed counts. Returns a JSON array, newest first."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return (default 20)")),
	)
	return tool, s.handleListRuns
}

func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.ledger == nil {
		return mcp.NewToolResultError("run ledger is not available"), nil
	}
	limit := request.GetInt("limit", 20)

	runs, err := s.ledger.ListRuns(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list runs: %v", err)), nil
	}
	data, err := json.Marshal(runs)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal runs: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
