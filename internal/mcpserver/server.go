// Package mcpserver exposes a run's live status and final archive over
// the Model Context Protocol (spec.md §2 `[FULL]` "mcpserver — optional
// Model Context Protocol server exposing run status/archive queries to
// external tooling"), so an external agent can poll a long-running
// suitegen invocation instead of scraping logs. Modeled directly on the
// teacher's pkg/ecosystem/mcp: one NewServer constructor registering a
// small fixed tool set, each backed by a HandleXxx function.
package mcpserver

import (
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/progress"
)

// NewServer creates an MCP server exposing tools over status and arch,
// the same live-state pair the tui dashboard renders.
func NewServer(version string, status *StatusObserver, arch *archive.MIOArchive) *server.MCPServer {
	s := server.NewMCPServer(
		"suitegen",
		version,
		server.WithToolCapabilities(true),
	)

	s.AddTool(
		mcp.NewTool("suitegen/status",
			mcp.WithDescription("Report the current run's latest iteration, coverage, and population size"),
		),
		handleStatus(status),
	)

	s.AddTool(
		mcp.NewTool("suitegen/archive",
			mcp.WithDescription("List archive goals with their covered/total counts and best candidate's length"),
		),
		handleArchive(arch),
	)

	s.AddTool(
		mcp.NewTool("suitegen/goal",
			mcp.WithDescription("Inspect one archive goal's stored population"),
			mcp.WithString("goal_id", mcp.Required(), mcp.Description("Goal id, as reported by suitegen/archive")),
		),
		handleGoal(arch),
	)

	return s
}

// StatusObserver is a progress.Observer that retains the most recent
// iteration event for on-demand querying, since MCP tool calls are
// request/response, not a push stream like the tui's bubbletea update
// loop.
type StatusObserver struct {
	mu     sync.RWMutex
	latest progress.IterationEvent
	seen   bool
}

// NewStatusObserver returns an observer with no iteration recorded yet.
func NewStatusObserver() *StatusObserver { return &StatusObserver{} }

// OnIteration implements progress.Observer.
func (o *StatusObserver) OnIteration(e progress.IterationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.latest = e
	o.seen = true
}

// Snapshot returns the latest recorded iteration event, and whether any
// iteration has happened yet.
func (o *StatusObserver) Snapshot() (progress.IterationEvent, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.latest, o.seen
}
