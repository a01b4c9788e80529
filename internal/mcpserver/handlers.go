package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/suitegen/internal/archive"
)

// handleStatus implements the suitegen/status tool.
func handleStatus(status *StatusObserver) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ev, seen := status.Snapshot()
		if !seen {
			return textResult("no iterations recorded yet"), nil
		}
		data, _ := json.MarshalIndent(map[string]any{
			"iteration":   ev.Iteration,
			"coverage":    ev.Coverage,
			"population":  ev.Population,
			"archive_hit": ev.ArchiveHit,
			"best_length": ev.BestLength,
		}, "", "  ")
		return textResult(string(data)), nil
	}
}

// handleArchive implements the suitegen/archive tool: one row per goal
// with its best-known h-value and candidate length.
func handleArchive(arch *archive.MIOArchive) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		goals := arch.Goals()
		rows := make([]map[string]any, 0, len(goals))
		for _, g := range goals {
			pop := arch.Population(g)
			row := map[string]any{"goal_id": g, "population_size": len(pop)}
			if len(pop) > 0 {
				row["best_h"] = pop[0].H
				row["best_length"] = pop[0].Case.Len()
			}
			rows = append(rows, row)
		}
		response := map[string]any{
			"covered": arch.Covered(),
			"total":   arch.Total(),
			"goals":   rows,
		}
		data, _ := json.MarshalIndent(response, "", "  ")
		return textResult(string(data)), nil
	}
}

// handleGoal implements the suitegen/goal tool.
func handleGoal(arch *archive.MIOArchive) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		goalID, _ := args["goal_id"].(string)
		if goalID == "" {
			return errorResult("goal_id argument is required"), nil
		}
		pop := arch.Population(goalID)
		if len(pop) == 0 {
			return errorResult(fmt.Sprintf("no population recorded for goal %q", goalID)), nil
		}
		individuals := make([]map[string]any, len(pop))
		for i, ind := range pop {
			individuals[i] = map[string]any{
				"h":       ind.H,
				"samples": ind.Samples,
				"length":  ind.Case.Len(),
			}
		}
		data, _ := json.MarshalIndent(map[string]any{"goal_id": goalID, "individuals": individuals}, "", "  ")
		return textResult(string(data)), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(msg)},
		IsError: true,
	}
}
