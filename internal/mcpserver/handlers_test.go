package mcpserver

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ormasoftchile/suitegen/internal/archive"
	"github.com/ormasoftchile/suitegen/internal/progress"
	"github.com/ormasoftchile/suitegen/internal/testcase"
)

func TestHandleStatus_ReportsNoIterationsBeforeFirstEvent(t *testing.T) {
	status := NewStatusObserver()
	req := mcp.CallToolRequest{}

	result, err := handleStatus(status)(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Error("absence of iterations should not be an error result")
	}
}

func TestHandleStatus_ReportsLatestIteration(t *testing.T) {
	status := NewStatusObserver()
	status.OnIteration(progress.IterationEvent{Iteration: 3, Coverage: 0.5, Population: 20})

	result, err := handleStatus(status)(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatal("want a successful status result")
	}
	if len(result.Content) == 0 {
		t.Error("want status content")
	}
}

func TestHandleArchive_ListsGoals(t *testing.T) {
	arch := archive.NewMIOArchive()
	tc := testcase.New()
	tc.Append(&testcase.Statement{Kind: testcase.KPrimitive, Literal: 1})
	arch.Record("g1", tc, 1.0)

	result, err := handleArchive(arch)(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatal("want a successful archive result")
	}
}

func TestHandleGoal_MissingGoalID(t *testing.T) {
	arch := archive.NewMIOArchive()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{}

	result, err := handleGoal(arch)(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for missing goal_id")
	}
}

func TestHandleGoal_UnknownGoal(t *testing.T) {
	arch := archive.NewMIOArchive()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = map[string]any{"goal_id": "missing"}

	result, err := handleGoal(arch)(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for unknown goal id")
	}
}
