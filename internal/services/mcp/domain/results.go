package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/sadari/internal/platform/id"
	"github.com/louisbranch/sadari/internal/session"
	"github.com/louisbranch/sadari/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultListResultsPageSize = 10
	maxListResultsPageSize     = 50
)

// ResultRecorder reports finished games into a result store.
type ResultRecorder struct {
	store       storage.ResultStore
	idGenerator func() (string, error)
}

// NewResultRecorder creates a reporter backed by store.
func NewResultRecorder(store storage.ResultStore) *ResultRecorder {
	return &ResultRecorder{store: store, idGenerator: id.NewID}
}

// ReportResult records one finished game.
func (r *ResultRecorder) ReportResult(ctx context.Context, result session.Result) error {
	if r == nil || r.store == nil {
		return fmt.Errorf("result store is not configured")
	}
	resultID, err := r.idGenerator()
	if err != nil {
		return fmt.Errorf("generate result id: %w", err)
	}
	return r.store.RecordResult(ctx, storage.GameResult{
		ID:           resultID,
		SessionID:    result.SessionID,
		GameType:     result.GameType,
		Participants: result.Participants,
		Result:       result.Result,
		Penalty:      result.Penalty,
		FinishedAt:   result.FinishedAt,
	})
}

var _ session.ResultReporter = (*ResultRecorder)(nil)

// LadderResultsInput represents the MCP tool input for listing results.
type LadderResultsInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"only list results of this game"`
	PageSize  int    `json:"page_size,omitempty" jsonschema:"maximum results to return (default 10, max 50)"`
	PageToken string `json:"page_token,omitempty" jsonschema:"token from a previous call to continue the listing"`
}

// LadderResultEntry is one recorded game.
type LadderResultEntry struct {
	ID           string   `json:"id" jsonschema:"result identifier"`
	SessionID    string   `json:"session_id" jsonschema:"game identifier"`
	GameType     string   `json:"game_type" jsonschema:"game type (LADDER)"`
	Participants []string `json:"participants" jsonschema:"players of the game"`
	Result       string   `json:"result" jsonschema:"player who drew the penalty"`
	Penalty      string   `json:"penalty" jsonschema:"penalty text"`
	FinishedAt   string   `json:"finished_at" jsonschema:"RFC3339 timestamp when the game finished"`
}

// LadderResultsResult represents the MCP tool output for listing results.
type LadderResultsResult struct {
	Results       []LadderResultEntry `json:"results" jsonschema:"recorded games, newest first"`
	NextPageToken string              `json:"next_page_token,omitempty" jsonschema:"token for the next page, empty on the last page"`
}

// LadderResultsTool defines the MCP tool schema for listing results.
func LadderResultsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_results",
		Description: "Lists recorded ladder results, newest first.",
	}
}

// LadderResultsHandler lists recorded results.
func LadderResultsHandler(store storage.ResultStore) mcp.ToolHandlerFor[LadderResultsInput, LadderResultsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderResultsInput) (result *mcp.CallToolResult, out LadderResultsResult, err error) {
		runCtx, span := startToolSpan(ctx, "ladder_results", attrSessionID.String(input.SessionID))
		defer func() { endToolSpan(span, err) }()

		if store == nil {
			return nil, LadderResultsResult{}, fmt.Errorf("result store is not configured")
		}
		pageSize := input.PageSize
		if pageSize <= 0 {
			pageSize = defaultListResultsPageSize
		}
		pageSize = min(pageSize, maxListResultsPageSize)

		page, err := store.ListResults(runCtx, strings.TrimSpace(input.SessionID), pageSize, input.PageToken)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidPageToken) {
				return nil, LadderResultsResult{}, fmt.Errorf("page token is not valid for this listing")
			}
			return nil, LadderResultsResult{}, fmt.Errorf("list results failed: %w", err)
		}

		out = LadderResultsResult{
			Results:       make([]LadderResultEntry, 0, len(page.Results)),
			NextPageToken: page.NextPageToken,
		}
		for _, record := range page.Results {
			out.Results = append(out.Results, resultEntry(record))
		}
		return nil, out, nil
	}
}

// LadderResultInput identifies one recorded game.
type LadderResultInput struct {
	ResultID string `json:"result_id" jsonschema:"result identifier from ladder_results"`
}

// LadderResultTool defines the MCP tool schema for reading one result.
func LadderResultTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_result",
		Description: "Returns one recorded ladder result by ID.",
	}
}

// LadderResultHandler reads a recorded result.
func LadderResultHandler(store storage.ResultStore) mcp.ToolHandlerFor[LadderResultInput, LadderResultEntry] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderResultInput) (result *mcp.CallToolResult, out LadderResultEntry, err error) {
		resultID := strings.TrimSpace(input.ResultID)
		runCtx, span := startToolSpan(ctx, "ladder_result", attrResultID.String(resultID))
		defer func() { endToolSpan(span, err) }()

		if store == nil {
			return nil, LadderResultEntry{}, fmt.Errorf("result store is not configured")
		}
		if resultID == "" {
			return nil, LadderResultEntry{}, fmt.Errorf("result_id is required")
		}
		record, err := store.GetResult(runCtx, resultID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, LadderResultEntry{}, fmt.Errorf("result %s not found", resultID)
			}
			return nil, LadderResultEntry{}, fmt.Errorf("get result failed: %w", err)
		}
		return nil, resultEntry(record), nil
	}
}

func resultEntry(record storage.GameResult) LadderResultEntry {
	return LadderResultEntry{
		ID:           record.ID,
		SessionID:    record.SessionID,
		GameType:     record.GameType,
		Participants: record.Participants,
		Result:       record.Result,
		Penalty:      record.Penalty,
		FinishedAt:   record.FinishedAt.Format(time.RFC3339),
	}
}
