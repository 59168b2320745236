package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/sadari/internal/ladder"
	"github.com/louisbranch/sadari/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Sessions is the registry the ladder tools operate on.
type Sessions interface {
	Create(players []string, penaltyText string) (session.State, error)
	Do(sessionID string, fn func(*session.Controller) error) error
	Get(sessionID string) (session.State, error)
	Delete(sessionID string) (session.State, error)
	Len() int
}

// RungResult is one rung of the ladder.
type RungResult struct {
	From  int `json:"from" jsonschema:"left column of the rung"`
	To    int `json:"to" jsonschema:"right column of the rung"`
	Level int `json:"level" jsonschema:"level index counted from the top"`
}

// PointResult is one waypoint of a path in percent coordinates.
type PointResult struct {
	X float64 `json:"x" jsonschema:"horizontal position, 0 is the leftmost column and 100 the rightmost"`
	Y float64 `json:"y" jsonschema:"vertical position, 0 is the top and 100 the bottom"`
}

// LadderStateResult is the MCP view of a game.
type LadderStateResult struct {
	SessionID       string       `json:"session_id" jsonschema:"game identifier"`
	Status          string       `json:"status" jsonschema:"game status (READY, IN_PROGRESS, FINISHED)"`
	Players         []string     `json:"players" jsonschema:"player names; player i starts at column i"`
	Penalty         string       `json:"penalty" jsonschema:"penalty text"`
	PenaltyColumn   int          `json:"penalty_column" jsonschema:"bottom column that carries the penalty"`
	Levels          int          `json:"levels" jsonschema:"number of rung levels"`
	Rungs           []RungResult `json:"rungs" jsonschema:"rungs ordered by level then column; empty until the game is finished"`
	ResolvedColumns []int        `json:"resolved_columns" jsonschema:"columns already revealed safe"`
	PendingColumns  []int        `json:"pending_columns" jsonschema:"columns that can still be revealed"`
	Winner          string       `json:"winner,omitempty" jsonschema:"player who drew the penalty, once finished"`
	WinnerColumn    *int         `json:"winner_column,omitempty" jsonschema:"start column of the player who drew the penalty"`
	Mapping         []int        `json:"mapping,omitempty" jsonschema:"final column for every start column, once finished"`
	Seed            *int64       `json:"seed,omitempty" jsonschema:"seed that generated the ladder, once finished"`
}

// LadderSetupInput represents the MCP tool input for starting a game.
type LadderSetupInput struct {
	Players []string `json:"players" jsonschema:"2 to 8 player names in column order"`
	Penalty string   `json:"penalty" jsonschema:"penalty the loser takes"`
	Locale  string   `json:"locale,omitempty" jsonschema:"BCP 47 locale for error messages (en-US, ko-KR)"`
}

// LadderSetupTool defines the MCP tool schema for starting a game.
func LadderSetupTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_setup",
		Description: "Starts a ladder game: validates the players and penalty and draws a random ladder. The rightmost bottom column is the penalty.",
	}
}

// LadderSetupHandler executes a game setup request.
func LadderSetupHandler(sessions Sessions) mcp.ToolHandlerFor[LadderSetupInput, LadderStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderSetupInput) (result *mcp.CallToolResult, out LadderStateResult, err error) {
		_, span := startToolSpan(ctx, "ladder_setup", attrPlayers.Int(len(input.Players)))
		defer func() { endToolSpan(span, err) }()

		if sessions == nil {
			return nil, LadderStateResult{}, fmt.Errorf("session registry is not configured")
		}
		state, err := sessions.Create(input.Players, input.Penalty)
		if err != nil {
			return nil, LadderStateResult{}, localizeError(input.Locale, err)
		}
		span.SetAttributes(
			attrSessionID.String(state.ID),
			attrStatus.String(state.Status.String()),
			attrActiveSessions.Int(sessions.Len()),
		)
		return nil, stateResult(state), nil
	}
}

// LadderSelectInput represents the MCP tool input for revealing a column.
type LadderSelectInput struct {
	SessionID string `json:"session_id" jsonschema:"game identifier"`
	Column    *int   `json:"column,omitempty" jsonschema:"start column to reveal; set this or player"`
	Player    string `json:"player,omitempty" jsonschema:"player whose column to reveal; set this or column"`
	Locale    string `json:"locale,omitempty" jsonschema:"BCP 47 locale for error messages (en-US, ko-KR)"`
}

// LadderSelectResult represents the MCP tool output for a revealed column.
type LadderSelectResult struct {
	Column      int               `json:"column" jsonschema:"start column revealed"`
	Player      string            `json:"player" jsonschema:"player starting at the column"`
	Final       int               `json:"final" jsonschema:"bottom column the path reached"`
	Penalty     bool              `json:"penalty" jsonschema:"true when the player drew the penalty"`
	Crossings   int               `json:"crossings" jsonschema:"number of rungs crossed"`
	Waypoints   []PointResult     `json:"waypoints" jsonschema:"path from the top of the column to the bottom"`
	ReportError string            `json:"report_error,omitempty" jsonschema:"set when the finished game could not be recorded"`
	State       LadderStateResult `json:"state" jsonschema:"game after the reveal"`
}

// LadderSelectTool defines the MCP tool schema for revealing a column.
func LadderSelectTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_select",
		Description: "Reveals where a player's column leads. Reaching the penalty column finishes the game and records the result.",
	}
}

// LadderSelectHandler executes a column reveal.
func LadderSelectHandler(sessions Sessions) mcp.ToolHandlerFor[LadderSelectInput, LadderSelectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderSelectInput) (result *mcp.CallToolResult, out LadderSelectResult, err error) {
		runCtx, span := startToolSpan(ctx, "ladder_select", attrSessionID.String(input.SessionID))
		defer func() { endToolSpan(span, err) }()

		if sessions == nil {
			return nil, LadderSelectResult{}, fmt.Errorf("session registry is not configured")
		}
		player, err := revealTarget(input)
		if err != nil {
			return nil, LadderSelectResult{}, err
		}

		var (
			outcome session.Outcome
			state   session.State
		)
		err = sessions.Do(input.SessionID, func(c *session.Controller) error {
			var selectErr error
			if input.Column != nil {
				outcome, selectErr = c.Select(runCtx, *input.Column)
			} else {
				outcome, selectErr = c.SelectPlayer(runCtx, player)
			}
			if selectErr != nil {
				return selectErr
			}
			state = c.State()
			return nil
		})
		if err != nil {
			return nil, LadderSelectResult{}, localizeError(input.Locale, err)
		}

		span.SetAttributes(
			attrColumn.Int(outcome.Column),
			attrPenalty.Bool(outcome.Penalty),
			attrStatus.String(outcome.Status.String()),
		)
		return nil, selectResult(outcome, state), nil
	}
}

// LadderRevealResult represents a reveal that has begun and awaits commit.
type LadderRevealResult struct {
	Column    int               `json:"column" jsonschema:"start column being revealed"`
	Player    string            `json:"player" jsonschema:"player starting at the column"`
	Final     int               `json:"final" jsonschema:"bottom column the path reaches"`
	Crossings int               `json:"crossings" jsonschema:"number of rungs crossed"`
	Waypoints []PointResult     `json:"waypoints" jsonschema:"path to animate from the top of the column to the bottom"`
	State     LadderStateResult `json:"state" jsonschema:"game while the reveal is in flight"`
}

// LadderBeginRevealTool defines the MCP tool schema for starting a reveal.
func LadderBeginRevealTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_begin_reveal",
		Description: "Computes a player's path so it can be animated. No other reveal or reset is accepted until ladder_commit_reveal is called.",
	}
}

// LadderBeginRevealHandler starts a two-step reveal.
func LadderBeginRevealHandler(sessions Sessions) mcp.ToolHandlerFor[LadderSelectInput, LadderRevealResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderSelectInput) (result *mcp.CallToolResult, out LadderRevealResult, err error) {
		_, span := startToolSpan(ctx, "ladder_begin_reveal", attrSessionID.String(input.SessionID))
		defer func() { endToolSpan(span, err) }()

		if sessions == nil {
			return nil, LadderRevealResult{}, fmt.Errorf("session registry is not configured")
		}
		player, err := revealTarget(input)
		if err != nil {
			return nil, LadderRevealResult{}, err
		}

		var (
			reveal session.Reveal
			state  session.State
		)
		err = sessions.Do(input.SessionID, func(c *session.Controller) error {
			column, columnErr := revealColumn(c, input.Column, player)
			if columnErr != nil {
				return columnErr
			}
			var beginErr error
			if reveal, beginErr = c.BeginReveal(column); beginErr != nil {
				return beginErr
			}
			state = c.State()
			return nil
		})
		if err != nil {
			return nil, LadderRevealResult{}, localizeError(input.Locale, err)
		}

		span.SetAttributes(attrColumn.Int(reveal.Column))
		return nil, LadderRevealResult{
			Column:    reveal.Column,
			Player:    reveal.Player,
			Final:     reveal.Path.Final,
			Crossings: reveal.Path.Crossings,
			Waypoints: waypointResults(reveal.Path),
			State:     stateResult(state),
		}, nil
	}
}

// LadderCommitRevealTool defines the MCP tool schema for finishing a reveal.
func LadderCommitRevealTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_commit_reveal",
		Description: "Applies the reveal started by ladder_begin_reveal. Reaching the penalty column finishes the game and records the result.",
	}
}

// LadderCommitRevealHandler commits the reveal in flight.
func LadderCommitRevealHandler(sessions Sessions) mcp.ToolHandlerFor[LadderSessionInput, LadderSelectResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderSessionInput) (result *mcp.CallToolResult, out LadderSelectResult, err error) {
		runCtx, span := startToolSpan(ctx, "ladder_commit_reveal", attrSessionID.String(input.SessionID))
		defer func() { endToolSpan(span, err) }()

		if sessions == nil {
			return nil, LadderSelectResult{}, fmt.Errorf("session registry is not configured")
		}
		var (
			outcome session.Outcome
			state   session.State
		)
		err = sessions.Do(input.SessionID, func(c *session.Controller) error {
			var commitErr error
			if outcome, commitErr = c.CommitReveal(runCtx); commitErr != nil {
				return commitErr
			}
			state = c.State()
			return nil
		})
		if err != nil {
			return nil, LadderSelectResult{}, localizeError(input.Locale, err)
		}

		span.SetAttributes(
			attrColumn.Int(outcome.Column),
			attrPenalty.Bool(outcome.Penalty),
			attrStatus.String(outcome.Status.String()),
		)
		return nil, selectResult(outcome, state), nil
	}
}

func revealTarget(input LadderSelectInput) (string, error) {
	player := strings.TrimSpace(input.Player)
	if input.Column == nil && player == "" {
		return "", fmt.Errorf("column or player is required")
	}
	if input.Column != nil && player != "" {
		return "", fmt.Errorf("set column or player, not both")
	}
	return player, nil
}

func revealColumn(c *session.Controller, column *int, player string) (int, error) {
	if column != nil {
		return *column, nil
	}
	return c.PlayerColumn(player)
}

func selectResult(outcome session.Outcome, state session.State) LadderSelectResult {
	out := LadderSelectResult{
		Column:    outcome.Column,
		Player:    outcome.Player,
		Final:     outcome.Path.Final,
		Penalty:   outcome.Penalty,
		Crossings: outcome.Path.Crossings,
		Waypoints: waypointResults(outcome.Path),
		State:     stateResult(state),
	}
	if outcome.ReportErr != nil {
		out.ReportError = outcome.ReportErr.Error()
	}
	return out
}

// LadderSessionInput identifies a game.
type LadderSessionInput struct {
	SessionID string `json:"session_id" jsonschema:"game identifier"`
	Locale    string `json:"locale,omitempty" jsonschema:"BCP 47 locale for error messages (en-US, ko-KR)"`
}

// LadderResetTool defines the MCP tool schema for redrawing the ladder.
func LadderResetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_reset",
		Description: "Draws a new ladder for the same players and penalty and clears every reveal.",
	}
}

// LadderResetHandler executes a reset request.
func LadderResetHandler(sessions Sessions) mcp.ToolHandlerFor[LadderSessionInput, LadderStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderSessionInput) (result *mcp.CallToolResult, out LadderStateResult, err error) {
		_, span := startToolSpan(ctx, "ladder_reset", attrSessionID.String(input.SessionID))
		defer func() { endToolSpan(span, err) }()

		if sessions == nil {
			return nil, LadderStateResult{}, fmt.Errorf("session registry is not configured")
		}
		var state session.State
		err = sessions.Do(input.SessionID, func(c *session.Controller) error {
			var resetErr error
			state, resetErr = c.Reset()
			return resetErr
		})
		if err != nil {
			return nil, LadderStateResult{}, localizeError(input.Locale, err)
		}
		span.SetAttributes(attrStatus.String(state.Status.String()))
		return nil, stateResult(state), nil
	}
}

// LadderStateTool defines the MCP tool schema for reading a game.
func LadderStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_state",
		Description: "Returns the ladder, reveals and status of a game.",
	}
}

// LadderStateHandler returns a game snapshot.
func LadderStateHandler(sessions Sessions) mcp.ToolHandlerFor[LadderSessionInput, LadderStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderSessionInput) (result *mcp.CallToolResult, out LadderStateResult, err error) {
		_, span := startToolSpan(ctx, "ladder_state", attrSessionID.String(input.SessionID))
		defer func() { endToolSpan(span, err) }()

		if sessions == nil {
			return nil, LadderStateResult{}, fmt.Errorf("session registry is not configured")
		}
		state, err := sessions.Get(input.SessionID)
		if err != nil {
			return nil, LadderStateResult{}, localizeError(input.Locale, err)
		}
		span.SetAttributes(attrStatus.String(state.Status.String()))
		return nil, stateResult(state), nil
	}
}

// LadderEndTool defines the MCP tool schema for closing a game.
func LadderEndTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "ladder_end",
		Description: "Closes a game and frees it. Returns the last state; a reveal in flight is discarded. Recorded results are kept.",
	}
}

// LadderEndHandler removes a game from the registry.
func LadderEndHandler(sessions Sessions) mcp.ToolHandlerFor[LadderSessionInput, LadderStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LadderSessionInput) (result *mcp.CallToolResult, out LadderStateResult, err error) {
		_, span := startToolSpan(ctx, "ladder_end", attrSessionID.String(input.SessionID))
		defer func() { endToolSpan(span, err) }()

		if sessions == nil {
			return nil, LadderStateResult{}, fmt.Errorf("session registry is not configured")
		}
		state, err := sessions.Delete(input.SessionID)
		if err != nil {
			return nil, LadderStateResult{}, localizeError(input.Locale, err)
		}
		span.SetAttributes(
			attrStatus.String(state.Status.String()),
			attrActiveSessions.Int(sessions.Len()),
		)
		return nil, stateResult(state), nil
	}
}

// stateResult withholds the rungs and seed until the game is finished.
func stateResult(state session.State) LadderStateResult {
	out := LadderStateResult{
		SessionID:       state.ID,
		Status:          state.Status.String(),
		Players:         state.Players,
		Penalty:         state.PenaltyText,
		PenaltyColumn:   state.PenaltyColumn(),
		Levels:          state.Graph.Levels,
		Rungs:           []RungResult{},
		ResolvedColumns: nonNil(state.ResolvedColumns()),
		PendingColumns:  nonNil(state.PendingColumns()),
		WinnerColumn:    state.WinnerColumn,
	}
	if state.Status != session.StatusFinished {
		return out
	}
	seed := state.Seed
	out.Seed = &seed
	for _, rung := range state.Graph.Rungs {
		out.Rungs = append(out.Rungs, RungResult{From: rung.From, To: rung.To, Level: rung.Level})
	}
	if winner, ok := state.Winner(); ok {
		out.Winner = winner
	}
	if mapping, ok := state.Mapping(); ok {
		out.Mapping = mapping
	}
	return out
}

func waypointResults(path ladder.Path) []PointResult {
	out := make([]PointResult, 0, len(path.Waypoints))
	for _, point := range path.Waypoints {
		out = append(out, PointResult{X: point.X, Y: point.Y})
	}
	return out
}

func nonNil(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
