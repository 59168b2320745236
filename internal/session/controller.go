package session

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/sadari/internal/ladder"
	apperrors "github.com/louisbranch/sadari/internal/platform/errors"
	"github.com/louisbranch/sadari/internal/platform/random"
	"github.com/louisbranch/sadari/internal/platform/telemetry/metrics"
	"github.com/louisbranch/sadari/internal/platform/timeouts"
)

const (
	// MinPlayers is the smallest roster a game accepts.
	MinPlayers = 2
	// MaxPlayers is the largest roster a game accepts.
	MaxPlayers = 8
	// GameTypeLadder identifies ladder results.
	GameTypeLadder = "LADDER"
)

// Result is the record reported once a game finishes.
type Result struct {
	SessionID    string
	GameType     string
	Participants []string
	// Result is the name of the player who drew the penalty.
	Result     string
	Penalty    string
	FinishedAt time.Time
}

// ResultReporter records finished games.
type ResultReporter interface {
	ReportResult(ctx context.Context, result Result) error
}

// Reveal is a column whose path has been computed but not yet committed.
type Reveal struct {
	Column int
	Player string
	Path   ladder.Path
}

// Outcome is a committed reveal.
type Outcome struct {
	Reveal
	// Penalty is true when the path ended on the penalty column.
	Penalty bool
	Status  Status
	// ReportErr holds the reporter failure for a finishing reveal. The game
	// stays finished regardless.
	ReportErr error
}

// Options tunes a Controller.
type Options struct {
	// Levels and Probability override the generator defaults when non-zero.
	Levels      int
	Probability float64
	Reporter    ResultReporter
	// SeedFunc draws the seed for each new ladder. Nil uses random.NewSeed.
	SeedFunc random.SeedFunc
}

// Controller drives a single ladder game. It is not safe for concurrent use.
type Controller struct {
	state    State
	inFlight *Reveal
	options  Options

	seedFunc random.SeedFunc
	generate func(ladder.GenerateRequest) (ladder.Graph, error)
	clock    func() time.Time
	metrics  *metrics.Recorder
}

// NewController creates a controller in SETUP for the game id.
func NewController(id string, options Options) *Controller {
	seedFunc := options.SeedFunc
	if seedFunc == nil {
		seedFunc = random.NewSeed
	}
	return &Controller{
		state:    State{ID: id, Status: StatusSetup},
		options:  options,
		seedFunc: seedFunc,
		generate: ladder.Generate,
		clock:    time.Now,
		metrics:  metrics.Default(),
	}
}

// State returns a snapshot of the game.
func (c *Controller) State() State {
	return c.state.clone()
}

// RevealInFlight reports whether a reveal has begun and not been committed.
func (c *Controller) RevealInFlight() bool {
	return c.inFlight != nil
}

// Confirm validates the roster and penalty, builds the ladder and moves the
// game to READY. On error the game is left untouched.
func (c *Controller) Confirm(players []string, penaltyText string) (State, error) {
	if c.state.Status != StatusSetup {
		return State{}, c.invalidTransition("confirm")
	}
	roster, penalty, err := normalizeSetup(players, penaltyText)
	if err != nil {
		return State{}, err
	}

	graph, seed, err := c.newGraph(len(roster))
	if err != nil {
		return State{}, err
	}

	c.state.Players = roster
	c.state.PenaltyText = penalty
	c.state.Graph = graph
	c.state.Seed = seed
	c.state.resolved = make([]bool, len(roster))
	c.state.WinnerColumn = nil
	c.state.Status = StatusReady
	c.metrics.SessionConfirmed(context.Background())

	log.Printf("session confirmed id=%s players=%d levels=%d rungs=%d", c.state.ID, len(roster), graph.Levels, graph.RungCount())
	return c.State(), nil
}

// BeginReveal computes the path for column and marks it in flight. The
// caller may animate the path before calling CommitReveal; no other reveal
// or reset is accepted in between.
func (c *Controller) BeginReveal(column int) (Reveal, error) {
	if c.state.Status != StatusReady && c.state.Status != StatusInProgress {
		return Reveal{}, c.invalidTransition("reveal")
	}
	if c.inFlight != nil {
		return Reveal{}, apperrors.New(apperrors.CodeLadderRevealInFlight, "a reveal is already in flight")
	}
	if column < 0 || column >= c.state.Columns() {
		return Reveal{}, apperrors.WithMetadata(
			apperrors.CodeLadderColumnOutOfRange,
			fmt.Sprintf("column %d outside %d columns", column, c.state.Columns()),
			map[string]string{"Column": strconv.Itoa(column)},
		)
	}
	player := c.state.Players[column]
	if c.state.IsResolved(column) {
		return Reveal{}, apperrors.WithMetadata(
			apperrors.CodeLadderColumnResolved,
			fmt.Sprintf("column %d already resolved", column),
			map[string]string{"Player": player, "Column": strconv.Itoa(column)},
		)
	}

	path, err := ladder.Trace(column, c.state.Graph)
	if err != nil {
		return Reveal{}, apperrors.Wrap(apperrors.CodeLadderInternal, "trace ladder", err)
	}

	reveal := Reveal{Column: column, Player: player, Path: path}
	c.inFlight = &reveal
	return reveal, nil
}

// CommitReveal applies the in-flight reveal. Reaching the penalty column
// finishes the game and reports the result; any other column is marked
// resolved. A begun reveal is never cancelled.
func (c *Controller) CommitReveal(ctx context.Context) (Outcome, error) {
	if c.inFlight == nil {
		return Outcome{}, apperrors.New(apperrors.CodeLadderNoReveal, "no reveal in flight")
	}
	reveal := *c.inFlight
	c.inFlight = nil

	outcome := Outcome{Reveal: reveal}
	if reveal.Path.Final == c.state.PenaltyColumn() {
		winner := reveal.Column
		c.state.WinnerColumn = &winner
		c.state.Status = StatusFinished
		outcome.Penalty = true
		outcome.Status = c.state.Status
		c.metrics.RevealCommitted(ctx, true)
		log.Printf("session finished id=%s column=%d player=%q", c.state.ID, reveal.Column, reveal.Player)
		outcome.ReportErr = c.report(ctx)
		return outcome, nil
	}

	c.state.resolved[reveal.Column] = true
	c.state.Status = StatusInProgress
	outcome.Status = c.state.Status
	c.metrics.RevealCommitted(ctx, false)
	return outcome, nil
}

// Select reveals column with no presentation delay.
func (c *Controller) Select(ctx context.Context, column int) (Outcome, error) {
	if _, err := c.BeginReveal(column); err != nil {
		return Outcome{}, err
	}
	return c.CommitReveal(ctx)
}

// SelectPlayer reveals the column of the named player.
func (c *Controller) SelectPlayer(ctx context.Context, name string) (Outcome, error) {
	column, err := c.PlayerColumn(name)
	if err != nil {
		return Outcome{}, err
	}
	return c.Select(ctx, column)
}

// PlayerColumn returns the start column of the named player.
func (c *Controller) PlayerColumn(name string) (int, error) {
	if c.state.Status == StatusSetup {
		return 0, c.invalidTransition("reveal")
	}
	column, ok := c.state.ColumnOf(name)
	if !ok {
		return 0, apperrors.WithMetadata(
			apperrors.CodeLadderPlayerNotFound,
			fmt.Sprintf("player %q not in session", name),
			map[string]string{"Player": strings.TrimSpace(name)},
		)
	}
	return column, nil
}

// Reset draws a new ladder for the same players and penalty and returns the
// game to READY.
func (c *Controller) Reset() (State, error) {
	if c.state.Status == StatusSetup {
		return State{}, c.invalidTransition("reset")
	}
	if c.inFlight != nil {
		return State{}, apperrors.New(apperrors.CodeLadderRevealInFlight, "cannot reset during a reveal")
	}

	graph, seed, err := c.newGraph(c.state.Columns())
	if err != nil {
		return State{}, err
	}
	c.state.Graph = graph
	c.state.Seed = seed
	c.state.resolved = make([]bool, c.state.Columns())
	c.state.WinnerColumn = nil
	c.state.Status = StatusReady

	log.Printf("session reset id=%s rungs=%d", c.state.ID, graph.RungCount())
	return c.State(), nil
}

func (c *Controller) newGraph(columns int) (ladder.Graph, int64, error) {
	if c.seedFunc == nil || c.generate == nil {
		return ladder.Graph{}, 0, apperrors.New(apperrors.CodeLadderInternal, "ladder generator is not configured")
	}
	seed, err := c.seedFunc()
	if err != nil {
		return ladder.Graph{}, 0, apperrors.Wrap(apperrors.CodeLadderInternal, "generate seed", err)
	}
	graph, err := c.generate(ladder.GenerateRequest{
		Columns:     columns,
		Levels:      c.options.Levels,
		Probability: c.options.Probability,
		Seed:        seed,
	})
	if err != nil {
		return ladder.Graph{}, 0, apperrors.Wrap(apperrors.CodeLadderInternal, "generate ladder", err)
	}
	if graph.Columns != columns {
		return ladder.Graph{}, 0, apperrors.Wrap(
			apperrors.CodeLadderInternal,
			"generate ladder",
			fmt.Errorf("%w: graph has %d columns, want %d", ladder.ErrInvariantViolation, graph.Columns, columns),
		)
	}
	return graph, seed, nil
}

func (c *Controller) report(ctx context.Context) error {
	if c.options.Reporter == nil {
		return nil
	}
	winner, _ := c.state.Winner()
	result := Result{
		SessionID:    c.state.ID,
		GameType:     GameTypeLadder,
		Participants: append([]string(nil), c.state.Players...),
		Result:       winner,
		Penalty:      c.state.PenaltyText,
		FinishedAt:   c.clock().UTC(),
	}

	reportCtx, cancel := context.WithTimeout(ctx, timeouts.ResultReport)
	defer cancel()
	if err := c.options.Reporter.ReportResult(reportCtx, result); err != nil {
		c.metrics.ReportFailed(ctx)
		log.Printf("report result failed id=%s err=%v", c.state.ID, err)
		return fmt.Errorf("report result: %w", err)
	}
	return nil
}

func (c *Controller) invalidTransition(action string) error {
	return apperrors.WithMetadata(
		apperrors.CodeLadderInvalidTransition,
		fmt.Sprintf("cannot %s in status %s", action, c.state.Status),
		map[string]string{"Action": action, "Status": c.state.Status.String()},
	)
}

func normalizeSetup(players []string, penaltyText string) ([]string, string, error) {
	if len(players) < MinPlayers {
		return nil, "", apperrors.WithMetadata(
			apperrors.CodeLadderTooFewPlayers,
			fmt.Sprintf("%d players, need at least %d", len(players), MinPlayers),
			map[string]string{"Min": strconv.Itoa(MinPlayers)},
		)
	}
	if len(players) > MaxPlayers {
		return nil, "", apperrors.WithMetadata(
			apperrors.CodeLadderTooManyPlayers,
			fmt.Sprintf("%d players, at most %d allowed", len(players), MaxPlayers),
			map[string]string{"Max": strconv.Itoa(MaxPlayers)},
		)
	}
	roster := make([]string, len(players))
	seen := make(map[string]struct{}, len(players))
	for i, name := range players {
		roster[i] = strings.TrimSpace(name)
		if roster[i] == "" {
			return nil, "", apperrors.WithMetadata(
				apperrors.CodeLadderBlankPlayer,
				fmt.Sprintf("player %d is blank", i+1),
				map[string]string{"Position": strconv.Itoa(i + 1)},
			)
		}
		if _, ok := seen[roster[i]]; ok {
			return nil, "", apperrors.WithMetadata(
				apperrors.CodeLadderDuplicatePlayer,
				fmt.Sprintf("player %q listed twice", roster[i]),
				map[string]string{"Player": roster[i], "Position": strconv.Itoa(i + 1)},
			)
		}
		seen[roster[i]] = struct{}{}
	}
	penalty := strings.TrimSpace(penaltyText)
	if penalty == "" {
		return nil, "", apperrors.New(apperrors.CodeLadderBlankPenalty, "penalty is blank")
	}
	return roster, penalty, nil
}

