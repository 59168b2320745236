package session

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/louisbranch/sadari/internal/ladder"
	apperrors "github.com/louisbranch/sadari/internal/platform/errors"
	"github.com/louisbranch/sadari/internal/platform/random"
)

type fakeReporter struct {
	results []Result
	err     error
}

func (r *fakeReporter) ReportResult(ctx context.Context, result Result) error {
	r.results = append(r.results, result)
	return r.err
}

// swapFirstPair maps [0,1,2] to [1,0,2].
var swapFirstPair = ladder.Graph{
	Columns: 3,
	Levels:  3,
	Rungs:   []ladder.Rung{{From: 0, To: 1, Level: 1}},
}

var straight = ladder.Graph{Columns: 3, Levels: 3}

func newTestController(reporter ResultReporter, graphs ...ladder.Graph) (*Controller, *[]ladder.GenerateRequest) {
	var requests []ladder.GenerateRequest
	c := NewController("session-1", Options{Reporter: reporter})
	c.seedFunc = random.Sequence(11, 22, 33)
	c.clock = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	c.generate = func(request ladder.GenerateRequest) (ladder.Graph, error) {
		requests = append(requests, request)
		graph := graphs[min(len(requests)-1, len(graphs)-1)]
		graph.Columns = request.Columns
		return graph, nil
	}
	return c, &requests
}

func assertCode(t *testing.T, err error, want apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperrors.CodeOf(err); got != want {
		t.Fatalf("code = %s, want %s (err: %v)", got, want, err)
	}
}

func TestScenarioAPenaltyFinishesGame(t *testing.T) {
	reporter := &fakeReporter{}
	c, _ := newTestController(reporter, swapFirstPair)
	ctx := context.Background()

	state, err := c.Confirm([]string{"A", "B", "C"}, "dishes")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if state.Status != StatusReady {
		t.Fatalf("status = %s, want READY", state.Status)
	}
	if state.Seed != 11 {
		t.Fatalf("seed = %d, want 11", state.Seed)
	}

	outcome, err := c.SelectPlayer(ctx, "A")
	if err != nil {
		t.Fatalf("select A: %v", err)
	}
	if outcome.Penalty || outcome.Path.Final != 1 {
		t.Fatalf("A outcome = %+v, want safe at column 1", outcome)
	}
	if got := c.State().ResolvedColumns(); !reflect.DeepEqual(got, []int{0}) {
		t.Fatalf("resolved = %v, want [0]", got)
	}
	if c.State().Status != StatusInProgress {
		t.Fatalf("status = %s, want IN_PROGRESS", c.State().Status)
	}

	outcome, err = c.SelectPlayer(ctx, "B")
	if err != nil {
		t.Fatalf("select B: %v", err)
	}
	if outcome.Penalty || outcome.Path.Final != 0 {
		t.Fatalf("B outcome = %+v, want safe at column 0", outcome)
	}
	if got := c.State().ResolvedColumns(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("resolved = %v, want [0 1]", got)
	}

	outcome, err = c.SelectPlayer(ctx, "C")
	if err != nil {
		t.Fatalf("select C: %v", err)
	}
	if !outcome.Penalty || outcome.Status != StatusFinished {
		t.Fatalf("C outcome = %+v, want penalty and FINISHED", outcome)
	}
	if outcome.ReportErr != nil {
		t.Fatalf("report err = %v", outcome.ReportErr)
	}

	state = c.State()
	if state.WinnerColumn == nil || *state.WinnerColumn != 2 {
		t.Fatalf("winner column = %v, want 2", state.WinnerColumn)
	}
	if len(reporter.results) != 1 {
		t.Fatalf("reported %d results, want 1", len(reporter.results))
	}
	want := Result{
		SessionID:    "session-1",
		GameType:     GameTypeLadder,
		Participants: []string{"A", "B", "C"},
		Result:       "C",
		Penalty:      "dishes",
		FinishedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if !reflect.DeepEqual(reporter.results[0], want) {
		t.Fatalf("result = %+v, want %+v", reporter.results[0], want)
	}
	if mapping, ok := state.Mapping(); !ok || !reflect.DeepEqual(mapping, []int{1, 0, 2}) {
		t.Fatalf("mapping = %v (%v), want [1 0 2]", mapping, ok)
	}

	_, err = c.SelectPlayer(ctx, "A")
	assertCode(t, err, apperrors.CodeLadderInvalidTransition)
	if len(reporter.results) != 1 {
		t.Fatalf("reported %d results after rejected select, want 1", len(reporter.results))
	}
}

func TestScenarioBResetRegeneratesLadder(t *testing.T) {
	reporter := &fakeReporter{}
	second := ladder.Graph{Levels: 4, Rungs: []ladder.Rung{{From: 1, To: 2, Level: 2}}}
	c, requests := newTestController(reporter, swapFirstPair, second)
	ctx := context.Background()

	if _, err := c.Confirm([]string{"A", "B", "C"}, "dishes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	for _, name := range []string{"A", "B", "C"} {
		if _, err := c.SelectPlayer(ctx, name); err != nil {
			t.Fatalf("select %s: %v", name, err)
		}
	}

	state, err := c.Reset()
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if state.Status != StatusReady {
		t.Fatalf("status = %s, want READY", state.Status)
	}
	if state.WinnerColumn != nil {
		t.Fatalf("winner column = %d, want nil", *state.WinnerColumn)
	}
	if len(state.ResolvedColumns()) != 0 {
		t.Fatalf("resolved = %v, want none", state.ResolvedColumns())
	}
	if !reflect.DeepEqual(state.Players, []string{"A", "B", "C"}) || state.PenaltyText != "dishes" {
		t.Fatalf("players/penalty = %v/%q, want unchanged", state.Players, state.PenaltyText)
	}
	if !reflect.DeepEqual(state.Graph.Rungs, second.Rungs) {
		t.Fatalf("rungs = %v, want %v", state.Graph.Rungs, second.Rungs)
	}
	if state.Seed != 22 {
		t.Fatalf("seed = %d, want 22", state.Seed)
	}
	if len(*requests) != 2 || (*requests)[1].Seed != 22 {
		t.Fatalf("generate requests = %+v, want second with seed 22", *requests)
	}
	if got := state.PendingColumns(); !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Fatalf("pending = %v, want [0 1 2]", got)
	}
}

func TestConfirmValidation(t *testing.T) {
	tests := []struct {
		name    string
		players []string
		penalty string
		code    apperrors.Code
	}{
		{name: "one player", players: []string{"A"}, penalty: "dishes", code: apperrors.CodeLadderTooFewPlayers},
		{name: "no players", players: nil, penalty: "dishes", code: apperrors.CodeLadderTooFewPlayers},
		{name: "nine players", players: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, penalty: "dishes", code: apperrors.CodeLadderTooManyPlayers},
		{name: "blank player", players: []string{"A", "  "}, penalty: "dishes", code: apperrors.CodeLadderBlankPlayer},
		{name: "blank penalty", players: []string{"A", "B"}, penalty: " \t", code: apperrors.CodeLadderBlankPenalty},
		{name: "duplicate player", players: []string{"A", "B", "A"}, penalty: "dishes", code: apperrors.CodeLadderDuplicatePlayer},
		{name: "duplicate after trim", players: []string{"Mina", " Mina "}, penalty: "dishes", code: apperrors.CodeLadderDuplicatePlayer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, requests := newTestController(nil, straight)
			_, err := c.Confirm(tt.players, tt.penalty)
			assertCode(t, err, tt.code)
			if c.State().Status != StatusSetup {
				t.Fatalf("status = %s, want SETUP", c.State().Status)
			}
			if len(*requests) != 0 {
				t.Fatalf("generate called %d times, want 0", len(*requests))
			}
		})
	}
}

func TestConfirmDuplicateNamesReportPlayer(t *testing.T) {
	c, _ := newTestController(nil, straight)
	_, err := c.Confirm([]string{"A", "B", " B"}, "dishes")
	assertCode(t, err, apperrors.CodeLadderDuplicatePlayer)
	metadata := apperrors.MetadataOf(err)
	if metadata["Player"] != "B" || metadata["Position"] != "3" {
		t.Fatalf("metadata = %v, want Player=B Position=3", metadata)
	}
}

func TestConfirmTrimsNames(t *testing.T) {
	c, _ := newTestController(nil, straight)
	state, err := c.Confirm([]string{" A ", "B\t", "C"}, "  dishes ")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !reflect.DeepEqual(state.Players, []string{"A", "B", "C"}) {
		t.Fatalf("players = %q, want trimmed", state.Players)
	}
	if state.PenaltyText != "dishes" {
		t.Fatalf("penalty = %q, want %q", state.PenaltyText, "dishes")
	}
}

func TestConfirmTwiceRejected(t *testing.T) {
	c, _ := newTestController(nil, straight)
	if _, err := c.Confirm([]string{"A", "B", "C"}, "dishes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	_, err := c.Confirm([]string{"X", "Y"}, "coffee")
	assertCode(t, err, apperrors.CodeLadderInvalidTransition)
	if got := apperrors.MetadataOf(err)["Action"]; got != "confirm" {
		t.Fatalf("action metadata = %q, want confirm", got)
	}
}

func TestConfirmPassesGeneratorOptions(t *testing.T) {
	c, requests := newTestController(nil, straight)
	c.options.Levels = 20
	c.options.Probability = 0.7
	if _, err := c.Confirm([]string{"A", "B", "C"}, "dishes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	got := (*requests)[0]
	if got.Columns != 3 || got.Levels != 20 || got.Probability != 0.7 || got.Seed != 11 {
		t.Fatalf("request = %+v", got)
	}
}

func TestConfirmSeedFailureLeavesSetup(t *testing.T) {
	c, _ := newTestController(nil, straight)
	c.seedFunc = func() (int64, error) { return 0, errors.New("entropy exhausted") }
	_, err := c.Confirm([]string{"A", "B"}, "dishes")
	assertCode(t, err, apperrors.CodeLadderInternal)
	if c.State().Status != StatusSetup || len(c.State().Players) != 0 {
		t.Fatalf("state = %+v, want untouched SETUP", c.State())
	}
}

func TestRevealRequiresConfirmedGame(t *testing.T) {
	c, _ := newTestController(nil, straight)
	_, err := c.BeginReveal(0)
	assertCode(t, err, apperrors.CodeLadderInvalidTransition)
	_, err = c.SelectPlayer(context.Background(), "A")
	assertCode(t, err, apperrors.CodeLadderInvalidTransition)
	_, err = c.Reset()
	assertCode(t, err, apperrors.CodeLadderInvalidTransition)
}

func TestBeginRevealRejections(t *testing.T) {
	c, _ := newTestController(nil, straight)
	if _, err := c.Confirm([]string{"A", "B", "C"}, "dishes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	for _, column := range []int{-1, 3} {
		_, err := c.BeginReveal(column)
		assertCode(t, err, apperrors.CodeLadderColumnOutOfRange)
	}

	if _, err := c.Select(context.Background(), 0); err != nil {
		t.Fatalf("select 0: %v", err)
	}
	_, err := c.BeginReveal(0)
	assertCode(t, err, apperrors.CodeLadderColumnResolved)
	if got := apperrors.MetadataOf(err)["Player"]; got != "A" {
		t.Fatalf("player metadata = %q, want A", got)
	}

	_, err = c.SelectPlayer(context.Background(), "Zed")
	assertCode(t, err, apperrors.CodeLadderPlayerNotFound)
}

func TestRevealInFlightGuard(t *testing.T) {
	c, _ := newTestController(nil, straight)
	if _, err := c.Confirm([]string{"A", "B", "C"}, "dishes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	reveal, err := c.BeginReveal(1)
	if err != nil {
		t.Fatalf("begin reveal: %v", err)
	}
	if reveal.Player != "B" || reveal.Path.Start != 1 {
		t.Fatalf("reveal = %+v, want B from column 1", reveal)
	}
	if !c.RevealInFlight() {
		t.Fatal("expected reveal in flight")
	}

	_, err = c.BeginReveal(0)
	assertCode(t, err, apperrors.CodeLadderRevealInFlight)
	_, err = c.Reset()
	assertCode(t, err, apperrors.CodeLadderRevealInFlight)
	if len(c.State().ResolvedColumns()) != 0 {
		t.Fatal("uncommitted reveal must not resolve a column")
	}

	outcome, err := c.CommitReveal(context.Background())
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if outcome.Column != 1 || outcome.Penalty {
		t.Fatalf("outcome = %+v, want safe column 1", outcome)
	}
	if c.RevealInFlight() {
		t.Fatal("expected in-flight flag cleared")
	}

	_, err = c.CommitReveal(context.Background())
	assertCode(t, err, apperrors.CodeLadderNoReveal)
}

func TestReporterFailureKeepsFinished(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("database is locked")}
	c, _ := newTestController(reporter, straight)
	if _, err := c.Confirm([]string{"A", "B"}, "dishes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	outcome, err := c.Select(context.Background(), 1)
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if !outcome.Penalty {
		t.Fatal("expected penalty on straight ladder")
	}
	if outcome.ReportErr == nil {
		t.Fatal("expected report error on outcome")
	}
	if !errors.Is(outcome.ReportErr, reporter.err) {
		t.Fatalf("report err = %v, want wrapped %v", outcome.ReportErr, reporter.err)
	}
	if c.State().Status != StatusFinished {
		t.Fatalf("status = %s, want FINISHED", c.State().Status)
	}
}

func TestMalformedLadderIsInternal(t *testing.T) {
	broken := ladder.Graph{Levels: 2, Rungs: []ladder.Rung{{From: 0, To: 2, Level: 0}}}
	c, _ := newTestController(nil, broken)
	if _, err := c.Confirm([]string{"A", "B", "C"}, "dishes"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	_, err := c.BeginReveal(0)
	assertCode(t, err, apperrors.CodeLadderInternal)
	if !errors.Is(err, ladder.ErrInvariantViolation) {
		t.Fatalf("err = %v, want ErrInvariantViolation in chain", err)
	}
	if c.RevealInFlight() {
		t.Fatal("failed reveal must not stay in flight")
	}
}

func TestStateSnapshotIsIsolated(t *testing.T) {
	c, _ := newTestController(nil, swapFirstPair)
	state, err := c.Confirm([]string{"A", "B", "C"}, "dishes")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	state.Players[0] = "mutated"
	state.Graph.Rungs[0].Level = 2
	if c.State().Players[0] != "A" || c.State().Graph.Rungs[0].Level != 1 {
		t.Fatal("snapshot mutation leaked into controller")
	}
}

func TestGeneratedGameAlwaysFinishes(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		c := NewController("generated", Options{})
		c.seedFunc = random.Sequence(seed)
		if _, err := c.Confirm([]string{"A", "B", "C", "D", "E"}, "coffee"); err != nil {
			t.Fatalf("seed %d: confirm: %v", seed, err)
		}
		finished := false
		for column := 0; column < 5; column++ {
			outcome, err := c.Select(context.Background(), column)
			if err != nil {
				t.Fatalf("seed %d: select %d: %v", seed, column, err)
			}
			if outcome.Penalty {
				finished = true
				break
			}
		}
		if !finished {
			t.Fatalf("seed %d: no column reached the penalty", seed)
		}
		state := c.State()
		if state.Status != StatusFinished || state.WinnerColumn == nil {
			t.Fatalf("seed %d: state = %+v, want finished with winner", seed, state)
		}
	}
}
