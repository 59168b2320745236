// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Setup errors
	CodeLadderTooFewPlayers   Code = "LADDER_TOO_FEW_PLAYERS"
	CodeLadderTooManyPlayers  Code = "LADDER_TOO_MANY_PLAYERS"
	CodeLadderBlankPlayer     Code = "LADDER_BLANK_PLAYER"
	CodeLadderBlankPenalty    Code = "LADDER_BLANK_PENALTY"
	CodeLadderDuplicatePlayer Code = "LADDER_DUPLICATE_PLAYER"

	// Transition errors
	CodeLadderInvalidTransition Code = "LADDER_INVALID_TRANSITION"
	CodeLadderColumnResolved    Code = "LADDER_COLUMN_RESOLVED"
	CodeLadderColumnOutOfRange  Code = "LADDER_COLUMN_OUT_OF_RANGE"
	CodeLadderRevealInFlight    Code = "LADDER_REVEAL_IN_FLIGHT"
	CodeLadderNoReveal          Code = "LADDER_NO_REVEAL"
	CodeLadderPlayerNotFound    Code = "LADDER_PLAYER_NOT_FOUND"

	// Lookup errors
	CodeLadderSessionNotFound Code = "LADDER_SESSION_NOT_FOUND"

	// Engine errors
	CodeLadderInternal Code = "LADDER_INTERNAL"
)

// Kind groups codes by how callers should react to them.
type Kind int

const (
	// KindInternal marks defects the caller cannot fix.
	KindInternal Kind = iota
	// KindInvalidArgument marks bad input.
	KindInvalidArgument
	// KindFailedPrecondition marks requests the current state does not allow.
	KindFailedPrecondition
	// KindNotFound marks unknown resources.
	KindNotFound
)

// Kind maps domain codes to their caller-facing class.
func (c Code) Kind() Kind {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeLadderTooFewPlayers,
		CodeLadderTooManyPlayers,
		CodeLadderBlankPlayer,
		CodeLadderBlankPenalty,
		CodeLadderDuplicatePlayer,
		CodeLadderColumnOutOfRange:
		return KindInvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeLadderInvalidTransition,
		CodeLadderColumnResolved,
		CodeLadderRevealInFlight,
		CodeLadderNoReveal:
		return KindFailedPrecondition

	// NotFound - resource doesn't exist
	case CodeLadderPlayerNotFound,
		CodeLadderSessionNotFound:
		return KindNotFound

	default:
		return KindInternal
	}
}
