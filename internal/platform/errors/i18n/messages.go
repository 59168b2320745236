package i18n

import "golang.org/x/text/language"

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                 = "UNKNOWN"
	CodeLadderTooFewPlayers     = "LADDER_TOO_FEW_PLAYERS"
	CodeLadderTooManyPlayers    = "LADDER_TOO_MANY_PLAYERS"
	CodeLadderBlankPlayer       = "LADDER_BLANK_PLAYER"
	CodeLadderBlankPenalty      = "LADDER_BLANK_PENALTY"
	CodeLadderDuplicatePlayer   = "LADDER_DUPLICATE_PLAYER"
	CodeLadderInvalidTransition = "LADDER_INVALID_TRANSITION"
	CodeLadderColumnResolved    = "LADDER_COLUMN_RESOLVED"
	CodeLadderColumnOutOfRange  = "LADDER_COLUMN_OUT_OF_RANGE"
	CodeLadderRevealInFlight    = "LADDER_REVEAL_IN_FLIGHT"
	CodeLadderNoReveal          = "LADDER_NO_REVEAL"
	CodeLadderPlayerNotFound    = "LADDER_PLAYER_NOT_FOUND"
	CodeLadderSessionNotFound   = "LADDER_SESSION_NOT_FOUND"
	CodeLadderInternal          = "LADDER_INTERNAL"
)

var translations = map[language.Tag]map[Code]string{
	language.AmericanEnglish: {
		CodeUnknown:                 "Something went wrong.",
		CodeLadderTooFewPlayers:     "At least {{.Min}} players are needed.",
		CodeLadderTooManyPlayers:    "At most {{.Max}} players can join.",
		CodeLadderBlankPlayer:       "Player {{.Position}} needs a name.",
		CodeLadderBlankPenalty:      "Enter a penalty before starting.",
		CodeLadderDuplicatePlayer:   "{{.Player}} is already on the ladder. Give each player a different name.",
		CodeLadderInvalidTransition: "The game cannot {{.Action}} while it is {{.Status}}.",
		CodeLadderColumnResolved:    "{{.Player}} has already gone down the ladder.",
		CodeLadderColumnOutOfRange:  "Column {{.Column}} is not on this ladder.",
		CodeLadderRevealInFlight:    "Wait for the current reveal to finish.",
		CodeLadderNoReveal:          "No reveal is in progress.",
		CodeLadderPlayerNotFound:    "{{.Player}} is not playing in this game.",
		CodeLadderSessionNotFound:   "That game no longer exists.",
		CodeLadderInternal:          "The ladder could not be read. Start a new game.",
	},
	language.Korean: {
		CodeUnknown:                 "문제가 발생했습니다.",
		CodeLadderTooFewPlayers:     "최소 {{.Min}}명이 필요합니다.",
		CodeLadderTooManyPlayers:    "최대 {{.Max}}명까지 참여할 수 있습니다.",
		CodeLadderBlankPlayer:       "{{.Position}}번째 참가자 이름을 입력하세요.",
		CodeLadderBlankPenalty:      "벌칙을 입력하세요.",
		CodeLadderDuplicatePlayer:   "{{.Player}}님이 이미 있습니다. 참가자 이름이 겹치지 않게 입력하세요.",
		CodeLadderInvalidTransition: "게임이 {{.Status}} 상태라 {{.Action}} 할 수 없습니다.",
		CodeLadderColumnResolved:    "{{.Player}}님은 이미 사다리를 탔습니다.",
		CodeLadderColumnOutOfRange:  "{{.Column}}번 줄은 이 사다리에 없습니다.",
		CodeLadderRevealInFlight:    "진행 중인 결과 확인이 끝날 때까지 기다리세요.",
		CodeLadderNoReveal:          "진행 중인 결과 확인이 없습니다.",
		CodeLadderPlayerNotFound:    "{{.Player}}님은 이 게임의 참가자가 아닙니다.",
		CodeLadderSessionNotFound:   "게임을 찾을 수 없습니다.",
		CodeLadderInternal:          "사다리를 읽을 수 없습니다. 새 게임을 시작하세요.",
	},
}
