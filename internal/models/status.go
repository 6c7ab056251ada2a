package models

import "strings"

// BotStatus is the lifecycle tag reported by the bot service. Transitions
// are enforced server-side; the panel only renders whatever it is told.
type BotStatus string

const (
	StatusCreated     BotStatus = "created"
	StatusActive      BotStatus = "active"
	StatusRebalancing BotStatus = "rebalancing"
	StatusMinting     BotStatus = "minting"
	StatusWithdrawing BotStatus = "withdrawing"
	StatusStopped     BotStatus = "stopped"
	StatusResumed     BotStatus = "resumed"
	StatusWithdrawn   BotStatus = "withdrawn"
	StatusError       BotStatus = "error"
	StatusUnknown     BotStatus = "unknown"
)

// DisplayCategory groups statuses for rendering: color, spinner and
// whether the bot's controls should be disabled.
type DisplayCategory string

const (
	CategoryActive     DisplayCategory = "active"
	CategoryProcessing DisplayCategory = "processing"
	CategoryError      DisplayCategory = "error"
	CategoryTerminal   DisplayCategory = "terminal"
	CategoryNeutral    DisplayCategory = "neutral"
)

var knownStatuses = map[BotStatus]bool{
	StatusCreated:     true,
	StatusActive:      true,
	StatusRebalancing: true,
	StatusMinting:     true,
	StatusWithdrawing: true,
	StatusStopped:     true,
	StatusResumed:     true,
	StatusWithdrawn:   true,
	StatusError:       true,
}

// ParseStatus normalizes a free-text service tag into a BotStatus.
// Tags the panel does not know collapse to StatusUnknown rather than
// being substring-matched into a category they may not belong to.
func ParseStatus(tag string) BotStatus {
	s := BotStatus(strings.ToLower(strings.TrimSpace(tag)))
	if knownStatuses[s] {
		return s
	}
	return StatusUnknown
}

// Category is a total mapping: every BotStatus value, including
// StatusUnknown, lands in exactly one display bucket.
func (s BotStatus) Category() DisplayCategory {
	switch s {
	case StatusActive, StatusResumed:
		return CategoryActive
	case StatusRebalancing, StatusMinting, StatusWithdrawing:
		return CategoryProcessing
	case StatusError:
		return CategoryError
	case StatusStopped, StatusWithdrawn:
		return CategoryTerminal
	default:
		return CategoryNeutral
	}
}

// Processing reports whether the status should render with a spinner.
func (s BotStatus) Processing() bool { return s.Category() == CategoryProcessing }

// Terminal reports whether the bot has reached a state with no further
// automated action.
func (s BotStatus) Terminal() bool { return s.Category() == CategoryTerminal }
