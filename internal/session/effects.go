package session

import "family-puzzles/internal/domain"

// Effect is a side effect requested by a state transition. The session only
// describes what should happen; the surrounding shell decides delivery and
// may drop, queue, or retry as it sees fit.
type Effect interface {
	effect()
}

// PersistResult asks the shell to append the terminal ResultRecord to the
// result store. Delivery is fire-and-forget from the session's point of view:
// a failed append must not block or alter the finished game.
type PersistResult struct {
	Record domain.ResultRecord
}

// MessageKind classifies a player-facing notice.
type MessageKind string

const (
	MessageInfo    MessageKind = "info"
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// ShowMessage asks the shell to surface a notice to the player. Transient
// messages auto-clear and never represent a state change.
type ShowMessage struct {
	Text      string
	Kind      MessageKind
	Transient bool
}

func (PersistResult) effect() {}
func (ShowMessage) effect()   {}
