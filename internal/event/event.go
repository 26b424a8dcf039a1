package event

import "time"

const (
	TypeNoteCreated = "note.created"
	TypeNoteUpdated = "note.updated"
	TypeNoteDeleted = "note.deleted"
)

type Event struct {
	Type       string    `json:"type"`
	NoteID     string    `json:"note_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
