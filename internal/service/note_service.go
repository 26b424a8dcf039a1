package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-notes-api/internal/event"
	"go-notes-api/internal/model"
	"go-notes-api/pkg/apierror"
)

type NoteRepository interface {
	Create(ctx context.Context, n model.Note) error
	ListByUser(ctx context.Context, userID string) ([]model.Note, error)
	FindByIDForUser(ctx context.Context, noteID string, userID string) (model.Note, error)
	Update(ctx context.Context, n model.Note) error
	SetPinned(ctx context.Context, noteID string, userID string, pinned bool) error
	Search(ctx context.Context, userID string, query string) ([]model.Note, error)
	Delete(ctx context.Context, noteID string, userID string) error
}

type NoteService struct {
	notes NoteRepository
	bus   event.Bus
}

func NewNoteService(notes NoteRepository, bus event.Bus) *NoteService {
	return &NoteService{notes: notes, bus: bus}
}

func (s *NoteService) List(ctx context.Context, userID string) ([]model.Note, error) {
	notes, err := s.notes.ListByUser(ctx, userID)
	if err != nil {
		slog.Error("list notes failed", "error", err)
		return nil, apierror.Internal("notes not found")
	}
	return notes, nil
}

func (s *NoteService) Create(ctx context.Context, userID string, req model.CreateNoteRequest) (model.Note, error) {
	if strings.TrimSpace(req.Title) == "" {
		return model.Note{}, apierror.Validation("title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return model.Note{}, apierror.Validation("content is required")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	note := model.Note{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.notes.Create(ctx, note); err != nil {
		slog.Error("create note failed", "error", err)
		return model.Note{}, apierror.Internal("failed to create note")
	}

	s.publish(event.TypeNoteCreated, note.ID, userID)
	return note, nil
}

// Edit applies only the fields present in the request. An explicit
// "isPinned":false unpins; an absent field changes nothing.
func (s *NoteService) Edit(ctx context.Context, userID string, noteID string, req model.EditNoteRequest) (model.Note, error) {
	if req.Title == nil && req.Content == nil && req.Tags == nil && req.IsPinned == nil {
		return model.Note{}, apierror.Validation("no changes provided")
	}

	note, err := s.notes.FindByIDForUser(ctx, noteID, userID)
	if errors.Is(err, model.ErrNoteNotFound) {
		return model.Note{}, apierror.NotFound("note not found")
	}
	if err != nil {
		slog.Error("edit note: lookup failed", "error", err)
		return model.Note{}, apierror.Internal("failed to update note")
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return model.Note{}, apierror.Validation("title cannot be empty")
		}
		note.Title = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return model.Note{}, apierror.Validation("content cannot be empty")
		}
		note.Content = *req.Content
	}
	if req.Tags != nil {
		note.Tags = *req.Tags
		if note.Tags == nil {
			note.Tags = []string{}
		}
	}
	if req.IsPinned != nil {
		note.IsPinned = *req.IsPinned
	}

	if err := s.notes.Update(ctx, note); err != nil {
		slog.Error("edit note: update failed", "error", err)
		return model.Note{}, apierror.Internal("failed to update note")
	}

	s.publish(event.TypeNoteUpdated, note.ID, userID)
	return note, nil
}

func (s *NoteService) UpdatePin(ctx context.Context, userID string, noteID string, req model.UpdatePinRequest) (model.Note, error) {
	if req.IsPinned == nil {
		return model.Note{}, apierror.Validation("no changes provided")
	}

	err := s.notes.SetPinned(ctx, noteID, userID, *req.IsPinned)
	if errors.Is(err, model.ErrNoteNotFound) {
		return model.Note{}, apierror.NotFound("note not found")
	}
	if err != nil {
		slog.Error("update pin failed", "error", err)
		return model.Note{}, apierror.Internal("failed to update pin status")
	}

	note, err := s.notes.FindByIDForUser(ctx, noteID, userID)
	if err != nil {
		slog.Error("update pin: reload failed", "error", err)
		return model.Note{}, apierror.Internal("failed to update pin status")
	}

	s.publish(event.TypeNoteUpdated, noteID, userID)
	return note, nil
}

func (s *NoteService) Search(ctx context.Context, userID string, query string) ([]model.Note, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apierror.Validation("search query is required")
	}

	notes, err := s.notes.Search(ctx, userID, query)
	if err != nil {
		slog.Error("search notes failed", "error", err)
		return nil, apierror.Internal("error while retrieving notes")
	}
	return notes, nil
}

func (s *NoteService) Delete(ctx context.Context, userID string, noteID string) error {
	err := s.notes.Delete(ctx, noteID, userID)
	if errors.Is(err, model.ErrNoteNotFound) {
		return apierror.NotFound("note not found")
	}
	if err != nil {
		slog.Error("delete note failed", "error", err)
		return apierror.Internal("failed to delete note")
	}

	s.publish(event.TypeNoteDeleted, noteID, userID)
	return nil
}

func (s *NoteService) publish(eventType string, noteID string, userID string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{
		Type:       eventType,
		NoteID:     noteID,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	})
}
