package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-notes-api/internal/event"
	"go-notes-api/internal/model"
)

func newTestNoteService() (*NoteService, *fakeNoteRepo, *event.InMemoryBus) {
	repo := newFakeNoteRepo()
	bus := event.NewBus()
	return NewNoteService(repo, bus), repo, bus
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateNote(t *testing.T) {
	svc, _, _ := newTestNoteService()
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", note.UserID)
	assert.NotNil(t, note.Tags)
	assert.False(t, note.IsPinned)
}

func TestCreateNoteValidation(t *testing.T) {
	svc, _, _ := newTestNoteService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Content: "c"})
	requireStatus(t, err, http.StatusBadRequest)

	_, err = svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestEditNoteAppliesOnlyPresentFields(t *testing.T) {
	svc, _, _ := newTestNoteService()
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t", Content: "c", Tags: []string{"a"}})
	require.NoError(t, err)

	updated, err := svc.Edit(ctx, "user-1", note.ID, model.EditNoteRequest{Title: strPtr("new title")})
	require.NoError(t, err)
	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, "c", updated.Content)
	assert.Equal(t, []string{"a"}, updated.Tags)
}

func TestEditNoteUnpinsWithExplicitFalse(t *testing.T) {
	svc, _, _ := newTestNoteService()
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	pinned, err := svc.Edit(ctx, "user-1", note.ID, model.EditNoteRequest{IsPinned: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	// "isPinned": false must be honored, not ignored as a zero value.
	unpinned, err := svc.Edit(ctx, "user-1", note.ID, model.EditNoteRequest{IsPinned: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, unpinned.IsPinned)
}

func TestEditNoteNoChangesProvided(t *testing.T) {
	svc, _, _ := newTestNoteService()
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.Edit(ctx, "user-1", note.ID, model.EditNoteRequest{})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestEditNoteScopedToOwner(t *testing.T) {
	svc, _, _ := newTestNoteService()
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.Edit(ctx, "user-2", note.ID, model.EditNoteRequest{Title: strPtr("hijack")})
	requireStatus(t, err, http.StatusNotFound)
}

func TestUpdatePinRequiresField(t *testing.T) {
	svc, _, _ := newTestNoteService()
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	_, err = svc.UpdatePin(ctx, "user-1", note.ID, model.UpdatePinRequest{})
	requireStatus(t, err, http.StatusBadRequest)

	updated, err := svc.UpdatePin(ctx, "user-1", note.ID, model.UpdatePinRequest{IsPinned: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsPinned)
}

func TestSearchNotes(t *testing.T) {
	svc, _, _ := newTestNoteService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "groceries", Content: "milk"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "work", Content: "standup notes"})
	require.NoError(t, err)

	_, err = svc.Search(ctx, "user-1", "  ")
	requireStatus(t, err, http.StatusBadRequest)

	notes, err := svc.Search(ctx, "user-1", "MILK")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "groceries", notes[0].Title)
}

func TestDeleteNote(t *testing.T) {
	svc, repo, _ := newTestNoteService()
	ctx := context.Background()

	note, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "user-1", note.ID))
	assert.Empty(t, repo.byID)

	err = svc.Delete(ctx, "user-1", note.ID)
	requireStatus(t, err, http.StatusNotFound)
}

func TestNoteEventsPublished(t *testing.T) {
	svc, _, bus := newTestNoteService()
	ctx := context.Background()

	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	note, err := svc.Create(ctx, "user-1", model.CreateNoteRequest{Title: "t", Content: "c"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, "user-1", note.ID))

	created := <-events
	assert.Equal(t, event.TypeNoteCreated, created.Type)
	assert.Equal(t, note.ID, created.NoteID)

	deleted := <-events
	assert.Equal(t, event.TypeNoteDeleted, deleted.Type)
}
