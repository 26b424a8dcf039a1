package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go-notes-api/internal/model"
)

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]model.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[u.ID] = u
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (r *fakeUserRepo) FindPublicByID(ctx context.Context, id string) (model.PublicUser, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) SetRefreshToken(_ context.Context, userID string, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.RefreshToken = token
	r.byID[userID] = u
	return nil
}

func (r *fakeUserRepo) RotateRefreshToken(_ context.Context, userID string, oldToken string, newToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok || u.RefreshToken != oldToken {
		return model.ErrSessionConflict
	}
	u.RefreshToken = newToken
	r.byID[userID] = u
	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[userID]; ok {
		u.RefreshToken = ""
		r.byID[userID] = u
	}
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.byID[userID] = u
	return nil
}

func (r *fakeUserRepo) UpdateEmail(_ context.Context, userID string, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.Email = strings.ToLower(email)
	r.byID[userID] = u
	return nil
}

func (r *fakeUserRepo) UpdateFullname(_ context.Context, userID string, fullname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return model.ErrUserNotFound
	}
	u.Fullname = fullname
	r.byID[userID] = u
	return nil
}

func (r *fakeUserRepo) storedRefreshToken(userID string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[userID].RefreshToken
}

type fakeNoteRepo struct {
	mu   sync.Mutex
	byID map[string]model.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{byID: map[string]model.Note{}}
}

func (r *fakeNoteRepo) Create(_ context.Context, n model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[n.ID] = n
	return nil
}

func (r *fakeNoteRepo) ListByUser(_ context.Context, userID string) ([]model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes := make([]model.Note, 0)
	for _, n := range r.byID {
		if n.UserID == userID {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func (r *fakeNoteRepo) FindByIDForUser(_ context.Context, noteID string, userID string) (model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[noteID]
	if !ok || n.UserID != userID {
		return model.Note{}, model.ErrNoteNotFound
	}
	return n, nil
}

func (r *fakeNoteRepo) Update(_ context.Context, n model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[n.ID]
	if !ok || existing.UserID != n.UserID {
		return model.ErrNoteNotFound
	}
	n.UpdatedAt = time.Now().UTC()
	r.byID[n.ID] = n
	return nil
}

func (r *fakeNoteRepo) SetPinned(_ context.Context, noteID string, userID string, pinned bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[noteID]
	if !ok || n.UserID != userID {
		return model.ErrNoteNotFound
	}
	n.IsPinned = pinned
	r.byID[noteID] = n
	return nil
}

func (r *fakeNoteRepo) Search(_ context.Context, userID string, query string) ([]model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	query = strings.ToLower(query)
	notes := make([]model.Note, 0)
	for _, n := range r.byID {
		if n.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(n.Title), query) || strings.Contains(strings.ToLower(n.Content), query) {
			notes = append(notes, n)
		}
	}
	return notes, nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, noteID string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[noteID]
	if !ok || n.UserID != userID {
		return model.ErrNoteNotFound
	}
	delete(r.byID, noteID)
	return nil
}
