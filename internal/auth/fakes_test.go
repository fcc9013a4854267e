package auth

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/learnhubhq/learnhub/internal/config"
	"github.com/learnhubhq/learnhub/internal/media"
	"github.com/learnhubhq/learnhub/internal/user"
)

// memStore is an in-memory user.Store for handler tests.
type memStore struct {
	mu    sync.Mutex
	users map[string]*user.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*user.User)}
}

func (s *memStore) Create(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return user.ErrEmailExists
		}
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memStore) List(_ context.Context) ([]*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	return users, nil
}

func (s *memStore) GetByResetToken(_ context.Context, tokenHash string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ResetTokenHash != nil && *u.ResetTokenHash == tokenHash &&
			u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(time.Now()) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *memStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return s.update(id, func(u *user.User) { u.PasswordHash = passwordHash })
}

func (s *memStore) UpdateFullName(_ context.Context, id, fullName string) error {
	return s.update(id, func(u *user.User) { u.FullName = fullName })
}

func (s *memStore) UpdateAvatar(_ context.Context, id string, avatar user.Avatar) error {
	return s.update(id, func(u *user.User) { u.Avatar = avatar })
}

func (s *memStore) SetResetToken(_ context.Context, id, tokenHash string, expiry time.Time) error {
	return s.update(id, func(u *user.User) {
		u.ResetTokenHash = &tokenHash
		u.ResetTokenExpiry = &expiry
	})
}

func (s *memStore) ClearResetToken(_ context.Context, id string) error {
	return s.update(id, func(u *user.User) {
		u.ResetTokenHash = nil
		u.ResetTokenExpiry = nil
	})
}

func (s *memStore) CompleteReset(_ context.Context, id, passwordHash string) error {
	return s.update(id, func(u *user.User) {
		u.PasswordHash = passwordHash
		u.ResetTokenHash = nil
		u.ResetTokenExpiry = nil
	})
}

func (s *memStore) update(id string, fn func(*user.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	fn(u)
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeMailer records sends and can be told to fail.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

// fakeUploader records uploads and destroys in order.
type fakeUploader struct {
	mu        sync.Mutex
	uploads   int
	destroyed []string
	calls     []string // "upload" / "destroy" interleaving
	uploadErr error
}

func (f *fakeUploader) Upload(_ context.Context, filename, _ string, r io.Reader) (media.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return media.Asset{}, f.uploadErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.uploads++
	f.calls = append(f.calls, "upload")
	id := "avatars/test/" + filename
	return media.Asset{PublicID: id, URL: "https://cdn.example.com/" + id}, nil
}

func (f *fakeUploader) Destroy(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, publicID)
	f.calls = append(f.calls, "destroy")
	return nil
}

var errUpstream = errors.New("upstream unavailable")

func testConfig() *config.Config {
	return &config.Config{
		Env:           "development",
		ClientURL:     "http://localhost:5173",
		JWTSecret:     []byte("test-secret"),
		TokenTTL:      time.Hour,
		ResetTokenTTL: 15 * time.Minute,
	}
}

type testEnv struct {
	handler  *Handler
	store    *memStore
	mail     *fakeMailer
	uploader *fakeUploader
	tokens   *Tokens
	cfg      *config.Config
}

func newTestEnv() *testEnv {
	cfg := testConfig()
	store := newMemStore()
	mail := &fakeMailer{}
	uploader := &fakeUploader{}
	tokens := NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	return &testEnv{
		handler:  NewHandler(store, tokens, mail, uploader, cfg),
		store:    store,
		mail:     mail,
		uploader: uploader,
		tokens:   tokens,
		cfg:      cfg,
	}
}
