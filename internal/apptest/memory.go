// Package apptest provides in-memory repository and blob-store fakes for
// exercising the application services without Postgres or GCS.
package apptest

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-feed-service/internal/domain/entity"
	"github.com/oksasatya/go-feed-service/internal/domain/repository"
)

// Clock hands out strictly increasing timestamps so ordering assertions are
// deterministic regardless of wall-clock resolution.
type Clock struct {
	mu   sync.Mutex
	base time.Time
	tick int
}

func NewClock() *Clock {
	return &Clock{base: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	return c.base.Add(time.Duration(c.tick) * time.Second)
}

// UserStore is an in-memory repository.UserRepository.
type UserStore struct {
	mu    sync.Mutex
	clock *Clock
	users map[string]*entity.User
	owned map[string][]string // userID -> post ids, newest first

	// AppendPostErr, when set, fails the next AppendPost call once.
	AppendPostErr error
}

func NewUserStore(clock *Clock) *UserStore {
	return &UserStore{
		clock: clock,
		users: make(map[string]*entity.User),
		owned: make(map[string][]string),
	}
}

func (s *UserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	if u.Status == "" {
		u.Status = "I am new!"
	}
	now := s.clock.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) UpdateStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	u.UpdatedAt = s.clock.Now()
	return nil
}

func (s *UserStore) AppendPost(_ context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AppendPostErr != nil {
		err := s.AppendPostErr
		s.AppendPostErr = nil
		return err
	}
	for _, id := range s.owned[userID] {
		if id == postID {
			return nil
		}
	}
	s.owned[userID] = append([]string{postID}, s.owned[userID]...)
	return nil
}

func (s *UserStore) RemovePost(_ context.Context, userID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.owned[userID]
	for i, id := range ids {
		if id == postID {
			s.owned[userID] = append(ids[:i:i], ids[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *UserStore) PostIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.owned[userID]...), nil
}

// PostStore is an in-memory repository.PostRepository.
type PostStore struct {
	mu    sync.Mutex
	clock *Clock
	posts map[string]*entity.Post
}

func NewPostStore(clock *Clock) *PostStore {
	return &PostStore{clock: clock, posts: make(map[string]*entity.Post)}
}

func (s *PostStore) Insert(_ context.Context, p *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	now := s.clock.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	s.posts[p.ID] = &cp
	return nil
}

func (s *PostStore) GetByID(_ context.Context, id string) (*entity.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *PostStore) Update(_ context.Context, p *entity.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Title = p.Title
	cur.Content = p.Content
	cur.ImageURL = p.ImageURL
	cur.UpdatedAt = s.clock.Now()
	p.CreatedAt = cur.CreatedAt
	p.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *PostStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *PostStore) ListPage(_ context.Context, offset, limit int) ([]entity.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]entity.Post, 0, len(s.posts))
	for _, p := range s.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *PostStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts), nil
}

// BlobRecorder is an in-memory repository.BlobStore that records puts and
// deletes for assertions.
type BlobRecorder struct {
	mu      sync.Mutex
	objects map[string][]byte
	Deleted []string

	// PutErr, when set, fails every Put call.
	PutErr error
	// DeleteErr, when set, fails every Delete call.
	DeleteErr error
}

func NewBlobRecorder() *BlobRecorder {
	return &BlobRecorder{objects: make(map[string][]byte)}
}

func (b *BlobRecorder) Put(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.PutErr != nil {
		return "", b.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.objects[objectPath] = data
	return objectPath, nil
}

func (b *BlobRecorder) Delete(_ context.Context, objectPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	delete(b.objects, objectPath)
	b.Deleted = append(b.Deleted, objectPath)
	return nil
}

// Has reports whether an object is currently stored.
func (b *BlobRecorder) Has(objectPath string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[objectPath]
	return ok
}
