package memory

import (
	"context"
	"sync"

	"go-leave/internal/model"
	"go-leave/internal/storage"

	"go.uber.org/zap"
)

// Store keeps users and leave requests in process memory. It is safe for
// concurrent use; updates hold the write lock across read-merge-write.
type Store struct {
	mu            sync.RWMutex
	users         map[string]model.User
	leaveRequests map[string]model.LeaveRequest

	now    storage.Clock
	newID  storage.IDGenerator
	logger *zap.Logger
}

type Option func(*Store)

func WithClock(c storage.Clock) Option {
	return func(s *Store) { s.now = c }
}

func WithIDGenerator(g storage.IDGenerator) Option {
	return func(s *Store) { s.newID = g }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.Named("storage.memory")
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		users:         make(map[string]model.User),
		leaveRequests: make(map[string]model.LeaveRequest),
		now:           storage.SystemClock,
		newID:         storage.NewID,
		logger:        zap.L().Named("storage.memory"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) GetUser(_ context.Context, id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, storage.ErrNotFound
}

func (s *Store) CreateUser(_ context.Context, in model.InsertUser) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := in.ID
	if id == "" {
		id = s.newID()
	} else if _, exists := s.users[id]; exists {
		s.logger.Warn("create user duplicate id", zap.String("user_id", id))
		return model.User{}, storage.ErrConflict
	}

	u := model.NewUser(id, in, s.now())
	s.users[id] = u
	return u, nil
}

func (s *Store) GetLeaveRequest(_ context.Context, id string) (model.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.leaveRequests[id]
	if !ok {
		return model.LeaveRequest{}, storage.ErrNotFound
	}
	return r, nil
}

func (s *Store) GetAllLeaveRequests(_ context.Context) ([]model.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.LeaveRequest, 0, len(s.leaveRequests))
	for _, r := range s.leaveRequests {
		out = append(out, r)
	}
	storage.SortBySubmittedDesc(out)
	return out, nil
}

func (s *Store) GetUserLeaveRequests(_ context.Context, userID string) ([]model.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.LeaveRequest, 0)
	for _, r := range s.leaveRequests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	storage.SortBySubmittedDesc(out)
	return out, nil
}

func (s *Store) CreateLeaveRequest(_ context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := model.NewLeaveRequest(s.newID(), in, s.now())
	s.leaveRequests[r.ID] = r
	return r, nil
}

func (s *Store) UpdateLeaveRequest(_ context.Context, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.leaveRequests[id]
	if !ok {
		return model.LeaveRequest{}, storage.ErrNotFound
	}
	if err := storage.CheckExpected(current, upd); err != nil {
		return model.LeaveRequest{}, err
	}

	updated := upd.Apply(current)
	updated.UpdatedAt = model.NextUpdatedAt(current.UpdatedAt, s.now())
	s.leaveRequests[id] = updated
	return updated, nil
}

func (s *Store) DeleteLeaveRequest(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.leaveRequests[id]; !ok {
		return false, nil
	}
	delete(s.leaveRequests, id)
	return true, nil
}
