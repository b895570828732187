// Package redisdoc stores users and leave requests as JSON documents in Redis.
// Listings are served from sorted sets scored by submission time.
package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-leave/internal/model"
	"go-leave/internal/storage"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// createUserScript writes the user document only when the id is free and
	// indexes the email in the same step. Returns 0 for a taken id.
	createUserScript = `
if redis.call("SET", KEYS[1], ARGV[1], "NX") == false then
	return 0
end
redis.call("HSETNX", KEYS[2], ARGV[2], ARGV[3])
return 1
`
	// releaseLockScript deletes the lock only while it still holds our token.
	releaseLockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

	defaultPrefix = "leave"
	lockTTL       = 5 * time.Second
	lockAttempts  = 50
	lockBackoff   = 10 * time.Millisecond
)

type Store struct {
	rdb    redis.Cmdable
	prefix string
	now    storage.Clock
	newID  storage.IDGenerator
	logger *zap.Logger
}

type Option func(*Store)

func WithPrefix(p string) Option {
	return func(s *Store) {
		if p != "" {
			s.prefix = p
		}
	}
}

func WithClock(c storage.Clock) Option {
	return func(s *Store) { s.now = c }
}

func WithIDGenerator(g storage.IDGenerator) Option {
	return func(s *Store) { s.newID = g }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.Named("storage.redis")
		}
	}
}

func New(rdb redis.Cmdable, opts ...Option) *Store {
	s := &Store{
		rdb:    rdb,
		prefix: defaultPrefix,
		now:    storage.SystemClock,
		newID:  storage.NewID,
		logger: zap.L().Named("storage.redis"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) userKey(id string) string    { return fmt.Sprintf("%s:user:%s", s.prefix, id) }
func (s *Store) emailIndexKey() string       { return s.prefix + ":users:email" }
func (s *Store) requestKey(id string) string { return fmt.Sprintf("%s:request:%s", s.prefix, id) }
func (s *Store) lockKey(id string) string    { return s.requestKey(id) + ":lock" }
func (s *Store) allRequestsKey() string      { return s.prefix + ":requests:all" }

func (s *Store) userRequestsKey(uid string) string {
	return fmt.Sprintf("%s:requests:user:%s", s.prefix, uid)
}

func (s *Store) fail(op string, err error) error {
	s.logger.Error("storage operation failed", zap.String("op", op), zap.Error(err))
	return storage.Wrap(op, err)
}

func (s *Store) GetUser(ctx context.Context, id string) (model.User, error) {
	var u model.User
	if err := s.getDoc(ctx, s.userKey(id), &u); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.User{}, err
		}
		return model.User{}, s.fail("get user", err)
	}
	return u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	id, err := s.rdb.HGet(ctx, s.emailIndexKey(), email).Result()
	if errors.Is(err, redis.Nil) {
		return model.User{}, storage.ErrNotFound
	}
	if err != nil {
		return model.User{}, s.fail("get user by email", err)
	}
	return s.GetUser(ctx, id)
}

// CreateUser refuses to overwrite an existing id. The document and the email
// index are written atomically; the index keeps the first user registered
// under an address.
func (s *Store) CreateUser(ctx context.Context, in model.InsertUser) (model.User, error) {
	id := in.ID
	if id == "" {
		id = s.newID()
	}
	u := model.NewUser(id, in, s.now())

	payload, err := json.Marshal(u)
	if err != nil {
		return model.User{}, s.fail("create user", err)
	}

	created, err := s.rdb.Eval(ctx, createUserScript,
		[]string{s.userKey(id), s.emailIndexKey()},
		string(payload), u.Email, id,
	).Int()
	if err != nil {
		return model.User{}, s.fail("create user", err)
	}
	if created == 0 {
		s.logger.Warn("create user duplicate id", zap.String("user_id", id))
		return model.User{}, storage.ErrConflict
	}
	return u, nil
}

func (s *Store) GetLeaveRequest(ctx context.Context, id string) (model.LeaveRequest, error) {
	var r model.LeaveRequest
	if err := s.getDoc(ctx, s.requestKey(id), &r); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return model.LeaveRequest{}, err
		}
		return model.LeaveRequest{}, s.fail("get leave request", err)
	}
	return r, nil
}

func (s *Store) GetAllLeaveRequests(ctx context.Context) ([]model.LeaveRequest, error) {
	out, err := s.listByIndex(ctx, s.allRequestsKey())
	if err != nil {
		return nil, s.fail("get all leave requests", err)
	}
	return out, nil
}

func (s *Store) GetUserLeaveRequests(ctx context.Context, userID string) ([]model.LeaveRequest, error) {
	out, err := s.listByIndex(ctx, s.userRequestsKey(userID))
	if err != nil {
		return nil, s.fail("get user leave requests", err)
	}
	return out, nil
}

func (s *Store) CreateLeaveRequest(ctx context.Context, in model.InsertLeaveRequest) (model.LeaveRequest, error) {
	r := model.NewLeaveRequest(s.newID(), in, s.now())

	payload, err := json.Marshal(r)
	if err != nil {
		return model.LeaveRequest{}, s.fail("create leave request", err)
	}

	member := redis.Z{Score: score(r.SubmittedAt), Member: r.ID}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.requestKey(r.ID), string(payload), 0)
		pipe.ZAdd(ctx, s.allRequestsKey(), member)
		pipe.ZAdd(ctx, s.userRequestsKey(r.UserID), member)
		return nil
	})
	if err != nil {
		return model.LeaveRequest{}, s.fail("create leave request", err)
	}
	return r, nil
}

// UpdateLeaveRequest serialises writers on a per-request lock key so the
// read-merge-write is atomic with respect to other updates and deletes. The
// write only replaces an existing document, so a delete that slipped in after
// an expired lock is never undone.
func (s *Store) UpdateLeaveRequest(ctx context.Context, id string, upd model.LeaveRequestUpdate) (model.LeaveRequest, error) {
	release, err := s.lock(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return model.LeaveRequest{}, err
		}
		return model.LeaveRequest{}, s.fail("update leave request", err)
	}
	defer release()

	current, err := s.GetLeaveRequest(ctx, id)
	if err != nil {
		return model.LeaveRequest{}, err
	}
	if err := storage.CheckExpected(current, upd); err != nil {
		return model.LeaveRequest{}, err
	}

	updated := upd.Apply(current)
	updated.UpdatedAt = model.NextUpdatedAt(current.UpdatedAt, s.now())

	payload, err := json.Marshal(updated)
	if err != nil {
		return model.LeaveRequest{}, s.fail("update leave request", err)
	}
	replaced, err := s.rdb.SetXX(ctx, s.requestKey(id), string(payload), 0).Result()
	if err != nil {
		return model.LeaveRequest{}, s.fail("update leave request", err)
	}
	if !replaced {
		return model.LeaveRequest{}, storage.ErrNotFound
	}
	return updated, nil
}

func (s *Store) DeleteLeaveRequest(ctx context.Context, id string) (bool, error) {
	release, err := s.lock(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return false, err
		}
		return false, s.fail("delete leave request", err)
	}
	defer release()

	current, err := s.GetLeaveRequest(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var del *redis.IntCmd
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.requestKey(id))
		pipe.ZRem(ctx, s.allRequestsKey(), id)
		pipe.ZRem(ctx, s.userRequestsKey(current.UserID), id)
		return nil
	})
	if err != nil {
		return false, s.fail("delete leave request", err)
	}
	return del.Val() > 0, nil
}

func (s *Store) getDoc(ctx context.Context, key string, dst any) error {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return storage.ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dst)
}

func (s *Store) listByIndex(ctx context.Context, index string) ([]model.LeaveRequest, error) {
	ids, err := s.rdb.ZRevRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.LeaveRequest, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.requestKey(id)
	}
	values, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry outlived its document
			continue
		}
		var r model.LeaveRequest
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	storage.SortBySubmittedDesc(out)
	return out, nil
}

// lock takes the per-request lock under a fresh token. Release only deletes
// the key while it still holds that token, so a lock that expired and was
// taken by another writer is left alone.
func (s *Store) lock(ctx context.Context, id string) (func(), error) {
	key := s.lockKey(id)
	token := s.newID()
	for attempt := 0; attempt < lockAttempts; attempt++ {
		ok, err := s.rdb.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				err := s.rdb.Eval(context.WithoutCancel(ctx), releaseLockScript, []string{key}, token).Err()
				if err != nil {
					s.logger.Warn("release request lock failed", zap.String("request_id", id), zap.Error(err))
				}
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockBackoff):
		}
	}
	s.logger.Warn("request lock busy", zap.String("request_id", id))
	return nil, storage.ErrConflict
}

func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}
