package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"licentia/pkg/domain"
	dErrors "licentia/pkg/domain-errors"
)

// defaultSessionTTL bounds how long an abandoned session lingers.
const defaultSessionTTL = 24 * time.Hour

// RedisStore keeps sessions in Redis with a TTL so abandoned workflows
// expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wires the session store. A zero ttl falls back to the
// default.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id domain.WorkflowID) string {
	return "workflow:session:" + id.String()
}

func (s *RedisStore) Save(ctx context.Context, state *State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "encode workflow state")
	}
	if err := s.client.Set(ctx, sessionKey(state.ID), payload, s.ttl).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "save workflow state")
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id domain.WorkflowID) (*State, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load workflow state")
	}
	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "decode workflow state")
	}
	return &state, nil
}

func (s *RedisStore) Delete(ctx context.Context, id domain.WorkflowID) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete workflow state")
	}
	return nil
}
