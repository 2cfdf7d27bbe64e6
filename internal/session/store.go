package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fMoyano90/universonomada-web/internal/models"
)

// ErrNotFound is returned when no session record exists for an ID, either
// because it expired or was cleared on logout.
var ErrNotFound = errors.New("session: not found")

const (
	sessionKeyPrefix = "session:"
	draftKeyPrefix   = "draft:"

	sessionTTL = 24 * time.Hour
	draftTTL   = 2 * time.Hour
)

// Store keeps admin sessions (token pair + current user) and wizard drafts
// in Redis as JSON records. Exactly one session record lives per session ID;
// logout deletes tokens and user together.
type Store struct {
	client *redis.Client
}

func NewStore(addr, password string) *Store {
	return &Store{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// Ping verifies the Redis connection at startup.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) SaveSession(ctx context.Context, id string, sess *models.Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+id, payload, sessionTTL).Err()
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess models.Session
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// SaveDraft persists a wizard draft between form steps. The value is any
// JSON-serializable draft; the wizard owns its shape.
func (s *Store) SaveDraft(ctx context.Context, id string, draft interface{}) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encoding draft: %w", err)
	}
	return s.client.Set(ctx, draftKeyPrefix+id, payload, draftTTL).Err()
}

func (s *Store) GetDraft(ctx context.Context, id string, draft interface{}) error {
	payload, err := s.client.Get(ctx, draftKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, draft)
}

func (s *Store) DeleteDraft(ctx context.Context, id string) error {
	return s.client.Del(ctx, draftKeyPrefix+id).Err()
}

// PurgeDrafts removes every stored draft. Used by the ops CLI.
func (s *Store) PurgeDrafts(ctx context.Context) (int, error) {
	keys, err := s.client.Keys(ctx, draftKeyPrefix+"*").Result()
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return 0, err
	}
	return len(keys), nil
}
