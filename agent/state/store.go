package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	cachex "github.com/tanpawarit/Chative-Bearing-Assistant/agent/cache"
)

var (
	ErrStateNotFound   = errors.New("conversation context not found")
	ErrNilConversation = errors.New("conversation context is nil")
	ErrInvalidSession  = errors.New("session id is empty")
)

const (
	defaultStoreKeyPrefix = "session:"
	defaultStoreTTL       = 24 * time.Hour
)

// Store is the persistence contract used by the orchestrator.
type Store interface {
	Load(ctx context.Context, sessionID string) (*ConversationContext, error)
	Save(ctx context.Context, conversation *ConversationContext) error
}

// StoreOption customizes CacheStore.
type StoreOption func(*CacheStore)

func WithKeyPrefix(prefix string) StoreOption {
	return func(s *CacheStore) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			s.keyPrefix = trimmed
		}
	}
}

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *CacheStore) {
		s.ttl = ttl
	}
}

// CacheStore keeps conversation contexts in the session cache. Every Save
// renews the expiry, so sessions expire after ttl of inactivity.
type CacheStore struct {
	cache     cachex.Cache
	keyPrefix string
	ttl       time.Duration
}

func NewCacheStore(cache cachex.Cache, opts ...StoreOption) (*CacheStore, error) {
	if cache == nil {
		return nil, errors.New("session cache is required")
	}

	store := &CacheStore{
		cache:     cache,
		keyPrefix: defaultStoreKeyPrefix,
		ttl:       defaultStoreTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(store)
		}
	}
	if store.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return store, nil
}

func (s *CacheStore) Load(ctx context.Context, sessionID string) (*ConversationContext, error) {
	key, err := s.key(sessionID)
	if err != nil {
		return nil, err
	}

	var conversation ConversationContext
	found, err := s.cache.Get(ctx, key, &conversation)
	if err != nil {
		return nil, fmt.Errorf("load conversation context: %w", err)
	}
	if !found {
		return nil, ErrStateNotFound
	}
	if conversation.SessionID == "" {
		conversation.SessionID = strings.TrimSpace(sessionID)
	}
	conversation.trimHistory()
	return &conversation, nil
}

func (s *CacheStore) Save(ctx context.Context, conversation *ConversationContext) error {
	if conversation == nil {
		return ErrNilConversation
	}
	key, err := s.key(conversation.SessionID)
	if err != nil {
		return err
	}
	if conversation.LastActivity.IsZero() {
		conversation.LastActivity = time.Now().UTC()
	}
	if err := s.cache.Set(ctx, key, conversation, s.ttl); err != nil {
		return fmt.Errorf("save conversation context: %w", err)
	}
	return nil
}

func (s *CacheStore) key(sessionID string) (string, error) {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" {
		return "", ErrInvalidSession
	}
	return s.keyPrefix + trimmed, nil
}
