// Package memory holds in-flight conversations for the process lifetime.
package memory

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sandevgo/skyline/internal/core"
)

const DefaultMaxConversations = 1024

// Store is an LRU-bounded core.ConversationStore. Conversations live until
// evicted by capacity pressure; nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *core.Conversation]
	locks sync.Map // conversation id -> *sync.Mutex
}

func NewStore(maxConversations int) (*Store, error) {
	if maxConversations <= 0 {
		maxConversations = DefaultMaxConversations
	}
	cache, err := lru.New[string, *core.Conversation](maxConversations)
	if err != nil {
		return nil, err
	}
	return &Store{cache: cache}, nil
}

func (s *Store) Get(id string) (*core.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Get(id)
}

func (s *Store) GetOrCreate(id string) *core.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.cache.Get(id); ok {
		return conv
	}
	conv := &core.Conversation{ID: id, CreatedAt: time.Now()}
	s.cache.Add(id, conv)
	return conv
}

// Acquire serializes turns on one conversation id. Concurrent requests for
// different ids proceed independently.
func (s *Store) Acquire(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
