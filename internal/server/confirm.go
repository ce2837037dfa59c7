package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// confirmStore backs the two-step flow for destructive operations. The first
// request gets a short-lived token scoped to (operation, schema); only a
// second request presenting that exact token executes. Tokens are single-use.
type confirmStore struct {
	mu     sync.Mutex
	tokens map[string]confirmEntry
	ttl    time.Duration
	now    func() time.Time
}

type confirmEntry struct {
	op      string
	schema  string
	expires time.Time
}

func newConfirmStore(ttl time.Duration) *confirmStore {
	return &confirmStore{
		tokens: make(map[string]confirmEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

// issue mints a token for op on schema and returns it with its expiry.
func (s *confirmStore) issue(op, schema string) (string, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()

	token := uuid.NewString()
	expires := s.now().Add(s.ttl)
	s.tokens[token] = confirmEntry{op: op, schema: schema, expires: expires}
	return token, expires
}

// redeem consumes token if it matches op and schema and has not expired.
func (s *confirmStore) redeem(token, op, schema string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return false
	}
	delete(s.tokens, token)
	return entry.op == op && entry.schema == schema && s.now().Before(entry.expires)
}

func (s *confirmStore) sweepLocked() {
	now := s.now()
	for token, entry := range s.tokens {
		if !now.Before(entry.expires) {
			delete(s.tokens, token)
		}
	}
}
