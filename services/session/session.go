// Package session remembers the last search criteria per user so a later
// next-page postback can resume pagination without re-parsing.
package session

import (
	"time"

	"github.com/chiehyu/popodoc/logger"
	"github.com/chiehyu/popodoc/services/search"
	cache "github.com/patrickmn/go-cache"
)

// Store is a process-local TTL cache keyed by user id. Expiry is enforced
// lazily: there is no background janitor, expired entries are swept in bulk on
// the next Get for any user. That keeps the store free of timers at the cost
// of stale entries lingering between reads.
type Store struct {
	logger logger.Logger
	cache  *cache.Cache
}

func New(logger logger.Logger, ttl time.Duration) *Store {
	return &Store{
		logger: logger,
		cache:  cache.New(ttl, 0), // cleanup interval 0 disables the janitor
	}
}

// Put stores the criteria for the user, overwriting any prior entry and
// resetting its expiry.
func (s *Store) Put(userID string, criteria search.Criteria) {
	s.cache.SetDefault(userID, criteria)
}

// Get sweeps every expired entry, then returns the criteria for the user.
// The second return value is false when the session expired or never existed;
// that is a normal outcome, not an error.
func (s *Store) Get(userID string) (search.Criteria, bool) {
	s.cache.DeleteExpired()

	value, found := s.cache.Get(userID)
	if !found {
		return search.Criteria{}, false
	}

	criteria, ok := value.(search.Criteria)
	if !ok {
		s.logger.Warn("unexpected session entry type, dropping", "user_id", userID)
		s.cache.Delete(userID)
		return search.Criteria{}, false
	}

	return criteria, true
}
