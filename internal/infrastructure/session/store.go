package session

import (
	"container/list"
	"sync"
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/internal/domain/model"
)

// DefaultCapacity is the default bound on stored session records.
const DefaultCapacity = 1000

// Store is an in-memory, capacity-bounded session metadata store. Entries
// are kept in insertion order and the oldest are evicted once the capacity
// is exceeded. An optional TTL drops stale entries on read; it is disabled
// by default because capacity is the primary bound.
//
// All operations are safe for concurrent use and never return errors:
// consumers treat a miss as "unknown", never as "verified safe".
type Store struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // *entry, oldest first
	byKey    map[string]*list.Element
	now      func() time.Time
}

type entry struct {
	record model.SessionRecord
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets a time-to-live for stored records. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store with the given capacity. A non-positive capacity
// falls back to DefaultCapacity.
func NewStore(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		capacity: capacity,
		order:    list.New(),
		byKey:    make(map[string]*list.Element),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put inserts or fully overwrites the record for key. An overwrite moves
// the record to the newest position. When the store is full the oldest
// record is evicted.
func (s *Store) Put(key string, fingerprint model.DeviceFingerprint, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := model.SessionRecord{
		Key:         key,
		UserID:      userID,
		Fingerprint: fingerprint,
		InsertedAt:  s.now(),
	}

	if el, ok := s.byKey[key]; ok {
		el.Value.(*entry).record = rec
		s.order.MoveToBack(el)
		return
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Front()
		if oldest != nil {
			delete(s.byKey, oldest.Value.(*entry).record.Key)
			s.order.Remove(oldest)
		}
	}

	s.byKey[key] = s.order.PushBack(&entry{record: rec})
}

// RecentForUser returns up to limit records owned by userID, newest first.
// Expired records are skipped. A non-positive limit returns nothing.
func (s *Store) RecentForUser(userID string, limit int) []model.SessionRecord {
	if limit <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]model.SessionRecord, 0, limit)
	for el := s.order.Back(); el != nil && len(out) < limit; el = el.Prev() {
		rec := el.Value.(*entry).record
		if rec.UserID != userID {
			continue
		}
		if s.ttl > 0 && now.Sub(rec.InsertedAt) > s.ttl {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
