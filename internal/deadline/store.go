package deadline

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"prazo/internal/storage"
)

const (
	DefaultKey             = "deadlines"
	DefaultRefreshInterval = time.Minute
)

// Store owns the deadline list and keeps the persisted copy in step with it.
// It is safe for concurrent use.
type Store struct {
	kv     storage.KV
	key    string
	now    func() time.Time
	logger *log.Logger

	mu      sync.Mutex
	items   []Deadline
	entropy io.Reader
	subs    map[int]func()
	nextSub int
}

type Option func(*Store)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithKey changes the storage key the list is kept under.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore loads the persisted list from kv and reclassifies it. A missing
// or unreadable value yields an empty list.
func NewStore(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:      kv,
		key:     DefaultKey,
		now:     time.Now,
		logger:  log.Default(),
		entropy: ulid.Monotonic(rand.Reader, 0),
		subs:    make(map[int]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.kv == nil {
		s.kv = storage.NewMemory()
	}
	s.items = s.load()
	s.RecomputeStatuses()
	return s
}

func (s *Store) load() []Deadline {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Printf("deadline: read %q: %v", s.key, err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var items []Deadline
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Printf("deadline: discarding malformed %q: %v", s.key, err)
		return nil
	}
	loc := s.now().Location()
	for i := range items {
		y, m, d := items[i].DueDate.Date()
		items[i].DueDate = time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return items
}

// Today is the current date at midnight according to the store's clock.
func (s *Store) Today() time.Time {
	return DateOf(s.now())
}

// List returns a copy of the records in insertion order.
func (s *Store) List() []Deadline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Get(id string) (Deadline, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.items {
		if d.ID == id {
			return d, true
		}
	}
	return Deadline{}, false
}

// Add parses raw and appends a new record. It reports false, leaving the list
// untouched, when raw is not a valid deadline.
func (s *Store) Add(subject, recipient, raw string) (Deadline, bool) {
	now := s.now()
	today := DateOf(now)
	due, ok := ParseInput(raw, today)
	if !ok {
		return Deadline{}, false
	}

	s.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	if err != nil {
		s.mu.Unlock()
		s.logger.Printf("deadline: generate id: %v", err)
		return Deadline{}, false
	}
	d := Deadline{
		ID:            id.String(),
		Subject:       subject,
		Recipient:     recipient,
		DueDate:       due,
		OriginalInput: raw,
		Status:        Classify(due, today),
	}
	s.items = append(s.items, d)
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return d, true
}

// Delete removes the record with id. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	idx := -1
	for i, d := range s.items {
		if d.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
}

// RecomputeStatuses reclassifies every record against today. Storage is
// rewritten and subscribers notified only when some status changed.
func (s *Store) RecomputeStatuses() bool {
	today := DateOf(s.now())

	s.mu.Lock()
	changed := false
	for i := range s.items {
		st := Classify(s.items[i].DueDate, today)
		if st != s.items[i].Status {
			s.items[i].Status = st
			changed = true
		}
	}
	if !changed {
		s.mu.Unlock()
		return false
	}
	s.commitLocked()
	s.mu.Unlock()

	s.notify()
	return true
}

// Subscribe registers fn to be called after every change. fn runs on the
// goroutine that made the change and should read the current state with
// List. The returned function removes it.
func (s *Store) Subscribe(fn func()) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Start recomputes statuses every interval until ctx is done or stop is
// called. stop waits for the refresh goroutine to exit.
func (s *Store) Start(ctx context.Context, every time.Duration) (stop func()) {
	if every <= 0 {
		every = DefaultRefreshInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RecomputeStatuses()
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

// commitLocked writes the list through to storage. Write failures are
// logged; the in-memory list stays authoritative.
func (s *Store) commitLocked() {
	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		s.logger.Printf("deadline: encode: %v", err)
		return
	}
	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.logger.Printf("deadline: write %q: %v", s.key, err)
	}
}

func (s *Store) snapshotLocked() []Deadline {
	out := make([]Deadline, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
