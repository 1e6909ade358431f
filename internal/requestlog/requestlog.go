// Package requestlog keeps the most recent HTTP requests in a fixed-size ring
// for the admin dashboard and live feed.
package requestlog

import (
	"sort"
	"sync"
	"time"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 500

// Entry is one logged request.
type Entry struct {
	Seq       uint64        `json:"seq"`
	Time      time.Time     `json:"time"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latencyNs"`
	IP        string        `json:"ip"`
	UserID    uint          `json:"userId,omitempty"`
	RequestID string        `json:"requestId,omitempty"`
}

// PathCount is a path with its hit count.
type PathCount struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

// Stats summarises the entries currently held.
type Stats struct {
	Total         uint64         `json:"total"`
	Buffered      int            `json:"buffered"`
	ByStatusClass map[string]int `json:"byStatusClass"`
	AvgLatencyMs  float64        `json:"avgLatencyMs"`
	TopPaths      []PathCount    `json:"topPaths"`
	ErrorRate     float64        `json:"errorRate"`
	OldestEntryAt *time.Time     `json:"oldestEntryAt,omitempty"`
	NewestEntryAt *time.Time     `json:"newestEntryAt,omitempty"`
}

// Ring is a mutex-guarded circular buffer. The oldest entry is dropped when full.
type Ring struct {
	mu      sync.RWMutex
	entries []Entry
	next    int
	full    bool
	seq     uint64
	subs    map[chan Entry]struct{}
}

// New returns an empty ring holding up to capacity entries.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{entries: make([]Entry, capacity), subs: make(map[chan Entry]struct{})}
}

// Capacity returns the fixed size of the ring.
func (r *Ring) Capacity() int {
	return len(r.entries)
}

// Add stores e with the next sequence number and fans it out to subscribers.
// Slow subscribers miss entries rather than block the request path.
func (r *Ring) Add(e Entry) Entry {
	r.mu.Lock()
	r.seq++
	e.Seq = r.seq
	r.entries[r.next] = e
	r.next = (r.next + 1) % len(r.entries)
	if r.next == 0 {
		r.full = true
	}
	for ch := range r.subs {
		select {
		case ch <- e:
		default:
		}
	}
	r.mu.Unlock()
	return e
}

// Len returns how many entries are held.
func (r *Ring) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lenLocked()
}

func (r *Ring) lenLocked() int {
	if r.full {
		return len(r.entries)
	}
	return r.next
}

// snapshot returns held entries oldest first.
func (r *Ring) snapshot() []Entry {
	n := r.lenLocked()
	out := make([]Entry, 0, n)
	start := 0
	if r.full {
		start = r.next
	}
	for i := 0; i < n; i++ {
		out = append(out, r.entries[(start+i)%len(r.entries)])
	}
	return out
}

// Recent returns up to limit entries, newest first.
func (r *Ring) Recent(limit int) []Entry {
	r.mu.RLock()
	all := r.snapshot()
	r.mu.RUnlock()

	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]Entry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out
}

// After returns held entries with Seq greater than seq, oldest first.
func (r *Ring) After(seq uint64) []Entry {
	r.mu.RLock()
	all := r.snapshot()
	r.mu.RUnlock()

	idx := sort.Search(len(all), func(i int) bool { return all[i].Seq > seq })
	return append([]Entry(nil), all[idx:]...)
}

// Stats computes a summary over held entries; Total counts every Add.
func (r *Ring) Stats(topN int) Stats {
	r.mu.RLock()
	all := r.snapshot()
	total := r.seq
	r.mu.RUnlock()

	st := Stats{Total: total, Buffered: len(all), ByStatusClass: map[string]int{}, TopPaths: []PathCount{}}
	if len(all) == 0 {
		return st
	}

	var latency time.Duration
	errs := 0
	paths := map[string]int{}
	for _, e := range all {
		latency += e.Latency
		class := statusClass(e.Status)
		st.ByStatusClass[class]++
		if e.Status >= 500 {
			errs++
		}
		paths[e.Path]++
	}
	st.AvgLatencyMs = float64(latency) / float64(len(all)) / float64(time.Millisecond)
	st.ErrorRate = float64(errs) / float64(len(all))
	oldest, newest := all[0].Time, all[len(all)-1].Time
	st.OldestEntryAt, st.NewestEntryAt = &oldest, &newest

	for p, c := range paths {
		st.TopPaths = append(st.TopPaths, PathCount{Path: p, Count: c})
	}
	sort.Slice(st.TopPaths, func(i, j int) bool {
		if st.TopPaths[i].Count != st.TopPaths[j].Count {
			return st.TopPaths[i].Count > st.TopPaths[j].Count
		}
		return st.TopPaths[i].Path < st.TopPaths[j].Path
	})
	if topN > 0 && len(st.TopPaths) > topN {
		st.TopPaths = st.TopPaths[:topN]
	}
	return st
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// Subscribe returns a channel receiving new entries and a cancel func.
func (r *Ring) Subscribe(buffer int) (<-chan Entry, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Entry, buffer)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subs, ch)
			r.mu.Unlock()
			close(ch)
		})
	}
}
