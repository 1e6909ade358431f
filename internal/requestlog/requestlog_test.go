package requestlog

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(path string, status int, latency time.Duration) Entry {
	return Entry{Time: time.Now(), Method: "GET", Path: path, Status: status, Latency: latency}
}

func TestRingDropsOldest(t *testing.T) {
	r := New(3)
	for i := 0; i < 5; i++ {
		r.Add(entry(fmt.Sprintf("/p%d", i), 200, time.Millisecond))
	}

	assert.Equal(t, 3, r.Len())
	recent := r.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "/p4", recent[0].Path)
	assert.Equal(t, "/p2", recent[2].Path)
	assert.Equal(t, uint64(5), recent[0].Seq)

	assert.Len(t, r.Recent(2), 2)
}

func TestRingAfter(t *testing.T) {
	r := New(4)
	for i := 0; i < 6; i++ {
		r.Add(entry("/", 200, 0))
	}

	after := r.After(4)
	require.Len(t, after, 2)
	assert.Equal(t, uint64(5), after[0].Seq)
	assert.Equal(t, uint64(6), after[1].Seq)

	assert.Len(t, r.After(0), 4, "entries older than the ring are gone")
	assert.Empty(t, r.After(6))
}

func TestRingStats(t *testing.T) {
	r := New(10)
	assert.Equal(t, 0, r.Stats(5).Buffered)

	r.Add(entry("/a", 200, 10*time.Millisecond))
	r.Add(entry("/a", 404, 20*time.Millisecond))
	r.Add(entry("/b", 500, 30*time.Millisecond))
	r.Add(entry("/a", 201, 40*time.Millisecond))

	st := r.Stats(1)
	assert.Equal(t, uint64(4), st.Total)
	assert.Equal(t, 4, st.Buffered)
	assert.Equal(t, map[string]int{"2xx": 2, "4xx": 1, "5xx": 1}, st.ByStatusClass)
	assert.InDelta(t, 25.0, st.AvgLatencyMs, 0.001)
	assert.InDelta(t, 0.25, st.ErrorRate, 0.001)
	assert.Equal(t, []PathCount{{Path: "/a", Count: 3}}, st.TopPaths)
}

func TestRingConcurrentAdds(t *testing.T) {
	r := New(50)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				r.Add(entry("/x", 200, 0))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(800), r.Stats(0).Total)
	assert.Equal(t, 50, r.Len())
}

func TestRingSubscribe(t *testing.T) {
	r := New(5)
	ch, cancel := r.Subscribe(2)

	r.Add(entry("/one", 200, 0))
	got := <-ch
	assert.Equal(t, "/one", got.Path)

	cancel()
	cancel()
	r.Add(entry("/two", 200, 0))
	_, open := <-ch
	assert.False(t, open)
}
