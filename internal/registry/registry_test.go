package registry

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type counter struct {
	n        int
	inFlight int
	overlap  bool
}

func TestCreateAndUpdate(t *testing.T) {
	r := New[counter]()
	if err := r.Create("a", counter{}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := r.Create("a", counter{}); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := r.Update("a", func(c *counter) error { c.n = 7; return nil }); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	var got int
	if err := r.View("a", func(c *counter) { got = c.n }); err != nil || got != 7 {
		t.Fatalf("expected 7, got %d (%v)", got, err)
	}
}

func TestUpdateMissing(t *testing.T) {
	r := New[counter]()
	if err := r.Update("missing", func(*counter) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePropagatesError(t *testing.T) {
	r := New[counter]()
	_ = r.Create("a", counter{})
	boom := errors.New("boom")
	if err := r.Update("a", func(*counter) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error, got %v", err)
	}
}

func TestUpdateSerializesSameID(t *testing.T) {
	r := New[counter]()
	_ = r.Create("a", counter{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.Update("a", func(c *counter) error {
				c.inFlight++
				if c.inFlight > 1 {
					c.overlap = true
				}
				c.n++
				time.Sleep(time.Millisecond)
				c.inFlight--
				return nil
			})
		}()
	}
	wg.Wait()

	_ = r.View("a", func(c *counter) {
		if c.n != 50 || c.overlap {
			t.Fatalf("expected 50 serialized updates, got n=%d overlap=%v", c.n, c.overlap)
		}
	})
}

func TestSweepEvictsRejected(t *testing.T) {
	r := New[counter]()
	_ = r.Create("keep", counter{n: 1})
	_ = r.Create("drop", counter{n: 2})

	evicted := r.Sweep(time.Now(), func(id string, c *counter, now time.Time) bool {
		c.n *= 10
		return id == "keep"
	})
	if evicted != 1 || r.Len() != 1 {
		t.Fatalf("expected one eviction, got %d (len %d)", evicted, r.Len())
	}
	if err := r.View("drop", func(*counter) {}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected evicted id to be gone, got %v", err)
	}
	_ = r.View("keep", func(c *counter) {
		if c.n != 10 {
			t.Fatalf("expected sweep mutation to stick, got %d", c.n)
		}
	})
}

func TestRangeStops(t *testing.T) {
	r := New[counter]()
	for _, id := range []string{"a", "b", "c"} {
		_ = r.Create(id, counter{})
	}
	seen := 0
	r.Range(func(string, *counter) bool {
		seen++
		return false
	})
	if seen != 1 {
		t.Fatalf("expected range to stop after first, saw %d", seen)
	}
}

func TestSweepSkipsBusyValue(t *testing.T) {
	r := New[counter]()
	_ = r.Create("busy", counter{})
	_ = r.Create("idle", counter{})

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = r.Update("busy", func(c *counter) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	done := make(chan int, 1)
	go func() {
		done <- r.Sweep(time.Now(), func(id string, c *counter, now time.Time) bool { return false })
	}()
	select {
	case n := <-done:
		if n != 1 {
			t.Fatalf("expected only the idle value evicted, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("sweep blocked behind an in-flight update")
	}
	if err := r.View("idle", func(*counter) {}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected idle value evicted, got %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("expected busy value kept, got %d values", r.Len())
	}
}

func TestUpdateDifferentIDsProceed(t *testing.T) {
	r := New[counter]()
	_ = r.Create("a", counter{})
	_ = r.Create("b", counter{})

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = r.Update("a", func(c *counter) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	done := make(chan error, 1)
	go func() {
		done <- r.Update("b", func(c *counter) error {
			c.n++
			return nil
		})
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("update on b blocked behind a")
	}
}
