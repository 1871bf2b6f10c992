package scoreboard

import (
	"sync"
	"testing"
)

func TestBoardStats(t *testing.T) {
	b := New()
	b.Record(Entry{Domain: "nash", Score: 100})
	b.Record(Entry{Domain: "minmax", Score: 50})
	b.Record(Entry{Domain: "nash", Score: 0})

	stats := b.Stats()
	if len(stats) != 2 {
		t.Fatalf("stats = %d domains, want 2", len(stats))
	}
	if stats[0].Domain != "minmax" {
		t.Errorf("first domain = %q, want minmax", stats[0].Domain)
	}
	nash := stats[1]
	if nash.Answers != 2 || nash.Perfect != 1 || nash.AverageScore != 50 {
		t.Errorf("nash = %+v", nash)
	}

	tot := b.Totals()
	if tot.Answers != 3 || tot.Perfect != 1 || tot.AverageScore != 50 {
		t.Errorf("totals = %+v", tot)
	}
}

func TestBoardRecent(t *testing.T) {
	b := New()
	for i, d := range []string{"nash", "csp", "nash"} {
		b.Record(Entry{Domain: d, Score: i * 10})
	}

	got := b.Recent("nash", 0)
	if len(got) != 2 || got[0].Score != 20 || got[1].Score != 0 {
		t.Errorf("recent nash = %+v, want newest first", got)
	}
	if got[0].At.IsZero() {
		t.Error("timestamp not set")
	}
	if n := len(b.Recent("", 1)); n != 1 {
		t.Errorf("limited recent = %d, want 1", n)
	}
}

func TestBoardCapsRecent(t *testing.T) {
	b := New()
	for i := range maxRecent + 10 {
		b.Record(Entry{Domain: "csp", Score: i % 101})
	}
	if n := len(b.Recent("", 0)); n != maxRecent {
		t.Errorf("recent = %d, want %d", n, maxRecent)
	}
	if n := b.Stats()[0].Answers; n != maxRecent+10 {
		t.Errorf("answers = %d, want every record counted", n)
	}
}

func TestBoardConcurrentRecord(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				b.Record(Entry{Domain: "strategy", Score: 100})
			}
		}()
	}
	wg.Wait()
	if got := b.Totals(); got.Answers != 400 || got.Perfect != 400 {
		t.Errorf("totals = %+v", got)
	}
}
