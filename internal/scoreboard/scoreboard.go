// Package scoreboard tallies the answers graded during one run of the
// terminal UI. Nothing is written to disk; the board dies with the process.
package scoreboard

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// maxRecent bounds the per-board answer list.
const maxRecent = 100

// Entry is one graded answer.
type Entry struct {
	Domain    string
	ProblemID string
	Answer    string
	Score     int
	Method    string
	At        time.Time
}

// DomainStats aggregates the entries of one domain.
type DomainStats struct {
	Domain       string
	Answers      int
	AverageScore float64
	Perfect      int
}

// Record adds one answer to the tally.
func (d *DomainStats) Record(score int) {
	total := d.AverageScore*float64(d.Answers) + float64(score)
	d.Answers++
	d.AverageScore = total / float64(d.Answers)
	if score == 100 {
		d.Perfect++
	}
}

// Board is safe for concurrent use. The zero value is not usable; call New.
type Board struct {
	mu      sync.Mutex
	domains map[string]*DomainStats
	recent  []Entry
	now     func() time.Time
}

func New() *Board {
	return &Board{domains: make(map[string]*DomainStats), now: time.Now}
}

// Record adds e to the domain totals and the recent list.
func (b *Board) Record(e Entry) {
	if e.At.IsZero() {
		e.At = b.now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	st, ok := b.domains[e.Domain]
	if !ok {
		st = &DomainStats{Domain: e.Domain}
		b.domains[e.Domain] = st
	}
	st.Record(e.Score)

	b.recent = append(b.recent, e)
	if len(b.recent) > maxRecent {
		b.recent = slices.Clone(b.recent[len(b.recent)-maxRecent:])
	}
}

// Stats returns the per-domain totals ordered by domain name.
func (b *Board) Stats() []DomainStats {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]DomainStats, 0, len(b.domains))
	for _, st := range b.domains {
		out = append(out, *st)
	}
	slices.SortFunc(out, func(a, c DomainStats) int { return cmp.Compare(a.Domain, c.Domain) })
	return out
}

// Totals sums every domain. AverageScore is weighted by answers.
func (b *Board) Totals() DomainStats {
	var t DomainStats
	var sum float64
	for _, st := range b.Stats() {
		t.Answers += st.Answers
		t.Perfect += st.Perfect
		sum += st.AverageScore * float64(st.Answers)
	}
	if t.Answers > 0 {
		t.AverageScore = sum / float64(t.Answers)
	}
	return t
}

// Recent returns up to limit entries for domain, newest first. An empty
// domain matches every entry and a limit of 0 means no limit.
func (b *Board) Recent(domain string, limit int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Entry
	for i := len(b.recent) - 1; i >= 0; i-- {
		e := b.recent[i]
		if domain != "" && e.Domain != domain {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
