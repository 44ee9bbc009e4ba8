package tui

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindFeedPage jobKind = "feed"
	jobKindDetail   jobKind = "detail"
	jobKindPDF      jobKind = "pdf"
	jobKindBrowser  jobKind = "browser"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs work off the update loop. Start and Finish are only called
// from Update, so the bookkeeping maps need no locking.
type jobBus struct {
	counter int64
	active  map[string]jobSnapshot
	last    map[jobKind]jobSnapshot
}

func newJobBus() *jobBus {
	return &jobBus{
		active: map[string]jobSnapshot{},
		last:   map[jobKind]jobSnapshot{},
	}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	b.active[id] = jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}

	return func() tea.Msg {
		payload, err := runner(context.Background())
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		log.Printf("[jobs] %s %s (duration=%s, err=%v)", id, snapshot.Status, snapshot.Duration, err)
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}
}

func (b *jobBus) Finish(snapshot jobSnapshot) {
	delete(b.active, snapshot.ID)
	b.last[snapshot.Kind] = snapshot
}

func (b *jobBus) Running(kind jobKind) int {
	n := 0
	for _, s := range b.active {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

func (b *jobBus) Busy() bool {
	return len(b.active) > 0
}

// Badges summarises running kinds and the last failure of the others.
func (b *jobBus) Badges() []string {
	kinds := map[jobKind]bool{}
	for _, s := range b.active {
		kinds[s.Kind] = true
	}
	var badges []string
	for kind := range kinds {
		badges = append(badges, fmt.Sprintf("%s…", kind))
	}
	for kind, s := range b.last {
		// Feed failures are only logged.
		if kinds[kind] || s.Status != jobStatusFailed || kind == jobKindFeedPage {
			continue
		}
		badges = append(badges, fmt.Sprintf("%s failed", kind))
	}
	sort.Strings(badges)
	return badges
}
