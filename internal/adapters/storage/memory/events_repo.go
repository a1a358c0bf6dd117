package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"livestock-traceability/internal/domain/events"
)

type eventsRepo struct {
	mu   sync.RWMutex
	byID map[string]events.Event
}

func NewEventsRepo() events.Repository {
	return &eventsRepo{
		byID: make(map[string]events.Event),
	}
}

func (r *eventsRepo) Create(ctx context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(e.ID) == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *eventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return events.Event{}, events.ErrNotFound
	}
	return e, nil
}

func (r *eventsRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]events.Event, 0, len(r.byID))
	for _, e := range r.byID {
		if filter.CattleID != "" && e.CattleID != filter.CattleID {
			continue
		}
		if filter.Kind != "" && e.Kind != filter.Kind {
			continue
		}
		if filter.From != nil && e.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.Date.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}

	// Mismo orden que el adaptador de postgres: fecha desc, created_at desc
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// InsertIgnoreDuplicates inserta solo los eventos cuyo id no existe y
// devuelve cuantos entraron realmente.
func (r *eventsRepo) InsertIgnoreDuplicates(ctx context.Context, rows []events.Event) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, e := range rows {
		if strings.TrimSpace(e.ID) == "" {
			return inserted, errors.New("event id required")
		}
		if _, exists := r.byID[e.ID]; exists {
			continue
		}
		r.byID[e.ID] = e
		inserted++
	}
	return inserted, nil
}
