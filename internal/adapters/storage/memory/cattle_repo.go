package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"livestock-traceability/internal/domain/cattle"
)

type cattleRepo struct {
	mu     sync.RWMutex
	byID   map[string]cattle.Cattle
	byCode map[string]string // codigo -> id
}

func NewCattleRepo() cattle.Repository {
	return &cattleRepo{
		byID:   make(map[string]cattle.Cattle),
		byCode: make(map[string]string),
	}
}

func (r *cattleRepo) Create(ctx context.Context, c cattle.Cattle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("cattle id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("cattle already exists")
	}
	if _, exists := r.byCode[c.Code]; exists {
		return cattle.ErrDuplicateCode
	}
	r.byID[c.ID] = c
	r.byCode[c.Code] = c.ID
	return nil
}

func (r *cattleRepo) Update(ctx context.Context, c cattle.Cattle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.byID[c.ID]
	if !exists {
		return cattle.ErrNotFound
	}
	if prev.Code != c.Code {
		if otherID, taken := r.byCode[c.Code]; taken && otherID != c.ID {
			return cattle.ErrDuplicateCode
		}
		delete(r.byCode, prev.Code)
		r.byCode[c.Code] = c.ID
	}
	r.byID[c.ID] = c
	return nil
}

func (r *cattleRepo) GetByID(ctx context.Context, id string) (cattle.Cattle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return cattle.Cattle{}, cattle.ErrNotFound
	}
	return c, nil
}

func (r *cattleRepo) GetByCode(ctx context.Context, code string) (cattle.Cattle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCode[code]
	if !ok {
		return cattle.Cattle{}, cattle.ErrNotFound
	}
	return r.byID[id], nil
}

func (r *cattleRepo) List(ctx context.Context, filter cattle.ListFilter) ([]cattle.Cattle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(filter.Query))

	out := make([]cattle.Cattle, 0, len(r.byID))
	for _, c := range r.byID {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.OwnerID != "" && c.OwnerID != filter.OwnerID {
			continue
		}
		if query != "" {
			name := strings.ToLower(c.Name)
			code := strings.ToLower(c.Code)
			if !strings.Contains(name, query) && !strings.Contains(code, query) {
				continue
			}
		}
		out = append(out, c)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// UpsertByCode inserta o reemplaza por codigo, conservando id y created_at
// de la fila existente para no dejar eventos colgados.
func (r *cattleRepo) UpsertByCode(ctx context.Context, rows []cattle.Cattle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range rows {
		if strings.TrimSpace(c.Code) == "" {
			return errors.New("cattle code required")
		}
		if existingID, ok := r.byCode[c.Code]; ok {
			prev := r.byID[existingID]
			c.ID = prev.ID
			c.CreatedAt = prev.CreatedAt
		}
		r.byID[c.ID] = c
		r.byCode[c.Code] = c.ID
	}
	return nil
}

func (r *cattleRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return cattle.ErrNotFound
	}
	delete(r.byCode, c.Code)
	delete(r.byID, id)
	return nil
}
