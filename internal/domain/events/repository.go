package events

import (
	"context"
	"time"
)

type ListFilter struct {
	CattleID string
	Kind     Kind
	From     *time.Time
	To       *time.Time
	Limit    int
}

type Repository interface {
	Create(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)
	List(ctx context.Context, filter ListFilter) ([]Event, error)

	// InsertIgnoreDuplicates inserta el lote con resolución de conflicto
	// sobre id, ignorando (no sobreescribiendo) las filas duplicadas.
	// Devuelve cuántas filas se insertaron realmente; esto hace la
	// re-importación idempotente.
	InsertIgnoreDuplicates(ctx context.Context, batch []Event) (int, error)
}
