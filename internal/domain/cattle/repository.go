package cattle

import "context"

type ListFilter struct {
	Status  Status
	OwnerID string
	Query   string
	Limit   int
}

type Repository interface {
	Create(ctx context.Context, c Cattle) error
	Update(ctx context.Context, c Cattle) error

	GetByID(ctx context.Context, id string) (Cattle, error)

	// GetByCode busca por la clave natural codigo.
	GetByCode(ctx context.Context, code string) (Cattle, error)

	List(ctx context.Context, filter ListFilter) ([]Cattle, error)

	// UpsertByCode inserta o reemplaza el lote completo con resolución de
	// conflicto sobre codigo (fila completa, semántica del store).
	UpsertByCode(ctx context.Context, batch []Cattle) error

	Delete(ctx context.Context, id string) error
}
