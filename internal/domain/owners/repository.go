package owners

import "context"

type Repository interface {
	Create(ctx context.Context, o Owner) error
	Update(ctx context.Context, o Owner) error

	// Upsert inserta o reemplaza por conflicto de id (clave opaca).
	Upsert(ctx context.Context, o Owner) error

	GetByID(ctx context.Context, id string) (Owner, error)

	// GetByName busca por coincidencia exacta de nombre (clave natural).
	GetByName(ctx context.Context, name string) (Owner, error)

	List(ctx context.Context) ([]Owner, error)
	Delete(ctx context.Context, id string) error
}
