package postgres

import (
	"context"
	"database/sql"
	"strings"

	"livestock-traceability/internal/domain/owners"
)

type OwnersRepo struct {
	db *sql.DB
}

func NewOwnersRepo(db *sql.DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

const ownerColumns = `
	id, tipo_propietario, nombre, apellidos,
	tipo_documento, numero_documento,
	telefono, email, direccion, ciudad, departamento,
	observaciones, created_at, updated_at
`

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO propietarios (`+ownerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`, ownerArgs(o)...)
	return err
}

func (r *OwnersRepo) Update(ctx context.Context, o owners.Owner) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE propietarios
		SET
			tipo_propietario = $2,
			nombre = $3,
			apellidos = $4,
			tipo_documento = $5,
			numero_documento = $6,
			telefono = $7,
			email = $8,
			direccion = $9,
			ciudad = $10,
			departamento = $11,
			observaciones = $12,
			updated_at = $14
		WHERE id = $1
	`, ownerArgs(o)...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return owners.ErrNotFound
	}
	return nil
}

// Upsert inserta o reemplaza por conflicto de id. created_at se conserva en
// el reemplazo.
func (r *OwnersRepo) Upsert(ctx context.Context, o owners.Owner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO propietarios (`+ownerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		ON CONFLICT (id) DO UPDATE SET
			tipo_propietario = EXCLUDED.tipo_propietario,
			nombre = EXCLUDED.nombre,
			apellidos = EXCLUDED.apellidos,
			tipo_documento = EXCLUDED.tipo_documento,
			numero_documento = EXCLUDED.numero_documento,
			telefono = EXCLUDED.telefono,
			email = EXCLUDED.email,
			direccion = EXCLUDED.direccion,
			ciudad = EXCLUDED.ciudad,
			departamento = EXCLUDED.departamento,
			observaciones = EXCLUDED.observaciones,
			updated_at = EXCLUDED.updated_at
	`, ownerArgs(o)...)
	return err
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return owners.Owner{}, owners.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+ownerColumns+`
		FROM propietarios
		WHERE id = $1
	`, id)
	return scanOwner(row)
}

func (r *OwnersRepo) GetByName(ctx context.Context, name string) (owners.Owner, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return owners.Owner{}, owners.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+ownerColumns+`
		FROM propietarios
		WHERE nombre = $1
		LIMIT 1
	`, name)
	return scanOwner(row)
}

func (r *OwnersRepo) List(ctx context.Context) ([]owners.Owner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+ownerColumns+`
		FROM propietarios
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OwnersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM propietarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return owners.ErrNotFound
	}
	return nil
}

func ownerArgs(o owners.Owner) []any {
	return []any{
		o.ID,
		string(o.Kind),
		o.Name,
		o.Surname,
		string(o.DocumentKind),
		o.DocumentNumber,
		o.Phone,
		o.Email,
		o.Address,
		o.City,
		o.Region,
		o.Notes,
		o.CreatedAt,
		o.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOwner(row rowScanner) (owners.Owner, error) {
	var o owners.Owner
	var kind, docKind string
	if err := row.Scan(
		&o.ID,
		&kind,
		&o.Name,
		&o.Surname,
		&docKind,
		&o.DocumentNumber,
		&o.Phone,
		&o.Email,
		&o.Address,
		&o.City,
		&o.Region,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return owners.Owner{}, owners.ErrNotFound
		}
		return owners.Owner{}, err
	}
	o.Kind = owners.Kind(kind)
	o.DocumentKind = owners.DocumentKind(docKind)
	return o, nil
}
