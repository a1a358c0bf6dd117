package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"livestock-traceability/internal/domain/cattle"

	"github.com/jackc/pgx/v5/pgconn"
)

type CattleRepo struct {
	db *sql.DB
}

func NewCattleRepo(db *sql.DB) *CattleRepo {
	return &CattleRepo{db: db}
}

const cattleColumns = `
	id, codigo, tag_rfid, nombre, raza, sexo,
	fecha_nacimiento, estado,
	peso_nacimiento, peso_actual, color, marcas,
	propietario_id, nombre_propietario,
	ubicacion_actual, coordenadas, observaciones, foto,
	created_at, updated_at
`

const cattleColumnCount = 20

func (r *CattleRepo) Create(ctx context.Context, c cattle.Cattle) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bovinos (`+cattleColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
	`, cattleArgs(c)...)
	return translateCattleErr(err)
}

func (r *CattleRepo) Update(ctx context.Context, c cattle.Cattle) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE bovinos
		SET
			codigo = $2,
			tag_rfid = $3,
			nombre = $4,
			raza = $5,
			sexo = $6,
			fecha_nacimiento = $7,
			estado = $8,
			peso_nacimiento = $9,
			peso_actual = $10,
			color = $11,
			marcas = $12,
			propietario_id = $13,
			nombre_propietario = $14,
			ubicacion_actual = $15,
			coordenadas = $16,
			observaciones = $17,
			foto = $18,
			updated_at = $20
		WHERE id = $1
	`, cattleArgs(c)...)
	if err != nil {
		return translateCattleErr(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cattle.ErrNotFound
	}
	return nil
}

func (r *CattleRepo) GetByID(ctx context.Context, id string) (cattle.Cattle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return cattle.Cattle{}, cattle.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+cattleColumns+`
		FROM bovinos
		WHERE id = $1
	`, id)
	return scanCattle(row)
}

func (r *CattleRepo) GetByCode(ctx context.Context, code string) (cattle.Cattle, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return cattle.Cattle{}, cattle.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+cattleColumns+`
		FROM bovinos
		WHERE codigo = $1
	`, code)
	return scanCattle(row)
}

func (r *CattleRepo) List(ctx context.Context, filter cattle.ListFilter) ([]cattle.Cattle, error) {
	query := `SELECT ` + cattleColumns + ` FROM bovinos`

	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("estado = $%d", len(args)))
	}
	if strings.TrimSpace(filter.OwnerID) != "" {
		args = append(args, strings.TrimSpace(filter.OwnerID))
		where = append(where, fmt.Sprintf("propietario_id = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+strings.ToLower(q)+"%")
		where = append(where, fmt.Sprintf("(lower(codigo) LIKE $%d OR lower(nombre) LIKE $%d)", len(args), len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]cattle.Cattle, 0)
	for rows.Next() {
		c, err := scanCattle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertByCode escribe el lote en una sola sentencia con conflicto sobre
// codigo. id y created_at de la fila existente se conservan para no colgar
// las referencias de eventos; el resto se reemplaza completo.
func (r *CattleRepo) UpsertByCode(ctx context.Context, batch []cattle.Cattle) error {
	if len(batch) == 0 {
		return nil
	}

	batch = dedupeByCode(batch)

	var sb strings.Builder
	args := make([]any, 0, len(batch)*cattleColumnCount)
	for i, c := range batch {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(")
		for j := 1; j <= cattleColumnCount; j++ {
			if j > 1 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "$%d", i*cattleColumnCount+j)
		}
		sb.WriteString(")")
		args = append(args, cattleArgs(c)...)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO bovinos (`+cattleColumns+`)
		VALUES `+sb.String()+`
		ON CONFLICT (codigo) DO UPDATE SET
			tag_rfid = EXCLUDED.tag_rfid,
			nombre = EXCLUDED.nombre,
			raza = EXCLUDED.raza,
			sexo = EXCLUDED.sexo,
			fecha_nacimiento = EXCLUDED.fecha_nacimiento,
			estado = EXCLUDED.estado,
			peso_nacimiento = EXCLUDED.peso_nacimiento,
			peso_actual = EXCLUDED.peso_actual,
			color = EXCLUDED.color,
			marcas = EXCLUDED.marcas,
			propietario_id = EXCLUDED.propietario_id,
			nombre_propietario = EXCLUDED.nombre_propietario,
			ubicacion_actual = EXCLUDED.ubicacion_actual,
			coordenadas = EXCLUDED.coordenadas,
			observaciones = EXCLUDED.observaciones,
			foto = EXCLUDED.foto,
			updated_at = EXCLUDED.updated_at
	`, args...)
	return err
}

// dedupeByCode deja una sola fila por codigo, la última del lote.
// ON CONFLICT DO UPDATE no puede tocar la misma fila dos veces en una
// sentencia; última gana, igual que el adaptador en memoria.
func dedupeByCode(batch []cattle.Cattle) []cattle.Cattle {
	last := make(map[string]int, len(batch))
	for i, c := range batch {
		last[c.Code] = i
	}
	if len(last) == len(batch) {
		return batch
	}

	out := make([]cattle.Cattle, 0, len(last))
	for i, c := range batch {
		if last[c.Code] == i {
			out = append(out, c)
		}
	}
	return out
}

func (r *CattleRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bovinos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return cattle.ErrNotFound
	}
	return nil
}

func cattleArgs(c cattle.Cattle) []any {
	return []any{
		c.ID,
		c.Code,
		c.RFIDTag,
		c.Name,
		c.Breed,
		string(c.Sex),
		toNullDate(c.BirthDate),
		string(c.Status),
		toNullFloat(c.BirthWeight),
		toNullFloat(c.CurrentWeight),
		c.Color,
		c.Markings,
		c.OwnerID,
		c.OwnerName,
		c.Location,
		c.Coordinates,
		c.Notes,
		c.PhotoURL,
		c.CreatedAt,
		c.UpdatedAt,
	}
}

func scanCattle(row rowScanner) (cattle.Cattle, error) {
	var c cattle.Cattle
	var sex, status string
	var bd sql.NullTime
	var birthWeight, currentWeight sql.NullFloat64
	if err := row.Scan(
		&c.ID,
		&c.Code,
		&c.RFIDTag,
		&c.Name,
		&c.Breed,
		&sex,
		&bd,
		&status,
		&birthWeight,
		&currentWeight,
		&c.Color,
		&c.Markings,
		&c.OwnerID,
		&c.OwnerName,
		&c.Location,
		&c.Coordinates,
		&c.Notes,
		&c.PhotoURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return cattle.Cattle{}, cattle.ErrNotFound
		}
		return cattle.Cattle{}, err
	}

	c.Sex = cattle.Sex(sex)
	c.Status = cattle.Status(status)
	if bd.Valid {
		t := bd.Time
		c.BirthDate = &t
	}
	c.BirthWeight = fromNullFloat(birthWeight)
	c.CurrentWeight = fromNullFloat(currentWeight)
	return c, nil
}

// translateCattleErr mapea la violación de unicidad de codigo al error de
// dominio.
func translateCattleErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return cattle.ErrDuplicateCode
	}
	return err
}
