package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"livestock-traceability/internal/domain/events"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `
	id, bovino_id, tipo, fecha, descripcion,
	medicamento, dosis, veterinario, observaciones,
	peso_kg, costo, ubicacion, hora, comprador, destino,
	litros, turno, ganancia_dia,
	created_at
`

const eventColumnCount = 19

func (r *EventsRepo) Create(ctx context.Context, e events.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO eventos (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`, eventArgs(e)...)
	return err
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (events.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return events.Event{}, events.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM eventos
		WHERE id = $1
	`, id)
	return scanEvent(row)
}

func (r *EventsRepo) List(ctx context.Context, filter events.ListFilter) ([]events.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM eventos`

	where := make([]string, 0, 4)
	args := make([]any, 0, 4)
	if strings.TrimSpace(filter.CattleID) != "" {
		args = append(args, strings.TrimSpace(filter.CattleID))
		where = append(where, fmt.Sprintf("bovino_id = $%d", len(args)))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		where = append(where, fmt.Sprintf("tipo = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("fecha >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("fecha <= $%d", len(args)))
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	// Más reciente primero
	query += " ORDER BY fecha DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]events.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertIgnoreDuplicates escribe el lote en una sola sentencia con
// ON CONFLICT (id) DO NOTHING: las filas ya existentes no se duplican ni se
// mutan. RowsAffected da los insertados netos.
func (r *EventsRepo) InsertIgnoreDuplicates(ctx context.Context, batch []events.Event) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	args := make([]any, 0, len(batch)*eventColumnCount)
	for i, e := range batch {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(")
		for j := 1; j <= eventColumnCount; j++ {
			if j > 1 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "$%d", i*eventColumnCount+j)
		}
		sb.WriteString(")")
		args = append(args, eventArgs(e)...)
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO eventos (`+eventColumns+`)
		VALUES `+sb.String()+`
		ON CONFLICT (id) DO NOTHING
	`, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func eventArgs(e events.Event) []any {
	return []any{
		e.ID,
		e.CattleID,
		string(e.Kind),
		e.Date,
		e.Description,
		e.Medication,
		e.Dosage,
		e.Veterinarian,
		e.Notes,
		toNullFloat(e.WeightKg),
		toNullFloat(e.Cost),
		e.Location,
		e.TimeOfDay,
		e.Buyer,
		e.Destination,
		toNullFloat(e.Liters),
		string(e.Shift),
		toNullFloat(e.GainPerDay),
		e.CreatedAt,
	}
}

func scanEvent(row rowScanner) (events.Event, error) {
	var e events.Event
	var kind, shift string
	var weight, cost, liters, gain sql.NullFloat64
	if err := row.Scan(
		&e.ID,
		&e.CattleID,
		&kind,
		&e.Date,
		&e.Description,
		&e.Medication,
		&e.Dosage,
		&e.Veterinarian,
		&e.Notes,
		&weight,
		&cost,
		&e.Location,
		&e.TimeOfDay,
		&e.Buyer,
		&e.Destination,
		&liters,
		&shift,
		&gain,
		&e.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return events.Event{}, events.ErrNotFound
		}
		return events.Event{}, err
	}

	e.Kind = events.Kind(kind)
	e.Shift = events.Shift(shift)
	e.WeightKg = fromNullFloat(weight)
	e.Cost = fromNullFloat(cost)
	e.Liters = fromNullFloat(liters)
	e.GainPerDay = fromNullFloat(gain)
	return e, nil
}
