package importer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"livestock-traceability/internal/domain/cattle"
	"livestock-traceability/internal/domain/events"
	"livestock-traceability/internal/domain/owners"
	"livestock-traceability/internal/platform/logger"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// opaqueKeyRe valida la forma canónica de clave opaca 8-4-4-4-12 hex.
// Un id que no matchea no es un error: dispara la conciliación por clave
// natural.
var opaqueKeyRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func isOpaqueKey(v string) bool {
	return opaqueKeyRe.MatchString(strings.ToLower(strings.TrimSpace(v)))
}

// eventNamespace es el namespace fijo para derivar identificadores de evento
// por contenido (UUIDv5). Cambiarlo invalida la idempotencia frente a filas
// ya almacenadas.
var eventNamespace = uuid.MustParse("7c9f1d4e-52aa-4b08-9d3c-e5a0f8b61c27")

// DeriveEventID calcula el identificador determinístico de un evento a partir
// de su contenido lógico. Dos importaciones con el mismo bovino, tipo, fecha y
// descripción producen siempre la misma clave.
func DeriveEventID(cattleID, kind, date, description string) string {
	base := cattleID + "|" + kind + "|" + date + "|" + description
	return uuid.NewSHA1(eventNamespace, []byte(base)).String()
}

// Service es el importador masivo con conciliación: upsert de propietarios
// por id-o-nombre, upsert de bovinos por codigo y alta idempotente de
// eventos con identificador derivado.
type Service struct {
	owners owners.Repository
	cattle cattle.Repository
	events events.Repository

	log logger.Logger
	now func() time.Time
}

func NewService(ownersRepo owners.Repository, cattleRepo cattle.Repository, eventsRepo events.Repository, log logger.Logger) *Service {
	return &Service{
		owners: ownersRepo,
		cattle: cattleRepo,
		events: eventsRepo,
		log:    log,
		now:    time.Now,
	}
}

// Run procesa el lote en etapas estrictamente secuenciales
// propietarios → bovinos → eventos: la resolución de eventos depende de que
// los bovinos existan. Un fallo en una etapa aborta el lote en esa etapa;
// lo ya escrito queda escrito.
func (s *Service) Run(ctx context.Context, batch Batch) (Summary, error) {
	s.log.Info("import sizes", map[string]any{
		"propietarios": len(batch.Owners),
		"bovinos":      len(batch.Cattle),
		"eventos":      len(batch.Events),
	})

	if err := s.runOwners(ctx, batch.Owners); err != nil {
		s.log.Error("import propietarios failed", map[string]any{"error": err.Error()})
		return Summary{}, &StageError{Stage: StageOwners, Err: err}
	}

	if err := s.runCattle(ctx, batch.Cattle); err != nil {
		s.log.Error("import bovinos failed", map[string]any{"error": err.Error()})
		return Summary{}, &StageError{Stage: StageCattle, Err: err}
	}

	inserted, skipped, err := s.runEvents(ctx, batch.Events)
	if err != nil {
		s.log.Error("import eventos failed", map[string]any{"error": err.Error()})
		return Summary{}, &StageError{Stage: StageEvents, Err: err}
	}

	return Summary{Counts: Counts{
		Propietarios:      len(batch.Owners),
		Bovinos:           len(batch.Cattle),
		EventosInsertados: inserted,
		EventosOmitidos:   skipped,
	}}, nil
}

// runOwners procesa los propietarios uno a uno, en orden: mantiene la
// escritura determinística cuando el lote repite el mismo nombre.
func (s *Service) runOwners(ctx context.Context, batch []OwnerInput) error {
	now := s.now()

	for _, in := range batch {
		o := owners.ApplyDefaults(owners.Owner{
			Kind:           owners.Kind(strings.TrimSpace(in.TipoPropietario)),
			Name:           strings.TrimSpace(in.Nombre),
			Surname:        strings.TrimSpace(in.Apellidos),
			DocumentKind:   owners.DocumentKind(strings.TrimSpace(in.TipoDocumento)),
			DocumentNumber: strings.TrimSpace(in.NumeroDocumento),
			Phone:          strings.TrimSpace(in.Telefono),
			Email:          strings.TrimSpace(in.Email),
			Address:        strings.TrimSpace(in.Direccion),
			City:           strings.TrimSpace(in.Ciudad),
			Region:         strings.TrimSpace(in.Departamento),
			Notes:          strings.TrimSpace(in.Observaciones),
			CreatedAt:      now,
			UpdatedAt:      now,
		})

		if o.Name == "" {
			return errors.New("propietario sin nombre")
		}

		// Clave opaca válida: upsert directo por id.
		if isOpaqueKey(in.ID) {
			o.ID = strings.ToLower(strings.TrimSpace(in.ID))
			if err := s.owners.Upsert(ctx, o); err != nil {
				return err
			}
			continue
		}

		// Sin clave válida: conciliar por nombre. Si existe se actualiza en
		// el lugar; si no, alta con id generado.
		existing, err := s.owners.GetByName(ctx, o.Name)
		switch {
		case err == nil:
			o.ID = existing.ID
			o.CreatedAt = existing.CreatedAt
			if err := s.owners.Update(ctx, o); err != nil {
				return err
			}
		case errors.Is(err, owners.ErrNotFound):
			o.ID = uuid.NewString()
			if err := s.owners.Create(ctx, o); err != nil {
				return err
			}
		default:
			return err
		}
	}

	return nil
}

// runCattle delega en la semántica de upsert del store: un solo lote con
// conflicto sobre codigo, fila completa. Re-enviar un export completo
// sobreescribe en el lugar en vez de duplicar.
func (s *Service) runCattle(ctx context.Context, batch []CattleInput) error {
	if len(batch) == 0 {
		return nil
	}

	now := s.now()
	rows := make([]cattle.Cattle, 0, len(batch))

	for _, in := range batch {
		code := strings.TrimSpace(in.Codigo)
		if code == "" {
			return errors.New("bovino sin codigo")
		}

		var bd *time.Time
		if strings.TrimSpace(in.FechaNacimiento) != "" {
			t, err := time.Parse(dateLayout, in.FechaNacimiento)
			if err != nil {
				return fmt.Errorf("bovino %s: fecha_nacimiento inválida: %w", code, err)
			}
			bd = &t
		}

		id := strings.ToLower(strings.TrimSpace(in.ID))
		if !isOpaqueKey(id) {
			// El conflicto se resuelve por codigo, nunca por id: un id
			// no confiable del caller se reemplaza por uno nuevo.
			id = uuid.NewString()
		}

		status := cattle.Status(strings.TrimSpace(in.Estado))
		if status == "" {
			status = cattle.StatusActive
		}

		rows = append(rows, cattle.Cattle{
			ID:            id,
			Code:          code,
			RFIDTag:       strings.TrimSpace(in.TagRFID),
			Name:          strings.TrimSpace(in.Nombre),
			Breed:         strings.TrimSpace(in.Raza),
			Sex:           cattle.Sex(strings.TrimSpace(in.Sexo)),
			BirthDate:     bd,
			Status:        status,
			BirthWeight:   in.PesoNacimiento,
			CurrentWeight: in.PesoActual,
			Color:         strings.TrimSpace(in.Color),
			Markings:      strings.TrimSpace(in.Marcas),
			OwnerID:       strings.TrimSpace(in.PropietarioID),
			OwnerName:     strings.TrimSpace(in.NombrePropietario),
			Location:      strings.TrimSpace(in.UbicacionActual),
			Coordinates:   strings.TrimSpace(in.Coordenadas),
			Notes:         strings.TrimSpace(in.Observaciones),
			PhotoURL:      strings.TrimSpace(in.Foto),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}

	return s.cattle.UpsertByCode(ctx, rows)
}

// runEvents resuelve la referencia al bovino, deriva el identificador
// idempotente y escribe el lote en una sola llamada que ignora duplicados.
// Devuelve (insertados netos, omitidos).
func (s *Service) runEvents(ctx context.Context, batch []EventInput) (int, int, error) {
	if len(batch) == 0 {
		return 0, 0, nil
	}

	skipped := 0
	rows := make([]events.Event, 0, len(batch))

	for _, in := range batch {
		// Referencia directa o resolución por clave natural codigo.
		cattleID := strings.TrimSpace(in.BovinoID)
		if cattleID == "" && strings.TrimSpace(in.BovinoCodigo) != "" {
			c, err := s.cattle.GetByCode(ctx, strings.TrimSpace(in.BovinoCodigo))
			switch {
			case err == nil:
				cattleID = c.ID
			case errors.Is(err, cattle.ErrNotFound):
				// se cuenta como omitido más abajo
			default:
				return 0, 0, err
			}
		}

		// Nunca insertar un evento con referencia colgante.
		if cattleID == "" {
			skipped++
			continue
		}

		kind := strings.TrimSpace(in.Tipo)
		if kind == "" {
			kind = string(events.KindRegistration)
		}

		dateStr := strings.TrimSpace(in.Fecha)
		if dateStr == "" {
			dateStr = s.now().Format(dateLayout)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			return 0, 0, fmt.Errorf("evento de %s: fecha inválida: %w", cattleID, err)
		}

		// Id del caller si es una clave bien formada (idempotencia
		// controlada por el caller); si no, id derivado por contenido.
		id := strings.ToLower(strings.TrimSpace(in.ID))
		if !isOpaqueKey(id) {
			id = DeriveEventID(cattleID, kind, dateStr, strings.TrimSpace(in.Descripcion))
		}

		rows = append(rows, events.Event{
			ID:           id,
			CattleID:     cattleID,
			Kind:         events.Kind(kind),
			Date:         date,
			Description:  strings.TrimSpace(in.Descripcion),
			Medication:   strings.TrimSpace(in.Medicamento),
			Dosage:       strings.TrimSpace(in.Dosis),
			Veterinarian: strings.TrimSpace(in.Veterinario),
			Notes:        strings.TrimSpace(in.Observaciones),
			WeightKg:     in.PesoKg,
			Cost:         in.Costo,
			Location:     strings.TrimSpace(in.Ubicacion),
			TimeOfDay:    strings.TrimSpace(in.Hora),
			Buyer:        strings.TrimSpace(in.Comprador),
			Destination:  strings.TrimSpace(in.Destino),
			Liters:       in.Litros,
			Shift:        events.Shift(strings.TrimSpace(in.Turno)),
			GainPerDay:   in.GananciaDia,
			CreatedAt:    s.now(),
		})
	}

	inserted := 0
	if len(rows) > 0 {
		n, err := s.events.InsertIgnoreDuplicates(ctx, rows)
		if err != nil {
			return 0, 0, err
		}
		inserted = n
	}

	return inserted, skipped, nil
}
