package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	mem "livestock-traceability/internal/adapters/storage/memory"
	"livestock-traceability/internal/domain/cattle"
	"livestock-traceability/internal/domain/events"
	"livestock-traceability/internal/domain/owners"
	"livestock-traceability/internal/platform/logger"
)

// -------------------------
// Helpers
// -------------------------

type fixture struct {
	owners owners.Repository
	cattle cattle.Repository
	events events.Repository
	svc    *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		owners: mem.NewOwnersRepo(),
		cattle: mem.NewCattleRepo(),
		events: mem.NewEventsRepo(),
	}
	f.svc = NewService(f.owners, f.cattle, f.events, logger.Nop{})
	f.svc.now = func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return f
}

func (f *fixture) countEvents(t *testing.T) int {
	t.Helper()
	evs, err := f.events.List(context.Background(), events.ListFilter{})
	if err != nil {
		t.Fatalf("List events error: %v", err)
	}
	return len(evs)
}

// -------------------------
// Tests
// -------------------------

func TestService_Run_FullScenario(t *testing.T) {
	f := newFixture(t)

	batch := Batch{
		Owners: []OwnerInput{
			{Nombre: "Juan", Apellidos: "Perez", Telefono: "999888777"},
		},
		Cattle: []CattleInput{
			{Codigo: "BOV-1", Nombre: "Estrella", Sexo: "Hembra", NombrePropietario: "Juan"},
		},
		Events: []EventInput{
			{BovinoCodigo: "BOV-1", Tipo: "Vacunación", Fecha: "2026-03-01", Descripcion: "Aftosa"},
			{BovinoCodigo: "BOV-1", Tipo: "Pesaje", Fecha: "2026-03-05"},
		},
	}

	sum, err := f.svc.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	want := Counts{Propietarios: 1, Bovinos: 1, EventosInsertados: 2, EventosOmitidos: 0}
	if sum.Counts != want {
		t.Fatalf("counts = %+v, want %+v", sum.Counts, want)
	}

	// Propietario creado con clave generada y defaults aplicados
	o, err := f.owners.GetByName(context.Background(), "Juan")
	if err != nil {
		t.Fatalf("GetByName error: %v", err)
	}
	if !isOpaqueKey(o.ID) {
		t.Fatalf("expected generated opaque key, got %q", o.ID)
	}
	if o.Kind != owners.KindIndividual || o.DocumentNumber != owners.DefaultDocumentNumber {
		t.Fatalf("expected defaults applied, got kind=%s doc=%s", o.Kind, o.DocumentNumber)
	}

	// Bovino dado de alta por codigo con estado default
	c, err := f.cattle.GetByCode(context.Background(), "BOV-1")
	if err != nil {
		t.Fatalf("GetByCode error: %v", err)
	}
	if c.Status != cattle.StatusActive {
		t.Fatalf("expected default status Activo, got %s", c.Status)
	}

	// Los eventos referencian al bovino resuelto
	evs, err := f.events.List(context.Background(), events.ListFilter{CattleID: c.ID})
	if err != nil {
		t.Fatalf("List events error: %v", err)
	}
	if len(evs) != 2 {
		t.Fatalf("expected 2 events for %s, got %d", c.ID, len(evs))
	}
}

func TestService_Run_Reimport_IsIdempotent(t *testing.T) {
	f := newFixture(t)

	batch := Batch{
		Owners: []OwnerInput{{Nombre: "Maria"}},
		Cattle: []CattleInput{{Codigo: "BOV-7", Nombre: "Luna"}},
		Events: []EventInput{
			{BovinoCodigo: "BOV-7", Tipo: "Registro", Fecha: "2026-01-15", Descripcion: "Alta inicial"},
		},
	}

	if _, err := f.svc.Run(context.Background(), batch); err != nil {
		t.Fatalf("first Run error: %v", err)
	}

	first, err := f.cattle.GetByCode(context.Background(), "BOV-7")
	if err != nil {
		t.Fatalf("GetByCode error: %v", err)
	}

	sum, err := f.svc.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("second Run error: %v", err)
	}

	// El lote idéntico no inserta eventos nuevos
	if sum.Counts.EventosInsertados != 0 {
		t.Fatalf("expected 0 net-new events on reimport, got %d", sum.Counts.EventosInsertados)
	}
	if got := f.countEvents(t); got != 1 {
		t.Fatalf("expected 1 stored event, got %d", got)
	}

	// El upsert por codigo conserva la clave del bovino existente
	second, err := f.cattle.GetByCode(context.Background(), "BOV-7")
	if err != nil {
		t.Fatalf("GetByCode error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected stable cattle id across reimports, got %s vs %s", first.ID, second.ID)
	}

	// Un solo propietario Maria, no dos
	list, err := f.owners.List(context.Background())
	if err != nil {
		t.Fatalf("List owners error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 owner after reimport, got %d", len(list))
	}
}

func TestService_Run_OwnerWithoutKey_ReconcilesByName(t *testing.T) {
	f := newFixture(t)

	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seed := owners.Owner{
		ID:             "0b5c9a31-4f2d-4e8b-9c1a-d7e6f5a4b3c2",
		Kind:           owners.KindIndividual,
		Name:           "Juan",
		DocumentKind:   owners.DocumentDNI,
		DocumentNumber: "12345678",
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	if err := f.owners.Create(context.Background(), seed); err != nil {
		t.Fatalf("seed owner error: %v", err)
	}

	// Sin id (o con id basura): concilia por nombre y actualiza en el lugar
	batch := Batch{Owners: []OwnerInput{
		{ID: "no-es-una-clave", Nombre: "Juan", Telefono: "111222333"},
	}}
	if _, err := f.svc.Run(context.Background(), batch); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	got, err := f.owners.GetByID(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Phone != "111222333" {
		t.Fatalf("expected phone updated in place, got %q", got.Phone)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("expected CreatedAt preserved, got %v", got.CreatedAt)
	}

	list, err := f.owners.List(context.Background())
	if err != nil {
		t.Fatalf("List owners error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected no duplicate owner, got %d", len(list))
	}
}

func TestService_Run_OwnerWithKey_UpsertsByID(t *testing.T) {
	f := newFixture(t)

	// La clave viene en mayúsculas: se normaliza a minúsculas
	id := "A1B2C3D4-0000-4000-8000-000000000001"
	batch := Batch{Owners: []OwnerInput{{ID: id, Nombre: "Cooperativa Andina", TipoPropietario: "Cooperativa"}}}

	if _, err := f.svc.Run(context.Background(), batch); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	got, err := f.owners.GetByID(context.Background(), "a1b2c3d4-0000-4000-8000-000000000001")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Kind != owners.KindCooperative {
		t.Fatalf("expected kind Cooperativa, got %s", got.Kind)
	}
}

func TestService_Run_OwnerWithoutName_FailsOwnersStage(t *testing.T) {
	f := newFixture(t)

	batch := Batch{
		Owners: []OwnerInput{{Telefono: "999"}},
		Cattle: []CattleInput{{Codigo: "BOV-9"}},
	}

	_, err := f.svc.Run(context.Background(), batch)
	if err == nil {
		t.Fatalf("expected error")
	}

	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageOwners {
		t.Fatalf("expected StageError propietarios, got %v", err)
	}

	// La etapa de bovinos nunca corrió
	if _, err := f.cattle.GetByCode(context.Background(), "BOV-9"); !errors.Is(err, cattle.ErrNotFound) {
		t.Fatalf("expected bovinos stage not to run, got %v", err)
	}
}

func TestService_Run_CattleInvalidBirthDate_FailsCattleStage(t *testing.T) {
	f := newFixture(t)

	batch := Batch{Cattle: []CattleInput{
		{Codigo: "BOV-2", FechaNacimiento: "15/03/2024"},
	}}

	_, err := f.svc.Run(context.Background(), batch)
	var stageErr *StageError
	if !errors.As(err, &stageErr) || stageErr.Stage != StageCattle {
		t.Fatalf("expected StageError bovinos, got %v", err)
	}
}

func TestService_Run_CattleUntrustedID_GetsGeneratedKey(t *testing.T) {
	f := newFixture(t)

	batch := Batch{Cattle: []CattleInput{
		{ID: "fila-excel-42", Codigo: "BOV-3"},
	}}
	if _, err := f.svc.Run(context.Background(), batch); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	c, err := f.cattle.GetByCode(context.Background(), "BOV-3")
	if err != nil {
		t.Fatalf("GetByCode error: %v", err)
	}
	if !isOpaqueKey(c.ID) {
		t.Fatalf("expected generated opaque key, got %q", c.ID)
	}
}

func TestService_Run_CattleRepeatedCode_LastRowWins(t *testing.T) {
	f := newFixture(t)

	batch := Batch{Cattle: []CattleInput{
		{Codigo: "BOV-8", Nombre: "primera"},
		{Codigo: "BOV-8", Nombre: "última", Raza: "Holstein"},
	}}
	if _, err := f.svc.Run(context.Background(), batch); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	c, err := f.cattle.GetByCode(context.Background(), "BOV-8")
	if err != nil {
		t.Fatalf("GetByCode error: %v", err)
	}
	if c.Name != "última" || c.Breed != "Holstein" {
		t.Fatalf("expected last row to win for BOV-8, got %+v", c)
	}
}

func TestService_Run_EventUnknownCattle_CountedAsSkipped(t *testing.T) {
	f := newFixture(t)

	batch := Batch{
		Cattle: []CattleInput{{Codigo: "BOV-4"}},
		Events: []EventInput{
			{BovinoCodigo: "BOV-4", Tipo: "Pesaje", Fecha: "2026-02-01"},
			{BovinoCodigo: "NO-EXISTE", Tipo: "Pesaje", Fecha: "2026-02-01"},
			{Tipo: "Pesaje", Fecha: "2026-02-01"}, // sin referencia alguna
		},
	}

	sum, err := f.svc.Run(context.Background(), batch)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum.Counts.EventosInsertados != 1 || sum.Counts.EventosOmitidos != 2 {
		t.Fatalf("counts = %+v, want 1 inserted / 2 skipped", sum.Counts)
	}
}

func TestService_Run_EventCallerID_KeptVerbatim(t *testing.T) {
	f := newFixture(t)

	batch := Batch{
		Cattle: []CattleInput{{Codigo: "BOV-5"}},
		Events: []EventInput{
			{ID: "9F8E7D6C-1111-4111-8111-222222222222", BovinoCodigo: "BOV-5", Tipo: "Venta", Fecha: "2026-02-20"},
		},
	}
	if _, err := f.svc.Run(context.Background(), batch); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	// La clave del caller gana sobre la derivación, normalizada a minúsculas
	ev, err := f.events.GetByID(context.Background(), "9f8e7d6c-1111-4111-8111-222222222222")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if ev.Kind != events.KindSale {
		t.Fatalf("expected Venta event, got %s", ev.Kind)
	}
}

func TestService_Run_EventDefaults(t *testing.T) {
	f := newFixture(t)

	batch := Batch{
		Cattle: []CattleInput{{Codigo: "BOV-6"}},
		Events: []EventInput{{BovinoCodigo: "BOV-6"}}, // sin tipo ni fecha
	}
	if _, err := f.svc.Run(context.Background(), batch); err != nil {
		t.Fatalf("Run error: %v", err)
	}

	evs, err := f.events.List(context.Background(), events.ListFilter{})
	if err != nil {
		t.Fatalf("List events error: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].Kind != events.KindRegistration {
		t.Fatalf("expected default tipo Registro, got %s", evs[0].Kind)
	}
	wantDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !evs[0].Date.Equal(wantDate) {
		t.Fatalf("expected default fecha %v, got %v", wantDate, evs[0].Date)
	}
}

func TestDeriveEventID_StableAndContentSensitive(t *testing.T) {
	base := DeriveEventID("bovino-1", "Pesaje", "2026-01-01", "control mensual")

	if !isOpaqueKey(base) {
		t.Fatalf("derived id is not a canonical opaque key: %q", base)
	}
	if again := DeriveEventID("bovino-1", "Pesaje", "2026-01-01", "control mensual"); again != base {
		t.Fatalf("expected stable derivation, got %s vs %s", base, again)
	}

	variants := []string{
		DeriveEventID("bovino-2", "Pesaje", "2026-01-01", "control mensual"),
		DeriveEventID("bovino-1", "Vacunación", "2026-01-01", "control mensual"),
		DeriveEventID("bovino-1", "Pesaje", "2026-01-02", "control mensual"),
		DeriveEventID("bovino-1", "Pesaje", "2026-01-01", ""),
	}
	for i, v := range variants {
		if v == base {
			t.Fatalf("variant %d collided with base id %s", i, base)
		}
	}
}
