package events

import (
	"context"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Event
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Event{}}
}

func (r *testRepo) Create(ctx context.Context, e Event) error {
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	out := make([]Event, 0, len(r.byID))
	for _, e := range r.byID {
		if filter.CattleID != "" && e.CattleID != filter.CattleID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *testRepo) InsertIgnoreDuplicates(ctx context.Context, batch []Event) (int, error) {
	n := 0
	for _, e := range batch {
		if _, ok := r.byID[e.ID]; ok {
			continue
		}
		r.byID[e.ID] = e
		n++
	}
	return n, nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_Defaults(t *testing.T) {
	svc := NewService(newTestRepo())
	svc.now = func() time.Time { return time.Date(2026, 5, 2, 15, 30, 0, 0, time.UTC) }

	e, err := svc.Create(context.Background(), CreateInput{CattleID: "bov-1"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if e.Kind != KindRegistration {
		t.Fatalf("expected default tipo Registro, got %s", e.Kind)
	}
	// La fecha default es el día calendario, sin hora
	want := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	if !e.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, e.Date)
	}
}

func TestService_Create_RequiresCattleID(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{Kind: KindWeighing}); err == nil {
		t.Fatalf("expected error without bovino")
	}
}

func TestService_Create_MilkingRules(t *testing.T) {
	svc := NewService(newTestRepo())
	liters := 12.5

	// Sin litros
	if _, err := svc.Create(context.Background(), CreateInput{CattleID: "bov-1", Kind: KindMilking, Shift: ShiftMorning}); err == nil {
		t.Fatalf("expected error for ordeño without litros")
	}
	// Sin turno
	if _, err := svc.Create(context.Background(), CreateInput{CattleID: "bov-1", Kind: KindMilking, Liters: &liters}); err == nil {
		t.Fatalf("expected error for ordeño without turno")
	}
	// Completo
	e, err := svc.Create(context.Background(), CreateInput{CattleID: "bov-1", Kind: KindMilking, Liters: &liters, Shift: ShiftMorning})
	if err != nil {
		t.Fatalf("Create ordeño error: %v", err)
	}
	if e.Shift != ShiftMorning || *e.Liters != 12.5 {
		t.Fatalf("unexpected ordeño event: %+v", e)
	}
}

func TestService_Create_WeighingRequiresWeight(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{CattleID: "bov-1", Kind: KindWeighing}); err == nil {
		t.Fatalf("expected error for pesaje without peso_kg")
	}
	zero := 0.0
	if _, err := svc.Create(context.Background(), CreateInput{CattleID: "bov-1", Kind: KindWeighing, WeightKg: &zero}); err == nil {
		t.Fatalf("expected error for pesaje with peso_kg = 0")
	}
}

func TestService_Create_SaleRequiresBuyer(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Create(context.Background(), CreateInput{CattleID: "bov-1", Kind: KindSale}); err == nil {
		t.Fatalf("expected error for venta without comprador")
	}
	if _, err := svc.Create(context.Background(), CreateInput{CattleID: "bov-1", Kind: KindSale, Buyer: "Frigorífico Norte"}); err != nil {
		t.Fatalf("Create venta error: %v", err)
	}
}

func TestService_RecordStatusChange_SaleWithoutBuyer(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	// El evento derivado de Vendido no trae comprador; no pasa por las
	// validaciones del alta manual.
	if err := svc.RecordStatusChange(context.Background(), "bov-1", "Venta", "Cambio de estado: Activo → Vendido"); err != nil {
		t.Fatalf("RecordStatusChange error: %v", err)
	}

	evs, err := repo.List(context.Background(), ListFilter{CattleID: "bov-1"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(evs) != 1 || evs[0].Kind != KindSale {
		t.Fatalf("expected 1 Venta event, got %+v", evs)
	}
	if evs[0].Buyer != "" {
		t.Fatalf("expected empty comprador on derived event, got %q", evs[0].Buyer)
	}
	if evs[0].Description != "Cambio de estado: Activo → Vendido" {
		t.Fatalf("unexpected description: %q", evs[0].Description)
	}
}

func TestService_RecordStatusChange_CreatesDatedEvent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2026, 7, 20, 18, 45, 0, 0, time.UTC) }

	if err := svc.RecordStatusChange(context.Background(), "bov-9", "Sacrificio", "Cambio de estado: Activo → Sacrificado"); err != nil {
		t.Fatalf("RecordStatusChange error: %v", err)
	}

	evs, err := repo.List(context.Background(), ListFilter{CattleID: "bov-9"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(evs) != 1 {
		t.Fatalf("expected 1 event, got %d", len(evs))
	}
	if evs[0].Kind != KindSlaughter {
		t.Fatalf("expected Sacrificio, got %s", evs[0].Kind)
	}
	want := time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	if !evs[0].Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, evs[0].Date)
	}
}
