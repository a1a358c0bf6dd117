package events

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("event not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	CattleID     string
	Kind         Kind
	Date         time.Time
	Description  string
	Medication   string
	Dosage       string
	Veterinarian string
	Notes        string
	WeightKg     *float64
	Cost         *float64
	Location     string
	TimeOfDay    string
	Buyer        string
	Destination  string
	Liters       *float64
	Shift        Shift
	GainPerDay   *float64
}

// Create valida las reglas por tipo tomadas del flujo de alta:
// Ordeño exige litros y turno, Pesaje exige peso_kg, Venta exige comprador.
func (s *Service) Create(ctx context.Context, in CreateInput) (Event, error) {
	if strings.TrimSpace(in.CattleID) == "" {
		return Event{}, ErrInvalidInput
	}

	kind := in.Kind
	if kind == "" {
		kind = KindRegistration
	}

	date := in.Date
	if date.IsZero() {
		date = truncateToDate(s.now())
	}

	switch kind {
	case KindMilking:
		if in.Liters == nil || *in.Liters <= 0 {
			return Event{}, errors.New("ordeño requiere litros > 0")
		}
		if in.Shift == "" {
			return Event{}, errors.New("ordeño requiere turno")
		}
	case KindWeighing:
		if in.WeightKg == nil || *in.WeightKg <= 0 {
			return Event{}, errors.New("pesaje requiere peso_kg > 0")
		}
	case KindSale:
		if strings.TrimSpace(in.Buyer) == "" {
			return Event{}, errors.New("venta requiere comprador")
		}
	}

	e := Event{
		ID:           uuid.NewString(),
		CattleID:     strings.TrimSpace(in.CattleID),
		Kind:         kind,
		Date:         date,
		Description:  strings.TrimSpace(in.Description),
		Medication:   strings.TrimSpace(in.Medication),
		Dosage:       strings.TrimSpace(in.Dosage),
		Veterinarian: strings.TrimSpace(in.Veterinarian),
		Notes:        strings.TrimSpace(in.Notes),
		WeightKg:     in.WeightKg,
		Cost:         in.Cost,
		Location:     strings.TrimSpace(in.Location),
		TimeOfDay:    strings.TrimSpace(in.TimeOfDay),
		Buyer:        strings.TrimSpace(in.Buyer),
		Destination:  strings.TrimSpace(in.Destination),
		Liters:       in.Liters,
		Shift:        in.Shift,
		GainPerDay:   in.GainPerDay,
		CreatedAt:    s.now(),
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}
	return e, nil
}

// RecordStatusChange implementa cattle.EventRecorder: registra el evento
// derivado de un cambio de estado, fechado hoy. Inserta directo en el repo:
// el evento derivado solo trae tipo/fecha/descripción y no pasa por las
// validaciones por tipo del formulario de alta (una Venta derivada no tiene
// comprador).
func (s *Service) RecordStatusChange(ctx context.Context, cattleID, kind, description string) error {
	cattleID = strings.TrimSpace(cattleID)
	if cattleID == "" {
		return ErrInvalidInput
	}

	return s.repo.Create(ctx, Event{
		ID:          uuid.NewString(),
		CattleID:    cattleID,
		Kind:        Kind(kind),
		Date:        truncateToDate(s.now()),
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now(),
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) ListByCattle(ctx context.Context, cattleID string, filter ListFilter) ([]Event, error) {
	filter.CattleID = strings.TrimSpace(cattleID)
	if filter.CattleID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, filter)
}

// truncateToDate descarta el componente horario (fecha es DATE en el store).
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
