package cattle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("cattle not found")
	ErrDuplicateCode = errors.New("codigo already registered")
)

// EventRecorder registra el evento derivado de un cambio de estado.
// Lo implementa el módulo de eventos; la interfaz vive aquí para evitar
// un ciclo de imports cattle <-> events.
type EventRecorder interface {
	RecordStatusChange(ctx context.Context, cattleID, kind, description string) error
}

type Service struct {
	repo   Repository
	events EventRecorder // puede ser nil (sin eventos derivados)
	now    func() time.Time
}

func NewService(repo Repository, events EventRecorder) *Service {
	return &Service{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

type CreateInput struct {
	Code          string
	RFIDTag       string
	Name          string
	Breed         string
	Sex           string
	BirthDate     *time.Time
	Status        string
	BirthWeight   *float64
	CurrentWeight *float64
	Color         string
	Markings      string
	OwnerID       string
	OwnerName     string
	Location      string
	Coordinates   string
	Notes         string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Cattle, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return Cattle{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByCode(ctx, code); err == nil {
		return Cattle{}, ErrDuplicateCode
	} else if !errors.Is(err, ErrNotFound) {
		return Cattle{}, err
	}

	status := Status(strings.TrimSpace(in.Status))
	if status == "" {
		status = StatusActive
	}

	now := s.now()
	c := Cattle{
		ID:            uuid.NewString(),
		Code:          code,
		RFIDTag:       strings.TrimSpace(in.RFIDTag),
		Name:          strings.TrimSpace(in.Name),
		Breed:         strings.TrimSpace(in.Breed),
		Sex:           Sex(strings.TrimSpace(in.Sex)),
		BirthDate:     in.BirthDate,
		Status:        status,
		BirthWeight:   in.BirthWeight,
		CurrentWeight: in.CurrentWeight,
		Color:         strings.TrimSpace(in.Color),
		Markings:      strings.TrimSpace(in.Markings),
		OwnerID:       strings.TrimSpace(in.OwnerID),
		OwnerName:     strings.TrimSpace(in.OwnerName),
		Location:      strings.TrimSpace(in.Location),
		Coordinates:   strings.TrimSpace(in.Coordinates),
		Notes:         strings.TrimSpace(in.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Cattle{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Cattle, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Cattle{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (Cattle, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Cattle{}, ErrInvalidInput
	}
	return s.repo.GetByCode(ctx, code)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Cattle, error) {
	return s.repo.List(ctx, filter)
}

// UpdateInput usa punteros para PATCH real: nil = no tocar el campo.
type UpdateInput struct {
	RFIDTag       *string
	Name          *string
	Breed         *string
	Sex           *string
	BirthDate     *time.Time
	Status        *string
	BirthWeight   *float64
	CurrentWeight *float64
	Color         *string
	Markings      *string
	OwnerID       *string
	OwnerName     *string
	Location      *string
	Coordinates   *string
	Notes         *string
}

// Update aplica el PATCH y, si el estado cambió a uno con evento asociado,
// registra el evento derivado (Sacrificado→Sacrificio, Vendido→Venta,
// Muerto→Muerte, Activo→Activación). El evento no bloquea la actualización:
// un fallo al registrarlo se devuelve junto al bovino ya actualizado.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Cattle, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Cattle{}, err
	}

	prevStatus := current.Status

	setStr := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}

	setStr(&current.RFIDTag, in.RFIDTag)
	setStr(&current.Name, in.Name)
	setStr(&current.Breed, in.Breed)
	if in.Sex != nil {
		current.Sex = Sex(strings.TrimSpace(*in.Sex))
	}
	if in.BirthDate != nil {
		bd := *in.BirthDate
		current.BirthDate = &bd
	}
	if in.Status != nil {
		st := Status(strings.TrimSpace(*in.Status))
		if st == "" {
			return Cattle{}, ErrInvalidInput
		}
		current.Status = st
	}
	if in.BirthWeight != nil {
		current.BirthWeight = in.BirthWeight
	}
	if in.CurrentWeight != nil {
		current.CurrentWeight = in.CurrentWeight
	}
	setStr(&current.Color, in.Color)
	setStr(&current.Markings, in.Markings)
	setStr(&current.OwnerID, in.OwnerID)
	setStr(&current.OwnerName, in.OwnerName)
	setStr(&current.Location, in.Location)
	setStr(&current.Coordinates, in.Coordinates)
	setStr(&current.Notes, in.Notes)

	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Cattle{}, err
	}

	if s.events != nil && current.Status != prevStatus {
		if kind, ok := statusEventKinds[current.Status]; ok {
			desc := fmt.Sprintf("Cambio de estado: %s → %s", prevStatus, current.Status)
			if err := s.events.RecordStatusChange(ctx, current.ID, kind, desc); err != nil {
				return current, fmt.Errorf("bovino actualizado, evento derivado falló: %w", err)
			}
		}
	}

	return current, nil
}

// SetPhoto guarda la URL de la foto subida al blob store.
func (s *Service) SetPhoto(ctx context.Context, id, photoURL string) (Cattle, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Cattle{}, err
	}
	current.PhotoURL = strings.TrimSpace(photoURL)
	current.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, current); err != nil {
		return Cattle{}, err
	}
	return current, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
