package owners

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("owner not found")
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
	Kind           string
	Name           string
	Surname        string
	DocumentKind   string
	DocumentNumber string
	Phone          string
	Email          string
	Address        string
	City           string
	Region         string
	Notes          string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Owner, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Owner{}, ErrInvalidInput
	}

	now := s.now()
	o := ApplyDefaults(Owner{
		ID:             uuid.NewString(),
		Kind:           Kind(strings.TrimSpace(in.Kind)),
		Name:           strings.TrimSpace(in.Name),
		Surname:        strings.TrimSpace(in.Surname),
		DocumentKind:   DocumentKind(strings.TrimSpace(in.DocumentKind)),
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		Phone:          strings.TrimSpace(in.Phone),
		Email:          strings.TrimSpace(in.Email),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		Region:         strings.TrimSpace(in.Region),
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
	})

	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Owner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Owner{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, query string) ([]Owner, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}

	out := make([]Owner, 0, len(all))
	for _, o := range all {
		hay := strings.ToLower(o.Name + " " + o.Surname + " " + o.DocumentNumber)
		if strings.Contains(hay, q) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id string, in CreateInput) (Owner, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Owner{}, ErrInvalidInput
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Owner{}, err
	}

	o := ApplyDefaults(Owner{
		ID:             current.ID,
		Kind:           Kind(strings.TrimSpace(in.Kind)),
		Name:           strings.TrimSpace(in.Name),
		Surname:        strings.TrimSpace(in.Surname),
		DocumentKind:   DocumentKind(strings.TrimSpace(in.DocumentKind)),
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		Phone:          strings.TrimSpace(in.Phone),
		Email:          strings.TrimSpace(in.Email),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		Region:         strings.TrimSpace(in.Region),
		Notes:          strings.TrimSpace(in.Notes),
		CreatedAt:      current.CreatedAt,
		UpdatedAt:      s.now(),
	})

	if err := s.repo.Update(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}
