package reports

import (
	"context"
	"sort"

	"livestock-traceability/internal/domain/cattle"
	"livestock-traceability/internal/domain/events"
	"livestock-traceability/internal/domain/owners"
)

// Service agrega datos de los tres módulos para los tableros. El original
// hacía estas agregaciones en el cliente; aquí son endpoints de solo lectura
// sobre los mismos repositorios.
type Service struct {
	owners owners.Repository
	cattle cattle.Repository
	events events.Repository
}

func NewService(ownersRepo owners.Repository, cattleRepo cattle.Repository, eventsRepo events.Repository) *Service {
	return &Service{
		owners: ownersRepo,
		cattle: cattleRepo,
		events: eventsRepo,
	}
}

type HerdSummary struct {
	TotalBovinos      int            `json:"total_bovinos"`
	BovinosPorEstado  map[string]int `json:"bovinos_por_estado"`
	TotalPropietarios int            `json:"total_propietarios"`
	EventosPorTipo    map[string]int `json:"eventos_por_tipo"`
	LitrosTotales     float64        `json:"litros_totales"`
	PesoPromedio      float64        `json:"peso_promedio"`
}

func (s *Service) Summary(ctx context.Context) (HerdSummary, error) {
	herd, err := s.cattle.List(ctx, cattle.ListFilter{})
	if err != nil {
		return HerdSummary{}, err
	}
	ownerRows, err := s.owners.List(ctx)
	if err != nil {
		return HerdSummary{}, err
	}
	eventRows, err := s.events.List(ctx, events.ListFilter{})
	if err != nil {
		return HerdSummary{}, err
	}

	out := HerdSummary{
		TotalBovinos:      len(herd),
		BovinosPorEstado:  make(map[string]int),
		TotalPropietarios: len(ownerRows),
		EventosPorTipo:    make(map[string]int),
	}

	weightSum := 0.0
	weightCount := 0
	for _, c := range herd {
		out.BovinosPorEstado[string(c.Status)]++
		if c.CurrentWeight != nil {
			weightSum += *c.CurrentWeight
			weightCount++
		}
	}
	if weightCount > 0 {
		out.PesoPromedio = weightSum / float64(weightCount)
	}

	for _, e := range eventRows {
		out.EventosPorTipo[string(e.Kind)]++
		if e.Kind == events.KindMilking && e.Liters != nil {
			out.LitrosTotales += *e.Liters
		}
	}

	return out, nil
}

type MilkingRow struct {
	Fecha  string  `json:"fecha"`
	Turno  string  `json:"turno"`
	Litros float64 `json:"litros"`
}

type FatteningSummary struct {
	Registros           int     `json:"registros"`
	GananciaDiaPromedio float64 `json:"ganancia_dia_promedio"`
}

type ProductionReport struct {
	Ordeno  []MilkingRow     `json:"ordeño"`
	Engorde FatteningSummary `json:"engorde"`
}

// Production agrupa los litros de Ordeño por fecha y turno y resume la
// ganancia diaria de los eventos de Engorde.
func (s *Service) Production(ctx context.Context) (ProductionReport, error) {
	eventRows, err := s.events.List(ctx, events.ListFilter{})
	if err != nil {
		return ProductionReport{}, err
	}

	type key struct {
		fecha string
		turno string
	}
	liters := make(map[key]float64)

	gainSum := 0.0
	gainCount := 0

	for _, e := range eventRows {
		switch e.Kind {
		case events.KindMilking:
			if e.Liters == nil {
				continue
			}
			k := key{fecha: e.Date.Format("2006-01-02"), turno: string(e.Shift)}
			liters[k] += *e.Liters
		case events.KindFattening:
			if e.GainPerDay != nil {
				gainSum += *e.GainPerDay
				gainCount++
			}
		}
	}

	report := ProductionReport{
		Ordeno: make([]MilkingRow, 0, len(liters)),
	}
	for k, l := range liters {
		report.Ordeno = append(report.Ordeno, MilkingRow{Fecha: k.fecha, Turno: k.turno, Litros: l})
	}

	// Orden estable: fecha asc, luego turno.
	sort.Slice(report.Ordeno, func(i, j int) bool {
		if report.Ordeno[i].Fecha != report.Ordeno[j].Fecha {
			return report.Ordeno[i].Fecha < report.Ordeno[j].Fecha
		}
		return report.Ordeno[i].Turno < report.Ordeno[j].Turno
	})

	if gainCount > 0 {
		report.Engorde = FatteningSummary{
			Registros:           gainCount,
			GananciaDiaPromedio: gainSum / float64(gainCount),
		}
	}

	return report, nil
}
