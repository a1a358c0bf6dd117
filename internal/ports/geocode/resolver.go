package geocode

import (
	"context"
	"errors"
)

var ErrNoMatch = errors.New("geocode: no match")

type Coordinates struct {
	Lat float64
	Lon float64
}

// Resolver resuelve una dirección postal libre a coordenadas.
// Implementado por adapters externos (Nominatim); puede ser nil en dev.
type Resolver interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}
