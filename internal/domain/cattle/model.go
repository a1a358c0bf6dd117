package cattle

import "time"

// Cattle representa un bovino registrado en el sistema.
// Code (codigo) es la clave natural única; el importador resuelve conflictos
// sobre ella, nunca sobre el id.
type Cattle struct {
	ID   string
	Code string

	RFIDTag string
	Name    string
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	Status    Status

	BirthWeight   *float64
	CurrentWeight *float64

	Color    string
	Markings string

	// Referencia al propietario por id y por nombre desnormalizado;
	// el nombre se puebla de forma independiente a la etapa de propietarios
	// en el importador.
	OwnerID   string
	OwnerName string

	Location    string
	Coordinates string
	Notes       string
	PhotoURL    string

	CreatedAt time.Time
	UpdatedAt time.Time
}
