package events

import "time"

// Event representa una ocurrencia fechada sobre un bovino. El historial es
// append-only: los eventos no se actualizan ni se borran.
type Event struct {
	ID       string
	CattleID string

	Kind Kind
	Date time.Time // fecha calendario (DATE), sin componente horario

	Description string

	// Campos opcionales según el tipo de evento.
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

	CreatedAt time.Time
}
