package events

// Kind define los tipos de evento del historial.
type Kind string

const (
	KindRegistration Kind = "Registro"
	KindVaccination  Kind = "Vacunación"
	KindWeighing     Kind = "Pesaje"
	KindTreatment    Kind = "Tratamiento"
	KindBirth        Kind = "Nacimiento"
	KindSale         Kind = "Venta"
	KindDeath        Kind = "Muerte"
	KindSlaughter    Kind = "Sacrificio"
	KindActivation   Kind = "Activación"
	KindTransfer     Kind = "Traslado"
	KindMilking      Kind = "Ordeño"
	KindFattening    Kind = "Engorde"
)

// Shift define los turnos de ordeño.
type Shift string

const (
	ShiftMorning Shift = "Mañana"
	ShiftEvening Shift = "Tarde"
	ShiftNight   Shift = "Noche"
)
