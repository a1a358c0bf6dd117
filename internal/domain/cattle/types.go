package cattle

// Status define el estado de un bovino.
// @Enum Activo, Vendido, Sacrificado, Muerto
type Status string

const (
	StatusActive      Status = "Activo"
	StatusSold        Status = "Vendido"
	StatusSlaughtered Status = "Sacrificado"
	StatusDeceased    Status = "Muerto"
)

// Sex define el sexo del bovino.
type Sex string

const (
	SexMale   Sex = "Macho"
	SexFemale Sex = "Hembra"
)

// statusEventKinds mapea cambios de estado al tipo de evento derivado que se
// registra en el flujo interactivo de edición (no en el importador).
var statusEventKinds = map[Status]string{
	StatusSlaughtered: "Sacrificio",
	StatusSold:        "Venta",
	StatusDeceased:    "Muerte",
	StatusActive:      "Activación",
}
