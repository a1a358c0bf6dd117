package owners

import "time"

// Kind define los tipos de propietario soportados.
// @Enum Individual, Empresa, Cooperativa, Asociación, Otro
type Kind string

const (
	KindIndividual  Kind = "Individual"
	KindCompany     Kind = "Empresa"
	KindCooperative Kind = "Cooperativa"
	KindAssociation Kind = "Asociación"
	KindOther       Kind = "Otro"
)

// DocumentKind define los tipos de documento de identidad.
type DocumentKind string

const (
	DocumentDNI      DocumentKind = "DNI"
	DocumentRUC      DocumentKind = "RUC"
	DocumentPassport DocumentKind = "Pasaporte"
	DocumentOther    DocumentKind = "Otro"
)

// Sentinels para campos de documento ausentes: la vista nunca debe ver nulls aquí.
const (
	DefaultDocumentNumber = "SIN_DOCUMENTO"
)

// Owner representa un propietario de ganado (persona u organización).
// Nombre actúa como clave natural cuando no hay un id opaco válido.
type Owner struct {
	ID   string
	Kind Kind

	Name    string
	Surname string

	DocumentKind   DocumentKind
	DocumentNumber string

	Phone   string
	Email   string
	Address string
	City    string
	Region  string // departamento

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyDefaults completa los campos opcionales con sus sentinelas documentados.
// Es el único punto de defaulting para propietarios; lo usan tanto el alta
// interactiva como el importador masivo.
func ApplyDefaults(o Owner) Owner {
	if o.Kind == "" {
		o.Kind = KindIndividual
	}
	if o.DocumentKind == "" {
		o.DocumentKind = DocumentDNI
	}
	if o.DocumentNumber == "" {
		o.DocumentNumber = DefaultDocumentNumber
	}
	return o
}
