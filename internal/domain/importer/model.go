package importer

import "fmt"

// Stage identifica la etapa del importador que falló.
type Stage string

const (
	StageOwners Stage = "propietarios"
	StageCattle Stage = "bovinos"
	StageEvents Stage = "eventos"
)

// StageError envuelve el error del store con la etapa en la que ocurrió.
// Las filas ya escritas en etapas anteriores quedan escritas (sin rollback);
// el caller reintenta el lote completo apoyándose en la idempotencia.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("import stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Batch es el payload de importación: tres listas independientes, todas
// opcionales.
type Batch struct {
	Owners []OwnerInput  `json:"propietarios"`
	Cattle []CattleInput `json:"bovinos"`
	Events []EventInput  `json:"eventos"`
}

// OwnerInput es la fila de propietario tal como la envía el cliente de
// sincronización. ID puede venir vacío o con una clave no válida; en ese
// caso se concilia por nombre.
type OwnerInput struct {
	ID              string `json:"id"`
	TipoPropietario string `json:"tipo_propietario"`
	Nombre          string `json:"nombre"`
	Apellidos       string `json:"apellidos"`
	TipoDocumento   string `json:"tipo_documento"`
	NumeroDocumento string `json:"numero_documento"`
	Telefono        string `json:"telefono"`
	Email           string `json:"email"`
	Direccion       string `json:"direccion"`
	Ciudad          string `json:"ciudad"`
	Departamento    string `json:"departamento"`
	Observaciones   string `json:"observaciones"`
}

type CattleInput struct {
	ID                string   `json:"id"`
	Codigo            string   `json:"codigo"`
	TagRFID           string   `json:"tag_rfid"`
	Nombre            string   `json:"nombre"`
	Raza              string   `json:"raza"`
	Sexo              string   `json:"sexo"`
	FechaNacimiento   string   `json:"fecha_nacimiento"`
	Estado            string   `json:"estado"`
	PesoNacimiento    *float64 `json:"peso_nacimiento"`
	PesoActual        *float64 `json:"peso_actual"`
	Color             string   `json:"color"`
	Marcas            string   `json:"marcas"`
	PropietarioID     string   `json:"propietario_id"`
	NombrePropietario string   `json:"nombre_propietario"`
	UbicacionActual   string   `json:"ubicacion_actual"`
	Coordenadas       string   `json:"coordenadas"`
	Observaciones     string   `json:"observaciones"`
	Foto              string   `json:"foto"`
}

type EventInput struct {
	ID            string   `json:"id"`
	BovinoID      string   `json:"bovino_id"`
	BovinoCodigo  string   `json:"bovino_codigo"`
	Tipo          string   `json:"tipo"`
	Fecha         string   `json:"fecha"`
	Descripcion   string   `json:"descripcion"`
	Medicamento   string   `json:"medicamento"`
	Dosis         string   `json:"dosis"`
	Veterinario   string   `json:"veterinario"`
	Observaciones string   `json:"observaciones"`
	PesoKg        *float64 `json:"peso_kg"`
	Costo         *float64 `json:"costo"`
	Ubicacion     string   `json:"ubicacion"`
	Hora          string   `json:"hora"`
	Comprador     string   `json:"comprador"`
	Destino       string   `json:"destino"`
	Litros        *float64 `json:"litros"`
	Turno         string   `json:"turno"`
	GananciaDia   *float64 `json:"ganancia_dia"`
}

// Counts es el resumen de filas procesadas por etapa. EventosInsertados
// cuenta filas realmente nuevas: un lote idéntico re-importado reporta 0.
type Counts struct {
	Propietarios      int `json:"propietarios"`
	Bovinos           int `json:"bovinos"`
	EventosInsertados int `json:"eventos_insertados"`
	EventosOmitidos   int `json:"eventos_omitidos"`
}

type Summary struct {
	Counts Counts
}
