package cattle

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"livestock-traceability/internal/ports/blob"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service, photos blob.Store) {
	r.Route("/bovinos", func(br chi.Router) {
		br.Post("/", createCattleHandler(svc))
		br.Get("/", listCattleHandler(svc))
		br.Get("/{cattleID}", getCattleHandler(svc))
		br.Patch("/{cattleID}", updateCattleHandler(svc))
		br.Delete("/{cattleID}", deleteCattleHandler(svc))

		br.Post("/{cattleID}/foto", uploadPhotoHandler(svc, photos))
	})
}

type createCattleRequest struct {
	Codigo            string   `json:"codigo"`
	TagRFID           string   `json:"tag_rfid"`
	Nombre            string   `json:"nombre"`
	Raza              string   `json:"raza"`
	Sexo              string   `json:"sexo"`
	FechaNacimiento   string   `json:"fecha_nacimiento"` // YYYY-MM-DD opcional
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
}

type updateCattleRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	TagRFID           *string  `json:"tag_rfid"`
	Nombre            *string  `json:"nombre"`
	Raza              *string  `json:"raza"`
	Sexo              *string  `json:"sexo"`
	FechaNacimiento   *string  `json:"fecha_nacimiento"`
	Estado            *string  `json:"estado"`
	PesoNacimiento    *float64 `json:"peso_nacimiento"`
	PesoActual        *float64 `json:"peso_actual"`
	Color             *string  `json:"color"`
	Marcas            *string  `json:"marcas"`
	PropietarioID     *string  `json:"propietario_id"`
	NombrePropietario *string  `json:"nombre_propietario"`
	UbicacionActual   *string  `json:"ubicacion_actual"`
	Coordenadas       *string  `json:"coordenadas"`
	Observaciones     *string  `json:"observaciones"`
}

type cattleResponse struct {
	ID                string    `json:"id"`
	Codigo            string    `json:"codigo"`
	TagRFID           string    `json:"tag_rfid,omitempty"`
	Nombre            string    `json:"nombre,omitempty"`
	Raza              string    `json:"raza,omitempty"`
	Sexo              string    `json:"sexo,omitempty"`
	FechaNacimiento   string    `json:"fecha_nacimiento,omitempty"`
	Estado            string    `json:"estado"`
	PesoNacimiento    *float64  `json:"peso_nacimiento,omitempty"`
	PesoActual        *float64  `json:"peso_actual,omitempty"`
	Color             string    `json:"color,omitempty"`
	Marcas            string    `json:"marcas,omitempty"`
	PropietarioID     string    `json:"propietario_id,omitempty"`
	NombrePropietario string    `json:"nombre_propietario,omitempty"`
	UbicacionActual   string    `json:"ubicacion_actual,omitempty"`
	Coordenadas       string    `json:"coordenadas,omitempty"`
	Observaciones     string    `json:"observaciones,omitempty"`
	Foto              string    `json:"foto,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// createCattleHandler godoc
// @Summary Registrar bovino
// @Tags bovinos
// @Accept json
// @Produce json
// @Param payload body createCattleRequest true "Datos del bovino; fecha_nacimiento en YYYY-MM-DD"
// @Success 201 {object} cattleResponse
// @Failure 400 {string} string "invalid json / codigo requerido"
// @Failure 409 {string} string "codigo ya registrado"
// @Router /bovinos [post]
func createCattleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCattleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.FechaNacimiento) != "" {
			t, err := time.Parse(dateLayout, req.FechaNacimiento)
			if err != nil {
				http.Error(w, "fecha_nacimiento must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Code:          req.Codigo,
			RFIDTag:       req.TagRFID,
			Name:          req.Nombre,
			Breed:         req.Raza,
			Sex:           req.Sexo,
			BirthDate:     bd,
			Status:        req.Estado,
			BirthWeight:   req.PesoNacimiento,
			CurrentWeight: req.PesoActual,
			Color:         req.Color,
			Markings:      req.Marcas,
			OwnerID:       req.PropietarioID,
			OwnerName:     req.NombrePropietario,
			Location:      req.UbicacionActual,
			Coordinates:   req.Coordenadas,
			Notes:         req.Observaciones,
		})
		if err != nil {
			if errors.Is(err, ErrDuplicateCode) {
				http.Error(w, "codigo ya registrado", http.StatusConflict)
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toCattleResponse(c))
	}
}

func listCattleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			Status:  Status(q.Get("estado")),
			OwnerID: q.Get("propietario_id"),
			Query:   q.Get("q"),
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]cattleResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCattleResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getCattleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "cattleID"))
		if err != nil {
			http.Error(w, "bovino no encontrado", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toCattleResponse(c))
	}
}

// updateCattleHandler aplica el PATCH; un cambio de estado genera el evento
// derivado correspondiente en el historial.
func updateCattleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateCattleRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var bd *time.Time
		if req.FechaNacimiento != nil && strings.TrimSpace(*req.FechaNacimiento) != "" {
			t, err := time.Parse(dateLayout, *req.FechaNacimiento)
			if err != nil {
				http.Error(w, "fecha_nacimiento must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			bd = &t
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "cattleID"), UpdateInput{
			RFIDTag:       req.TagRFID,
			Name:          req.Nombre,
			Breed:         req.Raza,
			Sex:           req.Sexo,
			BirthDate:     bd,
			Status:        req.Estado,
			BirthWeight:   req.PesoNacimiento,
			CurrentWeight: req.PesoActual,
			Color:         req.Color,
			Markings:      req.Marcas,
			OwnerID:       req.PropietarioID,
			OwnerName:     req.NombrePropietario,
			Location:      req.UbicacionActual,
			Coordinates:   req.Coordenadas,
			Notes:         req.Observaciones,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "bovino no encontrado", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toCattleResponse(c))
	}
}

func deleteCattleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "cattleID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "bovino no encontrado", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// uploadPhotoHandler sube la foto al blob store y guarda la URL en la fila.
func uploadPhotoHandler(svc *Service, photos blob.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if photos == nil {
			http.Error(w, "almacenamiento de fotos no configurado", http.StatusServiceUnavailable)
			return
		}

		cattleID := chi.URLParam(r, "cattleID")
		if _, err := svc.GetByID(r.Context(), cattleID); err != nil {
			http.Error(w, "bovino no encontrado", http.StatusNotFound)
			return
		}

		// 10MB máximo por foto
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("foto")
		if err != nil {
			http.Error(w, "campo foto requerido", http.StatusBadRequest)
			return
		}
		defer file.Close()

		key := fmt.Sprintf("bovinos/%s/%d%s", cattleID, time.Now().UnixNano(), filepath.Ext(header.Filename))
		url, err := photos.Put(r.Context(), key, file, blob.PutOptions{
			ContentType: header.Header.Get("Content-Type"),
		})
		if err != nil {
			http.Error(w, "error subiendo foto", http.StatusBadGateway)
			return
		}

		c, err := svc.SetPhoto(r.Context(), cattleID, url)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toCattleResponse(c))
	}
}

func toCattleResponse(c Cattle) cattleResponse {
	resp := cattleResponse{
		ID:                c.ID,
		Codigo:            c.Code,
		TagRFID:           c.RFIDTag,
		Nombre:            c.Name,
		Raza:              c.Breed,
		Sexo:              string(c.Sex),
		Estado:            string(c.Status),
		PesoNacimiento:    c.BirthWeight,
		PesoActual:        c.CurrentWeight,
		Color:             c.Color,
		Marcas:            c.Markings,
		PropietarioID:     c.OwnerID,
		NombrePropietario: c.OwnerName,
		UbicacionActual:   c.Location,
		Coordenadas:       c.Coordinates,
		Observaciones:     c.Notes,
		Foto:              c.PhotoURL,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if c.BirthDate != nil {
		resp.FechaNacimiento = c.BirthDate.Format(dateLayout)
	}
	return resp
}

// writeJSON duplicado a propósito por módulo (ver nota en owners/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
