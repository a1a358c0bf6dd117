package owners

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"livestock-traceability/internal/ports/geocode"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, geocoder geocode.Resolver) {
	r.Route("/propietarios", func(or chi.Router) {
		or.Post("/", createOwnerHandler(svc))
		or.Get("/", listOwnersHandler(svc))
		or.Get("/{ownerID}", getOwnerHandler(svc))
		or.Put("/{ownerID}", updateOwnerHandler(svc))
		or.Delete("/{ownerID}", deleteOwnerHandler(svc))

		// Enlaces de mapa para la dirección del propietario (Google/OSM),
		// con coordenadas si hay geocoder configurado.
		or.Get("/{ownerID}/mapa", ownerMapHandler(svc, geocoder))
	})
}

type ownerRequest struct {
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

type ownerResponse struct {
	ID              string    `json:"id"`
	TipoPropietario string    `json:"tipo_propietario"`
	Nombre          string    `json:"nombre"`
	Apellidos       string    `json:"apellidos,omitempty"`
	TipoDocumento   string    `json:"tipo_documento"`
	NumeroDocumento string    `json:"numero_documento"`
	Telefono        string    `json:"telefono,omitempty"`
	Email           string    `json:"email,omitempty"`
	Direccion       string    `json:"direccion,omitempty"`
	Ciudad          string    `json:"ciudad,omitempty"`
	Departamento    string    `json:"departamento,omitempty"`
	Observaciones   string    `json:"observaciones,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ownerMapResponse struct {
	DireccionCompleta string   `json:"direccion_completa"`
	GoogleMapsURL     string   `json:"google_maps_url"`
	OpenStreetMapURL  string   `json:"openstreetmap_url"`
	Lat               *float64 `json:"lat,omitempty"`
	Lon               *float64 `json:"lon,omitempty"`
}

// createOwnerHandler godoc
// @Summary Registrar propietario
// @Tags propietarios
// @Accept json
// @Produce json
// @Param payload body ownerRequest true "Datos del propietario"
// @Success 201 {object} ownerResponse
// @Failure 400 {string} string "invalid json / nombre requerido"
// @Router /propietarios [post]
func createOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ownerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Create(r.Context(), toCreateInput(req))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toOwnerResponse(o))
	}
}

func listOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]ownerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOwnerResponse(o))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			http.Error(w, "propietario no encontrado", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func updateOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ownerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Update(r.Context(), chi.URLParam(r, "ownerID"), toCreateInput(req))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "propietario no encontrado", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func deleteOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "ownerID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "propietario no encontrado", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func ownerMapHandler(svc *Service, geocoder geocode.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		o, err := svc.GetByID(r.Context(), chi.URLParam(r, "ownerID"))
		if err != nil {
			http.Error(w, "propietario no encontrado", http.StatusNotFound)
			return
		}

		parts := make([]string, 0, 3)
		for _, p := range []string{o.Address, o.City, o.Region} {
			if strings.TrimSpace(p) != "" {
				parts = append(parts, strings.TrimSpace(p))
			}
		}
		full := strings.Join(parts, ", ")
		if full == "" {
			http.Error(w, "propietario sin dirección registrada", http.StatusNotFound)
			return
		}

		q := url.QueryEscape(full)
		resp := ownerMapResponse{
			DireccionCompleta: full,
			GoogleMapsURL:     "https://www.google.com/maps/search/?api=1&query=" + q,
			OpenStreetMapURL:  "https://www.openstreetmap.org/search?query=" + q,
		}

		// El geocoder es opcional; si falla solo devolvemos los enlaces.
		if geocoder != nil {
			if coords, err := geocoder.Resolve(r.Context(), full); err == nil {
				resp.Lat = &coords.Lat
				resp.Lon = &coords.Lon
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func toCreateInput(req ownerRequest) CreateInput {
	return CreateInput{
		Kind:           req.TipoPropietario,
		Name:           req.Nombre,
		Surname:        req.Apellidos,
		DocumentKind:   req.TipoDocumento,
		DocumentNumber: req.NumeroDocumento,
		Phone:          req.Telefono,
		Email:          req.Email,
		Address:        req.Direccion,
		City:           req.Ciudad,
		Region:         req.Departamento,
		Notes:          req.Observaciones,
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:              o.ID,
		TipoPropietario: string(o.Kind),
		Nombre:          o.Name,
		Apellidos:       o.Surname,
		TipoDocumento:   string(o.DocumentKind),
		NumeroDocumento: o.DocumentNumber,
		Telefono:        o.Phone,
		Email:           o.Email,
		Direccion:       o.Address,
		Ciudad:          o.City,
		Departamento:    o.Region,
		Observaciones:   o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (propietarios/bovinos/eventos) para no crear helpers compartidos antes
// de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
