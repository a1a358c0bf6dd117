package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"livestock-traceability/internal/domain/cattle"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service, cattleSvc *cattle.Service) {
	r.Route("/eventos", func(er chi.Router) {
		er.Post("/", createEventHandler(svc, cattleSvc))
		er.Get("/", listEventsHandler(svc))
		er.Get("/{eventID}", getEventHandler(svc))
	})

	// Historial por bovino
	r.Get("/bovinos/{cattleID}/eventos", listCattleEventsHandler(svc, cattleSvc))
}

type createEventRequest struct {
	BovinoID      string   `json:"bovino_id"`
	BovinoCodigo  string   `json:"bovino_codigo"` // alternativa a bovino_id
	Tipo          string   `json:"tipo"`
	Fecha         string   `json:"fecha"` // YYYY-MM-DD, default hoy
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

type eventResponse struct {
	ID            string    `json:"id"`
	BovinoID      string    `json:"bovino_id"`
	Tipo          string    `json:"tipo"`
	Fecha         string    `json:"fecha"`
	Descripcion   string    `json:"descripcion,omitempty"`
	Medicamento   string    `json:"medicamento,omitempty"`
	Dosis         string    `json:"dosis,omitempty"`
	Veterinario   string    `json:"veterinario,omitempty"`
	Observaciones string    `json:"observaciones,omitempty"`
	PesoKg        *float64  `json:"peso_kg,omitempty"`
	Costo         *float64  `json:"costo,omitempty"`
	Ubicacion     string    `json:"ubicacion,omitempty"`
	Hora          string    `json:"hora,omitempty"`
	Comprador     string    `json:"comprador,omitempty"`
	Destino       string    `json:"destino,omitempty"`
	Litros        *float64  `json:"litros,omitempty"`
	Turno         string    `json:"turno,omitempty"`
	GananciaDia   *float64  `json:"ganancia_dia,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// createEventHandler godoc
// @Summary Registrar evento
// @Description Registra un evento para un bovino identificado por bovino_id o por bovino_codigo. Reglas por tipo: Ordeño exige litros y turno, Pesaje exige peso_kg, Venta exige comprador.
// @Tags eventos
// @Accept json
// @Produce json
// @Param payload body createEventRequest true "Datos del evento; fecha en YYYY-MM-DD"
// @Success 201 {object} eventResponse
// @Failure 400 {string} string "invalid json / reglas por tipo"
// @Failure 404 {string} string "bovino no encontrado"
// @Router /eventos [post]
func createEventHandler(svc *Service, cattleSvc *cattle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Resolver bovino por id directo o por clave natural codigo.
		cattleID := strings.TrimSpace(req.BovinoID)
		if cattleID == "" && strings.TrimSpace(req.BovinoCodigo) != "" {
			c, err := cattleSvc.GetByCode(r.Context(), req.BovinoCodigo)
			if err != nil {
				http.Error(w, "bovino no encontrado", http.StatusNotFound)
				return
			}
			cattleID = c.ID
		}
		if cattleID == "" {
			http.Error(w, "bovino_id o bovino_codigo requerido", http.StatusBadRequest)
			return
		}
		if _, err := cattleSvc.GetByID(r.Context(), cattleID); err != nil {
			http.Error(w, "bovino no encontrado", http.StatusNotFound)
			return
		}

		var date time.Time
		if strings.TrimSpace(req.Fecha) != "" {
			t, err := time.Parse(dateLayout, req.Fecha)
			if err != nil {
				http.Error(w, "fecha must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = t
		}

		e, err := svc.Create(r.Context(), CreateInput{
			CattleID:     cattleID,
			Kind:         Kind(strings.TrimSpace(req.Tipo)),
			Date:         date,
			Description:  req.Descripcion,
			Medication:   req.Medicamento,
			Dosage:       req.Dosis,
			Veterinarian: req.Veterinario,
			Notes:        req.Observaciones,
			WeightKg:     req.PesoKg,
			Cost:         req.Costo,
			Location:     req.Ubicacion,
			TimeOfDay:    req.Hora,
			Buyer:        req.Comprador,
			Destination:  req.Destino,
			Liters:       req.Litros,
			Shift:        Shift(strings.TrimSpace(req.Turno)),
			GainPerDay:   req.GananciaDia,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toEventResponse(e))
	}
}

func listEventsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getEventHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.GetByID(r.Context(), chi.URLParam(r, "eventID"))
		if err != nil {
			http.Error(w, "evento no encontrado", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(e))
	}
}

func listCattleEventsHandler(svc *Service, cattleSvc *cattle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cattleID := chi.URLParam(r, "cattleID")
		if _, err := cattleSvc.GetByID(r.Context(), cattleID); err != nil {
			http.Error(w, "bovino no encontrado", http.StatusNotFound)
			return
		}

		filter, err := filterFromQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByCattle(r.Context(), cattleID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]eventResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toEventResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func filterFromQuery(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	filter := ListFilter{
		CattleID: q.Get("bovino_id"),
		Kind:     Kind(q.Get("tipo")),
	}

	if v := q.Get("desde"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return ListFilter{}, errors.New("desde must be YYYY-MM-DD")
		}
		filter.From = &t
	}
	if v := q.Get("hasta"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return ListFilter{}, errors.New("hasta must be YYYY-MM-DD")
		}
		filter.To = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return ListFilter{}, errors.New("limit must be a positive integer")
		}
		filter.Limit = n
	}
	return filter, nil
}

func toEventResponse(e Event) eventResponse {
	return eventResponse{
		ID:            e.ID,
		BovinoID:      e.CattleID,
		Tipo:          string(e.Kind),
		Fecha:         e.Date.Format(dateLayout),
		Descripcion:   e.Description,
		Medicamento:   e.Medication,
		Dosis:         e.Dosage,
		Veterinario:   e.Veterinarian,
		Observaciones: e.Notes,
		PesoKg:        e.WeightKg,
		Costo:         e.Cost,
		Ubicacion:     e.Location,
		Hora:          e.TimeOfDay,
		Comprador:     e.Buyer,
		Destino:       e.Destination,
		Litros:        e.Liters,
		Turno:         string(e.Shift),
		GananciaDia:   e.GainPerDay,
		CreatedAt:     e.CreatedAt,
	}
}

// writeJSON duplicado a propósito por módulo (ver nota en owners/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
