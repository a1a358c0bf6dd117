package importer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"livestock-traceability/internal/platform/metrics"
)

// Options de la ruta de importación.
type Options struct {
	// ServiceKey es la credencial privilegiada del store. Su ausencia es un
	// fallo de precondición: 500 inmediato, sin tocar el store.
	ServiceKey string
}

func RegisterRoutes(r chi.Router, svc *Service, opts Options) {
	r.Post("/import", importHandler(svc, opts))
}

type importResponse struct {
	OK     bool   `json:"ok"`
	Counts Counts `json:"counts"`
}

type importErrorResponse struct {
	Error string `json:"error"`
	Stage string `json:"stage,omitempty"`
}

// importHandler godoc
// @Summary Importación masiva con conciliación
// @Description Procesa un lote {propietarios, bovinos, eventos} en etapas secuenciales. Re-enviar el mismo lote es seguro: propietarios y bovinos se upsertean por clave, los eventos usan identificador derivado por contenido y los duplicados se ignoran.
// @Tags import
// @Accept json
// @Produce json
// @Param payload body Batch true "Lote a importar; las tres listas son opcionales"
// @Success 200 {object} importResponse
// @Failure 500 {object} importErrorResponse "Fallo de precondición o de etapa"
// @Router /import [post]
func importHandler(svc *Service, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(opts.ServiceKey) == "" {
			writeJSON(w, http.StatusInternalServerError, importErrorResponse{
				Error: "Falta SERVICE_ROLE_KEY",
			})
			return
		}

		var batch Batch
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			writeJSON(w, http.StatusBadRequest, importErrorResponse{Error: "invalid json"})
			return
		}

		summary, err := svc.Run(r.Context(), batch)
		if err != nil {
			var stageErr *StageError
			if errors.As(err, &stageErr) {
				writeJSON(w, http.StatusInternalServerError, importErrorResponse{
					Error: stageErr.Err.Error(),
					Stage: string(stageErr.Stage),
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, importErrorResponse{Error: err.Error()})
			return
		}

		counts := summary.Counts
		metrics.ImportRowsTotal.WithLabelValues("propietarios", "upserted").Add(float64(counts.Propietarios))
		metrics.ImportRowsTotal.WithLabelValues("bovinos", "upserted").Add(float64(counts.Bovinos))
		metrics.ImportRowsTotal.WithLabelValues("eventos", "inserted").Add(float64(counts.EventosInsertados))
		metrics.ImportRowsTotal.WithLabelValues("eventos", "skipped").Add(float64(counts.EventosOmitidos))

		writeJSON(w, http.StatusOK, importResponse{OK: true, Counts: counts})
	}
}

// writeJSON duplicado a propósito por módulo (ver nota en owners/handler.go).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
