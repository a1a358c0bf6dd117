package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	blobmem "livestock-traceability/internal/adapters/blob/memory"
	"livestock-traceability/internal/router"
)

func TestHTTP_EndToEnd_HerdLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{ServiceKey: "test-key"}))
	defer ts.Close()

	// 1) Health
	{
		st, body := doReq(t, ts.URL, "GET", "/health", nil)
		if st != http.StatusOK || string(body) != "ok" {
			t.Fatalf("expected 200 ok from /health, got %d %s", st, string(body))
		}
	}

	// 2) Alta de propietario
	ownerID := createJSON(t, ts.URL, "/propietarios", map[string]any{
		"nombre":    "Juan",
		"apellidos": "Perez",
		"telefono":  "999888777",
		"direccion": "Av. Los Incas 123",
		"ciudad":    "Cajamarca",
	})

	// 3) Alta de bovino
	cattleID := createJSON(t, ts.URL, "/bovinos", map[string]any{
		"codigo":             "BOV-1",
		"nombre":             "Estrella",
		"sexo":               "Hembra",
		"propietario_id":     ownerID,
		"nombre_propietario": "Juan Perez",
	})

	// 4) Codigo duplicado => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/bovinos", map[string]any{"codigo": "BOV-1"})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate codigo, got %d", st)
		}
	}

	// 5) Evento por codigo (sin conocer el id del bovino)
	{
		st, body := doReq(t, ts.URL, "POST", "/eventos", map[string]any{
			"bovino_codigo": "BOV-1",
			"tipo":          "Vacunación",
			"fecha":         "2026-03-01",
			"descripcion":   "Aftosa",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 creating evento, got %d body=%s", st, string(body))
		}
	}

	// 6) PATCH de estado => evento derivado Venta en el historial
	{
		st, body := doReq(t, ts.URL, "PATCH", "/bovinos/"+cattleID, map[string]any{
			"estado": "Vendido",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 patching bovino, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/bovinos/"+cattleID+"/eventos", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 listing historial, got %d", st)
		}
		var evs []map[string]any
		if err := json.Unmarshal(body, &evs); err != nil {
			t.Fatalf("decode historial: %v", err)
		}
		if len(evs) != 2 {
			t.Fatalf("expected 2 events (vacunación + venta derivada), got %d", len(evs))
		}
		found := false
		for _, e := range evs {
			if e["tipo"] == "Venta" {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected derived Venta event in historial: %+v", evs)
		}
	}

	// 7) Importación masiva y re-importación idempotente
	batch := map[string]any{
		"propietarios": []map[string]any{{"nombre": "Maria"}},
		"bovinos":      []map[string]any{{"codigo": "BOV-2", "nombre": "Luna"}},
		"eventos": []map[string]any{
			{"bovino_codigo": "BOV-2", "tipo": "Registro", "fecha": "2026-01-15"},
		},
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/import", batch)
		if st != http.StatusOK {
			t.Fatalf("expected 200 import, got %d body=%s", st, string(body))
		}
		var resp struct {
			OK     bool `json:"ok"`
			Counts struct {
				EventosInsertados int `json:"eventos_insertados"`
			} `json:"counts"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decode import response: %v", err)
		}
		if !resp.OK || resp.Counts.EventosInsertados != 1 {
			t.Fatalf("unexpected import response: %s", string(body))
		}

		// Mismo lote otra vez: nada nuevo
		st, body = doReq(t, ts.URL, "POST", "/import", batch)
		if st != http.StatusOK {
			t.Fatalf("expected 200 reimport, got %d", st)
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("decode reimport response: %v", err)
		}
		if resp.Counts.EventosInsertados != 0 {
			t.Fatalf("expected 0 net-new events on reimport, got %d", resp.Counts.EventosInsertados)
		}
	}

	// 8) Resumen del hato
	{
		st, body := doReq(t, ts.URL, "GET", "/reportes/resumen", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 resumen, got %d", st)
		}
		var sum struct {
			TotalBovinos int `json:"total_bovinos"`
		}
		if err := json.Unmarshal(body, &sum); err != nil {
			t.Fatalf("decode resumen: %v", err)
		}
		if sum.TotalBovinos != 2 {
			t.Fatalf("expected 2 bovinos in resumen, got %d", sum.TotalBovinos)
		}
	}

	// 9) Export XLSX
	{
		resp, err := http.Get(ts.URL + "/reportes/export")
		if err != nil {
			t.Fatalf("export request error: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 export, got %d", resp.StatusCode)
		}
		ct := resp.Header.Get("Content-Type")
		if !strings.Contains(ct, "spreadsheetml") {
			t.Fatalf("unexpected export content type: %s", ct)
		}
	}

	// 10) Enlaces de mapa del propietario
	{
		st, body := doReq(t, ts.URL, "GET", "/propietarios/"+ownerID+"/mapa", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 mapa, got %d body=%s", st, string(body))
		}
		var m struct {
			GoogleMapsURL string `json:"google_maps_url"`
		}
		if err := json.Unmarshal(body, &m); err != nil {
			t.Fatalf("decode mapa: %v", err)
		}
		if m.GoogleMapsURL == "" {
			t.Fatalf("expected google_maps_url, got %s", string(body))
		}
	}
}

func TestHTTP_Import_MissingServiceKey(t *testing.T) {
	// Sin SERVICE_ROLE_KEY el importador rechaza todo con 500 antes de
	// tocar el store.
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "POST", "/import", map[string]any{
		"propietarios": []map[string]any{{"nombre": "Juan"}},
	})
	if st != http.StatusInternalServerError {
		t.Fatalf("expected 500 without service key, got %d", st)
	}
	var resp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != "Falta SERVICE_ROLE_KEY" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}

	// Y nada quedó escrito
	st, body = doReq(t, ts.URL, "GET", "/propietarios", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 listing propietarios, got %d", st)
	}
	var list []map[string]any
	if err := json.Unmarshal(body, &list); err != nil {
		t.Fatalf("decode propietarios: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty store after rejected import, got %d rows", len(list))
	}
}

func TestHTTP_CattlePhotoUpload(t *testing.T) {
	photos := blobmem.NewStore()
	ts := httptest.NewServer(router.NewRouter(router.Options{Photos: photos}))
	defer ts.Close()

	cattleID := createJSON(t, ts.URL, "/bovinos", map[string]any{"codigo": "BOV-1"})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("foto", "estrella.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake-jpeg-bytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}

	resp, err := http.Post(ts.URL+"/bovinos/"+cattleID+"/foto", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("upload request error: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 uploading foto, got %d body=%s", resp.StatusCode, string(raw))
	}

	var out struct {
		Foto string `json:"foto"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if !strings.HasPrefix(out.Foto, "memory://bovinos/"+cattleID+"/") {
		t.Fatalf("unexpected foto url: %q", out.Foto)
	}

	// El contenido quedó en el store bajo la key de la URL
	key := strings.TrimPrefix(out.Foto, "memory://")
	data, _, ok := photos.Get(key)
	if !ok {
		t.Fatalf("expected blob stored under %q", key)
	}
	if string(data) != "fake-jpeg-bytes" {
		t.Fatalf("unexpected blob content: %q", string(data))
	}
}

func TestHTTP_CattlePhotoUpload_NoStore(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	cattleID := createJSON(t, ts.URL, "/bovinos", map[string]any{"codigo": "BOV-1"})

	resp, err := http.Post(ts.URL+"/bovinos/"+cattleID+"/foto", "multipart/form-data", strings.NewReader(""))
	if err != nil {
		t.Fatalf("upload request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without blob store, got %d", resp.StatusCode)
	}
}

// -------------------------
// Helpers
// -------------------------

func doReq(t *testing.T, baseURL, method, path string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, raw
}

func createJSON(t *testing.T, baseURL, path string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 creating %s, got %d body=%s", path, st, string(body))
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if out.ID == "" {
		t.Fatalf("expected id in create response: %s", string(body))
	}
	return out.ID
}
