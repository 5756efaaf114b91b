package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/altinukshini/harvester-reports/internal/api"
	"github.com/altinukshini/harvester-reports/internal/query"
	"github.com/altinukshini/harvester-reports/internal/store"
)

type handlers struct {
	cfg Config
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func (h *handlers) enabled(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.cfg.Enabled {
			http.NotFound(w, r)
			return
		}
		next(w, r)
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) runs(w http.ResponseWriter, r *http.Request) {
	payload, err := store.LoadPayload(r.Context(), h.cfg.Runs, h.cfg.RunsLimit)
	if err != nil {
		log.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("server: load runs")
		writeMessage(w, http.StatusInternalServerError, "Could not load runs")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// download streams every audit log matching q as a text attachment.
func (h *handlers) download(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeMessage(w, http.StatusBadRequest, "No query provided")
		return
	}

	page, err := h.cfg.Search.SearchAuditLogs(r.Context(), api.SearchParams{Query: q, Size: api.MaxExportSize})
	if err != nil {
		log.Error().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("server: export search")
		writeMessage(w, http.StatusBadGateway, "Audit log search failed")
		return
	}

	filename := query.ExportFilename(h.cfg.Now())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	for i, e := range page.Entries {
		if _, err := w.Write([]byte(e.Line())); err != nil {
			return
		}
		if flusher != nil && (i+1)%100 == 0 {
			flusher.Flush()
		}
	}
}

type hitResource struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type hitUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type hit struct {
	ID       string      `json:"id"`
	Created  string      `json:"created"`
	Action   string      `json:"action"`
	Resource hitResource `json:"resource"`
	User     hitUser     `json:"user"`
}

// auditLogs answers in the upstream search response shape so clients can
// point at either.
func (h *handlers) auditLogs(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	p := api.SearchParams{Query: v.Get("q"), SortBy: v.Get("sort")}
	p.Page, _ = strconv.Atoi(v.Get("page"))
	p.Size, _ = strconv.Atoi(v.Get("size"))
	if p.Size > api.MaxExportSize {
		p.Size = api.MaxExportSize
	}

	page, err := h.cfg.Search.SearchAuditLogs(r.Context(), p)
	if err != nil {
		status := api.StatusCode(err)
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		log.Warn().Err(err).Str("request_id", RequestIDFromContext(r.Context())).Msg("server: audit log search")
		writeMessage(w, status, "Audit log search failed")
		return
	}

	hits := make([]hit, 0, len(page.Entries))
	for _, e := range page.Entries {
		hits = append(hits, hit{
			ID:       e.ID,
			Created:  e.Created,
			Action:   e.Action,
			Resource: hitResource{Type: e.ResourceType, ID: e.ResourceID},
			User:     hitUser{ID: e.UserID, Email: e.UserEmail},
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"hits": map[string]interface{}{
			"total": page.Total,
			"hits":  hits,
		},
	})
}
