// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"partprice/internal/app"
	"partprice/internal/domain"
)

// Submitter hands a part to background enrichment without waiting for it.
type Submitter interface {
	Submit(p domain.Part)
}

type Handlers struct {
	D Submitter
	Q *app.QueryService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type uploadRequest struct {
	Manufacturer *string `json:"manufacturer"`
	PartNumber   *string `json:"part_number"`
}

type comparisonResponse struct {
	domain.ComparisonResult
	ID        int64     `json:"id"`
	PartID    *int64    `json:"part_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/parts", h.uploadPart)
	s.mux.Get("/v1/comparisons/latest", h.latestComparison)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// uploadPart acknowledges at once; enrichment and storage happen out-of-band.
func (h *Handlers) uploadPart(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", "body must be a JSON object")
		return
	}

	var missing []string
	if req.Manufacturer == nil || strings.TrimSpace(*req.Manufacturer) == "" {
		missing = append(missing, "manufacturer")
	}
	if req.PartNumber == nil || strings.TrimSpace(*req.PartNumber) == "" {
		missing = append(missing, "part_number")
	}
	if len(missing) > 0 {
		writeProblem(w, http.StatusUnprocessableEntity, "Invalid part", "missing fields: "+strings.Join(missing, ", "))
		return
	}

	h.D.Submit(domain.Part{
		Manufacturer: strings.TrimSpace(*req.Manufacturer),
		PartNumber:   strings.TrimSpace(*req.PartNumber),
	})
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handlers) latestComparison(w http.ResponseWriter, r *http.Request) {
	mfr := r.URL.Query().Get("manufacturer")
	pn := r.URL.Query().Get("part_number")
	if strings.TrimSpace(mfr) == "" || strings.TrimSpace(pn) == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid query", "manufacturer and part_number are required")
		return
	}

	sc, err := h.Q.LatestComparison(r.Context(), mfr, pn)
	switch {
	case errors.Is(err, app.ErrNoStore):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "persistence is not configured")
		return
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "no comparison for this part")
		return
	case err != nil:
		log.Error().Err(err).Msg("latest comparison lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	etag, body := calcETagAndBody(comparisonResponse{
		ID:               sc.ID,
		PartID:           sc.PartID,
		ComparisonResult: sc.Result,
		CreatedAt:        sc.CreatedAt,
	})
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write latestComparison body")
	}
}
