package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"quote-service/internal/catalog"
	"quote-service/internal/metrics"
	"quote-service/internal/quote/export"
	"quote-service/internal/quote/model"
	"quote-service/internal/quote/service"
	"quote-service/internal/quote/session"
)

// Deps are the collaborators shared by all quotation handlers.
type Deps struct {
	Engine   *service.Engine
	Catalog  *catalog.Store
	Sessions *session.Store
	Logger   zerolog.Logger
}

type searchRequest struct {
	Text  string            `json:"text"`
	Terms []model.QueryTerm `json:"terms"`
}

type quotationResponse struct {
	ID string `json:"id"`
	service.View
}

// readSearch accepts JSON {text} / {terms} or a plain text body.
func readSearch(r *http.Request) (searchRequest, error) {
	var req searchRequest
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "text/plain") {
		req.Text = string(b)
		return req, nil
	}
	if err := json.Unmarshal(b, &req); err != nil {
		return req, fmt.Errorf("bad json: %w", err)
	}
	return req, nil
}

// runSearch builds a new quotation in the session. A search overtaken by a
// newer one on the same session is dropped and the newer state returned.
func runSearch(d Deps, s *session.Session, r *http.Request, req searchRequest) *service.Quotation {
	t := s.Begin()
	var q *service.Quotation
	if len(req.Terms) > 0 {
		q = d.Engine.Build(req.Terms)
	} else {
		q = d.Engine.Search(r.Context(), req.Text)
	}
	if !s.Publish(t, q) {
		log := reqLogger(d.Logger, r)
		log.Info().Str("session", s.ID).Msg("stale search discarded")
		if cur := s.Quotation(); cur != nil {
			return cur
		}
	}
	return q
}

// CreateQuotation: POST /quotations
func CreateQuotation(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		req, err := readSearch(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s := d.Sessions.Create()
		q := runSearch(d, s, r, req)

		log := reqLogger(d.Logger, r)
		log.Info().
			Str("session", s.ID).
			Int("lines", q.Len()).
			Dur("elapsed", time.Since(start)).
			Msg("quotation created")
		writeJSON(w, http.StatusCreated, quotationResponse{ID: s.ID, View: q.View(r.URL.Query().Get("supplier"))})
	}
}

// Research: POST /quotations/{id}/search, replaces lines and clears overrides.
func Research(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		req, err := readSearch(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		q := runSearch(d, s, r, req)
		writeJSON(w, http.StatusOK, quotationResponse{ID: s.ID, View: q.View(r.URL.Query().Get("supplier"))})
	}
}

// GetQuotation: GET /quotations/{id}?supplier=
func GetQuotation(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, q, ok := lookupQuotation(d, w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, quotationResponse{ID: s.ID, View: q.View(r.URL.Query().Get("supplier"))})
	}
}

type selectionRequest struct {
	ItemID   string          `json:"itemId"`
	Quantity json.RawMessage `json:"quantity"`
}

// SetSelection: PUT /quotations/{id}/lines/{line}/selection
func SetSelection(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, q, ok := lookupQuotation(d, w, r)
		if !ok {
			return
		}
		var req selectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad json: "+err.Error())
			return
		}
		line := atoi(chi.URLParam(r, "line"), -1)
		if err := q.SetSelection(line, req.ItemID, quantityOf(req.Quantity)); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quotationResponse{ID: s.ID, View: q.View(r.URL.Query().Get("supplier"))})
	}
}

// ClearSelection: DELETE /quotations/{id}/lines/{line}/selection
func ClearSelection(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, q, ok := lookupQuotation(d, w, r)
		if !ok {
			return
		}
		if err := q.ClearSelection(atoi(chi.URLParam(r, "line"), -1)); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, quotationResponse{ID: s.ID, View: q.View(r.URL.Query().Get("supplier"))})
	}
}

// Export: GET /quotations/{id}/export?format=csv|xlsx&supplier=
func Export(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, q, ok := lookupQuotation(d, w, r)
		if !ok {
			return
		}
		t := export.Build(q, r.URL.Query().Get("supplier"))
		name := "cotacao-" + s.ID[:8]

		var err error
		switch strings.ToLower(r.URL.Query().Get("format")) {
		case "", "csv":
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.csv"`)
			err = export.WriteCSV(w, t)
		case "xlsx":
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", `attachment; filename="`+name+`.xlsx"`)
			err = export.WriteXLSX(w, t)
		default:
			writeError(w, http.StatusBadRequest, "unknown format")
			return
		}
		if err != nil {
			log := reqLogger(d.Logger, r)
			log.Error().Err(err).Msg("export")
		}
	}
}

type candidateView struct {
	model.CandidateMatch
	Breakdown *service.Breakdown `json:"breakdown,omitempty"`
}

// Search: GET /search?q=...&explain=1 ranks a single term.
func Search(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing q")
			return
		}
		explain := toBool(r.URL.Query().Get("explain"), false)
		cands := d.Engine.Rank(query)
		out := make([]candidateView, 0, len(cands))
		for _, c := range cands {
			cv := candidateView{CandidateMatch: c}
			if explain {
				b := d.Engine.Ranker().Explain(c.Item, query)
				cv.Breakdown = &b
			}
			out = append(out, cv)
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"query":      query,
			"policy":     d.Engine.Ranker().Scorer().Policy().Name,
			"candidates": out,
		})
	}
}

// UploadCatalog: POST /catalog (multipart "file"), replaces the snapshot.
func UploadCatalog(d Deps, maxMemory int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := reqLogger(d.Logger, r)
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, hdr, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		m := catalog.Mapping{
			Title:       r.FormValue("title_col"),
			Code:        r.FormValue("code_col"),
			Price:       r.FormValue("price_col"),
			Supplier:    r.FormValue("supplier_col"),
			Brand:       r.FormValue("brand_col"),
			Category:    r.FormValue("category_col"),
			Description: r.FormValue("description_col"),
			ID:          r.FormValue("id_col"),
		}
		items, err := catalog.Load(file, hdr.Filename, atoi(r.FormValue("header_row"), 1), m)
		if err != nil {
			metrics.IncCatalogLoad("error")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		c := d.Catalog.Replace(items)
		metrics.IncCatalogLoad("ok")
		log.Info().Str("file", hdr.Filename).Int("items", c.Len()).Msg("catalog replaced")
		writeJSON(w, http.StatusOK, catalogInfo(c))
	}
}

// CatalogInfo: GET /catalog
func CatalogInfo(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, catalogInfo(d.Catalog.Snapshot()))
	}
}

func catalogInfo(c *service.Catalog) map[string]any {
	sup := c.Suppliers()
	if sup == nil {
		sup = []string{}
	}
	return map[string]any{"items": c.Len(), "suppliers": sup}
}

func lookupSession(d Deps, w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := d.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return s, true
}

func lookupQuotation(d Deps, w http.ResponseWriter, r *http.Request) (*session.Session, *service.Quotation, bool) {
	s, ok := lookupSession(d, w, r)
	if !ok {
		return nil, nil, false
	}
	q := s.Quotation()
	if q == nil {
		writeError(w, http.StatusNotFound, "no quotation in session")
		return nil, nil, false
	}
	return s, q, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLineOutOfRange):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnknownItem):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
