package web

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kasuwa/server/internal/catalog"
	"github.com/kasuwa/server/internal/ingest"
	"github.com/kasuwa/server/internal/logging"
)

// maxFormMemory bounds how much of a multipart form is held in memory;
// larger image parts spill to temp files.
const maxFormMemory = 1 << 20

// handleSubmitProduct accepts a multipart product submission and runs
// it through the ingest pipeline. Responds 201 with the canonical
// product on success.
func (s *Server) handleSubmitProduct(w http.ResponseWriter, r *http.Request) {
	// Bound the whole request: form fields plus image.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Media.MaxUploadSize+maxFormMemory)

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, http.StatusBadRequest, "REQ001", "invalid or oversized multipart form")
		return
	}

	sub := ingest.Submission{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Contact:     r.FormValue("contact"),
		Price:       parsePrice(r.FormValue("price")),
	}

	var image io.Reader
	file, _, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		image = file
	} else if err != http.ErrMissingFile {
		writeError(w, http.StatusBadRequest, "REQ002", "malformed image field")
		return
	}

	product, err := s.pipeline.Submit(r.Context(), sub, image)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("product submitted",
		"product_id", product.ID,
		"name", product.Name,
	)
	writeJSON(w, http.StatusCreated, product)
}

// handleListProducts returns the full catalog snapshot, newest first.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// handleGetProduct returns one product or 404.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "REQ003", "invalid product id")
		return
	}

	product, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// handleSubscribe upgrades the connection and attaches it to the feed.
// The subscriber receives the current snapshot as its first message.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.FromContext(r.Context()).Error("websocket upgrade failed", "error", err)
		return
	}

	if err := s.feed.Subscribe(r.Context(), conn); err != nil {
		logging.FromContext(r.Context()).Error("subscribe failed", "error", err)
	}
}

// handleHealth is a liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"subscribers": s.feed.SubscriberCount(),
	})
}

// parsePrice parses a submitted price. Absent or unparseable values
// default to 0; a well-formed negative value is passed through so the
// pipeline's validator can reject it.
func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	price, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return price
}
