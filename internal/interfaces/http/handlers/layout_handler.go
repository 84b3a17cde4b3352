package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	layoutsvc "github.com/turtacn/molsdg/internal/application/layout"
	"github.com/turtacn/molsdg/internal/domain/catalog"
	"github.com/turtacn/molsdg/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molsdg/pkg/errors"
	"github.com/turtacn/molsdg/pkg/types/layout"
)

// ArchiveReader looks up archived layouts.
type ArchiveReader interface {
	Get(ctx context.Context, smiles string) (*layout.Result, error)
}

// LayoutHandler serves the layout endpoints.
type LayoutHandler struct {
	service     layoutsvc.Service
	archive     ArchiveReader
	logger      logging.Logger
	maxBodySize int64
}

// NewLayoutHandler creates a LayoutHandler. archive may be nil.
func NewLayoutHandler(service layoutsvc.Service, archive ArchiveReader, logger logging.Logger, maxBodySize int64) *LayoutHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &LayoutHandler{
		service:     service,
		archive:     archive,
		logger:      logger.Named("http.layout"),
		maxBodySize: maxBodySize,
	}
}

// Layout handles POST /api/v1/layout.
func (h *LayoutHandler) Layout(w http.ResponseWriter, r *http.Request) {
	var req layout.Request
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = logging.RequestIDFromContext(r.Context())
	}
	res, err := h.service.Layout(r.Context(), &req)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

// BatchLayout handles POST /api/v1/layout/batch.
func (h *LayoutHandler) BatchLayout(w http.ResponseWriter, r *http.Request) {
	var req layout.BatchRequest
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	resp, err := h.service.BatchLayout(r.Context(), &req)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, resp)
}

// Report handles POST /api/v1/report.
func (h *LayoutHandler) Report(w http.ResponseWriter, r *http.Request) {
	var req layout.Request
	if err := decodeJSON(w, r, h.maxBodySize, &req); err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	rep, err := h.service.Report(r.Context(), &req)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, rep)
}

// ListExamples handles GET /api/v1/examples?category=.
func (h *LayoutHandler) ListExamples(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Examples(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	if entries == nil {
		entries = []catalog.Entry{}
	}
	writeData(w, r, http.StatusOK, entries)
}

// ExampleLayout handles GET /api/v1/examples/{name}/layout and
// GET /api/v1/examples/{category}/{name}/layout. Layout options may be given
// as query parameters.
func (h *LayoutHandler) ExampleLayout(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "name")
	if cat := chi.URLParam(r, "category"); cat != "" {
		key = cat + "/" + key
	}
	opts, err := optionsFromQuery(r)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	res, err := h.service.Layout(r.Context(), &layout.Request{
		RequestID: logging.RequestIDFromContext(r.Context()),
		Example:   key,
		Options:   opts,
	})
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

// Archived handles GET /api/v1/archive?smiles=.
func (h *LayoutHandler) Archived(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeAppError(w, r, h.logger, errors.New(errors.ErrCodeNotImplemented, "layout archive is disabled"))
		return
	}
	smi := strings.TrimSpace(r.URL.Query().Get("smiles"))
	if smi == "" {
		writeAppError(w, r, h.logger, errors.InvalidParam("query parameter smiles is required"))
		return
	}
	res, err := h.archive.Get(r.Context(), smi)
	if err != nil {
		writeAppError(w, r, h.logger, err)
		return
	}
	writeData(w, r, http.StatusOK, res)
}

// optionsFromQuery reads bond_length, max_shared_bonds and max_beta_atoms.
func optionsFromQuery(r *http.Request) (layout.Options, error) {
	var opts layout.Options
	q := r.URL.Query()
	if v := q.Get("bond_length"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return opts, errors.InvalidParam("bond_length must be a non-negative number").WithDetail(v)
		}
		opts.BondLength = f
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"max_shared_bonds", &opts.MaxSharedBonds},
		{"max_beta_atoms", &opts.MaxBetaAtoms},
	}
	for _, p := range ints {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, errors.InvalidParam(p.name + " must be a non-negative integer").WithDetail(v)
		}
		*p.dst = n
	}
	return opts, nil
}

//Personal.AI order the ending
