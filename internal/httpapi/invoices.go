package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/application/service"
	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/TemirB/order-invoices/internal/importer"
	"github.com/TemirB/order-invoices/internal/observability"
)

type deleteResponse struct {
	Message        string          `json:"message"`
	DeletedInvoice *domain.Invoice `json:"deletedInvoice"`
}

func (s *Server) createInvoices(w http.ResponseWriter, r *http.Request) {
	records, err := importer.DecodeBatch(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status, body := importErrorResponse(err)
		writeJSON(w, status, body)
		return
	}

	created, st, err := s.invoices.ImportWithStats(r.Context(), records)
	observability.AddTimings(w.Header(), observability.Timing{Name: "db", DurMs: st.DBMs})
	if err != nil {
		status, body := importErrorResponse(err)
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) listInvoices(w http.ResponseWriter, r *http.Request) {
	views, err := s.invoices.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Error fetching invoices", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getInvoice(w http.ResponseWriter, r *http.Request) {
	view, err := s.invoices.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Invoice not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Error fetching invoice", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) updateInvoice(w http.ResponseWriter, r *http.Request) {
	var in service.InvoiceUpdate
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		s.logger.Debug("Error while decoding JSON", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body", Error: err.Error()})
		return
	}

	inv, err := s.invoices.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		status, body := updateErrorResponse(err, in)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Invoice not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Error deleting invoice", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Message: "Invoice deleted successfully", DeletedInvoice: inv})
}
