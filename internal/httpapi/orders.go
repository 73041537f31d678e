package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/TemirB/order-invoices/internal/domain"
	"github.com/TemirB/order-invoices/internal/observability"
)

type createOrderRequest struct {
	OrderID         string `json:"orderId" validate:"required"`
	CustomerName    string `json:"customerName" validate:"required"`
	ContactEmail    string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone    string `json:"contactPhone"`
	QuotationNumber string `json:"quotationNumber"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSON(w, http.StatusUnsupportedMediaType, errorBody{Message: "Content-Type must be application/json"})
		return
	}

	var req createOrderRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.logger.Debug("Error while decoding JSON", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, errorBody{Message: "Invalid request body", Error: err.Error()})
		return
	}
	req.OrderID = strings.TrimSpace(req.OrderID)
	req.CustomerName = strings.TrimSpace(req.CustomerName)

	if err := s.validate.Struct(req); err != nil {
		writeJSON(w, http.StatusBadRequest, validationBody(err))
		return
	}

	order := &domain.Order{
		OrderID:         req.OrderID,
		CustomerName:    req.CustomerName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		QuotationNumber: req.QuotationNumber,
	}
	if err := s.orders.Create(r.Context(), order); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody{Message: fmt.Sprintf("Order with ID %s already exists.", order.OrderID)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Error creating order", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func validationBody(err error) errorBody {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errorBody{Message: "Invalid request body", Error: err.Error()}
	}
	body := errorBody{Message: "Missing required fields."}
	for _, fe := range verrs {
		if fe.Tag() != "required" {
			body.Message = "Invalid fields."
		}
		body.Fields = append(body.Fields, fe.Field())
	}
	return body
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Error fetching orders", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	order, st, err := s.orders.GetOrderByOrderIDWithStats(r.Context(), orderID)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Message: "Order not found"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: "Error fetching order", Error: err.Error()})
		return
	}

	h := w.Header()
	observability.AddTimings(h,
		observability.Timing{Name: "cache", DurMs: st.CacheMs},
		observability.Timing{Name: "db", DurMs: st.DBMs},
		observability.Timing{Name: "source", Desc: string(st.Source)},
	)
	h.Set("X-Source", string(st.Source))
	observability.SetMillis(h, observability.HeaderCacheTime, st.CacheMs)
	observability.SetMillis(h, observability.HeaderDBTime, st.DBMs)

	writeJSON(w, http.StatusOK, order)
}
