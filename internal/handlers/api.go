package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"shopbot/internal/catalog"
	"shopbot/internal/repo"
)

type orderResult struct {
	Success bool           `json:"success"`
	Order   *catalog.Order `json:"order,omitempty"`
	Message string         `json:"message,omitempty"`
}

type productResult struct {
	Success bool             `json:"success"`
	Product *catalog.Product `json:"product,omitempty"`
	Message string           `json:"message,omitempty"`
}

type messagesResult struct {
	Success  bool                 `json:"success"`
	Session  string               `json:"session"`
	Messages []repo.MessageRecord `json:"messages"`
}

type healthResult struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
}

// Not-found lookups answer 200 with success=false, matching the chat widget's expectations.
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := s.catalog.Order(chi.URLParam(r, "id"))
	if err != nil {
		s.metrics.ObserveLookup("order", false)
		if !errors.Is(err, catalog.ErrOrderNotFound) {
			s.logger.Error("order lookup failed", "error", err)
		}
		writeJSON(w, http.StatusOK, orderResult{Message: "Order not found"})
		return
	}
	s.metrics.ObserveLookup("order", true)
	writeJSON(w, http.StatusOK, orderResult{Success: true, Order: &order})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.catalog.Product(chi.URLParam(r, "id"))
	if err != nil {
		s.metrics.ObserveLookup("product", false)
		if !errors.Is(err, catalog.ErrProductNotFound) {
			s.logger.Error("product lookup failed", "error", err)
		}
		writeJSON(w, http.StatusOK, productResult{Message: "Product not found"})
		return
	}
	s.metrics.ObserveLookup("product", true)
	writeJSON(w, http.StatusOK, productResult{Success: true, Product: &product})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	session, err := url.PathUnescape(chi.URLParam(r, "session"))
	if err != nil || session == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session"})
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
	}

	msgs, err := s.transcripts.ListMessages(r.Context(), session, limit)
	if err != nil {
		s.logger.Error("list messages failed", "error", err, "session", session)
		s.metrics.ObserveError("transcript")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []repo.MessageRecord{}
	}
	writeJSON(w, http.StatusOK, messagesResult{Success: true, Session: session, Messages: msgs})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResult{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Service:   s.serviceName,
	})
}
