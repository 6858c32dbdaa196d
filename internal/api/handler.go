// Package api exposes the message collection over HTTP as JSON-LD.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"messageapi/internal/config"
	"messageapi/internal/message"
)

const healthTimeout = 2 * time.Second

// Handler serves the message endpoints.
type Handler struct {
	store    message.Store
	pageSize int
	logger   *slog.Logger
}

func NewHandler(store message.Store, cfg config.APIConfig, logger *slog.Logger) *Handler {
	pageSize := cfg.ItemsPerPage
	if pageSize <= 0 {
		pageSize = message.DefaultPageSize
	}
	return &Handler{
		store:    store,
		pageSize: pageSize,
		logger:   logger.With("component", "api"),
	}
}

// Teapot answers the root path.
func (h *Handler) Teapot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusTeapot, contentTypeJSON, map[string]string{
		"message": "Take a break, make some tea.",
	})
}

// ListMessages returns the filtered, paginated message collection.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := parseFilter(query)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	pageNumber, err := parsePage(query, h.pageSize)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page := message.Page{Number: pageNumber, Size: h.pageSize}

	messages, total, err := h.store.List(r.Context(), filter, page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, contentTypeJSONLD, newCollection(messages, total, linkQuery(query, filter), page))
}

// MessageContext serves the JSON-LD context referenced by collections.
func (h *Handler) MessageContext(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, contentTypeJSONLD, messageContext())
}

// Health reports whether the store is reachable.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.WarnContext(ctx, "Health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, contentTypeJSON, map[string]string{"status": "unhealthy"})
		return
	}
	writeJSON(w, http.StatusOK, contentTypeJSON, map[string]string{"status": "healthy"})
}

func parseFilter(query url.Values) (message.Filter, error) {
	var filter message.Filter

	if raw := query.Get("id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, &badRequestError{param: "id", msg: "invalid UUID " + strconv.Quote(raw)}
		}
		filter.ID = &id
	}
	filter.Title = query.Get("title")

	return filter, nil
}

// parsePage rejects numbers whose offset would not fit in an int.
func parsePage(query url.Values, pageSize int) (int, error) {
	raw := query.Get("page")
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		return 0, &badRequestError{param: "page", msg: "page is out of range"}
	}
	if err != nil {
		return 0, &badRequestError{param: "page", msg: "invalid page number " + strconv.Quote(raw)}
	}
	if n < 1 {
		return 0, &badRequestError{param: "page", msg: "page should not be less than 1"}
	}
	if pageSize > 0 && n > math.MaxInt/pageSize {
		return 0, &badRequestError{param: "page", msg: "page is out of range"}
	}
	return n, nil
}

// linkQuery keeps the filters that apply so pagination links preserve them.
func linkQuery(query url.Values, filter message.Filter) url.Values {
	q := url.Values{}
	if filter.ID != nil {
		q.Set("id", query.Get("id"))
	}
	if filter.Title != "" {
		q.Set("title", filter.Title)
	}
	return q
}

func writeJSON(w http.ResponseWriter, status int, contentType string, v any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
