package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/okravets/calendar-be/internal/auth"
	"github.com/okravets/calendar-be/internal/errs"
	"github.com/okravets/calendar-be/internal/models"
	"github.com/okravets/calendar-be/internal/services"
)

// EventHandler handles HTTP requests for calendar events. The owner id is
// always taken from the authenticated context, never from the payload.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// EventPayload defines the structure for create requests.
type EventPayload struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Importance  *string `json:"importance"`
}

// EventPatchPayload defines the structure for update requests. Absent fields
// leave the stored values untouched.
type EventPatchPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Importance  *string `json:"importance"`
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid %s %q", errs.ErrValidation, field, value)
}

func parseImportance(value string) (models.Importance, error) {
	imp, err := models.ParseImportance(value)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}
	return imp, nil
}

// Create handles POST /events.
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var payload EventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := services.EventCreate{
		Title:       payload.Title,
		Description: payload.Description,
	}
	if payload.StartDate != "" {
		start, err := parseDate("startDate", payload.StartDate)
		if err != nil {
			writeError(w, err)
			return
		}
		in.StartDate = start
	}
	if payload.EndDate != nil {
		end, err := parseDate("endDate", *payload.EndDate)
		if err != nil {
			writeError(w, err)
			return
		}
		in.EndDate = &end
	}
	if payload.Importance != nil {
		imp, err := parseImportance(*payload.Importance)
		if err != nil {
			writeError(w, err)
			return
		}
		in.Importance = imp
	}

	event, err := h.service.Create(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// List handles GET /events with optional importance and keyword filters.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authorization required")
		return
	}

	filter := services.EventFilter{Keyword: r.URL.Query().Get("keyword")}
	if raw := r.URL.Query().Get("importance"); raw != "" {
		imp, err := parseImportance(raw)
		if err != nil {
			writeError(w, err)
			return
		}
		filter.Importance = &imp
	}

	events, err := h.service.List(r.Context(), user.ID, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Get handles GET /events/{id}.
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authorization required")
		return
	}

	event, err := h.service.Get(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Update handles PUT /events/{id}, merging only the supplied fields.
func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var payload EventPatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := services.EventUpdate{
		Title:       payload.Title,
		Description: payload.Description,
	}
	if payload.StartDate != nil {
		start, err := parseDate("startDate", *payload.StartDate)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.StartDate = &start
	}
	if payload.EndDate != nil {
		end, err := parseDate("endDate", *payload.EndDate)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.EndDate = &end
	}
	if payload.Importance != nil {
		imp, err := parseImportance(*payload.Importance)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.Importance = &imp
	}

	event, err := h.service.Update(r.Context(), user.ID, chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// Delete handles DELETE /events/{id}.
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "authorization required")
		return
	}

	if err := h.service.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "event deleted")
}
