package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicpref/internal/models"
	"github.com/desertthunder/musicpref/internal/shared"
	"github.com/go-playground/validator/v10"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var validate = validator.New()

// PreferenceStore is the set of preference operations the HTTP surface exposes.
type PreferenceStore interface {
	List(ctx context.Context, criteria map[string]any) ([]*models.MusicPreference, error)
	Get(ctx context.Context, uid string) (*models.MusicPreference, error)
	CreateOrUpdate(ctx context.Context, data models.Fields) (*models.MusicPreference, error)
	UpdateByUID(ctx context.Context, uid string, input any) (*models.MusicPreference, error)
	Delete(ctx context.Context, uid string) error
	AddFavorite(ctx context.Context, uid, item string) (bool, error)
	RemoveFavorite(ctx context.Context, uid, item string) (bool, error)
	Restore(ctx context.Context, records []models.Fields) ([]models.Fields, error)
}

type errorBody struct {
	Error string `json:"error"`
}

type favoriteRequest struct {
	Item string `json:"item" validate:"required,max=255"`
}

type favoriteResponse struct {
	UID     string `json:"uid"`
	Item    string `json:"item"`
	Changed bool   `json:"changed"`
}

// PreferenceHandler serves the /api/preferences endpoints.
type PreferenceHandler struct {
	store  PreferenceStore
	logger *log.Logger
	mux    *http.ServeMux
}

// NewPreferenceHandler creates a [PreferenceHandler] over store.
func NewPreferenceHandler(store PreferenceStore, logger *log.Logger) *PreferenceHandler {
	h := &PreferenceHandler{store: store, logger: logger, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /api/preferences", h.list)
	h.mux.HandleFunc("POST /api/preferences", h.createOrUpdate)
	h.mux.HandleFunc("POST /api/preferences/restore", h.restore)
	h.mux.HandleFunc("GET /api/preferences/{uid}", h.get)
	h.mux.HandleFunc("PUT /api/preferences/{uid}", h.update)
	h.mux.HandleFunc("DELETE /api/preferences/{uid}", h.delete)
	h.mux.HandleFunc("POST /api/preferences/{uid}/favorites", h.addFavorite)
	h.mux.HandleFunc("DELETE /api/preferences/{uid}/favorites/{item}", h.removeFavorite)

	return h
}

// Routes returns the HTTP patterns this handler serves.
func (h *PreferenceHandler) Routes() []string {
	return []string{
		"GET /api/preferences",
		"POST /api/preferences",
		"POST /api/preferences/restore",
		"GET /api/preferences/{uid}",
		"PUT /api/preferences/{uid}",
		"DELETE /api/preferences/{uid}",
		"POST /api/preferences/{uid}/favorites",
		"DELETE /api/preferences/{uid}/favorites/{item}",
	}
}

// ServeHTTP dispatches to the endpoint matching the request.
func (h *PreferenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// list answers GET /api/preferences. Supports ?platform=, ?favorite= and ?limit= filters.
func (h *PreferenceHandler) list(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	criteria := map[string]any{
		"music_platform": query.Get("platform"),
		"favorite":       query.Get("favorite"),
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			h.writeError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", shared.ErrInvalidInput))
			return
		}
		criteria["limit"] = limit
	}

	prefs, err := h.store.List(r.Context(), criteria)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

func (h *PreferenceHandler) get(w http.ResponseWriter, r *http.Request) {
	pref, err := h.store.Get(r.Context(), r.PathValue("uid"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pref)
}

// createOrUpdate answers POST /api/preferences with a JSON object body.
func (h *PreferenceHandler) createOrUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[any](w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	fields, ok := models.AsFields(body)
	if !ok {
		h.writeError(w, r, fmt.Errorf("%w: body must be a JSON object", shared.ErrInvalidInput))
		return
	}

	pref, err := h.store.CreateOrUpdate(r.Context(), fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pref)
}

// update answers PUT /api/preferences/{uid}. A body that is not a JSON object leaves the record as is.
func (h *PreferenceHandler) update(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[any](w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	pref, err := h.store.UpdateByUID(r.Context(), r.PathValue("uid"), body)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pref)
}

func (h *PreferenceHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), r.PathValue("uid")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PreferenceHandler) addFavorite(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[favoriteRequest](w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err))
		return
	}

	uid := r.PathValue("uid")
	added, err := h.store.AddFavorite(r.Context(), uid, req.Item)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, favoriteResponse{UID: uid, Item: req.Item, Changed: added})
}

func (h *PreferenceHandler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	uid, item := r.PathValue("uid"), r.PathValue("item")

	removed, err := h.store.RemoveFavorite(r.Context(), uid, item)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, favoriteResponse{UID: uid, Item: item, Changed: removed})
}

// restore answers POST /api/preferences/restore with a JSON array of objects.
func (h *PreferenceHandler) restore(w http.ResponseWriter, r *http.Request) {
	records, err := decodeBody[[]map[string]any](w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	fields := make([]models.Fields, 0, len(records))
	for _, record := range records {
		fields = append(fields, models.Fields(record))
	}

	restored, err := h.store.Restore(r.Context(), fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, restored)
}

// writeError maps err to a status code and writes it as a JSON error body.
func (h *PreferenceHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "path", r.URL.Path, "error", err,
			"request_id", RequestIDFromContext(r.Context()))
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

// StatusFor returns the HTTP status code for a service error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrPreferenceNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicateUID):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidPreference), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a size-limited JSON body into T.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var v T
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&v); err != nil {
		return v, fmt.Errorf("%w: invalid JSON body: %v", shared.ErrInvalidInput, err)
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
