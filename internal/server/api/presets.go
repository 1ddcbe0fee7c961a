package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/handgrain/internal/store"
)

// PresetHandler handles HTTP requests for preset resources.
type PresetHandler struct {
	store *store.Store
	ctl   Controller
}

// NewPresetHandler creates a new PresetHandler. ctl may be nil, in which case
// presets cannot be captured from or applied to a live session.
func NewPresetHandler(s *store.Store, ctl Controller) *PresetHandler {
	return &PresetHandler{store: s, ctl: ctl}
}

// ServeHTTP routes /api/presets, /api/presets/{id} and /api/presets/{id}/apply.
func (h *PresetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/presets")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id, action, _ := strings.Cut(path, "/")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "Preset not found")
		return
	}

	switch action {
	case "":
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "apply":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.apply(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// createPresetRequest names a preset. A nil Control captures the live session.
type createPresetRequest struct {
	Name    string         `json:"name"`
	Control *store.Control `json:"control"`
}

type listPresetsResponse struct {
	Presets []*store.Preset `json:"presets"`
}

// list handles GET /api/presets.
func (h *PresetHandler) list(w http.ResponseWriter, r *http.Request) {
	presets, err := h.store.Presets().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list presets")
		return
	}
	if presets == nil {
		presets = []*store.Preset{}
	}
	writeJSON(w, http.StatusOK, listPresetsResponse{Presets: presets})
}

// create handles POST /api/presets.
func (h *PresetHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createPresetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	var ctl store.Control
	switch {
	case req.Control != nil:
		ctl = *req.Control
		for _, ev := range ctl.Events() {
			if err := validate(ev); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
	case h.ctl != nil:
		ctl = store.ControlFromSnapshot(h.ctl.Snapshot())
	default:
		writeError(w, http.StatusBadRequest, "Control is required")
		return
	}

	preset := &store.Preset{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Control: ctl,
	}

	if err := h.store.Presets().Create(preset); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			writeError(w, http.StatusConflict, "Preset name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create preset")
		return
	}

	writeJSON(w, http.StatusCreated, preset)
}

// get handles GET /api/presets/{id}.
func (h *PresetHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	preset, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get preset")
		return
	}
	writeJSON(w, http.StatusOK, preset)
}

// delete handles DELETE /api/presets/{id}.
func (h *PresetHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Presets().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete preset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// apply handles POST /api/presets/{id}/apply by posting the preset's events
// to the live session.
func (h *PresetHandler) apply(w http.ResponseWriter, r *http.Request, id string) {
	if h.ctl == nil {
		writeError(w, http.StatusServiceUnavailable, "No engine session")
		return
	}

	preset, err := h.store.Presets().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Preset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get preset")
		return
	}

	events := preset.Control.Events()
	if err := postAll(r, h.ctl, events); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Engine is not accepting events")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"accepted": len(events)})
}
