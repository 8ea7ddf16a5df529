package api

import (
	"net/http"
)

// ModelHandler serves the loaded artifact's description.
type ModelHandler struct {
	describer ModelDescriber
}

// NewModelHandler creates a new model handler.
func NewModelHandler(describer ModelDescriber) *ModelHandler {
	return &ModelHandler{describer: describer}
}

// HandleModel handles GET /model requests.
func (h *ModelHandler) HandleModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if h.describer == nil {
		writeError(w, http.StatusServiceUnavailable, "no_model", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.describer.Info())
}
