package api

import (
	"net/http"

	"github.com/okian/perfscore/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type healthResponse struct {
	Status     string `json:"status"`
	Estimator  string `json:"estimator,omitempty"`
	CanPredict bool   `json:"can_predict"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	describer ModelDescriber
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(describer ModelDescriber) *HealthHandler {
	return &HealthHandler{describer: describer}
}

// HandleHealth handles GET /healthz requests. The process only serves once
// the model is loaded, so a response always means "ok"; can_predict reports
// whether submissions will succeed.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if h.describer != nil {
		info := h.describer.Info()
		resp.Estimator = info.Estimator
		resp.CanPredict = info.CanPredict
	}
	writeJSON(w, http.StatusOK, resp)
}

// MetricsHandler serves the custom Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
