package api

import (
	"encoding/json"
	"net/http"

	service "github.com/okian/perfscore/internal/app"
	"github.com/okian/perfscore/internal/domain/model"
	"github.com/okian/perfscore/pkg/logger"
)

// maxBodyBytes caps the predict request body.
const maxBodyBytes = 1 << 16

// predictRequest mirrors the OpenAPI schema for POST /api/predict.
type predictRequest struct {
	TasksCompleted     int `json:"tasks_completed"`
	TaskCompletionRate int `json:"task_completion_rate"`
	AttendanceRate     int `json:"attendance_rate"`
	LeavesTaken        int `json:"leaves_taken"`
	TrainingHours      int `json:"training_hours"`
}

func (p predictRequest) record() model.Record {
	return model.Record{
		TasksCompleted:     p.TasksCompleted,
		TaskCompletionRate: p.TaskCompletionRate,
		AttendanceRate:     p.AttendanceRate,
		LeavesTaken:        p.LeavesTaken,
		TrainingHours:      p.TrainingHours,
	}
}

type predictResponse struct {
	Status       string  `json:"status"`
	Score        float64 `json:"score"`
	Display      string  `json:"display"`
	Message      string  `json:"message"`
	Cached       bool    `json:"cached"`
	SubmissionID string  `json:"submission_id"`
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	submitter Submitter
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(submitter Submitter) *PredictHandler {
	return &PredictHandler{submitter: submitter}
}

// HandlePredict handles POST /api/predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethod))
		return
	}

	var req predictRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ctx := logger.WithRequestID(service.WithSource(r.Context(), service.SourceAPI), requestID(r))
	out := h.submitter.Submit(ctx, req.record())

	switch out.State {
	case service.Completed:
		writeJSON(w, http.StatusOK, predictResponse{
			Status:       out.State.String(),
			Score:        out.Score,
			Display:      out.Display,
			Message:      out.Message,
			Cached:       out.Cached,
			SubmissionID: out.SubmissionID,
		})
	case service.Rejected:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "validation_error",
			Field:   out.Field.Key(),
			Message: out.Message,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Code:    "prediction_error",
			Message: out.Message,
		})
	}
}
