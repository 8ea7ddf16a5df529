// Package site serves the HTML prediction form.
package site

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/okian/perfscore/internal/adapters/http/api"
	service "github.com/okian/perfscore/internal/app"
	"github.com/okian/perfscore/internal/domain/model"
	"github.com/okian/perfscore/internal/domain/validation"
	"github.com/okian/perfscore/pkg/logger"
	"golang.org/x/time/rate"
)

// Error constants
var (
	ErrRender = errors.New("form render failed")
)

// Title is the page heading.
const Title = "Employee Performance Prediction"

const rateLimitedMessage = "Too many submissions. Please try again shortly."

var page = template.Must(template.ParseFS(staticFS, "templates/index.html"))

// FormSubmitter scores raw form input.
type FormSubmitter interface {
	SubmitForm(ctx context.Context, get validation.Lookup) service.Outcome
}

// Option configures the form handler.
type Option func(*RootHandler)

// WithLimiter limits form submissions. Rendering the empty form is never limited.
func WithLimiter(l *rate.Limiter) Option {
	return func(h *RootHandler) {
		h.limiter = l
	}
}

// WithLogger sets the logger used for render failures.
func WithLogger(l logger.Logger) Option {
	return func(h *RootHandler) {
		if l != nil {
			h.logger = l
		}
	}
}

// Register attaches the form and its static assets to mux.
func Register(_ context.Context, mux *http.ServeMux, submitter FormSubmitter, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}

	h := NewRootHandler(submitter, opts...)
	mux.HandleFunc("/{$}", api.MetricsMiddleware(h.HandleRoot, "form"))
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// RootHandler renders and submits the prediction form.
type RootHandler struct {
	submitter FormSubmitter
	limiter   *rate.Limiter
	logger    logger.Logger
}

// NewRootHandler creates a new root handler.
func NewRootHandler(submitter FormSubmitter, opts ...Option) *RootHandler {
	h := &RootHandler{submitter: submitter, logger: logger.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// fieldView is one input as rendered.
type fieldView struct {
	Key     string
	Caption string // column name, percent suffix included
	Value   string
	Max     int
}

type view struct {
	Title   string
	Fields  []fieldView
	Message string
	Kind    string // success, warning or error
}

func newView(get validation.Lookup) view {
	v := view{Title: Title, Fields: make([]fieldView, 0, len(model.Fields))}
	for _, f := range model.Fields {
		v.Fields = append(v.Fields, fieldView{Key: f.Key(), Caption: f.Column(), Value: get(f.Key()), Max: f.Max()})
	}
	return v
}

// HandleRoot handles GET / and POST / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, r, http.StatusOK, newView(func(string) string { return "0" }))
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *RootHandler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	get := r.PostForm.Get
	v := newView(get)

	if h.limiter != nil && !h.limiter.Allow() {
		v.Message, v.Kind = rateLimitedMessage, "error"
		h.render(w, r, http.StatusTooManyRequests, v)
		return
	}

	ctx := logger.WithRequestID(service.WithSource(r.Context(), service.SourceForm), r.Header.Get(api.RequestIDHeader))
	out := h.submitter.SubmitForm(ctx, get)
	v.Message = out.Message
	switch out.State {
	case service.Completed:
		v.Kind = "success"
	case service.Rejected:
		v.Kind = "warning"
	default:
		v.Kind = "error"
	}
	h.render(w, r, http.StatusOK, v)
}

func (h *RootHandler) render(w http.ResponseWriter, r *http.Request, status int, v view) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, v); err != nil {
		h.logger.Error(r.Context(), "render form", logger.Error(errors.Join(ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = buf.WriteTo(w)
	}
}
