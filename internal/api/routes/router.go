package routes

import (
	"net/http"

	"github.com/lifeline-ai/backend/internal/api/handlers"
	"github.com/lifeline-ai/backend/internal/api/middleware"
	"github.com/lifeline-ai/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	emergencyHandler *handlers.EmergencyHandler
	hospitalHandler  *handlers.HospitalHandler
	voiceHandler     *handlers.VoiceHandler
	imageHandler     *handlers.ImageHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	emergencyHandler *handlers.EmergencyHandler,
	hospitalHandler *handlers.HospitalHandler,
	voiceHandler *handlers.VoiceHandler,
	imageHandler *handlers.ImageHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		emergencyHandler: emergencyHandler,
		hospitalHandler:  hospitalHandler,
		voiceHandler:     voiceHandler,
		imageHandler:     imageHandler,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	r.mux.HandleFunc("POST /api/v1/emergency/analyze", r.emergencyHandler.Analyze)
	r.mux.HandleFunc("POST /api/v1/emergency/first-aid", r.emergencyHandler.FirstAid)
	r.mux.HandleFunc("POST /api/v1/hospitals/search", r.hospitalHandler.Search)
	r.mux.HandleFunc("POST /api/v1/voice/process", r.voiceHandler.Process)
	r.mux.HandleFunc("POST /api/v1/image/analyze", r.imageHandler.Analyze)

	var handler http.Handler = r.mux
	if r.metrics != nil {
		handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	}
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
