package httpapi

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"smartderm/internal/derm"
	"smartderm/internal/feedback"
	"smartderm/internal/session"
)

// Service defines the methods required by the HTTP API layer.
// *derm.Service satisfies it.
type Service interface {
	Analyze(ctx context.Context, img derm.Image) (derm.AnalysisResult, error)
	RecommendFoods(ctx context.Context, disease string) (derm.FoodsResult, error)
	GenerateQuestions(ctx context.Context, disease string) (derm.QuestionsResult, error)
	PredictCauses(ctx context.Context, disease string, answers []derm.Answer) (derm.CausesResult, error)
	NearbyDermatologists(loc derm.Location) (derm.MapEmbed, error)
	Ready() bool
}

type handlers struct {
	svc      Service
	feedback feedback.Store
	tracker  *session.Tracker
}

// NewMux builds the router. A nil store keeps feedback in memory and a nil
// tracker gets a fresh one.
func NewMux(svc Service, fb feedback.Store, tracker *session.Tracker) http.Handler {
	if fb == nil {
		fb = feedback.NewMemoryStore()
	}
	if tracker == nil {
		tracker = session.NewTracker()
	}
	h := &handlers{svc: svc, feedback: fb, tracker: tracker}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(corsOptions()))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.analyze)
		r.Post("/foods", h.foods)
		r.Post("/causes/questions", h.questions)
		r.Post("/causes", h.causes)
		r.Post("/dermatologists", h.dermatologists)
		r.Get("/session", h.sessionState)
		r.Post("/feedback", h.submitFeedback)
		r.Get("/feedback", h.listFeedback)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeJSONError(w, http.StatusNotFound, "not found")
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !svc.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready: missing api key"))
			return
		}
		if err := fb.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready: feedback store"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	if staticDir != "" {
		r.NotFound(spaHandler(staticDir))
	}
	return r
}

func corsOptions() cors.Options {
	methods := corsAllowedMethods
	if len(methods) == 0 {
		methods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	headers := corsAllowedHeaders
	if len(headers) == 0 {
		headers = []string{"Content-Type", sessionHeader, "X-Log-Level"}
	}
	return cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		ExposedHeaders:   []string{sessionHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

// spaHandler serves the client build and falls back to index.html so client
// routes survive a reload.
func spaHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeJSONError(w, http.StatusNotFound, "not found")
			return
		}
		p := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if st, err := os.Stat(p); err != nil || st.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		files.ServeHTTP(w, r)
	}
}
