package handlers

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusRecorder captures the status code written by the next handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request with its outcome and duration.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	logger = logger.Named("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
			}
			if rec.status >= http.StatusInternalServerError {
				logger.Error("Request failed", fields...)
				return
			}
			logger.Info("Request handled", fields...)
		})
	}
}

// Recoverer turns a panic in a handler into a 500 response.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	mux := NewServeMux()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rv := recover(); rv != nil {
					if rv == http.ErrAbortHandler {
						panic(rv)
					}
					logger.Error("Handler panicked",
						zap.String("panic", fmt.Sprint(rv)),
						zap.String("path", r.URL.Path),
						zap.Stack("stack"),
					)
					h := &handler{mux: mux, logger: logger}
					h.writeError(w, r, status.Error(codes.Internal, "internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// CORSOptions restricts cross-origin access to an allow-list of origins
// plus origins matching PreviewPattern.
type CORSOptions struct {
	AllowedOrigins []string
	PreviewPattern string
}

// CORS returns the cross-origin middleware. Requests without an Origin
// header pass through untouched.
func CORS(opts CORSOptions) (func(http.Handler) http.Handler, error) {
	var preview *regexp.Regexp
	if opts.PreviewPattern != "" {
		re, err := regexp.Compile(opts.PreviewPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid CORS preview pattern: %w", err)
		}
		preview = re
	}

	allowed := make(map[string]bool, len(opts.AllowedOrigins))
	for _, origin := range opts.AllowedOrigins {
		allowed[origin] = true
	}

	c := cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin] || (preview != nil && preview.MatchString(origin))
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	})
	return c.Handler, nil
}
