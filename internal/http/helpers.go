package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/storage"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// withMiddleware stamps every request with an id, logs it, and records
// its duration.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = r.URL.Path
		}
		if s.metrics != nil {
			s.metrics.ObserveRequest(route, elapsed.Seconds())
		}

		slog.InfoContext(ctx, "Request handled",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds())
	})
}

// RequestIDFromContext returns the request id stamped by the middleware,
// or the empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

var errInvalidDate = errors.New("invalid date, want YYYY-MM-DD")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors to status codes: missing records to 404,
// boundary validation failures to 400, everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, forecast.ErrNotReady):
		code = http.StatusConflict
	case errors.Is(err, errInvalidDate):
		code = http.StatusBadRequest
	case isValidationError(err):
		code = http.StatusBadRequest
	}
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidDay,
		core.ErrInvalidWeekday,
		core.ErrInvalidAmount,
		core.ErrInvalidFlow,
		core.ErrInvalidFrequency,
		core.ErrInvalidAccount,
		core.ErrEmptyLabel,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// pathID extracts a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

// queryDate parses an optional ?date=YYYY-MM-DD parameter, defaulting to
// the server's current day.
func (s *Server) queryDate(r *http.Request) (core.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return core.DateOf(s.now()), nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return core.Date{}, errInvalidDate
	}
	return core.DateOf(t), nil
}

func cacheKey(accountID int64) string {
	return strconv.FormatInt(accountID, 10)
}
