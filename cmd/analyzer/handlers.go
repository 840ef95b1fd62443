package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/azure/brand-pulse/internal/analysis"
	"github.com/azure/brand-pulse/internal/models"
	"github.com/azure/brand-pulse/internal/reports"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// analyzer is the part of the monitoring service the HTTP API exposes
type analyzer interface {
	AnalyzeSocial(ctx context.Context, brand, userID string) (*models.SocialAnalysis, error)
	AnalyzeNews(ctx context.Context, query, userID string) (*models.NewsAnalysis, error)
	AnalyzeWebsite(ctx context.Context, url, userID string) (*models.WebsiteAnalysis, error)
	GetMetrics() string
}

type reporter interface {
	Generate(ctx context.Context, opts reports.Options, userID string) (*models.Report, error)
	List(ctx context.Context, userID string) ([]models.Report, error)
}

const (
	userHeader  = "X-User-ID"
	defaultUser = "anonymous"
)

func newRouter(a analyzer, r reporter) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.HandleFunc("/metrics", metricsHandler(a)).Methods("GET")

	router.HandleFunc("/analyze/social", analyzeHandler("brand", func(req *http.Request, subject, user string) (any, error) {
		return a.AnalyzeSocial(req.Context(), subject, user)
	})).Methods("GET")
	router.HandleFunc("/analyze/news", analyzeHandler("query", func(req *http.Request, subject, user string) (any, error) {
		return a.AnalyzeNews(req.Context(), subject, user)
	})).Methods("GET")
	router.HandleFunc("/analyze/website", analyzeHandler("url", func(req *http.Request, subject, user string) (any, error) {
		return a.AnalyzeWebsite(req.Context(), subject, user)
	})).Methods("GET")

	router.HandleFunc("/reports", generateReportHandler(r)).Methods("POST")
	router.HandleFunc("/reports", listReportsHandler(r)).Methods("GET")

	return router
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func metricsHandler(a analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(a.GetMetrics()))
	}
}

// analyzeHandler reads the subject from query parameter param and the user from
// the X-User-ID header
func analyzeHandler(param string, run func(r *http.Request, subject, user string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := run(r, r.URL.Query().Get(param), userID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func generateReportHandler(rep reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var opts reports.Options
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid report options: " + err.Error()})
			return
		}

		report, err := rep.Generate(r.Context(), opts, userID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, report)
	}
}

func listReportsHandler(rep reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := rep.List(r.Context(), userID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func userID(r *http.Request) string {
	if id := r.Header.Get(userHeader); id != "" {
		return id
	}
	return defaultUser
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analysis.ErrEmptySubject),
		errors.Is(err, reports.ErrInvalidDateRange),
		errors.Is(err, reports.ErrInvalidFormat):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logrus.Errorf("Request failed: %v", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}
