//
// Tencent is pleased to support the open source community by making trpc-agent-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-go is licensed under the Apache License Version 2.0.
//
//

package agentos

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics of the HTTP surface and of runs.
var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentos_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "code"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentos_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agentos_runs_total",
			Help: "Total number of agent and team runs",
		},
		[]string{"type", "component", "status"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agentos_run_duration_seconds",
			Help:    "Duration of agent and team runs",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"type", "component"},
	)
)

// unmatchedRoute labels requests that hit no route.
const unmatchedRoute = "unmatched"

// statusRecorder captures the status code and keeps streaming working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// metricsMiddleware records one request count and duration per route
// template, so path parameters do not grow label cardinality.
func metricsMiddleware(next http.Handler) http.Handler {
	return instrument(next, routeTemplate)
}

// unmatchedMetrics records requests answered by the not found and method not
// allowed handlers, which router middleware does not wrap.
func unmatchedMetrics(next http.Handler) http.Handler {
	return instrument(next, func(*http.Request) string { return unmatchedRoute })
}

func routeTemplate(r *http.Request) string {
	if cur := mux.CurrentRoute(r); cur != nil {
		if tpl, err := cur.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return unmatchedRoute
}

func instrument(next http.Handler, route func(*http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		label := route(r)
		httpRequestDuration.WithLabelValues(r.Method, label).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, label, strconv.Itoa(rec.status)).Inc()
	})
}
