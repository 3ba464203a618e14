// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

/*
Package middleware provides the HTTP middleware used by the ops server.

Key Components:

  - CorrelationID: propagates X-Correlation-ID into the request context
  - RequestLogger: stores the component logger in the request context
  - AccessLog: debug-level request logging through zerolog
  - PrometheusMetrics: per-route latency and in-flight gauge

All middleware has the chi signature func(http.Handler) http.Handler
(RequestLogger returns one). The ops router installs them in this order:

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.RequestLogger(logging.WithComponent("http")))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.AccessLog)

CorrelationID must run after chimiddleware.RequestID so the generated
request ID can stand in when the caller sends none.
*/
package middleware
