// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

// Package api serves the ops HTTP endpoints using the chi router.
//
// Routes:
//
//	GET /health/live   200 while the process runs
//	GET /health/ready  200 when every readiness check passes, else 503
//	GET /metrics       Prometheus exposition
//	POST /ops/feeds/{viewerID}/regenerate
//	                   202 once a rebuild is queued (only with a Regenerator)
//
// Feeds are not served here; clients read them from the feed store.
package api
