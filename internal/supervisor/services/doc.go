// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

/*
Package services provides suture.Service wrappers for playmaker components.

Each wrapper turns a component's lifecycle (ListenAndServe, Run/Close, a
cron scheduler, a ticker loop) into suture's context-aware Serve and
identifies itself through fmt.Stringer.

# Available Services

HTTPServerService (api layer):
  - Runs the ops HTTP server, draining connections on shutdown

EventRouterService (messaging layer):
  - Runs the feed.generate Watermill router
  - Builds a new router through a RouterFactory on every restart

RefreshService (messaging layer):
  - Regenerates the most recently active viewers on a cron schedule
  - Per-viewer rate limiting with golang.org/x/time/rate
  - Skips a tick while the previous run is still going

StoreGCService (data layer):
  - Runs Badger value log GC on an interval

# Return Values

Serve returns ctx.Err() after cancellation and a wrapped error on failure;
suture restarts failed services under its backoff policy.
*/
package services
