// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

/*
Package supervisor provides process supervision for playmaker using suture v4.

Every long-running component runs under a hierarchical supervisor tree with
automatic restart, failure isolation between layers and graceful shutdown.

# Overview

	RootSupervisor ("playmaker")
	├── DataSupervisor ("data-layer")
	│   └── StoreGCService (badger feed/document store, if STORE_GC_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── EventRouterService (if NATS_ENABLED)
	│   └── RefreshService (if REFRESH_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (/health/live, /health/ready, /metrics)

A router that keeps crashing because the broker is gone backs off inside the
messaging layer; health checks continue to answer from the api layer and
report the outage.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewRefreshService(generator, docs, refreshCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, 15*time.Second))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Failure Handling

Suture keeps a failure counter per supervisor that decays exponentially over
FailureDecay seconds. Past FailureThreshold the supervisor waits
FailureBackoff before restarting the failed service.

Service return values:
  - nil: stopped cleanly, not restarted
  - error: crashed, restarted under backoff
  - ctx.Err() after cancellation: shutdown requested

# Debugging Shutdown Issues

	report, _ := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    logger.Warn("service did not stop", "service", svc.Name)
	}

# See Also

  - internal/supervisor/services: service wrappers
  - github.com/thejerf/suture/v4
*/
package supervisor
