// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

/*
Package main is the entry point for the Playmaker feed ranking server.

Playmaker builds a personalized feed for each viewer from posts and games,
ranks it and overwrites the viewer's stored feed. Feeds are regenerated on
request events and on a schedule.

# Application Architecture

	RootSupervisor ("playmaker")
	├── DataSupervisor ("data-layer")
	│   └── Store GC (badger value log, on-disk mode only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Event router (feed.generate over NATS JetStream, optional)
	│   └── Scheduled refresh (cron, optional)
	└── APISupervisor ("api-layer")
	    └── Ops HTTP server (/health/live, /health/ready, /metrics)

Initialization order:

 1. Configuration: Koanf v2 with defaults, YAML file and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. NATS: embedded or external server, request stream, publisher
 4. Stores: badger documents (breaker-wrapped), feed store backend
 5. Feed generator
 6. Supervisor tree

# Configuration

Common environment variables:

	LOG_LEVEL=debug
	STORE_PATH=/data/playmaker
	STORE_FIXTURES_PATH=/data/fixtures.json
	FEED_STORE_BACKEND=badger|nats|redis
	NATS_ENABLED=true
	REFRESH_SCHEDULE="@every 15m"

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service within HTTP_SHUTDOWN_TIMEOUT, then stores and NATS are closed.
*/
package main
