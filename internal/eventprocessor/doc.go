// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

// Package eventprocessor regenerates feeds in response to events, using
// Watermill over NATS JetStream.
//
// Producers (post creation, follow changes, profile edits) publish a
// RegenerationRequest on the generate topic, by default "feed.generate":
//
//	{"viewer_id": "u1", "reason": "new_follow"}
//
// The Router consumes the topic and runs FeedHandler for each message:
//
//	┌───────────┐   feed.generate   ┌────────────────┐   GenerateFeed   ┌─────────┐
//	│ producers │ ────────────────▶ │ Router         │ ───────────────▶ │ feed    │
//	└───────────┘                   │  PoisonQueue   │                  │Generator│
//	                                │  Throttle      │                  └─────────┘
//	                                │  Retry         │
//	                                │  Recoverer     │ ── exhausted ──▶ feed.generate.poison
//	                                └────────────────┘
//
// # Delivery Semantics
//
//   - Viewer not found: acknowledged and dropped; retrying cannot help.
//   - Persistence failure or viewer load failure: returned to the router,
//     retried with exponential backoff, then routed to the poison topic.
//   - Malformed payload: retried like any error and then poisoned, so the
//     message stays inspectable.
//
// # Components
//
//   - EmbeddedServer: in-process NATS server with JetStream
//   - StreamInitializer: creates the JetStream stream covering both topics
//   - Publisher / Subscriber: watermill-nats adapters bound to that stream
//   - Router: Watermill router with the middleware stack above
//   - FeedHandler: the feed.generate consumer
//   - Requester: RequestRegeneration helper for producers
package eventprocessor
