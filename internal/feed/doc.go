// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

/*
Package feed builds a personalized, categorized content feed for one viewer.

A generation pass runs these stages in order:

 1. Candidate retrieval: posts authored by followed accounts, posts in the
    viewer's sports, and a recency backfill when the union is small; plus the
    most recent games filtered by a relevance predicate.
 2. Author hydration: a pass-scoped Directory resolves every candidate's
    author once, deduplicating concurrent lookups.
 3. Scoring: a closed-form score built from engagement, log compression,
    recency decay, velocity, cold-start and trust multipliers, blended with
    an additive personalization score.
 4. Quality filter: low-signal items are dropped unless the author is a new
    creator.
 5. Diversity re-ranking: per-author and per-sport caps apply once the feed
    has a minimum size, and repeated authors take a compounding penalty.
 6. Categorization: posts are split into highlight, image and thoughts
    buckets; games form one ranked list. Every list is capped.

The Result is written wholesale to the feed store at feed/{viewerId}.

# Usage

	gen, err := feed.NewGenerator(docs, feeds, feed.DefaultConfig(), logger)
	if err != nil {
	    return err
	}
	result, err := gen.GenerateFeed(ctx, "user-123")
	if errors.Is(err, feed.ErrViewerNotFound) {
	    // no such viewer
	}

# Errors

Only two failures reach the caller: ErrViewerNotFound and *PersistError.
A PersistError carries the computed Result so the write can be retried.
Retrieval failures, author misses and per-item scoring failures are
recovered inside the pass and reported through PassStats.

# Thread Safety

Generator is safe for concurrent use. Each pass owns its own Directory.
*/
package feed
