// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import "strings"

// idSeparator splits composite item ids of the form "{authorId}-{suffix}".
const idSeparator = "-"

// AuthorIDFromItemID derives an author id from a composite item id.
// It returns false when the id has no separator or nothing before it;
// such ids are never treated as their own author.
func AuthorIDFromItemID(itemID string) (string, bool) {
	i := strings.Index(itemID, idSeparator)
	if i <= 0 {
		return "", false
	}
	return itemID[:i], true
}

// ResolveAuthorID returns the item's author. The explicit author field
// wins; the composite id is only consulted when it is empty.
func ResolveAuthorID(it Item) (string, bool) {
	if it.AuthorID != "" {
		return it.AuthorID, true
	}
	return AuthorIDFromItemID(it.ID)
}
