// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package store

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Lookup resolves a field path, allowing one dot for nested maps.
func (d Document) Lookup(path string) (interface{}, bool) {
	if d.Fields == nil || path == "" {
		return nil, false
	}
	head, rest, nested := strings.Cut(path, ".")
	v, ok := d.Fields[head]
	if !ok || !nested {
		return v, ok
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, false
	}
	v, ok = m[rest]
	return v, ok
}

// Decode copies the document's fields into v through JSON, so struct tags
// on v control the mapping.
func (d Document) Decode(v interface{}) error {
	raw, err := json.Marshal(d.Fields)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.ID, err)
	}
	return nil
}

// Matches reports whether doc satisfies the filter part of q.
func Matches(doc Document, q Query) bool {
	if q.Field == "" {
		return true
	}
	got, ok := doc.Lookup(q.Field)
	if !ok {
		return false
	}

	switch q.Op {
	case OpEqual:
		return equalValues(got, q.Value)
	case OpIn:
		values, _ := asSlice(q.Value)
		for _, want := range values {
			if equalValues(got, want) {
				return true
			}
		}
		return false
	case OpArrayContainsAny:
		have, ok := asSlice(got)
		if !ok {
			return false
		}
		values, _ := asSlice(q.Value)
		for _, h := range have {
			for _, want := range values {
				if equalValues(h, want) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

// Apply filters, orders and limits docs in place of a backend query engine.
// Documents without the order field sort last in either direction.
func Apply(docs []Document, q Query) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if Matches(d, q) {
			out = append(out, d)
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, aok := out[i].Lookup(q.OrderBy)
			b, bok := out[j].Lookup(q.OrderBy)
			if aok != bok {
				return aok
			}
			if !aok {
				return false
			}
			c := compareValues(a, b)
			if q.Direction == Desc {
				return c > 0
			}
			return c < 0
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []string:
		out := make([]interface{}, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	default:
		return nil, false
	}
}

func equalValues(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compareValues orders numbers numerically, timestamps chronologically
// (in any form ParseTime accepts, mixed freely) and everything else by
// string form.
func compareValues(a, b interface{}) int {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	if at, ok := timeValue(a); ok {
		if bt, ok := timeValue(b); ok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
