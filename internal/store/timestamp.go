// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package store

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrUnreadableTime is returned for timestamp values in no accepted form.
var ErrUnreadableTime = errors.New("unreadable timestamp")

// ParseTime accepts RFC 3339 strings, epoch milliseconds, time.Time and
// {seconds, nanoseconds} objects (with or without a leading underscore).
// A nil value is a missing timestamp.
func ParseTime(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t, nil
	case string:
		if t == "" {
			return time.Time{}, nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnreadableTime, t)
	case map[string]interface{}:
		secs, ok := toFloat(firstOf(t, "seconds", "_seconds"))
		if !ok {
			return time.Time{}, fmt.Errorf("%w: object without seconds", ErrUnreadableTime)
		}
		nanos, _ := toFloat(firstOf(t, "nanoseconds", "_nanoseconds"))
		return time.Unix(int64(secs), int64(nanos)).UTC(), nil
	}
	if ms, ok := toFloat(v); ok && !math.IsNaN(ms) && !math.IsInf(ms, 0) {
		return time.UnixMilli(int64(ms)).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %T", ErrUnreadableTime, v)
}

// timeValue reports v as a point in time when it is a non-empty timestamp.
func timeValue(v interface{}) (time.Time, bool) {
	ts, err := ParseTime(v)
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	return ts, true
}

func firstOf(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}
