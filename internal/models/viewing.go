// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package models

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// Attribute keys of a stored viewing record.
const (
	KeySessionID    = "session_id"
	KeyVideoID      = "video_id"
	KeyTitle        = "title"
	KeyThumbnail    = "thumbnail"
	KeyLocation     = "location"
	KeyTransferSize = "transfer_size"
	KeyStartTime    = "start_time"
	KeyEndTime      = "end_time"
	KeyLog          = "log"
	KeyQoE          = "qoe"
	KeyRegion       = "region"
)

// Attributes is a partial viewing record: any subset of the well-known keys
// plus whatever else other writers stored. Values are either plain Go values
// supplied by callers or the generic JSON types produced by decoding.
//
// An Attributes value is treated as an immutable snapshot. Merge and Clone
// return new maps and never modify the receiver.
type Attributes map[string]interface{}

// Clone returns a deep copy of the snapshot. Nested JSON objects and arrays
// are copied so the result shares no mutable state with the receiver.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge returns a new snapshot holding the receiver's keys overwritten by
// other's keys. Keys are never removed.
func (a Attributes) Merge(other Attributes) Attributes {
	out := make(Attributes, len(a)+len(other))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	for k, v := range other {
		out[k] = cloneValue(v)
	}
	return out
}

// Has reports whether key is present with a non-nil value.
func (a Attributes) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// Text returns the string value stored under key.
func (a Attributes) Text(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// Float returns the numeric value stored under key, accepting any Go number
// type as well as numeric strings.
func (a Attributes) Float(key string) (float64, bool) {
	return toFloat(a[key])
}

// Time returns the point in time stored under key. Numbers are epoch
// milliseconds; strings may be numeric milliseconds or RFC3339.
func (a Attributes) Time(key string) (time.Time, bool) {
	return toTime(a[key])
}

// Log returns the measurement log in stored order.
func (a Attributes) Log() []LogEntry {
	switch raw := a[KeyLog].(type) {
	case []LogEntry:
		return raw
	case []map[string]interface{}:
		out := make([]LogEntry, 0, len(raw))
		for _, m := range raw {
			out = append(out, LogEntry(m))
		}
		return out
	case []interface{}:
		out := make([]LogEntry, 0, len(raw))
		for _, item := range raw {
			switch m := item.(type) {
			case map[string]interface{}:
				out = append(out, LogEntry(m))
			case LogEntry:
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// Region returns the region stored under KeyRegion.
func (a Attributes) Region() (Region, bool) {
	switch v := a[KeyRegion].(type) {
	case nil:
		return Region{}, false
	case Region:
		return v, true
	case *Region:
		if v == nil {
			return Region{}, false
		}
		return *v, true
	default:
		var r Region
		if !decodeInto(v, &r) {
			return Region{}, false
		}
		return r, true
	}
}

// Region is the geographic classification and network provider of a viewing.
type Region struct {
	Country     string `json:"country"`
	Subdivision string `json:"subdivision"`
	ISP         string `json:"isp"`
}

// LogEntry is one measurement event: a "date" in epoch milliseconds plus
// arbitrary fields. Entries carrying playback quality have a "quality" object.
type LogEntry map[string]interface{}

// Date returns the entry timestamp, or the zero time when absent.
func (e LogEntry) Date() time.Time {
	t, _ := toTime(e["date"])
	return t
}

// Quality returns the quality object of the entry, if it has one.
func (e LogEntry) Quality() (map[string]interface{}, bool) {
	v, ok := e["quality"]
	if !ok {
		return nil, false
	}
	switch q := v.(type) {
	case map[string]interface{}:
		return q, true
	case nil:
		return map[string]interface{}{}, true
	default:
		var m map[string]interface{}
		if !decodeInto(q, &m) {
			return map[string]interface{}{}, true
		}
		return m, true
	}
}

// QualitySnapshot is the last known playback quality of a viewing.
// A zero Date means no quality has been measured yet.
type QualitySnapshot struct {
	Date   time.Time
	Fields map[string]interface{}
}

// Measured reports whether the snapshot came from a log entry.
func (q QualitySnapshot) Measured() bool {
	return !q.Date.IsZero()
}

// Float returns a numeric quality field such as "bitrate".
func (q QualitySnapshot) Float(name string) (float64, bool) {
	return toFloat(q.Fields[name])
}

// MarshalJSON flattens the snapshot into {"date": ..., ...fields}. A quality
// field named "date" replaces the entry date.
func (q QualitySnapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(q.Fields)+1)
	if q.Measured() {
		out["date"] = q.Date
	} else {
		out["date"] = nil
	}
	for k, v := range q.Fields {
		out[k] = v
	}
	return json.Marshal(out)
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
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		if ms, err := strconv.ParseFloat(t, 64); err == nil {
			return millisToTime(ms), true
		}
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		ms, ok := toFloat(v)
		if !ok {
			return time.Time{}, false
		}
		return millisToTime(ms), true
	}
}

func millisToTime(ms float64) time.Time {
	return time.Unix(0, int64(ms*float64(time.Millisecond)))
}

// decodeInto converts a generic value into out by way of its JSON encoding.
func decodeInto(v interface{}, out interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case LogEntry:
		return LogEntry(cloneValue(map[string]interface{}(t)).(map[string]interface{}))
	case Attributes:
		return t.Clone()
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	case []LogEntry:
		out := make([]LogEntry, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner).(LogEntry)
		}
		return out
	case []map[string]interface{}:
		out := make([]map[string]interface{}, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner).(map[string]interface{})
		}
		return out
	default:
		return v
	}
}
