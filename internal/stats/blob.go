package stats

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/stitts-dev/player-stats-relay/internal/models"
)

// Lookup walks a dotted key path ("stats.goals") through nested objects.
// Any missing key or non-object step reports false.
func Lookup(blob models.Blob, path string) (interface{}, bool) {
	var current interface{} = map[string]interface{}(blob)
	for _, key := range strings.Split(path, ".") {
		obj := asObject(current)
		if obj == nil {
			return nil, false
		}
		next, ok := obj[key]
		if !ok || next == nil {
			return nil, false
		}
		current = next
	}
	return current, true
}

// FirstCount returns the first path that holds a non-zero count, clamped at zero.
func FirstCount(blob models.Blob, paths ...string) int {
	for _, path := range paths {
		raw, ok := Lookup(blob, path)
		if !ok {
			continue
		}
		n, ok := toCount(raw)
		if !ok || n == 0 {
			continue
		}
		if n < 0 {
			return 0
		}
		return n
	}
	return 0
}

func toCount(v interface{}) (int, bool) {
	switch val := v.(type) {
	case bool, map[string]interface{}, models.Blob, []interface{}:
		return 0, false
	case string:
		return parseDecimalCount(val)
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseDecimalCount reads "90", "090" or "12.0" as base-10 numbers, truncating
// fractions. Prefixed forms like "0x1F" and non-finite values are rejected.
func parseDecimalCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xXoObB_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func asObject(v interface{}) map[string]interface{} {
	switch obj := v.(type) {
	case map[string]interface{}:
		return obj
	case models.Blob:
		return obj
	}
	return nil
}
