// Package merge overlays a JSON-sourced mapping onto a property list root
// dictionary. Everything here is pure: inputs are never mutated.
package merge

import (
	"maps"
	"reflect"
	"sort"

	"kilometers.ai/plistmerge/internal/core/domain"
)

// Merge returns a new mapping holding every entry of base with every key of
// overlay set to the overlay's value. The merge is shallow: a key present in
// both is replaced wholesale, whatever the types involved.
func Merge(overlay domain.Overlay, base map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(base)+len(overlay))
	maps.Copy(merged, base)
	maps.Copy(merged, overlay)
	return merged
}

// ChangeKind describes what applying an overlay key does to the base
type ChangeKind string

const (
	ChangeAdded     ChangeKind = "added"
	ChangeReplaced  ChangeKind = "replaced"
	ChangeUnchanged ChangeKind = "unchanged"
)

// Change records the effect of a single overlay key
type Change struct {
	Key  string
	Kind ChangeKind
	Old  interface{}
	New  interface{}
}

// Diff reports, sorted by key, what Merge(overlay, base) does to each overlay key
func Diff(overlay domain.Overlay, base map[string]interface{}) []Change {
	changes := make([]Change, 0, len(overlay))
	keys := make([]string, 0, len(overlay))
	for key := range overlay {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		next := overlay[key]
		prev, exists := base[key]

		change := Change{Key: key, New: next}
		switch {
		case !exists:
			change.Kind = ChangeAdded
		case reflect.DeepEqual(prev, next):
			change.Kind = ChangeUnchanged
			change.Old = prev
		default:
			change.Kind = ChangeReplaced
			change.Old = prev
		}
		changes = append(changes, change)
	}
	return changes
}

// Modified reports whether any change alters the base
func Modified(changes []Change) bool {
	for _, c := range changes {
		if c.Kind != ChangeUnchanged {
			return true
		}
	}
	return false
}
