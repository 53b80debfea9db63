package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"kilometers.ai/plistmerge/internal/core/domain"
)

// Local test helpers

// valueGen draws a plist-representable scalar or a small array
func valueGen() *rapid.Generator[interface{}] {
	return rapid.OneOf(
		rapid.Map(rapid.StringMatching(`[ -~]{0,12}`), func(s string) interface{} { return s }),
		rapid.Map(rapid.Bool(), func(b bool) interface{} { return b }),
		rapid.Map(rapid.Uint64(), func(u uint64) interface{} { return u }),
		rapid.Map(rapid.Int64Max(-1), func(i int64) interface{} { return i }),
		rapid.Map(rapid.Float64Range(-1e6, 1e6), func(f float64) interface{} { return f }),
		rapid.Map(rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,4}`), 0, 3), func(s []string) interface{} {
			out := make([]interface{}, len(s))
			for i, v := range s {
				out[i] = v
			}
			return out
		}),
	)
}

// keyGen draws from a small alphabet so overlay and base keys collide often
func keyGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-D][a-c]{0,2}`)
}

func drawMapping(t *rapid.T, label string) map[string]interface{} {
	return rapid.MapOfN(keyGen(), valueGen(), 0, 8).Draw(t, label)
}

func copyMapping(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func TestMerge_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		overlay  domain.Overlay
		base     map[string]interface{}
		expected map[string]interface{}
	}{
		{
			name:     "VersionStamp_ReplacesExistingKey",
			overlay:  domain.Overlay{"CFBundleVersion": "2.0.1"},
			base:     map[string]interface{}{"CFBundleVersion": "1.0.0", "CFBundleName": "App"},
			expected: map[string]interface{}{"CFBundleVersion": "2.0.1", "CFBundleName": "App"},
		},
		{
			name:     "NewKey_IsAdded",
			overlay:  domain.Overlay{"NewKey": true},
			base:     map[string]interface{}{"CFBundleName": "App"},
			expected: map[string]interface{}{"CFBundleName": "App", "NewKey": true},
		},
		{
			name:     "EmptyOverlay_LeavesBaseUnchanged",
			overlay:  domain.Overlay{},
			base:     map[string]interface{}{"CFBundleName": "App"},
			expected: map[string]interface{}{"CFBundleName": "App"},
		},
		{
			name:     "EmptyBase_TakesOverlay",
			overlay:  domain.Overlay{"CFBundleIdentifier": "com.example.app"},
			base:     nil,
			expected: map[string]interface{}{"CFBundleIdentifier": "com.example.app"},
		},
		{
			name:    "TypeConflict_OverlayWins",
			overlay: domain.Overlay{"LSMinimumSystemVersion": []interface{}{"10.15"}},
			base:    map[string]interface{}{"LSMinimumSystemVersion": "10.13"},
			expected: map[string]interface{}{
				"LSMinimumSystemVersion": []interface{}{"10.15"},
			},
		},
		{
			name: "NestedDictionary_ReplacedWholesale",
			overlay: domain.Overlay{
				"NSAppTransportSecurity": map[string]interface{}{"NSAllowsLocalNetworking": true},
			},
			base: map[string]interface{}{
				"NSAppTransportSecurity": map[string]interface{}{
					"NSAllowsArbitraryLoads": false,
					"NSExceptionDomains":     map[string]interface{}{},
				},
			},
			expected: map[string]interface{}{
				"NSAppTransportSecurity": map[string]interface{}{"NSAllowsLocalNetworking": true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Merge(tt.overlay, tt.base)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	overlay := domain.Overlay{"CFBundleVersion": "2.0.1"}
	base := map[string]interface{}{"CFBundleVersion": "1.0.0"}

	result := Merge(overlay, base)
	result["Extra"] = "x"

	assert.Equal(t, "1.0.0", base["CFBundleVersion"])
	assert.NotContains(t, base, "Extra")
	assert.NotContains(t, overlay, "Extra")
}

func TestDiff_ReportsEachOverlayKey(t *testing.T) {
	overlay := domain.Overlay{
		"CFBundleVersion":    "2.0.1",
		"CFBundleName":       "App",
		"NewKey":             true,
		"CFBundleExecutable": "App",
	}
	base := map[string]interface{}{
		"CFBundleVersion":    "1.0.0",
		"CFBundleName":       "App",
		"CFBundleExecutable": uint64(1),
		"Untouched":          "keep",
	}

	changes := Diff(overlay, base)

	expected := []Change{
		{Key: "CFBundleExecutable", Kind: ChangeReplaced, Old: uint64(1), New: "App"},
		{Key: "CFBundleName", Kind: ChangeUnchanged, Old: "App", New: "App"},
		{Key: "CFBundleVersion", Kind: ChangeReplaced, Old: "1.0.0", New: "2.0.1"},
		{Key: "NewKey", Kind: ChangeAdded, New: true},
	}
	assert.Equal(t, expected, changes)
	assert.True(t, Modified(changes))
}

func TestDiff_EmptyOverlay(t *testing.T) {
	changes := Diff(domain.Overlay{}, map[string]interface{}{"a": "b"})

	assert.Empty(t, changes)
	assert.False(t, Modified(changes))
}

func TestModified_OnlyUnchanged(t *testing.T) {
	changes := Diff(domain.Overlay{"a": "b"}, map[string]interface{}{"a": "b"})

	assert.False(t, Modified(changes))
}

// Property-based tests

func TestMerge_OverlayKeysWin_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		overlay := domain.Overlay(drawMapping(t, "overlay"))
		base := drawMapping(t, "base")

		result := Merge(overlay, base)

		for k, v := range overlay {
			assert.Equal(t, v, result[k], "overlay key %q should carry the overlay value", k)
		}
	})
}

func TestMerge_UntouchedKeysSurvive_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		overlay := domain.Overlay(drawMapping(t, "overlay"))
		base := drawMapping(t, "base")

		result := Merge(overlay, base)

		for k, v := range base {
			if _, overridden := overlay[k]; overridden {
				continue
			}
			assert.Equal(t, v, result[k], "base key %q should be unchanged", k)
		}
		for k := range result {
			_, inBase := base[k]
			_, inOverlay := overlay[k]
			assert.True(t, inBase || inOverlay, "result key %q came from nowhere", k)
		}
	})
}

func TestMerge_Idempotent_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		overlay := domain.Overlay(drawMapping(t, "overlay"))
		base := drawMapping(t, "base")

		once := Merge(overlay, base)
		twice := Merge(overlay, once)

		assert.Equal(t, once, twice)
		assert.False(t, Modified(Diff(overlay, once)), "second application should change nothing")
	})
}

func TestMerge_BaseNotMutated_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		overlay := domain.Overlay(drawMapping(t, "overlay"))
		base := drawMapping(t, "base")
		snapshot := copyMapping(base)

		Merge(overlay, base)

		assert.Equal(t, snapshot, base)
	})
}

func TestDiff_ConsistentWithMerge_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		overlay := domain.Overlay(drawMapping(t, "overlay"))
		base := drawMapping(t, "base")

		changes := Diff(overlay, base)
		result := Merge(overlay, base)

		assert.Len(t, changes, len(overlay))
		for _, c := range changes {
			assert.Equal(t, result[c.Key], c.New)
			_, existed := base[c.Key]
			assert.Equal(t, !existed, c.Kind == ChangeAdded)
		}
	})
}
