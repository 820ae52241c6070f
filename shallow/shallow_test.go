package shallow

import (
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type point struct {
	X, Y int
}

type card struct {
	Title string
	Tags  []string
	Owner *point
	hits  int
}

func TestEqual(t *testing.T) {
	shared := &point{X: 1}
	tags := []string{"a", "b"}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"both nil", nil, nil, true},
		{"one nil", nil, map[string]any{}, false},
		{"same scalars", 3, 3, true},
		{"different scalars", 3, 4, false},
		{"different types", int32(3), int64(3), false},
		{"maps same keys same refs", map[string]any{"p": shared, "n": 1}, map[string]any{"p": shared, "n": 1}, true},
		{"maps different key sets", map[string]any{"a": 1}, map[string]any{"b": 1}, false},
		{"maps different sizes", map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}, false},
		{"maps with equal but distinct pointers", map[string]any{"p": &point{X: 1}}, map[string]any{"p": &point{X: 1}}, false},
		{"nil and empty map", map[string]any(nil), map[string]any{}, true},
		{"structs share refs", card{Title: "t", Tags: tags, Owner: shared}, card{Title: "t", Tags: tags, Owner: shared}, true},
		{"structs distinct slices", card{Tags: []string{"a"}}, card{Tags: []string{"a"}}, false},
		{"structs differ in unexported field", card{hits: 1}, card{hits: 2}, false},
		{"pointers to shallow-equal structs", &point{X: 1, Y: 2}, &point{X: 1, Y: 2}, true},
		{"same pointer", shared, shared, true},
		{"slices elementwise", []any{shared, 1}, []any{shared, 1}, true},
		{"slices differ", []any{shared, 1}, []any{shared, 2}, false},
		{"nested value compared one level only", map[string]any{"m": map[string]int{"a": 1}}, map[string]any{"m": map[string]int{"a": 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a), "Equal should be symmetric")
		})
	}
}

func TestSameValue(t *testing.T) {
	m := map[string]int{"a": 1}
	s := []int{1, 2, 3}

	assert.True(t, SameValue(reflect.ValueOf(m), reflect.ValueOf(m)))
	assert.False(t, SameValue(reflect.ValueOf(m), reflect.ValueOf(map[string]int{"a": 1})))
	assert.True(t, SameValue(reflect.ValueOf(s), reflect.ValueOf(s)))
	assert.False(t, SameValue(reflect.ValueOf(s), reflect.ValueOf(s[:2])), "re-sliced views are different values")
	assert.True(t, SameValue(reflect.ValueOf(point{1, 2}), reflect.ValueOf(point{1, 2})))
	assert.False(t, SameValue(reflect.Value{}, reflect.ValueOf(1)))
}

func TestSameValueFloatsByBits(t *testing.T) {
	nan := math.NaN()

	assert.True(t, SameValue(reflect.ValueOf(nan), reflect.ValueOf(nan)))
	assert.True(t, SameValue(reflect.ValueOf(float32(nan)), reflect.ValueOf(float32(nan))))
	assert.True(t, SameValue(reflect.ValueOf(complex(nan, 1)), reflect.ValueOf(complex(nan, 1))))
	assert.False(t, SameValue(reflect.ValueOf(complex(nan, 1)), reflect.ValueOf(complex(nan, 2))))
	assert.False(t, SameValue(reflect.ValueOf(1.5), reflect.ValueOf(2.5)))
	assert.True(t, Equal(map[string]any{"ratio": nan}, map[string]any{"ratio": nan}))
}

func TestFuncsCompareByCodePointer(t *testing.T) {
	makeHandler := func(n int) func() int { return func() int { return n } }
	one, two := makeHandler(1), makeHandler(2)
	other := func() int { return 0 }

	assert.True(t, Equal(map[string]any{"fn": one}, map[string]any{"fn": two}),
		"closures of one literal share a code pointer")
	assert.False(t, Equal(map[string]any{"fn": one}, map[string]any{"fn": other}))
}
