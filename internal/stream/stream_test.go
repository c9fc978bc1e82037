package stream

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sliceSource replays a finite sequence on Subscribe, in order, like the
// connector's delivery thread would.
func sliceSource[T any](values []T) Stream[T] {
	return Func[T](func(sink func(T)) {
		for _, v := range values {
			sink(v)
		}
	})
}

func TestMap(t *testing.T) {
	var got []string
	Map(sliceSource([]int{1, 2, 3}), strconv.Itoa).Subscribe(func(s string) {
		got = append(got, s)
	})
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestFilter(t *testing.T) {
	var got []int
	Filter(sliceSource([]int{1, 2, 3, 4, 5}), func(v int) bool { return v%2 == 0 }).Subscribe(func(v int) {
		got = append(got, v)
	})
	assert.Equal(t, []int{2, 4}, got)
}

func TestMapFilter_Composed(t *testing.T) {
	// h(f(x)) is delivered iff p(f(x)), in arrival order.
	src := sliceSource([]string{"<result/>", "<error/>", "<result ok/>", "<candles/>"})

	var got []string
	upper := Map[string, string](src, strings.ToUpper)
	results := Filter(upper, func(s string) bool { return strings.HasPrefix(s, "<RESULT") })
	results.Subscribe(func(s string) { got = append(got, s) })

	assert.Equal(t, []string{"<RESULT/>", "<RESULT OK/>"}, got)
}

func TestFilterMap_ShortCircuits(t *testing.T) {
	downstream := 0
	fm := FilterMap(sliceSource([]int{1, 2, 3, 4}), func(v int) (int, bool) {
		return v * 10, v%2 == 1
	})

	var got []int
	Inspect(fm, func(int) { downstream++ }).Subscribe(func(v int) {
		got = append(got, v)
	})

	assert.Equal(t, []int{10, 30}, got)
	// Dropped values never reach later stages.
	assert.Equal(t, 2, downstream)
}

func TestInspect_ObservesWithoutAltering(t *testing.T) {
	var seen, got []int
	Inspect(sliceSource([]int{7, 8}), func(v int) { seen = append(seen, v) }).Subscribe(func(v int) {
		got = append(got, v)
	})
	assert.Equal(t, []int{7, 8}, seen)
	assert.Equal(t, []int{7, 8}, got)
}

func TestSubscribe_StatefulStages(t *testing.T) {
	// Stages may carry state between deliveries.
	n := 0
	var got []int
	Map(sliceSource(make([]struct{}, 4)), func(struct{}) int { n++; return n }).Subscribe(func(v int) {
		got = append(got, v)
	})
	assert.Equal(t, []int{1, 2, 3, 4}, got)
}
