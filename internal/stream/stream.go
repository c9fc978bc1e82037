// Package stream provides push-based stream combinators for composing a
// delivery-processing pipeline. A composed chain is resolved into a single
// closure at subscription time: there is no per-message allocation and no
// dynamic dispatch in the hot path.
//
// Stage functions run on the producer's thread (for connector deliveries,
// the connector-owned delivery goroutine) and must be safe to call there.
package stream

// Stream is a push-based sequence of values. Subscribe installs the
// terminal handler and starts delivery; it is called exactly once per
// composed chain.
type Stream[T any] interface {
	Subscribe(fn func(T))
}

// Func adapts a subscription function to a Stream.
type Func[T any] func(fn func(T))

// Subscribe implements Stream.
func (s Func[T]) Subscribe(fn func(T)) { s(fn) }

// Map transforms every value with f before passing it downstream.
func Map[S, T any](s Stream[S], f func(S) T) Stream[T] {
	return Func[T](func(sink func(T)) {
		s.Subscribe(func(v S) { sink(f(v)) })
	})
}

// Filter passes only values matching pred downstream.
func Filter[T any](s Stream[T], pred func(T) bool) Stream[T] {
	return Func[T](func(sink func(T)) {
		s.Subscribe(func(v T) {
			if pred(v) {
				sink(v)
			}
		})
	})
}

// FilterMap transforms values with f and drops those for which f reports
// false. Downstream stages do not run for a dropped value.
func FilterMap[S, T any](s Stream[S], f func(S) (T, bool)) Stream[T] {
	return Func[T](func(sink func(T)) {
		s.Subscribe(func(v S) {
			if out, ok := f(v); ok {
				sink(out)
			}
		})
	})
}

// Inspect observes every value without altering the stream.
func Inspect[T any](s Stream[T], f func(T)) Stream[T] {
	return Func[T](func(sink func(T)) {
		s.Subscribe(func(v T) {
			f(v)
			sink(v)
		})
	})
}
