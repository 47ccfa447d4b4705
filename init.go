// init.go — abrupt-failure-safe incremental slice construction.
//
// Building a fixed-length buffer element by element leaks already-built
// elements if a later step panics: nothing would otherwise release the
// resources they hold. InitSlice guarantees a single, well-defined recovery
// point with an accurate "how far did we get" count, so cleanup code is
// simple and correct regardless of which index failed.
//
// The utility is a standalone leaf: it shares the completion-safety
// discipline with Poison[T] (detect abnormal exit → run cleanup → report)
// but has no dependency on it.
package xgxpoison

// initProgress is the partially-built buffer plus its constructed count.
// It exists only for the duration of one InitSlice/TryInitSlice call: it is
// consumed into the result on success, or handed to teardown on failure.
type initProgress[T any] struct {
	buf  []T
	done bool
}

// finish hands the partial buffer to teardown unless construction completed.
// Invoked via defer, so it runs during a panic's unwinding too; the panic
// then continues to propagate untouched.
func (pr *initProgress[T]) finish(teardown func(built []T)) {
	if pr.done || teardown == nil {
		return
	}
	teardown(pr.buf)
}

// InitSlice builds a slice of n elements, one at a time. step is called for
// each index i in order and returns element i; built exposes the elements
// constructed so far (indices 0..i), read-only by convention.
//
// If step panics at index k, teardown receives exactly the k already-built
// elements — len(built) is the index reached — before the original panic
// re-propagates to the caller. Teardown is expected not to fail; a panic
// from teardown during unwinding is a fatal double-failure. On success
// teardown is never invoked.
//
// n <= 0 yields an empty slice without calling step. A nil teardown skips
// cleanup; a nil step with n > 0 is a programmer error and panics.
func InitSlice[T any](n int, step func(i int, built []T) T, teardown func(built []T)) []T {
	if n <= 0 {
		return []T{}
	}
	if step == nil {
		panic("xgxpoison: InitSlice requires a step function")
	}

	pr := &initProgress[T]{buf: make([]T, 0, n)}
	defer pr.finish(teardown)

	for i := 0; i < n; i++ {
		pr.buf = append(pr.buf, step(i, pr.buf))
	}
	pr.done = true
	return pr.buf
}

// TryInitSlice is the fallible variant of InitSlice: step may return an
// error instead of panicking. An error at index k triggers
// teardown(built[:k]) and is then returned verbatim; a panic behaves exactly
// as in InitSlice. No teardown call occurs on the success path.
func TryInitSlice[T any](n int, step func(i int, built []T) (T, error), teardown func(built []T)) ([]T, error) {
	if n <= 0 {
		return []T{}, nil
	}
	if step == nil {
		panic("xgxpoison: TryInitSlice requires a step function")
	}

	pr := &initProgress[T]{buf: make([]T, 0, n)}
	defer pr.finish(teardown)

	for i := 0; i < n; i++ {
		v, err := step(i, pr.buf)
		if err != nil {
			return nil, err
		}
		pr.buf = append(pr.buf, v)
	}
	pr.done = true
	return pr.buf, nil
}
