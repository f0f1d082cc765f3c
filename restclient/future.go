package restclient

// Future is the pending result of an asynchronous call. It completes
// exactly once; Wait may be called any number of times from any goroutine.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// goFuture runs fn in a new goroutine and completes with its result.
func goFuture[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// failed returns an already completed Future carrying err.
func failed[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// then chains fn onto f. fn only runs when f succeeded.
func then[A, B any](f *Future[A], fn func(A) (B, error)) *Future[B] {
	return goFuture(func() (B, error) {
		a, err := f.Wait()
		if err != nil {
			var zero B
			return zero, err
		}
		return fn(a)
	})
}

// Done is closed when the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available and returns it. Cancel the
// context passed to the originating call to abandon it early.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.val, f.err
}
