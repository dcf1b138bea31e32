package cart

// result carries a best-effort value together with the reason it may not
// reflect persisted state. Only the value leaves the package.
type result[T any] struct {
	value T
	err   error
}

func ok[T any](value T) result[T] {
	return result[T]{value: value}
}

func failed[T any](value T, err error) result[T] {
	return result[T]{value: value, err: err}
}

func (r result[T]) Failed() bool {
	return r.err != nil
}
