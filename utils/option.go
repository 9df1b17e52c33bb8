package utils

// Option holds an operator that is either present or absent, absence is
// checked once at the point of use instead of through nil pointers.
type Option[T any] struct {
	value   T
	present bool
}

func Some[T any](v T) Option[T] {
	return Option[T]{value: v, present: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

func (o Option[T]) IsPresent() bool { return o.present }

func (o Option[T]) Get() (v T, ok bool) {
	return o.value, o.present
}

// MustGet panics on an absent value, callers check IsPresent first.
func (o Option[T]) MustGet() T {
	if !o.present {
		panic("attempt to use an absent operator")
	}
	return o.value
}
