package types

// Once holds a value that can be set a single time. The zero value is unset
// and there is no way back to the unset state once Set has succeeded.
type Once[T any] struct {
	IsSet bool `cbor:"1,keyasint"`
	Value T    `cbor:"2,keyasint"`
}

// Get returns the value and whether it has been set.
func (o Once[T]) Get() (T, bool) {
	return o.Value, o.IsSet
}

// Set returns a copy of o holding v. It returns false, and o unchanged, if
// o was already set.
func (o Once[T]) Set(v T) (Once[T], bool) {
	if o.IsSet {
		return o, false
	}
	return Once[T]{IsSet: true, Value: v}, true
}
