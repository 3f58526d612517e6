package ffmt

import (
	"encoding"
	"fmt"
	"reflect"
	"sync"
)

// Registry maps concrete types to binders for the dynamic binding path.
// The zero value is an empty Registry. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	binders map[reflect.Type]func(any) Arg
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{binders: make(map[reflect.Type]func(any) Arg)}
}

// DefaultRegistry is consulted by Bind and BindAll.
var DefaultRegistry = NewRegistry()

// Register installs fn as the binder for values of exactly type T,
// replacing any previous binder for T.
func Register[T any](r *Registry, fn func(T) Arg) {
	r.Set(reflect.TypeFor[T](), func(v any) Arg { return fn(v.(T)) })
}

// Set installs fn for t.
func (r *Registry) Set(t reflect.Type, fn func(any) Arg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.binders == nil {
		r.binders = make(map[reflect.Type]func(any) Arg)
	}
	r.binders[t] = fn
}

// Lookup returns the binder registered for t.
func (r *Registry) Lookup(t reflect.Type) (func(any) Arg, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.binders[t]
	return fn, ok
}

// Bind binds a value of unknown static type using DefaultRegistry.
func Bind(v any) (Arg, error) { return DefaultRegistry.Bind(v) }

// BindAll binds each value in order using DefaultRegistry.
func BindAll(vs ...any) ([]Arg, error) { return DefaultRegistry.BindAll(vs...) }

// Bind resolves v to an Arg. Resolution order: v is already an Arg, a binder
// registered for v's type, fmt.Stringer, encoding.TextMarshaler, error, and
// finally the underlying kind (string, integer, float, bool, []byte).
// Anything else fails with *UnsupportedTypeError.
func (r *Registry) Bind(v any) (Arg, error) {
	if a, ok := v.(Arg); ok {
		return a, nil
	}
	if v == nil {
		return nil, &UnsupportedTypeError{}
	}
	if fn, ok := r.Lookup(reflect.TypeOf(v)); ok {
		return fn(v), nil
	}
	switch x := v.(type) {
	case fmt.Stringer:
		return Stringer(x), nil
	case encoding.TextMarshaler:
		return Text(x), nil
	case error:
		return Err(x), nil
	}
	return bindKind(v)
}

// BindAll binds each value in order. The first failure is returned with the
// position of the offending value.
func (r *Registry) BindAll(vs ...any) ([]Arg, error) {
	args := make([]Arg, len(vs))
	for i, v := range vs {
		a, err := r.Bind(v)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = a
	}
	return args, nil
}

func bindKind(v any) (Arg, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return strArg(rv.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intArg(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintArg(rv.Uint()), nil
	case reflect.Float32:
		return floatArg{v: rv.Float(), bits: 32}, nil
	case reflect.Float64:
		return floatArg{v: rv.Float(), bits: 64}, nil
	case reflect.Bool:
		return boolArg(rv.Bool()), nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return bytesArg(rv.Bytes()), nil
		}
	}
	return nil, &UnsupportedTypeError{Type: rv.Type()}
}
