package enum

import (
	"fmt"
	"reflect"
	"sync"
)

var (
	enumMutex   sync.RWMutex
	enumManager = map[string]any{}
)

type enum[T comparable] struct {
	toEnum map[string]T
	all    *[]T
}

// New registers the value in the enum of its type. The string form of the
// value is the name used by ToEnum.
func New[T comparable](value T) T {
	enumMutex.Lock()
	defer enumMutex.Unlock()

	name := typeName[T]()
	if _, ok := enumManager[name]; !ok {
		enumManager[name] = enum[T]{toEnum: make(map[string]T), all: &[]T{}}
	}

	e := enumManager[name].(enum[T])
	e.toEnum[fmt.Sprint(value)] = value
	*e.all = append(*e.all, value)
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	enumMutex.RLock()
	defer enumMutex.RUnlock()

	var defaultT T
	e, ok := enumManager[typeName[T]()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// Values returns the registered values in registration order.
func Values[T comparable]() []T {
	enumMutex.RLock()
	defer enumMutex.RUnlock()

	e, ok := enumManager[typeName[T]()]
	if !ok {
		return nil
	}

	return append([]T{}, *e.(enum[T]).all...)
}

func typeName[T any]() string {
	var t T
	rt := reflect.TypeOf(t)
	return rt.PkgPath() + "." + rt.Name()
}
