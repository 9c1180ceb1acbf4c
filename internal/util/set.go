package util

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

type Set[T comparable] map[T]struct{}

func NewSet[T comparable]() Set[T] {
	return make(Set[T])
}

func SetOf[T comparable](items ...T) Set[T] {
	s := NewSet[T]()
	for _, item := range items {
		_ = s.Add(item)
	}
	return s
}

func (s Set[T]) Add(item T) error {
	if IsEmpty(item) {
		return fmt.Errorf("cannot add empty value into set")
	}
	s[item] = struct{}{}
	return nil
}

func (s Set[T]) Contains(item T) bool {
	_, ok := s[item]
	return ok
}

func (s Set[T]) Remove(item T) {
	delete(s, item)
}

func (s Set[T]) Values() []T {
	result := make([]T, 0, len(s))
	for item := range s {
		result = append(result, item)
	}
	return result
}

func (s Set[T]) Size() int {
	return len(s)
}

func (s Set[T]) IsEmpty() bool {
	return len(s) == 0
}

func IsEmpty[T any](val T) bool {
	return reflect.DeepEqual(val, *new(T))
}

func (s Set[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values()) // Serialize as a slice
}

func (s Set[T]) MarshalYAML() (interface{}, error) {
	return s.Values(), nil // Serialize as a slice
}

// SortedValues returns the set's members in stable sorted order, so
// plan output never depends on map iteration order.
func SortedValues[T ~string](s Set[T]) []T {
	values := s.Values()
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}
