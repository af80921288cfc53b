package date

import (
	"iter"
	"slices"
)

// History is a chronological series of values with at most one value per day.
type History[T float64 | string] struct {
	days   []Date
	values []T
}

// Len returns the number of days in the history.
func (h *History[T]) Len() int { return len(h.days) }

// Append sets the value of a day, replacing any previous value of that day.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := slices.BinarySearchFunc(h.days, on, Date.Compare)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Values iterates over the history in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// First returns the earliest day and its value, or false if the history is empty.
func (h *History[T]) First() (Date, T, bool) {
	if len(h.days) == 0 {
		var zero T
		return Date{}, zero, false
	}
	return h.days[0], h.values[0], true
}

// Last returns the latest day and its value, or false if the history is empty.
func (h *History[T]) Last() (Date, T, bool) {
	n := len(h.days) - 1
	if n < 0 {
		var zero T
		return Date{}, zero, false
	}
	return h.days[n], h.values[n], true
}

// ValueAsOf returns the value on day, or the latest one before it.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	i, found := slices.BinarySearchFunc(h.days, day, Date.Compare)
	if found {
		return h.values[i], true
	}
	if i == 0 {
		var zero T
		return zero, false
	}
	return h.values[i-1], true
}
