package utils

//Sequence is a fixed capacity window over the last values pushed into it. Once full, every Push overwrites the oldest value.
type Sequence[T comparable] struct {
	values []T
	next   int
	full   bool
}

//NewSequence allocates a window of given capacity (at least 1)
func NewSequence[T comparable](capacity int) *Sequence[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Sequence[T]{values: make([]T, capacity)}
}

func (s *Sequence[T]) Push(v T) {
	s.values[s.next] = v
	s.next = (s.next + 1) % len(s.values)
	if s.next == 0 {
		s.full = true
	}
}

func (s *Sequence[T]) Cap() int { return len(s.values) }

func (s *Sequence[T]) Len() int {
	if s.full {
		return len(s.values)
	}
	return s.next
}

//Values returns the window content, oldest first
func (s *Sequence[T]) Values() []T {
	if !s.full {
		return append([]T(nil), s.values[:s.next]...)
	}
	res := make([]T, 0, len(s.values))
	res = append(res, s.values[s.next:]...)
	return append(res, s.values[:s.next]...)
}

//Last returns the most recently pushed value
func (s *Sequence[T]) Last() (T, bool) {
	var zero T
	if s.Len() == 0 {
		return zero, false
	}
	return s.values[(s.next-1+len(s.values))%len(s.values)], true
}

//Mode returns the most frequent value in the window. A tie goes to the value seen most recently.
func (s *Sequence[T]) Mode() (T, bool) {
	var best T
	values := s.Values()
	if len(values) == 0 {
		return best, false
	}

	counts := make(map[T]int, len(values))
	lastSeen := make(map[T]int, len(values))
	for i, v := range values {
		counts[v]++
		lastSeen[v] = i
	}

	bestCount, bestSeen := -1, -1
	for v, c := range counts {
		if c > bestCount || (c == bestCount && lastSeen[v] > bestSeen) {
			best, bestCount, bestSeen = v, c, lastSeen[v]
		}
	}
	return best, true
}
