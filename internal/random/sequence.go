package random

// Sequence replays a fixed list of draws, reducing each modulo n. Once the
// list is exhausted it keeps counting upwards from the last value so that
// rejection sampling callers still make progress.
type Sequence struct {
	values []int
	next   int
	calls  int
}

var _ Source = (*Sequence)(nil)

func NewSequence(values ...int) *Sequence {
	return &Sequence{values: values}
}

func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	s.calls++
	var v int
	if s.next < len(s.values) {
		v = s.values[s.next]
		s.next++
	} else {
		last := 0
		if len(s.values) > 0 {
			last = s.values[len(s.values)-1]
		}
		v = last + s.calls - len(s.values)
	}
	return ((v % n) + n) % n
}

// Calls reports how many draws have been made.
func (s *Sequence) Calls() int {
	return s.calls
}
