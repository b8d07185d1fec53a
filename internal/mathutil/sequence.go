package mathutil

import "sort"

// TimedTransform is one key of a TransformSequence.
type TimedTransform struct {
	Time      float64
	Transform Transform
}

// TransformSequence is a time-keyed list of transforms evaluated with
// interpolation. The zero value is an empty sequence that evaluates to
// identity.
type TransformSequence struct {
	keys []TimedTransform
}

// NewTransformSequence builds a sequence from keys in any order.
func NewTransformSequence(keys ...TimedTransform) TransformSequence {
	var s TransformSequence
	for _, k := range keys {
		s.Set(k.Time, k.Transform)
	}
	return s
}

// Set inserts a key, replacing any key at the same time.
func (s *TransformSequence) Set(time float64, t Transform) {
	i := sort.Search(len(s.keys), func(i int) bool { return s.keys[i].Time >= time })
	if i < len(s.keys) && s.keys[i].Time == time {
		s.keys[i].Transform = t
		return
	}
	s.keys = append(s.keys, TimedTransform{})
	copy(s.keys[i+1:], s.keys[i:])
	s.keys[i] = TimedTransform{Time: time, Transform: t}
}

func (s TransformSequence) Len() int {
	return len(s.keys)
}

func (s TransformSequence) Empty() bool {
	return len(s.keys) == 0
}

// Keys returns a copy of the keys in time order.
func (s TransformSequence) Keys() []TimedTransform {
	out := make([]TimedTransform, len(s.keys))
	copy(out, s.keys)
	return out
}

// Earliest returns the transform of the first key, or identity.
func (s TransformSequence) Earliest() Transform {
	if len(s.keys) == 0 {
		return TransformIdentity()
	}
	return s.keys[0].Transform
}

// Evaluate returns the transform at time. Times outside the key range clamp
// to the nearest key.
func (s TransformSequence) Evaluate(time float64) Transform {
	n := len(s.keys)
	switch {
	case n == 0:
		return TransformIdentity()
	case n == 1 || time <= s.keys[0].Time:
		return s.keys[0].Transform
	case time >= s.keys[n-1].Time:
		return s.keys[n-1].Transform
	}

	i := sort.Search(n, func(i int) bool { return s.keys[i].Time >= time })
	if s.keys[i].Time == time {
		return s.keys[i].Transform
	}
	prev, next := s.keys[i-1], s.keys[i]
	f := (time - prev.Time) / (next.Time - prev.Time)
	return InterpolateTransform(prev.Transform, next.Transform, f)
}

// ComposeSequences returns lhs ∘ rhs: at each time rhs applies first, then
// lhs. Keys are the union of both key sets.
func ComposeSequences(lhs, rhs TransformSequence) TransformSequence {
	if lhs.Empty() {
		return rhs.clone()
	}
	if rhs.Empty() {
		return lhs.clone()
	}

	var out TransformSequence
	for _, k := range lhs.keys {
		out.Set(k.Time, TransformMul(k.Transform, rhs.Evaluate(k.Time)))
	}
	for _, k := range rhs.keys {
		out.Set(k.Time, TransformMul(lhs.Evaluate(k.Time), k.Transform))
	}
	return out
}

func (s TransformSequence) clone() TransformSequence {
	return TransformSequence{keys: s.Keys()}
}
