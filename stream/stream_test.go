package stream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_emit_delivers_to_live_subscribers(t *testing.T) {
	s, e := New[int]()

	var got []int
	_ = s.Subscribe(func(v int) { got = append(got, v) })

	e.Emit(1)
	e.Emit(2)

	assert.Equal(t, []int{1, 2}, got)
}

func Test_released_token_stops_delivery(t *testing.T) {
	s, e := New[int]()

	var count int
	tok := s.Subscribe(func(int) { count++ })

	e.Emit(1)
	e.Release(tok)
	e.Emit(2)

	assert.Equal(t, 1, count)
}

func Test_subscribe_after_close_is_unbound(t *testing.T) {
	s, e := New[int]()
	e.Close()

	var called bool
	tok := s.Subscribe(func(int) { called = true })

	e.Emit(1) // no-op on a closed emitter

	assert.False(t, called)
	e.Release(tok) // should not panic on an unbound token
}

func Test_release_after_close_does_not_panic(t *testing.T) {
	s, e := New[int]()
	tok := s.Subscribe(func(int) {})

	e.Close()

	assert.NotPanics(t, func() { e.Release(tok) })
}

func Test_emit_fanout_is_exhaustive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		s, e := New[int]()

		counts := make([]int, n)
		for i := 0; i < n; i++ {
			i := i
			s.Subscribe(func(v int) { counts[i] += v })
		}

		e.Emit(7)

		for i, c := range counts {
			assert.Equalf(t, 7, c, "subscriber %d missed the emit", i)
		}
	})
}
