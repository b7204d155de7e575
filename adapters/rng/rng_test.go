package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededStreamIsDeterministic(t *testing.T) {
	p := New()

	a := p.SeededStream("gender/clt", 42)
	b := p.SeededStream("gender/clt", 42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Int63(), b.Int63())
	}
}

func TestStreamsDivergeByName(t *testing.T) {
	p := New()
	assert.NotEqual(t, p.StreamSeed("gender/clt", 42), p.StreamSeed("age/clt", 42))
	assert.NotEqual(t, p.StreamSeed("gender/clt", 42), p.StreamSeed("gender/clt", 43))
}
