package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSet_CountersIncrement(t *testing.T) {
	s := NewSet()

	s.Puts.Inc()
	s.Puts.Inc()
	s.Gets.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(s.Puts))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.Gets))
	assert.Equal(t, float64(0), testutil.ToFloat64(s.Sends))
}

func TestNewSet_IndependentRegistries(t *testing.T) {
	a := NewSet()
	b := NewSet()

	a.Puts.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.Puts))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.Puts))
}
