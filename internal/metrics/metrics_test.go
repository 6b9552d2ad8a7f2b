package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CodesIssued.WithLabelValues("signup_donor").Inc()
	m.CodesIssued.WithLabelValues("signup_donor").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CodesIssued.WithLabelValues("signup_donor")))

	// A second set on a fresh registry must not panic on duplicate registration.
	assert.NotPanics(t, func() { New(prometheus.NewRegistry()) })
}
