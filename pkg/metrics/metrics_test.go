package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveMovement_CuentaPorTipoYResultado(t *testing.T) {
	r := New()

	r.ObserveMovement("IN", OutcomeOK, 10*time.Millisecond)
	r.ObserveMovement("IN", OutcomeOK, 10*time.Millisecond)
	r.ObserveMovement("OUT", OutcomeInsufficient, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.MovementsTotal.WithLabelValues("IN", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.MovementsTotal.WithLabelValues("OUT", OutcomeInsufficient)))
}

func TestPurged_IgnoraNoPositivos(t *testing.T) {
	r := New()

	r.Purged(0)
	r.Purged(3)

	assert.Equal(t, 3.0, testutil.ToFloat64(r.IdempotencyPurged))
}

func TestRecorderNil_NoPanic(t *testing.T) {
	var r *Recorder

	assert.NotPanics(t, func() {
		r.ObserveMovement("IN", OutcomeOK, time.Second)
		r.IdempotencyEvent("miss")
		r.Purged(1)
		r.DigestSent("sent")
	})
}
