package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizationFailureLabelDropsIndexes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncNormalizationFailure("familyMembers[3].dob")
	m.IncNormalizationFailure("familyMembers[0].dob")
	m.IncNormalizationFailure("dateOfBirth")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.NormalizationFailures.WithLabelValues("familyMembers.dob")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NormalizationFailures.WithLabelValues("dateOfBirth")))
}

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncSubmitted("gazetted")
	m.IncStatusLookup("found")
	m.IncStatusLookup("found")
	m.IncCorruptRecord("applications")
	m.IncStatusUpdate("approved")
	m.IncValidationFailure()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ApplicationsSubmitted.WithLabelValues("gazetted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusLookups.WithLabelValues("found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CorruptRecords.WithLabelValues("applications")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusUpdates.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncSubmitted("gazetted")
		m.IncValidationFailure()
		m.IncStatusLookup("found")
		m.IncNormalizationFailure("dob")
		m.IncCorruptRecord("applications")
		m.IncStatusUpdate("approved")
		m.ObserveSubmission(0.1)
	})
}
