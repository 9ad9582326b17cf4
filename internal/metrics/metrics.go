package metrics

import (
	"regexp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application portal.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	ApplicationsSubmitted *prometheus.CounterVec
	ValidationFailures    prometheus.Counter
	StatusLookups         *prometheus.CounterVec
	NormalizationFailures *prometheus.CounterVec
	CorruptRecords        *prometheus.CounterVec
	StatusUpdates         *prometheus.CounterVec
	SubmissionDuration    prometheus.Histogram
}

// New registers all portal metrics on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ApplicationsSubmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idportal_applications_submitted_total",
			Help: "Total number of accepted application submissions",
		}, []string{"applicant_type"}),
		ValidationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "idportal_validation_failures_total",
			Help: "Total number of submissions rejected by validation",
		}),
		StatusLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idportal_status_lookups_total",
			Help: "Public status lookups by result",
		}, []string{"result"}),
		NormalizationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idportal_timestamp_normalization_failures_total",
			Help: "Stored date values that could not be normalized, by field",
		}, []string{"field"}),
		CorruptRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idportal_corrupt_records_total",
			Help: "Stored records excluded from reads because they failed the completeness check",
		}, []string{"collection"}),
		StatusUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "idportal_status_updates_total",
			Help: "Application status changes by target status",
		}, []string{"status"}),
		SubmissionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "idportal_submission_duration_seconds",
			Help:    "Duration of application submissions including uploads",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

func (m *Metrics) IncSubmitted(applicantType string) {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.WithLabelValues(applicantType).Inc()
}

func (m *Metrics) IncValidationFailure() {
	if m == nil {
		return
	}
	m.ValidationFailures.Inc()
}

func (m *Metrics) IncStatusLookup(result string) {
	if m == nil {
		return
	}
	m.StatusLookups.WithLabelValues(result).Inc()
}

var indexPattern = regexp.MustCompile(`\[\d+\]|\.\d+`)

// IncNormalizationFailure counts a failed date field. Array indexes are
// stripped so "familyMembers[3].dob" and "familyMembers[0].dob" share a label.
func (m *Metrics) IncNormalizationFailure(field string) {
	if m == nil {
		return
	}
	m.NormalizationFailures.WithLabelValues(indexPattern.ReplaceAllString(field, "")).Inc()
}

func (m *Metrics) IncCorruptRecord(collection string) {
	if m == nil {
		return
	}
	m.CorruptRecords.WithLabelValues(collection).Inc()
}

func (m *Metrics) IncStatusUpdate(status string) {
	if m == nil {
		return
	}
	m.StatusUpdates.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveSubmission(seconds float64) {
	if m == nil {
		return
	}
	m.SubmissionDuration.Observe(seconds)
}
