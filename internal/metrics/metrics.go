package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the application.
type Metrics struct {
	CodesIssued       *prometheus.CounterVec
	CodeIssueRejected *prometheus.CounterVec
	CodesVerified     *prometheus.CounterVec
	CodeVerifyFailed  *prometheus.CounterVec
	CodesPurged       prometheus.Counter
	AccountsCreated   *prometheus.CounterVec
	BeneficiaryReview *prometheus.CounterVec
	NearbySearches    *prometheus.CounterVec
	NearbyResults     prometheus.Histogram
}

// New creates and registers the collectors on reg. Pass prometheus.DefaultRegisterer
// in production and prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CodesIssued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gooddeeds_verification_codes_issued_total",
			Help: "Verification codes issued and delivered, by context",
		}, []string{"context"}),
		CodeIssueRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gooddeeds_verification_issue_rejected_total",
			Help: "Verification code issuances rejected, by context and reason code",
		}, []string{"context", "reason"}),
		CodesVerified: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gooddeeds_verification_codes_verified_total",
			Help: "Verification codes successfully verified, by context",
		}, []string{"context"}),
		CodeVerifyFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gooddeeds_verification_verify_failed_total",
			Help: "Failed verification attempts, by context",
		}, []string{"context"}),
		CodesPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "gooddeeds_verification_codes_purged_total",
			Help: "Expired verification codes deleted",
		}),
		AccountsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gooddeeds_accounts_created_total",
			Help: "Accounts created, by role and source",
		}, []string{"role", "source"}),
		BeneficiaryReview: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gooddeeds_beneficiary_reviews_total",
			Help: "Beneficiary review decisions, by outcome",
		}, []string{"status"}),
		NearbySearches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "gooddeeds_nearby_searches_total",
			Help: "Donor home searches, by mode (nearby or fallback)",
		}, []string{"mode"}),
		NearbyResults: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gooddeeds_nearby_results",
			Help:    "Number of beneficiaries returned by a nearby search",
			Buckets: []float64{0, 1, 2, 5, 10, 20},
		}),
	}
}
