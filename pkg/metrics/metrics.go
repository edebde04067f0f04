package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
	CVRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "cv_renders_total", Help: "PDF renders by outcome."},
		[]string{"result"},
	)
	CVRenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "portfolio", Name: "cv_render_duration_seconds", Help: "Wall time of HTML to PDF renders.", Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64}},
	)
	AssetUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "asset_uploads_total", Help: "Asset host uploads by folder and outcome."},
		[]string{"folder", "result"},
	)
	MailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "portfolio", Name: "mails_sent_total", Help: "Outgoing contact mails by outcome."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(CVRenders)
	reg.MustRegister(CVRenderDuration)
	reg.MustRegister(AssetUploads)
	reg.MustRegister(MailsSent)
}
