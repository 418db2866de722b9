// Package metrics holds the application counters. The persistence layer is
// deliberately best-effort (corrupt payloads reset to empty, paired writes are
// not transactional), so each swallowed failure increments a counter here to
// keep the degradation observable.
package metrics

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

var (
	CapturesTotal       = metrics.NewCounter(`captures_total`)
	FeedPostsTotal      = metrics.NewCounter(`feed_posts_created_total`)
	LikeTogglesTotal    = metrics.NewCounter(`like_toggles_total`)
	LikeDivergenceTotal = metrics.NewCounter(`like_divergence_total`)
	DecodeFailuresTotal = metrics.NewCounter(`kv_decode_failures_total`)
	WriteFailuresTotal  = metrics.NewCounter(`kv_write_failures_total`)
)

// WritePrometheus dumps all registered metrics in Prometheus text format.
func WritePrometheus(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
