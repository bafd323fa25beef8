package sink

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/battleroid/dwms/internal/domain"
)

// Textfile writes the run as Prometheus metrics for the node_exporter
// textfile collector. The file is replaced atomically.
type Textfile struct {
	path   string
	now    func() time.Time
	logger zerolog.Logger
}

// NewTextfile creates a textfile sink writing to path.
func NewTextfile(cfg domain.TextfileConfig, logger zerolog.Logger) *Textfile {
	return &Textfile{
		path:   cfg.Path,
		now:    time.Now,
		logger: logger.With().Str("sink", "textfile").Logger(),
	}
}

func (t *Textfile) Name() string { return "textfile" }

// Dispatch implements domain.Sink.
func (t *Textfile) Dispatch(_ context.Context, d domain.Dispatch) error {
	reg := prometheus.NewRegistry()

	status := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "dwms",
		Name:      "cluster_status",
		Help:      "Severity of the latest snapshot check per cluster (0 okay .. 6 failed).",
	}, []string{"cluster", "status"})
	groups := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "dwms",
		Name:      "clusters",
		Help:      "Number of clusters per status in the latest check.",
	}, []string{"status"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dwms",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the latest check finished.",
	})
	reg.MustRegister(status, groups, lastRun)

	for cluster, s := range d.Statuses {
		status.WithLabelValues(cluster, s.Name()).Set(float64(s))
	}
	for _, s := range domain.AllStatuses {
		groups.WithLabelValues(s.Name()).Set(0)
	}
	for _, g := range d.Groups {
		groups.WithLabelValues(g.Status.Name()).Set(float64(g.Count()))
	}
	lastRun.Set(float64(t.now().Unix()))

	if err := prometheus.WriteToTextfile(t.path, reg); err != nil {
		return fmt.Errorf("writing %s: %w", t.path, err)
	}
	t.logger.Info().Str("path", t.path).Int("clusters", len(d.Statuses)).Msg("metrics written")
	return nil
}
