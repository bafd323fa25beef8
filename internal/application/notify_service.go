package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/notify"
)

// NotifyService fans a finished run out to every enabled sink. Sinks are
// independent: one failing never stops the others.
type NotifyService struct {
	sinks    []domain.Sink
	fallback domain.Sink
	logger   zerolog.Logger
}

// NewNotifyService creates a NotifyService. fallback receives the run when
// sinks is empty.
func NewNotifyService(sinks []domain.Sink, fallback domain.Sink, logger zerolog.Logger) *NotifyService {
	return &NotifyService{
		sinks:    sinks,
		fallback: fallback,
		logger:   logger,
	}
}

// Dispatch sends report to every sink and returns the SinkErrors of the
// sinks that failed.
func (s *NotifyService) Dispatch(ctx context.Context, report domain.RunReport) []error {
	d := notify.NewDispatch(report)
	logger := s.logger.With().Str("run_id", report.RunID).Logger()

	sinks := s.sinks
	if len(sinks) == 0 {
		logger.Info().Msg("no notifiers configured, dumping to console")
		sinks = []domain.Sink{s.fallback}
	}

	var errs []error
	for _, sink := range sinks {
		if err := sink.Dispatch(ctx, d); err != nil {
			serr := &domain.SinkError{Sink: sink.Name(), Err: err}
			logger.Error().Err(serr).Str("sink", sink.Name()).Msg("notification dispatch failed")
			errs = append(errs, serr)
			continue
		}
		logger.Debug().Str("sink", sink.Name()).Int("groups", len(d.Groups)).Msg("notification dispatched")
	}
	return errs
}
