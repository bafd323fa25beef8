package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/battleroid/dwms/internal/domain"
)

// NATS publishes the dispatch as JSON on a subject. Each dispatch opens and
// closes its own connection.
type NATS struct {
	url     string
	subject string
	timeout time.Duration
	logger  zerolog.Logger
}

// NewNATS creates a NATS sink from its config.
func NewNATS(cfg domain.NATSConfig, logger zerolog.Logger) *NATS {
	return &NATS{
		url:     cfg.URL,
		subject: cfg.Subject,
		timeout: cfg.Timeout,
		logger:  logger.With().Str("sink", "nats").Logger(),
	}
}

func (n *NATS) Name() string { return "nats" }

// Dispatch implements domain.Sink.
func (n *NATS) Dispatch(ctx context.Context, d domain.Dispatch) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling dispatch: %w", err)
	}

	timeout := n.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout || timeout <= 0 {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = domain.DefaultNotifyTimeout
	}

	nc, err := nats.Connect(n.url,
		nats.Name("dwms"),
		nats.Timeout(timeout),
		nats.NoReconnect(),
	)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", n.url, err)
	}
	defer nc.Close()

	if err := nc.Publish(n.subject, data); err != nil {
		return fmt.Errorf("publishing to %s: %w", n.subject, err)
	}
	if err := nc.FlushTimeout(timeout); err != nil {
		return fmt.Errorf("flushing to %s: %w", n.subject, err)
	}

	n.logger.Info().Str("subject", n.subject).Int("bytes", len(data)).Msg("dispatch published")
	return nil
}
