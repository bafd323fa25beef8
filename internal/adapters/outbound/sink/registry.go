package sink

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/battleroid/dwms/internal/domain"
)

// FromConfig builds the enabled sinks in a fixed order: slack, webhook,
// stdout, textfile, nats. Options apply to the HTTP based sinks.
func FromConfig(n domain.NotifiersConfig, stdout, stderr io.Writer, logger zerolog.Logger, opts ...Option) []domain.Sink {
	var sinks []domain.Sink
	if n.Slack != nil {
		sinks = append(sinks, NewSlack(*n.Slack, logger, opts...))
	}
	if n.Webhook != nil {
		sinks = append(sinks, NewWebhook(*n.Webhook, logger, opts...))
	}
	if n.Stdout {
		sinks = append(sinks, NewConsole(stdout, stderr))
	}
	if n.Textfile != nil {
		sinks = append(sinks, NewTextfile(*n.Textfile, logger))
	}
	if n.NATS != nil {
		sinks = append(sinks, NewNATS(*n.NATS, logger))
	}
	return sinks
}
