package sink

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/notify"
)

// Webhook posts the run as JSON to an arbitrary endpoint, optionally
// authenticated with a bearer token.
type Webhook struct {
	url    string
	token  string
	min    domain.Status
	poster *poster
	logger zerolog.Logger
}

// WebhookGroup is one status group in the webhook body.
type WebhookGroup struct {
	Status  domain.Status `json:"status"`
	Title   string        `json:"title"`
	Color   domain.Color  `json:"color"`
	Count   int           `json:"count"`
	Members []string      `json:"members"`
}

// WebhookPayload is the JSON body posted by the webhook sink.
type WebhookPayload struct {
	RunID    string                   `json:"run_id"`
	Date     string                   `json:"date"`
	Revision string                   `json:"revision,omitempty"`
	Clusters map[string]domain.Status `json:"clusters"`
	Groups   []WebhookGroup           `json:"groups"`
}

// NewWebhook creates a webhook sink from its config.
func NewWebhook(cfg domain.WebhookConfig, logger zerolog.Logger, opts ...Option) *Webhook {
	logger = logger.With().Str("sink", "webhook").Logger()
	return &Webhook{
		url:    cfg.URL,
		token:  cfg.Token,
		min:    domain.MinStatusOf(cfg.MinStatus),
		poster: newPoster(cfg.Timeout, logger, opts),
		logger: logger,
	}
}

func (w *Webhook) Name() string { return "webhook" }

// Dispatch implements domain.Sink.
func (w *Webhook) Dispatch(ctx context.Context, d domain.Dispatch) error {
	groups := notify.AtLeast(d.Groups, w.min)
	if len(groups) == 0 {
		w.logger.Debug().Str("min_status", w.min.Name()).Msg("nothing at or above threshold, not posting")
		return nil
	}

	payload := WebhookPayload{
		RunID:    d.RunID,
		Date:     d.Date,
		Revision: d.Revision,
		Clusters: d.Statuses,
		Groups:   make([]WebhookGroup, 0, len(groups)),
	}
	for _, g := range groups {
		payload.Groups = append(payload.Groups, WebhookGroup{
			Status:  g.Status,
			Title:   notify.Title(g),
			Color:   g.Color(),
			Count:   g.Count(),
			Members: g.Members,
		})
	}

	header := http.Header{}
	if w.token != "" {
		header.Set("Authorization", "Bearer "+w.token)
	}
	if err := w.poster.post(ctx, w.url, payload, header); err != nil {
		return err
	}
	w.logger.Info().Int("groups", len(payload.Groups)).Str("url", maskURL(w.url)).Msg("webhook notification sent")
	return nil
}
