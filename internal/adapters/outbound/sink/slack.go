package sink

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/battleroid/dwms/internal/domain"
	"github.com/battleroid/dwms/internal/domain/notify"
)

// Slack posts one colored attachment per status group to an incoming webhook.
type Slack struct {
	url    string
	min    domain.Status
	poster *poster
	logger zerolog.Logger
}

type slackAttachment struct {
	Color string `json:"color"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type slackPayload struct {
	Attachments []slackAttachment `json:"attachments"`
}

// NewSlack creates a Slack sink from its config.
func NewSlack(cfg domain.SlackConfig, logger zerolog.Logger, opts ...Option) *Slack {
	logger = logger.With().Str("sink", "slack").Logger()
	return &Slack{
		url:    cfg.URL,
		min:    domain.MinStatusOf(cfg.MinStatus),
		poster: newPoster(cfg.Timeout, logger, opts),
		logger: logger,
	}
}

func (s *Slack) Name() string { return "slack" }

// Dispatch implements domain.Sink.
func (s *Slack) Dispatch(ctx context.Context, d domain.Dispatch) error {
	groups := notify.AtLeast(d.Groups, s.min)
	if len(groups) == 0 {
		s.logger.Debug().Str("min_status", s.min.Name()).Msg("nothing at or above threshold, not posting")
		return nil
	}

	payload := slackPayload{Attachments: make([]slackAttachment, 0, len(groups))}
	for _, g := range groups {
		payload.Attachments = append(payload.Attachments, slackAttachment{
			Color: string(g.Color()),
			Title: notify.Title(g),
			Text:  notify.Body(g),
		})
	}

	if err := s.poster.post(ctx, s.url, payload, nil); err != nil {
		return err
	}
	s.logger.Info().Int("attachments", len(payload.Attachments)).Str("url", maskURL(s.url)).Msg("slack notification sent")
	return nil
}
