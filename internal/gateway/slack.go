package gateway

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

// SlackAdapter posts world announcements to a Slack channel.
type SlackAdapter struct {
	client  *slack.Client
	channel string
	logger  *zap.Logger
}

// NewSlackAdapter creates a Slack adapter.
// botToken is the Bot User OAuth Token (xoxb-...).
func NewSlackAdapter(botToken, channel string, logger *zap.Logger) *SlackAdapter {
	return &SlackAdapter{
		client:  slack.New(botToken),
		channel: channel,
		logger:  logger,
	}
}

func (a *SlackAdapter) Platform() string { return "slack" }

// Connect verifies the token by calling auth.test.
func (a *SlackAdapter) Connect(ctx context.Context) error {
	resp, err := a.client.AuthTestContext(ctx)
	if err != nil {
		return fmt.Errorf("slack auth test: %w", err)
	}
	a.logger.Info("slack adapter connected",
		zap.String("bot", resp.User),
		zap.String("team", resp.Team))
	return nil
}

// Announce posts a formatted announcement to the configured channel,
// or to every channel the bot is a member of when none is configured.
func (a *SlackAdapter) Announce(ctx context.Context, ann *Announcement) error {
	text := fmt.Sprintf("*[%s] %s*", ann.Kind, ann.Headline)
	if ann.Body != "" {
		text += "\n" + ann.Body
	}
	opts := []slack.MsgOption{
		slack.MsgOptionText(text, false),
	}

	if a.channel != "" {
		if _, _, err := a.client.PostMessageContext(ctx, a.channel, opts...); err != nil {
			a.logger.Error("slack send failed",
				zap.String("channel", a.channel), zap.Error(err))
			return fmt.Errorf("slack send: %w", err)
		}
		return nil
	}

	params := &slack.GetConversationsForUserParameters{
		Types: []string{"public_channel", "private_channel"},
		Limit: 200,
	}
	channels, _, err := a.client.GetConversationsForUser(params)
	if err != nil {
		return fmt.Errorf("slack list channels: %w", err)
	}
	for _, ch := range channels {
		if _, _, err := a.client.PostMessageContext(ctx, ch.ID, opts...); err != nil {
			a.logger.Warn("slack announce to channel failed",
				zap.String("channel", ch.ID), zap.Error(err))
		}
	}
	return nil
}

// Close is a no-op; the Slack web API client holds no connection.
func (a *SlackAdapter) Close() error {
	return nil
}
