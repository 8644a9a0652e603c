package communication

import (
	"errors"
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier delivers operational messages to people.
type Notifier interface {
	Info(message string) error
	Error(message string) error
}

// Multi fans a message out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) Info(message string) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.Info(message))
	}
	return errors.Join(errs...)
}

func (m Multi) Error(message string) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.Error(message))
	}
	return errors.Join(errs...)
}

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

func NewSlack(token string, options SlackOption, opts ...slack.Option) *Slack {
	client := slack.New(token, opts...)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(message string) error {
	return s.postMessage(s.options.InfoChannelID, message)
}

func (s *Slack) Error(message string) error {
	return s.postMessage(s.options.ErrorChannelID, message)
}
