package communication

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const emailTimeout = 15 * time.Second

type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Email sends plain-text notifications through SES.
type Email struct {
	client  sesAPI
	from    string
	to      []string
	subject string
}

func NewEmail(ctx context.Context, from string, to []string, subject string) (*Email, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &Email{client: ses.NewFromConfig(cfg), from: from, to: to, subject: subject}, nil
}

func (e *Email) Info(message string) error {
	return e.send("[info] "+e.subject, message)
}

func (e *Email) Error(message string) error {
	return e.send("[error] "+e.subject, message)
}

func (e *Email) send(subject, message string) error {
	if len(e.to) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), emailTimeout)
	defer cancel()

	_, err := e.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(e.from),
		Destination: &types.Destination{ToAddresses: e.to},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(message), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
