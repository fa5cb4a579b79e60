package events

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	awsclient "school-activities/internal/common/aws"
)

// MailPublisher emails the student a confirmation through SES.
type MailPublisher struct {
	client awsclient.SESAPI
	from   string
}

func NewMailPublisher(client awsclient.SESAPI, from string) *MailPublisher {
	return &MailPublisher{client: client, from: from}
}

func (p *MailPublisher) Name() string { return "mail" }

func (p *MailPublisher) Publish(ctx context.Context, e RosterEvent) error {
	subject, body := composeMail(e)

	_, err := p.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(p.from),
		Destination: &types.Destination{
			ToAddresses: []string{e.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send confirmation to %s: %w", e.Email, err)
	}
	return nil
}

func (p *MailPublisher) Close() error { return nil }

func composeMail(e RosterEvent) (string, string) {
	switch e.Type {
	case EventUnregistered:
		return fmt.Sprintf("Unregistered from %s", e.Activity),
			fmt.Sprintf("Hello,\n\nYou have been unregistered from %s.\n\nMergington High School Activities\n", e.Activity)
	default:
		schedule := ""
		if e.Schedule != "" {
			schedule = fmt.Sprintf(" It meets %s.", e.Schedule)
		}
		return fmt.Sprintf("Signed up for %s", e.Activity),
			fmt.Sprintf("Hello,\n\nYou are signed up for %s.%s\n\nMergington High School Activities\n", e.Activity, schedule)
	}
}
