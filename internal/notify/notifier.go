// internal/notify/notifier.go

// Package notify delivers listing status-change messages to sellers:
// email through SES, and SMS through SNS for the rejection path where
// sellers expect a prompt heads-up.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"

	commonaws "marketplace-admin/internal/common/aws"
	"marketplace-admin/internal/common/config"
	"marketplace-admin/internal/common/errors"
	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/models"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// Notifier delivers a status-change message for a listing.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, listing *models.Listing, to models.ListingStatus, reason string) error
}

// Noop is the Notifier used when notifications are disabled in config.
type Noop struct{}

func (Noop) NotifyStatusChange(context.Context, *models.Listing, models.ListingStatus, string) error {
	return nil
}

type messageTemplate struct {
	subject string
	body    string
}

var statusTemplates = map[models.ListingStatus]messageTemplate{
	models.StatusPublished: {
		subject: "Your listing is now live",
		body:    "Good news! Your listing \"{{listingName}}\" has been approved and is now visible to buyers.",
	},
	models.StatusRejected: {
		subject: "Your listing needs changes",
		body:    "Your listing \"{{listingName}}\" was not approved. Reason: {{reason}}. Please update it and resubmit.",
	},
}

// AWSNotifier sends through SES and SNS.
type AWSNotifier struct {
	cfg       config.NotificationConfig
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

// New builds an AWSNotifier from config, or a Noop when both channels
// are disabled.
func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (Notifier, error) {
	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return Noop{}, nil
	}

	sesClient, err := commonaws.NewSESClient(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, fmt.Errorf("init SES client: %w", err)
	}
	snsClient, err := commonaws.NewSNSClient(ctx, cfg.AWS.Region)
	if err != nil {
		return nil, fmt.Errorf("init SNS client: %w", err)
	}

	return &AWSNotifier{
		cfg:       cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "notifier"}),
		sesClient: sesClient,
		snsClient: snsClient,
	}, nil
}

// NewWithClients wires explicit SES/SNS clients, used by tests.
func NewWithClients(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *AWSNotifier {
	return &AWSNotifier{
		cfg:       cfg,
		logger:    log,
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

// NotifyStatusChange sends the message for the listing's new status. A
// listing without contact details is skipped, not an error: stale seller
// records must not block the admin's transition.
func (n *AWSNotifier) NotifyStatusChange(ctx context.Context, listing *models.Listing, to models.ListingStatus, reason string) error {
	template, exists := statusTemplates[to]
	if !exists {
		return nil
	}

	data := map[string]interface{}{
		"listingName": listing.Name,
		"listingId":   listing.ID,
		"reason":      reason,
	}
	subject := renderTemplate(template.subject, data)
	body := renderTemplate(template.body, data)
	notificationID := uuid.New().String()

	emailSent := false
	smsSent := false

	if n.cfg.Email.Enabled && listing.ContactEmail != "" {
		if err := n.sendEmail(ctx, listing.ContactEmail, subject, body); err != nil {
			n.logger.WithError(err).Error("email send failed", map[string]interface{}{
				"notificationId": notificationID,
				"listingId":      listing.ID,
			})
			return errors.NewNotificationError(err)
		}
		emailSent = true
	}

	// SMS only for rejections; sellers expect those promptly.
	if n.cfg.SMS.Enabled && listing.ContactPhone != "" && to == models.StatusRejected {
		if err := n.sendSMS(ctx, listing.ContactPhone, body); err != nil {
			n.logger.WithError(err).Error("SMS send failed", map[string]interface{}{
				"notificationId": notificationID,
				"listingId":      listing.ID,
			})
			return errors.NewNotificationError(err)
		}
		smsSent = true
	}

	n.logger.Info("status notification processed", map[string]interface{}{
		"notificationId": notificationID,
		"listingId":      listing.ID,
		"status":         string(to),
		"emailSent":      emailSent,
		"smsSent":        smsSent,
	})

	return nil
}

func (n *AWSNotifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
				Html: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.cfg.Email.FromEmail),
	})
	return err
}

func (n *AWSNotifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}

func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}
	return result
}
