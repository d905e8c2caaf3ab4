package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	pkglogger "github.com/rdua-dev/sadhana-tracker/pkg/logger"
)

// EmailService defines the interface for sending emails
type EmailService interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	frontendURL string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress, frontendURL string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		frontendURL: frontendURL,
		logger:      logger,
	}, nil
}

// SendVerificationEmail sends the account verification link
func (s *AWSSESEmailService) SendVerificationEmail(ctx context.Context, email, token string) error {
	link := fmt.Sprintf("%s/verify-user?token=%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; background-color: #b45309; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 20px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Hare Krishna! Verify your email</h1>
        <p>Welcome to the Sadhana Tracker. To activate your account, please verify your email address:</p>
        <p><a href="%s" class="button">Verify Email Address</a></p>
        <p>Or copy and paste this link in your browser:<br><code>%s</code></p>
        <p>This link will expire in 1 hour.</p>
        <p>If you didn't create this account, you can ignore this email.</p>
        <div class="footer">
            <p>This is an automated message. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, link, link)

	textBody := fmt.Sprintf(`Hare Krishna! Verify your email

Welcome to the Sadhana Tracker. To activate your account, open the link below:

%s

This link will expire in 1 hour.

If you didn't create this account, you can ignore this email.
`, link)

	return s.send(ctx, email, "Verify your email address", htmlBody, textBody)
}

// SendPasswordResetEmail sends the password reset link
func (s *AWSSESEmailService) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; background-color: #b45309; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; margin: 20px 0; }
        .footer { color: #666; font-size: 12px; margin-top: 20px; padding-top: 20px; border-top: 1px solid #eee; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Reset your password</h1>
        <p>We received a request to reset the password for your Sadhana Tracker account.</p>
        <p><a href="%s" class="button">Reset Password</a></p>
        <p>Or copy and paste this link in your browser:<br><code>%s</code></p>
        <p>This link will expire in 10 minutes.</p>
        <p>If you didn't request a reset, you can ignore this email and your password will stay unchanged.</p>
        <div class="footer">
            <p>This is an automated message. Please do not reply.</p>
        </div>
    </div>
</body>
</html>
`, link, link)

	textBody := fmt.Sprintf(`Reset your password

We received a request to reset the password for your Sadhana Tracker account. Open the link below:

%s

This link will expire in 10 minutes.

If you didn't request a reset, you can ignore this email and your password will stay unchanged.
`, link)

	return s.send(ctx, email, "Reset your password", htmlBody, textBody)
}

func (s *AWSSESEmailService) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send email via SES",
			slog.String("email", pkglogger.SanitizedEmail(to)),
			slog.String("subject", subject),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		slog.String("email", pkglogger.SanitizedEmail(to)),
		slog.String("subject", subject),
		slog.String("message_id", *result.MessageId))

	return nil
}
