// Package suppress blocks future delivery to reported recipients via the
// AWS SES v2 account-level suppression list.
package suppress

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// maxRetries is the maximum number of retry attempts for transient failures.
const maxRetries = 3

// baseRetryDelay is the initial delay for exponential backoff.
const baseRetryDelay = 1 * time.Second

// Config holds the configuration for creating a SESSuppressor.
type Config struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SuppressAPI is the interface for the SES v2 PutSuppressedDestination
// operation. Used for testing with mock implementations.
type SuppressAPI interface {
	PutSuppressedDestination(ctx context.Context, params *sesv2.PutSuppressedDestinationInput, optFns ...func(*sesv2.Options)) (*sesv2.PutSuppressedDestinationOutput, error)
}

// SESSuppressor puts recipient addresses on the SES v2 account suppression
// list with reason COMPLAINT, so the account never mails a reporter again.
type SESSuppressor struct {
	client SuppressAPI
}

// New creates a new SESSuppressor with the given configuration.
func New(ctx context.Context, cfg Config) (*SESSuppressor, error) {
	var opts []func(*awsconfig.LoadOptions) error

	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESSuppressor{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// NewWithClient creates a SESSuppressor with a custom client, used for
// testing.
func NewWithClient(client SuppressAPI) *SESSuppressor {
	return &SESSuppressor{client: client}
}

// Suppress adds the address to the account suppression list, retrying
// transient failures with exponential backoff.
func (s *SESSuppressor) Suppress(ctx context.Context, address string) error {
	input := &sesv2.PutSuppressedDestinationInput{
		EmailAddress: aws.String(address),
		Reason:       types.SuppressionListReasonComplaint,
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			slog.Debug("retrying SES API request",
				"attempt", attempt,
				"max_retries", maxRetries,
			)
			if err := sleepWithContext(ctx, backoffDelay(attempt)); err != nil {
				return fmt.Errorf("context cancelled during retry wait: %w", err)
			}
		}

		_, err := s.client.PutSuppressedDestination(ctx, input)
		if err == nil {
			return nil
		}

		lastErr = err
		slog.Warn("SES API error",
			"attempt", attempt,
			"error", err,
		)
	}

	return fmt.Errorf("SES API request failed after %d retries: %w", maxRetries, lastErr)
}

// backoffDelay returns the exponential backoff delay for the given attempt number.
func backoffDelay(attempt int) time.Duration {
	delay := baseRetryDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// sleepWithContext waits for the specified duration or until the context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
