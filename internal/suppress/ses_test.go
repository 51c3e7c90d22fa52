package suppress

import (
	"context"
	"errors"
	"testing"

	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// mockSuppressClient implements SuppressAPI for testing.
type mockSuppressClient struct {
	putFn     func(ctx context.Context, params *sesv2.PutSuppressedDestinationInput, optFns ...func(*sesv2.Options)) (*sesv2.PutSuppressedDestinationOutput, error)
	callCount int
	lastInput *sesv2.PutSuppressedDestinationInput
}

func (m *mockSuppressClient) PutSuppressedDestination(ctx context.Context, params *sesv2.PutSuppressedDestinationInput, optFns ...func(*sesv2.Options)) (*sesv2.PutSuppressedDestinationOutput, error) {
	m.callCount++
	m.lastInput = params
	if m.putFn != nil {
		return m.putFn(ctx, params, optFns...)
	}
	return &sesv2.PutSuppressedDestinationOutput{}, nil
}

func TestSuppress(t *testing.T) {
	t.Parallel()

	mock := &mockSuppressClient{}
	s := NewWithClient(mock)

	if err := s.Suppress(context.Background(), "bob@example.org"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mock.callCount != 1 {
		t.Errorf("call count: got %d, want 1", mock.callCount)
	}
	if got := *mock.lastInput.EmailAddress; got != "bob@example.org" {
		t.Errorf("EmailAddress: got %q, want %q", got, "bob@example.org")
	}
	if got := mock.lastInput.Reason; got != types.SuppressionListReasonComplaint {
		t.Errorf("Reason: got %q, want %q", got, types.SuppressionListReasonComplaint)
	}
}

func TestSuppressCancelledDuringRetry(t *testing.T) {
	t.Parallel()

	mock := &mockSuppressClient{
		putFn: func(_ context.Context, _ *sesv2.PutSuppressedDestinationInput, _ ...func(*sesv2.Options)) (*sesv2.PutSuppressedDestinationOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	s := NewWithClient(mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Suppress(ctx, "bob@example.org")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	// The first attempt runs; the retry wait observes the cancelled
	// context instead of sleeping.
	if mock.callCount != 1 {
		t.Errorf("call count: got %d, want 1", mock.callCount)
	}
}
