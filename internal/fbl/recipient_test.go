package fbl

import (
	"strings"
	"testing"

	"github.com/ksami007/bouncehandler/internal/parser"
)

func fields(t *testing.T, lines ...string) *parser.Headers {
	t.Helper()
	return parser.Parse(strings.Join(lines, "\r\n"))
}

func TestResolveRecipientFromMachineRcptTo(t *testing.T) {
	t.Parallel()

	machine := fields(t,
		"Original-Mail-From: <sender@example.net>",
		"Original-Rcpt-To: <bob@example.org>",
	)

	res := ResolveRecipient(machine, fields(t))
	if got := res.Recipient.Email; got != "bob@example.org" {
		t.Errorf("Email: got %q, want %q", got, "bob@example.org")
	}
	if got := res.MailFrom; got != "sender@example.net" {
		t.Errorf("MailFrom: got %q, want %q", got, "sender@example.net")
	}
}

func TestResolveRecipientFallsBackToRemovalRecipient(t *testing.T) {
	t.Parallel()

	machine := fields(t, "Removal-Recipient: bob@example.org")

	res := ResolveRecipient(machine, fields(t))
	if got := res.Recipient.Email; got != "bob@example.org" {
		t.Errorf("Email: got %q, want %q", got, "bob@example.org")
	}
}

func TestResolveRecipientFallsBackToReturnedHeaders(t *testing.T) {
	t.Parallel()

	returned := fields(t,
		"From: sender@example.net",
		"To: bob@example.org",
	)

	res := ResolveRecipient(fields(t), returned)
	if got := res.Recipient.Email; got != "bob@example.org" {
		t.Errorf("Email: got %q, want %q", got, "bob@example.org")
	}
	if got := res.MailFrom; got != "sender@example.net" {
		t.Errorf("MailFrom: got %q, want %q", got, "sender@example.net")
	}
}

func TestResolveRecipientMachineWinsOverReturned(t *testing.T) {
	t.Parallel()

	machine := fields(t, "Original-Rcpt-To: real@example.org")
	returned := fields(t, "To: guessed@example.org")

	res := ResolveRecipient(machine, returned)
	if got := res.Recipient.Email; got != "real@example.org" {
		t.Errorf("Email: got %q, want %q", got, "real@example.org")
	}
}

func TestResolveRecipientPrivacyOverride(t *testing.T) {
	t.Parallel()

	machine := fields(t,
		"Original-Mail-From: undisclosed-recipients",
		"Original-Rcpt-To: guessed@example.org",
		"Removal-Recipient: real@example.org",
	)

	res := ResolveRecipient(machine, fields(t))
	if got := res.Recipient.Email; got != "real@example.org" {
		t.Errorf("Email: got %q, want %q", got, "real@example.org")
	}
}

func TestResolveRecipientPrivacyOverrideNeedsRemovalRecipient(t *testing.T) {
	t.Parallel()

	machine := fields(t,
		"Original-Mail-From: [redacted]",
		"Original-Rcpt-To: guessed@example.org",
	)

	res := ResolveRecipient(machine, fields(t))
	if got := res.Recipient.Email; got != "guessed@example.org" {
		t.Errorf("Email: got %q, want %q", got, "guessed@example.org")
	}
}

func TestResolveRecipientReceivedDate(t *testing.T) {
	t.Parallel()

	machine := fields(t, "Received-Date: Mon, 2 Mar 2015 10:00:00 +0000")
	res := ResolveRecipient(machine, fields(t))
	if got := res.ReceivedDate; got != "Mon, 2 Mar 2015 10:00:00 +0000" {
		t.Errorf("ReceivedDate: got %q", got)
	}

	machine = fields(t, "Arrival-Date: Tue, 3 Mar 2015 11:00:00 +0000")
	res = ResolveRecipient(machine, fields(t))
	if got := res.ReceivedDate; got != "Tue, 3 Mar 2015 11:00:00 +0000" {
		t.Errorf("ReceivedDate fallback: got %q", got)
	}
}

func TestResolveRecipientNothingResolvable(t *testing.T) {
	t.Parallel()

	res := ResolveRecipient(fields(t), fields(t))
	if res.Recipient.Email != "" {
		t.Errorf("Email: got %q, want empty", res.Recipient.Email)
	}
}
