package fbl

import (
	"strings"

	"github.com/ksami007/bouncehandler/internal/bounce"
	"github.com/ksami007/bouncehandler/internal/parser"
)

// Resolution is the outcome of recipient extraction from a report's
// machine-readable and returned-headers sections.
type Resolution struct {
	// Recipient carries the resolved original recipient. Email is ""
	// when no source field yielded an address; a Recipient is still
	// emitted for compatibility with existing consumers.
	Recipient bounce.Recipient

	// MailFrom is the original sender, reduced to a bare address.
	MailFrom string

	// ReceivedDate is the report's Received-date, falling back to
	// Arrival-date. Not used for recipient resolution.
	ReceivedDate string
}

// ResolveRecipient resolves the original intended recipient of a
// feedback-loop report. Each step falls back only when the preceding
// source is absent or empty:
//
//	sender:    machine Original-mail-from, else returned From
//	recipient: machine Original-rcpt-to, else machine Removal-recipient,
//	           else returned To
//
// When the sender is anonymized ("undisclosed" or "redacted") and the
// report carries an explicit Removal-recipient, that removal target
// overrides the guessed recipient. Both addresses are reduced to bare
// form with parser.ExtractEmail.
func ResolveRecipient(machine, returned *parser.Headers) Resolution {
	mailFrom := machine.Get("Original-mail-from")
	if mailFrom == "" {
		mailFrom = returned.Get("From")
	}

	rcptTo := machine.Get("Original-rcpt-to")
	if rcptTo == "" {
		rcptTo = machine.Get("Removal-recipient")
	}
	if rcptTo == "" {
		rcptTo = returned.Get("To")
	}

	if isAnonymized(mailFrom) && machine.Get("Removal-recipient") != "" {
		rcptTo = machine.Get("Removal-recipient")
	}

	receivedDate := machine.Get("Received-date")
	if receivedDate == "" {
		receivedDate = machine.Get("Arrival-date")
	}

	if mailFrom != "" {
		mailFrom = parser.ExtractEmail(mailFrom)
	}
	if rcptTo != "" {
		rcptTo = parser.ExtractEmail(rcptTo)
	}

	return Resolution{
		Recipient:    bounce.Recipient{Email: rcptTo},
		MailFrom:     mailFrom,
		ReceivedDate: receivedDate,
	}
}

// isAnonymized reports whether a sender value hides the real address the
// way some providers do in their reports.
func isAnonymized(mailFrom string) bool {
	lower := strings.ToLower(mailFrom)
	return strings.Contains(lower, "undisclosed") || strings.Contains(lower, "redacted")
}
