package fbl

import (
	"strings"

	"github.com/ksami007/bouncehandler/internal/bounce"
	"github.com/ksami007/bouncehandler/internal/parser"
)

// forwardPrefix is stripped from report subjects case-insensitively.
const forwardPrefix = "Fw:"

// Process runs the full classification pipeline over one raw message:
// normalize, split headers from body, parse, classify, resolve the
// recipient. It returns nil for anything that is not a feedback-loop
// report: empty content, a message without a blank-line header/body
// separator, or headers that fail classification. It never fails hard on
// malformed MIME structure; missing sections degrade to empty values.
//
// The token is an opaque caller-supplied identifier passed through to the
// result. Process has no shared state and is safe to call concurrently
// across independent messages.
func Process(token, rawContent string) *bounce.Mail {
	content := parser.Normalize(rawContent)
	if content == "" {
		return nil
	}

	headerBlock, body, found := strings.Cut(content, "\r\n\r\n")
	if !found {
		return nil
	}

	headers := parser.Parse(headerBlock)
	sections := parser.SplitSections(headers, body)

	if !IsFBL(headers) {
		return nil
	}

	machine := parser.Parse(sections.Machine)
	returned := parser.Parse(sections.Returned)
	resolution := ResolveRecipient(machine, returned)

	return &bounce.Mail{
		Token:      token,
		Subject:    strings.TrimSpace(stripForwardPrefix(headers.Get("Subject"))),
		Header:     headerBlock,
		Body:       body,
		Recipients: []bounce.Recipient{resolution.Recipient},
	}
}

// stripForwardPrefix removes a leading "Fw:" regardless of case.
func stripForwardPrefix(subject string) string {
	if len(subject) >= len(forwardPrefix) && strings.EqualFold(subject[:len(forwardPrefix)], forwardPrefix) {
		return subject[len(forwardPrefix):]
	}
	return subject
}
