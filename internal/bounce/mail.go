// Package bounce defines the core data model for classified feedback-loop
// abuse reports.
package bounce

// Mail represents one message classified as a feedback-loop report.
type Mail struct {
	// Token is the opaque identifier supplied by the message source
	// (sequence number or file name). Never interpreted here.
	Token string

	// Subject is the message subject with any "Fw:" prefix removed.
	Subject string

	// Header is the raw header block, Body the raw body, both after
	// line-ending normalization.
	Header string
	Body   string

	// Recipients holds the resolved original recipients. The classifier
	// emits exactly one per message; its Email may be empty when no
	// address could be resolved.
	Recipients []Recipient
}

// Recipient is the original intended recipient extracted from a report.
type Recipient struct {
	Email string
}
