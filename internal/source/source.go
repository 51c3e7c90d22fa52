// Package source defines the interface for message sources that feed raw
// messages into the classification pipeline.
package source

import "context"

// Message is one raw message yielded by a source. Token identifies the
// message within its source (sequence number or file name) and is passed
// through the pipeline untouched.
type Message struct {
	Token string
	Raw   string
}

// Source is the interface message backends must implement. A source
// enumerates raw messages and carries out disposition actions on them
// after classification (e.g., an IMAP mailbox, a folder of eml files, a
// local mbox file).
type Source interface {
	// Fetch returns up to max messages in enumeration order, along with
	// the total number of messages the source holds. max <= 0 means no
	// limit.
	Fetch(ctx context.Context, max int) ([]Message, int, error)

	// Move relocates the identified message into the source's
	// feedback-loop folder. Sources that cannot move return an error.
	Move(ctx context.Context, token string) error

	// Delete removes the identified message.
	Delete(ctx context.Context, token string) error

	// Close releases the source's resources and commits any pending
	// disposition actions.
	Close() error

	// Name returns the human-readable name of this source.
	Name() string
}
