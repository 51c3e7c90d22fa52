// Package imap implements a Source over a remote IMAP mailbox using
// emersion/go-imap.
package imap

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"strings"

	goimap "github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"github.com/ksami007/bouncehandler/internal/source"
)

// Security modes for the IMAP connection.
const (
	SecurityNone  = "none"
	SecurityNoTLS = "notls"
	SecurityTLS   = "tls"
	SecuritySSL   = "ssl"
)

// Search criteria names.
const (
	SearchAll    = "ALL"
	SearchUnseen = "UNSEEN"
)

// moveSuffix is appended to the mailbox name to form the folder classified
// messages are moved to.
const moveSuffix = "fbl"

// Config holds the connection parameters for an IMAP source.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string

	// Security is one of none, notls, tls (STARTTLS) or ssl (implicit
	// TLS).
	Security string

	// ValidateCert controls server certificate validation for tls/ssl.
	ValidateCert bool

	// Mailbox is the mailbox to open, e.g. "INBOX".
	Mailbox string

	// Search is ALL or UNSEEN.
	Search string
}

// Source enumerates messages in a remote IMAP mailbox. Tokens are message
// sequence numbers.
type Source struct {
	cfg    Config
	client *client.Client
	status *goimap.MailboxStatus

	// moveEnabled is false for Gmail hosts, which do not support
	// mailbox creation.
	moveEnabled bool

	// expungeNeeded is set once any message has been flagged \Deleted.
	expungeNeeded bool
}

// Dial connects to the IMAP server, authenticates and selects the
// configured mailbox.
func Dial(cfg Config) (*Source, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	tlsConfig := &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: !cfg.ValidateCert,
	}

	var c *client.Client
	var err error
	switch cfg.Security {
	case SecuritySSL:
		c, err = client.DialTLS(addr, tlsConfig)
	default:
		c, err = client.Dial(addr)
		if err == nil && cfg.Security == SecurityTLS {
			err = c.StartTLS(tlsConfig)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if err := c.Login(cfg.Username, cfg.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to login to %s: %w", addr, err)
	}

	status, err := c.Select(cfg.Mailbox, false)
	if err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("failed to select mailbox %s: %w", cfg.Mailbox, err)
	}

	return &Source{
		cfg:         cfg,
		client:      c,
		status:      status,
		moveEnabled: !strings.Contains(strings.ToLower(cfg.Host), "gmail"),
	}, nil
}

// Fetch retrieves up to max full raw messages matching the configured
// search criteria, in sequence-number order.
func (s *Source) Fetch(ctx context.Context, max int) ([]source.Message, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	seqNums, err := s.matchingSeqNums()
	if err != nil {
		return nil, 0, err
	}

	total := len(seqNums)
	if total == 0 {
		return nil, 0, nil
	}
	if max > 0 && len(seqNums) > max {
		seqNums = seqNums[:max]
	}

	seqSet := new(goimap.SeqSet)
	seqSet.AddNum(seqNums...)

	section := &goimap.BodySectionName{}
	items := []goimap.FetchItem{section.FetchItem()}

	messages := make(chan *goimap.Message, len(seqNums))
	done := make(chan error, 1)
	go func() {
		done <- s.client.Fetch(seqSet, items, messages)
	}()

	// Fetch responses may arrive in any order; index by sequence number
	// and emit in request order.
	bySeqNum := make(map[uint32]string, len(seqNums))
	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			slog.Warn("message has no body section", "seq_num", msg.SeqNum)
			continue
		}
		raw, err := io.ReadAll(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read message %d: %w", msg.SeqNum, err)
		}
		bySeqNum[msg.SeqNum] = string(raw)
	}
	if err := <-done; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch messages: %w", err)
	}

	result := make([]source.Message, 0, len(seqNums))
	for _, seqNum := range seqNums {
		raw, ok := bySeqNum[seqNum]
		if !ok {
			continue
		}
		result = append(result, source.Message{
			Token: strconv.FormatUint(uint64(seqNum), 10),
			Raw:   raw,
		})
	}

	return result, total, nil
}

// matchingSeqNums returns the sequence numbers selected by the search
// criteria. ALL avoids a SEARCH round trip by using the mailbox message
// count from SELECT.
func (s *Source) matchingSeqNums() ([]uint32, error) {
	if s.cfg.Search == "" || s.cfg.Search == SearchAll {
		seqNums := make([]uint32, 0, s.status.Messages)
		for n := uint32(1); n <= s.status.Messages; n++ {
			seqNums = append(seqNums, n)
		}
		return seqNums, nil
	}

	criteria := goimap.NewSearchCriteria()
	switch s.cfg.Search {
	case SearchUnseen:
		criteria.WithoutFlags = []string{goimap.SeenFlag}
	default:
		return nil, fmt.Errorf("unknown search criteria %q", s.cfg.Search)
	}

	seqNums, err := s.client.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to search mailbox: %w", err)
	}
	return seqNums, nil
}

// Move copies the message into the <mailbox>.fbl folder (created on first
// use) and flags the original \Deleted. Gmail does not support mailbox
// creation, so moves are rejected there.
func (s *Source) Move(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.moveEnabled {
		return fmt.Errorf("move not supported on %s", s.cfg.Host)
	}

	seqSet, err := tokenSeqSet(token)
	if err != nil {
		return err
	}

	dest := s.cfg.Mailbox + "." + moveSuffix
	if err := s.client.Create(dest); err != nil {
		// Already-exists responses are expected after the first move.
		slog.Debug("create mailbox", "mailbox", dest, "response", err)
	}

	if err := s.client.Copy(seqSet, dest); err != nil {
		return fmt.Errorf("failed to copy message %s to %s: %w", token, dest, err)
	}
	return s.flagDeleted(seqSet, token)
}

// Delete flags the message \Deleted. The expunge happens at Close.
func (s *Source) Delete(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	seqSet, err := tokenSeqSet(token)
	if err != nil {
		return err
	}
	return s.flagDeleted(seqSet, token)
}

func (s *Source) flagDeleted(seqSet *goimap.SeqSet, token string) error {
	item := goimap.FormatFlagsOp(goimap.AddFlags, true)
	flags := []interface{}{goimap.DeletedFlag}
	if err := s.client.Store(seqSet, item, flags, nil); err != nil {
		return fmt.Errorf("failed to flag message %s deleted: %w", token, err)
	}
	s.expungeNeeded = true
	return nil
}

// Close expunges flagged messages if any disposition ran, then logs out.
func (s *Source) Close() error {
	if s.expungeNeeded {
		if err := s.client.Expunge(nil); err != nil {
			_ = s.client.Logout()
			return fmt.Errorf("failed to expunge mailbox: %w", err)
		}
	}
	return s.client.Logout()
}

// Name returns the source name.
func (s *Source) Name() string {
	return "imap"
}

// tokenSeqSet converts a sequence-number token back into a SeqSet.
func tokenSeqSet(token string) (*goimap.SeqSet, error) {
	seqNum, err := strconv.ParseUint(token, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid message token %q: %w", token, err)
	}
	seqSet := new(goimap.SeqSet)
	seqSet.AddNum(uint32(seqNum))
	return seqSet, nil
}
