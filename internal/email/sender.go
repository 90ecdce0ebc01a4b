package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/nugget/recap/internal/config"
)

// smtpDialTimeout is the maximum time to establish an SMTP connection.
const smtpDialTimeout = 30 * time.Second

// Sender delivers composed messages over SMTP. Connections are
// ephemeral, one per Send call.
type Sender struct {
	cfg    config.SMTPConfig
	logger *slog.Logger
}

// NewSender creates a Sender from SMTP configuration.
func NewSender(cfg config.SMTPConfig, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{cfg: cfg, logger: logger}
}

// Send composes a message from opts and delivers it. When opts.From is
// empty the configured from address is used. The context controls the
// overall deadline for the send.
func (s *Sender) Send(ctx context.Context, opts ComposeOptions) error {
	if s.cfg.Host == "" {
		return fmt.Errorf("SMTP host not configured")
	}
	if opts.From == "" {
		opts.From = s.cfg.From
	}
	if opts.From == "" {
		return fmt.Errorf("no sender address: set smtp.from or ComposeOptions.From")
	}

	msg, err := ComposeMessage(opts)
	if err != nil {
		return fmt.Errorf("compose message: %w", err)
	}

	recipients := collectRecipients(opts.To, opts.Cc)
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	s.logger.Info("sending follow-up email",
		"host", s.cfg.Host,
		"recipients", len(recipients),
		"subject", opts.Subject,
	)

	return sendSMTP(ctx, s.cfg, extractAddress(opts.From), recipients, msg)
}

// sendSMTP connects to the SMTP server, authenticates, and delivers
// the given message. msg must be a complete RFC 5322 message as
// returned by ComposeMessage.
func sendSMTP(ctx context.Context, cfg config.SMTPConfig, from string, recipients []string, msg []byte) error {
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	// Use the context deadline for the dial timeout when it is tighter
	// than the package default.
	dialTimeout := smtpDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < dialTimeout {
			dialTimeout = remaining
		}
	}

	dialer := &net.Dialer{Timeout: dialTimeout}

	var client *smtp.Client
	var err error

	if !cfg.StartTLS {
		// Implicit TLS (port 465): connect over TLS from the start.
		tlsCfg := &tls.Config{ServerName: cfg.Host}
		conn, dialErr := tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
		if dialErr != nil {
			return fmt.Errorf("dial SMTPS %s: %w", addr, dialErr)
		}
		client, err = smtp.NewClient(conn, cfg.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("create SMTP client on %s: %w", addr, err)
		}
	} else {
		// STARTTLS (port 587): connect plain, then upgrade.
		conn, dialErr := dialer.DialContext(ctx, "tcp", addr)
		if dialErr != nil {
			return fmt.Errorf("dial SMTP %s: %w", addr, dialErr)
		}
		client, err = smtp.NewClient(conn, cfg.Host)
		if err != nil {
			conn.Close()
			return fmt.Errorf("create SMTP client on %s: %w", addr, err)
		}
	}
	defer client.Close()

	if err := client.Hello("localhost"); err != nil {
		return fmt.Errorf("EHLO: %w", err)
	}

	if cfg.StartTLS {
		tlsCfg := &tls.Config{ServerName: cfg.Host}
		if err := client.StartTLS(tlsCfg); err != nil {
			return fmt.Errorf("STARTTLS: %w", err)
		}
	}

	if cfg.Username != "" && cfg.Password != "" {
		auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("AUTH: %w", err)
		}
	}

	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM: %w", err)
	}

	for _, rcpt := range recipients {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("RCPT TO %s: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close DATA: %w", err)
	}

	return client.Quit()
}

// extractAddress extracts the bare email address from a string that
// may be in "Name <addr>" or just "addr" format.
func extractAddress(s string) string {
	if end := len(s) - 1; end > 0 && s[end] == '>' {
		if start := strings.LastIndexByte(s, '<'); start >= 0 {
			return s[start+1 : end]
		}
	}
	return s
}

// collectRecipients gathers all unique bare email addresses from the
// To and Cc fields for SMTP RCPT TO commands.
func collectRecipients(lists ...[]string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, list := range lists {
		for _, addr := range list {
			bare := extractAddress(addr)
			if bare != "" && !seen[bare] {
				seen[bare] = true
				result = append(result, bare)
			}
		}
	}

	return result
}
