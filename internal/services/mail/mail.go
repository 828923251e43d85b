// Package mail implements the mailto path of the checking engine: always
// syntactic RFC 5322 address validation, plus an optional SMTP
// reachability probe behind the email-check capability.
//
// Address parsing uses github.com/emersion/go-message/mail, the same
// library family internal/services/imap uses for message parsing,
// generalized here from reading mailbox messages to validating a single
// address. SMTP reachability uses stdlib net/smtp — justified in
// DESIGN.md as no SMTP-client library appears anywhere in the pack.
package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"

	"github.com/ternarybob/linkcheck/internal/models"
)

// Checker validates mailto: targets.
type Checker struct {
	// ProbeSMTP enables the reachability probe (MX lookup + SMTP HELO/MAIL
	// FROM/RCPT TO dialogue, no message sent) in addition to syntactic
	// validation.
	ProbeSMTP bool
	Timeout   time.Duration
	// HeloDomain is the domain this checker presents itself as in SMTP
	// HELO/EHLO; required by well-behaved SMTP servers.
	HeloDomain string
}

// Check validates the mailto: u. u's opaque part before any "?" is parsed
// as an address list; the query, including any "to" parameter, is ignored.
// The first address is used for the reachability probe.
func (c *Checker) Check(ctx context.Context, u models.Uri) models.Status {
	addrs, err := parseAddresses(u)
	if err != nil {
		return models.ErrorStatus(models.Mail(err.Error()))
	}
	if len(addrs) == 0 {
		return models.ErrorStatus(models.Mail("no recipient address"))
	}

	if !c.ProbeSMTP {
		return models.Ok(0)
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.probe(ctx, addrs[0].Address); err != nil {
		return models.ErrorStatus(models.Mail(err.Error()))
	}
	return models.Ok(0)
}

func parseAddresses(u models.Uri) ([]*mail.Address, error) {
	raw := u.URL()
	if raw == nil {
		return nil, fmt.Errorf("empty mailto uri")
	}
	opaque := raw.Opaque
	if opaque == "" {
		opaque = strings.TrimPrefix(raw.Path, "/")
	}
	// Strip any query (subject=, body=, cc=) — only the recipient list
	// before "?" is an address list.
	if i := strings.IndexByte(opaque, '?'); i != -1 {
		opaque = opaque[:i]
	}
	if opaque == "" {
		return nil, nil
	}

	return mail.ParseAddressList(opaque)
}

// probe performs an MX-lookup-then-connect reachability check without
// sending a message: EHLO, MAIL FROM <>, RCPT TO <address>, then QUIT.
func (c *Checker) probe(ctx context.Context, address string) error {
	domain := domainOf(address)
	if domain == "" {
		return fmt.Errorf("address %q has no domain", address)
	}

	mxs, err := net.DefaultResolver.LookupMX(ctx, domain)
	if err != nil || len(mxs) == 0 {
		mxs = []*net.MX{{Host: domain}}
	}

	var dialer net.Dialer
	var lastErr error
	for _, mx := range mxs {
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(strings.TrimSuffix(mx.Host, "."), "25"))
		if err != nil {
			lastErr = err
			continue
		}

		client, err := smtp.NewClient(conn, mx.Host)
		if err != nil {
			conn.Close()
			lastErr = err
			continue
		}

		err = runDialogue(client, c.HeloDomain, address)
		client.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return lastErr
}

func runDialogue(client *smtp.Client, heloDomain, address string) error {
	helo := heloDomain
	if helo == "" {
		helo = "localhost"
	}
	if err := client.Hello(helo); err != nil {
		return err
	}
	if ok, _ := client.Extension("STARTTLS"); ok {
		_ = client.StartTLS(&tls.Config{ServerName: client.HelloName()})
	}
	if err := client.Mail(""); err != nil {
		return err
	}
	if err := client.Rcpt(address); err != nil {
		return err
	}
	return client.Quit()
}

func domainOf(address string) string {
	i := strings.LastIndexByte(address, '@')
	if i == -1 {
		return ""
	}
	return address[i+1:]
}
