// Package mailout renders sent messages to RFC 822 and submits them to an
// SMTP relay. The relay is optional; without one, sending a message only
// changes its stored status.
package mailout

import (
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"github.com/10srav/tasksaver/model"
)

type Relay struct {
	addr     string
	username string
	password string
}

// NewRelay returns nil when no relay address is configured.
func NewRelay(addr, username, password string) *Relay {
	if addr == "" {
		return nil
	}
	return &Relay{addr: addr, username: username, password: password}
}

// Send renders the message and submits it in one SMTP transaction.
// One attempt, no retries; the caller decides what a failure means.
func (r *Relay) Send(msg *model.Message) error {
	recipients := Recipients(msg)
	if len(recipients) == 0 {
		return fmt.Errorf("message %s has no recipients", msg.ID)
	}

	var auth sasl.Client
	if r.username != "" {
		auth = sasl.NewPlainClient("", r.username, r.password)
	}

	rendered := Render(msg)
	from := EnvelopeAddress(msg.From)
	if err := smtp.SendMail(r.addr, auth, from, recipients, strings.NewReader(rendered)); err != nil {
		return fmt.Errorf("relay message %s: %w", msg.ID, err)
	}
	return nil
}

// Recipients collects the envelope recipients: To, Cc and Bcc.
func Recipients(msg *model.Message) []string {
	var out []string
	for _, list := range [][]string{msg.To, msg.Cc, msg.Bcc} {
		for _, a := range list {
			if addr := EnvelopeAddress(a); addr != "" {
				out = append(out, addr)
			}
		}
	}
	return out
}

// Render produces an RFC 822 representation of the message. Bcc is left out
// of the headers; it travels only in the envelope.
func Render(msg *model.Message) string {
	var b strings.Builder
	writeHeader(&b, "From", msg.From)
	writeHeader(&b, "To", strings.Join(msg.To, ", "))
	if len(msg.Cc) > 0 {
		writeHeader(&b, "Cc", strings.Join(msg.Cc, ", "))
	}
	writeHeader(&b, "Subject", msg.Subject)
	sentAt := time.Now()
	if msg.SentAt != nil {
		sentAt = *msg.SentAt
	}
	writeHeader(&b, "Date", sentAt.Format(time.RFC1123Z))
	writeHeader(&b, "Message-ID", fmt.Sprintf("<%s@tasksaver>", msg.ID))
	if msg.IsHTML {
		writeHeader(&b, "Content-Type", "text/html; charset=utf-8")
	} else {
		writeHeader(&b, "Content-Type", "text/plain; charset=utf-8")
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}

func writeHeader(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\r\n", name, value)
}
