package mailout

import (
	"errors"
	"strings"
)

var ErrInvalidAddress = errors.New("invalid email address format")

// ParseAddressList splits a comma-separated address header into individual
// addresses, honoring quoted strings, escapes and parenthesized comments.
func ParseAddressList(s string) ([]string, error) {
	var addresses []string
	var quoted bool
	var escape bool
	var comment bool
	var depth int
	var buf strings.Builder

	for _, r := range s {
		switch {
		case escape:
			buf.WriteRune(r)
			escape = false
		case r == '\\':
			escape = true
		case r == '"':
			if !comment {
				quoted = !quoted
			}
			buf.WriteRune(r)
		case r == '(' && !quoted:
			comment = true
			depth = 1
		case r == ')' && comment:
			depth--
			if depth == 0 {
				comment = false
			}
		case comment:
			continue
		case r == ',' && !quoted:
			part := strings.TrimSpace(buf.String())
			if part != "" {
				addresses = append(addresses, part)
			}
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}

	if trimmed := strings.TrimSpace(buf.String()); trimmed != "" {
		addresses = append(addresses, trimmed)
	}

	if len(addresses) == 0 {
		return nil, ErrInvalidAddress
	}

	return addresses, nil
}

// ExpandAddressList flattens recipient entries that themselves contain
// comma-separated address lists, as pasted header values often do. Blank
// entries are dropped.
func ExpandAddressList(list []string) ([]string, error) {
	var out []string
	for _, entry := range list {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		parsed, err := ParseAddressList(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed...)
	}
	return out, nil
}

// Envelope address of a possibly display-named address: the part inside
// angle brackets when present, the trimmed string otherwise.
func EnvelopeAddress(s string) string {
	if i := strings.LastIndex(s, "<"); i >= 0 {
		if j := strings.Index(s[i:], ">"); j > 0 {
			return s[i+1 : i+j]
		}
	}
	return strings.TrimSpace(s)
}

// ValidAddress is a cheap shape check, not full RFC 5322 validation.
func ValidAddress(s string) bool {
	addr := EnvelopeAddress(s)
	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	return !strings.ContainsAny(addr, " \t")
}
