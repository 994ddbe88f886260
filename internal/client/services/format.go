package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/alcancesol/internal/client/models"
)

// NotProvided replaces an empty alternate contact in the rendered report.
const NotProvided = "Não informado"

// ContactGreeting is the text of the contact screen's deep-link.
const ContactGreeting = "Olá! Gostaria de mais informações."

// MessagingBaseURL is the deep-link prefix of the messaging app.
const MessagingBaseURL = "https://wa.me/"

// FormatContent renders the report fields into the canonical message text.
// Equal input always yields byte-identical output.
func FormatContent(f models.ReportFields) string {
	contact := f.AlternateContact
	if contact == "" {
		contact = NotProvided
	}

	var b strings.Builder
	b.WriteString("*ALCANCE SOL - REPORT*\n\n")
	fmt.Fprintf(&b, "*Nome:* %s\n", f.Name)
	fmt.Fprintf(&b, "*Motivo:* %s\n", f.Reason)
	fmt.Fprintf(&b, "*Contato alternativo:* %s\n", contact)
	fmt.Fprintf(&b, "*Mensagem:* %s\n\n", f.Message)
	b.WriteString("_Enviado via Sol Conectividade App_")
	return b.String()
}

// BuildOutboundLink composes the messaging deep-link for message and phone.
// Every non-digit is dropped from phone; the result is not checked for
// being dialable.
func BuildOutboundLink(message, phone string) string {
	return MessagingBaseURL + DigitsOnly(phone) + "?text=" + EncodeURIComponent(message)
}

// ContactLink is the deep-link opened from the contact screen.
func ContactLink(phone string) string {
	return BuildOutboundLink(ContactGreeting, phone)
}

// DigitsOnly keeps the ASCII digits of s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// EncodeURIComponent percent-encodes s exactly like ECMAScript's
// encodeURIComponent: everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is
// written as %XX (uppercase) over its UTF-8 bytes.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func uriUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}

var brazilianPhone = regexp.MustCompile(`^(\d{2})(\d{2})(\d{5})(\d{4})$`)

// FormatPhone renders a 13-digit number as "+55 (62) 99999-1234". Other
// inputs are returned unchanged.
func FormatPhone(phone string) string {
	if !brazilianPhone.MatchString(phone) {
		return phone
	}
	return brazilianPhone.ReplaceAllString(phone, "+$1 ($2) $3-$4")
}
