package antispam

import (
	"math/rand"
	"strings"
)

// Decoy field names bots tend to autofill. Legitimate users never see the
// field, so any value in it marks the submission as automated.
var honeypotNames = []string{
	"website",
	"company_website",
	"url_address",
	"fax_number",
	"address_line_3",
}

// honeypotStyle keeps the decoy out of sight and out of tab order.
const honeypotStyle = "position:absolute;left:-9999px;top:-9999px;opacity:0;height:0;width:0;pointer-events:none;tabindex:-1"

// Honeypot describes a decoy form field to render.
type Honeypot struct {
	FieldName string `json:"fieldName"`
	Style     string `json:"style"`
}

// GenerateHoneypot picks a decoy field from the fixed pool.
func GenerateHoneypot() Honeypot {
	return Honeypot{
		FieldName: honeypotNames[rand.Intn(len(honeypotNames))],
		Style:     honeypotStyle,
	}
}

// CheckHoneypot reports whether the decoy field carries a value. A filled
// honeypot means a bot; callers must reject the submission with a generic
// message that does not reveal why.
func CheckHoneypot(form map[string]string, fieldName string) bool {
	if fieldName == "" {
		return false
	}
	return strings.TrimSpace(form[fieldName]) != ""
}
