package chat

import (
	"regexp"
	"strings"
)

// Intent classifies what an inbound chat message is asking for.
type Intent string

const (
	IntentCommand     Intent = "COMMAND"
	IntentPhoneNumber Intent = "PHONE_NUMBER"
	IntentBankAccount Intent = "BANK_ACCOUNT"
	IntentFreeText    Intent = "FREE_TEXT"
)

// String returns the string representation of Intent
func (i Intent) String() string {
	return string(i)
}

// IsLookup reports whether the intent triggers a scam lookup.
func (i Intent) IsLookup() bool {
	return i == IntentPhoneNumber || i == IntentBankAccount
}

var (
	phonePattern       = regexp.MustCompile(`^(0|\+84)[0-9]{9,10}$`)
	bankAccountPattern = regexp.MustCompile(`^[0-9]{6,16}$`)
	phoneSeparators    = strings.NewReplacer(" ", "", "-", "", ".", "")
)

// Known command aliases, matched case-insensitively after trimming.
var commandAliases = map[string]struct{}{
	"/help":     {},
	"help":      {},
	"hướng dẫn": {},
}

// Classify determines the intent of a raw message text. Phone numbers are
// checked before bank accounts, so a ten-digit string with a valid prefix
// classifies as a phone even though it also fits the account pattern.
func Classify(text string) Intent {
	trimmed := strings.TrimSpace(text)
	if _, ok := commandAliases[strings.ToLower(trimmed)]; ok {
		return IntentCommand
	}
	if phonePattern.MatchString(phoneSeparators.Replace(trimmed)) {
		return IntentPhoneNumber
	}
	if bankAccountPattern.MatchString(trimmed) {
		return IntentBankAccount
	}
	return IntentFreeText
}

// LookupKeyword returns the canonical keyword a lookup intent should query
// with. Phone numbers lose their separators; everything else is trimmed.
func LookupKeyword(text string) string {
	trimmed := strings.TrimSpace(text)
	if compact := phoneSeparators.Replace(trimmed); phonePattern.MatchString(compact) {
		return compact
	}
	return trimmed
}
