package lead

import (
	"fmt"
	"strings"
	"unicode"
)

// UnknownContactName is the placeholder for auto-created leads with no usable name.
const UnknownContactName = "Unknown Contact"

// MinPhoneDigits is the shortest dialable phone number after normalization.
const MinPhoneDigits = 5

// CallSourceTag marks call records that originate from the connection-acceptance flow.
// Historical call records carry it only inside their free-text context.
const CallSourceTag = "linkedin_connection_accepted"

// NameSources lists the candidate name inputs for an auto-created lead.
type NameSources struct {
	FullName         string
	FirstName        string
	LastName         string
	PublicIdentifier string
}

// ResolveName picks a display name: explicit payload name fields first, then a name
// derived from the public identifier, then UnknownContactName.
func ResolveName(src NameSources) string {
	if name := strings.TrimSpace(src.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(strings.TrimSpace(src.FirstName) + " " + strings.TrimSpace(src.LastName)); name != "" {
		return name
	}
	if name := NameFromIdentifier(src.PublicIdentifier); name != "" {
		return name
	}
	return UnknownContactName
}

// NameFromIdentifier derives a display name from a slug such as "jane-roe-4a2b3c":
// hyphen-delimited segments containing digits are dropped and the rest capitalized.
func NameFromIdentifier(identifier string) string {
	var parts []string
	for _, segment := range strings.Split(strings.TrimSpace(identifier), "-") {
		if segment == "" || strings.IndexFunc(segment, unicode.IsDigit) >= 0 {
			continue
		}
		runes := []rune(strings.ToLower(segment))
		runes[0] = unicode.ToUpper(runes[0])
		parts = append(parts, string(runes))
	}
	return strings.Join(parts, " ")
}

// NormalizePhone strips every character except digits and a single leading "+".
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsDialable reports whether a normalized number has enough digits to call.
func IsDialable(normalized string) bool {
	return len(strings.TrimPrefix(normalized, "+")) >= MinPhoneDigits
}

// ResolveAgentID picks the calling agent: lead override, then organization default,
// then the global fallback.
func ResolveAgentID(leadOverride, orgDefault, global string) string {
	for _, candidate := range []string{leadOverride, orgDefault, global} {
		if c := strings.TrimSpace(candidate); c != "" {
			return c
		}
	}
	return ""
}

// CallContextInput carries the lead details used to brief the calling agent.
type CallContextInput struct {
	Name    string
	Company string
	Title   string
}

// BuildCallContext composes the human-readable call brief. The source tag is always
// included so the call history can be matched later.
func BuildCallContext(in CallContextInput) string {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = UnknownContactName
	}

	who := name
	title := strings.TrimSpace(in.Title)
	company := strings.TrimSpace(in.Company)
	switch {
	case title != "" && company != "":
		who = fmt.Sprintf("%s, %s at %s", name, title, company)
	case title != "":
		who = fmt.Sprintf("%s, %s", name, title)
	case company != "":
		who = fmt.Sprintf("%s at %s", name, company)
	}

	return fmt.Sprintf("[%s] %s just accepted our LinkedIn connection request.", CallSourceTag, who)
}

// CallIdempotencyKey is the explicit idempotency key stored on acceptance call records.
func CallIdempotencyKey(leadID string) string {
	return "linkedin_accept:" + leadID
}
