// Package profileurl converts social profile references into a canonical, comparable form.
// This is part of the Functional Core - no I/O, only pure functions.
package profileurl

import (
	"regexp"
	"strings"
)

// Platform identifies the social network a profile reference belongs to.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformWhatsApp  Platform = "whatsapp"
	PlatformUnknown   Platform = ""
)

var (
	linkedInProfilePattern  = regexp.MustCompile(`(?i)linkedin\.com/in/([^/?#\s]+)`)
	instagramProfilePattern = regexp.MustCompile(`(?i)instagram\.com/([A-Za-z0-9._]+)`)
	facebookNumericPattern  = regexp.MustCompile(`(?i)facebook\.com/profile\.php\?id=([0-9]+)`)
	facebookProfilePattern  = regexp.MustCompile(`(?i)facebook\.com/([A-Za-z0-9.\-]+)`)
)

// Normalize maps any accepted representation of a profile reference to one canonical
// string safe for exact and partial matching. Returns "" for empty input.
//
// Rules:
//   - scheme and "www." are stripped before matching
//   - linkedin.com/in/<slug> becomes https://www.linkedin.com/in/<slug>
//   - a LinkedIn reference with /in/ that does not match the slug pattern is prefixed
//     with https://www. as-is
//   - instagram and facebook handles become https://www.<domain>/<handle>
//   - input without a known domain is a bare identifier and is returned unchanged
func Normalize(raw string) string {
	ref := strings.TrimSpace(raw)
	if ref == "" {
		return ""
	}

	stripped := StripSchemeAndWWW(ref)
	lower := strings.ToLower(stripped)

	switch {
	case strings.Contains(lower, "linkedin.com"):
		if m := linkedInProfilePattern.FindStringSubmatch(stripped); m != nil {
			return "https://www.linkedin.com/in/" + m[1]
		}
		if strings.Contains(lower, "/in/") {
			return "https://www." + strings.TrimRight(stripped, "/")
		}
		return ref
	case strings.Contains(lower, "instagram.com"):
		if m := instagramProfilePattern.FindStringSubmatch(stripped); m != nil {
			return "https://www.instagram.com/" + m[1]
		}
		return ref
	case strings.Contains(lower, "facebook.com"):
		if m := facebookNumericPattern.FindStringSubmatch(stripped); m != nil {
			return "https://www.facebook.com/profile.php?id=" + m[1]
		}
		if m := facebookProfilePattern.FindStringSubmatch(stripped); m != nil {
			return "https://www.facebook.com/" + m[1]
		}
		return ref
	default:
		return ref
	}
}

// StripSchemeAndWWW removes a leading http:// or https:// and a leading "www.".
func StripSchemeAndWWW(s string) string {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "https://"):
		s = s[len("https://"):]
	case strings.HasPrefix(lower, "http://"):
		s = s[len("http://"):]
	}
	if strings.HasPrefix(strings.ToLower(s), "www.") {
		s = s[len("www."):]
	}
	return s
}

// DetectPlatform returns the platform a reference points at, or PlatformUnknown for
// bare identifiers.
func DetectPlatform(ref string) Platform {
	lower := strings.ToLower(ref)
	switch {
	case strings.Contains(lower, "linkedin.com"):
		return PlatformLinkedIn
	case strings.Contains(lower, "instagram.com"):
		return PlatformInstagram
	case strings.Contains(lower, "facebook.com"):
		return PlatformFacebook
	case strings.Contains(lower, "wa.me"), strings.Contains(lower, "whatsapp.com"):
		return PlatformWhatsApp
	default:
		return PlatformUnknown
	}
}

// PublicIdentifier extracts the handle or slug portion of a profile reference.
// A bare identifier is returned as-is.
func PublicIdentifier(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	stripped := StripSchemeAndWWW(ref)
	if m := linkedInProfilePattern.FindStringSubmatch(stripped); m != nil {
		return m[1]
	}
	if m := instagramProfilePattern.FindStringSubmatch(stripped); m != nil {
		return m[1]
	}
	if m := facebookNumericPattern.FindStringSubmatch(stripped); m != nil {
		return m[1]
	}
	if m := facebookProfilePattern.FindStringSubmatch(stripped); m != nil {
		return m[1]
	}
	if DetectPlatform(ref) != PlatformUnknown {
		return ""
	}
	return ref
}
