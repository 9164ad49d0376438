package profileurl

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"full https url with trailing slash", "https://www.linkedin.com/in/jdoe/", "https://www.linkedin.com/in/jdoe"},
		{"http without www", "http://linkedin.com/in/jdoe", "https://www.linkedin.com/in/jdoe"},
		{"schemeless with query", "linkedin.com/in/jdoe?x=1", "https://www.linkedin.com/in/jdoe"},
		{"country subdomain", "https://uk.linkedin.com/in/jdoe", "https://www.linkedin.com/in/jdoe"},
		{"uppercase scheme and host", "HTTPS://WWW.LinkedIn.com/in/JaneRoe", "https://www.linkedin.com/in/JaneRoe"},
		{"nested path after slug", "www.linkedin.com/in/jdoe/details/experience", "https://www.linkedin.com/in/jdoe"},
		{"linkedin with empty slug falls back", "linkedin.com/in/", "https://www.linkedin.com/in"},
		{"linkedin company page unchanged", "https://www.linkedin.com/company/acme", "https://www.linkedin.com/company/acme"},
		{"bare identifier unchanged", "ACoAAB12345", "ACoAAB12345"},
		{"bare slug unchanged", "john-doe-4a2b", "john-doe-4a2b"},
		{"instagram handle", "instagram.com/jane.roe/", "https://www.instagram.com/jane.roe"},
		{"facebook numeric profile", "https://m.facebook.com/profile.php?id=100012345", "https://www.facebook.com/profile.php?id=100012345"},
		{"facebook vanity", "http://facebook.com/jane.roe?ref=bookmarks", "https://www.facebook.com/jane.roe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Equivalence(t *testing.T) {
	variants := []string{
		"https://www.linkedin.com/in/jdoe/",
		"http://linkedin.com/in/jdoe",
		"linkedin.com/in/jdoe?x=1",
	}

	want := Normalize(variants[0])
	for _, v := range variants[1:] {
		if got := Normalize(v); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", v, got, want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"http://linkedin.com/in/jdoe",
		"instagram.com/jane.roe",
		"ACoAAB12345",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestStripSchemeAndWWW(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/jdoe", "linkedin.com/in/jdoe"},
		{"http://linkedin.com/in/jdoe", "linkedin.com/in/jdoe"},
		{"www.linkedin.com/in/jdoe", "linkedin.com/in/jdoe"},
		{"linkedin.com/in/jdoe", "linkedin.com/in/jdoe"},
		{"HTTPS://WWW.example.com", "example.com"},
	}

	for _, tt := range tests {
		if got := StripSchemeAndWWW(tt.in); got != tt.want {
			t.Errorf("StripSchemeAndWWW(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPublicIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.linkedin.com/in/jane-roe-12ab34/", "jane-roe-12ab34"},
		{"instagram.com/jane.roe", "jane.roe"},
		{"jane-roe", "jane-roe"},
		{"https://www.linkedin.com/company/acme", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := PublicIdentifier(tt.in); got != tt.want {
			t.Errorf("PublicIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		in   string
		want Platform
	}{
		{"https://www.linkedin.com/in/jdoe", PlatformLinkedIn},
		{"instagram.com/jane", PlatformInstagram},
		{"facebook.com/jane", PlatformFacebook},
		{"https://wa.me/15551234567", PlatformWhatsApp},
		{"jdoe", PlatformUnknown},
	}

	for _, tt := range tests {
		if got := DetectPlatform(tt.in); got != tt.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
