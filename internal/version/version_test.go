package version

import "testing"

func TestShortCommit(t *testing.T) {
	orig := Commit
	t.Cleanup(func() { Commit = orig })

	Commit = "0123456789abcdef"
	if got := ShortCommit(); got != "0123456" {
		t.Errorf("ShortCommit() = %q, want %q", got, "0123456")
	}
	Commit = "abc"
	if got := ShortCommit(); got != "abc" {
		t.Errorf("ShortCommit() = %q, want %q", got, "abc")
	}
}
