package buildinfo

import (
	"strings"
	"testing"
)

func TestProviderVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v0.6.0"
	if got := ProviderVersion(); got != "0.6.0" {
		t.Errorf("ProviderVersion() = %q, want 0.6.0", got)
	}
	if got := UserAgent(); !strings.HasPrefix(got, "cargo-ebuild/0.6.0 (") {
		t.Errorf("UserAgent() = %q", got)
	}
	if !strings.Contains(Template(), "v0.6.0") {
		t.Errorf("Template() = %q", Template())
	}
}
