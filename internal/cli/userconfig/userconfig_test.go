package userconfig

import "testing"

func TestLoadReturnsDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("APIBaseURL = %q, want %q", cfg.APIBaseURL, DefaultAPIBaseURL)
	}
	if cfg.Identity != nil {
		t.Errorf("Identity = %+v, want nil", cfg.Identity)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SetAPIBaseURL("https://api.example.com"); err != nil {
		t.Fatalf("SetAPIBaseURL failed: %v", err)
	}
	if err := SetIdentity(&CachedIdentity{ID: "u-1", DisplayName: "alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("SetIdentity failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.Identity == nil || cfg.Identity.DisplayName != "alice" {
		t.Errorf("Identity = %+v", cfg.Identity)
	}

	// Clearing the identity keeps the URL
	if err := SetIdentity(nil); err != nil {
		t.Fatalf("SetIdentity(nil) failed: %v", err)
	}
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Identity != nil {
		t.Errorf("Identity survived a clear: %+v", cfg.Identity)
	}
	if cfg.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %q after clearing identity", cfg.APIBaseURL)
	}
}
