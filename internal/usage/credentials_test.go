package usage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestParseOAuthCredentials(t *testing.T) {
	token, ok := parseOAuthCredentials([]byte(`{"claudeAiOauth": {"accessToken": "abc123"}}`))
	if !ok || token != "abc123" {
		t.Fatalf("expected abc123, got (%q, %v)", token, ok)
	}

	if _, ok := parseOAuthCredentials([]byte(`{"claudeAiOauth": {"accessToken": ""}}`)); ok {
		t.Fatalf("expected empty token to be rejected")
	}
	if _, ok := parseOAuthCredentials([]byte(`{broken`)); ok {
		t.Fatalf("expected malformed JSON to be rejected")
	}
}

func TestTokenProviderReadsCredentialsFile(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("keychain may shadow the credentials file on darwin")
	}

	path := filepath.Join(t.TempDir(), ".credentials.json")
	if err := os.WriteFile(path, []byte(`{"claudeAiOauth": {"accessToken": "from-file"}}`), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	provider := &OAuthTokenProvider{
		credentialsPath: func() (string, bool) { return path, true },
	}
	token, ok := provider.Token()
	if !ok || token != "from-file" {
		t.Fatalf("expected token from file, got (%q, %v)", token, ok)
	}
}

func TestTokenProviderFailsSoft(t *testing.T) {
	if runtime.GOOS == "darwin" {
		t.Skip("keychain may shadow the credentials file on darwin")
	}

	provider := &OAuthTokenProvider{
		credentialsPath: func() (string, bool) { return filepath.Join(t.TempDir(), "missing.json"), true },
	}
	if _, ok := provider.Token(); ok {
		t.Fatalf("expected no token when nothing is stored")
	}
}
