package usage

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	keychainService       = "Claude Code-credentials"
	keychainLookupTimeout = 2 * time.Second
)

// TokenProvider yields the OAuth bearer token for usage requests. An
// absent token simply means the segment renders nothing.
type TokenProvider interface {
	Token() (string, bool)
}

// OAuthTokenProvider reads the host CLI's stored credentials: the macOS
// Keychain entry first, then the credentials file under the user's home
// directory.
type OAuthTokenProvider struct {
	credentialsPath func() (string, bool)
}

func NewOAuthTokenProvider() *OAuthTokenProvider {
	return &OAuthTokenProvider{credentialsPath: defaultCredentialsPath}
}

func (p *OAuthTokenProvider) Token() (string, bool) {
	if token, ok := tokenFromKeychain(); ok {
		return token, true
	}
	path, ok := p.credentialsPath()
	if !ok {
		return "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return parseOAuthCredentials(data)
}

func defaultCredentialsPath() (string, bool) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}
	return filepath.Join(home, ".claude", ".credentials.json"), true
}

func tokenFromKeychain() (string, bool) {
	if runtime.GOOS != "darwin" {
		return "", false
	}
	ctx, cancel := context.WithTimeout(context.Background(), keychainLookupTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "security", "find-generic-password", "-s", keychainService, "-w").Output()
	if err != nil {
		return "", false
	}
	return parseOAuthCredentials([]byte(strings.TrimSpace(string(out))))
}

func parseOAuthCredentials(data []byte) (string, bool) {
	var creds struct {
		ClaudeAiOauth struct {
			AccessToken string `json:"accessToken"`
		} `json:"claudeAiOauth"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", false
	}
	token := strings.TrimSpace(creds.ClaudeAiOauth.AccessToken)
	if token == "" {
		return "", false
	}
	return token, true
}
