package usage

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const (
	toolName             = "claude-code"
	toolPackage          = "@anthropic-ai/claude-code"
	versionLookupTimeout = 2 * time.Second
)

// toolUserAgent builds the User-Agent for usage requests, identifying
// the host CLI with its installed version when npm can report one
// quickly. The lookup is bounded so it can never stall a render.
func toolUserAgent() string {
	ctx, cancel := context.WithTimeout(context.Background(), versionLookupTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "npm", "view", toolPackage, "version").Output()
	if err != nil {
		return toolName
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return toolName
	}
	return toolName + "/" + version
}
