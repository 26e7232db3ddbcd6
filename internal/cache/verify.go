// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pfxkit/pfxkit/internal/toolexec"
)

// Verify reports whether the file at path has the given SHA-256 digest.
// When no digest tool is installed the check passes unless strict
// verification is enabled.
func (c *Cache) Verify(ctx context.Context, path, digest string) (bool, error) {
	ok, _, err := c.verify(ctx, path, strings.ToLower(strings.TrimSpace(digest)))
	return ok, err
}

func (c *Cache) verify(ctx context.Context, path, digest string) (ok bool, actual string, err error) {
	actual, err = c.Digest(ctx, path)
	if errors.Is(err, toolexec.ErrToolUnavailable) && !c.strictVerify {
		slog.Warn("no checksum tool available, skipping verification", "file", path)
		return true, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return strings.EqualFold(actual, digest), actual, nil
}

// Digest computes the lowercase hex SHA-256 of the file at path. Installed
// digest tools are tried in preference order until one succeeds; when all
// of them fail the result is a ToolUnavailableError carrying the failures.
func (c *Cache) Digest(ctx context.Context, path string) (string, error) {
	tools := toolexec.DigestChain.Available(c.lookPath)
	if len(tools) == 0 {
		return "", toolexec.DigestChain.Unavailable()
	}

	var failures []error
	for _, tool := range tools {
		sum, err := c.digestWith(ctx, tool, path)
		if err == nil {
			return sum, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		slog.Debug("checksum tool failed, trying next", "tool", tool.Name, "error", err)
		failures = append(failures, err)
	}
	unavailable := toolexec.DigestChain.Unavailable()
	unavailable.Cause = errors.Join(failures...)
	return "", unavailable
}

func (c *Cache) digestWith(ctx context.Context, tool toolexec.Tool, path string) (string, error) {
	var args []string
	switch tool.Name {
	case "openssl":
		args = []string{"dgst", "-sha256", path}
	default:
		args = []string{path}
	}

	res, err := c.runner.Run(ctx, tool.Path, args, toolexec.RunOptions{})
	if err != nil {
		return "", err
	}
	if err := toolexec.CheckExit(tool.Name, args, res); err != nil {
		return "", err
	}

	sum, err := parseDigest(tool.Name, string(res.Stdout))
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", tool.Name, path, err)
	}
	return sum, nil
}

// parseDigest extracts the hex digest from sha256sum ("<hex>  <file>") or
// openssl ("SHA2-256(<file>)= <hex>") output.
func parseDigest(tool, out string) (string, error) {
	out = strings.TrimSpace(out)
	var sum string
	switch tool {
	case "openssl":
		if i := strings.LastIndexByte(out, '='); i >= 0 {
			sum = strings.TrimSpace(out[i+1:])
		}
	default:
		if fields := strings.Fields(out); len(fields) > 0 {
			sum = strings.TrimPrefix(fields[0], `\`)
		}
	}
	if sum == "" {
		return "", errors.New("unrecognized digest output")
	}
	return strings.ToLower(sum), nil
}
