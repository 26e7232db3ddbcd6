// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pfxkit/pfxkit/internal/toolexec"
)

func downloadArgs(tool, dest, url string) []string {
	switch tool {
	case "wget":
		return []string{"-O", dest, "--progress=bar", url}
	default:
		return []string{"-L", "--fail", "-o", dest, "--progress-bar", url}
	}
}

// download tries each installed download tool in order until one succeeds.
func (c *Cache) download(ctx context.Context, url, dest string) error {
	tools := toolexec.DownloadChain.Available(c.lookPath)
	if len(tools) == 0 {
		return toolexec.DownloadChain.Unavailable()
	}

	var errs []error
	for _, tool := range tools {
		args := downloadArgs(tool.Name, dest, url)
		slog.Info("downloading", "url", url, "tool", tool.Name)
		res, err := c.runner.Run(ctx, tool.Path, args, toolexec.RunOptions{Stderr: c.progress})
		if err == nil {
			err = toolexec.CheckExit(tool.Name, args, res)
		}
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		slog.Warn("download attempt failed", "tool", tool.Name, "url", url, "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
