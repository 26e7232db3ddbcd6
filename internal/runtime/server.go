// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/pfxkit/pfxkit/internal/toolexec"
)

// Server controls the runtime's background server for one prefix.
//
// Start is fire-and-forget: the persistent server is spawned and reaped in
// the background. Wait blocks until the server exits on its own; Kill
// terminates it.
type Server struct {
	ctx *Context

	mu      sync.Mutex
	process toolexec.Process
}

// Server returns the background server handle for the context's prefix.
func (c *Context) Server() *Server {
	return &Server{ctx: c}
}

// env returns the host environment with WINEPREFIX pointing at the prefix.
func (s *Server) env() []string {
	environ := s.ctx.envBuilder.Environ
	if environ == nil {
		environ = os.Environ
	}
	return append(environ(), EnvWinePrefix+"="+s.ctx.prefix)
}

// Start spawns a persistent server (wineserver -p) and returns without
// waiting for it.
func (s *Server) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	proc, err := s.ctx.starter.Start(s.ctx.wineServer, []string{"-p"}, toolexec.RunOptions{Env: s.env()})
	if err != nil {
		return fmt.Errorf("start wineserver: %w", err)
	}
	s.process = proc
	go func() {
		if err := proc.Wait(); err != nil {
			slog.Debug("background wineserver exited", "pid", proc.Pid(), "error", err)
		}
	}()
	return nil
}

// Wait blocks until the server for the prefix exits (wineserver -w).
func (s *Server) Wait(ctx context.Context) error {
	return s.control(ctx, "-w")
}

// Kill terminates the server for the prefix (wineserver -k).
func (s *Server) Kill(ctx context.Context) error {
	return s.control(ctx, "-k")
}

func (s *Server) control(ctx context.Context, flag string) error {
	args := []string{flag}
	res, err := s.ctx.runner.Run(ctx, s.ctx.wineServer, args, toolexec.RunOptions{Env: s.env()})
	if err != nil {
		return fmt.Errorf("wineserver %s: %w", flag, err)
	}
	return toolexec.CheckExit("wineserver", args, res)
}
