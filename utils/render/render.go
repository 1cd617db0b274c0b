// Package render shells out to an external graph renderer (dot by
// default) to turn the DOT text produced by utils/graphbuild into an
// image file, following the same exec.CommandContext pattern as
// utils/validator.
package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/foldedcode/wic/utils/retry"
)

// Renderer turns DOT source into an image file at outPath. The output
// format is inferred from outPath's extension (default "png").
type Renderer struct {
	Cmd     string
	Timeout time.Duration
}

func New(cmd string) *Renderer {
	if cmd == "" {
		cmd = "dot"
	}
	return &Renderer{Cmd: cmd, Timeout: 30 * time.Second}
}

func (r *Renderer) Render(ctx context.Context, dotSource, outPath string) error {
	format := strings.TrimPrefix(filepath.Ext(outPath), ".")
	if format == "" {
		format = "png"
	}

	timeout := r.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := retry.WithRetry(func() (interface{}, error) {
		cmd := exec.CommandContext(cmdCtx, r.Cmd, "-T"+format, "-o", outPath)
		cmd.Stdin = strings.NewReader(dotSource)
		out, runErr := cmd.CombinedOutput()
		if runErr != nil {
			return nil, fmt.Errorf("%w: %s", runErr, out)
		}
		return nil, nil
	}, retry.IsTransientExecError, retry.DefaultConfig)
	if err != nil {
		return fmt.Errorf("render: %s -T%s: %w", r.Cmd, format, err)
	}
	return nil
}

// WriteDOT writes dotSource to path as-is, for callers who only want the
// graph description without rendering it to an image.
func WriteDOT(dotSource, path string) error {
	return os.WriteFile(path, []byte(dotSource), 0644)
}
