// Package validator shells out to an external CWL validator (cwltool by
// default), invoking it with exec.CommandContext and CombinedOutput the
// way an external quality-gate check would be shelled out to, wrapped
// with utils/retry for transient invocation failures.
package validator

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/foldedcode/wic/utils/config"
	"github.com/foldedcode/wic/utils/retry"
)

// Validator runs an external CWL validator against a compiled workflow
// document.
type Validator interface {
	Validate(ctx context.Context, workflowPath string) error
}

// CommandValidator invokes an external binary (default "cwltool
// --validate") as a subprocess.
type CommandValidator struct {
	Cmd     string
	Timeout time.Duration
}

func New(cmd string) *CommandValidator {
	if cmd == "" {
		cmd = "cwltool"
	}
	return &CommandValidator{Cmd: cmd, Timeout: 2 * time.Minute}
}

func (v *CommandValidator) Validate(ctx context.Context, workflowPath string) error {
	timeout := v.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	_, err := retry.WithRetry(func() (interface{}, error) {
		cmd := exec.CommandContext(cmdCtx, v.Cmd, "--validate", workflowPath)
		out, runErr := cmd.CombinedOutput()
		if runErr != nil {
			return nil, fmt.Errorf("%w: %s", runErr, out)
		}
		return out, nil
	}, retry.IsTransientExecError, retry.DefaultConfig)

	if err != nil {
		return fmt.Errorf("validator: %s --validate %s: %w", v.Cmd, workflowPath, err)
	}
	config.DebugLog("validator: %s passed validation for %s", v.Cmd, workflowPath)
	return nil
}
