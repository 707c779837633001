package health

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/hangarhq/hangar/pkg/types"
)

// ScriptChecker probes a deployment by running its generated health-check
// script as a subprocess and parsing the JSON report on stdout.
type ScriptChecker struct {
	// Interpreter runs the script (e.g. "python3")
	Interpreter string

	// ScriptPath is the health-check script inside the deployment directory
	ScriptPath string

	// WorkDir is the deployment directory; the script resolves artifacts
	// relative to it
	WorkDir string

	// Timeout is the subprocess execution timeout (default: 10 seconds)
	Timeout time.Duration
}

// NewScriptChecker creates a new script health checker
func NewScriptChecker(interpreter, scriptPath, workDir string) *ScriptChecker {
	return &ScriptChecker{
		Interpreter: interpreter,
		ScriptPath:  scriptPath,
		WorkDir:     workDir,
		Timeout:     10 * time.Second,
	}
}

// Check runs the health-check script. A timeout, a non-zero exit, or
// unparseable output degrades the verdict; Check itself never fails.
func (s *ScriptChecker) Check(ctx context.Context) Result {
	start := time.Now()

	execCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, s.Interpreter, s.ScriptPath)
	cmd.Dir = s.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		return Result{
			Healthy: false,
			Message: fmt.Sprintf("health check timed out after %s", s.Timeout),
			Verdict: types.HealthVerdict{
				Status:    "unhealthy",
				Error:     fmt.Sprintf("timed out after %s", s.Timeout),
				CheckedAt: start,
			},
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	// The script reports its own verdict on stdout even when it exits
	// non-zero, so parse before looking at the exit code.
	var verdict types.HealthVerdict
	if err := json.Unmarshal(stdout.Bytes(), &verdict); err != nil {
		message := fmt.Sprintf("invalid health report: %v", err)
		if runErr != nil {
			message = fmt.Sprintf("%s (script error: %v)", message, runErr)
		}
		if stderr.Len() > 0 {
			message = fmt.Sprintf("%s, stderr: %s", message, truncate(stderr.String(), 200))
		}
		return Result{
			Healthy: false,
			Message: message,
			Verdict: types.HealthVerdict{
				Status:    "unknown",
				Error:     message,
				CheckedAt: start,
			},
			CheckedAt: start,
			Duration:  time.Since(start),
		}
	}

	if verdict.CheckedAt.IsZero() {
		verdict.CheckedAt = start
	}

	message := fmt.Sprintf("status: %s", verdict.Status)
	if verdict.Error != "" {
		message = fmt.Sprintf("%s, error: %s", message, verdict.Error)
	}

	return Result{
		Healthy:   verdict.Healthy(),
		Message:   message,
		Verdict:   verdict,
		CheckedAt: start,
		Duration:  time.Since(start),
	}
}

// Type returns the health check type
func (s *ScriptChecker) Type() CheckType {
	return CheckTypeScript
}

// WithTimeout sets the execution timeout
func (s *ScriptChecker) WithTimeout(timeout time.Duration) *ScriptChecker {
	s.Timeout = timeout
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
