// Package coderunner implements the Code Runner (C6): it compiles and
// executes a candidate's submission against a question's test cases inside
// a network-isolated container, per spec.md §4.6.
package coderunner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/codeready-toolchain/interviewplatform/pkg/apperr"
	"github.com/codeready-toolchain/interviewplatform/pkg/domain"
)

// Runner executes CODING submissions. It satisfies pkg/interview.CodeRunner.
type Runner struct {
	cli           *client.Client
	perTestTimeout time.Duration
	log           *slog.Logger
}

// New builds a Runner, pinging the configured Docker daemon once up front.
// A daemon that cannot be reached is a construction-time failure
// (SANDBOX_UNAVAILABLE) rather than a per-submission one, since every
// submission would fail identically.
func New(ctx context.Context, dockerHost string, perTestTimeout time.Duration, log *slog.Logger) (*Runner, error) {
	if log == nil {
		log = slog.Default()
	}
	opts := []client.Opt{client.WithAPIVersionNegotiation()}
	if dockerHost != "" {
		opts = append(opts, client.WithHost(dockerHost))
	} else {
		opts = append(opts, client.FromEnv)
	}
	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindSandbox, "SANDBOX_UNAVAILABLE", fmt.Errorf("create docker client: %w", err))
	}
	if _, err := cli.Ping(ctx); err != nil {
		cli.Close()
		return nil, apperr.Wrap(apperr.KindSandbox, "SANDBOX_UNAVAILABLE", fmt.Errorf("ping docker daemon: %w", err))
	}
	if perTestTimeout <= 0 {
		perTestTimeout = 15 * time.Second
	}
	return &Runner{cli: cli, perTestTimeout: perTestTimeout, log: log}, nil
}

// Close releases the Docker client.
func (r *Runner) Close() error {
	return r.cli.Close()
}

// Run compiles/interprets source for language and runs it against tests in
// order: non-hidden cases first, then hidden, stopping at the first failure
// per spec.md's test suite aggregation rule.
func (r *Runner) Run(ctx context.Context, language, source string, tests []*domain.TestCase) (bool, string, error) {
	if language == "SQL" {
		return r.runSQL(ctx, source, tests)
	}
	spec, ok := languageSpecs[language]
	if !ok {
		return false, "", apperr.New(apperr.KindValidation, "LANGUAGE_UNSUPPORTED", fmt.Sprintf("unsupported language %q", language))
	}
	if len(tests) == 0 {
		return false, "", apperr.New(apperr.KindValidation, "QUESTION_HAS_NO_TESTS", "question has no test cases to run against")
	}

	containerID, err := r.createContainer(ctx, spec)
	if err != nil {
		return false, "", apperr.Wrap(apperr.KindSandbox, "SANDBOX_UNAVAILABLE", err)
	}
	defer r.removeContainer(containerID)

	if spec.InitCmd != "" {
		if _, stderr, exitCode, err := r.exec(ctx, containerID, r.perTestTimeout, []string{"sh", "-c", spec.InitCmd}, nil); err != nil || exitCode != 0 {
			return false, "", apperr.Wrap(apperr.KindSandbox, "SANDBOX_UNAVAILABLE", fmt.Errorf("init failed (exit %d): %s: %w", exitCode, stderr, err))
		}
	}

	ordered := orderTests(tests)
	var logLines []string
	for i, tc := range ordered {
		harness, err := buildHarness(language, source, tc.Input)
		if err != nil {
			return false, strings.Join(logLines, "\n"), fmt.Errorf("build harness for test %d: %w", i+1, err)
		}

		cmd := []string{"sh", "-c", fmt.Sprintf("cat > /work/%s && %s", spec.Filename, spec.RunCmd)}
		stdout, stderr, exitCode, execErr := r.exec(ctx, containerID, r.perTestTimeout, cmd, []byte(harness))

		got := strings.TrimSpace(stdout)
		want := strings.TrimSpace(tc.Expected)
		switch {
		case execErr != nil:
			logLines = append(logLines, fmt.Sprintf("test %d: FAILED (sandbox error: %v)", i+1, execErr))
			return false, strings.Join(logLines, "\n"), nil
		case exitCode != 0:
			logLines = append(logLines, fmt.Sprintf("test %d: FAILED (exit %d): %s", i+1, exitCode, strings.TrimSpace(stderr)))
			return false, strings.Join(logLines, "\n"), nil
		case strings.TrimSpace(stderr) != "":
			logLines = append(logLines, fmt.Sprintf("test %d: FAILED (stderr): %s", i+1, strings.TrimSpace(stderr)))
			return false, strings.Join(logLines, "\n"), nil
		case got != want:
			logLines = append(logLines, fmt.Sprintf("test %d: FAILED expected=%q got=%q", i+1, want, got))
			return false, strings.Join(logLines, "\n"), nil
		default:
			logLines = append(logLines, fmt.Sprintf("test %d: PASSED", i+1))
		}
	}
	return true, strings.Join(logLines, "\n"), nil
}

// orderTests runs every non-hidden case before any hidden one, preserving
// each group's original relative order (stable sort).
func orderTests(tests []*domain.TestCase) []*domain.TestCase {
	ordered := make([]*domain.TestCase, len(tests))
	copy(ordered, tests)
	sort.SliceStable(ordered, func(i, j int) bool {
		return !ordered[i].IsHidden && ordered[j].IsHidden
	})
	return ordered
}

func (r *Runner) createContainer(ctx context.Context, spec languageSpec) (string, error) {
	pidsLimit := int64(64)
	cfg := &container.Config{
		Image:      spec.Image,
		Cmd:        []string{"sleep", "infinity"},
		WorkingDir: "/work",
	}
	hostCfg := &container.HostConfig{
		NetworkMode: "none",
		AutoRemove:  false,
		Resources: container.Resources{
			Memory:    256 * 1024 * 1024,
			PidsLimit: &pidsLimit,
		},
	}
	created, err := r.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	if err := r.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}
	if _, _, _, err := r.exec(ctx, created.ID, r.perTestTimeout, []string{"mkdir", "-p", "/work"}, nil); err != nil {
		return "", fmt.Errorf("prepare working dir: %w", err)
	}
	return created.ID, nil
}

func (r *Runner) removeContainer(containerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.cli.ContainerRemove(ctx, containerID, container.RemoveOptions{Force: true}); err != nil {
		r.log.Warn("remove sandbox container failed", "container_id", containerID, "error", err)
	}
}

// exec runs cmd inside containerID, optionally feeding stdin, and returns
// demuxed stdout/stderr plus the exit code.
func (r *Runner) exec(ctx context.Context, containerID string, timeout time.Duration, cmd []string, stdin []byte) (stdout, stderr string, exitCode int, err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	execCfg := container.ExecOptions{
		Cmd:          cmd,
		AttachStdin:  len(stdin) > 0,
		AttachStdout: true,
		AttachStderr: true,
	}
	created, err := r.cli.ContainerExecCreate(ctx, containerID, execCfg)
	if err != nil {
		return "", "", 0, fmt.Errorf("exec create: %w", err)
	}

	attached, err := r.cli.ContainerExecAttach(ctx, created.ID, container.ExecAttachOptions{})
	if err != nil {
		return "", "", 0, fmt.Errorf("exec attach: %w", err)
	}
	defer attached.Close()

	if len(stdin) > 0 {
		if _, err := attached.Conn.Write(stdin); err != nil {
			return "", "", 0, fmt.Errorf("write stdin: %w", err)
		}
		attached.CloseWrite()
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdoutBuf, &stderrBuf, attached.Reader); err != nil && err != io.EOF {
		return "", "", 0, fmt.Errorf("read exec output: %w", err)
	}

	inspect, err := r.cli.ContainerExecInspect(ctx, created.ID)
	if err != nil {
		return "", "", 0, fmt.Errorf("exec inspect: %w", err)
	}
	if ctx.Err() != nil {
		return stdoutBuf.String(), stderrBuf.String(), inspect.ExitCode, fmt.Errorf("execution timed out after %s", timeout)
	}
	return stdoutBuf.String(), stderrBuf.String(), inspect.ExitCode, nil
}
