package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultBinary         = "yt-dlp"
	defaultVersionTimeout = 15 * time.Second
)

// Client defines the yt-dlp calls the extractor needs.
type Client interface {
	Version(ctx context.Context) (string, error)
	FlatPrint(ctx context.Context, target, template string, opts Options) ([]string, error)
	FlatDump(ctx context.Context, target string, opts Options) ([]string, error)
}

// CommandClient implements Client by calling the yt-dlp binary.
type CommandClient struct {
	// BinaryPath is the path to the yt-dlp executable. Defaults to "yt-dlp".
	BinaryPath string

	// ExtraArgs are passed to every invocation before the target URL.
	ExtraArgs []string

	// VersionTimeout bounds the --version probe. Defaults to 15 seconds.
	VersionTimeout time.Duration
}

// NewClient creates a new yt-dlp CommandClient.
func NewClient() *CommandClient {
	return &CommandClient{BinaryPath: defaultBinary, VersionTimeout: defaultVersionTimeout}
}

// Version runs `yt-dlp --version`. Any failure other than cancellation of
// ctx is reported as ErrNotInstalled.
func (c *CommandClient) Version(ctx context.Context) (string, error) {
	timeout := c.VersionTimeout
	if timeout <= 0 {
		timeout = defaultVersionTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(probeCtx, c.bin(), "--version")
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// FlatPrint lists the target without resolving entries and prints one
// template field per entry, e.g. "%(playlist_url)s".
func (c *CommandClient) FlatPrint(ctx context.Context, target, template string, opts Options) ([]string, error) {
	args := []string{"--flat-playlist", "--print", template}
	return c.run(ctx, opts, c.buildArgs(args, target, opts))
}

// FlatDump lists the target as line-delimited JSON, one object per entry.
func (c *CommandClient) FlatDump(ctx context.Context, target string, opts Options) ([]string, error) {
	args := []string{"--dump-json", "--flat-playlist"}
	return c.run(ctx, opts, c.buildArgs(args, target, opts))
}

// buildArgs appends the cookie file (only if it exists), extra args and the target.
func (c *CommandClient) buildArgs(args []string, target string, opts Options) []string {
	if opts.CookiesPath != "" {
		if _, err := os.Stat(opts.CookiesPath); err == nil {
			args = append(args, "--cookies", opts.CookiesPath)
		}
	}
	args = append(args, c.ExtraArgs...)
	return append(args, target)
}

func (c *CommandClient) run(ctx context.Context, opts Options, args []string) ([]string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.bin(), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, opts.Timeout)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNotInstalled, err)
		}
		return nil, fmt.Errorf("%w: %v: %s", classify(stderr.String()), err, strings.TrimSpace(stderr.String()))
	}

	return splitLines(stdout.String()), nil
}

func (c *CommandClient) bin() string {
	if c.BinaryPath != "" {
		return c.BinaryPath
	}
	return defaultBinary
}

// splitLines returns the trimmed, non-empty lines of out.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
