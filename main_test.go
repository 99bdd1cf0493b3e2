package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gndm/ytPlaylists/internal/extract"
)

const channel = "https://www.youtube.com/@gopher"

// fakeYTDLP answers --version, the /playlists print strategy and the
// metadata dump; every invocation is appended to the returned log file.
const fakeYTDLP = `#!/bin/sh
echo "$*" >> "$YT_LOG"
case "$*" in
  *--version*) echo "2024.08.06" ;;
  *--dump-json*) echo '{"playlist_title":"Go","playlist_id":"PLaaa1234567","playlist_count":3,"playlist_uploader":"Gopher"}' ;;
  *"%(playlist_url)s"*/playlists) printf '%s\n' "https://www.youtube.com/playlist?list=PLaaa1234567" NA PLbbb1234567 ;;
  *) exit 1 ;;
esac
`

// slowDumpYTDLP discovers two playlists, then touches "$YT_LOG.dump" and
// hangs on the first metadata query.
const slowDumpYTDLP = `#!/bin/sh
case "$*" in
  *--version*) echo "2024.08.06" ;;
  *--dump-json*) touch "$YT_LOG.dump"; exec sleep 5 ;;
  *"%(playlist_url)s"*/playlists) printf '%s\n' PLaaa1234567 PLbbb1234567 ;;
  *) exit 1 ;;
esac
`

const emptyYTDLP = `#!/bin/sh
case "$*" in
  *--version*) echo "2024.08.06" ;;
  *) exit 0 ;;
esac
`

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func writeScript(t *testing.T, script string) (bin, log string) {
	t.Helper()
	dir := t.TempDir()
	bin = filepath.Join(dir, "yt-dlp")
	log = filepath.Join(dir, "calls.log")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	t.Setenv("YT_LOG", log)
	return bin, log
}

// clearConfigEnv unsets every YTPLAYLISTS_* variable for the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, "YTPLAYLISTS_") {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}
}

func execute(t *testing.T, args ...string) cliResult {
	t.Helper()
	return executeContext(t, context.Background(), args...)
}

func executeContext(t *testing.T, ctx context.Context, args ...string) cliResult {
	t.Helper()
	clearConfigEnv(t)

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), ".env")}, args...))

	err := cmd.ExecuteContext(ctx)
	return cliResult{stdout: out.String(), stderr: errOut.String(), err: err}
}

func TestRunBasic(t *testing.T) {
	bin, _ := writeScript(t, fakeYTDLP)
	output := filepath.Join(t.TempDir(), "playlists.txt")

	res := execute(t, channel, "--ytdlp", bin, "-o", output)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "Found 2 playlists!")
	assert.Contains(t, res.stdout, "Playlist links saved to: "+output)
	assert.Contains(t, res.stdout, "  1. Playlist 1 (0 videos)")
	assert.Contains(t, res.stdout, "All 2 playlist links are saved in "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	report := string(data)
	assert.Contains(t, report, "1. Playlist 1\n   URL: https://www.youtube.com/playlist?list=PLaaa1234567\n")
	assert.Contains(t, report, "2. Playlist 2\n   URL: https://www.youtube.com/playlist?list=PLbbb1234567\n")
	assert.NotContains(t, report, "list=NA")
}

func TestRunDetailed(t *testing.T) {
	bin, log := writeScript(t, fakeYTDLP)
	output := filepath.Join(t.TempDir(), "playlists.txt")

	res := execute(t, channel, "--ytdlp", bin, "-o", output, "--detailed")
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "Fetching detailed playlist information...")
	assert.Contains(t, res.stdout, "   Processing 1/2...")
	assert.Contains(t, res.stdout, "   Processing 2/2...")
	assert.Contains(t, res.stdout, "  1. Go (3 videos)")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "   Uploader: Gopher\n")

	calls, err := os.ReadFile(log)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(calls), "--dump-json"))
}

func TestRunHTML(t *testing.T) {
	bin, _ := writeScript(t, fakeYTDLP)
	output := filepath.Join(t.TempDir(), "playlists.html")

	res := execute(t, channel, "--ytdlp", bin, "-o", output, "--format", "html")
	require.NoError(t, res.err, res.stderr)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<title>")
	assert.Contains(t, string(data), "PLbbb1234567")
}

func TestRunMissingYTDLP(t *testing.T) {
	output := filepath.Join(t.TempDir(), "playlists.txt")

	res := execute(t, channel, "--ytdlp", filepath.Join(t.TempDir(), "nope"), "-o", output)
	require.Error(t, res.err)

	assert.Contains(t, res.stderr, "yt-dlp is not installed or not found in PATH")
	assert.Contains(t, res.stderr, "pip install yt-dlp")
	assert.NoFileExists(t, output)
}

func TestRunNoPlaylists(t *testing.T) {
	bin, _ := writeScript(t, emptyYTDLP)
	output := filepath.Join(t.TempDir(), "playlists.txt")

	res := execute(t, channel, "--ytdlp", bin, "-o", output)
	require.ErrorIs(t, res.err, extract.ErrNoPlaylists)

	assert.Contains(t, res.stderr, "No playlists found.")
	assert.Contains(t, res.stderr, "public playlists")
	assert.NoFileExists(t, output)
}

func TestRunCanceledDuringMetadataKeepsReport(t *testing.T) {
	bin, log := writeScript(t, slowDumpYTDLP)
	output := filepath.Join(t.TempDir(), "playlists.txt")
	require.NoError(t, os.WriteFile(output, []byte("previous report\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		for ctx.Err() == nil {
			if _, err := os.Stat(log + ".dump"); err == nil {
				cancel()
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	start := time.Now()
	res := executeContext(t, ctx, channel, "--ytdlp", bin, "-o", output, "--detailed")
	require.ErrorIs(t, res.err, context.Canceled)
	assert.Less(t, time.Since(start), 4*time.Second)

	assert.Contains(t, res.stdout, "   Processing 1/2...")
	assert.NotContains(t, res.stdout, "   Processing 2/2...")
	assert.NotContains(t, res.stdout, "Playlist links saved to")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "previous report\n", string(data))
}

func TestRunCanceledBeforeProbe(t *testing.T) {
	bin, _ := writeScript(t, fakeYTDLP)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := executeContext(t, ctx, channel, "--ytdlp", bin)
	require.ErrorIs(t, res.err, context.Canceled)
	assert.NotContains(t, res.stderr, "pip install yt-dlp")
}

func TestRunIgnoresAmbientConfigEnv(t *testing.T) {
	bin, _ := writeScript(t, fakeYTDLP)
	output := filepath.Join(t.TempDir(), "playlists.txt")
	t.Setenv("YTPLAYLISTS_SUMMARY_LIMIT", "1")
	t.Setenv("YTPLAYLISTS_DISCOVERY_TIMEOUT", "0")
	t.Setenv("YTPLAYLISTS_FORMAT", "html")

	res := execute(t, channel, "--ytdlp", bin, "-o", output)
	require.NoError(t, res.err, res.stderr)
	assert.Contains(t, res.stdout, "  2. Playlist 2 (0 videos)")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "YouTube Channel Playlists - Fetched on "))
}

func TestRunMissingCookies(t *testing.T) {
	bin, log := writeScript(t, fakeYTDLP)
	output := filepath.Join(t.TempDir(), "playlists.txt")
	cookies := filepath.Join(t.TempDir(), "cookies.txt")

	res := execute(t, channel, "--ytdlp", bin, "-o", output, "--cookies", cookies)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stderr, "Cookies file not found: "+cookies)
	assert.Contains(t, res.stderr, "Continuing without cookies...")

	calls, err := os.ReadFile(log)
	require.NoError(t, err)
	assert.NotContains(t, string(calls), "--cookies")
}

func TestRunWithCookies(t *testing.T) {
	bin, log := writeScript(t, fakeYTDLP)
	output := filepath.Join(t.TempDir(), "playlists.txt")
	cookies := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(cookies, []byte("# Netscape HTTP Cookie File\n"), 0o600))

	res := execute(t, channel, "--ytdlp", bin, "-o", output, "--cookies", cookies)
	require.NoError(t, res.err, res.stderr)

	calls, err := os.ReadFile(log)
	require.NoError(t, err)
	assert.Contains(t, string(calls), "--cookies "+cookies)
}

func TestRunConfigFile(t *testing.T) {
	bin, _ := writeScript(t, fakeYTDLP)
	dir := t.TempDir()
	fromConfig := filepath.Join(dir, "from-config.txt")
	cfgPath := filepath.Join(dir, "ytplaylists.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("ytdlp:\n  binary_path: "+bin+"\noutput:\n  path: "+fromConfig+"\n"), 0o644))

	res := execute(t, channel, "--config", cfgPath)
	require.NoError(t, res.err, res.stderr)
	assert.FileExists(t, fromConfig)

	fromFlag := filepath.Join(dir, "from-flag.txt")
	res = execute(t, channel, "--config", cfgPath, "-o", fromFlag)
	require.NoError(t, res.err, res.stderr)
	assert.FileExists(t, fromFlag)
}

func TestRunInvalidFormat(t *testing.T) {
	bin, _ := writeScript(t, fakeYTDLP)

	res := execute(t, channel, "--ytdlp", bin, "--format", "pdf")
	assert.ErrorContains(t, res.err, "output.format")
}

func TestRunRequiresOneArg(t *testing.T) {
	res := execute(t)
	assert.Error(t, res.err)

	res = execute(t, channel, "extra")
	assert.Error(t, res.err)
}

func TestRunRejectsNonYouTubeURL(t *testing.T) {
	res := execute(t, "https://vimeo.com/gopher")
	assert.ErrorContains(t, res.err, "invalid YouTube channel URL")
}

func TestVersionFlag(t *testing.T) {
	res := execute(t, "--version")
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "ytplaylists version "))
}

func TestIsValidYouTubeURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.youtube.com/@gopher", true},
		{"https://youtube.com/c/gopher", true},
		{"https://www.youtube.com/channel/UCxxxxxxxx", true},
		{"https://youtu.be/abc", true},
		{"https://example.com/@gopher", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isValidYouTubeURL(tt.url); got != tt.want {
			t.Errorf("isValidYouTubeURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestResolveVersion(t *testing.T) {
	withModule := func(v string) *debug.BuildInfo {
		return &debug.BuildInfo{Main: debug.Module{Version: v}}
	}

	tests := []struct {
		name    string
		ldflags string
		info    *debug.BuildInfo
		want    string
	}{
		{"ldflags wins", "v1.2.3", withModule("v0.9.0"), "v1.2.3"},
		{"module version", "dev", withModule("v0.9.0"), "v0.9.0"},
		{"devel build", "dev", withModule("(devel)"), "dev"},
		{"no build info", "dev", nil, "dev"},
		{"empty ldflags", "", withModule(""), "dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveVersion(tt.ldflags, tt.info))
		})
	}
}
