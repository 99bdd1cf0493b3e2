// Package extract discovers the playlists of a YouTube channel through yt-dlp.
package extract

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gndm/ytPlaylists/internal/parser"
	"github.com/gndm/ytPlaylists/internal/ytdlp"
)

// printTemplates are the --print fields tried against every channel URL, in order.
var printTemplates = []string{
	"%(playlist_url)s",
	"%(webpage_url)s",
	"%(id)s",
}

// tabSuffixes are channel tabs stripped before building URL variants.
var tabSuffixes = []string{"/playlists", "/videos", "/shorts", "/streams", "/featured"}

// strategy is a single yt-dlp call whose output lines feed the line recognizers.
type strategy struct {
	name string
	run  func(ctx context.Context, target string) ([]string, error)
}

// Extractor finds playlist URLs for a channel and optionally enriches them.
type Extractor struct {
	yt      ytdlp.Client
	logger  *zap.Logger
	cookies string

	discoveryTimeout time.Duration
	fallbackTimeout  time.Duration
	metadataTimeout  time.Duration
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCookies passes a cookies.txt file to every yt-dlp call.
func WithCookies(path string) Option {
	return func(e *Extractor) { e.cookies = path }
}

// WithTimeouts overrides the per-call timeouts. Zero values keep the default.
func WithTimeouts(discovery, fallback, metadata time.Duration) Option {
	return func(e *Extractor) {
		if discovery > 0 {
			e.discoveryTimeout = discovery
		}
		if fallback > 0 {
			e.fallbackTimeout = fallback
		}
		if metadata > 0 {
			e.metadataTimeout = metadata
		}
	}
}

// New creates an Extractor. logger may be nil.
func New(yt ytdlp.Client, logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		yt:               yt,
		logger:           logger,
		discoveryTimeout: DefaultDiscoveryTimeout,
		fallbackTimeout:  DefaultFallbackTimeout,
		metadataTimeout:  DefaultMetadataTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Discover returns the unique playlist URLs of a channel, first-discovered first.
//
// Every URL variant is tried with every print strategy until one variant
// yields a playlist. If none does, a single --dump-json listing of the
// playlists tab is parsed instead. Failed or timed out calls are logged and
// skipped. ErrNoPlaylists is returned when nothing was found.
func (e *Extractor) Discover(ctx context.Context, channelURL string) ([]string, error) {
	e.logger.Info("fetching playlists", zap.String("channel", channelURL))

	found := parser.NewSet()
	for _, target := range channelTargets(channelURL) {
		if e.discoverTarget(ctx, target, found) {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	if found.Len() == 0 {
		e.logger.Info("trying structured listing", zap.String("channel", channelURL))
		e.discoverFromDump(ctx, playlistsTab(channelURL), found)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	urls := found.Filter(parser.Valid)
	if len(urls) == 0 {
		return nil, ErrNoPlaylists
	}
	e.logger.Info("playlists found", zap.Int("count", len(urls)))
	return urls, nil
}

// discoverTarget runs the print strategies against target and stops at the
// first one that contributes a playlist.
func (e *Extractor) discoverTarget(ctx context.Context, target string, found *parser.Set) bool {
	for _, s := range e.strategies() {
		lines, err := s.run(ctx, target)
		if err != nil {
			e.logger.Warn("strategy failed",
				zap.String("target", target),
				zap.String("strategy", s.name),
				zap.Error(err))
			if ctx.Err() != nil {
				return false
			}
			continue
		}

		added := 0
		for _, line := range lines {
			if u, ok := parser.ParseLine(line); ok && found.Add(u) {
				added++
			}
		}
		e.logger.Debug("strategy finished",
			zap.String("target", target),
			zap.String("strategy", s.name),
			zap.Int("lines", len(lines)),
			zap.Int("added", added))

		if found.Len() > 0 {
			return true
		}
	}
	return false
}

func (e *Extractor) discoverFromDump(ctx context.Context, target string, found *parser.Set) {
	lines, err := e.yt.FlatDump(ctx, target, e.callOptions(e.fallbackTimeout))
	if err != nil {
		e.logger.Warn("structured listing failed", zap.String("target", target), zap.Error(err))
		return
	}
	for _, line := range lines {
		for _, u := range parser.ParseEntry(line) {
			found.Add(u)
		}
	}
}

func (e *Extractor) strategies() []strategy {
	out := make([]strategy, 0, len(printTemplates))
	for _, tmpl := range printTemplates {
		tmpl := tmpl
		out = append(out, strategy{
			name: "print " + tmpl,
			run: func(ctx context.Context, target string) ([]string, error) {
				return e.yt.FlatPrint(ctx, target, tmpl, e.callOptions(e.discoveryTimeout))
			},
		})
	}
	return out
}

func (e *Extractor) callOptions(timeout time.Duration) ytdlp.Options {
	return ytdlp.Options{CookiesPath: e.cookies, Timeout: timeout}
}

// channelTargets returns the URL variants tried for a channel: playlists tab,
// videos tab, then the URL as given. Duplicates are dropped.
func channelTargets(channelURL string) []string {
	base := channelBase(channelURL)
	candidates := []string{base + "/playlists", base + "/videos", channelURL}

	targets := make([]string, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if !seen[c] {
			seen[c] = true
			targets = append(targets, c)
		}
	}
	return targets
}

func playlistsTab(channelURL string) string {
	return channelBase(channelURL) + "/playlists"
}

// channelBase strips a trailing slash and a known tab suffix.
func channelBase(channelURL string) string {
	base := strings.TrimSuffix(strings.TrimSpace(channelURL), "/")
	for _, suffix := range tabSuffixes {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return base
}
