package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gndm/ytPlaylists/internal/config"
	"github.com/gndm/ytPlaylists/internal/extract"
	"github.com/gndm/ytPlaylists/internal/report"
	"github.com/gndm/ytPlaylists/internal/ytdlp"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// flags holds command-line values; they override the loaded config only
// when set explicitly.
type flags struct {
	cookies    string
	output     string
	format     string
	configPath string
	envFile    string
	ytdlpPath  string
	detailed   bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "ytplaylists <channel-url>",
		Short: "Fetch all playlist links from a YouTube channel",
		Long:  "ytplaylists lists every playlist of a YouTube channel using yt-dlp and saves the links to a file.",
		Example: `  ytplaylists "https://www.youtube.com/@channelname"
  ytplaylists "https://www.youtube.com/c/channelname" --cookies cookies.txt
  ytplaylists "https://www.youtube.com/channel/UCxxxxxxxx" --output my_playlists.txt --detailed`,
		Version:      resolveVersion(version, readBuildInfo()),
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			channelURL := strings.TrimSpace(args[0])
			if !isValidYouTubeURL(channelURL) {
				return fmt.Errorf("invalid YouTube channel URL %q", channelURL)
			}

			cfg, err := config.Load(f.configPath, f.envFile)
			if err != nil {
				return err
			}
			f.apply(cmd, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			return run(cmd, cfg, channelURL, f.detailed)
		},
	}

	cmd.SetVersionTemplate("ytplaylists version {{.Version}}\n")

	cmd.Flags().StringVar(&f.cookies, "cookies", "", "Path to cookies.txt file (helps with private/age-restricted content)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "channel_playlists.txt", "Output file name")
	cmd.Flags().BoolVarP(&f.detailed, "detailed", "d", false, "Fetch detailed information about each playlist (slower)")
	cmd.Flags().StringVar(&f.format, "format", "text", "Report format (text, html)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "YAML config file")
	cmd.Flags().StringVar(&f.envFile, "env-file", ".env", "dotenv file with YTPLAYLISTS_* variables")
	cmd.Flags().StringVar(&f.ytdlpPath, "ytdlp", "yt-dlp", "Path to the yt-dlp executable")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// apply copies explicitly set flags over cfg.
func (f *flags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("cookies") {
		cfg.YTDLP.CookiesFile = f.cookies
	}
	if changed("output") {
		cfg.Output.Path = f.output
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("ytdlp") {
		cfg.YTDLP.BinaryPath = f.ytdlpPath
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
}

func run(cmd *cobra.Command, cfg *config.Config, channelURL string, detailed bool) error {
	ctx := cmd.Context()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

	logger, err := newLogger(cfg.Log.Level, errOut)
	if err != nil {
		return err
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	client := &ytdlp.CommandClient{
		BinaryPath:     cfg.YTDLP.BinaryPath,
		ExtraArgs:      cfg.YTDLP.ExtraArgs,
		VersionTimeout: cfg.YTDLP.GetVersionTimeout(),
	}
	v, err := client.Version(ctx)
	if errors.Is(err, ytdlp.ErrNotInstalled) {
		fmt.Fprintln(errOut, "yt-dlp is not installed or not found in PATH")
		fmt.Fprintln(errOut, "Install it using: pip install yt-dlp")
		return err
	}
	if err != nil {
		return err
	}
	logger.Debug("yt-dlp available", zap.String("version", v), zap.String("path", cfg.YTDLP.BinaryPath))

	cookies := cfg.YTDLP.CookiesFile
	if cookies != "" {
		if _, err := os.Stat(cookies); err != nil {
			fmt.Fprintf(errOut, "Cookies file not found: %s\n", cookies)
			fmt.Fprintln(errOut, "Continuing without cookies...")
			logger.Warn("cookies file unavailable", zap.String("path", cookies), zap.Error(err))
			cookies = ""
		}
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	ex := extract.New(client, logger,
		extract.WithCookies(cookies),
		extract.WithTimeouts(
			cfg.YTDLP.GetDiscoveryTimeout(),
			cfg.YTDLP.GetFallbackTimeout(),
			cfg.YTDLP.GetMetadataTimeout(),
		),
	)

	fmt.Fprintf(out, "Fetching playlists from channel: %s\n", channelURL)
	urls, err := ex.Discover(ctx, channelURL)
	if errors.Is(err, extract.ErrNoPlaylists) {
		fmt.Fprintln(errOut, "No playlists found.")
		fmt.Fprintln(errOut, "Make sure the channel URL is correct and the channel has public playlists.")
		return err
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Found %d playlists!\n", len(urls))

	if detailed {
		fmt.Fprintln(out, "Fetching detailed playlist information...")
	}
	records, err := ex.Records(ctx, urls, detailed, func(i, total int) {
		fmt.Fprintf(out, "   Processing %d/%d...\n", i, total)
	})
	if err != nil {
		return err
	}

	path := cfg.Output.Path
	if err := report.NewWriter(format, logger).Write(path, records); err != nil {
		return err
	}
	fmt.Fprintf(out, "Playlist links saved to: %s\n", path)

	fmt.Fprintf(out, "\nSummary:\n%s", report.Summary(records, cfg.Output.SummaryLimit))
	fmt.Fprintf(out, "\nAll %d playlist links are saved in %s\n", len(records), path)
	return nil
}

// newLogger writes human-readable diagnostics to w at the given level.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func isValidYouTubeURL(url string) bool {
	return strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be")
}
