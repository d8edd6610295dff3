package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/packforge/packforge/internal/config"
	"github.com/packforge/packforge/internal/ffmpeg"
	"github.com/packforge/packforge/internal/logging"
	"github.com/packforge/packforge/internal/media"
	"github.com/packforge/packforge/internal/osc"
	"github.com/packforge/packforge/internal/pipeline"
	"github.com/packforge/packforge/pkg/util"
)

var (
	cfgFile string
	verbose bool
)

// Output roots inside these prefixes are rejected outright.
var restrictedPrefixes = []string{
	"/etc", "/usr", "/bin", "/sbin", "/var", "/System", "/private/etc",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "packforge",
	Short: "packforge - media pack artifact extraction",
	Long:  "Extracts palettes, textures, motion snapshots and ghost variants from a pack of inspiration media for a real-time visual performance app.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		cmd.SetContext(config.WithConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(oscPingCmd)
}

var (
	outputDir string
	packID    string
	policy    string
)

var extractCmd = &cobra.Command{
	Use:   "extract [media files...]",
	Short: "Extract artifacts from a pack of media files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		if policy != "" {
			cfg.OutputPolicy = policy
		}

		outRoot, err := filepath.Abs(outputDir)
		if err != nil {
			return err
		}
		for _, prefix := range restrictedPrefixes {
			if strings.HasPrefix(outRoot, prefix) {
				return fmt.Errorf("output directory %s is in a restricted location", outRoot)
			}
		}

		files := validateInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no valid input files to process")
		}

		id := packID
		if id == "" {
			id = uuid.NewString()
		}

		pipe, err := pipeline.New(log.Logger, cfg, outRoot)
		if err != nil {
			return err
		}

		result, err := pipe.Run(cmd.Context(), id, files)
		if err != nil {
			return err
		}

		manifest := filepath.Join(outRoot, "artifacts.json")
		if err := result.Pack.WriteManifest(manifest); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}

		log.Info().
			Str("manifest", manifest).
			Int("palettes", len(result.Pack.Artifacts.ColorPalettes)).
			Int("textures", len(result.Pack.Artifacts.Textures)).
			Int("motion", len(result.Pack.Artifacts.MotionPatterns)).
			Int("clips", len(result.Pack.Artifacts.VideoClips)).
			Int("ghosts", len(result.Pack.Artifacts.GhostedImages)).
			Msg("pack processed")

		return nil
	},
}

// validateInputs resolves paths and drops anything missing or of an
// unsupported extension, with a warning per dropped file.
func validateInputs(args []string) []string {
	files := make([]string, 0, len(args))
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			log.Warn().Str("file", arg).Msg("skipping unresolvable path")
			continue
		}
		if _, err := os.Stat(path); err != nil {
			log.Warn().Str("file", arg).Msg("skipping non-existent file")
			continue
		}
		if !media.Supported(path) {
			log.Warn().Str("file", arg).Msg("skipping unsupported file type")
			continue
		}
		files = append(files, path)
	}
	return files
}

func init() {
	extractCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for artifacts")
	extractCmd.Flags().StringVar(&packID, "pack-id", "", "pack identifier (default: random UUID)")
	extractCmd.Flags().StringVar(&policy, "policy", "", "output policy: append, clean or fail")
	_ = extractCmd.MarkFlagRequired("output")
}

var probeCmd = &cobra.Command{
	Use:   "probe [media file]",
	Short: "Print container metadata for a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		ff, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.ProbePath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		info, err := ff.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		log.Info().
			Str("file", args[0]).
			Int("width", info.Width).
			Int("height", info.Height).
			Float64("fps", info.FPS).
			Int("frames", info.FrameCount).
			Str("duration", util.FormatDuration(info.Duration)).
			Str("codec", info.VideoCodec).
			Msg("probe complete")

		return nil
	},
}

var (
	oscAddr  string
	oscValue float32
	oscHost  string
	oscPort  int
)

var oscPingCmd = &cobra.Command{
	Use:   "oscping",
	Short: "Send a single OSC control message to the downstream app",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		host := oscHost
		if host == "" {
			host = cfg.OSC.Host
		}
		port := oscPort
		if port == 0 {
			port = cfg.OSC.Port
		}

		client := osc.NewClient(host, port)
		if err := client.Send(oscAddr, oscValue); err != nil {
			return err
		}

		log.Info().
			Str("address", oscAddr).
			Float32("value", oscValue).
			Str("target", fmt.Sprintf("%s:%d", host, port)).
			Msg("OSC message sent")

		return nil
	},
}

func init() {
	oscPingCmd.Flags().StringVar(&oscAddr, "addr", "/visuals/intensity", "OSC address to send to")
	oscPingCmd.Flags().Float32Var(&oscValue, "value", 1.0, "float value to send")
	oscPingCmd.Flags().StringVar(&oscHost, "host", "", "target host (default from config)")
	oscPingCmd.Flags().IntVar(&oscPort, "port", 0, "target port (default from config)")
}
