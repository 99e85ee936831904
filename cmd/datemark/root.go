package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wb-go/wbf/zlog"

	"github.com/aliskhannn/datemark/internal/config"
	"github.com/aliskhannn/datemark/internal/exifdate"
	"github.com/aliskhannn/datemark/internal/logger"
	"github.com/aliskhannn/datemark/internal/model"
	"github.com/aliskhannn/datemark/internal/processor"
	"github.com/aliskhannn/datemark/internal/scanner"
	"github.com/aliskhannn/datemark/internal/service/watermark"
	"github.com/aliskhannn/datemark/internal/storage/file"
)

// flagBindings maps CLI flags to config keys.
var flagBindings = map[string]string{
	"font-size":    "watermark.font_size",
	"color":        "watermark.color",
	"position":     "watermark.position",
	"margin":       "watermark.margin",
	"font-path":    "watermark.font_path",
	"recursive":    "watermark.recursive",
	"stroke-width": "watermark.stroke_width",
	"stroke-color": "watermark.stroke_color",
	"quality":      "output.jpeg_quality",
	"log-level":    "log.level",
	"log-file":     "log.file",
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stderr io.Writer) int {
	cmd := newRootCmd(afero.NewOsFs())
	cmd.SetArgs(args)
	cmd.SetErr(stderr)

	// Console logging until the config is loaded.
	logger.Init(logger.Options{Output: cmd.ErrOrStderr()})

	if err := cmd.ExecuteContext(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to run")
		return 1
	}
	return 0
}

func newRootCmd(fsys afero.Fs) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "datemark <path>",
		Short: "Stamp the capture date onto photos",
		Long: `Reads each image's capture date from EXIF (DateTimeOriginal, then DateTime,
then the file modification time) and draws it as YYYY-MM-DD text.
Watermarked copies are written to a _watermark directory next to each
source file, keeping the original name and format.`,
		Example: `  datemark photo.jpg
  datemark ./photos --recursive --position top-left --margin 10
  datemark ./photos --color orange --stroke-width 2 --font-path ./DejaVuSans.ttf`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.Int("font-size", 36, "font size in points")
	flags.String("color", "#FFFFFF", "text color: #RRGGBB, #RGB, #RRGGBBAA or a color name")
	flags.String("position", string(model.BottomRight), "watermark position: "+model.PositionList())
	flags.Int("margin", 20, "distance from the image edges in pixels")
	flags.String("font-path", "", "path to a .ttf/.otf font (built-in font when empty)")
	flags.BoolP("recursive", "r", false, "process subdirectories (directory input only)")
	flags.Int("stroke-width", 0, "outline radius in pixels (0 disables)")
	flags.String("stroke-color", "#000000", "outline color")
	flags.Int("quality", file.DefaultJPEGQuality, "JPEG output quality (1-100)")
	flags.String("log-level", "info", "log level: debug|info|warn|error")
	flags.String("log-file", "", "also write JSON logs to this rotated file")
	flags.StringVar(&configPath, "config", "", "config file (default ./config/config.yml if present)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		v, err := config.New()
		if err != nil {
			return err
		}
		if err := bindFlags(v, cmd); err != nil {
			return err
		}

		cfg, err := config.Load(v, configPath)
		if err != nil {
			return err
		}

		logger.Init(logger.Options{
			Level:  cfg.Log.Level,
			File:   cfg.Log.File,
			Output: cmd.ErrOrStderr(),
		})

		opts, err := cfg.Options()
		if err != nil {
			return err
		}

		return watermarkPath(cmd.Context(), fsys, args[0], opts)
	}

	return cmd
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagBindings {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// watermarkPath wires the pipeline and runs it over path.
func watermarkPath(ctx context.Context, fsys afero.Fs, path string, opts model.WatermarkOptions) error {
	log := zlog.Logger

	face, err := processor.LoadFace(fsys, opts.FontPath, float64(opts.FontSize))
	if err != nil {
		// The face returned alongside a FontLoadError is the built-in default.
		log.Warn().Err(err).Msg("font load failed, using default font")
	}

	storage := file.NewStorage(fsys, scanner.OutputDirName, opts.JPEGQuality)
	p := processor.New(storage, processor.NewRenderer(face))
	resolver := exifdate.New(fsys, log)
	svc := watermark.NewService(fsys, resolver, p, opts, log)

	_, err = svc.Run(ctx, path)
	return err
}
