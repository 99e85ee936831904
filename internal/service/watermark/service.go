package watermark

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/aliskhannn/datemark/internal/model"
	"github.com/aliskhannn/datemark/internal/scanner"
)

// dateResolver resolves the capture date of a file.
type dateResolver interface {
	Resolve(path string) string
}

// imageProcessor watermarks a single task.
type imageProcessor interface {
	Process(ctx context.Context, task model.ImageTask) model.Result
}

// Summary aggregates the results of a run.
type Summary struct {
	Total     int
	Processed int
	Skipped   int
	ByStatus  map[model.Status]int
}

func (s *Summary) add(res model.Result) {
	if s.ByStatus == nil {
		s.ByStatus = make(map[model.Status]int)
	}

	s.Total++
	s.ByStatus[res.Status()]++
	if res.OK() {
		s.Processed++
	} else {
		s.Skipped++
	}
}

// Service drives a watermarking run over a file or directory.
type Service struct {
	fs        afero.Fs
	resolver  dateResolver
	processor imageProcessor
	opts      model.WatermarkOptions
	log       zerolog.Logger
}

// NewService creates a new Service.
func NewService(fs afero.Fs, r dateResolver, p imageProcessor, opts model.WatermarkOptions, log zerolog.Logger) *Service {
	return &Service{
		fs:        fs,
		resolver:  r,
		processor: p,
		opts:      opts,
		log:       log,
	}
}

// Run watermarks every image under path.
//
// Only invocation-level problems, such as a missing root, are returned as
// errors. Per-file failures are logged and counted in the Summary. When ctx
// is cancelled the run stops after the file in flight.
func (s *Service) Run(ctx context.Context, path string) (Summary, error) {
	var sum Summary

	root, err := scanner.Resolve(s.fs, path)
	if err != nil {
		return sum, err
	}

	if root.InOutputDir() {
		s.log.Warn().
			Str("source", root.Path).
			Msg("source is inside an output directory, nothing to do")
	}

	s.log.Info().
		Str("source", root.BaseDir).
		Str("output", filepath.Join(root.BaseDir, scanner.OutputDirName)).
		Bool("recursive", s.opts.Recursive).
		Msg("starting")

	for file, walkErr := range scanner.Enumerate(s.fs, root, s.opts.Recursive) {
		if ctx.Err() != nil {
			s.log.Info().Msg("shutdown signal received, stopping")
			break
		}

		if walkErr != nil {
			s.log.Warn().Err(walkErr).Str("file", file).Msg("failed to scan")
			continue
		}

		res := s.processFile(ctx, file)
		sum.add(res)
		s.report(res)
	}

	if sum.Total == 0 {
		s.log.Info().Msg("no images found to process")
	}

	s.log.Info().
		Int("processed", sum.Processed).
		Int("skipped", sum.Skipped).
		Int("total", sum.Total).
		Msg("done")

	return sum, nil
}

func (s *Service) processFile(ctx context.Context, file string) model.Result {
	task := model.NewImageTask(file, s.resolver.Resolve(file), s.opts)
	return s.processor.Process(ctx, task)
}

func (s *Service) report(res model.Result) {
	if res.OK() {
		s.log.Info().
			Str("id", res.Task.ID.String()).
			Str("file", res.Task.SourcePath).
			Str("output", res.Output).
			Str("date", res.Task.Date).
			Msg("watermarked")
		return
	}

	s.log.Warn().
		Str("id", res.Task.ID.String()).
		Str("file", res.Task.SourcePath).
		Str("reason", string(res.Status())).
		Err(res.Err).
		Msg("skipped")
}
