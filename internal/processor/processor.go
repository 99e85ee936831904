package processor

import (
	"context"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"

	"github.com/aliskhannn/datemark/internal/model"
)

// fileStorage defines the interface for reading sources and persisting
// watermarked copies.
type fileStorage interface {
	Open(path string) (io.ReadCloser, error)
	Save(sourcePath string, img image.Image) (string, error)
}

// Processor watermarks a single image: load, decode, draw and save.
type Processor struct {
	fileStorage fileStorage
	renderer    *Renderer
}

// New creates a new Processor with the given storage backend and renderer.
func New(fs fileStorage, r *Renderer) *Processor {
	return &Processor{fileStorage: fs, renderer: r}
}

// Process watermarks task.SourcePath with task.Date. Failures are reported
// in the returned Result rather than as an error, so one bad file never
// stops a batch.
func (p *Processor) Process(ctx context.Context, task model.ImageTask) model.Result {
	res := model.Result{Task: task}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	if _, err := imaging.FormatFromFilename(task.SourcePath); err != nil {
		res.Err = &model.UnsupportedFormatError{Path: task.SourcePath, Err: err}
		return res
	}

	img, err := p.decode(task.SourcePath)
	if err != nil {
		res.Err = err
		return res
	}

	marked, _ := p.renderer.Render(img, task.Date, task.Options)

	dst, err := p.fileStorage.Save(task.SourcePath, marked)
	if err != nil {
		res.Err = fmt.Errorf("failed to save watermarked image: %w", err)
		return res
	}

	res.Output = dst
	return res
}

// decode loads the original image from storage. The file handle is released
// before returning.
func (p *Processor) decode(path string) (image.Image, error) {
	src, err := p.fileStorage.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load original image: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return nil, &model.UnsupportedFormatError{Path: path, Err: err}
	}

	return img, nil
}
