// Package scanner finds the image files a run should watermark.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/aliskhannn/datemark/internal/model"
)

// OutputDirName is the directory watermarked copies are written to.
// Directories with this name are never scanned.
const OutputDirName = "_watermark"

// imageExts contains the extensions the codec can both decode and encode.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// IsImage reports whether name has a supported image extension.
func IsImage(name string) bool {
	return imageExts[strings.ToLower(filepath.Ext(name))]
}

// InOutputDir reports whether any element of path is OutputDirName.
func InOutputDir(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(filepath.Clean(path)), "/") {
		if part == OutputDirName {
			return true
		}
	}
	return false
}

// Root describes the path a run was started on.
type Root struct {
	Path    string // absolute
	IsDir   bool
	BaseDir string // Path itself for directories, its parent for files
}

// Resolve checks that path exists and returns its absolute form.
func Resolve(fsys afero.Fs, path string) (Root, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Root{}, fmt.Errorf("resolve %s: %w", path, err)
	}

	info, err := fsys.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Root{}, &model.PathNotFoundError{Path: path}
		}
		return Root{}, fmt.Errorf("stat %s: %w", path, err)
	}

	root := Root{Path: abs, IsDir: info.IsDir(), BaseDir: abs}
	if !root.IsDir {
		root.BaseDir = filepath.Dir(abs)
	}

	return root, nil
}

// InOutputDir reports whether the root is, or lies inside, an OutputDirName
// directory. Such roots hold previous outputs and yield nothing.
func (r Root) InOutputDir() bool {
	return InOutputDir(r.BaseDir)
}

// errStop aborts the walk when the consumer stops iterating.
var errStop = errors.New("scanner: stop")

// Enumerate lazily yields the candidate files under root in lexical order.
//
// A file root yields just that file. A directory root yields its images,
// descending into subdirectories only when recursive is set, and always
// skipping OutputDirName directories. A root inside an OutputDirName
// directory yields nothing. Symlinks are followed to regular files only.
// Walk errors are yielded with the offending path and the walk carries on.
func Enumerate(fsys afero.Fs, root Root, recursive bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if root.InOutputDir() {
			return
		}

		if !root.IsDir {
			yield(root.Path, nil)
			return
		}

		err := afero.Walk(fsys, root.Path, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				if !yield(path, fmt.Errorf("walk %s: %w", path, err)) {
					return errStop
				}
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if info.IsDir() {
				if path == root.Path {
					return nil
				}
				if info.Name() == OutputDirName || !recursive {
					return filepath.SkipDir
				}
				return nil
			}

			if !IsImage(info.Name()) {
				return nil
			}

			mode := info.Mode()
			if mode&os.ModeSymlink != 0 {
				target, err := fsys.Stat(path)
				if err != nil {
					if !yield(path, fmt.Errorf("follow symlink %s: %w", path, err)) {
						return errStop
					}
					return nil
				}
				mode = target.Mode()
			}

			if !mode.IsRegular() {
				return nil
			}

			if !yield(path, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) && !errors.Is(err, filepath.SkipDir) {
			yield(root.Path, fmt.Errorf("walk %s: %w", root.Path, err))
		}
	}
}
