package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	dirMode  os.FileMode = 0755
	fileMode os.FileMode = 0644
)

// Copy options shared by the sidecar and asset steps. Symlinks are followed
// so the output never points back into the source tree.
var copyOptions = copy.Options{
	PreserveTimes: true,
	OnSymlink: func(string) copy.SymlinkAction {
		return copy.Deep
	},
}

// PrepareOutput removes dir and everything under it if it exists, then
// creates it empty.
func PrepareOutput(dir string) error {
	if _, err := os.Lstat(dir); err == nil {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("%w: remove %s: %v", ErrFileSystemOperation, dir, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: stat %s: %v", ErrFileSystemOperation, dir, err)
	}

	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrFileSystemOperation, dir, err)
	}
	return nil
}

// LoadTemplate reads the whole template and checks that it is valid UTF-8.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read template: %w", ErrFileSystemOperation, err)
	}

	text, _, err := transform.String(encoding.UTF8Validator, string(data))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrEncoding, path, err)
	}
	return text, nil
}

// Inject replaces every occurrence of placeholder in text with value and
// returns the result together with the number of replacements. It is a
// literal replace: value is neither escaped nor inspected.
func Inject(text, placeholder, value string) (string, int, error) {
	if placeholder == "" {
		return "", 0, fmt.Errorf("%w: empty placeholder", ErrPlaceholderNotFound)
	}
	n := strings.Count(text, placeholder)
	if n == 0 {
		return "", 0, fmt.Errorf("%w: '%s'", ErrPlaceholderNotFound, placeholder)
	}
	return strings.ReplaceAll(text, placeholder, value), n, nil
}

// WriteTemplate writes text to path as UTF-8.
func WriteTemplate(path, text string) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrFileSystemOperation, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %v", ErrFileSystemOperation, path, cerr)
		}
	}()

	w := transform.NewWriter(f, encoding.UTF8Validator)
	if _, err := w.Write([]byte(text)); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncoding, path, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrEncoding, path, err)
	}
	return nil
}

// CopySidecar copies the file at src into outDir under its base name,
// keeping its permissions and modification time. A missing src is an error.
func CopySidecar(src, outDir string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCopy, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrCopy, src)
	}

	dest := filepath.Join(outDir, filepath.Base(src))
	if err := copy.Copy(src, dest, copyOptions); err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrCopy, src, err)
	}
	return dest, nil
}

// CopyAssets copies the directory tree at src into outDir under its base
// name. It reports false without error when src does not exist.
func CopyAssets(src, outDir string) (string, bool, error) {
	info, err := os.Stat(src)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrCopy, err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("%w: %s is not a directory", ErrCopy, src)
	}

	dest := filepath.Join(outDir, filepath.Base(filepath.Clean(src)))
	if err := copy.Copy(src, dest, copyOptions); err != nil {
		return "", false, fmt.Errorf("%w: %s: %w", ErrCopy, src, err)
	}
	return dest, true, nil
}

// CountEntries returns the number of files and directories below dir,
// not counting dir itself.
func CountEntries(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: walk %s: %v", ErrFileSystemOperation, dir, err)
	}
	return count, nil
}
