package builder

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mywio/odyssey-build/pkg/config"
	"github.com/mywio/odyssey-build/pkg/core"
)

// Result describes a finished build.
type Result struct {
	OutputDir    string        // Directory holding the staged site.
	Files        []string      // Paths written or copied at the top level of OutputDir.
	Replacements int           // Placeholder occurrences replaced in the template.
	AssetsCopied bool          // Whether the asset tree was present and copied.
	Entries      int           // Files and directories under OutputDir.
	Warnings     []string      // Non-fatal conditions raised during the build.
	Duration     time.Duration // Wall time of the build.
}

// Builder runs the staging steps for one configuration and secret.
type Builder struct {
	cfg    config.Config
	secret core.Secret
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger
	now    func() time.Time
}

// Option customizes a Builder.
type Option func(*Builder)

// WithOutput sets the writers for progress lines and for warnings.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(b *Builder) {
		b.out = stdout
		b.errOut = stderr
	}
}

// WithLogger sets the structured logger used for debug detail.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// New returns a Builder for cfg that injects secret.
func New(cfg config.Config, secret core.Secret, opts ...Option) *Builder {
	b := &Builder{
		cfg:    cfg,
		secret: secret,
		out:    os.Stdout,
		errOut: os.Stderr,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("component", "builder")
	return b
}

// Run executes the build steps in order and stops at the first error. The
// output directory is not touched unless the secret is present and the
// output location is safe to wipe.
func (b *Builder) Run() (*Result, error) {
	start := b.now()

	if b.secret.Empty() {
		return nil, ErrEmptySecret
	}
	b.progress("Building with API key: %s", b.secret.Preview(b.cfg.PreviewLen))

	if err := checkOutputDir(b.cfg); err != nil {
		return nil, err
	}

	res := &Result{OutputDir: b.cfg.OutputDir}

	b.logger.Debug("preparing output", "dir", b.cfg.OutputDir)
	if err := PrepareOutput(b.cfg.OutputDir); err != nil {
		return nil, err
	}

	b.logger.Debug("loading template", "path", b.cfg.TemplatePath)
	text, err := LoadTemplate(b.cfg.TemplatePath)
	if err != nil {
		return nil, err
	}

	text, n, err := Inject(text, b.cfg.Placeholder, b.secret.Value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.cfg.TemplatePath, err)
	}
	res.Replacements = n
	b.logger.Debug("placeholder replaced", "placeholder", b.cfg.Placeholder, "count", n)

	name := filepath.Base(b.cfg.TemplatePath)
	dest := filepath.Join(b.cfg.OutputDir, name)
	if err := WriteTemplate(dest, text); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, dest)
	b.progress("✓ Created %s with injected API key", displayPath(b.cfg.OutputDir, name))

	dest, err = CopySidecar(b.cfg.SidecarPath, b.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, dest)
	b.logger.Debug("copy", "src", b.cfg.SidecarPath, "dest", dest)
	b.progress("✓ Copied %s", filepath.Base(b.cfg.SidecarPath))

	assetsName := filepath.Base(filepath.Clean(b.cfg.AssetsDir))
	dest, copied, err := CopyAssets(b.cfg.AssetsDir, b.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	if copied {
		res.AssetsCopied = true
		res.Files = append(res.Files, dest)
		b.logger.Debug("copy", "src", b.cfg.AssetsDir, "dest", dest, "dir", true)
		b.progress("✓ Copied %s/ directory", assetsName)
	} else {
		b.warn("%s/ directory not found", assetsName)
		res.Warnings = append(res.Warnings, fmt.Sprintf("%s/ directory not found", assetsName))
	}

	entries, err := CountEntries(b.cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	res.Entries = entries
	res.Duration = b.now().Sub(start)

	b.progress("\n✅ Build complete! Output in %s/ directory", filepath.Clean(b.cfg.OutputDir))
	b.progress("   Files created: %d total", entries)

	b.logger.Debug("build finished", "entries", entries, "duration", res.Duration)
	return res, nil
}

func (b *Builder) progress(format string, args ...any) {
	fmt.Fprintf(b.out, format+"\n", args...)
}

func (b *Builder) warn(format string, args ...any) {
	fmt.Fprintf(b.errOut, "WARNING: "+format+"\n", args...)
}

func displayPath(dir, name string) string {
	return filepath.ToSlash(filepath.Join(dir, name))
}

// checkOutputDir rejects output locations whose removal would destroy the
// working directory, the filesystem root, or the build inputs.
func checkOutputDir(cfg config.Config) error {
	out, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUnsafeOutput, cfg.OutputDir, err)
	}

	if out == filepath.Dir(out) {
		return fmt.Errorf("%w: %s is the filesystem root", ErrUnsafeOutput, cfg.OutputDir)
	}
	if wd, err := os.Getwd(); err == nil && within(wd, out) {
		return fmt.Errorf("%w: %s contains the working directory", ErrUnsafeOutput, cfg.OutputDir)
	}

	for _, input := range []string{cfg.TemplatePath, cfg.SidecarPath, cfg.AssetsDir} {
		abs, err := filepath.Abs(input)
		if err != nil {
			continue
		}
		if within(abs, out) || within(out, abs) {
			return fmt.Errorf("%w: %s overlaps build input %s", ErrUnsafeOutput, cfg.OutputDir, input)
		}
	}
	return nil
}

// within reports whether path equals dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
