package site

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitepack/internal/config"
	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepack/internal/frontmatter"
	"git.home.luguber.info/inful/sitepack/internal/logfields"
	"git.home.luguber.info/inful/sitepack/internal/metrics"
)

// Builder renders one site. Builds are serialized.
type Builder struct {
	title      string
	contentDir string
	staticDir  string
	outputDir  string

	md       goldmark.Markdown
	recorder metrics.Recorder
	logger   *slog.Logger

	mu sync.Mutex
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder for build durations.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithLogger sets the builder logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithOutputDir overrides the configured output directory.
func WithOutputDir(dir string) Option {
	return func(b *Builder) {
		if dir != "" {
			b.outputDir = dir
		}
	}
}

// NewBuilder creates a builder for the site described by cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		title:      cfg.Site.Title,
		contentDir: cfg.ResolvePath(cfg.Site.ContentDir),
		staticDir:  cfg.ResolvePath(cfg.Site.StaticDir),
		outputDir:  cfg.ResolvePath(cfg.Site.OutputDir),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if abs, err := filepath.Abs(b.outputDir); err == nil {
		b.outputDir = abs
	}
	return b
}

// OutputDir returns the directory the site is written to.
func (b *Builder) OutputDir() string {
	return b.outputDir
}

// ContentDir returns the Markdown source directory.
func (b *Builder) ContentDir() string {
	return b.contentDir
}

// StaticDir returns the directory copied verbatim into the output.
func (b *Builder) StaticDir() string {
	return b.staticDir
}

// Build renders the site into a fresh staging directory and swaps it into
// place. buildID tags the output; an empty buildID gets a new UUID.
func (b *Builder) Build(ctx context.Context, buildID string) (*Report, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if buildID == "" {
		buildID = uuid.NewString()
	}
	report := &Report{BuildID: buildID, OutputDir: b.outputDir, Start: time.Now()}
	logger := b.logger.With(logfields.BuildID(buildID))
	logger.Info("Building site", logfields.Path(b.contentDir))

	err := b.build(ctx, report, logger)
	report.End = time.Now()
	b.recorder.ObserveSiteBuild(report.Duration(), metrics.ResultFor(err))

	switch {
	case err == nil:
		report.Outcome = OutcomeSuccess
		logger.Info("Site built",
			logfields.Pages(report.Pages),
			slog.Int("static_files", report.StaticFiles),
			logfields.Path(b.outputDir),
			logfields.DurationMS(float64(report.Duration().Milliseconds())))
		return report, nil
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		report.Outcome = OutcomeCanceled
	default:
		report.Outcome = OutcomeFailed
	}
	return report, err
}

func (b *Builder) build(ctx context.Context, report *Report, logger *slog.Logger) error {
	staging := b.outputDir + ".staging"
	if err := os.RemoveAll(staging); err != nil {
		return fsError(err, "failed to clear staging directory", staging)
	}
	if err := os.MkdirAll(staging, 0o750); err != nil {
		return fsError(err, "failed to create staging directory", staging)
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging)
		}
	}()

	statics, err := b.copyStatic(ctx, staging)
	if err != nil {
		return err
	}
	report.StaticFiles = statics

	styles, scripts, err := b.assets()
	if err != nil {
		return err
	}

	if err := b.renderPages(ctx, staging, report, styles, scripts, logger); err != nil {
		return err
	}

	if err := os.RemoveAll(b.outputDir); err != nil {
		return fsError(err, "failed to remove previous output", b.outputDir)
	}
	if err := os.Rename(staging, b.outputDir); err != nil {
		return fsError(err, "failed to promote staging directory", b.outputDir)
	}
	committed = true
	return nil
}

func (b *Builder) renderPages(ctx context.Context, dst string, report *Report, styles, scripts []string, logger *slog.Logger) error {
	if _, err := os.Stat(b.contentDir); errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Content directory does not exist, building static files only", logfields.Path(b.contentDir))
		return nil
	}

	// output page path -> content path that produced it
	claimed := make(map[string]string)
	return filepath.WalkDir(b.contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fsError(err, "failed to walk content directory", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(path) {
			return nil
		}

		rel, err := filepath.Rel(b.contentDir, path)
		if err != nil {
			return fsError(err, "failed to resolve page path", path)
		}
		rendered, draft, err := b.renderPage(path, report.BuildID, styles, scripts)
		if err != nil {
			return err
		}
		if draft {
			report.Drafts++
			logger.Debug("Skipping draft", logfields.Path(rel))
			return nil
		}

		page := PagePath(rel)
		if prev, ok := claimed[page]; ok {
			return foundationerrors.NewError(foundationerrors.CategoryBuild, "pages map to the same output file").
				WithContext("output", page).
				WithContext("first", prev).
				WithContext("second", rel).
				Build()
		}
		claimed[page] = rel

		out := filepath.Join(dst, page)
		if err := os.MkdirAll(filepath.Dir(out), 0o750); err != nil {
			return fsError(err, "failed to create page directory", out)
		}
		if err := os.WriteFile(out, rendered, 0o600); err != nil {
			return fsError(err, "failed to write page", out)
		}
		report.Pages++
		logger.Debug("Rendered page", logfields.Path(rel))
		return nil
	})
}

func (b *Builder) renderPage(path, buildID string, styles, scripts []string) ([]byte, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fsError(err, "failed to read page", path)
	}
	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, false, foundationerrors.WrapError(err, foundationerrors.CategoryBuild, "invalid page frontmatter").
			WithContext("path", path).
			Build()
	}
	if meta.Draft {
		return nil, true, nil
	}

	var content bytes.Buffer
	if err := b.md.Convert(body, &content); err != nil {
		return nil, false, foundationerrors.WrapError(err, foundationerrors.CategoryBuild, "failed to render markdown").
			WithContext("path", path).
			Build()
	}

	title := meta.Title
	if title == "" {
		title = titleFromPath(path)
	}

	var out bytes.Buffer
	err = renderLayout(&out, pageData{
		Title:     title,
		SiteTitle: b.title,
		BuildID:   buildID,
		// #nosec G203 -- goldmark output of local content
		Content: template.HTML(content.String()),
		Styles:  styles,
		Scripts: scripts,
	})
	if err != nil {
		return nil, false, foundationerrors.WrapError(err, foundationerrors.CategoryInternal, "failed to execute page layout").
			WithContext("path", path).
			Build()
	}
	return out.Bytes(), false, nil
}

func (b *Builder) copyStatic(ctx context.Context, dst string) (int, error) {
	if _, err := os.Stat(b.staticDir); errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}

	count := 0
	err := filepath.WalkDir(b.staticDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fsError(err, "failed to walk static directory", path)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(b.staticDir, path)
		if err != nil {
			return fsError(err, "failed to resolve static path", path)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return fsError(err, "failed to create static directory", target)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(path, target); err != nil {
			return fsError(err, "failed to copy static file", path)
		}
		count++
		return nil
	})
	return count, err
}

// assets lists top-level stylesheets and scripts in the static directory,
// which is where bundler output is expected to land.
func (b *Builder) assets() (styles, scripts []string, err error) {
	entries, err := os.ReadDir(b.staticDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fsError(err, "failed to list static directory", b.staticDir)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".css":
			styles = append(styles, "/"+e.Name())
		case ".js":
			scripts = append(scripts, "/"+e.Name())
		}
	}
	return styles, scripts, nil
}

// PagePath maps a content-relative Markdown path to its output HTML path.
// index.md and _index.md become the directory's index.html.
func PagePath(rel string) string {
	dir, file := filepath.Split(rel)
	name := strings.TrimSuffix(file, filepath.Ext(file))
	if name == "index" || name == "_index" {
		return filepath.Join(dir, "index.html")
	}
	return filepath.Join(dir, name+".html")
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func titleFromPath(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "index" || name == "_index" {
		return ""
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func fsError(err error, msg, path string) error {
	return foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, msg).
		WithContext("path", path).
		Build()
}
