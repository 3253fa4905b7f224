package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/sitepack/internal/config"
	foundationerrors "git.home.luguber.info/inful/sitepack/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepack/internal/frontmatter"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force     bool `help:"Overwrite existing configuration file"`
	NoContent bool `name:"no-content" help:"Only write the configuration file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	out := root.outWriter()
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", root.Config)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	if !i.NoContent {
		cfg := config.Default(filepath.Dir(root.Config))
		page, err := scaffoldIndex(cfg)
		if err != nil {
			return err
		}
		if page != "" {
			_, _ = fmt.Fprintf(out, "Created %s\n", page)
		}
	}
	_, _ = fmt.Fprintln(out, "Initialized successfully")
	return nil
}

// scaffoldIndex writes content/index.md unless it already exists. It returns
// the path written, or "" when nothing was written.
func scaffoldIndex(cfg *config.Config) (string, error) {
	path := filepath.Join(cfg.ResolvePath(cfg.Site.ContentDir), "index.md")
	if _, err := os.Stat(path); err == nil {
		return "", nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to inspect content directory").
			WithContext("path", path).
			Build()
	}

	header, err := frontmatter.SerializeYAML(map[string]any{"title": "Home"})
	if err != nil {
		return "", err
	}
	body := []byte("# Welcome\n\nEdit this page in content/index.md.\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to create content directory").
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, frontmatter.Join(header, body), 0o600); err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to write starter page").
			WithContext("path", path).
			Build()
	}
	return path, nil
}
