package render

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sisugv/sisugv/pkg/errors"
)

// Format is an image format the DOT output can be rendered to.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// Formats lists the supported render formats.
var Formats = []Format{FormatSVG, FormatPNG}

// ParseFormats parses a list of format names such as ["svg", "png"] or
// ["svg,png"]. Duplicates are dropped; order is preserved. Unknown names
// are a CONFIG_ERROR.
func ParseFormats(names []string) ([]Format, error) {
	var out []Format
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			f := Format(strings.ToLower(strings.TrimSpace(part)))
			if f == "" {
				continue
			}
			if !slices.Contains(Formats, f) {
				return nil, errors.New(errors.ErrCodeConfig, "unknown render format %q (want svg or png)", part)
			}
			if !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// SiblingPath returns path with its extension replaced by ext
// (e.g. "out/prog.gv", "svg" -> "out/prog.svg").
func SiblingPath(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + "." + ext
}

// WriteFile writes data to path through a temporary file in the same
// directory followed by a rename, so path holds either the complete data
// or its previous content. Failures are IO_ERROR coded errors.
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "cannot write %s", path)
	}
	return nil
}

// String returns the format name.
func (f Format) String() string { return string(f) }

