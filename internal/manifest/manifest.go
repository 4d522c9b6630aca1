package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/timebombs"
	"github.com/oshokin/timebombs/internal/timeparsing"
)

// Entry declares one timebomb.
type Entry struct {
	// ID is an optional identifier, e.g. a ticket number.
	ID string `toml:"id" yaml:"id,omitempty"`
	// Deadline is the ISO-8601 exploding instant.
	Deadline string `toml:"deadline" yaml:"deadline"`
	// Arming is an optional ISO-8601 arming instant.
	Arming string `toml:"arming" yaml:"arming,omitempty"`
	// Description tells what has to be done before the deadline.
	Description string `toml:"description" yaml:"description"`
}

// Document is the top-level manifest layout.
type Document struct {
	Timebombs []Entry `toml:"timebombs" yaml:"timebombs"`
}

// Format is a manifest encoding.
type Format string

const (
	// FormatYAML is selected by the .yaml and .yml extensions.
	FormatYAML Format = "yaml"
	// FormatTOML is selected by the .toml extension.
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for a file extension no decoder handles.
var ErrUnsupportedFormat = errors.New("unsupported manifest format")

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Decode parses a manifest in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)

		// An empty file decodes to an empty manifest.
		if err := decoder.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml manifest: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("decode toml manifest: %w", err)
		}

		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("decode toml manifest: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	return &doc, nil
}

// Registry builds a registry from the document's entries.
// Naive deadline and arming text is read in local time.
func (d *Document) Registry() (*timebombs.Registry, error) {
	registry := timebombs.NewRegistry()

	for i, entry := range d.Timebombs {
		opts := []timebombs.Option{timebombs.WithRegistry(registry)}

		if entry.Arming != "" {
			armingAt, err := timeparsing.ParseISO(entry.Arming, time.Local)
			if err != nil {
				return nil, fmt.Errorf("timebomb #%d arming: %w", i+1, err)
			}

			opts = append(opts, timebombs.WithArmingAt(armingAt))
		}

		if _, err := timebombs.NewMarker(entry.ID, timebombs.On(entry.Deadline), entry.Description, opts...); err != nil {
			return nil, fmt.Errorf("timebomb #%d: %w", i+1, err)
		}
	}

	return registry, nil
}

// Load reads the manifest at path and builds its registry.
func Load(path string) (*timebombs.Registry, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	doc, err := Decode(contents, format)
	if err != nil {
		return nil, err
	}

	return doc.Registry()
}
