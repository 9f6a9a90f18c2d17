package contrib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for dataset files that are neither YAML
// nor JSON.
var ErrUnsupportedFormat = errors.New("contrib: unsupported dataset format")

// Format names a dataset file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".json"}
}

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// ParseFormat accepts "yaml", "yml" or "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// LoadFile reads a dataset file.
func LoadFile(path string) ([]Day, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("contrib: cannot read dataset file: %w", err)
	}
	days, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return days, nil
}

// Parse decodes a list of days. Both a bare list and a {days: [...]} document
// are accepted. Every date must be valid and no count may be negative.
func Parse(data []byte, format Format) ([]Day, error) {
	var (
		days []Day
		err  error
	)
	switch format {
	case FormatYAML:
		days, err = decode(data, yaml.Unmarshal)
	case FormatJSON:
		days, err = decode(data, json.Unmarshal)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("contrib: %s unmarshal: %w", format, err)
	}
	if err := Validate(days); err != nil {
		return nil, err
	}
	return days, nil
}

func decode(data []byte, unmarshal func([]byte, any) error) ([]Day, error) {
	var days []Day
	if err := unmarshal(data, &days); err == nil {
		return days, nil
	}
	var ds Dataset
	if err := unmarshal(data, &ds); err != nil {
		return nil, err
	}
	return ds.Days, nil
}

// Validate rejects unparsable dates and negative counts.
func Validate(days []Day) error {
	for i, d := range days {
		if _, err := ParseDate(d.Date); err != nil {
			return fmt.Errorf("contrib: day %d: %w", i, err)
		}
		if d.Count < 0 {
			return fmt.Errorf("contrib: day %d (%s): negative count %d", i, d.Date, d.Count)
		}
	}
	return nil
}

// Write encodes days to w.
func Write(w io.Writer, days []Day, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(Dataset{Days: days}); err != nil {
			return fmt.Errorf("contrib: cannot encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(days); err != nil {
			return fmt.Errorf("contrib: cannot encode json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}
