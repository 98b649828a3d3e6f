// Package codec reads and writes graph records as JSON, YAML and graphology
// documents.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fmac99/threat-intel-poc/internal/graph"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatGraphology Format = "graphology"
)

// FormatForPath picks a record format from a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported record file extension %q", filepath.Ext(path))
	}
}

func EncodeJSON(w io.Writer, rec *graph.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// DecodeJSON validates the document against the record schema before
// decoding it. Every failure wraps graph.ErrMalformedRecord.
func DecodeJSON(r io.Reader) (*graph.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrMalformedRecord, err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var rec graph.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrMalformedRecord, err)
	}
	return &rec, nil
}

func EncodeYAML(w io.Writer, rec *graph.Record) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}

func DecodeYAML(r io.Reader) (*graph.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrMalformedRecord, err)
	}
	doc, err := normalize(generic)
	if err != nil {
		return nil, err
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var rec graph.Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", graph.ErrMalformedRecord, err)
	}
	return &rec, nil
}

// Encode writes g in the given format.
func Encode(w io.Writer, format Format, g *graph.Graph) error {
	switch format {
	case FormatJSON:
		return EncodeJSON(w, g.ToRecord())
	case FormatYAML:
		return EncodeYAML(w, g.ToRecord())
	case FormatGraphology:
		return EncodeGraphology(w, g)
	default:
		return fmt.Errorf("unsupported record format %q", format)
	}
}

// Decode reads a JSON or YAML record and rebuilds the graph.
func Decode(r io.Reader, format Format) (*graph.Graph, error) {
	var (
		rec *graph.Record
		err error
	)
	switch format {
	case FormatJSON:
		rec, err = DecodeJSON(r)
	case FormatYAML:
		rec, err = DecodeYAML(r)
	default:
		return nil, fmt.Errorf("cannot decode record format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return graph.NewFromRecord(rec)
}

// Save writes g to path, choosing the format from the extension.
func Save(path string, g *graph.Graph) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, format, g); err != nil {
		return fmt.Errorf("failed to encode graph: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads a graph saved by Save.
func Load(path string) (*graph.Graph, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return g, nil
}
