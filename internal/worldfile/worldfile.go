// Package worldfile loads game worlds from the files an author writes. A world
// can be given as a single JSON, TOML, or YAML document, or as a directory of
// YAML files with one file per kind of record.
package worldfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/nightrunner/internal/world"
	"gopkg.in/yaml.v3"
)

// Format is an encoding a world can be written in.
type Format int

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatTOML
	FormatYAML
)

// TOMLHeader is the value that the optional 'format' key of a TOML world file
// must have if it is present.
const TOMLHeader = "NRW"

// ErrUnknownFormat is returned when the format of a world file cannot be
// determined.
var ErrUnknownFormat = errors.New("unknown world file format")

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// ParseFormat parses the name of a format. The names accepted are the ones
// returned by Format.String, plus "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "toml", "nrw":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// DetectFormat gives the format of the world at path based on its name. A
// directory is always FormatYAML.
func DetectFormat(path string) (Format, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FormatUnknown, err
	}
	if info.IsDir() {
		return FormatYAML, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml", ".nrw":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatUnknown, fmt.Errorf("%q: %w", path, ErrUnknownFormat)
	}
}

// Load reads the world at path and checks it. path may be a single world file
// or a directory of YAML files.
func Load(path string) (*world.Catalog, error) {
	def, err := LoadDefinition(path)
	if err != nil {
		return nil, err
	}

	cat, err := world.NewCatalog(def)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}
	return cat, nil
}

// LoadDefinition reads the world at path without checking the references
// between its records.
func LoadDefinition(path string) (world.Definition, error) {
	path = filepath.Clean(path)

	format, err := DetectFormat(path)
	if err != nil {
		return world.Definition{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return world.Definition{}, err
	}

	var doc worldDoc
	if info.IsDir() {
		doc, err = unmarshalYAMLDir(path)
		if err != nil {
			return world.Definition{}, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return world.Definition{}, fmt.Errorf("%q: reading from disk: %w", path, err)
		}
		doc, err = unmarshal(data, format)
		if err != nil {
			return world.Definition{}, fmt.Errorf("%q: %w", path, err)
		}
	}

	def, err := doc.toDefinition()
	if err != nil {
		return world.Definition{}, fmt.Errorf("%q: %w", path, err)
	}
	return def, nil
}

// ReadDocument reads the world at path as a single document that Parse
// accepts, along with the format it is in. A file is returned as it is on
// disk; a directory of YAML files is joined into one YAML document.
func ReadDocument(path string) ([]byte, Format, error) {
	path = filepath.Clean(path)

	format, err := DetectFormat(path)
	if err != nil {
		return nil, FormatUnknown, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, FormatUnknown, err
	}

	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, FormatUnknown, fmt.Errorf("%q: reading from disk: %w", path, err)
		}
		return data, format, nil
	}

	doc, err := unmarshalYAMLDir(path)
	if err != nil {
		return nil, FormatUnknown, err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, FormatUnknown, fmt.Errorf("%q: encoding YAML: %w", path, err)
	}
	return data, FormatYAML, nil
}

// Parse reads a world held in memory and checks it. Directory worlds cannot be
// given this way; a FormatYAML document must hold every record kind as a
// top-level key.
func Parse(data []byte, format Format) (*world.Catalog, error) {
	doc, err := unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	def, err := doc.toDefinition()
	if err != nil {
		return nil, err
	}
	return world.NewCatalog(def)
}

func unmarshal(data []byte, format Format) (worldDoc, error) {
	var doc worldDoc

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return worldDoc{}, fmt.Errorf("decoding JSON: %w", err)
		}
	case FormatYAML:
		if err := decodeYAML(bytes.NewReader(data), &doc); err != nil {
			return worldDoc{}, fmt.Errorf("decoding YAML: %w", err)
		}
	case FormatTOML:
		meta, err := toml.Decode(string(data), &doc)
		if err != nil {
			return worldDoc{}, fmt.Errorf("decoding TOML: %w", err)
		}
		if undec := meta.Undecoded(); len(undec) > 0 {
			return worldDoc{}, fmt.Errorf("decoding TOML: unknown key %q", undec[0].String())
		}
		if doc.Format != "" && !strings.EqualFold(doc.Format, TOMLHeader) {
			return worldDoc{}, fmt.Errorf("in header: 'format' must be %q if set", TOMLHeader)
		}
	default:
		return worldDoc{}, ErrUnknownFormat
	}

	return doc, nil
}

// decodeYAML decodes a single YAML document into v, rejecting keys that v has
// no field for. An empty document leaves v as-is.
func decodeYAML(r io.Reader, v interface{}) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// yamlDirFile is one of the files a directory world can hold. Each one is
// optional; names are tried in order and the first that exists is used.
type yamlDirFile struct {
	names  []string
	target func(doc *worldDoc) interface{}
}

var yamlDirFiles = []yamlDirFile{
	{names: []string{"verbs.yml", "allowed_verbs.yml"}, target: func(d *worldDoc) interface{} { return &d.AllowedVerbs }},
	{names: []string{"items.yml"}, target: func(d *worldDoc) interface{} { return &d.Items }},
	{names: []string{"subjects.yml"}, target: func(d *worldDoc) interface{} { return &d.Subjects }},
	{names: []string{"narratives.yml"}, target: func(d *worldDoc) interface{} { return &d.Narratives }},
	{names: []string{"events.yml"}, target: func(d *worldDoc) interface{} { return &d.Events }},
	{names: []string{"rooms.yml", "room_blueprints.yml"}, target: func(d *worldDoc) interface{} { return &d.Rooms }},
	{names: []string{"intro.yml"}, target: func(d *worldDoc) interface{} { return &d.Intro }},
	{names: []string{"start.yml"}, target: func(d *worldDoc) interface{} { return &d.StartRoom }},
}

func unmarshalYAMLDir(dir string) (worldDoc, error) {
	var doc worldDoc

	found := 0
	for _, f := range yamlDirFiles {
		for _, name := range f.names {
			p := filepath.Join(dir, name)
			data, err := os.ReadFile(p)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return worldDoc{}, fmt.Errorf("%q: reading from disk: %w", p, err)
			}

			if err := decodeYAML(bytes.NewReader(data), f.target(&doc)); err != nil {
				return worldDoc{}, fmt.Errorf("%q: decoding YAML: %w", p, err)
			}
			found++
			break
		}
	}

	if found == 0 {
		return worldDoc{}, fmt.Errorf("%q: directory does not contain any world files", dir)
	}

	return doc, nil
}
