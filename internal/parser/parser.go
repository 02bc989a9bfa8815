package parser

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/komodelgen/pkg/generator"
	"github.com/cmmoran/komodelgen/pkg/model"
)

// Format is the encoding of a model document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var (
	ErrUnknownFormat        = errors.New("unknown model document format")
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrBadTypeExpression    = errors.New("bad type expression")
)

// FormatOf picks a Format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.WithHint(
		errors.Wrapf(ErrUnknownFormat, "%q", path),
		"use a .yaml, .yml, .json or .toml model document",
	)
}

// Parser holds the results of loading one model document.
type Parser struct {
	Doc        Document
	Model      *model.Model
	Tags       *generator.TagRegistry
	Converters *generator.Converters
}

// ParseFile loads the model document at path.
func ParseFile(path string) (*Parser, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read model document")
	}
	p, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return p, nil
}

// Parse decodes data and builds the model, its style tags and converters.
func Parse(data []byte, format Format) (*Parser, error) {
	var doc Document
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "unmarshal yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "unmarshal json")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(err, "unmarshal toml")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	return FromDocument(doc)
}

// FromDocument builds the model described by doc.
func FromDocument(doc Document) (*Parser, error) {
	p := &Parser{
		Doc:        doc,
		Model:      model.New(),
		Tags:       generator.NewTagRegistry(),
		Converters: generator.NewConverters(),
	}
	for host, name := range doc.Converters {
		p.Converters.RegisterAs(host, name)
	}

	b := newBuilder(p)
	if err := b.buildAll(); err != nil {
		return nil, err
	}
	return p, nil
}
