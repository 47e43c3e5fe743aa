package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/BenJenkinson/react-spaces/pkg/errors"
)

// ReadTOML decodes and validates a TOML layout from r.
func ReadTOML(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return ParseTOML(data)
}

// ParseTOML decodes and validates a TOML layout.
func ParseTOML(data []byte) (*Document, error) {
	var doc Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode toml")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadJSON decodes and validates a JSON layout from r. The JSON form uses
// the json tags of [Document] and [Node]:
//
//	{
//	  "width": 800,
//	  "spaces": [
//	    {"id": "app", "type": "fixed", "height": 400},
//	    {"id": "side", "parent": "app", "type": "anchored", "anchor": "left", "size": "25%"}
//	  ]
//	}
//
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayout, err, "decode json")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Format names a layout encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported layout file %q (want .toml or .json)", filepath.Base(path))
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Document, error) {
	switch format {
	case FormatTOML:
		return ParseTOML(data)
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported layout format %q", format)
}

// Import reads the layout file at path. The error wraps the underlying
// cause with the file path for context.
func Import(path string) (*Document, []byte, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, nil, err
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	doc, err := Parse(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, data, nil
}
