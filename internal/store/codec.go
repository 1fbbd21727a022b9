// Package store persists whole collections. A Backend moves raw bytes by
// name, a Codec turns values into bytes, and Collection / Document tie the
// two together for a concrete element type. Every write replaces the prior
// contents; there is no append or partial update.
package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Codec serializes collections in one file format.
type Codec interface {
	Name() string
	Extension() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// CodecFor returns the codec for a format name (json or yaml, case-insensitive).
func CodecFor(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case FormatJSON:
		return JSONCodec{}, nil
	case FormatYAML, "yml":
		return YAMLCodec{}, nil
	}
	return nil, fmt.Errorf("unsupported storage format %q", format)
}

// JSONCodec writes indented JSON.
type JSONCodec struct{}

func (JSONCodec) Name() string      { return FormatJSON }
func (JSONCodec) Extension() string { return ".json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// YAMLCodec writes YAML documents.
type YAMLCodec struct{}

func (YAMLCodec) Name() string      { return FormatYAML }
func (YAMLCodec) Extension() string { return ".yaml" }

func (YAMLCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
