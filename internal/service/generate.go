// Package service contains the business logic of the formatting service.
// Services validate inputs and produce documents; storage goes through repo
// interfaces, never concrete implementations.
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/pfscgen/internal/domain"
)

// GenerateService turns file_sd records into a configuration document.
type GenerateService struct{}

// NewGenerateService constructs a GenerateService.
func NewGenerateService() *GenerateService {
	return &GenerateService{}
}

// Generate renders records as a JSON (default) or YAML file_sd document.
// Target strings are not validated; an empty record list is.
func (s *GenerateService) Generate(ctx context.Context, records []domain.Record, format domain.Format) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("service.GenerateService.Generate: %w: at least one target group is required", domain.ErrValidation)
	}

	doc := normalize(records)

	var (
		out []byte
		err error
	)
	switch format {
	case domain.FormatYAML:
		out, err = encodeYAML(doc)
	case "", domain.FormatJSON:
		out, err = encodeJSON(doc)
	default:
		return "", fmt.Errorf("service.GenerateService.Generate: %w: unknown format %q", domain.ErrValidation, format)
	}
	if err != nil {
		return "", fmt.Errorf("service.GenerateService.Generate: encode %s: %w", format, err)
	}
	return string(out), nil
}

// normalize replaces nil slices and maps so they encode as [] and {}.
func normalize(records []domain.Record) []domain.Record {
	out := make([]domain.Record, len(records))
	for i, r := range records {
		if r.Targets == nil {
			r.Targets = []string{}
		}
		if r.Labels == nil {
			r.Labels = map[string]string{}
		}
		out[i] = r
	}
	return out
}

// encodeJSON indents with two spaces and leaves <, > and & unescaped; the
// document is a config file, not HTML.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func encodeYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
