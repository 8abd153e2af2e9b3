package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is a policy file: the policy to apply and the processors it may
// refer to.
//
//	policy:
//	  id: vendor-night
//	  processor: night
//	  postview_supported: true
//	processors:
//	  - id: night
//	    operations: [zoom, torch]
type Document struct {
	Policy     Config          `yaml:"policy"`
	Processors []ProcessorSpec `yaml:"processors,omitempty"`
}

// ProcessorSpec declares a StaticProcessor.
type ProcessorSpec struct {
	ID         string      `yaml:"id"`
	Operations []Operation `yaml:"operations,omitempty"`
}

// ParseYAML parses a policy document. Unknown fields are rejected.
func ParseYAML(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing policy document: %w: empty document", ErrInvalidConfig)
		}
		return nil, fmt.Errorf("parsing policy document: %w", err)
	}
	if err := doc.Policy.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadFile reads and parses a policy document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseYAML(data)
}

// Registry builds a registry holding the document's processors.
func (d *Document) Registry() (*Registry, error) {
	r := NewRegistry()
	for _, spec := range d.Processors {
		if err := r.Register(NewProcessor(spec.ID, spec.Operations...)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Marshal encodes the document as YAML.
func (d *Document) Marshal() ([]byte, error) {
	return yaml.Marshal(d)
}
