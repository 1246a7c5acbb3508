package contentmodel

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// A content model file looks like:
//
//	content_types:
//	  news:
//	    api_endpoint: /posts
//	    content_fields:
//	      title:
//	        type: plaintext
//	      gallery:
//	        type: array
//	        content_fields:
//	          image:
//	            type: image
//
// Mappings are read as yaml.Node so field order follows the file.

type rawModel struct {
	ContentTypes yaml.Node `yaml:"content_types"`
}

type rawContentType struct {
	APIEndpoint   string    `yaml:"api_endpoint" validate:"required"`
	ContentFields yaml.Node `yaml:"content_fields" validate:"-"`
}

type rawField struct {
	Type          string         `yaml:"type" validate:"required"`
	Options       map[string]any `yaml:"options" validate:"-"`
	ContentFields yaml.Node      `yaml:"content_fields" validate:"-"`
}

var validate = validator.New()

// LoadFile reads a content model from a YAML file.
func LoadFile(path string) (*ContentModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content model %s: %w", path, err)
	}
	return Parse(data)
}

// Load reads a content model from r.
func Load(r io.Reader) (*ContentModel, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("failed to read content model: %w", err)
	}
	return Parse(buf.Bytes())
}

// Parse builds a fully validated content model from YAML. Any invalid type or field
// fails the whole model.
func Parse(data []byte) (*ContentModel, error) {
	var raw rawModel
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse content model: %w", err)
	}
	if raw.ContentTypes.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: content_types must be a mapping", ErrInvalidDefinition)
	}

	model := NewContentModel()
	err := eachEntry(&raw.ContentTypes, func(name string, node *yaml.Node) error {
		ct, err := parseContentType(name, node)
		if err != nil {
			return err
		}
		if err := model.AddContentType(ct); err != nil {
			return &ConfigParsingError{Path: name, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return model, nil
}

func parseContentType(name string, node *yaml.Node) (*ContentType, error) {
	var rct rawContentType
	if err := node.Decode(&rct); err != nil {
		return nil, &ConfigParsingError{Path: name, Err: err}
	}
	if err := validate.Struct(rct); err != nil {
		return nil, &ConfigParsingError{Path: name, Err: fmt.Errorf("%w: %v", ErrInvalidDefinition, err)}
	}

	defs, err := parseFieldDefinitions(&rct.ContentFields)
	if err != nil {
		return nil, prefixPath(name, err)
	}

	ct := NewContentType(name)
	_ = ct.SetAPIEndpoint(rct.APIEndpoint)
	if err := ct.AddContentFields(defs); err != nil {
		return nil, prefixPath(name, err)
	}
	return ct, nil
}

func parseFieldDefinitions(node *yaml.Node) ([]FieldDefinition, error) {
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: content_fields must be a mapping", ErrInvalidDefinition)
	}

	var defs []FieldDefinition
	err := eachEntry(node, func(name string, value *yaml.Node) error {
		var rf rawField
		if err := value.Decode(&rf); err != nil {
			return &ConfigParsingError{Path: name, Err: err}
		}
		def := FieldDefinition{Name: name, Type: rf.Type, Options: rf.Options}
		if err := validate.Struct(def); err != nil {
			return &ConfigParsingError{Path: name, Err: fmt.Errorf("%w: %v", ErrInvalidDefinition, err)}
		}
		if rf.Type == TypeArray {
			children, err := parseFieldDefinitions(&rf.ContentFields)
			if err != nil {
				return prefixPath(name, err)
			}
			def.Fields = children
		}
		defs = append(defs, def)
		return nil
	})
	return defs, err
}

// eachEntry walks a mapping node in document order.
func eachEntry(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
