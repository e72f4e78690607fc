package settings

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"hermannm.dev/wrap"
)

// Store resolves named settings templates to their raw template text.
type Store interface {
	Template(name string) (text string, found bool)
}

// File is a Store loaded from a YAML document of the form:
//
//	templates:
//	  compactPie: |
//	    legend:
//	      position: right
type File struct {
	templates map[string]string
}

type fileContent struct {
	Templates map[string]string `yaml:"templates"`
}

func LoadFile(path string) (File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return File{}, wrap.Errorf(err, "failed to read settings file '%s'", path)
	}

	file, err := ParseFile(content)
	if err != nil {
		return File{}, wrap.Errorf(err, "invalid settings file '%s'", path)
	}
	return file, nil
}

func ParseFile(content []byte) (File, error) {
	var parsed fileContent
	if err := yaml.Unmarshal(content, &parsed); err != nil {
		return File{}, wrap.Error(err, "failed to parse settings YAML")
	}

	for name := range parsed.Templates {
		if strings.TrimSpace(name) == "" {
			return File{}, fmt.Errorf("settings template names cannot be blank")
		}
	}

	if parsed.Templates == nil {
		parsed.Templates = make(map[string]string)
	}
	return File{templates: parsed.Templates}, nil
}

func (file File) Template(name string) (text string, found bool) {
	text, found = file.templates[name]
	return text, found
}

func (file File) Len() int {
	return len(file.templates)
}

// Empty is the Store used when no settings file is configured.
type Empty struct{}

func (Empty) Template(string) (string, bool) {
	return "", false
}

// DecodeOptions parses template text as a YAML mapping of chart engine options. The result can
// always be encoded as JSON: nested mappings get string keys, and non-finite numbers are rejected.
func DecodeOptions(text string) (map[string]any, error) {
	var options map[string]any
	if err := yaml.Unmarshal([]byte(text), &options); err != nil {
		return nil, wrap.Error(err, "template text is not a valid YAML mapping")
	}
	if options == nil {
		return make(map[string]any), nil
	}

	normalized, err := normalizeMapping(options, "")
	if err != nil {
		return nil, err
	}
	return normalized, nil
}

func normalizeMapping(mapping map[string]any, path string) (map[string]any, error) {
	normalized := make(map[string]any, len(mapping))
	for key, value := range mapping {
		normalizedValue, err := normalizeValue(value, joinPath(path, key))
		if err != nil {
			return nil, err
		}
		normalized[key] = normalizedValue
	}
	return normalized, nil
}

func normalizeValue(value any, path string) (any, error) {
	switch value := value.(type) {
	case map[string]any:
		return normalizeMapping(value, path)
	case map[any]any:
		mapping := make(map[string]any, len(value))
		for key, nested := range value {
			switch key.(type) {
			case map[string]any, map[any]any, []any:
				return nil, fmt.Errorf("option '%s' has a mapping or list as key", path)
			}

			stringKey := fmt.Sprint(key)
			if _, duplicate := mapping[stringKey]; duplicate {
				return nil, fmt.Errorf("option '%s' has duplicate key '%s'", path, stringKey)
			}
			mapping[stringKey] = nested
		}
		return normalizeMapping(mapping, path)
	case []any:
		list := make([]any, len(value))
		for i, item := range value {
			normalizedItem, err := normalizeValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			list[i] = normalizedItem
		}
		return list, nil
	case float64:
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("option '%s' is not a finite number", path)
		}
		return value, nil
	default:
		return value, nil
	}
}

func joinPath(path string, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
