package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type YAMLLoader struct{}

func NewYAMLLoader() *YAMLLoader {
	return &YAMLLoader{}
}

func (y *YAMLLoader) CanHandle(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yml" || ext == ".yaml"
}

func (y *YAMLLoader) Format() string {
	return "yaml"
}

func (y *YAMLLoader) Load(ctx context.Context, filename string, content []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if doc != nil {
		flatten("", doc, values)
	}
	return values, nil
}

type TOMLLoader struct{}

func NewTOMLLoader() *TOMLLoader {
	return &TOMLLoader{}
}

func (t *TOMLLoader) CanHandle(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".toml"
}

func (t *TOMLLoader) Format() string {
	return "toml"
}

func (t *TOMLLoader) Load(ctx context.Context, filename string, content []byte) (map[string]string, error) {
	var doc map[string]any
	if _, err := toml.Decode(string(content), &doc); err != nil {
		return nil, err
	}

	values := make(map[string]string)
	flatten("", doc, values)
	return values, nil
}

type JSONLoader struct{}

func NewJSONLoader() *JSONLoader {
	return &JSONLoader{}
}

func (j *JSONLoader) CanHandle(filename string) bool {
	return strings.ToLower(filepath.Ext(filename)) == ".json"
}

func (j *JSONLoader) Format() string {
	return "json"
}

func (j *JSONLoader) Load(ctx context.Context, filename string, content []byte) (map[string]string, error) {
	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, err
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object at the top level")
	}

	values := make(map[string]string)
	flatten("", obj, values)
	return values, nil
}
