package sources

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/moby/buildkit/frontend/dockerfile/parser"
)

// DockerfileLoader reads ENV instructions and ARG defaults. Later
// instructions override earlier ones, ENV overrides ARG of the same name.
type DockerfileLoader struct{}

func NewDockerfileLoader() *DockerfileLoader {
	return &DockerfileLoader{}
}

func (d *DockerfileLoader) CanHandle(filename string) bool {
	name := strings.ToLower(filepath.Base(filename))
	return strings.Contains(name, "dockerfile")
}

func (d *DockerfileLoader) Format() string {
	return "dockerfile"
}

func (d *DockerfileLoader) Load(ctx context.Context, filename string, content []byte) (map[string]string, error) {
	ast, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	args := make(map[string]string)
	envs := make(map[string]string)

	for _, child := range ast.AST.Children {
		switch strings.ToUpper(child.Value) {
		case "ENV":
			for k, v := range pairs(nodeValues(child)) {
				envs[k] = v
			}
		case "ARG":
			for _, word := range nodeValues(child) {
				if k, v, ok := strings.Cut(word, "="); ok {
					args[k] = unquote(v)
				}
			}
		}
	}

	for k, v := range envs {
		args[k] = v
	}
	return args, nil
}

func nodeValues(node *parser.Node) []string {
	var values []string
	for n := node.Next; n != nil; n = n.Next {
		values = append(values, n.Value)
	}
	return values
}

// pairs handles both the key=value form and the node-per-token form
// where keys and values alternate
func pairs(words []string) map[string]string {
	result := make(map[string]string)

	allAssignments := len(words) > 0
	for _, w := range words {
		if !strings.Contains(w, "=") {
			allAssignments = false
			break
		}
	}

	if allAssignments {
		for _, w := range words {
			k, v, _ := strings.Cut(w, "=")
			result[k] = unquote(v)
		}
		return result
	}

	for i := 0; i+1 < len(words); i += 2 {
		result[words[i]] = unquote(words[i+1])
	}
	return result
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
