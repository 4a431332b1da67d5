package sources

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/compose-spec/compose-go/v2/loader"
	composeTypes "github.com/compose-spec/compose-go/v2/types"
)

// DockerComposeLoader reads service environment entries. Each entry is
// served as SERVICE.KEY and, unless services disagree on its value, as KEY.
type DockerComposeLoader struct{}

func NewDockerComposeLoader() *DockerComposeLoader {
	return &DockerComposeLoader{}
}

func (d *DockerComposeLoader) CanHandle(filename string) bool {
	name := strings.ToLower(filepath.Base(filename))
	return strings.Contains(name, "compose") && (strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml"))
}

func (d *DockerComposeLoader) Format() string {
	return "docker-compose"
}

func (d *DockerComposeLoader) Load(ctx context.Context, filename string, content []byte) (map[string]string, error) {
	configDetails := composeTypes.ConfigDetails{
		WorkingDir: ".",
		ConfigFiles: []composeTypes.ConfigFile{
			{
				Filename: filename,
				Content:  content,
			},
		},
	}

	project, err := loader.LoadWithContext(ctx, configDetails, func(options *loader.Options) {
		options.SetProjectName("sealenv", true)
		// Encrypted tokens must reach the detector untouched
		options.SkipInterpolation = true
		options.SkipConsistencyCheck = true
	})
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	conflicting := make(map[string]bool)

	for name, service := range project.Services {
		for key, value := range service.Environment {
			// Entries without a value are inherited from the host at runtime
			if value == nil {
				continue
			}

			values[name+"."+key] = *value

			if conflicting[key] {
				continue
			}
			if existing, ok := values[key]; ok && existing != *value {
				delete(values, key)
				conflicting[key] = true
				continue
			}
			values[key] = *value
		}
	}

	return values, nil
}
