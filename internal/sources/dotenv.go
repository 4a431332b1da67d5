package sources

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type DotEnvLoader struct{}

func NewDotEnvLoader() *DotEnvLoader {
	return &DotEnvLoader{}
}

func (d *DotEnvLoader) CanHandle(filename string) bool {
	base := strings.ToLower(filepath.Base(filename))
	return strings.HasPrefix(base, ".env") || strings.HasSuffix(base, ".env")
}

func (d *DotEnvLoader) Format() string {
	return "dotenv"
}

func (d *DotEnvLoader) Load(ctx context.Context, filename string, content []byte) (map[string]string, error) {
	return godotenv.Unmarshal(string(content))
}
