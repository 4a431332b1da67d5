package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/railwayapp/sealenv/internal/encryptor"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("password", "", "")
	fs.String("algorithm", encryptor.DefaultAlgorithm, "")
	fs.StringSlice("file", nil, "")
	fs.String("log-level", "info", "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sealenv.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, used, err := Load(nil, "")
	require.NoError(t, err)
	assert.Empty(t, used)

	assert.Equal(t, encryptor.DefaultAlgorithm, c.Encryptor.Algorithm)
	assert.Equal(t, encryptor.DefaultIterations, c.Encryptor.Iterations)
	assert.Equal(t, "ENC@", c.Detector.Prefix)
	assert.Equal(t, "", c.Detector.Suffix)
	assert.True(t, c.Cache)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "text", c.Log.Format)
	assert.Empty(t, c.Sources.Files)
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, `
encryptor:
  password: from-file
  iterations: 2000
detector:
  prefix: "ENC("
  suffix: ")"
sources:
  files:
    - application.properties
  env_prefix: demo
log:
  level: debug
`)

	c, used, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "from-file", c.Encryptor.Password)
	assert.Equal(t, 2000, c.Encryptor.Iterations)
	assert.Equal(t, "ENC(", c.Detector.Prefix)
	assert.Equal(t, ")", c.Detector.Suffix)
	assert.Equal(t, []string{"application.properties"}, c.Sources.Files)
	assert.Equal(t, "demo", c.Sources.EnvPrefix)
	assert.Equal(t, "debug", c.Log.Level)

	t.Setenv("SEALENV_ENCRYPTOR_PASSWORD", "from-env")
	c, _, err = Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Encryptor.Password)

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{"--password", "from-flag", "--file", "a.env", "--file", "b.yaml"}))
	c, _, err = Load(flags, path)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", c.Encryptor.Password)
	assert.Equal(t, []string{"a.env", "b.yaml"}, c.Sources.Files)
	assert.Equal(t, "debug", c.Log.Level, "unset flags do not shadow the file")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "encryptor: [broken")
	_, _, err := Load(nil, path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Encryptor: EncryptorConfig{Algorithm: encryptor.DefaultAlgorithm, Iterations: 1000},
			Detector:  DetectorConfig{Prefix: "ENC@"},
			Log:       LogConfig{Level: "info"},
		}
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.Encryptor.Algorithm = "pbewithmd5anddes"
	assert.NoError(t, c.Validate())

	c = valid()
	c.Detector.Prefix = ""
	assert.Error(t, c.Validate())

	c = valid()
	c.Encryptor.Algorithm = "ROT13"
	assert.Error(t, c.Validate())

	c = valid()
	c.Encryptor.Iterations = -1
	assert.Error(t, c.Validate())

	c = valid()
	c.Log.Level = "verbose"
	assert.Error(t, c.Validate())
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
