package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"gopkg.in/yaml.v3"
)

// maxConfigFileSize bounds how much of a config file is read
const maxConfigFileSize = 10 * 1024 * 1024

var defaultConfigNames = []string{"config.yaml", "config.yml", "config.json"}

type decodeFunc func(data []byte, v any) error

// decoders picks the format by file extension; anything else is read as JSON
var decoders = map[string]struct {
	format string
	decode decodeFunc
}{
	".yaml": {"YAML", yaml.Unmarshal},
	".yml":  {"YAML", yaml.Unmarshal},
	".json": {"JSON", json.Unmarshal},
}

// LoadGlobalConfig reads the file GetConfigPath resolves for providedPath on
// top of the defaults. With no file found and no explicit path, defaults are
// returned. Credential fields may reference environment variables as ${NAME}.
func LoadGlobalConfig(providedPath string) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	path := GetConfigPath(providedPath)
	switch {
	case path == "" && providedPath != "":
		return nil, errorwrapper.NewValidationError("config_file", providedPath, "config file does not exist")
	case path != "":
		data, err := readConfigFile(path)
		if err != nil {
			return nil, errorwrapper.WrapError(err, "failed to read config file")
		}
		if err := decodeConfig(path, data, cfg); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to parse config file")
		}
	}

	cfg.expandSecrets()
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errorwrapper.NewValidationError("config_file", path, "path is a directory")
	}
	if info.Size() > maxConfigFileSize {
		return nil, errorwrapper.NewValidationError("config_file", path, "config file too large")
	}
	return os.ReadFile(path)
}

func decodeConfig(path string, data []byte, cfg *GlobalConfig) error {
	d, ok := decoders[filepath.Ext(path)]
	if !ok {
		d = decoders[".json"]
	}
	if err := d.decode(data, cfg); err != nil {
		return errorwrapper.NewError("failed to unmarshal %s from '%s': %w", d.format, path, err)
	}
	return nil
}

// GetConfigPath resolves the config file to load, in order:
// the explicit path (usually --config), DOCDIFF_CONFIG_PATH, then
// config.yaml, config.yml or config.json in the working directory and
// next to the executable. An explicit path that does not exist yields "".
func GetConfigPath(explicit string) string {
	if explicit != "" {
		if isRegularFile(explicit) {
			return explicit
		}
		return ""
	}
	if fromEnv := os.Getenv(ConfigPathEnvVar); fromEnv != "" && isRegularFile(fromEnv) {
		return fromEnv
	}

	for _, dir := range searchDirs() {
		for _, name := range defaultConfigNames {
			if candidate := filepath.Join(dir, name); isRegularFile(candidate) {
				return candidate
			}
		}
	}
	return ""
}

func searchDirs() []string {
	var dirs []string
	cwd, err := os.Getwd()
	if err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		if exeDir := filepath.Dir(exe); exeDir != cwd {
			dirs = append(dirs, exeDir)
		}
	}
	return dirs
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
