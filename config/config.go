package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// a type with tool-wide configuration parameters
type serviceConfig struct {
	// Directory in which the upload journal and other local state live.
	DataDirectory string `json:"data_directory" yaml:"data_directory"`
}

// a type with Zenodo repository configuration parameters
type zenodoConfig struct {
	// True if uploads should target the Zenodo sandbox.
	Sandbox bool `json:"sandbox" yaml:"sandbox"`
	// Base API URL override (normally derived from the sandbox flag).
	BaseURL string `json:"base_url" yaml:"base_url"`
	// Timeout in seconds for JSON API calls.
	APITimeout int `json:"api_timeout" yaml:"api_timeout"`
	// Timeout in seconds for file uploads.
	UploadTimeout int `json:"upload_timeout" yaml:"upload_timeout"`
	// Size in bytes of the chunks in which files are streamed.
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`
}

// the assembled configuration
type Config struct {
	Service serviceConfig `yaml:"service"`
	Zenodo  zenodoConfig  `yaml:"zenodo"`
}

// This helper reads configuration data, returning the parsed configuration
// and an error indicating success or failure. All environment variables of
// the form ${ENV_VAR} are expanded.
func readConfig(bytes []byte) (Config, error) {
	// Before we do anything else, expand any provided environment variables.
	bytes = []byte(os.ExpandEnv(string(bytes)))

	var conf Config
	conf.Zenodo.APITimeout = 30
	conf.Zenodo.UploadTimeout = 600
	conf.Zenodo.ChunkSize = 8192
	err := yaml.Unmarshal(bytes, &conf)
	if err != nil {
		log.Printf("Couldn't parse configuration data: %s\n", err)
		return conf, err
	}
	return conf, nil
}

// This helper validates the given configuration, returning an error that
// indicates success or failure.
func validateConfig(conf Config) error {
	if conf.Zenodo.APITimeout <= 0 {
		return fmt.Errorf("Invalid api_timeout: %d (must be positive)",
			conf.Zenodo.APITimeout)
	}
	if conf.Zenodo.UploadTimeout <= 0 {
		return fmt.Errorf("Invalid upload_timeout: %d (must be positive)",
			conf.Zenodo.UploadTimeout)
	}
	if conf.Zenodo.ChunkSize <= 0 {
		return fmt.Errorf("Invalid chunk_size: %d (must be positive)",
			conf.Zenodo.ChunkSize)
	}
	if conf.Service.DataDirectory != "" {
		info, err := os.Stat(conf.Service.DataDirectory)
		if err != nil {
			return fmt.Errorf("Invalid data_directory: %s", conf.Service.DataDirectory)
		}
		if !info.IsDir() {
			return fmt.Errorf("data_directory is not a directory: %s",
				conf.Service.DataDirectory)
		}
	}
	return nil
}

// Initializes a configuration from the given YAML byte data.
func Init(yamlData []byte) (Config, error) {
	conf, err := readConfig(yamlData)
	if err != nil {
		return conf, err
	}
	err = validateConfig(conf)
	return conf, err
}
