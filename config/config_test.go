package config

// These tests verify that we can properly configure the upload tool with
// YAML input.
import (
	"fmt"
	"os"

	"github.com/stretchr/testify/assert"
	"testing"
)

// a valid service config entry
const VALID_SERVICE string = `
service:
  data_directory: ${ZEDD_TEST_DATA_DIR}
`

// a valid zenodo config entry
const VALID_ZENODO string = `
zenodo:
  sandbox: true
  api_timeout: 15
  upload_timeout: 300
  chunk_size: 4096
`

// tests whether config.Init accepts blank input (everything has a default)
func TestInitAcceptsBlankInput(t *testing.T) {
	b := []byte("")
	_, err := Init(b)
	assert.Nil(t, err, fmt.Sprintf("Blank config triggered an error: %s", err))
}

// tests whether config.Init reports an error for an invalid API timeout
func TestInitRejectsBadAPITimeout(t *testing.T) {
	yaml := "zenodo:\n  api_timeout: 0\n"
	b := []byte(yaml)
	_, err := Init(b)
	assert.NotNil(t, err, "Config with bad api_timeout didn't trigger an error.")
	yaml = "zenodo:\n  api_timeout: -10\n"
	b = []byte(yaml)
	_, err = Init(b)
	assert.NotNil(t, err, "Config with bad api_timeout didn't trigger an error.")
}

// tests whether config.Init reports an error for an invalid upload timeout
func TestInitRejectsBadUploadTimeout(t *testing.T) {
	yaml := "zenodo:\n  upload_timeout: 0\n"
	b := []byte(yaml)
	_, err := Init(b)
	assert.NotNil(t, err, "Config with bad upload_timeout didn't trigger an error.")
}

// tests whether config.Init reports an error for an invalid chunk size
func TestInitRejectsBadChunkSize(t *testing.T) {
	yaml := "zenodo:\n  chunk_size: -1\n"
	b := []byte(yaml)
	_, err := Init(b)
	assert.NotNil(t, err, "Config with bad chunk_size didn't trigger an error.")
}

// tests whether config.Init rejects a data directory that doesn't exist
func TestInitRejectsMissingDataDirectory(t *testing.T) {
	yaml := "service:\n  data_directory: /no/such/zedd/directory\n"
	b := []byte(yaml)
	_, err := Init(b)
	assert.NotNil(t, err, "Config with missing data_directory didn't trigger an error.")
}

// Tests whether config.Init returns no error for a configuration that is
// (ostensibly) valid, and expands environment variables along the way.
func TestInitAcceptsValidInput(t *testing.T) {
	dir, err := os.MkdirTemp(os.TempDir(), "zedd-config-tests-")
	assert.Nil(t, err)
	defer os.RemoveAll(dir)
	os.Setenv("ZEDD_TEST_DATA_DIR", dir)
	defer os.Unsetenv("ZEDD_TEST_DATA_DIR")

	yaml := VALID_SERVICE + VALID_ZENODO
	b := []byte(yaml)
	conf, err := Init(b)
	assert.Nil(t, err, fmt.Sprintf("Valid YAML input produced an error: %s", err))
	assert.Equal(t, dir, conf.Service.DataDirectory,
		"Environment variable in data_directory wasn't expanded.")
	assert.True(t, conf.Zenodo.Sandbox)
	assert.Equal(t, 15, conf.Zenodo.APITimeout)
	assert.Equal(t, 300, conf.Zenodo.UploadTimeout)
	assert.Equal(t, 4096, conf.Zenodo.ChunkSize)
}

// Tests that unspecified fields fall back to their defaults.
func TestInitAppliesDefaults(t *testing.T) {
	yaml := "zenodo:\n  sandbox: true\n"
	b := []byte(yaml)
	conf, err := Init(b)
	assert.Nil(t, err)
	assert.Equal(t, 30, conf.Zenodo.APITimeout)
	assert.Equal(t, 600, conf.Zenodo.UploadTimeout)
	assert.Equal(t, 8192, conf.Zenodo.ChunkSize)
}
