package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStore_RequiresURL(t *testing.T) {
	withConfig(t, testConfig())

	_, err := openStore()

	assert.ErrorContains(t, err, "database.url is not configured")
}

func TestNewFileStore_RequiresDir(t *testing.T) {
	withConfig(t, testConfig())

	_, err := newFileStore()

	assert.ErrorContains(t, err, "documents.dir is not configured")
}

func TestNewFileStore_OpensDir(t *testing.T) {
	c := testConfig()
	c.Documents.Dir = t.TempDir()
	withConfig(t, c)

	store, err := newFileStore()

	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestNewEmbedder_RequiresAPIKey(t *testing.T) {
	withConfig(t, testConfig())

	_, err := newEmbedder()

	assert.ErrorContains(t, err, "embedding.api_key is not configured")
}

func TestNewEmbedder_BuildsClient(t *testing.T) {
	c := testConfig()
	c.Embedding.APIKey = "vk-test"
	withConfig(t, c)

	embedder, err := newEmbedder()

	require.NoError(t, err)
	assert.Equal(t, 8, embedder.Dimensions())
}

func TestNewLLM_RequiresAPIKey(t *testing.T) {
	withConfig(t, testConfig())

	_, err := newLLM()

	assert.ErrorContains(t, err, "llm.api_key is not configured")
}

func TestNewLLM_BuildsClient(t *testing.T) {
	c := testConfig()
	c.LLM.APIKey = "sk-test"
	withConfig(t, c)

	llm, err := newLLM()

	require.NoError(t, err)
	assert.NotEmpty(t, llm.ModelName())
}

func TestNewExtractor(t *testing.T) {
	withConfig(t, testConfig())

	assert.NotNil(t, newExtractor())
}

func TestServerAddr(t *testing.T) {
	withConfig(t, testConfig())

	assert.Equal(t, "127.0.0.1:8000", serverAddr())
}

func TestTokenExpiry(t *testing.T) {
	withConfig(t, testConfig())

	assert.Equal(t, time.Hour, tokenExpiry())
}

func TestRequireSecretKey(t *testing.T) {
	withConfig(t, testConfig())
	require.NoError(t, requireSecretKey())

	cfg.Server.SecretKey = ""
	assert.ErrorContains(t, requireSecretKey(), "server.secret_key is not configured")
}
