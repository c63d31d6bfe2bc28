package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMCPCmd_Use(t *testing.T) {
	assert.Equal(t, "mcp", mcpCmd.Use)
}

func TestRunMCP_RequiresDatabase(t *testing.T) {
	withConfig(t, testConfig())

	err := runMCP(mcpCmd, nil)

	assert.ErrorContains(t, err, "database.url is not configured")
}
