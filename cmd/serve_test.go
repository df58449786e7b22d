package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCommandFlags(t *testing.T) {
	cmd := newServeCmd()

	assert.Equal(t, "serve", cmd.Use)

	for _, name := range []string{"debug", "yolo", "metrics-addr"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "missing flag --%s", name)
	}

	yolo := cmd.Flags().Lookup("yolo")
	assert.Equal(t, "false", yolo.DefValue, "write operations must be opt-in")
}

func TestAuthCommandFlags(t *testing.T) {
	cmd := newAuthCmd()

	assert.Equal(t, "auth", cmd.Use)

	account := cmd.Flags().Lookup("account")
	require.NotNil(t, account)
	assert.Equal(t, "default", account.DefValue)
}

func TestRootCommandSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["auth"])
}
