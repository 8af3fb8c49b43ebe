package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	require.Subset(t, names, []string{"serve", "migrate", "config", "version"})
}

func TestMigrateCommand_HasUpAndDown(t *testing.T) {
	t.Parallel()

	up, _, err := rootCmd.Find([]string{"migrate", "up"})
	require.NoError(t, err)
	require.Equal(t, "up", up.Name())

	down, _, err := rootCmd.Find([]string{"migrate", "down"})
	require.NoError(t, err)
	require.Equal(t, "1", down.Flag("steps").DefValue)
}
