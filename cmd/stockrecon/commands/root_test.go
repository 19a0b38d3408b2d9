package commands

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequireStoredSnapshot(t *testing.T) {
	err := requireStoredSnapshot("memory", false)
	require.ErrorContains(t, err, "--scrape")

	require.Error(t, requireStoredSnapshot("", false))
	require.NoError(t, requireStoredSnapshot("memory", true))
	require.NoError(t, requireStoredSnapshot("postgres", false))
	require.NoError(t, requireStoredSnapshot("mongo", false))
}
