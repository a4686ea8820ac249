package app_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rbochenek/liberland-vote-scope/cli/app"
)

func TestNewRegistersCommands(t *testing.T) {
	ctl := app.New()

	names := make(map[string]bool)
	for _, cmd := range ctl.Commands {
		names[cmd.Name] = true
	}
	require.True(t, names["elections"])
	require.True(t, names["serve"])
}
