package options

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/rbochenek/liberland-vote-scope/pkg/config"
)

func TestHandleLoggingParamsDefaultsToInfo(t *testing.T) {
	set := flag.NewFlagSet("flagSet", flag.ExitOnError)
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	log, level, closer, err := HandleLoggingParams(ctx, config.Logger{LogEncoding: "console"})
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Equal(t, "info", level.String())
	require.NoError(t, closer())
}

func TestHandleLoggingParamsDebugFlagOverridesLevel(t *testing.T) {
	set := flag.NewFlagSet("flagSet", flag.ExitOnError)
	set.Bool("verbose", true, "")
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	_, level, _, err := HandleLoggingParams(ctx, config.Logger{LogLevel: "warn"})
	require.NoError(t, err)
	require.Equal(t, "debug", level.String())
}

func TestHandleLoggingParamsRejectsInvalidLevel(t *testing.T) {
	set := flag.NewFlagSet("flagSet", flag.ExitOnError)
	ctx := cli.NewContext(cli.NewApp(), set, nil)

	_, _, _, err := HandleLoggingParams(ctx, config.Logger{LogLevel: "not-a-level"})
	require.Error(t, err)
}
