package app

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matthewjberger/gl-examples/options"
)

func parsedOptions(t *testing.T, args ...string) (*options.Options, *flag.FlagSet) {
	t.Helper()
	fs := flag.NewFlagSet("app", flag.ContinueOnError)
	opts := options.BindFlagSet(fs)
	require.NoError(t, fs.Parse(args))
	return opts, fs
}

func TestResolveSizeUsesConfig(t *testing.T) {
	opts, fs := parsedOptions(t)
	width, height := resolveSize(Config{Width: 1920, Height: 1080}, opts, fs)
	require.Equal(t, 1920, width)
	require.Equal(t, 1080, height)
}

func TestResolveSizeFlagsWin(t *testing.T) {
	opts, fs := parsedOptions(t, "-width", "1024")
	width, height := resolveSize(Config{Width: 1920, Height: 1080}, opts, fs)
	require.Equal(t, 1024, width)
	require.Equal(t, 1080, height)
}

func TestResolveSizeDefaults(t *testing.T) {
	width, height := resolveSize(Config{}, nil, nil)
	require.Equal(t, 800, width)
	require.Equal(t, 600, height)
}

func TestBaseIsANoOp(t *testing.T) {
	var base Base
	require.NoError(t, base.Initialize(nil))
	require.NoError(t, base.Update(nil, nil, nil))
	require.NoError(t, base.UpdateGUI(nil))
	require.NoError(t, base.Resize(nil, 0, 0))
	require.NoError(t, base.Render(nil))
	require.NoError(t, base.OnKey(0, 0))
	require.NoError(t, base.OnMouse(0, 0))
	require.NoError(t, base.Cleanup())
}

func TestRunRejectsHeadlessWithoutCapture(t *testing.T) {
	opts, _ := parsedOptions(t, "-headless")
	err := Run(Base{}, Config{Title: "test"}, opts)
	require.Error(t, err)
	require.Contains(t, err.Error(), "headless mode requires")
}
