package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssemblePrependsVersion(t *testing.T) {
	src := Assemble("void main() {}")
	require.True(t, strings.HasPrefix(src, Version+"\n"))
	require.True(t, strings.HasSuffix(src, "void main() {}\n"))
}

func TestAssembleSeparatesFragments(t *testing.T) {
	src := Assemble("uniform float u_time;", "\nvoid main() {}\n")
	lines := strings.Split(strings.TrimRight(src, "\n"), "\n")
	require.Equal(t, []string{Version, "uniform float u_time;", "void main() {}"}, lines)
}

func TestAssembleEmpty(t *testing.T) {
	require.Equal(t, Version+"\n", Assemble())
}

func TestBlitSourcesTargetSameVersion(t *testing.T) {
	require.True(t, strings.HasPrefix(BlitVertexSource, Version))
	require.True(t, strings.HasPrefix(BlitFragmentSource, Version))
}
