package worker

import (
	"context"
	"os"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perfworkshop/workshop/errext"
	"github.com/perfworkshop/workshop/errext/exitcodes"
	"github.com/perfworkshop/workshop/lib"
)

func TestEnviron(t *testing.T) {
	t.Parallel()

	env := environ(
		map[string]string{"PATH": "/bin", "HOME": "/home/user"},
		map[string]string{"HOME": "/tmp/override", "EXTRA": "1"},
	)
	sort.Strings(env)
	assert.Equal(t, []string{"EXTRA=1", "HOME=/tmp/override", "PATH=/bin"}, env)

	assert.Empty(t, environ(nil, nil))
}

func TestBuild(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("test shells out to sh")
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		impl := lib.Implementation{
			Name:  "ok",
			Build: []string{"sh", "-c", "test \"$MARKER\" = set && touch built.txt"},
			Env:   map[string]string{"MARKER": "set"},
		}
		dir := t.TempDir()
		require.NoError(t, Build(context.Background(), impl, dir, nil))
		_, err := os.Stat(dir + "/built.txt")
		assert.NoError(t, err)
	})

	t.Run("failure", func(t *testing.T) {
		t.Parallel()
		impl := lib.Implementation{
			Name:  "broken",
			Build: []string{"sh", "-c", "echo 'compile error: oh no' >&2; exit 3"},
		}
		err := Build(context.Background(), impl, t.TempDir(), nil)
		var berr *BuildError
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, "broken", berr.Name)
		assert.Contains(t, berr.Output, "compile error: oh no")

		var withCode errext.HasExitCode
		require.ErrorAs(t, err, &withCode)
		assert.Equal(t, exitcodes.BuildFailed, withCode.ExitCode())
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		impl := lib.Implementation{Name: "slow", Build: []string{"sleep", "10"}}
		require.Error(t, Build(ctx, impl, t.TempDir(), nil))
	})
}
