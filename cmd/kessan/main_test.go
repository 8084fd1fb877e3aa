package main

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		assert.NoError(t, loadDotEnv())
	})

	t.Run("sets variables", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("KESSAN_DOTENV_TEST", "")
		require.NoError(t, os.Unsetenv("KESSAN_DOTENV_TEST"))
		require.NoError(t, os.WriteFile(".env", []byte("KESSAN_DOTENV_TEST=markdown\n"), 0o644))
		require.NoError(t, loadDotEnv())
		assert.Equal(t, "markdown", os.Getenv("KESSAN_DOTENV_TEST"))
	})

	t.Run("malformed file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		require.NoError(t, os.WriteFile(".env", []byte("KESSAN_FORMAT=\"unterminated\n"), 0o644))
		err := loadDotEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load .env")
	})

	t.Run("unreadable path", func(t *testing.T) {
		t.Chdir(t.TempDir())
		require.NoError(t, os.Mkdir(".env", 0o755))
		assert.Error(t, loadDotEnv())
	})
}

func TestSetup_DotEnvError(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(".env", []byte("KESSAN_FORMAT=\"unterminated\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"."})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load .env")
}
