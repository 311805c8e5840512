package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvService_LoadsAndOverloads(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, ".env")
	override := filepath.Join(dir, ".env.test")
	require.NoError(t, os.WriteFile(base, []byte("DOTGEN_T_A=1\nDOTGEN_T_B=base\n"), 0o644))
	require.NoError(t, os.WriteFile(override, []byte("DOTGEN_T_B=override\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("DOTGEN_T_A")
		os.Unsetenv("DOTGEN_T_B")
	})

	svc, err := NewEnvService(base, override)
	require.NoError(t, err)

	assert.Equal(t, 1, svc.GetInt("DOTGEN_T_A", 0))
	assert.Equal(t, "override", svc.Get("DOTGEN_T_B"))
}

func TestNewEnvService_MissingFileIsFine(t *testing.T) {
	_, err := NewEnvService(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestEnvService_Defaults(t *testing.T) {
	t.Setenv("DOTGEN_T_BOOL", "true")
	t.Setenv("DOTGEN_T_BAD_INT", "many")
	svc := &EnvService{}

	assert.True(t, svc.GetBool("DOTGEN_T_BOOL", false))
	assert.False(t, svc.GetBool("DOTGEN_T_UNSET", false))
	assert.Equal(t, 7, svc.GetInt("DOTGEN_T_BAD_INT", 7))
	assert.Equal(t, "fallback", svc.GetWithDefault("DOTGEN_T_UNSET", "fallback"))
}
