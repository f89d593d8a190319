// SPDX-License-Identifier: MIT
package cmcontext_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hm01/cm/cmcontext"
)

func TestContentAddressedName_DeterministicAndSuffixed(t *testing.T) {
	a := cmcontext.ContentAddressedName("0a", "metis")
	b := cmcontext.ContentAddressedName("0a", "metis")
	require.Equal(t, a, b)
	require.True(t, len(a) > len(".metis"))
	require.Equal(t, a[len(a)-len(".metis"):], ".metis")
}

func TestContentAddressedName_DistinctIndicesDiffer(t *testing.T) {
	a := cmcontext.ContentAddressedName("0a", "metis")
	b := cmcontext.ContentAddressedName("0b", "metis")
	require.NotEqual(t, a, b)
}

func TestEnsureWorkingDir_CreatesLazilyAndIdempotently(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	ctx := cmcontext.New(dir, false, cmcontext.ToolConfig{})

	require.NoError(t, ctx.EnsureWorkingDir())
	require.DirExists(t, dir)
	require.NoError(t, ctx.EnsureWorkingDir())
}

func TestCleanup_RemovesOnlyWhenTransient(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "work")
	persistent := cmcontext.New(dir, false, cmcontext.ToolConfig{})
	require.NoError(t, persistent.EnsureWorkingDir())
	require.NoError(t, persistent.Cleanup())
	require.DirExists(t, dir)

	transient := cmcontext.New(dir, true, cmcontext.ToolConfig{})
	require.NoError(t, transient.Cleanup())
	require.NoDirExists(t, dir)
}

func TestRequestGraphRelatedPath_IsInsideWorkingDir(t *testing.T) {
	dir := t.TempDir()
	ctx := cmcontext.New(dir, false, cmcontext.ToolConfig{})
	p := ctx.RequestGraphRelatedPath("0a", "metis")
	require.Equal(t, filepath.Join(dir, cmcontext.ContentAddressedName("0a", "metis")), p)
}

func TestToolConfig_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cm.config.json")
	cfg := cmcontext.ToolConfig{OraclePath: "/bin/oracle", IKCPath: "/bin/ikc", ModPath: "/bin/mod", PythonPath: "python3"}
	require.NoError(t, cfg.Save(path))

	loaded, err := cmcontext.LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := cmcontext.LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, cmcontext.ErrConfigNotFound)
}

func TestVerifyExecutables_MissingPath(t *testing.T) {
	cfg := cmcontext.ToolConfig{OraclePath: filepath.Join(t.TempDir(), "does-not-exist")}
	err := cfg.VerifyExecutables()
	require.ErrorIs(t, err, cmcontext.ErrMissingExecutable)
}

func TestVerifyExecutables_EmptyPathsSkipped(t *testing.T) {
	require.NoError(t, cmcontext.ToolConfig{}.VerifyExecutables())
}

func TestVerifyExecutables_ExistingPath(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(existing, []byte("#!/bin/sh\n"), 0o755))
	cfg := cmcontext.ToolConfig{OraclePath: existing}
	require.NoError(t, cfg.VerifyExecutables())
}
