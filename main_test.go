package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"seq2img/config"
)

func execute(t *testing.T, args ...string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(os.Stderr)
	return cmd.Execute()
}

func TestSimulateThenEncode(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	out := filepath.Join(root, "images")
	report := filepath.Join(root, "report.csv")

	require.NoError(t, execute(t, "simulate", "--out_dir", data, "--classes", "X,Y", "--per_class", "3", "--length", "50"))
	require.NoError(t, execute(t, "encode", "--in_dir", data, "--out_dir", out, "--k", "2", "--workers", "2", "--report", report))

	for _, class := range []string{"X", "Y"} {
		entries, err := os.ReadDir(filepath.Join(out, class))
		require.NoError(t, err)
		require.Len(t, entries, 3)
	}
	require.FileExists(t, report)
}

func TestEncodeFlagsOverrideConfigFile(t *testing.T) {
	root := t.TempDir()
	data := filepath.Join(root, "data")
	require.NoError(t, execute(t, "simulate", "--out_dir", data, "--classes", "X", "--per_class", "1", "--length", "20"))

	conf := filepath.Join(root, "run.conf")
	require.NoError(t, os.WriteFile(conf, []byte("k=99\noutput_format=matrix\n"), 0o644))

	out := filepath.Join(root, "out")
	var cfgErr *config.Error
	require.ErrorAs(t, execute(t, "encode", "--config", conf, "--in_dir", data, "--out_dir", out), &cfgErr)
	require.NoDirExists(t, out)

	require.NoError(t, execute(t, "encode", "--config", conf, "--k", "3", "--in_dir", data, "--out_dir", out))
	require.FileExists(t, filepath.Join(out, "X", "SIM_X_0000_1.csv"))
}

func TestCheckAndVersion(t *testing.T) {
	require.NoError(t, execute(t, "check"))
	require.NoError(t, execute(t, "version"))
	require.NoError(t, execute(t, "check", "--benchmark"))
}
