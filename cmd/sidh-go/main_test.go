package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCapture(t, args...)
	return out, err
}

func runCapture(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = execute(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestLengthsCommand(t *testing.T) {
	out, err := run(t, "lengths")
	require.NoError(t, err)
	require.Contains(t, out, "SET")
	for _, want := range []string{"P434", "P751Comp", "330", "564", "195", "188"} {
		require.Contains(t, out, want)
	}
}

func TestKeygenAndAgreeFiles(t *testing.T) {
	dir := t.TempDir()
	alice := filepath.Join(dir, "alice")
	bob := filepath.Join(dir, "bob")

	_, err := run(t, "keygen", "--set", "P434", "--role", "A", "--out", alice)
	require.NoError(t, err)
	_, err = run(t, "keygen", "--set", "P434", "--role", "B", "--out", bob)
	require.NoError(t, err)

	info, err := os.Stat(alice + ".key")
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	outA, err := run(t, "agree", "--set", "P434", "--role", "A", "--key", alice+".key", "--peer", bob+".pub")
	require.NoError(t, err)
	outB, err := run(t, "agree", "--set", "P434", "--role", "B", "--key", bob+".key", "--peer", alice+".pub")
	require.NoError(t, err)

	var recA, recB secretRecord
	require.NoError(t, json.Unmarshal([]byte(outA), &recA))
	require.NoError(t, json.Unmarshal([]byte(outB), &recB))
	require.Equal(t, recA.SharedSecret, recB.SharedSecret)
	require.Equal(t, "A", recA.Role)

	ss, err := base64.StdEncoding.DecodeString(recA.SharedSecret)
	require.NoError(t, err)
	require.Len(t, ss, 110)
}

func TestAgreeRejectsSwappedRoles(t *testing.T) {
	dir := t.TempDir()
	alice := filepath.Join(dir, "alice")
	_, err := run(t, "keygen", "--role", "A", "--out", alice)
	require.NoError(t, err)

	_, err = run(t, "agree", "--role", "B", "--key", alice+".key", "--peer", alice+".pub")
	require.Error(t, err)
}

func TestFailedCommandDeliversDiagnostics(t *testing.T) {
	dir := t.TempDir()
	alice := filepath.Join(dir, "alice")
	_, err := run(t, "keygen", "--role", "A", "--out", alice)
	require.NoError(t, err)

	_, stderr, err := runCapture(t, "agree", "--role", "B", "--key", alice+".key", "--peer", alice+".pub",
		"--diag-level", "error", "--diag-sink", "jww")
	require.Error(t, err)
	require.Contains(t, stderr, "[sidh] ERROR agree P434/B failed")
}

func TestKeygenJSON(t *testing.T) {
	out, err := run(t, "keygen", "--set", "2", "--role", "bob")
	require.NoError(t, err)

	var rec keyRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.Equal(t, "P434Comp", rec.Set)
	require.Equal(t, "B", rec.Role)
	pub, err := base64.StdEncoding.DecodeString(rec.PublicKey)
	require.NoError(t, err)
	require.Len(t, pub, 195)
}

func TestSetFromEnvironmentAndConfig(t *testing.T) {
	t.Setenv("SIDH_SET", "P434Comp")
	out, err := run(t, "keygen")
	require.NoError(t, err)
	var rec keyRecord
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.Equal(t, "P434Comp", rec.Set)

	cfg := filepath.Join(t.TempDir(), "sidh.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: debug\n  format: json\n"), 0o600))
	out, err = run(t, "--config", cfg, "keygen", "--set", "P434")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.Equal(t, "P434", rec.Set, "flag overrides environment")
}

func TestDemoCommand(t *testing.T) {
	for _, backend := range []string{"native", "circl"} {
		out, err := run(t, "demo", "--backend", backend, "--diag-level", "debug", "--diag-sink", "jww")
		require.NoError(t, err, backend)
		require.Contains(t, out, "secrets match:  true")
	}
}

func TestBenchCommand(t *testing.T) {
	out, err := run(t, "bench", "-n", "1", "--sets", "P434", "--metrics-addr", "127.0.0.1:0")
	require.NoError(t, err)
	require.Contains(t, out, "metrics listening on 127.0.0.1:")
	require.Contains(t, out, "PER EXCHANGE")
	require.True(t, strings.Contains(out, "P434"))
}

func TestBadInput(t *testing.T) {
	cases := [][]string{
		{"keygen", "--set", "P512"},
		{"keygen", "--role", "C"},
		{"demo", "--backend", "openssl"},
		{"bench", "-n", "0"},
		{"lengths", "--log-format", "xml"},
		{"lengths", "--diag-level", "loud"},
		{"--config", "/nonexistent/sidh.yaml", "lengths"},
	}
	for _, args := range cases {
		_, err := run(t, args...)
		require.Error(t, err, "%v", args)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "sidh-go v0.0.0-in-progress"))
}
