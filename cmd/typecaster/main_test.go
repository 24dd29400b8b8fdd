package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSchema(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	return path
}

func TestCheck(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, `
options:
  dialect: strict
  allow: [text-number]
types:
  Point: "[x: number, y: number]"
  Shape:
    points: Point[]
    closed?: boolean
`)

	var stdout, stderr bytes.Buffer

	code := run([]string{"check", "-v", path}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Contains(t, stdout.String(), "2 types ok (dialect strict)")
	assert.Contains(t, stderr.String(), `msg="compiled converter" type=Shape direction=Cast dialect=strict`)
}

func TestCheckReportsDiagnostics(t *testing.T) {
	t.Parallel()

	path := writeSchema(t, "types:\n  User:\n    name: strng\n")

	var stdout, stderr bytes.Buffer

	code := run([]string{"check", path}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), `error: [User] name: [unknown_type] unknown type "strng" (did you mean string?)`)
	assert.Empty(t, stdout.String())
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "shop.yaml")

	var stdout, stderr bytes.Buffer

	code := run([]string{"describe", "-o", out, "../../internal/analyze/testdata/shop"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "customer?: Customer")

	code = run([]string{"check", out}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "3 types ok (dialect json)")
}

func TestUsage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		code int
	}{
		{name: "no command", args: nil, code: 2},
		{name: "unknown command", args: []string{"generate"}, code: 2},
		{name: "help", args: []string{"help"}, code: 0},
		{name: "describe without packages", args: []string{"describe"}, code: 1},
		{name: "check without file", args: []string{"check"}, code: 1},
		{name: "missing file", args: []string{"check", "does-not-exist.yaml"}, code: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &stdout, &stderr))
		})
	}
}
