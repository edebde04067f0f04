package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `{"personal":{"name":"Ada <Lovelace>"},"skills":[{"name":"Go","level":"140"}],"interests":"[\"chess\"]"}`

func TestRunHTMLToStdout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-format", "html"}, strings.NewReader(sample), &out))
	require.Contains(t, out.String(), "Ada &lt;Lovelace&gt;")
	require.Contains(t, out.String(), "Go (100%)")
	require.Contains(t, out.String(), "chess")
}

func TestRunHTMLToFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cv.json")
	out := filepath.Join(dir, "cv.html")
	require.NoError(t, os.WriteFile(in, []byte(sample), 0o600))

	require.NoError(t, run([]string{"-in", in, "-out", out, "-format", "html"}, nil, nil))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(b), "<!DOCTYPE html>")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	err := run([]string{"-format", "docx"}, strings.NewReader(sample), &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunRejectsBadJSON(t *testing.T) {
	err := run([]string{"-format", "html"}, strings.NewReader("{"), &bytes.Buffer{})
	require.Error(t, err)
}
