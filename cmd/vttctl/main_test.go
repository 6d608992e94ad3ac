package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/streamtv/internal/subtitle"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeVTT(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.vtt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestGenerate(t *testing.T) {
	out, _, err := run(t, "generate", "--language", "arabic")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "WEBVTT"))
	assert.Len(t, subtitle.Parse(out), subtitle.TemplateSize("arabic")*subtitle.TileCount)

	out, _, err = run(t, "generate", "--data-url")
	require.NoError(t, err)
	assert.True(t, subtitle.IsDataURL(out))

	_, _, err = run(t, "generate", "--language", "french")
	assert.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := writeVTT(t, "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nOne\ntwo\n\n00:00:03 --> 00:00:04\nbad\n")

	out, stderr, err := run(t, "parse", path, "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "00:00:01.000 --> 00:00:02.000\tOne / two")
	assert.Contains(t, out, "1 cues")
	assert.Contains(t, stderr, "line 7: malformed timestamp")
}

func TestParseJSON(t *testing.T) {
	doc, _ := subtitle.Generate("english")

	out, _, err := run(t, "parse", subtitle.DataURL(doc), "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "data"`)
	assert.Contains(t, out, `"Welcome to StreamTV."`)
}

func TestParseNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.vtt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi\n"))
	}))
	defer server.Close()

	out, _, err := run(t, "parse", server.URL+"/en.vtt")
	require.NoError(t, err)
	assert.Contains(t, out, "1 cues")

	_, _, err = run(t, "parse", server.URL+"/missing.vtt")
	assert.ErrorIs(t, err, subtitle.ErrNetworkFailure)
}

func TestParseMissingFile(t *testing.T) {
	_, _, err := run(t, "parse", filepath.Join(t.TempDir(), "nope.vtt"))
	assert.Error(t, err)
}

func TestCue(t *testing.T) {
	doc, _ := subtitle.Generate("english")
	path := writeVTT(t, doc)

	out, _, err := run(t, "cue", path, "--at", "3")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to StreamTV.\n", out)

	out, _, err = run(t, "cue", path, "--at", "1")
	require.NoError(t, err)
	assert.Equal(t, "(no cue)\n", out)

	out, _, err = run(t, "cue", path, "--at", "63", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"text":"Welcome to StreamTV. (2)"`)

	_, _, err = run(t, "cue", path)
	assert.Error(t, err)
}
