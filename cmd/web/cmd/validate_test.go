package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	goodCatalog = `{"pasadias":[{"id":"x1","title":"Tour A","price":100,"currency":"USD","image":"a.jpg","short":"s","features":["f1"],"long":"L"}]}`
	badCatalog  = `{"pasadias":[{"id":"bad","title":"No price"},{"title":"no id"}]}`
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestValidateFileAllValid(t *testing.T) {
	out, err := runRoot(t, "validate", writeCatalog(t, goodCatalog))
	require.NoError(t, err)
	assert.Contains(t, out, "valid:    1")
	assert.Contains(t, out, "rejected: 0")
}

func TestValidateFileReportsRejections(t *testing.T) {
	out, err := runRoot(t, "validate", writeCatalog(t, badCatalog))
	require.ErrorIs(t, err, ErrInvalidEntries)
	assert.Contains(t, out, "rejected: 2")
	assert.Contains(t, out, "bad: missing price, currency, image, short, features, long")
	assert.Contains(t, out, "(sin id): missing id, price")
}

func TestValidateURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(goodCatalog))
	}))
	t.Cleanup(srv.Close)

	out, err := runRoot(t, "validate", "--url", srv.URL+"/data.json")
	require.NoError(t, err)
	assert.Contains(t, out, "entries:  1")
}

func TestValidateNeedsExactlyOneSource(t *testing.T) {
	_, err := runRoot(t, "validate")
	require.Error(t, err)

	_, err = runRoot(t, "validate", "--url", "http://example.test/data.json", "data.json")
	require.Error(t, err)
}

func TestValidateBundledSample(t *testing.T) {
	out, err := runRoot(t, "validate", filepath.Join("..", "..", "..", "public", "static", "data.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "valid:    3")
}
