package fixtures

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestReadTextAbsentIsNotAnError(t *testing.T) {
	fx := New(t.TempDir())

	assert.False(t, fx.Exists("linux/df_h.txt"))
	txt, ok, err := fx.ReadText("linux/df_h.txt")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, txt)

	data, ok, err := fx.ReadJSON("postgres/pg_pool_stats.json")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, data)

	rows, ok, err := fx.ReadTabular("cost/ebs_volumes.csv")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rows)
}

func TestReadText(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "linux/df_h.txt", "Filesystem Size\n/dev/sda1 50G\n")
	fx := New(root)

	assert.True(t, fx.Exists("linux/df_h.txt"))
	txt, ok, err := fx.ReadText("linux/df_h.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Filesystem Size\n/dev/sda1 50G\n", txt)
}

func TestReadJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "ok.json", `{"max_client_conn": 100, "avg_wait_ms": 12.5}`)
	writeFile(t, root, "broken.json", `{"max_client_conn": `)
	writeFile(t, root, "array.json", `[1, 2, 3]`)
	writeFile(t, root, "null.json", `null`)
	fx := New(root)

	data, ok, err := fx.ReadJSON("ok.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, float64(100), data["max_client_conn"])

	for _, rel := range []string{"broken.json", "array.json", "null.json"} {
		t.Run(rel, func(t *testing.T) {
			_, ok, err := fx.ReadJSON(rel)
			assert.True(t, ok)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, rel, perr.Path)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "pods.json", `{"items": [{"name": "api"}]}`)
	fx := New(root)

	var out struct {
		Items []struct {
			Name string `json:"name"`
		} `json:"items"`
	}
	ok, err := fx.DecodeJSON("pods.json", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "api", out.Items[0].Name)
}

func TestReadTabular(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "t.csv", "\ufeffschemaname,relname,seq_scan\npublic,orders,9000\npublic,short\n\n")
	writeFile(t, root, "empty.csv", "")
	writeFile(t, root, "header.csv", "a,b\n")
	fx := New(root)

	rows, ok, err := fx.ReadTabular("t.csv")
	require.NoError(t, err)
	assert.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, map[string]string{"schemaname": "public", "relname": "orders", "seq_scan": "9000"}, rows[0])
	assert.Equal(t, "", rows[1]["seq_scan"])

	rows, ok, err = fx.ReadTabular("empty.csv")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rows)

	rows, ok, err = fx.ReadTabular("header.csv")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, rows)
}

func TestListFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "linux/df_h.txt", "x")
	writeFile(t, root, "edge/nginx.conf", "x")
	writeFile(t, root, "README", "x")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "dir"), 0o755))

	paths, err := ListFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"README", "edge/nginx.conf", "linux/df_h.txt"}, paths)

	paths, err = ListFiles(filepath.Join(root, "missing"))
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestListFilesFollowsFileSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, outside, "df_h.txt", "Filesystem\n")
	writeFile(t, root, "edge/nginx.conf", "x")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "linux"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(outside, "df_h.txt"), filepath.Join(root, "linux", "df_h.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.txt"), filepath.Join(root, "dangling.txt")))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "linked-dir")))

	paths, err := ListFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"edge/nginx.conf", "linux/df_h.txt"}, paths)
}

func TestListFilesSkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}
	root := t.TempDir()
	writeFile(t, root, "linux/df_h.txt", "x")
	writeFile(t, root, "secret/token.txt", "x")
	secret := filepath.Join(root, "secret")
	require.NoError(t, os.Chmod(secret, 0o000))
	t.Cleanup(func() { _ = os.Chmod(secret, 0o755) })

	paths, err := ListFiles(root)
	assert.ErrorContains(t, err, "secret")
	assert.Equal(t, []string{"linux/df_h.txt"}, paths)
}
