package engine_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/hashdex/internal/engine"
)

func TestRun_TreeEndToEnd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createTestTree(t, root)

	var buf bytes.Buffer
	result := engine.Run(context.Background(), engine.Config{
		Root:       root,
		Label:      "backup",
		Algorithms: []string{"xxh64"},
		Workers:    4,
		Out:        &buf,
	})
	require.NoError(t, result.Err)

	assert.Equal(t, int64(4), result.Stats.FilesHashed)
	assert.Equal(t, int64(0), result.Stats.FilesFailed)
	assert.Equal(t, int64(17+320*1024+19+17), result.Stats.BytesHashed)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)

	// Output order is nondeterministic across workers; every line is
	// still complete and well-formed.
	gotPaths := make([]string, len(lines))
	for i, line := range lines {
		fields := strings.Split(line, ",")
		require.Len(t, fields, 4, "line: %q", line)
		assert.Equal(t, "backup", fields[0])
		assert.Len(t, fields[1], 16)
		gotPaths[i] = fields[3]
	}
	sort.Strings(gotPaths)
	assert.Equal(t, []string{
		filepath.Join(root, "big.bin"),
		filepath.Join(root, "root.txt"),
		filepath.Join(root, "sub", "deep", "leaf.txt"),
		filepath.Join(root, "sub", "mid.txt"),
	}, gotPaths)
}

func TestRun_KnownDigest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("random content"), 0o644))

	var buf bytes.Buffer
	result := engine.Run(context.Background(), engine.Config{
		Root:  root,
		Label: "L",
		Out:   &buf,
	})
	require.NoError(t, result.Err)

	// Default algorithm applies when none is requested.
	assert.Equal(t, "L,7F11D049CB6B8546,14,"+path+"\n", buf.String())
}

func TestRun_RootNotFound(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	result := engine.Run(context.Background(), engine.Config{
		Root:  filepath.Join(t.TempDir(), "missing"),
		Label: "L",
		Out:   &buf,
	})

	require.ErrorIs(t, result.Err, engine.ErrRootNotFound)
	assert.Empty(t, buf.String())
	assert.Equal(t, int64(0), result.Stats.FilesHashed)
}

func TestRun_UnknownAlgorithm(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))

	var buf bytes.Buffer
	result := engine.Run(context.Background(), engine.Config{
		Root:       root,
		Label:      "L",
		Algorithms: []string{"md5"},
		Out:        &buf,
	})

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "unsupported hash algorithm")
	// Fails before any file is touched.
	assert.Empty(t, buf.String())
}

func TestRun_CustomDelimiter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("random content"), 0o644))

	var buf bytes.Buffer
	result := engine.Run(context.Background(), engine.Config{
		Root:      root,
		Label:     "L",
		Delimiter: "\t",
		Out:       &buf,
	})
	require.NoError(t, result.Err)
	assert.Equal(t, "L\t7F11D049CB6B8546\t14\t"+path+"\n", buf.String())
}

func TestRun_ContextCancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	createTestTree(t, root)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	result := engine.Run(ctx, engine.Config{
		Root:    root,
		Label:   "L",
		Workers: 2,
		Out:     &buf,
	})

	// A cancelled run finishes; partial output is acceptable, a hang is
	// not.
	if result.Err != nil {
		assert.ErrorIs(t, result.Err, context.Canceled)
	}
}
