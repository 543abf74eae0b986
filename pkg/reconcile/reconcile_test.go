package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/metasync/pkg/text"
	"github.com/walteh/metasync/pkg/workspace"
)

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func newPair(t *testing.T, local map[string]string, remote []workspace.RemoteFileData) workspace.Pair {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll("/work", 0o755))
	for name, content := range local {
		require.NoError(t, util.WriteFile(fs, "/work/"+name, []byte(content), 0o644))
	}

	lw, err := workspace.NewLocalWorkspace(workspace.LocalOptions{
		Dir:       "/work",
		Extension: ".ext",
		FS:        fs,
		LockDir:   t.TempDir(),
	})
	require.NoError(t, err)

	return workspace.Pair{Local: lw, Remote: workspace.NewRemoteWorkspace(".ext", remote, nil)}
}

func TestGather(t *testing.T) {
	tests := []struct {
		name          string
		local         map[string]string
		remote        []workspace.RemoteFileData
		wantRemote    []string
		wantLocal     []string
		wantChanged   []string
		wantUnchanged []string
	}{
		{
			name:          "mixed_buckets",
			local:         map[string]string{"a.ext": "x", "b.ext": "y"},
			remote:        []workspace.RemoteFileData{{Name: "a", Content: "x"}, {Name: "c", Content: "z"}},
			wantRemote:    []string{"c.ext"},
			wantLocal:     []string{"b.ext"},
			wantUnchanged: []string{"a.ext"},
		},
		{
			name:          "line_endings_only",
			local:         map[string]string{"a.ext": "x\r\n"},
			remote:        []workspace.RemoteFileData{{Name: "a", Content: "x\n"}},
			wantUnchanged: []string{"a.ext"},
		},
		{
			name:        "content_differs",
			local:       map[string]string{"a.ext": "x\n"},
			remote:      []workspace.RemoteFileData{{Name: "a", Content: "x \n"}},
			wantChanged: []string{"a.ext"},
		},
		{
			name:   "both_empty",
			local:  map[string]string{},
			remote: nil,
		},
		{
			name:        "other_extensions_ignored",
			local:       map[string]string{"a.ext": "1", "a.txt": "2"},
			remote:      []workspace.RemoteFileData{{Name: "a", Content: "2"}},
			wantChanged: []string{"a.ext"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			pair := newPair(t, tt.local, tt.remote)

			got, err := Gather(ctx, pair, Options{})
			require.NoError(t, err)

			assert.ElementsMatch(t, tt.wantRemote, got.RemoteOnlyNames())
			assert.ElementsMatch(t, tt.wantLocal, got.LocalOnlyNames())
			assert.ElementsMatch(t, tt.wantChanged, got.ChangedNames())
			assert.ElementsMatch(t, tt.wantUnchanged, got.Unchanged)
			assert.Len(t, got.Changed.Diffs, len(tt.wantChanged))

			wantEmpty := len(tt.wantRemote)+len(tt.wantLocal)+len(tt.wantChanged) == 0
			assert.Equal(t, wantEmpty, got.Empty())
		})
	}
}

func TestGather_EveryNameInExactlyOneBucket(t *testing.T) {
	ctx := testContext(t)
	pair := newPair(t,
		map[string]string{"a.ext": "1", "b.ext": "2", "c.ext": "3", "d.ext": "4"},
		[]workspace.RemoteFileData{
			{Name: "b", Content: "2"},
			{Name: "c", Content: "changed"},
			{Name: "e", Content: "5"},
			{Name: "f", Content: "6"},
		},
	)

	got, err := Gather(ctx, pair, Options{NoDiff: true})
	require.NoError(t, err)

	counts := map[string]int{}
	for _, bucket := range [][]string{got.RemoteOnlyNames(), got.LocalOnlyNames(), got.ChangedNames(), got.Unchanged} {
		for _, n := range bucket {
			counts[n]++
		}
	}

	assert.Equal(t, map[string]int{
		"a.ext": 1, "b.ext": 1, "c.ext": 1, "d.ext": 1, "e.ext": 1, "f.ext": 1,
	}, counts)
	assert.Empty(t, got.Changed.Diffs, "diffs are skipped with NoDiff")
}

func TestGather_Idempotent(t *testing.T) {
	ctx := testContext(t)
	pair := newPair(t,
		map[string]string{"a.ext": "x", "b.ext": "y"},
		[]workspace.RemoteFileData{{Name: "a", Content: "x"}, {Name: "b", Content: "Y"}, {Name: "c", Content: "z"}},
	)

	first, err := Gather(ctx, pair, Options{})
	require.NoError(t, err)
	second, err := Gather(ctx, pair, Options{})
	require.NoError(t, err)

	assert.Equal(t, first.RemoteOnlyNames(), second.RemoteOnlyNames())
	assert.Equal(t, first.LocalOnlyNames(), second.LocalOnlyNames())
	assert.Equal(t, first.ChangedNames(), second.ChangedNames())
	assert.Equal(t, first.Unchanged, second.Unchanged)
	assert.Equal(t, first.Changed.Diffs, second.Changed.Diffs)
}

func TestGather_DiffContent(t *testing.T) {
	script := func(middle string) string {
		lines := make([]string, 0, 24)
		for i := 0; i < 24; i++ {
			lines = append(lines, fmt.Sprintf("var step%d = payload.items[%d]", i, i))
		}
		lines[11] = middle
		return strings.Join(lines, "\n") + "\n"
	}

	tests := []struct {
		name   string
		local  string
		remote string
		want   string
	}{
		{
			name:   "short_file",
			local:  "one\ntwo\n",
			remote: "one\nTWO\n",
			want: "--- local/a.ext\n" +
				"+++ remote/a.ext\n" +
				"@@ -1,2 +1,2 @@\n" +
				" one\n" +
				"-two\n" +
				"+TWO\n",
		},
		{
			name:   "change_in_the_middle_of_a_long_file",
			local:  script("output application/json"),
			remote: script("output application/xml"),
			want: "--- local/a.ext\n" +
				"+++ remote/a.ext\n" +
				"@@ -9,7 +9,7 @@\n" +
				" var step8 = payload.items[8]\n" +
				" var step9 = payload.items[9]\n" +
				" var step10 = payload.items[10]\n" +
				"-output application/json\n" +
				"+output application/xml\n" +
				" var step12 = payload.items[12]\n" +
				" var step13 = payload.items[13]\n" +
				" var step14 = payload.items[14]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			pair := newPair(t,
				map[string]string{"a.ext": tt.local},
				[]workspace.RemoteFileData{{Name: "a", Content: tt.remote}},
			)

			got, err := Gather(ctx, pair, Options{Differ: text.NewLineDiffer(false)})
			require.NoError(t, err)

			require.Contains(t, got.Changed.Diffs, "a.ext")
			assert.Equal(t, tt.want, got.Changed.Diffs["a.ext"])
		})
	}
}

type brokenDiffer struct{}

func (brokenDiffer) Diff(context.Context, string, string, string) (string, error) {
	return "", assert.AnError
}

func TestGather_DiffFailureDegrades(t *testing.T) {
	ctx := testContext(t)
	pair := newPair(t,
		map[string]string{"a.ext": "1", "b.ext": "2"},
		[]workspace.RemoteFileData{{Name: "a", Content: "one"}, {Name: "b", Content: "two"}},
	)

	got, err := Gather(ctx, pair, Options{Differ: brokenDiffer{}})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a.ext", "b.ext"}, got.ChangedNames())
	assert.Equal(t, text.DiffUnavailable, got.Changed.Diffs["a.ext"])
	assert.Equal(t, text.DiffUnavailable, got.Changed.Diffs["b.ext"])
}

func TestGather_Errors(t *testing.T) {
	ctx := testContext(t)

	_, err := Gather(ctx, workspace.Pair{}, Options{})
	assert.ErrorIs(t, err, workspace.ErrNotInitialized)

	pair := newPair(t, nil, nil)
	pair.Remote = workspace.NewRemoteWorkspace(".other", nil, nil)
	_, err = Gather(ctx, pair, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extension mismatch")
}
