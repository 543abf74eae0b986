package operation

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/gofrs/flock"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/metasync/gen/mockery"
	"github.com/walteh/metasync/pkg/config"
	"github.com/walteh/metasync/pkg/log"
	"github.com/walteh/metasync/pkg/prompt"
	"github.com/walteh/metasync/pkg/remote"
	"github.com/walteh/metasync/pkg/state"
	"github.com/walteh/metasync/pkg/workspace"
)

const (
	testDir   = "/work/flows"
	testQuery = "SELECT DeveloperName, Body FROM Flow"
)

type harness struct {
	fs       billy.Filesystem
	source   *mockery.MockSource_remote
	prompter *mockery.MockPrompter_prompt
	console  *bytes.Buffer
	lockDir  string
	ctx      context.Context
}

func newHarness(t *testing.T, local map[string]string) *harness {
	t.Helper()

	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})

	fs := memfs.New()
	require.NoError(t, fs.MkdirAll(testDir, 0o755))
	for name, content := range local {
		require.NoError(t, util.WriteFile(fs, filepath.Join(testDir, name), []byte(content), 0o644))
	}

	console := &bytes.Buffer{}
	zlog := zerolog.New(zerolog.NewTestWriter(t))
	ctx := log.NewContext(zlog.WithContext(context.Background()), log.New(console, zlog))

	source := mockery.NewMockSource_remote(t)
	source.EXPECT().Name().Return("fake").Maybe()

	return &harness{
		fs:       fs,
		source:   source,
		prompter: mockery.NewMockPrompter_prompt(t),
		console:  console,
		lockDir:  t.TempDir(),
		ctx:      ctx,
	}
}

func (h *harness) syncOptions() config.SyncOptions {
	return config.SyncOptions{
		TargetOrg:     "dev",
		LocalDir:      testDir,
		FileExtension: ".dwl",
		Query:         testQuery,
		FilenameField: "DeveloperName",
		FieldName:     "Body",
	}
}

func (h *harness) operator(t *testing.T, mutate func(*Options)) Operator {
	t.Helper()
	opts := Options{
		Sync:     h.syncOptions(),
		Source:   h.source,
		Prompter: h.prompter,
		FS:       h.fs,
		LockDir:  h.lockDir,
	}
	if mutate != nil {
		mutate(&opts)
	}
	op, err := New(opts)
	require.NoError(t, err)
	return op
}

func (h *harness) read(t *testing.T, name string) string {
	t.Helper()
	data, err := util.ReadFile(h.fs, filepath.Join(testDir, name))
	require.NoError(t, err)
	return string(data)
}

func records(pairs ...string) []remote.Record {
	out := make([]remote.Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, remote.Record{"DeveloperName": pairs[i], "Body": pairs[i+1]})
	}
	return out
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{
			name:    "missing_source",
			opts:    Options{Prompter: prompt.AutoPrompter{}},
			wantErr: "source is required",
		},
		{
			name:    "missing_prompter",
			opts:    Options{Source: mockery.NewMockSource_remote(t)},
			wantErr: "prompter is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, err := New(tt.opts)
			require.Error(t, err)
			assert.Nil(t, op)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSync(t *testing.T) {
	tests := []struct {
		name        string
		local       map[string]string
		records     []remote.Record
		noDiff      bool
		setupMocks  func(p *mockery.MockPrompter_prompt)
		wantFiles   map[string]string
		wantCreated []string
		wantUpdated []string
		wantSkipped []string
		wantPhases  []state.Phase
		wantConsole []string
	}{
		{
			name:    "pull_missing_file",
			local:   map[string]string{"A.dwl": "x"},
			records: records("A", "x", "B", "y"),
			setupMocks: func(p *mockery.MockPrompter_prompt) {
				p.EXPECT().SelectFiles(mock.Anything, remoteOnlyMessage, []string{"B.dwl"}).
					Return([]string{"B.dwl"}, nil)
			},
			wantFiles:   map[string]string{"A.dwl": "x", "B.dwl": "y"},
			wantCreated: []string{"B.dwl"},
			wantPhases: []state.Phase{
				state.Idle, state.WorkspacesInitializing, state.Reconciled,
				state.AwaitingRemoteOnlySelection, state.Applied, state.Done,
			},
			wantConsole: []string{"Missing Files (present in Salesforce but not locally)", "Synchronization completed successfully."},
		},
		{
			name:    "nothing_to_sync",
			local:   map[string]string{"A.dwl": "x\r\n"},
			records: records("A", "x\n"),
			wantFiles: map[string]string{
				"A.dwl": "x\r\n",
			},
			wantPhases:  []state.Phase{state.Idle, state.WorkspacesInitializing, state.Reconciled, state.Done},
			wantConsole: []string{"Everything is up to date. Nothing to synchronize."},
		},
		{
			name:    "selective_overwrite",
			local:   map[string]string{"A.dwl": "old a", "B.dwl": "old b"},
			records: records("A", "new a", "B", "new b"),
			setupMocks: func(p *mockery.MockPrompter_prompt) {
				p.EXPECT().SelectFiles(mock.Anything, viewDiffMessage, []string{"A.dwl", "B.dwl"}).
					Return([]string{"A.dwl"}, nil)
				p.EXPECT().SelectFiles(mock.Anything, overwriteMessage, []string{"A.dwl", "B.dwl"}).
					Return([]string{"B.dwl"}, nil)
			},
			wantFiles:   map[string]string{"A.dwl": "old a", "B.dwl": "new b"},
			wantUpdated: []string{"B.dwl"},
			wantSkipped: []string{"A.dwl"},
			wantPhases: []state.Phase{
				state.Idle, state.WorkspacesInitializing, state.Reconciled,
				state.AwaitingChangedSelection, state.Applied, state.Done,
			},
			wantConsole: []string{"Diff for A.dwl", "-old a", "+new a"},
		},
		{
			name:    "single_changed_file_shows_diff_without_prompt",
			local:   map[string]string{"A.dwl": "one\n"},
			records: records("A", "two\n"),
			setupMocks: func(p *mockery.MockPrompter_prompt) {
				p.EXPECT().SelectFiles(mock.Anything, overwriteMessage, []string{"A.dwl"}).
					Return(nil, nil)
			},
			wantFiles:   map[string]string{"A.dwl": "one\n"},
			wantSkipped: []string{"A.dwl"},
			wantPhases: []state.Phase{
				state.Idle, state.WorkspacesInitializing, state.Reconciled,
				state.AwaitingChangedSelection, state.Applied, state.Done,
			},
			wantConsole: []string{"Diff for A.dwl", "-one", "+two", "No files were selected for update."},
		},
		{
			name:    "no_diff_skips_view_prompt",
			local:   map[string]string{"A.dwl": "1", "B.dwl": "2"},
			records: records("A", "10", "B", "20"),
			noDiff:  true,
			setupMocks: func(p *mockery.MockPrompter_prompt) {
				p.EXPECT().SelectFiles(mock.Anything, overwriteMessage, []string{"A.dwl", "B.dwl"}).
					Return([]string{"A.dwl", "B.dwl"}, nil)
			},
			wantFiles:   map[string]string{"A.dwl": "10", "B.dwl": "20"},
			wantUpdated: []string{"A.dwl", "B.dwl"},
			wantPhases: []state.Phase{
				state.Idle, state.WorkspacesInitializing, state.Reconciled,
				state.AwaitingChangedSelection, state.Applied, state.Done,
			},
		},
		{
			name:        "local_only_is_reported_and_untouched",
			local:       map[string]string{"A.dwl": "x", "Z.dwl": "mine"},
			records:     records("A", "x"),
			wantFiles:   map[string]string{"A.dwl": "x", "Z.dwl": "mine"},
			wantSkipped: []string{"Z.dwl"},
			wantPhases: []state.Phase{
				state.Idle, state.WorkspacesInitializing, state.Reconciled, state.Applied, state.Done,
			},
			wantConsole: []string{"Skipped Files (local-only, not found in Salesforce)", " - Z.dwl"},
		},
		{
			name:    "all_buckets",
			local:   map[string]string{"A.dwl": "same", "C.dwl": "old", "L.dwl": "local"},
			records: records("A", "same", "B", "new file", "C", "new"),
			setupMocks: func(p *mockery.MockPrompter_prompt) {
				p.EXPECT().SelectFiles(mock.Anything, remoteOnlyMessage, []string{"B.dwl"}).
					Return([]string{}, nil)
				p.EXPECT().SelectFiles(mock.Anything, overwriteMessage, []string{"C.dwl"}).
					Return([]string{"C.dwl"}, nil)
			},
			wantFiles:   map[string]string{"A.dwl": "same", "C.dwl": "new", "L.dwl": "local"},
			wantUpdated: []string{"C.dwl"},
			wantSkipped: []string{"B.dwl", "L.dwl"},
			wantPhases: []state.Phase{
				state.Idle, state.WorkspacesInitializing, state.Reconciled,
				state.AwaitingRemoteOnlySelection, state.AwaitingChangedSelection, state.Applied, state.Done,
			},
			wantConsole: []string{"No files were selected to retrieve."},
		},
		{
			name:    "records_without_name_are_skipped",
			local:   map[string]string{},
			records: append(records("A", "a"), remote.Record{"Body": "orphan"}),
			setupMocks: func(p *mockery.MockPrompter_prompt) {
				p.EXPECT().SelectFiles(mock.Anything, remoteOnlyMessage, []string{"A.dwl"}).
					Return([]string{"A.dwl"}, nil)
			},
			wantFiles:   map[string]string{"A.dwl": "a"},
			wantCreated: []string{"A.dwl"},
			wantPhases: []state.Phase{
				state.Idle, state.WorkspacesInitializing, state.Reconciled,
				state.AwaitingRemoteOnlySelection, state.Applied, state.Done,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.local)
			h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(tt.records, nil)
			if tt.setupMocks != nil {
				tt.setupMocks(h.prompter)
			}

			op := h.operator(t, func(o *Options) { o.Sync.NoDiff = tt.noDiff })

			summary, err := op.Sync(h.ctx)
			require.NoError(t, err)
			require.NotNil(t, summary)

			assert.False(t, summary.Cancelled)
			assert.Equal(t, tt.wantCreated, summary.Created, "created")
			assert.Equal(t, tt.wantUpdated, summary.Updated, "updated")
			assert.ElementsMatch(t, tt.wantSkipped, summary.Skipped, "skipped")
			assert.Equal(t, tt.wantPhases, summary.Phases, "phases")

			infos, err := h.fs.ReadDir(testDir)
			require.NoError(t, err)
			got := map[string]string{}
			for _, info := range infos {
				got[info.Name()] = h.read(t, info.Name())
			}
			assert.Equal(t, tt.wantFiles, got, "local files")

			for _, want := range tt.wantConsole {
				assert.Contains(t, h.console.String(), want)
			}
		})
	}
}

func TestSync_DecidesFromDifferencesNotConsole(t *testing.T) {
	tests := []struct {
		name       string
		local      map[string]string
		records    []remote.Record
		wantPhases []state.Phase
	}{
		{
			name:       "nothing_to_sync",
			local:      map[string]string{"A.dwl": "x"},
			records:    records("A", "x"),
			wantPhases: []state.Phase{state.Idle, state.WorkspacesInitializing, state.Reconciled, state.Done},
		},
		{
			name:    "local_only_still_applies",
			local:   map[string]string{"A.dwl": "x", "Z.dwl": "mine"},
			records: records("A", "x"),
			wantPhases: []state.Phase{
				state.Idle, state.WorkspacesInitializing, state.Reconciled, state.Applied, state.Done,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.local)
			h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(tt.records, nil)

			// no console logger on the context
			ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())

			summary, err := h.operator(t, nil).Sync(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPhases, summary.Phases)
			assert.Empty(t, h.console.String())
		})
	}
}

func TestSync_Cancelled(t *testing.T) {
	h := newHarness(t, map[string]string{"C.dwl": "old"})
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(records("B", "b", "C", "new"), nil)
	h.prompter.EXPECT().SelectFiles(mock.Anything, remoteOnlyMessage, []string{"B.dwl"}).
		Return(nil, prompt.ErrCancelled)

	summary, err := h.operator(t, nil).Sync(h.ctx)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.True(t, summary.Cancelled)
	assert.Zero(t, summary.Writes())
	assert.Equal(t, state.Done, summary.Phases[len(summary.Phases)-1])
	assert.NotContains(t, summary.Phases, state.AwaitingChangedSelection)
	assert.NotContains(t, summary.Phases, state.Applied)

	assert.Equal(t, "old", h.read(t, "C.dwl"))
	_, err = h.fs.Stat(filepath.Join(testDir, "B.dwl"))
	assert.Error(t, err, "cancelled selection must not write")
}

func TestSync_CancelledAfterFirstPhaseKeepsEarlierWrites(t *testing.T) {
	h := newHarness(t, map[string]string{"C.dwl": "old"})
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(records("B", "b", "C", "new"), nil)
	h.prompter.EXPECT().SelectFiles(mock.Anything, remoteOnlyMessage, []string{"B.dwl"}).
		Return([]string{"B.dwl"}, nil)
	h.prompter.EXPECT().SelectFiles(mock.Anything, overwriteMessage, []string{"C.dwl"}).
		Return(nil, prompt.ErrCancelled)

	summary, err := h.operator(t, nil).Sync(h.ctx)
	require.NoError(t, err)

	assert.True(t, summary.Cancelled)
	assert.Equal(t, []string{"B.dwl"}, summary.Created)
	assert.Empty(t, summary.Updated)
	assert.Equal(t, "b", h.read(t, "B.dwl"))
	assert.Equal(t, "old", h.read(t, "C.dwl"))
}

func TestSync_Preconditions(t *testing.T) {
	h := newHarness(t, nil)

	op := h.operator(t, func(o *Options) {
		o.Sync.LocalDir = "/does/not/exist"
		o.Sync.Query = "SELECT Body FROM Flow"
	})

	summary, err := op.Sync(h.ctx)
	require.Error(t, err)
	assert.Nil(t, summary)

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Problems, 2)
	assert.Contains(t, pe.Problems[0], "/does/not/exist")
	assert.Contains(t, pe.Problems[1], "DeveloperName")
	assert.Contains(t, err.Error(), "2 preconditions failed")
}

func TestSync_InvalidFilePattern(t *testing.T) {
	h := newHarness(t, nil)

	op := h.operator(t, func(o *Options) { o.Sync.FilesToSync = []string{"[abc"} })

	_, err := op.Sync(h.ctx)

	var pe *PreconditionError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Problems, 1)
	assert.Contains(t, pe.Problems[0], "invalid file patterns")
}

func TestSync_FetchError(t *testing.T) {
	h := newHarness(t, map[string]string{"A.dwl": "x"})
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(nil, assert.AnError)

	summary, err := h.operator(t, nil).Sync(h.ctx)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "querying remote records (query: "+testQuery+")")
	assert.Equal(t, "x", h.read(t, "A.dwl"))
}

func TestSync_FilesToSyncFilter(t *testing.T) {
	h := newHarness(t, map[string]string{"Keep_1.dwl": "old", "Other.dwl": "old"})
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).
		Return(records("Keep_1", "new", "Keep_2", "two", "Other", "new"), nil)
	h.prompter.EXPECT().SelectFiles(mock.Anything, remoteOnlyMessage, []string{"Keep_2.dwl"}).
		Return([]string{"Keep_2.dwl"}, nil)
	h.prompter.EXPECT().SelectFiles(mock.Anything, overwriteMessage, []string{"Keep_1.dwl"}).
		Return([]string{"Keep_1.dwl"}, nil)

	op := h.operator(t, func(o *Options) {
		o.Sync.FilesToSync = []string{"Keep_*.dwl"}
	})

	summary, err := op.Sync(h.ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Keep_2.dwl"}, summary.Created)
	assert.Equal(t, []string{"Keep_1.dwl"}, summary.Updated)
	assert.Equal(t, "old", h.read(t, "Other.dwl"))
}

func TestSync_RegistryIsPerRun(t *testing.T) {
	h := newHarness(t, map[string]string{"A.dwl": "x"})
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(records("A", "x"), nil)

	registry := workspace.NewRegistry()
	op := h.operator(t, func(o *Options) { o.Registry = registry })

	_, err := op.Sync(h.ctx)
	require.NoError(t, err)

	_, err = op.Sync(h.ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, workspace.ErrAlreadyInitialized)

	registry.Reset()
	_, err = op.Sync(h.ctx)
	require.NoError(t, err)
}

func TestSync_LockedByAnotherWriter(t *testing.T) {
	h := newHarness(t, nil)
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(records("A", "a"), nil)
	h.prompter.EXPECT().SelectFiles(mock.Anything, remoteOnlyMessage, []string{"A.dwl"}).
		Return([]string{"A.dwl"}, nil)

	sum := sha256.Sum256([]byte(testDir))
	other := flock.New(filepath.Join(h.lockDir, "metasync-"+hex.EncodeToString(sum[:8])+".lock"))
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = other.Unlock() })

	summary, err := h.operator(t, nil).Sync(h.ctx)
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, workspace.ErrLocked)

	_, statErr := h.fs.Stat(filepath.Join(testDir, "A.dwl"))
	assert.Error(t, statErr)
}

func TestSync_ReleasesLock(t *testing.T) {
	h := newHarness(t, nil)
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(records("A", "a"), nil)
	h.prompter.EXPECT().SelectFiles(mock.Anything, remoteOnlyMessage, []string{"A.dwl"}).
		Return([]string{"A.dwl"}, nil)

	_, err := h.operator(t, nil).Sync(h.ctx)
	require.NoError(t, err)

	entries, err := filepath.Glob(filepath.Join(h.lockDir, "*.lock"))
	require.NoError(t, err)
	assert.Empty(t, entries, "lock file should be removed after the run")
}

func TestStatus(t *testing.T) {
	h := newHarness(t, map[string]string{"A.dwl": "same", "C.dwl": "old", "L.dwl": "local"})
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).
		Return(records("A", "same", "B", "b", "C", "new"), nil)

	diffs, err := h.operator(t, nil).Status(h.ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"B.dwl"}, diffs.RemoteOnlyNames())
	assert.Equal(t, []string{"L.dwl"}, diffs.LocalOnlyNames())
	assert.Equal(t, []string{"C.dwl"}, diffs.ChangedNames())
	assert.Equal(t, []string{"A.dwl"}, diffs.Unchanged)
	assert.Contains(t, diffs.Changed.Diffs["C.dwl"], "+new")

	assert.Equal(t, "old", h.read(t, "C.dwl"))
	_, err = h.fs.Stat(filepath.Join(testDir, "B.dwl"))
	assert.Error(t, err)
}

func TestStatus_UsesDiffer(t *testing.T) {
	h := newHarness(t, map[string]string{"C.dwl": "old"})
	h.source.EXPECT().Query(mock.Anything, "dev", testQuery).Return(records("C", "new"), nil)

	differ := mockery.NewMockDiffer_text(t)
	differ.EXPECT().Diff(mock.Anything, "C.dwl", "old", "new").Return("", assert.AnError)

	diffs, err := h.operator(t, func(o *Options) { o.Differ = differ }).Status(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, "Unable to generate diff.", diffs.Changed.Diffs["C.dwl"])
}
