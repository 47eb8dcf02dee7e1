// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/docconv/internal/history"
	"github.com/pdiddy/docconv/pkg/types"
)

type memJournal struct {
	entries []history.Entry
	err     error
}

func (m *memJournal) Record(_ context.Context, entries ...history.Entry) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func newTestSession(t *testing.T, c calls, format types.Format) (*Session, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts := types.OutputOptions{
		Dir:       filepath.Join(t.TempDir(), "out"),
		Format:    format,
		DPI:       types.DefaultDPI,
		Quality:   types.DefaultQuality,
		Subfolder: true,
	}
	return NewSession(newFakeDispatcher(c), opts, &buf, zerolog.Nop()), &buf
}

func TestConvertAllCounts(t *testing.T) {
	c := calls{}
	s, buf := newTestSession(t, c, types.FormatPDF)
	dir := t.TempDir()
	j := &memJournal{}
	s.SetJournal(j)

	s.Queue.Add(
		writeFile(t, filepath.Join(dir, "a.pdf"), "%PDF-a"),
		filepath.Join(dir, "missing.pdf"),
		writeFile(t, filepath.Join(dir, "b.png"), "png"),
		writeFile(t, filepath.Join(dir, "c.zip"), "zip"),
	)

	result, err := s.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 4, result.Total())
	assert.True(t, result.HasFailures())
	assert.NotEmpty(t, result.ID)

	out := buf.String()
	assert.Contains(t, out, "ERROR: not found: "+filepath.Join(dir, "missing.pdf"))
	assert.Contains(t, out, "== a.pdf ==")
	assert.Contains(t, out, "OK -> "+filepath.Join(s.Options.Dir, "a", "a.pdf"))
	assert.Contains(t, out, "FAILED: "+filepath.Join(dir, "c.zip"))
	assert.Contains(t, out, "Conversion finished: 2 succeeded, 2 failed (output: "+s.Options.Dir+")")

	require.Len(t, j.entries, 4)
	for _, e := range j.entries {
		assert.Equal(t, result.ID, e.BatchID)
		assert.Equal(t, history.KindConvert, e.Kind)
	}
	assert.False(t, j.entries[1].OK)
	assert.Equal(t, "not found", j.entries[1].Error)
}

func TestConvertAllMissingFileSkipsAdapters(t *testing.T) {
	c := calls{}
	s, _ := newTestSession(t, c, types.FormatTXT)
	s.Queue.Add(filepath.Join(t.TempDir(), "gone.pdf"))

	result, err := s.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, total(c))
}

func TestConvertAllRejects(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Session)
		want  string
	}{
		{"empty queue", func(s *Session) {}, "no files queued"},
		{"bad dpi", func(s *Session) { s.Queue.Add("x.pdf"); s.Options.DPI = 10 }, "dpi"},
		{"bad quality", func(s *Session) { s.Queue.Add("x.pdf"); s.Options.Quality = 101 }, "quality"},
		{"no dir", func(s *Session) { s.Queue.Add("x.pdf"); s.Options.Dir = "" }, "output directory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, calls{}, types.FormatPDF)
			tt.setup(s)
			_, err := s.ConvertAll(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConvertAllJournalFailureIsNotFatal(t *testing.T) {
	s, _ := newTestSession(t, calls{}, types.FormatPDF)
	s.SetJournal(&memJournal{err: errors.New("disk full")})
	s.Queue.Add(writeFile(t, filepath.Join(t.TempDir(), "a.pdf"), "%PDF"))

	result, err := s.ConvertAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
}

func TestSessionAddFolder(t *testing.T) {
	s, buf := newTestSession(t, calls{}, types.FormatPDF)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.pdf"), "b")
	writeFile(t, filepath.Join(dir, "sub", "a.png"), "a")
	single := writeFile(t, filepath.Join(t.TempDir(), "c.docx"), "c")

	n, err := s.Add(dir, single)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "sub", "a.png"),
		single,
	}, s.Queue.Paths())
	assert.Contains(t, buf.String(), "Added 3 file(s).")
}

func TestSessionRemoveAndClear(t *testing.T) {
	s, buf := newTestSession(t, calls{}, types.FormatPDF)
	s.Queue.Add("a.pdf", "b.pdf", "c.pdf")

	assert.Equal(t, 1, s.Remove("b.pdf", "missing.pdf"))
	assert.Equal(t, []string{"a.pdf", "c.pdf"}, s.Queue.Paths())
	assert.Contains(t, buf.String(), "Removed 1 file(s).")
	assert.Zero(t, s.Remove())

	s.Clear()
	assert.Zero(t, s.Queue.Len())
	_, err := s.ConvertAll(context.Background())
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestMergeSkipsRemovedPDF(t *testing.T) {
	c := calls{}
	var got []string
	e := fakeEngines(c)
	e.Merger = fakeMerger{calls: c, available: true, inputs: &got}
	s := NewSession(NewDispatcher(e, zerolog.Nop()), types.OutputOptions{Dir: filepath.Join(t.TempDir(), "out")}, &bytes.Buffer{}, zerolog.Nop())

	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "a.pdf"), "a")
	b := writeFile(t, filepath.Join(dir, "b.pdf"), "b")
	d := writeFile(t, filepath.Join(dir, "d.pdf"), "d")
	s.Queue.Add(a, b, d)
	s.Remove(b)

	_, err := s.Merge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{a, d}, got)
}

func TestPlan(t *testing.T) {
	s, _ := newTestSession(t, calls{}, types.FormatTXT)
	dir := t.TempDir()
	s.Queue.Add(
		writeFile(t, filepath.Join(dir, "a.pdf"), "a"),
		writeFile(t, filepath.Join(dir, "b.png"), "b"),
		filepath.Join(dir, "gone.pdf"),
	)

	plan := s.Plan()
	require.Len(t, plan, 3)
	assert.Equal(t, RouteText, plan[0].Route)
	assert.Empty(t, plan[0].Error)
	assert.Contains(t, plan[1].Error, "unsupported conversion")
	assert.Equal(t, "not found", plan[2].Error)

	_, err := os.Stat(s.Options.Dir)
	assert.True(t, os.IsNotExist(err))
}

func TestMergeNeedsTwoPDFs(t *testing.T) {
	c := calls{}
	s, _ := newTestSession(t, c, types.FormatPDF)
	dir := t.TempDir()
	s.Queue.Add(
		writeFile(t, filepath.Join(dir, "a.pdf"), "a"),
		writeFile(t, filepath.Join(dir, "b.png"), "b"),
		filepath.Join(dir, "missing.pdf"),
	)

	_, err := s.Merge(context.Background())
	assert.ErrorIs(t, err, ErrNotEnoughPDFs)
	assert.Zero(t, c["merger"])
}

func TestMergeKeepsQueueOrder(t *testing.T) {
	c := calls{}
	var got []string
	e := fakeEngines(c)
	e.Merger = fakeMerger{calls: c, available: true, inputs: &got}
	var buf bytes.Buffer
	s := NewSession(NewDispatcher(e, zerolog.Nop()), types.OutputOptions{Dir: filepath.Join(t.TempDir(), "out")}, &buf, zerolog.Nop())
	j := &memJournal{}
	s.SetJournal(j)
	s.MergeName = "Q3 deck"

	dir := t.TempDir()
	second := writeFile(t, filepath.Join(dir, "z.pdf"), "second")
	first := writeFile(t, filepath.Join(dir, "a.PDF"), "first")
	s.Queue.Add(second, writeFile(t, filepath.Join(dir, "notes.txt"), "x"), first)

	out, err := s.Merge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Options.Dir, "Q3 deck.pdf"), out)
	assert.Equal(t, []string{second, first}, got)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "second|first", string(data))
	assert.Equal(t, 3, s.Queue.Len())

	require.Len(t, j.entries, 1)
	assert.Equal(t, history.KindMerge, j.entries[0].Kind)
	assert.True(t, j.entries[0].OK)
	assert.Contains(t, buf.String(), "== Merge PDFs (2) ==")
}

func TestMergeDefaultName(t *testing.T) {
	s, _ := newTestSession(t, calls{}, types.FormatPDF)
	s.MergeName = "  "
	dir := t.TempDir()
	s.Queue.Add(writeFile(t, filepath.Join(dir, "a.pdf"), "a"), writeFile(t, filepath.Join(dir, "b.pdf"), "b"))

	out, err := s.Merge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultMergeName, filepath.Base(out))
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	in := BatchResult{
		ID:        "batch-1",
		Options:   types.OutputOptions{Dir: "/out", Format: types.FormatPNG, DPI: 200, Quality: 90},
		Succeeded: 1,
		Failed:    1,
		Results: []types.ConversionResult{
			{Input: "a.pdf", OK: true, Outputs: []string{"/out/a-001.png"}},
			{Input: "b.zip", Error: "unsupported conversion"},
		},
	}
	require.NoError(t, WriteReport(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got BatchResult
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, in, got)
}
