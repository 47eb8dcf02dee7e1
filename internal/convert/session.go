// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pdiddy/docconv/internal/history"
	"github.com/pdiddy/docconv/internal/naming"
	"github.com/pdiddy/docconv/internal/queue"
	"github.com/pdiddy/docconv/pkg/types"
)

// DefaultMergeName is the merge output used when none is configured.
const DefaultMergeName = "merged.pdf"

var (
	// ErrEmptyQueue is returned when a batch is started with nothing queued.
	ErrEmptyQueue = errors.New("no files queued: add at least one file")

	// ErrNotEnoughPDFs is returned when fewer than two queued PDFs exist.
	ErrNotEnoughPDFs = errors.New("merge needs at least 2 existing PDFs in the queue")
)

// Journal records results. *history.Store implements it.
type Journal interface {
	Record(ctx context.Context, entries ...history.Entry) error
}

// BatchResult holds the outcome of one "convert all" run.
type BatchResult struct {
	ID        string                   `json:"batch_id" yaml:"batch_id"`
	Options   types.OutputOptions      `json:"options" yaml:"options"`
	Succeeded int                      `json:"succeeded" yaml:"succeeded"`
	Failed    int                      `json:"failed" yaml:"failed"`
	Results   []types.ConversionResult `json:"results" yaml:"results"`
}

// Total returns the number of files processed.
func (r BatchResult) Total() int {
	return r.Succeeded + r.Failed
}

// HasFailures reports whether any file failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Session owns the file queue and the output options of one user session
// and runs conversions and merges over the queue. A Session runs one job at
// a time and is not safe for concurrent use.
type Session struct {
	Queue     *queue.FileQueue
	Options   types.OutputOptions
	MergeName string

	dispatcher *Dispatcher
	journal    Journal
	out        io.Writer
	log        zerolog.Logger
}

// NewSession returns a Session with an empty queue. Human-readable progress
// lines are written to w.
func NewSession(d *Dispatcher, opts types.OutputOptions, w io.Writer, log zerolog.Logger) *Session {
	return &Session{
		Queue:      queue.New(),
		Options:    opts,
		MergeName:  DefaultMergeName,
		dispatcher: d,
		out:        w,
		log:        log,
	}
}

// SetJournal enables result journaling.
func (s *Session) SetJournal(j Journal) { s.journal = j }

// Add queues files and directories. Directories contribute every regular
// file below them. It returns how many paths were added.
func (s *Session) Add(paths ...string) (int, error) {
	added := 0
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			n, err := s.Queue.AddFolder(p)
			if err != nil {
				return added, err
			}
			added += n
			continue
		}
		added += s.Queue.Add(p)
	}
	if added > 0 {
		fmt.Fprintf(s.out, "Added %d file(s).\n", added)
	}
	return added, nil
}

// Remove drops paths from the queue and returns how many were queued.
func (s *Session) Remove(paths ...string) int {
	removed := 0
	for _, p := range paths {
		if s.Queue.Remove(p) {
			removed++
		}
	}
	if removed > 0 {
		fmt.Fprintf(s.out, "Removed %d file(s).\n", removed)
	}
	return removed
}

// Clear empties the queue.
func (s *Session) Clear() {
	s.Queue.Clear()
	fmt.Fprintln(s.out, "Queue cleared.")
}

// PlanEntry describes what a conversion would do for one queued file.
type PlanEntry struct {
	Input     string `json:"input" yaml:"input"`
	Route     Route  `json:"route,omitempty" yaml:"route,omitempty"`
	OutputDir string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Plan resolves the route of every queued file without writing anything.
func (s *Session) Plan() []PlanEntry {
	paths := s.Queue.Paths()
	plan := make([]PlanEntry, 0, len(paths))
	for _, p := range paths {
		job := NewJob(p, s.Options)
		e := PlanEntry{Input: p, OutputDir: job.OutputDir}
		if _, err := os.Stat(p); err != nil {
			e.Error = "not found"
		} else if route, err := s.dispatcher.Route(job); err != nil {
			e.Error = err.Error()
		} else {
			e.Route = route
		}
		plan = append(plan, e)
	}
	return plan
}

// ConvertAll converts every queued file with the session options. Each
// file is independent: a failure is logged and counted and the batch moves
// on. The returned error is non-nil only when the batch could not start.
func (s *Session) ConvertAll(ctx context.Context) (BatchResult, error) {
	if s.Queue.Len() == 0 {
		return BatchResult{}, ErrEmptyQueue
	}
	if err := s.Options.Validate(); err != nil {
		return BatchResult{}, err
	}
	if err := os.MkdirAll(s.Options.Dir, 0o755); err != nil {
		return BatchResult{}, fmt.Errorf("creating output directory %s: %w", s.Options.Dir, err)
	}

	result := BatchResult{ID: uuid.NewString(), Options: s.Options}
	for _, path := range s.Queue.Paths() {
		res := s.convertOne(ctx, path)
		if res.OK {
			result.Succeeded++
		} else {
			result.Failed++
		}
		result.Results = append(result.Results, res)
	}

	fmt.Fprintf(s.out, "\nConversion finished: %d succeeded, %d failed (output: %s)\n",
		result.Succeeded, result.Failed, s.Options.Dir)

	s.record(ctx, convertEntries(result))
	return result, nil
}

func (s *Session) convertOne(ctx context.Context, path string) types.ConversionResult {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(s.out, "ERROR: not found: %s\n", path)
		return types.ConversionResult{Input: path, Error: "not found"}
	}

	fmt.Fprintf(s.out, "\n== %s ==\n", filepath.Base(path))
	res := s.dispatcher.Dispatch(ctx, NewJob(path, s.Options))
	if !res.OK {
		fmt.Fprintf(s.out, "FAILED: %s -> %s\n", path, res.Error)
		return res
	}
	for _, o := range res.Outputs {
		fmt.Fprintf(s.out, "OK -> %s\n", o)
	}
	return res
}

// MergeInputs returns the queued paths with a .pdf extension that exist,
// in queue order.
func (s *Session) MergeInputs() []string {
	var pdfs []string
	for _, p := range s.Queue.Paths() {
		if types.Ext(p) != ".pdf" {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			pdfs = append(pdfs, p)
		}
	}
	return pdfs
}

// Merge concatenates every queued PDF, in queue order, into one file in the
// output directory and returns its path. The queue is left untouched, so a
// failed merge can be retried.
func (s *Session) Merge(ctx context.Context) (string, error) {
	pdfs := s.MergeInputs()
	if len(pdfs) < 2 {
		return "", ErrNotEnoughPDFs
	}
	if s.Options.Dir == "" {
		return "", fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(s.Options.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %s: %w", s.Options.Dir, err)
	}

	name := s.MergeName
	if strings.TrimSpace(name) == "" {
		name = DefaultMergeName
	}
	out := filepath.Join(s.Options.Dir, naming.MergeFile(name))

	fmt.Fprintf(s.out, "\n== Merge PDFs (%d) ==\n", len(pdfs))
	entry := history.Entry{
		BatchID: uuid.NewString(),
		Kind:    history.KindMerge,
		Input:   strings.Join(pdfs, "\n"),
		Format:  string(types.FormatPDF),
	}

	err := s.dispatcher.Merge(pdfs, out)
	if err != nil {
		entry.Error = err.Error()
		s.record(ctx, []history.Entry{entry})
		return "", err
	}

	fmt.Fprintf(s.out, "OK -> %s\n", out)
	entry.OK = true
	entry.Outputs = []string{out}
	s.record(ctx, []history.Entry{entry})
	return out, nil
}

func (s *Session) record(ctx context.Context, entries []history.Entry) {
	if s.journal == nil || len(entries) == 0 {
		return
	}
	if err := s.journal.Record(ctx, entries...); err != nil {
		s.log.Warn().Err(err).Msg("could not write conversion history")
	}
}

func convertEntries(r BatchResult) []history.Entry {
	entries := make([]history.Entry, len(r.Results))
	for i, res := range r.Results {
		entries[i] = history.Entry{
			BatchID: r.ID,
			Kind:    history.KindConvert,
			Input:   res.Input,
			Format:  string(r.Options.Format),
			OK:      res.OK,
			Outputs: res.Outputs,
			Error:   res.Error,
		}
	}
	return entries
}
