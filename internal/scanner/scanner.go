// Package scanner discovers the part files of a Horizon pool and parses them
// into an unresolved model.Pool.
package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/jsonc"

	"github.com/StinkyLord/horizon-pool/internal/model"
)

// PartsDir is the pool subdirectory holding part files.
const PartsDir = "parts"

// ParseError wraps a failure to read or decode one part file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DuplicateError reports two files declaring the same part uuid.
type DuplicateError struct {
	UUID  string
	Paths []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate part uuid %s in %s", e.UUID, strings.Join(e.Paths, " and "))
}

// ErrMissingUUID is returned for a part file without a uuid.
var ErrMissingUUID = errors.New("part has no uuid")

// Result holds the parsed pool and the files it was read from.
type Result struct {
	Pool  model.Pool
	Files []string
}

// Scanner reads every part under PoolRoot/parts.
type Scanner struct {
	PoolRoot string
	Workers  int

	logger zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithWorkers bounds the number of files parsed concurrently.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.Workers = n
		}
	}
}

// WithLogger sets the scanner's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// New creates a Scanner for the pool rooted at poolRoot.
func New(poolRoot string, opts ...Option) *Scanner {
	s := &Scanner{
		PoolRoot: poolRoot,
		Workers:  4,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Discover returns the sorted paths of all .json files below the parts
// directory, at any depth.
func (s *Scanner) Discover() ([]string, error) {
	root := filepath.Join(s.PoolRoot, PartsDir)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("pool %q has no %s directory: %w", s.PoolRoot, PartsDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(files)
	s.logger.Debug().Str("root", root).Int("files", len(files)).Msg("discovered part files")
	return files, nil
}

// Scan discovers and parses every part file concurrently. Any unreadable or
// malformed file aborts the scan.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	files, err := s.Discover()
	if err != nil {
		return nil, err
	}

	type parsed struct {
		part *model.Part
		err  error
	}
	results := make([]parsed, len(files))

	workers := s.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				part, err := ParseFile(files[i])
				results[i] = parsed{part: part, err: err}
			}
		}()
	}

	cancelled := false
	for i := range files {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			cancelled = true
		}
		if cancelled {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if cancelled {
		return nil, ctx.Err()
	}

	pool := make(model.Pool, len(files))
	origin := make(map[string]string, len(files))
	for i, r := range results {
		if r.err != nil {
			s.logger.Error().Err(r.err).Str("path", files[i]).Msg("failed to parse part file")
			return nil, r.err
		}
		id := r.part.UUID
		if prev, ok := origin[id]; ok {
			return nil, &DuplicateError{UUID: id, Paths: []string{prev, files[i]}}
		}
		origin[id] = files[i]
		pool[id] = r.part
	}

	s.logger.Debug().Int("parts", len(pool)).Msg("pool loaded")
	return &Result{Pool: pool, Files: files}, nil
}

// ParseFile reads one part file. Comments and trailing commas are tolerated.
// The part's uuid, and its base when it is a uuid, are stored in canonical
// form.
func ParseFile(path string) (*model.Part, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	part, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return part, nil
}

// Parse decodes a part from file contents.
func Parse(data []byte) (*model.Part, error) {
	var part model.Part
	if err := json.Unmarshal(jsonc.ToJSON(data), &part); err != nil {
		return nil, err
	}

	if part.UUID == "" {
		return nil, ErrMissingUUID
	}
	id, err := uuid.Parse(part.UUID)
	if err != nil {
		return nil, fmt.Errorf("invalid part uuid %q: %w", part.UUID, err)
	}
	part.UUID = id.String()

	if part.Base != nil {
		if base, err := uuid.Parse(*part.Base); err == nil {
			canonical := base.String()
			part.Base = &canonical
		}
	}
	return &part, nil
}
