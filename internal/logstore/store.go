package logstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
)

const (
	// DefaultMaxEntries is the retention ceiling used when none is configured.
	DefaultMaxEntries = 100

	headerPrefix = "caused time: "
	fileExt      = ".log"
	maxProbe     = 10000
)

// ErrNoFreeName is returned when every collision suffix is taken.
var ErrNoFreeName = errors.New("no free log file name")

// Entry is one retained log record.
type Entry struct {
	// Timestamp is the capture time in Unix milliseconds.
	Timestamp int64
	Name      string
	Body      string
}

// Time returns the capture time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Listener is told the index of a newly posted entry in the sorted listing.
type Listener func(index int)

// Option configures a Store.
type Option func(*Store)

// WithMaxEntries sets the retention ceiling. Values below 1 are ignored.
func WithMaxEntries(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.max = n
		}
	}
}

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger used for skipped files.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store keeps one file per entry in a directory.
type Store struct {
	dir    string
	max    int
	now    func() time.Time
	logger *slog.Logger

	mu       sync.Mutex
	listener Listener
}

// Open prepares dir for use, creating it when missing.
func Open(dir string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("log directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	s := &Store{
		dir:    dir,
		max:    DefaultMaxEntries,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory holding the entries.
func (s *Store) Dir() string { return s.dir }

// SetListener registers fn as the only listener. nil removes it.
func (s *Store) SetListener(fn Listener) {
	s.mu.Lock()
	s.listener = fn
	s.mu.Unlock()
}

// Post evicts the oldest entries so the new one fits under the ceiling, writes
// body under a fresh name and notifies the listener.
func (s *Store) Post(body string) (Entry, error) {
	s.mu.Lock()
	names, err := s.list()
	if err != nil {
		s.mu.Unlock()
		return Entry{}, err
	}
	for len(names) >= s.max {
		path := filepath.Join(s.dir, names[0].file)
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.mu.Unlock()
			return Entry{}, fmt.Errorf("evict %s: %w", names[0].file, err)
		}
		names = names[1:]
	}

	entry, err := s.write(body)
	listener := s.listener
	s.mu.Unlock()
	if err != nil {
		return Entry{}, err
	}

	if listener != nil {
		listener(len(names))
	}
	return entry, nil
}

// PostError records err with a stack trace. Errors that already carry one
// keep it; others get the caller's stack.
func (s *Store) PostError(err error) (Entry, error) {
	if err == nil {
		return Entry{}, fmt.Errorf("post error: nil error")
	}
	var traced interface{ StackTrace() pkgerrors.StackTrace }
	if !pkgerrors.As(err, &traced) {
		err = pkgerrors.WithStack(err)
	}
	return s.Post(fmt.Sprintf("%+v", err))
}

// All returns every readable entry, oldest first. Unreadable files and files
// with a malformed header are skipped.
func (s *Store) All() ([]Entry, error) {
	return s.Tail(0)
}

// Tail returns the newest n entries, oldest first. n <= 0 returns all.
func (s *Store) Tail(n int) ([]Entry, error) {
	s.mu.Lock()
	names, err := s.list()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(names) > n {
		names = names[len(names)-n:]
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entry, err := readEntry(filepath.Join(s.dir, name.file))
		if err != nil {
			s.logger.Debug("skipping log entry", "file", name.file, "error", err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Len counts retained entry files.
func (s *Store) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names, err := s.list()
	if err != nil {
		return 0, err
	}
	return len(names), nil
}

// Clear removes every entry file. Unrelated files in the directory stay.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	names, err := s.list()
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range names {
		if err := os.Remove(filepath.Join(s.dir, name.file)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Store) write(body string) (Entry, error) {
	ts := s.now().UnixMilli()
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	content := headerPrefix + strconv.FormatInt(ts, 10) + "\n" + body

	for n := 0; n < maxProbe; n++ {
		name := fileName(ts, n)
		file, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return Entry{}, fmt.Errorf("create %s: %w", name, err)
		}
		_, werr := file.WriteString(content)
		cerr := file.Close()
		if err := errors.Join(werr, cerr); err != nil {
			_ = os.Remove(file.Name())
			return Entry{}, fmt.Errorf("write %s: %w", name, err)
		}
		return Entry{Timestamp: ts, Name: name, Body: strings.TrimSuffix(body, "\n")}, nil
	}
	return Entry{}, ErrNoFreeName
}

type entryName struct {
	file   string
	ts     int64
	suffix int
}

// list returns entry files sorted by timestamp then collision suffix.
func (s *Store) list() ([]entryName, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}
	var names []entryName
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		if name, ok := parseName(de.Name()); ok {
			names = append(names, name)
		}
	}
	slices.SortFunc(names, func(a, b entryName) int {
		if a.ts != b.ts {
			if a.ts < b.ts {
				return -1
			}
			return 1
		}
		return a.suffix - b.suffix
	})
	return names, nil
}

func fileName(ts int64, suffix int) string {
	if suffix == 0 {
		return strconv.FormatInt(ts, 10) + fileExt
	}
	return strconv.FormatInt(ts, 10) + "_" + strconv.Itoa(suffix) + fileExt
}

func parseName(file string) (entryName, bool) {
	stem, ok := strings.CutSuffix(file, fileExt)
	if !ok {
		return entryName{}, false
	}
	tsPart, suffixPart, hasSuffix := strings.Cut(stem, "_")
	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil || ts < 0 {
		return entryName{}, false
	}
	suffix := 0
	if hasSuffix {
		suffix, err = strconv.Atoi(suffixPart)
		if err != nil || suffix < 1 {
			return entryName{}, false
		}
	}
	return entryName{file: file, ts: ts, suffix: suffix}, true
}
