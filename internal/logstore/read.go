package logstore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformedHeader is returned for entry files whose first line is not a
// caused-time header.
var ErrMalformedHeader = errors.New("malformed log header")

// readEntry parses one entry file: the header line, then the body verbatim.
// Lines have no length limit, so anything Post accepted reads back.
func readEntry(path string) (Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return Entry{}, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	header, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Entry{}, fmt.Errorf("read log: %w", err)
	}
	if header == "" {
		return Entry{}, ErrMalformedHeader
	}
	ts, err := parseHeader(strings.TrimRight(header, "\r\n"))
	if err != nil {
		return Entry{}, err
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return Entry{}, fmt.Errorf("read log: %w", err)
	}

	return Entry{
		Timestamp: ts,
		Name:      filepath.Base(path),
		Body:      strings.TrimSuffix(string(body), "\n"),
	}, nil
}

func parseHeader(line string) (int64, error) {
	raw, ok := strings.CutPrefix(line, headerPrefix)
	if !ok {
		return 0, ErrMalformedHeader
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	return ts, nil
}
