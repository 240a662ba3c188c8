package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ccollicutt/logsoul/pkg/bsearch"
)

// MaxLineSize is the longest line a FileSource will read (1MB).
const MaxLineSize = 1024 * 1024

// FileSource implements LogSource for a file on disk.
type FileSource struct {
	path string

	// lines is populated on first access and never invalidated.
	lines  []string
	loaded bool
}

// NewFileSource creates a LogSource for the file at path. The file is not
// opened until it is needed.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Path returns the file path.
func (s *FileSource) Path() string {
	return s.path
}

// Lines reads the file once and returns its lines.
func (s *FileSource) Lines() ([]string, error) {
	if s.loaded {
		return s.lines, nil
	}

	f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", s.path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	s.lines = lines
	s.loaded = true
	return s.lines, nil
}

// LineCount counts newline-terminated lines by streaming the file, the way
// wc -l does. A final line without a terminator is not counted.
func (s *FileSource) LineCount() (int, error) {
	f, err := os.Open(s.path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return 0, fmt.Errorf("opening log file %s: %w", s.path, err)
	}
	defer f.Close()

	count := 0
	buf := make([]byte, 32*1024)
	for {
		n, err := f.Read(buf)
		count += bytes.Count(buf[:n], []byte{'\n'})
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", s.path, err)
		}
	}
}

// ModifiedAt stats the file and returns its modification time.
func (s *FileSource) ModifiedAt() (time.Time, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", s.path, err)
	}
	return info.ModTime(), nil
}

// IndexOfFirstLineAtOrAfter binary searches the cached lines for t.
func (s *FileSource) IndexOfFirstLineAtOrAfter(format *LineFormat, t time.Time) (int, error) {
	lines, err := s.Lines()
	if err != nil {
		return 0, err
	}
	return SeekTime(lines, format, t), nil
}

// SeekTime returns the index of the first line in lines at or after t.
func SeekTime(lines []string, format *LineFormat, t time.Time) int {
	seq := bsearch.Slice[string](lines)
	return bsearch.LowerBoundary[string](seq, bsearch.Whole(len(lines)), func(line string) int {
		return format.Compare(line, t)
	})
}
