package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const maxLineSize = 1024 * 1024

// DefaultPoll is the interval Follow uses when none is given.
const DefaultPoll = 250 * time.Millisecond

// Last returns up to limit trailing lines of path together with the offset
// just past them. A missing file yields no lines and offset zero.
func Last(path string, limit int) ([]string, int64, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	if limit <= 0 {
		offset, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, offset, nil
	}

	ring := make([]string, limit)
	count := 0
	offset, err := scan(file, func(line string) {
		ring[count%limit] = line
		count++
	})
	if err != nil {
		return nil, 0, err
	}

	if count <= limit {
		return ring[:count], offset, nil
	}
	lines := make([]string, 0, limit)
	start := count % limit
	lines = append(lines, ring[start:]...)
	lines = append(lines, ring[:start]...)
	return lines, offset, nil
}

// ReadFrom returns the complete lines written after offset and the offset
// that follows them. An offset past the end of the file restarts at zero.
func ReadFrom(path string, offset int64) ([]string, int64, error) {
	file, err := open(path)
	if err != nil || file == nil {
		return nil, 0, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat log file: %w", err)
	}
	if offset < 0 || offset > info.Size() {
		offset = 0
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek log file: %w", err)
	}

	var lines []string
	consumed, err := scan(file, func(line string) {
		lines = append(lines, line)
	})
	if err != nil {
		return nil, 0, err
	}
	return lines, offset + consumed, nil
}

// Follow calls emit for every line appended after offset, polling every
// poll interval until ctx is cancelled. It returns nil on cancellation.
func Follow(ctx context.Context, path string, offset int64, poll time.Duration, emit func(string)) error {
	if poll <= 0 {
		poll = DefaultPoll
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		lines, next, err := ReadFrom(path, offset)
		if err != nil {
			return err
		}
		for _, line := range lines {
			emit(line)
		}
		offset = next

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func open(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, fmt.Errorf("log path %q is a directory", path)
	}
	return file, nil
}

// scan feeds each newline-terminated line to fn and reports how many bytes
// those lines occupied. A trailing partial line is left for the next read.
func scan(r io.Reader, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return consumed, nil
			}
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		text := line[:len(line)-1]
		if n := len(text); n > 0 && text[n-1] == '\r' {
			text = text[:n-1]
		}
		if len(text) > maxLineSize {
			text = text[:maxLineSize]
		}
		fn(text)
	}
}
