package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is a Set persisted as newline-delimited text. The whole file is read
// on Open; Add appends one line and never rewrites existing content.
type File struct {
	path  string
	items map[string]struct{}
}

// Open loads the ledger at path, creating an empty file (and its parent
// directory) when it does not exist yet.
func Open(path string) (*File, error) {
	l := &File{path: path, items: map[string]struct{}{}}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create ledger dir: %w", err)
			}
		}
		nf, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("create ledger: %w", err)
		}
		return l, nf.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		if id := strings.TrimSpace(sc.Text()); id != "" {
			l.items[id] = struct{}{}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", path, err)
	}
	return l, nil
}

// Path returns the backing file path.
func (l *File) Path() string { return l.path }

func (l *File) Contains(id string) bool {
	_, ok := l.items[strings.TrimSpace(id)]
	return ok
}

func (l *File) Len() int { return len(l.items) }

// Add appends id to the file. Ids already present are not written again.
func (l *File) Add(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("empty ledger id")
	}
	if strings.ContainsAny(id, "\r\n") {
		return fmt.Errorf("ledger id %q contains a newline", id)
	}
	if _, ok := l.items[id]; ok {
		return nil
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open ledger for append: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(id + "\n"); err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}
	l.items[id] = struct{}{}
	return nil
}
