package quiz

import (
	"fmt"
	"os"
)

// History receives the raw text of every evaluated submission.
// Implementations must not block the caller on failure.
type History interface {
	Append(line string)
}

// FileHistory appends lines to a text file, creating it on first use.
// Write errors are dropped.
type FileHistory struct {
	Path string
}

func NewFileHistory(path string) *FileHistory {
	return &FileHistory{Path: path}
}

func (h *FileHistory) Append(line string) {
	_ = h.write(line)
}

func (h *FileHistory) write(line string) error {
	f, err := os.OpenFile(h.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(f, line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type discardHistory struct{}

func (discardHistory) Append(string) {}
