package repl

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// SessionLog keeps a transcript of the actions taken in one console session
type SessionLog struct {
	id   string
	path string
	file *os.File
}

// NewSessionLog creates <dir>/<session id>.log
func NewSessionLog(dir string) (*SessionLog, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	id := uuid.New().String()
	path := filepath.Join(dir, id+".log")

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create session log: %w", err)
	}

	l := &SessionLog{id: id, path: path, file: file}
	l.write("Session started: %s\n", id)
	return l, nil
}

// ID returns the session id
func (l *SessionLog) ID() string {
	if l == nil {
		return ""
	}
	return l.id
}

// Path returns the transcript path
func (l *SessionLog) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record appends the outcome of one menu action. A nil log ignores it.
func (l *SessionLog) Record(action string, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.write("%s: error: %v\n", action, err)
		return
	}
	l.write("%s: ok\n", action)
}

// Close closes the transcript
func (l *SessionLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.write("Session ended\n")
	err := l.file.Close()
	l.file = nil
	return err
}

func (l *SessionLog) write(format string, args ...interface{}) {
	if l.file == nil {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(l.file, "[%s] "+format, append([]interface{}{timestamp}, args...)...)
}
