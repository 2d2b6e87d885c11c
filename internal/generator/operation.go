package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Operation is a file system change that can be checked before it runs.
//
// Description returns a line for output, e.g. "Dockerfile (112 bytes)".
type Operation interface {
	Validate(ctx context.Context) error
	Execute(ctx context.Context) error
	Description() string
}

// conflicter is implemented by operations whose target may already exist.
type conflicter interface {
	Target() string
	Existing() (content []byte, exists bool, err error)
	Desired() []byte
}

// WriteFileOp writes Content to Path, creating parent directories.
type WriteFileOp struct {
	Path    string
	Content []byte // may be empty, must not be nil
	Mode    fs.FileMode
}

func (op *WriteFileOp) Validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if op.Path == "" {
		return errors.New("write: empty path")
	}
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}
	if info, err := os.Stat(op.Path); err == nil && info.IsDir() {
		return fmt.Errorf("%s is a directory", op.Path)
	}
	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(op.Path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", op.Path, err)
	}
	mode := op.Mode
	if mode == 0 {
		mode = 0o644
	}
	return os.WriteFile(op.Path, op.Content, mode)
}

func (op *WriteFileOp) Description() string {
	return fmt.Sprintf("%s (%d bytes)", op.Path, len(op.Content))
}

func (op *WriteFileOp) Target() string { return op.Path }

func (op *WriteFileOp) Desired() []byte { return op.Content }

func (op *WriteFileOp) Existing() ([]byte, bool, error) {
	content, err := os.ReadFile(op.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}
