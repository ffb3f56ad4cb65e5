package adapters

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/yzgyyang/portcran/internal/ports"
)

const (
	makefileName = "Makefile"
	plistName    = "pkg-plist"
)

// MakefileFileAdapter keeps port Makefiles on the local filesystem.
type MakefileFileAdapter struct{}

func NewMakefileFileAdapter() MakefileFileAdapter {
	return MakefileFileAdapter{}
}

func (a MakefileFileAdapter) Read(dir string) (string, error) {
	path := filepath.Join(dir, makefileName)
	data, err := os.ReadFile(path)
	if err != nil {
		code := errbuilder.CodeInternal
		if errors.Is(err, fs.ErrNotExist) {
			code = errbuilder.CodeNotFound
		}
		return "", errbuilder.New().
			WithCode(code).
			WithMsg("failed to read Makefile: " + path).
			WithCause(err)
	}
	return string(data), nil
}

func (a MakefileFileAdapter) Write(dir string, text string) error {
	if dir == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("port directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create port directory").
			WithCause(err)
	}
	if err := os.WriteFile(filepath.Join(dir, makefileName), []byte(text), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write Makefile").
			WithCause(err)
	}
	return nil
}

func (a MakefileFileAdapter) Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, makefileName))
	return err == nil && !info.IsDir()
}

func (a MakefileFileAdapter) RemovePlist(dir string) error {
	err := os.Remove(filepath.Join(dir, plistName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to remove pkg-plist").
			WithCause(err)
	}
	return nil
}

var _ ports.MakefilePort = MakefileFileAdapter{}
