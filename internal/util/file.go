package util

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
)

// ExpandPath resolves a leading "~" to the home directory of the current user
func ExpandPath(path string) (string, error) {
	return homedir.Expand(path)
}

// ReadBytesFromFile fills buf with the first len(buf) bytes of the file at path.
func ReadBytesFromFile(path string, buf []byte) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	_, err = io.ReadFull(file, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("file is shorter than %d bytes: %s", len(buf), path)
	}
	return err
}

// WriteBytesToFileAtomic replaces the content of the file at path with data,
// so readers never observe a partially written region.
func WriteBytesToFileAtomic(path string, data []byte) error {
	evaluatedPath, err := resolvePath(path)
	if len(evaluatedPath) > 0 && err == nil {
		path = evaluatedPath
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func resolvePath(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
