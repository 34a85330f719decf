package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

var ErrInvalidSource = errors.New("invalid shader source")

var sourcePool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// ShaderSource holds the NUL-terminated contents of a shader file until the
// program is compiled. It is owned by the load site and must not be shared.
//
//	src, err := LoadShaderSource(path)
//	defer src.Release()
type ShaderSource struct {
	Path string
	buf  *bytes.Buffer
}

// LoadShaderSource reads the whole file at path. On failure the returned
// source is invalid and err says why.
func LoadShaderSource(path string) (ShaderSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return ShaderSource{Path: path}, fmt.Errorf("load shader source: %w", err)
	}
	defer f.Close()

	buf := sourcePool.Get().(*bytes.Buffer)
	buf.Reset()

	if _, err := io.Copy(buf, f); err != nil {
		sourcePool.Put(buf)
		return ShaderSource{Path: path}, fmt.Errorf("load shader source %v: %w", path, err)
	}
	buf.WriteByte(0)

	return ShaderSource{Path: path, buf: buf}, nil
}

func (s ShaderSource) Valid() bool {
	return s.buf != nil
}

// String returns the NUL-terminated source as handed to the device.
func (s ShaderSource) String() string {
	if s.buf == nil {
		return ""
	}
	return s.buf.String()
}

// Text returns the source without the terminating NUL.
func (s ShaderSource) Text() string {
	if s.buf == nil {
		return ""
	}
	b := s.buf.Bytes()
	return string(b[:len(b)-1])
}

// Release hands the buffer back. Calling it more than once is a no-op.
func (s *ShaderSource) Release() {
	if s.buf == nil {
		return
	}
	s.buf.Reset()
	sourcePool.Put(s.buf)
	s.buf = nil
}
