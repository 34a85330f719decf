package engine

import (
	"fmt"
)

// Mode selects what a frame draws: which pipeline, which mesh and which
// camera transform.
type Mode int

const (
	// colored triangle, orthographic projection, non-indexed draw
	ModeTriangle Mode = iota
	// colored cube, look-at view, indexed draw
	ModeColorCube
	// textured cube, look-at view, indexed draw
	ModeTextureCube
)

type projection int

const (
	projectionLookAt projection = iota
	projectionOrtho
)

var modeNames = map[Mode]string{
	ModeTriangle:    "triangle",
	ModeColorCube:   "color-cube",
	ModeTextureCube: "texture-cube",
}

func (m Mode) String() string {
	if n, ok := modeNames[m]; ok {
		return n
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) MarshalText() ([]byte, error) {
	n, ok := modeNames[m]
	if !ok {
		return nil, fmt.Errorf("unknown render mode %d", int(m))
	}
	return []byte(n), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	for k, n := range modeNames {
		if n == string(text) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown render mode %q", text)
}

func (m Mode) valid() bool {
	_, ok := modeNames[m]
	return ok
}

func (m Mode) variant() Variant {
	if m == ModeTextureCube {
		return TexturePipeline
	}
	return ColorPipeline
}

func (m Mode) projection() projection {
	if m == ModeTriangle {
		return projectionOrtho
	}
	return projectionLookAt
}

func (m Mode) textured() bool {
	return m == ModeTextureCube
}
