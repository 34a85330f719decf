package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSources(t *testing.T) (ShaderSource, ShaderSource) {
	t.Helper()
	dir := t.TempDir()
	vp := filepath.Join(dir, "v.glsl")
	fp := filepath.Join(dir, "f.glsl")
	require.NoError(t, os.WriteFile(vp, []byte(testVertexShader), 0o644))
	require.NoError(t, os.WriteFile(fp, []byte(testFragmentShader), 0o644))

	vs, err := LoadShaderSource(vp)
	require.NoError(t, err)
	fs, err := LoadShaderSource(fp)
	require.NoError(t, err)

	t.Cleanup(func() {
		vs.Release()
		fs.Release()
	})
	return vs, fs
}

func TestNewProgram(t *testing.T) {
	dev := newFakeDevice()
	vs, fs := loadSources(t)

	prg, err := NewProgram(dev, vs, fs, ColorPipeline.Attributes(), ColorPipeline.Uniforms())
	require.NoError(t, err)
	require.NotZero(t, prg.Handle())

	// sources are handed over NUL-terminated
	for _, src := range dev.sources {
		assert.Equal(t, byte(0), src[len(src)-1])
	}

	// shader objects do not outlive the link
	assert.Empty(t, dev.live("shader"))
	assert.Equal(t, []uint32{prg.Handle()}, dev.live("program"))

	tests := []struct {
		Name     string
		Location int32
	}{
		{"vPos", 0},
		{"vCol", 1},
	}
	for _, c := range tests {
		loc, ok := prg.Attribute(c.Name)
		assert.True(t, ok, c.Name)
		assert.Equal(t, c.Location, loc, c.Name)
	}

	// resolved at link time, lookups never reach the device
	calls := len(dev.calls)
	loc, ok := prg.Uniform("MVP")
	assert.Len(t, dev.calls, calls)
	assert.True(t, ok)
	assert.Equal(t, int32(0), loc)

	_, ok = prg.Uniform("unknown")
	assert.False(t, ok)

	prg.Use()
	assert.Equal(t, prg.Handle(), dev.program)

	h := prg.Handle()
	prg.Dispose()
	prg.Dispose()
	assert.Zero(t, prg.Handle())
	assert.Equal(t, 1, dev.deleted[h])
}

func TestNewProgram_Errors(t *testing.T) {
	tests := []struct {
		Name     string
		Setup    func(d *fakeDevice)
		Expected error
	}{
		{"vertex compile", func(d *fakeDevice) { d.compileFail[VERTEX_SHADER] = true }, ErrCompile},
		{"fragment compile", func(d *fakeDevice) { d.compileFail[FRAGMENT_SHADER] = true }, ErrCompile},
		{"link", func(d *fakeDevice) { d.linkFail = true }, ErrLink},
		{"missing attribute", func(d *fakeDevice) { d.missing["vCol"] = true }, ErrBindingNotFound},
		{"missing uniform", func(d *fakeDevice) { d.missing["MVP"] = true }, ErrBindingNotFound},
	}

	for _, c := range tests {
		t.Run(c.Name, func(t *testing.T) {
			dev := newFakeDevice()
			c.Setup(dev)
			vs, fs := loadSources(t)

			prg, err := NewProgram(dev, vs, fs, ColorPipeline.Attributes(), ColorPipeline.Uniforms())
			assert.Nil(t, prg)
			assert.True(t, errors.Is(err, c.Expected), "got %v", err)

			// nothing is left on the device
			assert.Empty(t, dev.live("shader"))
			assert.Empty(t, dev.live("program"))
		})
	}
}

func TestNewProgram_InvalidSource(t *testing.T) {
	dev := newFakeDevice()
	vs, _ := loadSources(t)

	_, err := NewProgram(dev, vs, ShaderSource{Path: "missing.glsl"}, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidSource))
	assert.Empty(t, dev.calls)

	_, err = NewProgram(dev, ShaderSource{}, vs, nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidSource))
	assert.Empty(t, dev.calls)
}

func TestNewVariantProgram_MissingFile(t *testing.T) {
	dev := newFakeDevice()
	a := writeAssets(t)

	prg, err := NewVariantProgram(dev, TexturePipeline, filepath.Join(t.TempDir(), "nope.glsl"), a.UVFragment)
	assert.Nil(t, prg)
	assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	assert.Contains(t, err.Error(), "vxuv")
	assert.Empty(t, dev.calls)

	prg, err = NewVariantProgram(dev, TexturePipeline, a.UVVertex, a.UVFragment)
	require.NoError(t, err)
	loc, ok := prg.Attribute("vUV")
	assert.True(t, ok)
	assert.Equal(t, int32(1), loc)
}
