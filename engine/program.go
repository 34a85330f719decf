package engine

import (
	"errors"
	"fmt"
)

var (
	ErrCompile         = errors.New("shader compile failed")
	ErrLink            = errors.New("program link failed")
	ErrBindingNotFound = errors.New("binding not found")
)

// Variant names one of the shader pipelines the renderer knows about.
type Variant int

const (
	ColorPipeline Variant = iota
	TexturePipeline

	numVariants
)

func (v Variant) String() string {
	switch v {
	case ColorPipeline:
		return "vxcolor"
	case TexturePipeline:
		return "vxuv"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// bindings every variant resolves after link
func (v Variant) Uniforms() []string {
	return []string{"MVP"}
}

func (v Variant) Attributes() []string {
	switch v {
	case ColorPipeline:
		return []string{"vPos", "vCol"}
	case TexturePipeline:
		return []string{"vPos", "vUV"}
	}
	return nil
}

// Program is a linked vertex+fragment pair with its uniform and attribute
// locations resolved once after link.
type Program struct {
	dev        Device
	program    uint32
	attributes map[string]int32
	uniforms   map[string]int32
}

// NewProgram compiles both stages, links them and resolves the named
// bindings. Nothing is left allocated on the device when it fails.
func NewProgram(dev Device, vertex, fragment ShaderSource, attributes, uniforms []string) (*Program, error) {
	if !vertex.Valid() {
		return nil, fmt.Errorf("vertex stage %v: %w", vertex.Path, ErrInvalidSource)
	}
	if !fragment.Valid() {
		return nil, fmt.Errorf("fragment stage %v: %w", fragment.Path, ErrInvalidSource)
	}

	// vertex shader
	vshader, err := compileShader(dev, VERTEX_SHADER, vertex)
	if err != nil {
		return nil, fmt.Errorf("vertex shader error: %w", err)
	}
	defer dev.DeleteShader(vshader)

	// fragment shader
	fshader, err := compileShader(dev, FRAGMENT_SHADER, fragment)
	if err != nil {
		return nil, fmt.Errorf("fragment shader error: %w", err)
	}
	defer dev.DeleteShader(fshader)

	// program
	prg := &Program{
		dev:        dev,
		program:    dev.CreateProgram(),
		attributes: make(map[string]int32),
		uniforms:   make(map[string]int32),
	}

	dev.AttachShader(prg.program, vshader)
	dev.AttachShader(prg.program, fshader)
	dev.LinkProgram(prg.program)
	if dev.GetProgramiv(prg.program, LINK_STATUS) != TRUE {
		log := dev.GetProgramInfoLog(prg.program)
		dev.DeleteProgram(prg.program)
		return nil, fmt.Errorf("%w: %v", ErrLink, log)
	}

	// locations
	for _, a := range attributes {
		loc := dev.GetAttribLocation(prg.program, a)
		if loc < 0 {
			dev.DeleteProgram(prg.program)
			return nil, fmt.Errorf("attribute %q: %w", a, ErrBindingNotFound)
		}
		prg.attributes[a] = loc
	}

	for _, u := range uniforms {
		loc := dev.GetUniformLocation(prg.program, u)
		if loc < 0 {
			dev.DeleteProgram(prg.program)
			return nil, fmt.Errorf("uniform %q: %w", u, ErrBindingNotFound)
		}
		prg.uniforms[u] = loc
	}

	return prg, nil
}

func compileShader(dev Device, stage uint32, src ShaderSource) (uint32, error) {
	shader := dev.CreateShader(stage)
	dev.ShaderSource(shader, src.String())
	dev.CompileShader(shader)
	if dev.GetShaderiv(shader, COMPILE_STATUS) != TRUE {
		log := dev.GetShaderInfoLog(shader)
		dev.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %v: %v", ErrCompile, src.Path, log)
	}
	return shader, nil
}

// NewVariantProgram loads the two shader files of a variant and builds it.
// Both sources are released before it returns.
func NewVariantProgram(dev Device, v Variant, vertexPath, fragmentPath string) (*Program, error) {
	vsrc, verr := LoadShaderSource(vertexPath)
	defer vsrc.Release()
	fsrc, ferr := LoadShaderSource(fragmentPath)
	defer fsrc.Release()

	if err := errors.Join(verr, ferr); err != nil {
		return nil, fmt.Errorf("%v: %w", v, err)
	}

	prg, err := NewProgram(dev, vsrc, fsrc, v.Attributes(), v.Uniforms())
	if err != nil {
		return nil, fmt.Errorf("%v: %w", v, err)
	}
	return prg, nil
}

func (p *Program) Use() {
	p.dev.UseProgram(p.program)
}

func (p *Program) Handle() uint32 {
	return p.program
}

func (p *Program) Dispose() {
	if p.program != 0 {
		p.dev.DeleteProgram(p.program)
		p.program = 0
	}
}

// Uniform returns the location looked up when the program was linked.
func (p *Program) Uniform(name string) (int32, bool) {
	loc, ok := p.uniforms[name]
	return loc, ok
}

func (p *Program) Attribute(name string) (int32, bool) {
	loc, ok := p.attributes[name]
	return loc, ok
}
