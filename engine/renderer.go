package engine

import (
	"errors"
	"io"
	"log/slog"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrAlreadyInitialized = errors.New("graphics already initialized")

// Assets names the files Init loads.
type Assets struct {
	ColorVertex   string
	ColorFragment string
	UVVertex      string
	UVFragment    string
	Texture       string // empty disables the texture
}

func (a Assets) shaders(v Variant) (vertex, fragment string) {
	switch v {
	case ColorPipeline:
		return a.ColorVertex, a.ColorFragment
	case TexturePipeline:
		return a.UVVertex, a.UVFragment
	}
	return "", ""
}

type meshID int

const (
	triangleMesh meshID = iota
	cubeMesh
	uvCubeMesh

	numMeshes
)

func (m Mode) mesh() meshID {
	switch m {
	case ModeTriangle:
		return triangleMesh
	case ModeTextureCube:
		return uvCubeMesh
	}
	return cubeMesh
}

type meshbuffer struct {
	mesh    Mesh
	variant Variant

	VertexArrayObject uint32
	VertexBuffer      uint32
	ElementBuffer     uint32
	layout            bool
}

// upload copies the vertex (and index) table into static device buffers.
// The element buffer binding is recorded in the vertex array.
func (b *meshbuffer) upload(dev Device) {
	b.VertexArrayObject = dev.GenVertexArray()
	dev.BindVertexArray(b.VertexArrayObject)

	data := b.mesh.Bytes()
	b.VertexBuffer = dev.GenBuffer()
	dev.BindBuffer(ARRAY_BUFFER, b.VertexBuffer)
	dev.BufferData(ARRAY_BUFFER, len(data), unsafe.Pointer(&data[0]), STATIC_DRAW)

	if b.mesh.Indexed() {
		idx := b.mesh.Indices
		b.ElementBuffer = dev.GenBuffer()
		dev.BindBuffer(ELEMENT_ARRAY_BUFFER, b.ElementBuffer)
		dev.BufferData(ELEMENT_ARRAY_BUFFER, len(idx)*int(unsafe.Sizeof(idx[0])), unsafe.Pointer(&idx[0]), STATIC_DRAW)
	}

	dev.BindVertexArray(0)
	dev.BindBuffer(ARRAY_BUFFER, 0)
}

// bindLayout points the attributes of prg at the interleaved fields of the
// vertex buffer.
func (b *meshbuffer) bindLayout(dev Device, prg *Program) bool {
	if b.VertexArrayObject == 0 {
		return false
	}

	locs := make([]int32, len(b.mesh.Attributes))
	for i, a := range b.mesh.Attributes {
		loc, ok := prg.Attribute(a.Name)
		if !ok || loc < 0 {
			return false
		}
		locs[i] = loc
	}

	dev.BindVertexArray(b.VertexArrayObject)
	dev.BindBuffer(ARRAY_BUFFER, b.VertexBuffer)
	for i, a := range b.mesh.Attributes {
		dev.EnableVertexAttribArray(uint32(locs[i]))
		dev.VertexAttribPointer(uint32(locs[i]), a.Size, FLOAT, false, b.mesh.Stride, a.Offset)
	}
	dev.BindVertexArray(0)
	dev.BindBuffer(ARRAY_BUFFER, 0)

	b.layout = true
	return true
}

func (b *meshbuffer) dispose(dev Device) {
	if b.VertexArrayObject != 0 {
		dev.DeleteVertexArray(b.VertexArrayObject)
	}
	if b.VertexBuffer != 0 {
		dev.DeleteBuffer(b.VertexBuffer)
	}
	if b.ElementBuffer != 0 {
		dev.DeleteBuffer(b.ElementBuffer)
	}
	b.VertexArrayObject, b.VertexBuffer, b.ElementBuffer = 0, 0, 0
	b.layout = false
}

type Option func(*Graphics)

func WithLogger(l *slog.Logger) Option {
	return func(g *Graphics) { g.log = l }
}

// WithMaxTextureSize scales textures down to fit n pixels on either axis.
func WithMaxTextureSize(n int) Option {
	return func(g *Graphics) { g.maxTextureSize = n }
}

func WithClearColor(c mgl32.Vec4) Option {
	return func(g *Graphics) { g.clearColor = c }
}

// Graphics owns every device resource the renderer creates, from Init until
// Terminate. It is not safe for concurrent use; all calls belong on the
// thread owning the GL context.
type Graphics struct {
	dev            Device
	assets         Assets
	log            *slog.Logger
	maxTextureSize int
	clearColor     mgl32.Vec4

	initialized bool
	meshes      [numMeshes]meshbuffer
	programs    [numVariants]*Program
	programErrs [numVariants]error
	texture     *Texture
	textureErr  error

	capture    io.Writer
	captureErr error
}

func New(dev Device, assets Assets, opts ...Option) *Graphics {
	g := &Graphics{
		dev:        dev,
		assets:     assets,
		log:        slog.Default(),
		clearColor: mgl32.Vec4{0, 0, 0, 1},
	}
	for _, o := range opts {
		o(g)
	}
	g.resetMeshes()
	return g
}

func (g *Graphics) resetMeshes() {
	g.meshes = [numMeshes]meshbuffer{
		triangleMesh: {mesh: TriangleMesh, variant: ColorPipeline},
		cubeMesh:     {mesh: CubeMesh, variant: ColorPipeline},
		uvCubeMesh:   {mesh: UVCubeMesh, variant: TexturePipeline},
	}
}

// Init uploads the meshes, builds the pipelines, loads the texture and sets
// the raster state. Shader and texture failures do not fail Init: the
// resource stays unset, the modes needing it are skipped by Draw and the
// cause is available from PipelineErr and TextureErr.
func (g *Graphics) Init() error {
	if g.initialized {
		return ErrAlreadyInitialized
	}
	g.initialized = true

	g.log.Info("graphics init", "gl", g.dev.GetString(VERSION))

	// geometry
	for i := range g.meshes {
		b := &g.meshes[i]
		if err := b.mesh.Validate(); err != nil {
			g.log.Error("mesh rejected", "mesh", b.mesh.Name, "error", err)
			continue
		}
		b.upload(g.dev)
	}

	// pipelines
	for v := Variant(0); v < numVariants; v++ {
		vs, fs := g.assets.shaders(v)
		prg, err := NewVariantProgram(g.dev, v, vs, fs)
		if err != nil {
			g.programErrs[v] = err
			g.log.Warn("pipeline setup skipped", "pipeline", v, "error", err)
			continue
		}
		g.programs[v] = prg

		for i := range g.meshes {
			b := &g.meshes[i]
			if b.variant != v {
				continue
			}
			if !b.bindLayout(g.dev, prg) {
				g.log.Warn("vertex layout not bound", "mesh", b.mesh.Name, "pipeline", v)
			}
		}
	}

	// texture
	g.loadTexture()

	// raster state
	c := g.clearColor
	g.dev.ClearColor(c[0], c[1], c[2], c[3])

	g.dev.Enable(DEPTH_TEST)
	g.dev.DepthFunc(LESS)

	g.dev.FrontFace(CCW)
	g.dev.CullFace(BACK)
	g.dev.Enable(CULL_FACE)

	return nil
}

func (g *Graphics) loadTexture() {
	if g.assets.Texture == "" {
		g.textureErr = ErrNoTexture
		return
	}

	img, err := LoadTextureImage(g.assets.Texture, g.maxTextureSize)
	if err == nil {
		g.texture, err = NewTexture(g.dev, img)
	}
	if err != nil {
		g.textureErr = err
		g.log.Warn("texture not loaded", "path", g.assets.Texture, "error", err)
		return
	}

	w, h := g.texture.Size()
	g.log.Debug("texture loaded", "path", g.assets.Texture, "width", w, "height", h)
}

// Ready reports whether every resource the mode draws with is set up.
func (g *Graphics) Ready(mode Mode) bool {
	if !mode.valid() {
		return false
	}
	if g.programs[mode.variant()] == nil {
		return false
	}
	if !g.meshes[mode.mesh()].layout {
		return false
	}
	if mode.textured() && g.texture == nil {
		return false
	}
	return true
}

func (g *Graphics) PipelineErr(v Variant) error {
	if v < 0 || v >= numVariants {
		return nil
	}
	return g.programErrs[v]
}

func (g *Graphics) TextureErr() error {
	return g.textureErr
}

// Draw renders one frame of mode into surface and presents it. A nil
// surface is a no-op. Modes whose resources are unset clear the frame but
// draw nothing.
func (g *Graphics) Draw(surface Surface, mode Mode) {
	if surface == nil {
		return
	}

	width, height := surface.GetFramebufferSize()
	aspect := AspectRatio(width, height)

	g.dev.Viewport(0, 0, int32(width), int32(height))
	g.dev.Clear(COLOR_BUFFER_BIT | DEPTH_BUFFER_BIT)

	if g.Ready(mode) {
		g.render(mode, Transform(mode, aspect))
	} else {
		g.log.Debug("draw skipped", "mode", mode)
	}

	if g.capture != nil {
		g.captureFrame(width, height)
	}

	surface.SwapBuffers()
}

func (g *Graphics) render(mode Mode, mvp mgl32.Mat4) {
	prg := g.programs[mode.variant()]
	b := &g.meshes[mode.mesh()]

	prg.Use()
	loc, _ := prg.Uniform("MVP")
	g.dev.UniformMatrix4fv(loc, 1, false, &mvp[0])

	g.dev.BindVertexArray(b.VertexArrayObject)
	if mode.textured() {
		g.texture.Bind(0)
	}

	if b.mesh.Indexed() {
		g.dev.DrawElements(TRIANGLES, b.mesh.ElementCount(), UNSIGNED_INT, 0)
	} else {
		g.dev.DrawArrays(TRIANGLES, 0, b.mesh.ElementCount())
	}
	g.dev.BindVertexArray(0)
}

// Terminate deletes every resource Init created. It skips unset handles, so
// it is safe after a partial Init and safe to call twice. Init may be
// called again afterwards.
func (g *Graphics) Terminate() {
	if g.texture != nil {
		g.texture.Dispose()
		g.texture = nil
	}

	for v, prg := range g.programs {
		if prg != nil {
			prg.Dispose()
			g.programs[v] = nil
		}
	}

	for i := range g.meshes {
		g.meshes[i].dispose(g.dev)
	}

	g.programErrs = [numVariants]error{}
	g.textureErr = nil
	g.capture = nil
	g.initialized = false
}
