package engine

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// fakeDevice records the calls the renderer makes. Every Gen/Create call
// hands out a fresh handle from one counter so handles never collide.
type fakeDevice struct {
	next  uint32
	calls []string

	// failure injection
	compileFail map[uint32]bool // by shader stage
	linkFail    bool
	missing     map[string]bool // binding names reported as -1

	created map[uint32]string // handle -> kind
	deleted map[uint32]int    // handle -> delete count

	stages  map[uint32]uint32
	sources map[uint32]string
	bound   map[uint32]uint32 // target -> buffer or texture
	vao     uint32
	program uint32

	bufferSizes  map[uint32]int
	elementOwner map[uint32]uint32 // element buffer -> vertex array bound at upload
	attribs      []fakeAttrib
	texParams    map[uint32]int32
	pixelStore   map[uint32]int32
	texImages    []fakeTexImage
	activeUnit   uint32
	enabled      map[uint32]bool
	depthFunc    uint32
	cullFace     uint32
	frontFace    uint32
	clearColor   [4]float32

	viewports    [][4]int32
	clears       []uint32
	mvps         []mgl32.Mat4
	drawElements []fakeDraw
	drawArrays   []fakeDraw
	framebuffer  func(x, y int) color.NRGBA
}

type fakeAttrib struct {
	vao, buffer uint32
	index       uint32
	size        int32
	stride      int32
	offset      uintptr
}

type fakeTexImage struct {
	texture       uint32
	width, height int32
	format        uint32
	pix           []byte
}

type fakeDraw struct {
	program, vao, texture uint32
	count                 int32
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		compileFail:  map[uint32]bool{},
		missing:      map[string]bool{},
		created:      map[uint32]string{},
		deleted:      map[uint32]int{},
		stages:       map[uint32]uint32{},
		sources:      map[uint32]string{},
		bound:        map[uint32]uint32{},
		bufferSizes:  map[uint32]int{},
		elementOwner: map[uint32]uint32{},
		texParams:    map[uint32]int32{},
		pixelStore:   map[uint32]int32{},
		enabled:      map[uint32]bool{},
	}
}

func (d *fakeDevice) record(name string) { d.calls = append(d.calls, name) }

func (d *fakeDevice) gen(kind string) uint32 {
	d.next++
	d.created[d.next] = kind
	return d.next
}

func (d *fakeDevice) del(h uint32) {
	if h != 0 {
		d.deleted[h]++
	}
}

// live returns the handles of kind that were created and not yet deleted.
func (d *fakeDevice) live(kind string) []uint32 {
	var hs []uint32
	for h, k := range d.created {
		if k == kind && d.deleted[h] == 0 {
			hs = append(hs, h)
		}
	}
	return hs
}

func (d *fakeDevice) CreateShader(stage uint32) uint32 {
	d.record("CreateShader")
	h := d.gen("shader")
	d.stages[h] = stage
	return h
}

func (d *fakeDevice) ShaderSource(shader uint32, source string) {
	d.record("ShaderSource")
	d.sources[shader] = source
}

func (d *fakeDevice) CompileShader(shader uint32) { d.record("CompileShader") }

func (d *fakeDevice) GetShaderiv(shader uint32, pname uint32) int32 {
	d.record("GetShaderiv")
	if pname == COMPILE_STATUS && d.compileFail[d.stages[shader]] {
		return FALSE
	}
	return TRUE
}

func (d *fakeDevice) GetShaderInfoLog(shader uint32) string {
	d.record("GetShaderInfoLog")
	return "0:1(1): error: syntax error"
}

func (d *fakeDevice) DeleteShader(shader uint32) {
	d.record("DeleteShader")
	d.del(shader)
}

func (d *fakeDevice) CreateProgram() uint32 {
	d.record("CreateProgram")
	return d.gen("program")
}

func (d *fakeDevice) AttachShader(program, shader uint32) { d.record("AttachShader") }
func (d *fakeDevice) LinkProgram(program uint32)          { d.record("LinkProgram") }

func (d *fakeDevice) GetProgramiv(program uint32, pname uint32) int32 {
	d.record("GetProgramiv")
	if pname == LINK_STATUS && d.linkFail {
		return FALSE
	}
	return TRUE
}

func (d *fakeDevice) GetProgramInfoLog(program uint32) string {
	d.record("GetProgramInfoLog")
	return "error: linking failed"
}

func (d *fakeDevice) UseProgram(program uint32) {
	d.record("UseProgram")
	d.program = program
}

func (d *fakeDevice) DeleteProgram(program uint32) {
	d.record("DeleteProgram")
	d.del(program)
}

func (d *fakeDevice) location(name string) int32 {
	if d.missing[name] {
		return -1
	}
	switch name {
	case "vPos", "MVP":
		return 0
	case "vCol", "vUV":
		return 1
	}
	return 2
}

func (d *fakeDevice) GetUniformLocation(program uint32, name string) int32 {
	d.record("GetUniformLocation")
	return d.location(name)
}

func (d *fakeDevice) GetAttribLocation(program uint32, name string) int32 {
	d.record("GetAttribLocation")
	return d.location(name)
}

func (d *fakeDevice) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	d.record("UniformMatrix4fv")
	var m mgl32.Mat4
	copy(m[:], unsafe.Slice(value, 16))
	d.mvps = append(d.mvps, m)
}

func (d *fakeDevice) GenBuffer() uint32 {
	d.record("GenBuffer")
	return d.gen("buffer")
}

func (d *fakeDevice) BindBuffer(target, buffer uint32) {
	d.record("BindBuffer")
	d.bound[target] = buffer
	if target == ELEMENT_ARRAY_BUFFER && buffer != 0 {
		d.elementOwner[buffer] = d.vao
	}
}

func (d *fakeDevice) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	d.record("BufferData")
	d.bufferSizes[d.bound[target]] = size
}

func (d *fakeDevice) DeleteBuffer(buffer uint32) {
	d.record("DeleteBuffer")
	d.del(buffer)
}

func (d *fakeDevice) GenVertexArray() uint32 {
	d.record("GenVertexArray")
	return d.gen("vertexarray")
}

func (d *fakeDevice) BindVertexArray(array uint32) {
	d.record("BindVertexArray")
	d.vao = array
}

func (d *fakeDevice) DeleteVertexArray(array uint32) {
	d.record("DeleteVertexArray")
	d.del(array)
}

func (d *fakeDevice) EnableVertexAttribArray(index uint32) { d.record("EnableVertexAttribArray") }

func (d *fakeDevice) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	d.record("VertexAttribPointer")
	d.attribs = append(d.attribs, fakeAttrib{
		vao: d.vao, buffer: d.bound[ARRAY_BUFFER],
		index: index, size: size, stride: stride, offset: offset,
	})
}

func (d *fakeDevice) GenTexture() uint32 {
	d.record("GenTexture")
	return d.gen("texture")
}

func (d *fakeDevice) ActiveTexture(unit uint32) {
	d.record("ActiveTexture")
	d.activeUnit = unit
}

func (d *fakeDevice) BindTexture(target, texture uint32) {
	d.record("BindTexture")
	d.bound[target] = texture
}

func (d *fakeDevice) TexParameteri(target, pname uint32, param int32) {
	d.record("TexParameteri")
	d.texParams[pname] = param
}

func (d *fakeDevice) PixelStorei(pname uint32, param int32) {
	d.record("PixelStorei")
	d.pixelStore[pname] = param
}

func (d *fakeDevice) TexImage2D(target uint32, level, internalformat, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	d.record("TexImage2D")
	n := int(width * height * 3)
	if format == RGBA {
		n = int(width * height * 4)
	}
	pix := make([]byte, n)
	copy(pix, unsafe.Slice((*byte)(pixels), n))
	d.texImages = append(d.texImages, fakeTexImage{
		texture: d.bound[TEXTURE_2D], width: width, height: height, format: format, pix: pix,
	})
}

func (d *fakeDevice) GenerateMipmap(target uint32) { d.record("GenerateMipmap") }

func (d *fakeDevice) DeleteTexture(texture uint32) {
	d.record("DeleteTexture")
	d.del(texture)
}

func (d *fakeDevice) Enable(capability uint32) {
	d.record("Enable")
	d.enabled[capability] = true
}

func (d *fakeDevice) DepthFunc(fn uint32) {
	d.record("DepthFunc")
	d.depthFunc = fn
}

func (d *fakeDevice) CullFace(mode uint32) {
	d.record("CullFace")
	d.cullFace = mode
}

func (d *fakeDevice) FrontFace(mode uint32) {
	d.record("FrontFace")
	d.frontFace = mode
}

func (d *fakeDevice) ClearColor(r, g, b, a float32) {
	d.record("ClearColor")
	d.clearColor = [4]float32{r, g, b, a}
}

func (d *fakeDevice) Clear(mask uint32) {
	d.record("Clear")
	d.clears = append(d.clears, mask)
}

func (d *fakeDevice) Viewport(x, y, width, height int32) {
	d.record("Viewport")
	d.viewports = append(d.viewports, [4]int32{x, y, width, height})
}

func (d *fakeDevice) DrawArrays(mode uint32, first, count int32) {
	d.record("DrawArrays")
	d.drawArrays = append(d.drawArrays, fakeDraw{d.program, d.vao, d.bound[TEXTURE_2D], count})
}

func (d *fakeDevice) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	d.record("DrawElements")
	d.drawElements = append(d.drawElements, fakeDraw{d.program, d.vao, d.bound[TEXTURE_2D], count})
}

// ReadPixels fills the buffer bottom row first, like gl does.
func (d *fakeDevice) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	d.record("ReadPixels")
	pix := unsafe.Slice((*byte)(pixels), int(width*height*4))
	for row := 0; row < int(height); row++ {
		for col := 0; col < int(width); col++ {
			c := color.NRGBA{}
			if d.framebuffer != nil {
				c = d.framebuffer(col, row)
			}
			i := (row*int(width) + col) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

func (d *fakeDevice) GetString(name uint32) string {
	d.record("GetString")
	return "3.3.0 fake"
}

type fakeSurface struct {
	width, height int
	swaps         int
}

func (s *fakeSurface) GetFramebufferSize() (int, int) { return s.width, s.height }
func (s *fakeSurface) SwapBuffers()                   { s.swaps++ }

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const (
	testVertexShader = `#version 330 core
uniform mat4 MVP;
in vec3 vPos;
void main() { gl_Position = MVP * vec4(vPos, 1.0); }
`
	testFragmentShader = `#version 330 core
out vec4 fragment;
void main() { fragment = vec4(1.0); }
`
)

// writeAssets creates shader files and a 4x2 png texture in a temp dir.
func writeAssets(t *testing.T) Assets {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	a := Assets{
		ColorVertex:   write("vxcolor_v.glsl", testVertexShader),
		ColorFragment: write("vxcolor_f.glsl", testFragmentShader),
		UVVertex:      write("vxuv_v.glsl", strings.Replace(testVertexShader, "in vec3 vPos;", "in vec3 vPos;\nin vec2 vUV;", 1)),
		UVFragment:    write("vxuv_f.glsl", testFragmentShader),
		Texture:       writePNG(t, dir, "checker.png", 4, 2),
	}
	return a
}

// writePNG stores an opaque w x h image where pixel (x, y) is (x, y, 7).
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x), uint8(y), 7, 255})
		}
	}

	p := filepath.Join(dir, name)
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return p
}
