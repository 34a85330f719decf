package glcontext

import (
	"strings"
	"unsafe"

	"github.com/der-antikeks/lofi/engine"
	"github.com/go-gl/gl/v3.3-core/gl"
)

var _ engine.Device = (*Device)(nil)

// Device forwards renderer commands to the current OpenGL context.
// It holds no state; the context of the window that created it must be
// current on the calling thread.
type Device struct{}

func (Device) CreateShader(stage uint32) uint32 { return gl.CreateShader(stage) }

func (Device) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (Device) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (Device) GetShaderiv(shader uint32, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (Device) GetShaderInfoLog(shader uint32) string {
	var n int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &n)
	return infoLog(n, func(log *uint8) { gl.GetShaderInfoLog(shader, n, nil, log) })
}

func (Device) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (Device) CreateProgram() uint32 { return gl.CreateProgram() }
func (Device) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (Device) LinkProgram(program uint32) { gl.LinkProgram(program) }
func (Device) UseProgram(program uint32) { gl.UseProgram(program) }
func (Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (Device) GetProgramiv(program uint32, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (Device) GetProgramInfoLog(program uint32) string {
	var n int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &n)
	return infoLog(n, func(log *uint8) { gl.GetProgramInfoLog(program, n, nil, log) })
}

func infoLog(n int32, get func(*uint8)) string {
	if n <= 0 {
		return ""
	}
	log := strings.Repeat("\x00", int(n+1))
	get(gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (Device) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (Device) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (Device) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	gl.UniformMatrix4fv(location, count, transpose, value)
}

func (Device) GenBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (Device) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (Device) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.BufferData(target, size, data, usage)
}

func (Device) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (Device) GenVertexArray() uint32 {
	var a uint32
	gl.GenVertexArrays(1, &a)
	return a
}

func (Device) BindVertexArray(array uint32) { gl.BindVertexArray(array) }
func (Device) DeleteVertexArray(array uint32) { gl.DeleteVertexArrays(1, &array) }
func (Device) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (Device) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, offset)
}

func (Device) GenTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (Device) ActiveTexture(unit uint32) { gl.ActiveTexture(unit) }
func (Device) BindTexture(target, texture uint32) { gl.BindTexture(target, texture) }
func (Device) TexParameteri(target, pname uint32, param int32) { gl.TexParameteri(target, pname, param) }
func (Device) PixelStorei(pname uint32, param int32) { gl.PixelStorei(pname, param) }
func (Device) GenerateMipmap(target uint32) { gl.GenerateMipmap(target) }
func (Device) DeleteTexture(texture uint32) { gl.DeleteTextures(1, &texture) }

func (Device) TexImage2D(target uint32, level, internalformat, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.TexImage2D(target, level, internalformat, width, height, 0, format, xtype, pixels)
}

func (Device) Enable(capability uint32) { gl.Enable(capability) }
func (Device) DepthFunc(fn uint32) { gl.DepthFunc(fn) }
func (Device) CullFace(mode uint32) { gl.CullFace(mode) }
func (Device) FrontFace(mode uint32) { gl.FrontFace(mode) }
func (Device) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (Device) Clear(mask uint32) { gl.Clear(mask) }

func (Device) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (Device) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (Device) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.DrawElementsWithOffset(mode, count, xtype, offset)
}

func (Device) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	gl.ReadPixels(x, y, width, height, format, xtype, pixels)
}

func (Device) GetString(name uint32) string {
	return gl.GoStr(gl.GetString(name))
}
