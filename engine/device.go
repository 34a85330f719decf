package engine

import "unsafe"

// Device is the OpenGL call surface the renderer issues commands through.
// All methods must be called on the thread that owns the current context.
type Device interface {
	// shaders and programs
	CreateShader(stage uint32) uint32
	ShaderSource(shader uint32, source string) // source is NUL-terminated
	CompileShader(shader uint32)
	GetShaderiv(shader uint32, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program uint32, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GetUniformLocation(program uint32, name string) int32
	GetAttribLocation(program uint32, name string) int32
	UniformMatrix4fv(location int32, count int32, transpose bool, value *float32)

	// buffers and vertex arrays
	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	DeleteBuffer(buffer uint32)

	GenVertexArray() uint32
	BindVertexArray(array uint32)
	DeleteVertexArray(array uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)

	// textures
	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(target, texture uint32)
	TexParameteri(target, pname uint32, param int32)
	PixelStorei(pname uint32, param int32)
	TexImage2D(target uint32, level, internalformat, width, height int32, format, xtype uint32, pixels unsafe.Pointer)
	GenerateMipmap(target uint32)
	DeleteTexture(texture uint32)

	// raster state and drawing
	Enable(capability uint32)
	DepthFunc(fn uint32)
	CullFace(mode uint32)
	FrontFace(mode uint32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	Viewport(x, y, width, height int32)
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)
	ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer)

	GetString(name uint32) string
}

// Surface is the drawable the window collaborator hands to Draw.
// *glfw.Window satisfies it.
type Surface interface {
	GetFramebufferSize() (width, height int)
	SwapBuffers()
}
