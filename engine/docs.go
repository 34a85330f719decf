/*
	opengl pipeline setup and per-frame drawing

	Graphics owns the device resources of one context:

	Init
		mesh tables -> vertex arrays, vertex and element buffers
		shader files -> programs (vxcolor, vxuv), attribute layouts
		image file -> texture with mipmaps
		depth test (LESS), back face culling (CCW front)

	Draw(surface, mode)
		framebuffer size -> aspect -> viewport, clear
		mode -> program, MVP, vertex array, texture, draw call
		swap

	Terminate
		delete everything created by Init

	All device calls go through the Device interface so the same code runs
	against a GL context (package glcontext) or a recording fake in tests.
*/

package engine
