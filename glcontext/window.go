package glcontext

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type Options struct {
	Title         string
	Width, Height int
	Samples       int
	VSync         bool
	Logger        *slog.Logger
}

// Window owns the glfw window and its OpenGL 3.3 core context. Create it,
// use it and destroy it on the locked main thread.
type Window struct {
	window *glfw.Window
	device *Device
	log    *slog.Logger

	width, height int
	keyHandler    func(Key)
}

// New initializes glfw, opens a window and makes its context current.
func New(o Options) (*Window, error) {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	w := &Window{
		log:    o.Logger,
		width:  o.Width,
		height: o.Height,
	}

	// init glfw
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize glfw: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	if o.Samples > 0 {
		glfw.WindowHint(glfw.Samples, o.Samples)
	}

	var err error
	w.window, err = glfw.CreateWindow(o.Width, o.Height, o.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w.window.MakeContextCurrent()
	if o.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		w.window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize gl: %w", err)
	}
	w.device = &Device{}

	// callbacks
	w.window.SetFramebufferSizeCallback(w.onResize)
	w.window.SetKeyCallback(w.onKey)

	w.width, w.height = w.window.GetFramebufferSize()
	w.log.Debug("window opened", "title", o.Title, "width", w.width, "height", w.height)

	return w, nil
}

// Device returns the OpenGL device bound to this window's context.
func (w *Window) Device() *Device {
	return w.device
}

// Surface is what the renderer draws into. *glfw.Window already reports
// its framebuffer size and presents with SwapBuffers.
func (w *Window) Surface() *glfw.Window {
	return w.window
}

func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// Destroy closes the window and releases glfw. Delete device resources
// before calling it.
func (w *Window) Destroy() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	glfw.Terminate()
}

// Size is the framebuffer size reported by the last resize.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

func (w *Window) onResize(_ *glfw.Window, width, height int) {
	w.width = width
	w.height = height
	w.log.Debug("framebuffer resized", "width", width, "height", height)
}

// OnKey sets the function called for every key press. Escape always closes
// the window, before the handler runs.
func (w *Window) OnKey(f func(Key)) {
	w.keyHandler = f
}

func (w *Window) onKey(win *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}

	if key == glfw.KeyEscape {
		win.SetShouldClose(true)
	}
	if w.keyHandler != nil {
		w.keyHandler(Key(key))
	}
}

type Key int

const (
	Key1 = Key(glfw.Key1)
	Key2 = Key(glfw.Key2)
	Key3 = Key(glfw.Key3)

	KeyC = Key(glfw.KeyC)
)
