package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/async"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/composer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/config"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/viewport"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// configPath is read from the working directory.
const configPath = "viewer.yaml"

func init() {
	// GLFW must be driven from the main thread.
	runtime.LockOSThread()
}

func main() {
	v, err := loadConfig(configPath)
	if err != nil {
		log.Fatalf("viewer: %v", err)
	}

	// ── Window + Renderer ───────────────────────────────────────────────
	win := window.NewWindow(window.WithTitle(v.Title))
	defer win.Close()

	r := renderer.NewRenderer(renderer.BackendTypeWGPU, win, renderer.WithMSAA(renderer.MSAA4x))
	defer r.Release()

	// ── Camera + Viewport ───────────────────────────────────────────────
	cam := v.NewCamera(float32(win.Width()) / float32(win.Height()))
	vp := viewport.NewViewport(cam,
		viewport.WithTarget(r),
		viewport.WithFraction(v.ViewportFraction),
	)

	// ── Scene + Composer ────────────────────────────────────────────────
	d := async.NewDispatcher()
	sc := v.NewScene()
	l := loader.NewLoader(
		loader.WithBaseDir(v.BaseDir),
		loader.WithHTTPTimeout(v.HTTPTimeout),
		loader.WithWorkers(v.Workers),
	)
	ccfg, err := v.ComposerConfig()
	if err != nil {
		log.Fatalf("viewer: %v", err)
	}
	comp := composer.NewComposer(d, l, sc, ccfg, composer.WithCamera(cam))

	eng := engine.NewEngine(d,
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithCamera(cam),
		engine.WithScene(sc),
		engine.WithFrameRate(v.FrameRate),
		engine.WithProfiling(v.Profiling),
	)

	bindInput(eng, vp, cam.Controller(), comp)

	if dw, dh := win.DisplaySize(); dw > 0 && dh > 0 {
		if err := vp.ResizeDisplay(dw, dh); err == nil {
			w, h := vp.Size()
			win.SetSize(w, h)
		}
	}
	if w, _ := vp.Size(); w == 0 {
		if err := vp.Resize(win.Width(), win.Height()); err != nil {
			log.Printf("viewer: initial resize: %v", err)
		}
	}

	comp.Start().Then(d, func(struct{}) {
		failures := comp.Failures()
		if len(failures) == 0 {
			log.Printf("viewer: scene ready")
			return
		}
		log.Printf("viewer: scene ready with %d missing asset(s)", len(failures))
	}, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("viewer: %v", err)
	}
}

// loadConfig reads the config file, or falls back to the showroom preset when it is absent.
func loadConfig(path string) (config.Viewer, error) {
	v, found, err := config.LoadOrDefault(path)
	if err != nil {
		return config.Viewer{}, err
	}
	if !found {
		log.Printf("viewer: %s not found, using the %s preset", path, config.PresetShowroom)
	}
	return v, nil
}

// bindInput maps window input onto the dispatcher. Callbacks never touch the camera,
// viewport or registry directly.
func bindInput(eng engine.Engine, vp viewport.Viewport, ctrl camera.CameraController, comp composer.Composer) {
	win := eng.Window()
	d := eng.Dispatcher()

	win.SetResizeCallback(func(width, height int) {
		d.Post(func() {
			if err := vp.Resize(width, height); err != nil && !errors.Is(err, viewport.ErrInvalidSize) {
				log.Printf("viewer: resize: %v", err)
			}
		})
	})

	var dragging bool
	var lastX, lastY int32

	win.SetMouseDownCallback(func(x, y int32) {
		d.Post(func() {
			dragging = true
			lastX, lastY = x, y
		})
	})

	win.SetMouseUpCallback(func(_, _ int32) {
		d.Post(func() {
			dragging = false
		})
	})

	win.SetMouseMoveCallback(func(x, y int32) {
		d.Post(func() {
			if !dragging {
				return
			}
			s := ctrl.MouseSensitivity()
			ctrl.Rotate(float32(x-lastX)*s, -float32(y-lastY)*s)
			lastX, lastY = x, y
		})
	})

	win.SetScrollCallback(func(delta float32) {
		d.Post(func() {
			ctrl.Zoom(delta)
		})
	})

	win.SetKeyDownCallback(func(keyCode uint32) {
		d.Post(func() {
			if i, ok := common.DigitIndex(keyCode); ok {
				if err := comp.Colors().SelectIndex(i); err == nil {
					log.Printf("viewer: color %q selected", comp.Colors().Palette().At(i).Label)
				}
				return
			}
			switch keyCode {
			case common.KeyLeft:
				ctrl.OrbitLeft()
			case common.KeyRight:
				ctrl.OrbitRight()
			case common.KeyUp:
				ctrl.OrbitUp()
			case common.KeyDown:
				ctrl.OrbitDown()
			case common.KeyEsc:
				eng.Quit()
			}
		})
	})
}
