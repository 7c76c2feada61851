package composer

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/engine/async"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/color"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/surface"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
)

// ErrNotHandled is recorded for an asset whose result arrived after the dispatcher closed.
var ErrNotHandled = errors.New("composer: dispatcher closed before the asset was handled")

// Config describes what the composer loads and how each fragment is registered.
type Config struct {
	Base        loader.AssetDescriptor
	Colorable   loader.AssetDescriptor
	Environment loader.AssetDescriptor

	BaseSpec      transform.RegistrationSpec
	ColorableSpec transform.RegistrationSpec

	// Material creates the material installed on each colorable surface.
	Material surface.MaterialFactory

	// Palette is the selectable colors; DefaultPalette when nil.
	Palette *color.Palette

	// Ground is attached at start when set.
	Ground *scene.GroundConfig
}

// Failure records one asset that did not make it into the scene.
type Failure struct {
	Descriptor loader.AssetDescriptor
	Err        error
}

// composer is the implementation of the Composer interface.
type composer struct {
	mu *sync.Mutex

	dispatcher async.Dispatcher
	loader     loader.Loader
	scene      scene.Scene
	camera     camera.Camera
	cfg        Config

	registry *surface.Registry
	colors   color.Controller

	startOnce sync.Once
	ready     *async.Future[struct{}]
	failures  []Failure
}

// Composer assembles the scene at startup. It issues the environment, base and colorable
// loads concurrently and handles each outcome on the dispatcher, so scene and registry
// mutation never overlaps. A failed asset is logged and recorded; it never stops the others.
type Composer interface {
	// Start issues the three loads and attaches the ground. Calling Start again returns the
	// same future without issuing new loads.
	//
	// Returns:
	//   - *async.Future[struct{}]: resolves after every load has been handled
	Start() *async.Future[struct{}]

	// Ready returns the future from Start, or nil before Start.
	//
	// Returns:
	//   - *async.Future[struct{}]: the startup future
	Ready() *async.Future[struct{}]

	// Failures returns the assets that failed so far.
	//
	// Returns:
	//   - []Failure: one entry per failed asset, in handling order
	Failures() []Failure

	// Registry returns the recolorable surfaces collected from the colorable model.
	//
	// Returns:
	//   - *surface.Registry: the shared registry
	Registry() *surface.Registry

	// Colors returns the color controller bound to the registry. It must only be used on
	// the dispatcher.
	//
	// Returns:
	//   - color.Controller: the controller
	Colors() color.Controller

	// Scene returns the scene fragments are attached to.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene
}

var _ Composer = &composer{}

// NewComposer creates a Composer. The dispatcher, loader and scene are required; a nil
// value panics. cfg.Material defaults to a plain material when nil.
//
// Parameters:
//   - d: the dispatcher all handlers run on
//   - l: the asset loader
//   - sc: the scene to compose
//   - cfg: assets, registration and palette
//   - options: functional options to configure the composer
//
// Returns:
//   - Composer: the composer
func NewComposer(d async.Dispatcher, l loader.Loader, sc scene.Scene, cfg Config, options ...ComposerBuilderOption) Composer {
	if d == nil {
		panic("composer: dispatcher must not be nil")
	}
	if l == nil {
		panic("composer: loader must not be nil")
	}
	if sc == nil {
		panic("composer: scene must not be nil")
	}
	if cfg.Palette == nil {
		cfg.Palette = color.DefaultPalette()
	}
	if cfg.Material == nil {
		cfg.Material = defaultMaterial
	}

	c := &composer{
		mu:         &sync.Mutex{},
		dispatcher: d,
		loader:     l,
		scene:      sc,
		cfg:        cfg,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.registry == nil {
		c.registry = surface.NewRegistry()
	}
	c.colors = color.NewController(c.registry, cfg.Palette)
	return c
}

func (c *composer) Start() *async.Future[struct{}] {
	c.startOnce.Do(func() {
		if c.cfg.Ground != nil {
			ground := scene.NewGround(*c.cfg.Ground)
			posted := c.dispatcher.Post(func() {
				if err := c.scene.Attach(scene.SlotGround, ground); err != nil {
					log.Printf("composer: failed to attach ground: %v", err)
				}
			})
			if !posted {
				log.Printf("composer: ground not attached: %v", ErrNotHandled)
			}
		}

		handled := []async.Settled{
			c.startEnvironment(),
			c.startModel(c.cfg.Base, c.onBase),
			c.startModel(c.cfg.Colorable, c.onColorable),
		}
		ready := async.Settle(handled...)

		c.mu.Lock()
		c.ready = ready
		c.mu.Unlock()
	})
	return c.Ready()
}

func (c *composer) Ready() *async.Future[struct{}] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *composer) Failures() []Failure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Failure(nil), c.failures...)
}

func (c *composer) Registry() *surface.Registry {
	return c.registry
}

func (c *composer) Colors() color.Controller {
	return c.colors
}

func (c *composer) Scene() scene.Scene {
	return c.scene
}

// startModel issues one model load. The returned future settles after the outcome has
// been handled on the dispatcher.
func (c *composer) startModel(desc loader.AssetDescriptor, onOK func(model.Node) error) *async.Future[struct{}] {
	handled, p := async.NewPromise[struct{}]()
	f, err := c.loader.LoadModel(desc)
	if err != nil {
		c.settle(p, func() { c.fail(desc, err) })
		return handled
	}
	f.ThenOrDropped(c.dispatcher,
		func(node model.Node) {
			if err := onOK(node); err != nil {
				c.fail(desc, err)
			}
			p.Resolve(struct{}{})
		},
		func(err error) {
			c.fail(desc, err)
			p.Resolve(struct{}{})
		},
		func() {
			c.fail(desc, ErrNotHandled)
			p.Resolve(struct{}{})
		},
	)
	return handled
}

func (c *composer) startEnvironment() *async.Future[struct{}] {
	desc := c.cfg.Environment
	handled, p := async.NewPromise[struct{}]()
	f, err := c.loader.LoadEnvironment(desc)
	if err != nil {
		c.settle(p, func() { c.fail(desc, err) })
		return handled
	}
	f.ThenOrDropped(c.dispatcher,
		func(env *loader.EnvironmentMap) {
			if err := c.scene.SetEnvironment(env); err != nil {
				c.fail(desc, err)
			} else {
				log.Printf("composer: environment %s installed (%dx%d)", desc, env.Width, env.Height)
			}
			p.Resolve(struct{}{})
		},
		func(err error) {
			c.fail(desc, err)
			p.Resolve(struct{}{})
		},
		func() {
			c.fail(desc, ErrNotHandled)
			p.Resolve(struct{}{})
		},
	)
	return handled
}

// onBase attaches the base model, registers it, enables its shadows and centers the
// camera on it. A fragment the scene refuses is left untouched. It does not depend on the colorable model.
func (c *composer) onBase(node model.Node) error {
	if err := c.scene.Attach(scene.SlotBase, node); err != nil {
		return err
	}
	transform.Register(node, c.cfg.BaseSpec)
	surface.Extract(node, surface.ShadowOnly(), nil)
	c.centerCamera()
	return nil
}

// onColorable attaches the colorable model, registers it with its offset and collects
// its surfaces into the registry. A color chosen before the model arrived is applied to it.
func (c *composer) onColorable(node model.Node) error {
	if err := c.scene.Attach(scene.SlotColorable, node); err != nil {
		return err
	}
	transform.Register(node, c.cfg.ColorableSpec)
	n := surface.Extract(node, surface.Recolorable(c.cfg.Material), c.registry)
	if cur, ok := c.colors.Current(); ok {
		c.colors.SetColor(cur)
	}
	log.Printf("composer: %s attached with %d colorable surfaces", c.cfg.Colorable, n)
	return nil
}

func (c *composer) centerCamera() {
	if c.camera == nil {
		return
	}
	bounds := c.scene.Bounds(scene.SlotBase)
	if bounds.IsEmpty() {
		return
	}
	center := bounds.Center()
	if ctrl := c.camera.Controller(); ctrl != nil {
		ctrl.SetTarget(center[0], center[1], center[2])
	}
	c.camera.Update()
}

// settle runs fn and resolves p on the dispatcher, or right away when it is closed.
func (c *composer) settle(p async.Promise[struct{}], fn func()) {
	ok := c.dispatcher.Post(func() {
		fn()
		p.Resolve(struct{}{})
	})
	if !ok {
		fn()
		p.Resolve(struct{}{})
	}
}

// fail logs and records a failed asset.
func (c *composer) fail(desc loader.AssetDescriptor, err error) {
	log.Printf("composer: failed to load %s: %v", desc, err)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures = append(c.failures, Failure{Descriptor: desc, Err: fmt.Errorf("%s: %w", desc.Name(), err)})
}

func defaultMaterial() material.Material {
	return material.NewMaterial(material.WithName("paint"))
}
