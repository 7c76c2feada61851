package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrSlotOccupied is returned when a slot already holds a different fragment.
	ErrSlotOccupied = errors.New("scene slot already occupied")

	// ErrAlreadyAttached is returned when a fragment root is already held by another slot.
	ErrAlreadyAttached = errors.New("fragment already attached to another slot")

	// ErrEnvironmentSet is returned when a different environment map is already installed.
	ErrEnvironmentSet = errors.New("scene environment already set")

	errNilFragment = errors.New("nil fragment")
)

// Slot names the place a fragment occupies in the scene. Each slot holds at most one fragment.
type Slot string

const (
	// SlotBase holds the static base model.
	SlotBase Slot = "base"

	// SlotColorable holds the recolorable variant model.
	SlotColorable Slot = "colorable"

	// SlotGround holds the ground plane the models stand on.
	SlotGround Slot = "ground"
)

// ToneMapping selects the operator that maps scene radiance to display values.
type ToneMapping int

const (
	// ToneMappingNone clamps linear values.
	ToneMappingNone ToneMapping = iota

	// ToneMappingACES applies the ACES filmic curve.
	ToneMappingACES
)

// Fragment is an attached subtree together with the slot it occupies.
type Fragment struct {
	Slot Slot
	Root model.Node
}

// scene is the implementation of the Scene interface.
type scene struct {
	mu          *sync.RWMutex
	name        string
	background  common.Color
	exposure    float32
	toneMapping ToneMapping
	shadows     bool
	lights      []light.Light
	environment *loader.EnvironmentMap
	slots       map[Slot]model.Node
	order       []Slot
}

// Scene is the composed render graph: up to one fragment per Slot, the lights, the
// environment map and the display settings the renderer needs.
// Fragments are never detached. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Attach places root into slot. Attaching the fragment already held by slot is a no-op.
	//
	// Parameters:
	//   - slot: the destination slot
	//   - root: the fragment root
	//
	// Returns:
	//   - error: ErrSlotOccupied if slot holds a different fragment, ErrAlreadyAttached if
	//     root is held by another slot
	Attach(slot Slot, root model.Node) error

	// Fragment returns the fragment held by slot.
	//
	// Parameters:
	//   - slot: the slot to query
	//
	// Returns:
	//   - model.Node: the fragment root
	//   - bool: false if the slot is empty
	Fragment(slot Slot) (model.Node, bool)

	// Fragments returns the attached fragments in attach order.
	Fragments() []Fragment

	// Bounds computes the world-space box of the fragment held by slot.
	// Empty if the slot is empty or the fragment has no surfaces.
	//
	// Parameters:
	//   - slot: the slot to measure
	//
	// Returns:
	//   - common.Box3: the world bounds
	Bounds(slot Slot) common.Box3

	// Walk visits every surface of every attached fragment, fragments in attach order.
	//
	// Parameters:
	//   - fn: called with each surface and its world matrix
	Walk(fn func(s *model.Surface, world mgl32.Mat4))

	// SetEnvironment installs env as the ambient reflection source.
	// Installing the map already present is a no-op.
	//
	// Parameters:
	//   - env: the environment map
	//
	// Returns:
	//   - error: ErrEnvironmentSet if a different map is already installed
	SetEnvironment(env *loader.EnvironmentMap) error

	// Environment returns the installed environment map, or nil.
	Environment() *loader.EnvironmentMap

	// AddLight adds a light to the scene.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// Lights returns a copy of the scene's lights.
	Lights() []light.Light

	// Background returns the clear color.
	Background() common.Color

	// Exposure returns the tone mapping exposure.
	Exposure() float32

	// ToneMapping returns the tone mapping operator.
	ToneMapping() ToneMapping

	// ShadowsEnabled reports whether shadow maps are rendered.
	ShadowsEnabled() bool
}

var _ Scene = &scene{}

// NewScene creates a new, empty Scene configured with the provided options.
//
// Parameters:
//   - name: the scene identifier
//   - options: a variadic list of SceneBuilderOption functions
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:         &sync.RWMutex{},
		name:       name,
		background: common.Color{R: 1, G: 1, B: 1},
		exposure:   1,
		slots:      make(map[Slot]model.Node),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Attach(slot Slot, root model.Node) error {
	if root == nil {
		return fmt.Errorf("attach %s: %w", slot, errNilFragment)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.slots[slot]; ok {
		if cur == root {
			return nil
		}
		return fmt.Errorf("attach %s: %w", slot, ErrSlotOccupied)
	}
	for other, n := range s.slots {
		if n == root {
			return fmt.Errorf("attach %s: held by %s: %w", slot, other, ErrAlreadyAttached)
		}
	}
	s.slots[slot] = root
	s.order = append(s.order, slot)
	return nil
}

func (s *scene) Fragment(slot Slot) (model.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.slots[slot]
	return n, ok
}

func (s *scene) Fragments() []Fragment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Fragment, 0, len(s.order))
	for _, slot := range s.order {
		out = append(out, Fragment{Slot: slot, Root: s.slots[slot]})
	}
	return out
}

func (s *scene) Bounds(slot Slot) common.Box3 {
	n, ok := s.Fragment(slot)
	if !ok {
		return common.EmptyBox3()
	}
	return n.WorldBounds()
}

func (s *scene) Walk(fn func(surf *model.Surface, world mgl32.Mat4)) {
	for _, f := range s.Fragments() {
		f.Root.WalkWorld(mgl32.Ident4(), func(n model.Node, world mgl32.Mat4) bool {
			if surf := n.Surface(); surf != nil {
				fn(surf, world)
			}
			return true
		})
	}
}

func (s *scene) SetEnvironment(env *loader.EnvironmentMap) error {
	if env == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.environment != nil && s.environment != env {
		return ErrEnvironmentSet
	}
	s.environment = env
	return nil
}

func (s *scene) Environment() *loader.EnvironmentMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.environment
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) Background() common.Color {
	return s.background
}

func (s *scene) Exposure() float32 {
	return s.exposure
}

func (s *scene) ToneMapping() ToneMapping {
	return s.toneMapping
}

func (s *scene) ShadowsEnabled() bool {
	return s.shadows
}
