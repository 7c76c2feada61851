package color

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/surface"
)

// controller is the implementation of the Controller interface.
type controller struct {
	registry *surface.Registry
	palette  *Palette
	current  common.Color
	hasColor bool
}

// Controller applies palette selections to the surfaces of a Registry.
// It is driven from the dispatcher turn and is not safe for concurrent use.
type Controller interface {
	// SetColor recolors every registered surface with c and remembers c as current.
	// With an empty registry this only records c.
	//
	// Parameters:
	//   - c: the color to apply
	SetColor(c common.Color)

	// Select looks up label in the palette and applies its color.
	//
	// Parameters:
	//   - label: the palette label
	//
	// Returns:
	//   - error: ErrUnknownLabel if the palette has no such entry
	Select(label string) error

	// SelectIndex applies the i-th palette entry.
	//
	// Parameters:
	//   - i: the zero-based entry index
	//
	// Returns:
	//   - error: ErrUnknownLabel if i is out of range
	SelectIndex(i int) error

	// Current returns the last applied color.
	//
	// Returns:
	//   - common.Color: the color
	//   - bool: false if no color has been applied yet
	Current() (common.Color, bool)

	// Palette retrieves the palette the controller selects from.
	//
	// Returns:
	//   - *Palette: the palette
	Palette() *Palette
}

var _ Controller = &controller{}

// NewController binds a Controller to a registry and palette.
//
// Parameters:
//   - registry: the recolorable surfaces, must not be nil
//   - palette: the selectable colors, must not be nil
//
// Returns:
//   - Controller: the controller
func NewController(registry *surface.Registry, palette *Palette) Controller {
	if registry == nil {
		panic("color: controller requires a registry")
	}
	if palette == nil {
		panic("color: controller requires a palette")
	}
	return &controller{
		registry: registry,
		palette:  palette,
	}
}

func (c *controller) SetColor(col common.Color) {
	Apply(c.registry, col)
	c.current = col
	c.hasColor = true
}

func (c *controller) Select(label string) error {
	e, ok := c.palette.Lookup(label)
	if !ok {
		return fmt.Errorf("%q: %w", label, ErrUnknownLabel)
	}
	c.SetColor(e.Color)
	return nil
}

func (c *controller) SelectIndex(i int) error {
	if i < 0 || i >= c.palette.Len() {
		return fmt.Errorf("index %d: %w", i, ErrUnknownLabel)
	}
	c.SetColor(c.palette.At(i).Color)
	return nil
}

func (c *controller) Current() (common.Color, bool) {
	return c.current, c.hasColor
}

func (c *controller) Palette() *Palette {
	return c.palette
}

// Apply sets the base color of every surface in registry to col and marks each
// material for re-upload. Surfaces without a material are skipped.
//
// Parameters:
//   - registry: the surfaces to recolor
//   - col: the color to apply
func Apply(registry *surface.Registry, col common.Color) {
	if registry == nil {
		return
	}
	registry.Each(func(s *model.Surface) {
		if s.Material != nil {
			s.Material.SetBaseColor(col)
		}
	})
}
