package surface

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// Registry is the append-only, ordered set of recolorable surfaces.
// Only the dispatcher turn touches it, so it carries no lock.
type Registry struct {
	surfaces []*model.Surface
}

// NewRegistry creates an empty Registry.
//
// Returns:
//   - *Registry: the registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends s. A nil surface is ignored.
//
// Parameters:
//   - s: the surface to register
//
// Returns:
//   - bool: true if s was appended
func (r *Registry) Add(s *model.Surface) bool {
	if s == nil {
		return false
	}
	r.surfaces = append(r.surfaces, s)
	return true
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	return len(r.surfaces)
}

// At returns the i-th registered surface in insertion order.
func (r *Registry) At(i int) *model.Surface {
	return r.surfaces[i]
}

// Each calls fn for every registered surface in insertion order.
func (r *Registry) Each(fn func(*model.Surface)) {
	for _, s := range r.surfaces {
		fn(s)
	}
}

// Surfaces returns a copy of the registered surfaces.
func (r *Registry) Surfaces() []*model.Surface {
	out := make([]*model.Surface, len(r.surfaces))
	copy(out, r.surfaces)
	return out
}
