// Package surface walks loaded fragments and prepares their drawables for the viewer:
// every surface takes part in shadowing, and surfaces of the colorable fragment get a
// fresh recolorable material and are recorded in a Registry.
package surface

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// MaterialFactory builds a new material instance. Each recolorable surface gets its own.
type MaterialFactory func() material.Material

// Policy decides what Extract does with each surface it finds.
type Policy struct {
	// Recolor installs a fresh material from Material and registers the surface.
	Recolor bool

	// Material is the factory used when Recolor is set.
	Material MaterialFactory
}

// ShadowOnly is the policy for the base fragment: shadows on, materials untouched.
//
// Returns:
//   - Policy: the shadow-only policy
func ShadowOnly() Policy {
	return Policy{}
}

// Recolorable is the policy for the colorable fragment.
//
// Parameters:
//   - factory: builds one material per surface
//
// Returns:
//   - Policy: the recolor policy
func Recolorable(factory MaterialFactory) Policy {
	if factory == nil {
		panic("surface: recolorable policy requires a material factory")
	}
	return Policy{Recolor: true, Material: factory}
}

// Extract visits every node under root and enables casting and receiving shadows on
// each surface. Under a recolor policy it also installs a new material on the surface
// and appends it to reg. Nodes without a surface are skipped.
//
// Parameters:
//   - root: the fragment root
//   - policy: what to do with each surface
//   - reg: the registry to append to; may be nil for ShadowOnly
//
// Returns:
//   - int: the number of surfaces appended to reg
func Extract(root model.Node, policy Policy, reg *Registry) int {
	if root == nil {
		return 0
	}
	added := 0
	root.Walk(func(n model.Node) bool {
		s := n.Surface()
		if s == nil {
			return true
		}
		s.CastShadow = true
		s.ReceiveShadow = true
		if policy.Recolor && reg != nil {
			s.Material = policy.Material()
			if reg.Add(s) {
				added++
			}
		}
		return true
	})
	return added
}
