package loader

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	errNodeCycle       = errors.New("node hierarchy contains a cycle")
	errIndexOutOfRange = errors.New("index out of range")
	errNoScene         = errors.New("document has no scene")
)

// gltfImporter turns a decoded document into a model.Node fragment.
type gltfImporter struct {
	doc       *gltfDocument
	materials []material.Material
	visiting  []bool
}

// importGLTF builds the fragment for doc. The returned root is named name and holds the
// default scene's root nodes as children. Each mesh primitive becomes its own child node
// carrying a Surface, so every drawable maps to exactly one node.
//
// Parameters:
//   - doc: the decoded document
//   - name: the fragment name
//
// Returns:
//   - model.Node: the fragment root
//   - error: error if the document references missing nodes, meshes, accessors or materials
func importGLTF(doc *gltfDocument, name string) (model.Node, error) {
	imp := &gltfImporter{
		doc:      doc,
		visiting: make([]bool, len(doc.Nodes)),
	}
	imp.materials = make([]material.Material, len(doc.Materials))
	for i := range doc.Materials {
		imp.materials[i] = gltfMaterialToMaterial(&doc.Materials[i])
	}

	roots, err := imp.sceneRoots()
	if err != nil {
		return nil, err
	}

	root := model.NewNode(model.WithName(name))
	for _, idx := range roots {
		child, err := imp.buildNode(idx)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

// sceneRoots returns the root node indices of the default scene. Documents without
// scenes fall back to every node that is nobody's child.
func (imp *gltfImporter) sceneRoots() ([]int, error) {
	doc := imp.doc
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if idx < 0 || idx >= len(doc.Scenes) {
			return nil, fmt.Errorf("scene %d: %w", idx, errIndexOutOfRange)
		}
		return doc.Scenes[idx].Nodes, nil
	}
	if len(doc.Nodes) == 0 {
		return nil, errNoScene
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i, child := range isChild {
		if !child {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

func (imp *gltfImporter) buildNode(idx int) (model.Node, error) {
	if idx < 0 || idx >= len(imp.doc.Nodes) {
		return nil, fmt.Errorf("node %d: %w", idx, errIndexOutOfRange)
	}
	if imp.visiting[idx] {
		return nil, fmt.Errorf("node %d: %w", idx, errNodeCycle)
	}
	imp.visiting[idx] = true
	defer func() { imp.visiting[idx] = false }()

	gn := &imp.doc.Nodes[idx]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node_%d", idx)
	}
	n := model.NewNode(model.WithName(name), model.WithTransform(gltfNodeTransform(gn)))

	if gn.Mesh != nil {
		surfaces, err := imp.buildMesh(*gn.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}
		for _, s := range surfaces {
			n.AddChild(model.NewNode(model.WithName(s.Name), model.WithSurface(s)))
		}
	}

	for _, c := range gn.Children {
		child, err := imp.buildNode(c)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func (imp *gltfImporter) buildMesh(idx int) ([]*model.Surface, error) {
	if idx < 0 || idx >= len(imp.doc.Meshes) {
		return nil, fmt.Errorf("mesh %d: %w", idx, errIndexOutOfRange)
	}
	mesh := &imp.doc.Meshes[idx]
	meshName := mesh.Name
	if meshName == "" {
		meshName = fmt.Sprintf("mesh_%d", idx)
	}

	out := make([]*model.Surface, 0, len(mesh.Primitives))
	for i, prim := range mesh.Primitives {
		bounds := common.EmptyBox3()
		if pos, ok := prim.Attributes["POSITION"]; ok {
			b, err := imp.accessorBounds(pos)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", meshName, i, err)
			}
			bounds = b
		}

		var mat material.Material
		if prim.Material != nil {
			m := *prim.Material
			if m < 0 || m >= len(imp.materials) {
				return nil, fmt.Errorf("mesh %q primitive %d material %d: %w", meshName, i, m, errIndexOutOfRange)
			}
			mat = imp.materials[m]
		} else {
			mat = material.NewMaterial(material.WithName("default"), material.WithMetallic(1), material.WithRoughness(1))
		}

		out = append(out, &model.Surface{
			Name:     fmt.Sprintf("%s/%d", meshName, i),
			Material: mat,
			Bounds:   bounds,
		})
	}
	return out, nil
}

// accessorBounds reads the min/max of a VEC3 accessor. Accessors without bounds yield
// an empty box.
func (imp *gltfImporter) accessorBounds(idx int) (common.Box3, error) {
	if idx < 0 || idx >= len(imp.doc.Accessors) {
		return common.Box3{}, fmt.Errorf("accessor %d: %w", idx, errIndexOutOfRange)
	}
	acc := &imp.doc.Accessors[idx]
	box := common.EmptyBox3()
	if acc.Type != gltfAccessorTypeVec3 || len(acc.Min) < 3 || len(acc.Max) < 3 {
		return box, nil
	}
	box.ExpandByPoint([3]float32{acc.Min[0], acc.Min[1], acc.Min[2]})
	box.ExpandByPoint([3]float32{acc.Max[0], acc.Max[1], acc.Max[2]})
	return box, nil
}

// gltfNodeTransform converts a node's matrix or TRS properties into a model.Transform.
// A matrix is decomposed assuming no shear.
func gltfNodeTransform(gn *gltfNode) model.Transform {
	t := model.IdentityTransform()
	if gn.Matrix != nil {
		m := mgl32.Mat4(*gn.Matrix)
		t.Translation = [3]float32{m[12], m[13], m[14]}
		sx := m.Col(0).Vec3().Len()
		sy := m.Col(1).Vec3().Len()
		sz := m.Col(2).Vec3().Len()
		if m.Mat3().Det() < 0 {
			sx = -sx
		}
		t.Scale = [3]float32{sx, sy, sz}
		if sx != 0 && sy != 0 && sz != 0 {
			rot := mgl32.Ident4()
			for i := range 3 {
				rot[i] = m[i] / sx
				rot[4+i] = m[4+i] / sy
				rot[8+i] = m[8+i] / sz
			}
			t.SetQuat(mgl32.Mat4ToQuat(rot).Normalize())
		}
		return t
	}
	if gn.Translation != nil {
		t.Translation = *gn.Translation
	}
	if gn.Rotation != nil {
		t.Rotation = *gn.Rotation
	}
	if gn.Scale != nil {
		t.Scale = *gn.Scale
	}
	return t
}

// gltfMaterialToMaterial maps a glTF metallic-roughness material onto a standard material.
func gltfMaterialToMaterial(gm *gltfMaterial) material.Material {
	opts := []material.MaterialBuilderOption{
		material.WithName(gm.Name),
		material.WithKind(material.KindStandard),
		material.WithMetallic(1),
		material.WithRoughness(1),
	}
	if gm.DoubleSided {
		opts = append(opts, material.WithSide(material.SideDouble))
	}
	if pbr := gm.PbrMetallicRoughness; pbr != nil {
		if c := pbr.BaseColorFactor; c != nil {
			opts = append(opts,
				material.WithBaseColor(common.Color{R: c[0], G: c[1], B: c[2]}),
				material.WithOpacity(c[3]),
			)
		}
		if pbr.MetallicFactor != nil {
			opts = append(opts, material.WithMetallic(*pbr.MetallicFactor))
		}
		if pbr.RoughnessFactor != nil {
			opts = append(opts, material.WithRoughness(*pbr.RoughnessFactor))
		}
	}
	return material.NewMaterial(opts...)
}
