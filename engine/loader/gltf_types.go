// gltf_types.go contains the subset of the glTF 2.0 JSON schema the viewer decodes:
// the node hierarchy, meshes as lists of primitives, accessor bounds and materials.
// Buffers are never dereferenced, so vertex data is not represented here.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

// gltfDocument represents the root of a glTF JSON document.
type gltfDocument struct {
	Asset     gltfAsset      `json:"asset"`
	Scene     *int           `json:"scene,omitempty"`
	Scenes    []gltfScene    `json:"scenes,omitempty"`
	Nodes     []gltfNode     `json:"nodes,omitempty"`
	Meshes    []gltfMesh     `json:"meshes,omitempty"`
	Accessors []gltfAccessor `json:"accessors,omitempty"`
	Materials []gltfMaterial `json:"materials,omitempty"`

	// ExtensionsRequired lists extensions required to load this asset.
	ExtensionsRequired []string `json:"extensionsRequired,omitempty"`
}

// gltfAsset contains metadata about the glTF asset.
type gltfAsset struct {
	// Version is the glTF version (required, must be "2.x").
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// gltfScene is a set of root nodes.
type gltfScene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// gltfNode is a node in the node hierarchy. Matrix and TRS are mutually exclusive.
type gltfNode struct {
	Name     string `json:"name,omitempty"`
	Children []int  `json:"children,omitempty"`
	Mesh     *int   `json:"mesh,omitempty"`

	// Matrix is a 4x4 transformation matrix (column-major).
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the node's translation (x, y, z).
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is the node's rotation as a quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the node's scale (x, y, z).
	Scale *[3]float32 `json:"scale,omitempty"`
}

// gltfMesh is a set of primitives to be rendered.
type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

// gltfPrimitive defines geometry for rendering.
type gltfPrimitive struct {
	// Attributes maps attribute semantics (POSITION, NORMAL, ...) to accessor indices.
	Attributes map[string]int `json:"attributes"`
	Material   *int           `json:"material,omitempty"`
}

// gltfAccessor describes typed buffer data. Only the bounds are read.
type gltfAccessor struct {
	Count int    `json:"count"`
	Type  string `json:"type"`

	// Max is the maximum value of each component. Required for POSITION.
	Max []float32 `json:"max,omitempty"`

	// Min is the minimum value of each component. Required for POSITION.
	Min []float32 `json:"min,omitempty"`
}

// gltfMaterial defines the material appearance of a primitive.
type gltfMaterial struct {
	Name                 string                    `json:"name,omitempty"`
	PbrMetallicRoughness *gltfPbrMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	DoubleSided          bool                      `json:"doubleSided,omitempty"`
}

// gltfPbrMetallicRoughness is the metallic-roughness material model.
// Absent factors default to 1.
type gltfPbrMetallicRoughness struct {
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`
	MetallicFactor  *float32    `json:"metallicFactor,omitempty"`
	RoughnessFactor *float32    `json:"roughnessFactor,omitempty"`
}

const gltfAccessorTypeVec3 = "VEC3"

// --- GLB Binary Format ---

// gltfGLBHeader is the header of a GLB file (12 bytes).
type gltfGLBHeader struct {
	Magic   uint32 // Must be 0x46546C67 ("glTF" in ASCII)
	Version uint32 // Must be 2
	Length  uint32 // Total file length
}

// gltfGLBChunkHeader is the header of a GLB chunk (8 bytes).
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

// GLB magic number and chunk type constants
const (
	gltfGLBMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
)
