package loader

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// gltfLoaderBackend is the ModelBackend for glTF JSON and GLB files.
type gltfLoaderBackend struct{}

var _ ModelBackend = &gltfLoaderBackend{}

// NewGLTFBackend creates the glTF/GLB model backend.
//
// Returns:
//   - ModelBackend: the backend
func NewGLTFBackend() ModelBackend {
	return &gltfLoaderBackend{}
}

func (b *gltfLoaderBackend) Supports(source string) bool {
	switch extension(source) {
	case ".gltf", ".glb":
		return true
	default:
		return false
	}
}

func (b *gltfLoaderBackend) Decode(name string, data []byte) (model.Node, error) {
	doc, err := parseGLTFDocument(data)
	if err != nil {
		return nil, err
	}
	return importGLTF(doc, name)
}
