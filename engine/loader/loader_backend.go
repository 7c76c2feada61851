package loader

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
)

// ModelBackend decodes fetched bytes into a scene fragment.
// Concrete implementations (e.g., gltfLoaderBackend) handle format-specific details.
type ModelBackend interface {
	// Supports reports whether the backend can decode the asset at source,
	// judged from its extension.
	//
	// Parameters:
	//   - source: the descriptor source
	//
	// Returns:
	//   - bool: true if Decode should be attempted
	Supports(source string) bool

	// Decode builds the fragment from data.
	//
	// Parameters:
	//   - name: the fragment root name
	//   - data: the fetched bytes
	//
	// Returns:
	//   - model.Node: the fragment root
	//   - error: error if decoding fails
	Decode(name string, data []byte) (model.Node, error)
}
