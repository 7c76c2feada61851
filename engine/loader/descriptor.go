package loader

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Kind identifies what an AssetDescriptor points at.
type Kind int

const (
	// KindModel is a glTF/GLB scene fragment.
	KindModel Kind = iota

	// KindEnvironmentMap is an equirectangular Radiance HDR image.
	KindEnvironmentMap
)

func (k Kind) String() string {
	switch k {
	case KindModel:
		return "model"
	case KindEnvironmentMap:
		return "environment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AssetDescriptor names one asset to load. Descriptors are immutable values.
type AssetDescriptor struct {
	// Source is a path relative to the loader's base directory, or an http(s) URL.
	Source string

	// Kind selects the decoder.
	Kind Kind

	// Label is a human-readable name used in logs. Defaults to Source.
	Label string
}

func (d AssetDescriptor) String() string {
	if d.Label != "" && d.Label != d.Source {
		return fmt.Sprintf("%s %q (%s)", d.Kind, d.Label, d.Source)
	}
	return fmt.Sprintf("%s %q", d.Kind, d.Source)
}

// Name returns Label, or the base name of Source when no label is set.
func (d AssetDescriptor) Name() string {
	if d.Label != "" {
		return d.Label
	}
	return path.Base(sourcePath(d.Source))
}

// isRemote reports whether source is an http(s) URL.
func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// sourcePath returns the path component of source, dropping any URL query or fragment.
func sourcePath(source string) string {
	if isRemote(source) {
		if u, err := url.Parse(source); err == nil {
			return u.Path
		}
	}
	return source
}

// extension returns the lower-cased extension of source's path, including the dot.
func extension(source string) string {
	return strings.ToLower(path.Ext(sourcePath(source)))
}
