package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"gopkg.in/yaml.v3"
)

// Preset names.
const (
	PresetShowroom = "showroom"
	PresetStudio   = "studio"
)

var (
	// ErrUnknownPreset is returned when a config names a preset that does not exist.
	ErrUnknownPreset = errors.New("config: unknown preset")

	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid")
)

// Viewer is the complete viewer configuration. Zero-valued fields fall back to the
// selected preset when loaded through Load or Parse.
type Viewer struct {
	Preset           string        `yaml:"preset"`
	Title            string        `yaml:"title"`
	Background       string        `yaml:"background"`
	ViewportFraction float32       `yaml:"viewport_fraction"`
	ToneMapping      string        `yaml:"tone_mapping"`
	Exposure         float32       `yaml:"exposure"`
	Shadows          *bool         `yaml:"shadows"`
	FrameRate        float64       `yaml:"frame_rate"`
	Profiling        bool          `yaml:"profiling"`
	Workers          int           `yaml:"workers"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
	BaseDir          string        `yaml:"base_dir"`

	Camera   Camera         `yaml:"camera"`
	Assets   Assets         `yaml:"assets"`
	Material Material       `yaml:"material"`
	Lights   []Light        `yaml:"lights"`
	Ground   *Ground        `yaml:"ground"`
	Palette  []PaletteEntry `yaml:"palette"`

	// DefaultColor seeds every recolorable material.
	DefaultColor string `yaml:"default_color"`
}

// Camera configures the perspective camera and its orbit controller. Fov is in degrees.
type Camera struct {
	Fov         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Position    [3]float32 `yaml:"position"`
	MinDistance float32    `yaml:"min_distance"`
	MaxDistance float32    `yaml:"max_distance"`
	Damping     float32    `yaml:"damping"`
}

// Asset describes one loadable asset and, for models, its registration.
type Asset struct {
	Source  string  `yaml:"source"`
	Label   string  `yaml:"label"`
	Scale   float32 `yaml:"scale"`
	ZOffset float32 `yaml:"z_offset"`
}

// Assets lists the three assets the composer loads.
type Assets struct {
	Base        Asset `yaml:"base"`
	Colorable   Asset `yaml:"colorable"`
	Environment Asset `yaml:"environment"`
}

// Material configures the material installed on recolorable surfaces.
type Material struct {
	Kind               string  `yaml:"kind"`
	Metallic           float32 `yaml:"metallic"`
	Roughness          float32 `yaml:"roughness"`
	Clearcoat          float32 `yaml:"clearcoat"`
	ClearcoatRoughness float32 `yaml:"clearcoat_roughness"`
	EnvMapIntensity    float32 `yaml:"env_map_intensity"`
}

// Light configures an ambient or directional light.
type Light struct {
	Type       string     `yaml:"type"`
	Color      string     `yaml:"color"`
	Intensity  float32    `yaml:"intensity"`
	Position   [3]float32 `yaml:"position"`
	CastShadow bool       `yaml:"cast_shadow"`
}

// Ground configures the disc the models stand on.
type Ground struct {
	Radius    float32 `yaml:"radius"`
	Segments  int     `yaml:"segments"`
	Elevation float32 `yaml:"elevation"`
	Color     string  `yaml:"color"`
	Metallic  float32 `yaml:"metallic"`
	Roughness float32 `yaml:"roughness"`
}

// PaletteEntry is one selectable color, as a label and a "#RRGGBB" value.
type PaletteEntry struct {
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

// Load reads and parses the YAML file at path. See Parse.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Viewer: the merged, validated config
//   - error: a read, parse or validation error
func Load(path string) (Viewer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Viewer{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return Viewer{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return v, nil
}

// LoadOrDefault loads path when it exists and otherwise returns the showroom preset.
//
// Parameters:
//   - path: the config file
//
// Returns:
//   - Viewer: the config
//   - bool: true if the file was read
//   - error: a read, parse or validation error for an existing file
func LoadOrDefault(path string) (Viewer, bool, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		v, _ := Preset(PresetShowroom)
		return v, false, nil
	}
	v, err := Load(path)
	return v, true, err
}

// Parse decodes YAML, fills unset fields from the named preset (showroom when unset) and
// validates the result.
//
// Parameters:
//   - data: the YAML document
//
// Returns:
//   - Viewer: the merged, validated config
//   - error: a parse or validation error
func Parse(data []byte) (Viewer, error) {
	var v Viewer
	if err := yaml.Unmarshal(data, &v); err != nil {
		return Viewer{}, fmt.Errorf("parse yaml: %w", err)
	}
	base, err := Preset(common.Coalesce(v.Preset, PresetShowroom))
	if err != nil {
		return Viewer{}, err
	}
	v = Merge(v, base)
	if err := v.Validate(); err != nil {
		return Viewer{}, err
	}
	return v, nil
}

// Merge returns v with every zero-valued field taken from base. Lists, the ground and the
// shadow flag are taken from base only when v leaves them unset (nil).
//
// Parameters:
//   - v: the explicit settings
//   - base: the fallback settings
//
// Returns:
//   - Viewer: the merged config
func Merge(v, base Viewer) Viewer {
	out := v
	out.Preset = common.Coalesce(v.Preset, base.Preset)
	out.Title = common.Coalesce(v.Title, base.Title)
	out.Background = common.Coalesce(v.Background, base.Background)
	out.ViewportFraction = common.Coalesce(v.ViewportFraction, base.ViewportFraction)
	out.ToneMapping = common.Coalesce(v.ToneMapping, base.ToneMapping)
	out.Exposure = common.Coalesce(v.Exposure, base.Exposure)
	out.FrameRate = common.Coalesce(v.FrameRate, base.FrameRate)
	out.Workers = common.Coalesce(v.Workers, base.Workers)
	out.HTTPTimeout = common.Coalesce(v.HTTPTimeout, base.HTTPTimeout)
	out.BaseDir = common.Coalesce(v.BaseDir, base.BaseDir)
	out.DefaultColor = common.Coalesce(v.DefaultColor, base.DefaultColor)
	out.Profiling = v.Profiling || base.Profiling
	if v.Shadows == nil {
		out.Shadows = base.Shadows
	}

	out.Camera = Camera{
		Fov:         common.Coalesce(v.Camera.Fov, base.Camera.Fov),
		Near:        common.Coalesce(v.Camera.Near, base.Camera.Near),
		Far:         common.Coalesce(v.Camera.Far, base.Camera.Far),
		Position:    common.Coalesce(v.Camera.Position, base.Camera.Position),
		MinDistance: common.Coalesce(v.Camera.MinDistance, base.Camera.MinDistance),
		MaxDistance: common.Coalesce(v.Camera.MaxDistance, base.Camera.MaxDistance),
		Damping:     common.Coalesce(v.Camera.Damping, base.Camera.Damping),
	}

	out.Assets = Assets{
		Base:        mergeAsset(v.Assets.Base, base.Assets.Base),
		Colorable:   mergeAsset(v.Assets.Colorable, base.Assets.Colorable),
		Environment: mergeAsset(v.Assets.Environment, base.Assets.Environment),
	}

	out.Material = Material{
		Kind:               common.Coalesce(v.Material.Kind, base.Material.Kind),
		Metallic:           common.Coalesce(v.Material.Metallic, base.Material.Metallic),
		Roughness:          common.Coalesce(v.Material.Roughness, base.Material.Roughness),
		Clearcoat:          common.Coalesce(v.Material.Clearcoat, base.Material.Clearcoat),
		ClearcoatRoughness: common.Coalesce(v.Material.ClearcoatRoughness, base.Material.ClearcoatRoughness),
		EnvMapIntensity:    common.Coalesce(v.Material.EnvMapIntensity, base.Material.EnvMapIntensity),
	}

	if v.Lights == nil {
		out.Lights = append([]Light(nil), base.Lights...)
	}
	if v.Ground == nil && base.Ground != nil {
		g := *base.Ground
		out.Ground = &g
	}
	if v.Palette == nil {
		out.Palette = append([]PaletteEntry(nil), base.Palette...)
	}
	return out
}

func mergeAsset(a, b Asset) Asset {
	return Asset{
		Source:  common.Coalesce(a.Source, b.Source),
		Label:   common.Coalesce(a.Label, b.Label),
		Scale:   common.Coalesce(a.Scale, b.Scale),
		ZOffset: common.Coalesce(a.ZOffset, b.ZOffset),
	}
}

// Validate checks colors, ranges and palette label uniqueness.
//
// Returns:
//   - error: every problem found, each wrapping ErrInvalid, or nil
func (v Viewer) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	checkColor := func(field, value string) {
		if _, err := common.ParseHexColor(value); err != nil {
			invalid("%s: %v", field, err)
		}
	}

	checkColor("background", v.Background)
	checkColor("default_color", v.DefaultColor)
	if v.ViewportFraction <= 0 || v.ViewportFraction > 1 {
		invalid("viewport_fraction %v outside (0, 1]", v.ViewportFraction)
	}
	switch v.ToneMapping {
	case "none", "aces":
	default:
		invalid("tone_mapping %q (want none or aces)", v.ToneMapping)
	}
	if v.Exposure <= 0 {
		invalid("exposure must be positive")
	}
	if v.Camera.Near <= 0 || v.Camera.Far <= v.Camera.Near {
		invalid("camera clip planes near=%v far=%v", v.Camera.Near, v.Camera.Far)
	}
	if v.Camera.MinDistance <= 0 || v.Camera.MaxDistance < v.Camera.MinDistance {
		invalid("camera distance bounds %v..%v", v.Camera.MinDistance, v.Camera.MaxDistance)
	}
	if v.Camera.Damping < 0 || v.Camera.Damping > 1 {
		invalid("camera damping %v outside [0, 1]", v.Camera.Damping)
	}
	for _, a := range []struct {
		name  string
		asset Asset
	}{{"base", v.Assets.Base}, {"colorable", v.Assets.Colorable}, {"environment", v.Assets.Environment}} {
		if a.asset.Source == "" {
			invalid("assets.%s.source is empty", a.name)
		}
	}
	switch v.Material.Kind {
	case "standard", "physical":
	default:
		invalid("material.kind %q (want standard or physical)", v.Material.Kind)
	}
	for i, l := range v.Lights {
		switch l.Type {
		case "ambient", "directional":
		default:
			invalid("lights[%d].type %q", i, l.Type)
		}
		checkColor(fmt.Sprintf("lights[%d].color", i), l.Color)
	}
	if v.Ground != nil {
		checkColor("ground.color", v.Ground.Color)
		if v.Ground.Radius <= 0 {
			invalid("ground.radius must be positive")
		}
	}
	if len(v.Palette) == 0 {
		invalid("palette is empty")
	}
	seen := make(map[string]bool, len(v.Palette))
	for i, e := range v.Palette {
		if e.Label == "" {
			invalid("palette[%d] has no label", i)
		}
		if seen[e.Label] {
			invalid("palette label %q repeated", e.Label)
		}
		seen[e.Label] = true
		checkColor(fmt.Sprintf("palette[%d].color", i), e.Color)
	}
	return errors.Join(errs...)
}
