package config

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/color"
	"github.com/Carmen-Shannon/oxy-viewer/engine/composer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/surface"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
	"github.com/chewxy/math32"
)

// The conversions below assume a validated Viewer; unparsable colors fall back to black.

func hex(s string) common.Color {
	c, _ := common.ParseHexColor(s)
	return c
}

// NewScene builds the scene with background, tone mapping, shadows and lights applied.
//
// Returns:
//   - scene.Scene: the empty scene
func (v Viewer) NewScene() scene.Scene {
	tm := scene.ToneMappingNone
	if v.ToneMapping == "aces" {
		tm = scene.ToneMappingACES
	}
	return scene.NewScene(v.Title,
		scene.WithBackground(hex(v.Background)),
		scene.WithToneMapping(tm, v.Exposure),
		scene.WithShadows(v.Shadows != nil && *v.Shadows),
		scene.WithLights(v.SceneLights()...),
	)
}

// SceneLights converts the configured lights.
//
// Returns:
//   - []light.Light: the lights in configuration order
func (v Viewer) SceneLights() []light.Light {
	out := make([]light.Light, 0, len(v.Lights))
	for _, l := range v.Lights {
		t := light.LightTypeAmbient
		if l.Type == "directional" {
			t = light.LightTypeDirectional
		}
		out = append(out, light.NewLight(
			light.WithType(t),
			light.WithColor(hex(l.Color)),
			light.WithIntensity(l.Intensity),
			light.WithPosition(l.Position[0], l.Position[1], l.Position[2]),
			light.WithCastsShadows(l.CastShadow),
		))
	}
	return out
}

// GroundConfig converts the ground settings.
//
// Returns:
//   - scene.GroundConfig: the disc description
//   - bool: false when no ground is configured
func (v Viewer) GroundConfig() (scene.GroundConfig, bool) {
	if v.Ground == nil {
		return scene.GroundConfig{}, false
	}
	return scene.GroundConfig{
		Radius:    v.Ground.Radius,
		Segments:  v.Ground.Segments,
		Elevation: v.Ground.Elevation,
		Color:     hex(v.Ground.Color),
		Metallic:  v.Ground.Metallic,
		Roughness: v.Ground.Roughness,
	}, true
}

// ColorPalette converts the palette entries.
//
// Returns:
//   - *color.Palette: the palette in configuration order
//   - error: color.ErrDuplicateLabel or a color parse error
func (v Viewer) ColorPalette() (*color.Palette, error) {
	entries := make([]color.Entry, 0, len(v.Palette))
	for _, e := range v.Palette {
		c, err := common.ParseHexColor(e.Color)
		if err != nil {
			return nil, err
		}
		entries = append(entries, color.Entry{Label: e.Label, Color: c})
	}
	return color.NewPalette(entries...)
}

// MaterialFactory returns a factory for the material installed on recolorable surfaces,
// seeded with DefaultColor.
//
// Returns:
//   - surface.MaterialFactory: the factory
func (v Viewer) MaterialFactory() surface.MaterialFactory {
	m := v.Material
	kind := material.KindStandard
	if m.Kind == "physical" {
		kind = material.KindPhysical
	}
	base := hex(v.DefaultColor)
	return func() material.Material {
		return material.NewMaterial(
			material.WithName("colorable"),
			material.WithKind(kind),
			material.WithBaseColor(base),
			material.WithMetallic(m.Metallic),
			material.WithRoughness(m.Roughness),
			material.WithClearcoat(m.Clearcoat, m.ClearcoatRoughness),
			material.WithEnvMapIntensity(m.EnvMapIntensity),
		)
	}
}

// Registration converts an asset's scale and z offset into a registration spec.
//
// Parameters:
//   - a: the model asset
//
// Returns:
//   - transform.RegistrationSpec: the spec
func (a Asset) Registration() transform.RegistrationSpec {
	return transform.WithZOffset(transform.NewRegistrationSpec(common.Coalesce(a.Scale, 1)), a.ZOffset)
}

// Descriptor converts the asset into a loader descriptor of the given kind.
//
// Parameters:
//   - kind: the asset kind
//
// Returns:
//   - loader.AssetDescriptor: the descriptor
func (a Asset) Descriptor(kind loader.Kind) loader.AssetDescriptor {
	return loader.AssetDescriptor{Source: a.Source, Kind: kind, Label: a.Label}
}

// NewCamera builds the perspective camera and its damped orbit controller.
//
// Parameters:
//   - aspect: the initial aspect ratio
//
// Returns:
//   - camera.Camera: the camera
func (v Viewer) NewCamera(aspect float32) camera.Camera {
	c := v.Camera
	ctrl := camera.NewCameraController(
		camera.WithRadiusBounds(c.MinDistance, c.MaxDistance),
		camera.WithDamping(c.Damping),
		camera.WithPosition(c.Position[0], c.Position[1], c.Position[2]),
	)
	return camera.NewCamera(
		camera.WithFov(c.Fov*math32.Pi/180),
		camera.WithAspect(aspect),
		camera.WithClip(c.Near, c.Far),
		camera.WithController(ctrl),
	)
}

// ComposerConfig gathers the descriptors, registration specs, material factory, palette
// and ground the composer needs.
//
// Returns:
//   - composer.Config: the composer configuration
//   - error: error if the palette cannot be built
func (v Viewer) ComposerConfig() (composer.Config, error) {
	palette, err := v.ColorPalette()
	if err != nil {
		return composer.Config{}, err
	}
	cfg := composer.Config{
		Base:          v.Assets.Base.Descriptor(loader.KindModel),
		Colorable:     v.Assets.Colorable.Descriptor(loader.KindModel),
		Environment:   v.Assets.Environment.Descriptor(loader.KindEnvironmentMap),
		BaseSpec:      v.Assets.Base.Registration(),
		ColorableSpec: v.Assets.Colorable.Registration(),
		Material:      v.MaterialFactory(),
		Palette:       palette,
	}
	if g, ok := v.GroundConfig(); ok {
		cfg.Ground = &g
	}
	return cfg, nil
}
