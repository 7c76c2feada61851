package config

import (
	"fmt"
	"time"
)

const (
	defaultEnvironment = "https://dl.polyhaven.org/file/ph-assets/HDRIs/hdr/1k/dancing_hall_1k.hdr"

	// defaultZOffset keeps the colorable shell off the base model's surfaces.
	defaultZOffset = 0.01
)

// Preset returns a copy of the named preset.
//
// Parameters:
//   - name: PresetShowroom or PresetStudio
//
// Returns:
//   - Viewer: the preset
//   - error: ErrUnknownPreset for any other name
func Preset(name string) (Viewer, error) {
	switch name {
	case PresetShowroom:
		return showroom(), nil
	case PresetStudio:
		return studio(), nil
	default:
		return Viewer{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// shared holds the settings both presets agree on.
func shared() Viewer {
	return Viewer{
		FrameRate:   60,
		HTTPTimeout: 60 * time.Second,
		BaseDir:     ".",
		Camera: Camera{
			Fov:      75,
			Near:     0.1,
			Far:      1000,
			Position: [3]float32{20, 15, 40},
			Damping:  0.05,
		},
		Assets: Assets{
			Base:        Asset{Source: "./tata.glb", Label: "base model", Scale: 10},
			Colorable:   Asset{Source: "./tata1.glb", Label: "colorable model", Scale: 10, ZOffset: defaultZOffset},
			Environment: Asset{Source: defaultEnvironment, Label: "environment map"},
		},
		DefaultColor: "#820300",
		Palette: []PaletteEntry{
			{Label: "red", Color: "#820300"},
			{Label: "blue", Color: "#000B58"},
			{Label: "black", Color: "#000000"},
		},
	}
}

// showroom is the lit variant: grey backdrop, ground disc, clearcoated paint.
func showroom() Viewer {
	v := shared()
	shadows := true
	v.Preset = PresetShowroom
	v.Title = "Oxy Viewer - Showroom"
	v.Background = "#999999"
	v.ViewportFraction = 0.7
	v.ToneMapping = "aces"
	v.Exposure = 1.5
	v.Shadows = &shadows
	v.Camera.MinDistance = 45
	v.Camera.MaxDistance = 45
	v.Material = Material{
		Kind:               "physical",
		Metallic:           0.9,
		Roughness:          0.3,
		Clearcoat:          0.3,
		ClearcoatRoughness: 0.2,
		EnvMapIntensity:    2.0,
	}
	v.Lights = []Light{
		{Type: "ambient", Color: "#FFFFFF", Intensity: 0.5},
		{Type: "directional", Color: "#FFFFFF", Intensity: 1, Position: [3]float32{5, 5, 5}, CastShadow: true},
	}
	v.Ground = &Ground{
		Radius:    40,
		Segments:  70,
		Elevation: -0.1,
		Color:     "#000000",
		Metallic:  0.2,
		Roughness: 0.8,
	}
	return v
}

// studio is the unlit variant: white backdrop, environment lighting only.
func studio() Viewer {
	v := shared()
	shadows := false
	v.Preset = PresetStudio
	v.Title = "Oxy Viewer - Studio"
	v.Background = "#FFFFFF"
	v.ViewportFraction = 0.6
	v.ToneMapping = "none"
	v.Exposure = 1.0
	v.Shadows = &shadows
	v.Camera.MinDistance = 20
	v.Camera.MaxDistance = 100
	v.Material = Material{
		Kind:            "standard",
		Metallic:        1.0,
		Roughness:       0.4,
		EnvMapIntensity: 1.5,
	}
	v.Lights = []Light{}
	return v
}
