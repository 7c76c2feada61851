package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHeadless(t *testing.T) (Renderer, *HeadlessBackend) {
	t.Helper()
	r := NewRenderer(BackendTypeHeadless, nil)
	hb, ok := r.Backend().(*HeadlessBackend)
	require.True(t, ok)
	return r, hb
}

type fixedSurface struct{ w, h int }

func (s fixedSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (s fixedSurface) Width() int { return s.w }
func (s fixedSurface) Height() int { return s.h }

func TestWithBackendUsesSurfaceSize(t *testing.T) {
	hb := NewHeadlessBackend()
	r := NewRenderer(BackendTypeWGPU, fixedSurface{w: 320, h: 200}, WithBackend(hb))
	assert.Same(t, hb, r.Backend())

	w, h := hb.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 200, h)
}

func sceneWithMaterial(t *testing.T, m material.Material, opts ...scene.SceneBuilderOption) scene.Scene {
	t.Helper()
	sc := scene.NewScene("test", opts...)
	node := model.NewNode(model.WithName("part"), model.WithSurface(&model.Surface{Material: m}))
	require.NoError(t, sc.Attach(scene.SlotColorable, node))
	return sc
}

func TestRenderBeforeResize(t *testing.T) {
	r, _ := newHeadless(t)
	err := r.Render(scene.NewScene("empty"), camera.NewCamera())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestRenderRequiresSceneAndCamera(t *testing.T) {
	r, _ := newHeadless(t)
	r.Resize(640, 480)
	assert.Error(t, r.Render(nil, camera.NewCamera()))
	assert.Error(t, r.Render(scene.NewScene("empty"), nil))
}

func TestResizeConfiguresBackend(t *testing.T) {
	r, hb := newHeadless(t)
	r.Resize(800, 600)
	r.Resize(0, 600)

	w, h := r.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	bw, bh := hb.Size()
	assert.Equal(t, 800, bw)
	assert.Equal(t, 600, bh)
}

func TestRenderUploadsOnlyDirtyMaterials(t *testing.T) {
	r, hb := newHeadless(t)
	r.Resize(640, 480)

	m := material.NewMaterial(material.WithName("paint"))
	sc := sceneWithMaterial(t, m)
	cam := camera.NewCamera()

	require.NoError(t, r.Render(sc, cam))
	assert.Equal(t, 1, hb.Uploads())
	assert.False(t, m.NeedsUpdate())

	require.NoError(t, r.Render(sc, cam))
	assert.Equal(t, 1, hb.Uploads(), "clean materials are not re-uploaded")

	blue := common.MustParseHexColor("#000B58")
	m.SetBaseColor(blue)
	require.NoError(t, r.Render(sc, cam))
	assert.Equal(t, 2, hb.Uploads())

	data, ok := hb.Material(m)
	require.True(t, ok)
	assert.Equal(t, material.Uniform(m), data)
	assert.Equal(t, uint64(3), r.Frames())
	assert.Equal(t, 3, hb.Presented())
}

func TestRenderClearsWithDisplayBackground(t *testing.T) {
	r, hb := newHeadless(t)
	r.Resize(640, 480)
	grey := common.MustParseHexColor("#999999")

	plain := scene.NewScene("plain", scene.WithBackground(grey))
	require.NoError(t, r.Render(plain, camera.NewCamera()))

	mapped := scene.NewScene("mapped", scene.WithBackground(grey), scene.WithToneMapping(scene.ToneMappingACES, 1.5))
	require.NoError(t, r.Render(mapped, camera.NewCamera()))

	clears := hb.Clears()
	require.Len(t, clears, 2)
	assert.Equal(t, grey, clears[0])
	assert.Equal(t, ToneMap(grey, 1.5), clears[1])
}

func TestRenderWritesFrameUniforms(t *testing.T) {
	r, hb := newHeadless(t)
	r.Resize(640, 480)
	sun := light.NewLight(light.WithType(light.LightTypeDirectional), light.WithPosition(5, 5, 5))
	sc := scene.NewScene("lit", scene.WithLights(sun), scene.WithToneMapping(scene.ToneMappingACES, 2))
	cam := camera.NewCamera()

	require.NoError(t, r.Render(sc, cam))
	frame := hb.Frame()
	assert.Equal(t, cam.ViewProjectionMatrix(), frame.ViewProjection)
	assert.Equal(t, light.Pack([]light.Light{sun}), frame.Lights)
	assert.Equal(t, float32(2), frame.Exposure)
}

func TestToneMap(t *testing.T) {
	black := ToneMap(common.Color{}, 1)
	assert.Equal(t, common.Color{}, black)

	dim := ToneMap(common.Color{R: 0.2, G: 0.2, B: 0.2}, 1)
	bright := ToneMap(common.Color{R: 0.2, G: 0.2, B: 0.2}, 2)
	assert.Greater(t, bright.R, dim.R)

	hot := ToneMap(common.Color{R: 100, G: 100, B: 100}, 1)
	assert.LessOrEqual(t, hot.R, float32(1))
	assert.InDelta(t, 1, hot.R, 0.02)
}
