package composer

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/async"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/color"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/surface"
	"github.com/Carmen-Shannon/oxy-viewer/engine/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseColor = common.Color{R: 0.2, G: 0.2, B: 0.2}

// stubBackend decodes every asset into a two-surface fragment. Payloads equal to
// "garbage" fail to decode.
type stubBackend struct{}

func (stubBackend) Supports(string) bool { return true }

func (stubBackend) Decode(name string, data []byte) (model.Node, error) {
	if string(data) == "garbage" {
		return nil, errors.New("not a model")
	}
	part := func(n string) model.Node {
		return model.NewNode(model.WithName(n), model.WithSurface(&model.Surface{
			Name:     n,
			Material: material.NewMaterial(material.WithBaseColor(baseColor)),
			Bounds:   common.Box3{Min: [3]float32{0, 0, 0}, Max: [3]float32{2, 1, 4}},
		}))
	}
	return model.NewNode(model.WithName(name), model.WithChildren(part(name+"/body"), part(name+"/trim"))), nil
}

func memSource(files map[string][]byte) loader.Source {
	return func(_ context.Context, source string) ([]byte, error) {
		data, ok := files[source]
		if !ok {
			return nil, os.ErrNotExist
		}
		return data, nil
	}
}

func testConfig() Config {
	spec := transform.NewRegistrationSpec(10)
	return Config{
		Base:          loader.AssetDescriptor{Source: "base.glb", Kind: loader.KindModel, Label: "base"},
		Colorable:     loader.AssetDescriptor{Source: "paint.glb", Kind: loader.KindModel, Label: "paint"},
		Environment:   loader.AssetDescriptor{Source: "sky.hdr", Kind: loader.KindEnvironmentMap},
		BaseSpec:      spec,
		ColorableSpec: transform.WithZOffset(spec, transform.DefaultZOffset),
		Material: func() material.Material {
			return material.NewMaterial(material.WithKind(material.KindPhysical), material.WithMetallic(0.9))
		},
	}
}

func allFiles() map[string][]byte {
	return map[string][]byte{
		"base.glb":  []byte("base"),
		"paint.glb": []byte("paint"),
		"sky.hdr":   []byte("#?RADIANCE\nFORMAT=32-bit_rle_rgbe\n\n-Y 2 +X 4\n\x02\x02\x00\x10"),
	}
}

func newTestComposer(files map[string][]byte, cfg Config, opts ...ComposerBuilderOption) (Composer, async.Dispatcher) {
	d := async.NewDispatcher()
	l := loader.NewLoader(loader.WithSource(memSource(files)), loader.WithModelBackend(stubBackend{}), loader.WithWorkers(2))
	sc := scene.NewScene("test")
	return NewComposer(d, l, sc, cfg, opts...), d
}

// pump drives the dispatcher on the test goroutine until f settles.
func pump(t *testing.T, d async.Dispatcher, f *async.Future[struct{}]) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		d.RunPending()
		select {
		case <-f.Done():
			d.RunPending()
			return
		case <-deadline:
			t.Fatal("composer did not become ready")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestComposeAllAssets(t *testing.T) {
	c, d := newTestComposer(allFiles(), testConfig())
	pump(t, d, c.Start())

	assert.Empty(t, c.Failures())
	_, ok := c.Scene().Fragment(scene.SlotBase)
	assert.True(t, ok)
	_, ok = c.Scene().Fragment(scene.SlotColorable)
	assert.True(t, ok)
	require.NotNil(t, c.Scene().Environment())
	assert.Equal(t, 4, c.Scene().Environment().Width)
	assert.Equal(t, 2, c.Registry().Len())
}

func TestSetColorOnlyTouchesColorableSurfaces(t *testing.T) {
	c, d := newTestComposer(allFiles(), testConfig())
	pump(t, d, c.Start())

	blue := common.MustParseHexColor("#000B58")
	c.Colors().SetColor(blue)

	base, _ := c.Scene().Fragment(scene.SlotBase)
	base.Walk(func(n model.Node) bool {
		if s := n.Surface(); s != nil {
			assert.Equal(t, baseColor, s.Material.BaseColor(), s.Name)
			assert.True(t, s.CastShadow)
			assert.True(t, s.ReceiveShadow)
		}
		return true
	})
	c.Registry().Each(func(s *model.Surface) {
		assert.Equal(t, blue, s.Material.BaseColor(), s.Name)
		assert.Equal(t, material.KindPhysical, s.Material.Kind())
	})
}

func TestBaseSurvivesColorableFailure(t *testing.T) {
	files := allFiles()
	delete(files, "paint.glb")
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(camera.WithRadius(45))))
	c, d := newTestComposer(files, testConfig(), WithCamera(cam))
	pump(t, d, c.Start())

	_, ok := c.Scene().Fragment(scene.SlotBase)
	assert.True(t, ok)
	_, ok = c.Scene().Fragment(scene.SlotColorable)
	assert.False(t, ok)
	assert.Zero(t, c.Registry().Len())

	assert.NotPanics(t, func() { c.Colors().SetColor(common.MustParseHexColor("#000B58")) })

	failures := c.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "paint.glb", failures[0].Descriptor.Source)
	assert.ErrorIs(t, failures[0].Err, os.ErrNotExist)

	x, y, z := cam.Controller().Target()
	center := c.Scene().Bounds(scene.SlotBase).Center()
	assert.InDelta(t, center[0], x, 1e-3)
	assert.InDelta(t, center[1], y, 1e-3)
	assert.InDelta(t, center[2], z, 1e-3)
	assert.InDelta(t, 5, y, 1e-3)
}

func TestEnvironmentFailureIsIsolated(t *testing.T) {
	files := allFiles()
	files["sky.hdr"] = []byte("not an image")
	c, d := newTestComposer(files, testConfig())
	pump(t, d, c.Start())

	assert.Nil(t, c.Scene().Environment())
	assert.Equal(t, 2, c.Registry().Len())
	failures := c.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, loader.KindEnvironmentMap, failures[0].Descriptor.Kind)
}

func TestDecodeFailureIsRecorded(t *testing.T) {
	files := allFiles()
	files["base.glb"] = []byte("garbage")
	c, d := newTestComposer(files, testConfig())
	pump(t, d, c.Start())

	_, ok := c.Scene().Fragment(scene.SlotBase)
	assert.False(t, ok)
	assert.Equal(t, 2, c.Registry().Len())
	require.Len(t, c.Failures(), 1)
}

func TestMalformedDescriptorIsRecorded(t *testing.T) {
	cfg := testConfig()
	cfg.Colorable.Source = ""
	c, d := newTestComposer(allFiles(), cfg)
	pump(t, d, c.Start())

	failures := c.Failures()
	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0].Err, loader.ErrMalformedDescriptor)
	_, ok := c.Scene().Fragment(scene.SlotBase)
	assert.True(t, ok)
}

func TestEarlyColorIsAppliedOnArrival(t *testing.T) {
	c, d := newTestComposer(allFiles(), testConfig())
	red := common.MustParseHexColor("#820300")
	c.Colors().SetColor(red)

	pump(t, d, c.Start())
	require.Equal(t, 2, c.Registry().Len())
	c.Registry().Each(func(s *model.Surface) {
		assert.Equal(t, red, s.Material.BaseColor())
	})
}

func TestStartIsIdempotent(t *testing.T) {
	c, d := newTestComposer(allFiles(), testConfig())
	assert.Nil(t, c.Ready())

	first := c.Start()
	second := c.Start()
	assert.Same(t, first, second)
	pump(t, d, first)
	assert.Equal(t, 2, c.Registry().Len())
}

func TestGroundIsAttached(t *testing.T) {
	cfg := testConfig()
	cfg.Ground = &scene.GroundConfig{Radius: 40, Segments: 70, Elevation: -0.1, Metallic: 0.2, Roughness: 0.8}
	c, d := newTestComposer(allFiles(), cfg)
	pump(t, d, c.Start())

	_, ok := c.Scene().Fragment(scene.SlotGround)
	assert.True(t, ok)
}

func TestSharedRegistryAndDefaultPalette(t *testing.T) {
	reg := surface.NewRegistry()
	c, d := newTestComposer(allFiles(), testConfig(), WithRegistry(reg))
	pump(t, d, c.Start())

	assert.Same(t, reg, c.Registry())
	assert.Equal(t, color.DefaultPalette().Len(), c.Colors().Palette().Len())
	require.NoError(t, c.Colors().Select("blue"))
	assert.Equal(t, common.MustParseHexColor("#000B58"), reg.At(0).Material.BaseColor())
}

func TestNewComposerRequiresCollaborators(t *testing.T) {
	l := loader.NewLoader()
	sc := scene.NewScene("test")
	assert.Panics(t, func() { NewComposer(nil, l, sc, Config{}) })
	assert.Panics(t, func() { NewComposer(async.NewDispatcher(), nil, sc, Config{}) })
	assert.Panics(t, func() { NewComposer(async.NewDispatcher(), l, nil, Config{}) })
}

func TestSameSourceGivesEachSlotItsOwnFragment(t *testing.T) {
	cfg := testConfig()
	cfg.Colorable.Source = "base.glb"
	c, d := newTestComposer(allFiles(), cfg)
	pump(t, d, c.Start())
	require.Empty(t, c.Failures())

	base, ok := c.Scene().Fragment(scene.SlotBase)
	require.True(t, ok)
	paint, ok := c.Scene().Fragment(scene.SlotColorable)
	require.True(t, ok)
	assert.NotSame(t, base, paint)
	assert.Equal(t, [3]float32{10, 10, 10}, base.Transform().Scale)

	blue := common.MustParseHexColor("#000B58")
	c.Colors().SetColor(blue)
	base.Walk(func(n model.Node) bool {
		if s := n.Surface(); s != nil {
			assert.Equal(t, baseColor, s.Material.BaseColor(), s.Name)
		}
		return true
	})
	require.Equal(t, 2, c.Registry().Len())
	c.Registry().Each(func(s *model.Surface) {
		assert.Equal(t, blue, s.Material.BaseColor(), s.Name)
	})
}

func TestBaseCentersCameraWhileColorableIsPending(t *testing.T) {
	files := allFiles()
	gate := make(chan struct{})
	release := sync.OnceFunc(func() { close(gate) })
	defer release()

	src := func(ctx context.Context, source string) ([]byte, error) {
		if source == "paint.glb" {
			<-gate
		}
		return memSource(files)(ctx, source)
	}
	d := async.NewDispatcher()
	l := loader.NewLoader(loader.WithSource(src), loader.WithModelBackend(stubBackend{}), loader.WithWorkers(4))
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(camera.WithRadius(45))))
	c := NewComposer(d, l, scene.NewScene("test"), testConfig(), WithCamera(cam))
	ready := c.Start()

	deadline := time.Now().Add(5 * time.Second)
	for {
		d.RunPending()
		if _, ok := c.Scene().Fragment(scene.SlotBase); ok {
			break
		}
		require.True(t, time.Now().Before(deadline), "base model was never attached")
		time.Sleep(time.Millisecond)
	}

	_, ok := c.Scene().Fragment(scene.SlotColorable)
	assert.False(t, ok)
	select {
	case <-ready.Done():
		t.Fatal("ready settled while the colorable model was still loading")
	default:
	}

	x, y, z := cam.Controller().Target()
	center := c.Scene().Bounds(scene.SlotBase).Center()
	assert.InDelta(t, center[0], x, 1e-3)
	assert.InDelta(t, center[1], y, 1e-3)
	assert.InDelta(t, center[2], z, 1e-3)

	release()
	pump(t, d, ready)
	_, ok = c.Scene().Fragment(scene.SlotColorable)
	assert.True(t, ok)
	assert.Empty(t, c.Failures())
}

func TestReadySettlesWhenDispatcherIsClosed(t *testing.T) {
	c, d := newTestComposer(allFiles(), testConfig())
	d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.Start().Await(ctx)
	require.NoError(t, err)

	failures := c.Failures()
	require.Len(t, failures, 3)
	for _, f := range failures {
		assert.ErrorIs(t, f.Err, ErrNotHandled)
	}
	assert.Empty(t, c.Scene().Fragments())
}
