package loader

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/async"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func await[T any](t *testing.T, f *async.Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.Await(ctx)
}

// memSource serves assets from a map and counts fetches.
func memSource(files map[string][]byte, fetches *atomic.Int32) Source {
	return func(_ context.Context, source string) ([]byte, error) {
		if fetches != nil {
			fetches.Add(1)
		}
		data, ok := files[source]
		if !ok {
			return nil, os.ErrNotExist
		}
		return data, nil
	}
}

func hdr(header, res string) []byte {
	return []byte("#?RADIANCE\n" + header + "\n\n" + res + "\n\x02\x02\x00\x10")
}

func glb(t *testing.T, json []byte) []byte {
	t.Helper()
	for len(json)%4 != 0 {
		json = append(json, ' ')
	}
	var buf bytes.Buffer
	total := uint32(12 + 8 + len(json) + 8 + 4)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: 2, Length: total}))
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: 4, ChunkType: 0x004E4942}))
	buf.Write([]byte{0, 0, 0, 0})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(json)), ChunkType: gltfGLBChunkJSON}))
	buf.Write(json)
	return buf.Bytes()
}

func TestLoadModelFromFile(t *testing.T) {
	l := NewLoader(WithBaseDir("testdata"))
	f, err := l.LoadModel(AssetDescriptor{Source: "car.gltf", Kind: KindModel})
	require.NoError(t, err)

	root, err := await(t, f)
	require.NoError(t, err)
	assert.Equal(t, "car.gltf", root.Name())

	var surfaces []*model.Surface
	root.Walk(func(n model.Node) bool {
		if s := n.Surface(); s != nil {
			surfaces = append(surfaces, s)
		}
		return true
	})
	require.Len(t, surfaces, 4)
	assert.Equal(t, "shell/0", surfaces[0].Name)
	assert.Equal(t, "shell/1", surfaces[1].Name)
	assert.Equal(t, "wheel/0", surfaces[2].Name)

	paint := surfaces[0].Material
	assert.Equal(t, "paint", paint.Name())
	assert.Equal(t, common.Color{R: 0.5, G: 0.1, B: 0.1}, paint.BaseColor())
	assert.Equal(t, float32(0.8), paint.Metallic())
	assert.Equal(t, float32(0.2), paint.Roughness())
	assert.Equal(t, material.SideDouble, surfaces[1].Material.Side())
	assert.Equal(t, float32(1), surfaces[1].Material.Metallic())

	box := root.WorldBounds()
	// the rear wheel is scaled 2x around x=-2; the body is lifted to y 0.5..1.5
	assert.InDelta(t, -3, box.Min[0], 1e-5)
	assert.InDelta(t, 2.5, box.Max[0], 1e-5)
	assert.InDelta(t, 1.5, box.Max[1], 1e-5)
	assert.InDelta(t, -1, box.Min[1], 1e-5)
}

func TestLoadModelGLB(t *testing.T) {
	json := []byte(`{"asset":{"version":"2.0"},"nodes":[{"name":"a","mesh":0}],"meshes":[{"primitives":[{"attributes":{"POSITION":0}}]}],"accessors":[{"count":3,"type":"VEC3","min":[0,0,0],"max":[1,2,3]}]}`)
	l := NewLoader(WithSource(memSource(map[string][]byte{"a.glb": glb(t, json)}, nil)))

	f, err := l.LoadModel(AssetDescriptor{Source: "a.glb", Kind: KindModel, Label: "alpha"})
	require.NoError(t, err)
	root, err := await(t, f)
	require.NoError(t, err)
	assert.Equal(t, "alpha", root.Name())
	assert.Equal(t, [3]float32{1, 2, 3}, root.WorldBounds().Max)
}

func TestLoadModelMalformedDescriptor(t *testing.T) {
	l := NewLoader(WithSource(memSource(nil, nil)))

	cases := []AssetDescriptor{
		{Source: "", Kind: KindModel},
		{Source: "a.glb", Kind: KindEnvironmentMap},
		{Source: "a.obj", Kind: KindModel},
	}
	for _, desc := range cases {
		f, err := l.LoadModel(desc)
		assert.ErrorIs(t, err, ErrMalformedDescriptor, desc.String())
		assert.Nil(t, f)
	}

	f, err := l.LoadEnvironment(AssetDescriptor{Source: "x.hdr", Kind: KindModel})
	assert.ErrorIs(t, err, ErrMalformedDescriptor)
	assert.Nil(t, f)
}

func TestLoadModelFailureIsAsync(t *testing.T) {
	l := NewLoader(WithSource(memSource(map[string][]byte{"bad.gltf": []byte(`{"asset":{"version":"1.0"}}`)}, nil)))

	missing := AssetDescriptor{Source: "missing.glb", Kind: KindModel}
	f, err := l.LoadModel(missing)
	require.NoError(t, err)
	_, err = await(t, f)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, missing, le.Descriptor)
	assert.ErrorIs(t, err, os.ErrNotExist)

	f, err = l.LoadModel(AssetDescriptor{Source: "bad.gltf", Kind: KindModel})
	require.NoError(t, err)
	_, err = await(t, f)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestLoadModelFetchesOnceDecodesPerCall(t *testing.T) {
	var fetches atomic.Int32
	data, err := os.ReadFile(filepath.Join("testdata", "car.gltf"))
	require.NoError(t, err)
	l := NewLoader(WithSource(memSource(map[string][]byte{"car.gltf": data}, &fetches)))

	desc := AssetDescriptor{Source: "car.gltf", Kind: KindModel}
	f1, err := l.LoadModel(desc)
	require.NoError(t, err)
	f2, err := l.LoadModel(desc)
	require.NoError(t, err)
	assert.NotSame(t, f1, f2)

	n1, err := await(t, f1)
	require.NoError(t, err)
	n2, err := await(t, f2)
	require.NoError(t, err)
	assert.NotSame(t, n1, n2, "each load owns its fragment")
	assert.Equal(t, n1.Name(), n2.Name())
	assert.Equal(t, int32(1), fetches.Load())
}

func TestLoadModelSharedFetchFailure(t *testing.T) {
	var fetches atomic.Int32
	l := NewLoader(WithSource(memSource(nil, &fetches)))

	desc := AssetDescriptor{Source: "missing.gltf", Kind: KindModel}
	f1, err := l.LoadModel(desc)
	require.NoError(t, err)
	f2, err := l.LoadModel(AssetDescriptor{Source: "missing.gltf", Kind: KindModel, Label: "again"})
	require.NoError(t, err)

	_, err = await(t, f1)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = await(t, f2)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "again", le.Descriptor.Label)
	assert.Equal(t, int32(1), fetches.Load())
}

type panicBackend struct{}

func (panicBackend) Supports(string) bool { return true }
func (panicBackend) Decode(string, []byte) (model.Node, error) {
	panic("boom")
}

func TestLoadModelRecoversBackendPanic(t *testing.T) {
	l := NewLoader(
		WithSource(memSource(map[string][]byte{"x": {}}, nil)),
		WithModelBackend(panicBackend{}),
	)
	f, err := l.LoadModel(AssetDescriptor{Source: "x", Kind: KindModel})
	require.NoError(t, err)
	_, err = await(t, f)
	var le *LoadError
	assert.ErrorAs(t, err, &le)
}

func TestLoadEnvironment(t *testing.T) {
	files := map[string][]byte{
		"hall.hdr": hdr("FORMAT=32-bit_rle_rgbe\nEXPOSURE=1.0", "-Y 512 +X 1024"),
		"bad.hdr":  []byte("P6\n1 1\n255\n"),
		"xyz.hdr":  hdr("FORMAT=32-bit_rle_foo", "-Y 1 +X 1"),
		"res.hdr":  hdr("FORMAT=32-bit_rle_rgbe", "-Y 10 -Y 20"),
	}
	l := NewLoader(WithSource(memSource(files, nil)))

	f, err := l.LoadEnvironment(AssetDescriptor{Source: "hall.hdr", Kind: KindEnvironmentMap})
	require.NoError(t, err)
	env, err := await(t, f)
	require.NoError(t, err)
	assert.Equal(t, 1024, env.Width)
	assert.Equal(t, 512, env.Height)
	assert.Equal(t, MappingEquirectangularReflection, env.Mapping)
	assert.Equal(t, []byte{2, 2, 0, 0x10}, env.Data)

	for src, want := range map[string]error{
		"bad.hdr":     errNotRadiance,
		"xyz.hdr":     errUnsupportedFormat,
		"res.hdr":     errBadResolution,
		"missing.hdr": os.ErrNotExist,
	} {
		f, err := l.LoadEnvironment(AssetDescriptor{Source: src, Kind: KindEnvironmentMap})
		require.NoError(t, err)
		_, err = await(t, f)
		var ee *EnvironmentLoadError
		assert.ErrorAs(t, err, &ee, src)
		assert.True(t, errors.Is(err, want), "%s: %v", src, err)
	}
}

func TestGLTFNodeCycle(t *testing.T) {
	doc, err := parseGLTFDocument([]byte(`{"asset":{"version":"2.0"},"scenes":[{"nodes":[0]}],"nodes":[{"children":[1]},{"children":[0]}]}`))
	require.NoError(t, err)
	_, err = importGLTF(doc, "loop")
	assert.ErrorIs(t, err, errNodeCycle)
}

func TestGLTFMatrixDecomposition(t *testing.T) {
	gn := &gltfNode{Matrix: &[16]float32{
		2, 0, 0, 0,
		0, 3, 0, 0,
		0, 0, 4, 0,
		5, 6, 7, 1,
	}}
	tr := gltfNodeTransform(gn)
	assert.Equal(t, [3]float32{5, 6, 7}, tr.Translation)
	assert.InDeltaSlice(t, []float32{2, 3, 4}, tr.Scale[:], 1e-5)
	assert.InDeltaSlice(t, []float32{0, 0, 0, 1}, tr.Rotation[:], 1e-5)
}

func TestDescriptorName(t *testing.T) {
	assert.Equal(t, "dancing_hall_1k.hdr", AssetDescriptor{Source: "https://dl.polyhaven.org/file/ph-assets/HDRIs/hdr/1k/dancing_hall_1k.hdr?x=1"}.Name())
	assert.Equal(t, ".hdr", extension("https://example.com/a/B.HDR?x=1"))
	assert.Equal(t, "base", AssetDescriptor{Source: "./tata.glb", Label: "base"}.Name())
}

func TestReadLimitedRejectsOversizedAssets(t *testing.T) {
	data, err := readLimited(bytes.NewReader([]byte("12345678")), 8)
	require.NoError(t, err)
	assert.Len(t, data, 8)

	_, err = readLimited(bytes.NewReader([]byte("123456789")), 8)
	assert.ErrorIs(t, err, ErrAssetTooLarge)
	assert.Contains(t, err.Error(), "exceeds 8 bytes")
}
