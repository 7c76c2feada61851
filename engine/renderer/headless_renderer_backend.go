package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
)

// HeadlessBackend is a RendererBackend that keeps everything in memory. It is used by
// tests and by hosts without a display.
type HeadlessBackend struct {
	mu *sync.Mutex

	width, height int
	presentMode   PresentMode

	materials map[material.Material][12]float32
	uploads   int
	frame     FrameUniforms
	clears    []common.Color
	presented int
	open      bool
}

var _ RendererBackend = &HeadlessBackend{}

// NewHeadlessBackend creates an empty HeadlessBackend.
//
// Returns:
//   - *HeadlessBackend: the new backend
func NewHeadlessBackend() *HeadlessBackend {
	return &HeadlessBackend{
		mu:        &sync.Mutex{},
		materials: make(map[material.Material][12]float32),
	}
}

func (b *HeadlessBackend) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.width, b.height = width, height
}

func (b *HeadlessBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presentMode = mode
}

func (b *HeadlessBackend) WriteMaterial(m material.Material, data [12]float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.materials[m] = data
	b.uploads++
	return nil
}

func (b *HeadlessBackend) WriteFrame(u FrameUniforms) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frame = u
	return nil
}

func (b *HeadlessBackend) BeginFrame(clear common.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clears = append(b.clears, clear)
	b.open = true
	return nil
}

func (b *HeadlessBackend) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
}

func (b *HeadlessBackend) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.presented++
}

func (b *HeadlessBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.materials)
}

// Size returns the last configured surface size.
func (b *HeadlessBackend) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// Uploads returns the number of material uploads so far.
func (b *HeadlessBackend) Uploads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}

// Material returns the last uniform block uploaded for m.
func (b *HeadlessBackend) Material(m material.Material) ([12]float32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.materials[m]
	return d, ok
}

// Frame returns the last frame uniforms written.
func (b *HeadlessBackend) Frame() FrameUniforms {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame
}

// Clears returns the clear color of every frame begun so far.
func (b *HeadlessBackend) Clears() []common.Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]common.Color(nil), b.clears...)
}

// Presented returns the number of frames presented.
func (b *HeadlessBackend) Presented() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.presented
}
