package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// settleEpsilon is the distance below which the current state snaps to the desired state.
const settleEpsilon = 1e-4

// spherical is an orbit offset from the target.
type spherical struct {
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane
}

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	target   [3]float32
	position [3]float32

	desired spherical
	current spherical

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	startPosition *[3]float32

	damping          float32
	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new damped orbit controller.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		desired: spherical{radius: 50, elevation: math32.Pi / 6},

		minRadius:    0.1,
		maxRadius:    1000,
		minElevation: -math32.Pi/2 + 0.01,
		maxElevation: math32.Pi/2 - 0.01,

		damping:          0.05,
		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        1.0,
	}

	for _, option := range options {
		option(cc)
	}

	if cc.startPosition != nil {
		cc.position = *cc.startPosition
		cc.deriveFromPosition()
		return cc
	}
	cc.desired = cc.clamp(cc.desired)
	cc.current = cc.desired
	cc.updatePosition()
	return cc
}

// --- internal helpers ---

// clamp bounds radius and elevation. Caller must hold the mutex.
func (cc *cameraControllerImpl) clamp(s spherical) spherical {
	s.radius = min(max(s.radius, cc.minRadius), cc.maxRadius)
	s.elevation = min(max(s.elevation, cc.minElevation), cc.maxElevation)
	return s
}

// updatePosition recomputes the camera position from the current spherical state.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	s := cc.current
	cosElev, sinElev := math32.Cos(s.elevation), math32.Sin(s.elevation)
	cosAzim, sinAzim := math32.Cos(s.azimuth), math32.Sin(s.azimuth)

	cc.position[0] = cc.target[0] + s.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + s.radius*sinElev
	cc.position[2] = cc.target[2] + s.radius*cosElev*cosAzim
}

// deriveFromPosition sets both states from the offset between position and target.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) deriveFromPosition() {
	ox := cc.position[0] - cc.target[0]
	oy := cc.position[1] - cc.target[1]
	oz := cc.position[2] - cc.target[2]
	r := math32.Sqrt(ox*ox + oy*oy + oz*oz)

	s := spherical{radius: r}
	if r > 1e-8 {
		s.elevation = math32.Asin(min(max(oy/r, -1), 1))
		s.azimuth = math32.Atan2(ox, oz)
	}
	s = cc.clamp(s)
	cc.desired = s
	cc.current = s
	cc.updatePosition()
}

// --- CameraController methods ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = [3]float32{x, y, z}
	cc.deriveFromPosition()
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = [3]float32{x, y, z}
	cc.deriveFromPosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.desired.radius -= delta * cc.zoomSpeed
	cc.desired = cc.clamp(cc.desired)
}

func (cc *cameraControllerImpl) Update(dt float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	// Frame-rate independent: the damping factor is defined per 1/60 s step.
	k := float32(1)
	if cc.damping > 0 && cc.damping < 1 {
		k = 1 - math32.Pow(1-cc.damping, max(dt, 0)*60)
	}

	step := func(cur, want float32) float32 {
		next := cur + (want-cur)*k
		if math32.Abs(want-next) < settleEpsilon {
			return want
		}
		return next
	}
	cc.current.radius = step(cc.current.radius, cc.desired.radius)
	cc.current.azimuth = step(cc.current.azimuth, cc.desired.azimuth)
	cc.current.elevation = step(cc.current.elevation, cc.desired.elevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Settled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.current == cc.desired
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) Rotate(dAzimuth, dElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.desired.azimuth += dAzimuth
	cc.desired.elevation += dElevation
	cc.desired = cc.clamp(cc.desired)
}

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.Rotate(-cc.orbitSpeed, 0)
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.Rotate(cc.orbitSpeed, 0)
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.Rotate(0, cc.orbitSpeed)
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.Rotate(0, -cc.orbitSpeed)
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.current.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.desired.radius = radius
	cc.desired = cc.clamp(cc.desired)
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.current.azimuth
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.current.elevation
}

func (cc *cameraControllerImpl) Damping() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.damping
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}
