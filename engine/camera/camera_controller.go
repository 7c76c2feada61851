package camera

// CameraController defines the interface for a damped orbit controller.
//
// The controller keeps two spherical states around a target point: the desired state,
// which input moves immediately, and the current state, which follows the desired one
// by a damping factor on every Update. Position and Target always report the current
// state, so the camera glides after the user lets go.
type CameraController interface {
	orbitCameraController

	// Position returns the camera's current world position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Target returns the point the camera orbits and looks at.
	//
	// Returns:
	//   - x, y, z: target components
	Target() (x, y, z float32)

	// SetTarget moves the orbit center without moving the camera. The spherical state is
	// re-derived from the current position, with the distance clamped to its bounds.
	//
	// Parameters:
	//   - x, y, z: the new target
	SetTarget(x, y, z float32)

	// SetPosition places the camera and re-derives the spherical state around the
	// current target. Both states jump; no damping is applied.
	//
	// Parameters:
	//   - x, y, z: the new position
	SetPosition(x, y, z float32)

	// Zoom moves the desired distance towards the target by delta times the zoom speed.
	//
	// Parameters:
	//   - delta: positive to zoom in, negative to zoom out
	Zoom(delta float32)

	// Update advances the current state towards the desired state.
	//
	// Parameters:
	//   - dt: seconds since the previous update
	Update(dt float32)

	// Settled reports whether the current state has caught up with the desired state.
	//
	// Returns:
	//   - bool: true if no further motion is pending
	Settled() bool
}

// orbitCameraController defines orbit-specific controls for the camera controller.
type orbitCameraController interface {
	// Rotate adds to the desired azimuth and elevation. Elevation is clamped.
	//
	// Parameters:
	//   - dAzimuth: radians around the Y axis
	//   - dElevation: radians above the horizontal plane
	Rotate(dAzimuth, dElevation float32)

	// OrbitLeft rotates the desired state left by the orbit speed.
	OrbitLeft()

	// OrbitRight rotates the desired state right by the orbit speed.
	OrbitRight()

	// OrbitUp raises the desired elevation by the orbit speed.
	OrbitUp()

	// OrbitDown lowers the desired elevation by the orbit speed.
	OrbitDown()

	// Radius returns the current distance from the target.
	//
	// Returns:
	//   - float32: the distance
	Radius() float32

	// SetRadius sets the desired distance, clamped to the radius bounds.
	//
	// Parameters:
	//   - radius: the distance
	SetRadius(radius float32)

	// MinRadius returns the minimum distance from the target.
	//
	// Returns:
	//   - float32: the lower bound
	MinRadius() float32

	// MaxRadius returns the maximum distance from the target.
	//
	// Returns:
	//   - float32: the upper bound
	MaxRadius() float32

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: radians
	Azimuth() float32

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: radians
	Elevation() float32

	// Damping returns the fraction of the remaining motion applied per 1/60 s.
	//
	// Returns:
	//   - float32: the damping factor, 1 meaning no smoothing
	Damping() float32

	// MouseSensitivity returns the radians of rotation per pixel of drag.
	//
	// Returns:
	//   - float32: the sensitivity
	MouseSensitivity() float32
}
