package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.desired.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - CameraControllerOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.desired.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle from the horizontal plane.
//
// Parameters:
//   - elevation: vertical angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set the elevation
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.desired.elevation = elevation
	}
}

// WithTarget sets the initial orbit target.
//
// Parameters:
//   - x, y, z: target position
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = [3]float32{x, y, z}
	}
}

// WithPosition places the camera at start, deriving radius, azimuth and elevation from
// its offset to the target. Overrides WithRadius, WithAzimuth and WithElevation.
//
// Parameters:
//   - x, y, z: camera position
//
// Returns:
//   - CameraControllerOption: functional option to set the start position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.startPosition = &[3]float32{x, y, z}
	}
}

// WithRadiusBounds sets the minimum and maximum orbit distance.
//
// Parameters:
//   - min: minimum distance from the target
//   - max: maximum distance from the target
//
// Returns:
//   - CameraControllerOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithElevationBounds sets the minimum and maximum elevation.
//
// Parameters:
//   - min: lowest elevation in radians
//   - max: highest elevation in radians
//
// Returns:
//   - CameraControllerOption: functional option to set elevation bounds
func WithElevationBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithDamping sets the fraction of the remaining motion applied per 1/60 s.
// Zero or one disables smoothing.
//
// Parameters:
//   - damping: the damping factor
//
// Returns:
//   - CameraControllerOption: functional option to set damping
func WithDamping(damping float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.damping = damping
	}
}

// WithOrbitSpeed sets the rotation step used by the OrbitLeft/Right/Up/Down methods.
//
// Parameters:
//   - speed: radians per step
//
// Returns:
//   - CameraControllerOption: functional option to set orbit speed
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithMouseSensitivity sets the radians of rotation per pixel of mouse drag.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - CameraControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the distance moved per unit of zoom input.
//
// Parameters:
//   - speed: distance per scroll unit
//
// Returns:
//   - CameraControllerOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}
