package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Mapping describes how an environment image wraps around the scene.
type Mapping int

const (
	// MappingEquirectangularReflection samples the image as a latitude/longitude sphere
	// used for reflections.
	MappingEquirectangularReflection Mapping = iota
)

var (
	errNotRadiance       = errors.New("not a Radiance HDR image")
	errUnsupportedFormat = errors.New("unsupported Radiance pixel format")
	errBadResolution     = errors.New("malformed Radiance resolution line")
)

// EnvironmentMap is a decoded ambient lighting source. Pixels are kept in their
// run-length encoded form; expanding them is the renderer's concern.
type EnvironmentMap struct {
	Source  string
	Width   int
	Height  int
	Mapping Mapping

	// Format is the header's FORMAT value, e.g. "32-bit_rle_rgbe".
	Format string

	// Data is the pixel payload following the resolution line.
	Data []byte
}

// parseRadiance reads the header and resolution line of a Radiance HDR image.
//
// Parameters:
//   - source: recorded on the result
//   - data: the raw file bytes
//
// Returns:
//   - *EnvironmentMap: the map with its undecoded payload
//   - error: error if the header or resolution line is invalid
func parseRadiance(source string, data []byte) (*EnvironmentMap, error) {
	r := bufio.NewReader(bytes.NewReader(data))

	magic, err := r.ReadString('\n')
	if err != nil {
		return nil, errNotRadiance
	}
	magic = strings.TrimSpace(magic)
	if magic != "#?RADIANCE" && magic != "#?RGBE" {
		return nil, errNotRadiance
	}

	env := &EnvironmentMap{
		Source:  source,
		Mapping: MappingEquirectangularReflection,
		Format:  "32-bit_rle_rgbe",
	}

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if v, ok := strings.CutPrefix(line, "FORMAT="); ok {
			env.Format = v
		}
	}
	if env.Format != "32-bit_rle_rgbe" && env.Format != "32-bit_rle_xyze" {
		return nil, fmt.Errorf("%q: %w", env.Format, errUnsupportedFormat)
	}

	res, err := r.ReadString('\n')
	if err != nil {
		return nil, errBadResolution
	}
	fields := strings.Fields(res)
	if len(fields) != 4 {
		return nil, errBadResolution
	}
	for i := 0; i < 4; i += 2 {
		n, err := strconv.Atoi(fields[i+1])
		if err != nil || n <= 0 {
			return nil, errBadResolution
		}
		switch strings.TrimLeft(fields[i], "+-") {
		case "Y":
			env.Height = n
		case "X":
			env.Width = n
		default:
			return nil, errBadResolution
		}
	}
	if env.Width == 0 || env.Height == 0 {
		return nil, errBadResolution
	}

	env.Data, err = io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	return env, nil
}
