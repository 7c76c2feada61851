package loader

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Common errors returned by the parser
var (
	errInvalidGLTFVersion = errors.New("invalid glTF version: must be 2.0")
	errInvalidGLBMagic    = errors.New("invalid GLB magic number")
	errInvalidGLBVersion  = errors.New("invalid GLB version: must be 2")
	errMissingJSONChunk   = errors.New("GLB file missing JSON chunk")
	errGLBTooSmall        = errors.New("GLB file too small")
)

// isGLB reports whether data starts with the GLB magic number.
func isGLB(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic
}

// parseGLTFDocument decodes a glTF JSON or GLB container into its JSON document.
// The container format is detected from the data itself.
//
// Parameters:
//   - data: the raw asset bytes
//
// Returns:
//   - *gltfDocument: the decoded document
//   - error: error if the data is not a valid glTF 2.0 asset
func parseGLTFDocument(data []byte) (*gltfDocument, error) {
	if isGLB(data) {
		return parseGLB(data)
	}
	return parseGLTF(data)
}

// parseGLTF parses a glTF JSON file.
func parseGLTF(data []byte) (*gltfDocument, error) {
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, errInvalidGLTFVersion
	}
	return &doc, nil
}

// parseGLB extracts the JSON chunk of a GLB container. The BIN chunk is skipped.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func parseGLB(data []byte) (*gltfDocument, error) {
	if len(data) < 12 {
		return nil, errGLBTooSmall
	}

	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, errInvalidGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return nil, errInvalidGLBVersion
	}

	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		if chunk.ChunkType != gltfGLBChunkJSON {
			if _, err := r.Seek(int64(chunk.ChunkLength), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("failed to skip chunk: %w", err)
			}
			continue
		}

		jsonData := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, jsonData); err != nil {
			return nil, fmt.Errorf("failed to read chunk data: %w", err)
		}
		return parseGLTF(jsonData)
	}

	return nil, errMissingJSONChunk
}
