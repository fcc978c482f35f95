package geometry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	binaryHeaderSize = 84 // 80-byte comment + uint32 facet count
	binaryFacetSize  = 50 // normal + 3 vertices (12 float32) + attribute uint16
)

// LoadSTL parses an STL payload, accepting both the binary and the ASCII
// encoding. A payload that parses but contains zero facets yields an empty
// mesh; callers decide whether that is an error.
func LoadSTL(data []byte) (*Mesh, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", ErrMeshFormat)
	}

	if isASCII(data) {
		return parseASCII(data)
	}
	return parseBinary(data)
}

// isASCII detects the ASCII encoding. Binary files may also begin with
// "solid", so the facet-count length check has the final say.
func isASCII(data []byte) bool {
	head := bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(head, []byte("solid")) {
		return false
	}
	if len(data) >= binaryHeaderSize {
		count := binary.LittleEndian.Uint32(data[80:84])
		if len(data) == binaryHeaderSize+int(count)*binaryFacetSize {
			return false
		}
	}
	return true
}

func parseBinary(data []byte) (*Mesh, error) {
	if len(data) < binaryHeaderSize {
		return nil, fmt.Errorf("%w: truncated binary header (%d bytes)", ErrMeshFormat, len(data))
	}

	count := binary.LittleEndian.Uint32(data[80:84])
	expected := binaryHeaderSize + int(count)*binaryFacetSize
	if len(data) != expected {
		return nil, fmt.Errorf("%w: facet count %d implies %d bytes, got %d", ErrMeshFormat, count, expected, len(data))
	}

	mesh := &Mesh{Triangles: make([]Triangle, 0, count)}
	offset := binaryHeaderSize
	for i := uint32(0); i < count; i++ {
		// Skip the 12-byte facet normal; vertices define the geometry
		var tri Triangle
		for v := 0; v < 3; v++ {
			base := offset + 12 + v*12
			tri[v] = Vec3{
				X: float64(readFloat32(data, base)),
				Y: float64(readFloat32(data, base+4)),
				Z: float64(readFloat32(data, base+8)),
			}
		}
		mesh.Triangles = append(mesh.Triangles, tri)
		offset += binaryFacetSize
	}
	return mesh, nil
}

func readFloat32(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset : offset+4]))
}

func parseASCII(data []byte) (*Mesh, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	mesh := &Mesh{}
	var vertices []Vec3

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("%w: malformed vertex line %q", ErrMeshFormat, scanner.Text())
		}

		var v Vec3
		var err error
		if v.X, err = strconv.ParseFloat(fields[1], 64); err == nil {
			if v.Y, err = strconv.ParseFloat(fields[2], 64); err == nil {
				v.Z, err = strconv.ParseFloat(fields[3], 64)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: malformed vertex coordinate: %v", ErrMeshFormat, err)
		}

		vertices = append(vertices, v)
		if len(vertices) == 3 {
			mesh.Triangles = append(mesh.Triangles, Triangle{vertices[0], vertices[1], vertices[2]})
			vertices = vertices[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMeshFormat, err)
	}
	if len(vertices) != 0 {
		return nil, fmt.Errorf("%w: facet with %d vertices", ErrMeshFormat, len(vertices))
	}

	return mesh, nil
}
