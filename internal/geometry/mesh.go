package geometry

import (
	"errors"
	"math"
)

var (
	// ErrMeshFormat is returned when the mesh payload cannot be parsed as STL
	ErrMeshFormat = errors.New("unable to parse STL payload")

	// ErrEmptyMesh is returned when a parsed mesh contains no geometry
	ErrEmptyMesh = errors.New("mesh contains no geometry")
)

// Vec3 is a point or direction in 3D space
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Norm returns the Euclidean length of v
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Triangle is a single mesh facet
type Triangle [3]Vec3

// Mesh is a triangle soup loaded from an STL payload
type Mesh struct {
	Triangles []Triangle
}

// IsEmpty reports whether the mesh has no facets
func (m *Mesh) IsEmpty() bool {
	return len(m.Triangles) == 0
}

// Bounds returns the axis-aligned bounding box of the mesh
func (m *Mesh) Bounds() (min, max Vec3) {
	min = Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, tri := range m.Triangles {
		for _, v := range tri {
			min.X = math.Min(min.X, v.X)
			min.Y = math.Min(min.Y, v.Y)
			min.Z = math.Min(min.Z, v.Z)
			max.X = math.Max(max.X, v.X)
			max.Y = math.Max(max.Y, v.Y)
			max.Z = math.Max(max.Z, v.Z)
		}
	}
	return min, max
}

// Center translates the mesh so its bounding-box centroid sits at the origin
func (m *Mesh) Center() {
	min, max := m.Bounds()
	center := min.Add(max).Scale(0.5)
	for i := range m.Triangles {
		for j := range m.Triangles[i] {
			m.Triangles[i][j] = m.Triangles[i][j].Sub(center)
		}
	}
}

// Rotate applies an Euler rotation to every vertex, in degrees, about the
// X axis first, then Y, then Z.
func (m *Mesh) Rotate(rxDeg, ryDeg, rzDeg float64) {
	rx := rxDeg * math.Pi / 180
	ry := ryDeg * math.Pi / 180
	rz := rzDeg * math.Pi / 180

	sinX, cosX := math.Sincos(rx)
	sinY, cosY := math.Sincos(ry)
	sinZ, cosZ := math.Sincos(rz)

	rotate := func(v Vec3) Vec3 {
		// X axis
		v = Vec3{v.X, cosX*v.Y - sinX*v.Z, sinX*v.Y + cosX*v.Z}
		// Y axis
		v = Vec3{cosY*v.X + sinY*v.Z, v.Y, -sinY*v.X + cosY*v.Z}
		// Z axis
		return Vec3{cosZ*v.X - sinZ*v.Y, sinZ*v.X + cosZ*v.Y, v.Z}
	}

	for i := range m.Triangles {
		for j := range m.Triangles[i] {
			m.Triangles[i][j] = rotate(m.Triangles[i][j])
		}
	}
}
