package geometry

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiTriangle = `solid tri
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 1 0 0
      vertex 0 1 0
    endloop
  endfacet
endsolid tri
`

func loadCube(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/cube.stl")
	require.NoError(t, err)
	return data
}

func TestLoadSTL_Binary(t *testing.T) {
	mesh, err := LoadSTL(loadCube(t))
	require.NoError(t, err)

	assert.Len(t, mesh.Triangles, 12)
	assert.False(t, mesh.IsEmpty())

	min, max := mesh.Bounds()
	assert.Equal(t, Vec3{-1, -1, -1}, min)
	assert.Equal(t, Vec3{1, 1, 1}, max)
}

func TestLoadSTL_ASCII(t *testing.T) {
	mesh, err := LoadSTL([]byte(asciiTriangle))
	require.NoError(t, err)

	require.Len(t, mesh.Triangles, 1)
	assert.Equal(t, Vec3{1, 0, 0}, mesh.Triangles[0][1])
}

func TestLoadSTL_ASCIIEmptySolid(t *testing.T) {
	mesh, err := LoadSTL([]byte("solid empty\nendsolid empty\n"))
	require.NoError(t, err)
	assert.True(t, mesh.IsEmpty())
}

func TestLoadSTL_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty payload", data: nil},
		{name: "random bytes", data: []byte("this is definitely not a mesh")},
		{name: "truncated binary", data: append([]byte("BIN"), make([]byte, 40)...)},
		{
			name: "binary length mismatch",
			data: func() []byte {
				data := loadCube(t)
				return data[:len(data)-7]
			}(),
		},
		{name: "ascii bad coordinate", data: []byte("solid x\nvertex 0 zero 0\nendsolid x\n")},
		{name: "ascii missing coordinate", data: []byte("solid x\nvertex 0 0\nendsolid x\n")},
		{name: "ascii dangling vertices", data: []byte("solid x\nvertex 0 0 0\nvertex 1 0 0\nendsolid x\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := LoadSTL(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMeshFormat)
			assert.Nil(t, mesh)
		})
	}
}

func TestLoadSTL_BinaryStartingWithSolid(t *testing.T) {
	// Binary files whose header happens to start with "solid" must still be
	// detected by the facet-count length check.
	data := loadCube(t)
	copy(data[:5], "solid")

	mesh, err := LoadSTL(data)
	require.NoError(t, err)
	assert.Len(t, mesh.Triangles, 12)
}
