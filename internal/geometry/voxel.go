package geometry

import (
	"fmt"
	"math"

	"github.com/cuongbtq/slicer-be/internal/volume"
)

// Voxelize converts the mesh into a filled occupancy grid with voxel edge
// length pitch. Facets are rasterized onto the grid, then every voxel not
// reachable from the grid boundary is treated as interior and filled.
func (m *Mesh) Voxelize(pitch float64) (volume.Grid3D, error) {
	if pitch <= 0 {
		return volume.Grid3D{}, fmt.Errorf("pitch must be positive, got %v", pitch)
	}
	if m.IsEmpty() {
		return volume.Grid3D{}, ErrEmptyMesh
	}

	min, max := m.Bounds()
	extent := max.Sub(min)
	nx := gridDim(extent.X, pitch)
	ny := gridDim(extent.Y, pitch)
	nz := gridDim(extent.Z, pitch)

	grid := volume.NewGrid3D(nx, ny, nz)
	for _, tri := range m.Triangles {
		rasterizeTriangle(grid, tri, min, pitch)
	}
	fillInterior(grid)

	return grid, nil
}

func gridDim(extent, pitch float64) int {
	n := int(math.Ceil(extent/pitch)) + 1
	if n < 1 {
		return 1
	}
	return n
}

// rasterizeTriangle marks every voxel touched by barycentric samples of the
// facet. Sampling at half-pitch spacing guarantees no voxel-sized gap.
func rasterizeTriangle(grid volume.Grid3D, tri Triangle, origin Vec3, pitch float64) {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])

	h := pitch / 2
	nu := sampleSteps(e1.Norm(), h)
	nv := sampleSteps(e2.Norm(), h)

	for i := 0; i <= nu; i++ {
		u := float64(i) / float64(nu)
		for j := 0; j <= nv; j++ {
			v := float64(j) / float64(nv)
			if u+v > 1 {
				break
			}
			p := tri[0].Add(e1.Scale(u)).Add(e2.Scale(v))
			markVoxel(grid, p, origin, pitch)
		}
	}
}

func sampleSteps(length, h float64) int {
	n := int(math.Ceil(length / h))
	if n < 1 {
		return 1
	}
	return n
}

func markVoxel(grid volume.Grid3D, p, origin Vec3, pitch float64) {
	x := clamp(int(math.Round((p.X-origin.X)/pitch)), grid.Nx-1)
	y := clamp(int(math.Round((p.Y-origin.Y)/pitch)), grid.Ny-1)
	z := clamp(int(math.Round((p.Z-origin.Z)/pitch)), grid.Nz-1)
	grid.Set(x, y, z, 1)
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}

// fillInterior sets every voxel that is not reachable from the grid boundary
// through unoccupied voxels. Flood-fills the exterior with a BFS over
// 6-connected neighbors, then inverts.
func fillInterior(grid volume.Grid3D) {
	exterior := make([]bool, len(grid.Data))
	index := func(x, y, z int) int { return (x*grid.Ny+y)*grid.Nz + z }

	var queue [][3]int
	push := func(x, y, z int) {
		i := index(x, y, z)
		if !exterior[i] && grid.At(x, y, z) == 0 {
			exterior[i] = true
			queue = append(queue, [3]int{x, y, z})
		}
	}

	for x := 0; x < grid.Nx; x++ {
		for y := 0; y < grid.Ny; y++ {
			for z := 0; z < grid.Nz; z++ {
				if x == 0 || x == grid.Nx-1 || y == 0 || y == grid.Ny-1 || z == 0 || z == grid.Nz-1 {
					push(x, y, z)
				}
			}
		}
	}

	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]
		x, y, z := cell[0], cell[1], cell[2]
		if x > 0 {
			push(x-1, y, z)
		}
		if x < grid.Nx-1 {
			push(x+1, y, z)
		}
		if y > 0 {
			push(x, y-1, z)
		}
		if y < grid.Ny-1 {
			push(x, y+1, z)
		}
		if z > 0 {
			push(x, y, z-1)
		}
		if z < grid.Nz-1 {
			push(x, y, z+1)
		}
	}

	for i := range grid.Data {
		if !exterior[i] {
			grid.Data[i] = 1
		}
	}
}
