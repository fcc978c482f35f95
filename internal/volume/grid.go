package volume

import "math"

// Grid3D is a dense 3D occupancy grid stored in x-major order
type Grid3D struct {
	Nx, Ny, Nz int
	Data       []float32
}

// NewGrid3D allocates a zeroed grid with the given dimensions
func NewGrid3D(nx, ny, nz int) Grid3D {
	return Grid3D{
		Nx:   nx,
		Ny:   ny,
		Nz:   nz,
		Data: make([]float32, nx*ny*nz),
	}
}

func (g Grid3D) index(x, y, z int) int {
	return (x*g.Ny+y)*g.Nz + z
}

// At returns the value at (x, y, z)
func (g Grid3D) At(x, y, z int) float32 {
	return g.Data[g.index(x, y, z)]
}

// Set writes the value at (x, y, z)
func (g Grid3D) Set(x, y, z int, v float32) {
	g.Data[g.index(x, y, z)] = v
}

// MaxDim returns the largest grid dimension
func (g Grid3D) MaxDim() int {
	m := g.Nx
	if g.Ny > m {
		m = g.Ny
	}
	if g.Nz > m {
		m = g.Nz
	}
	return m
}

// Pad returns a copy of the grid padded symmetrically by n zero voxels on
// every axis
func (g Grid3D) Pad(n int) Grid3D {
	if n <= 0 {
		out := NewGrid3D(g.Nx, g.Ny, g.Nz)
		copy(out.Data, g.Data)
		return out
	}

	out := NewGrid3D(g.Nx+2*n, g.Ny+2*n, g.Nz+2*n)
	for x := 0; x < g.Nx; x++ {
		for y := 0; y < g.Ny; y++ {
			for z := 0; z < g.Nz; z++ {
				out.Set(x+n, y+n, z+n, g.At(x, y, z))
			}
		}
	}
	return out
}

// RotateXY rotates the grid by the given angle (degrees) in the x-y plane
// around the grid center, sampling with bilinear interpolation. The output
// shape matches the input; samples falling outside the grid read as zero.
func (g Grid3D) RotateXY(angleDeg float64) Grid3D {
	out := NewGrid3D(g.Nx, g.Ny, g.Nz)

	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx := float64(g.Nx-1) / 2
	cy := float64(g.Ny-1) / 2

	for x := 0; x < g.Nx; x++ {
		dx := float64(x) - cx
		for y := 0; y < g.Ny; y++ {
			dy := float64(y) - cy

			// Inverse-map the output voxel into the source grid
			sx := cos*dx + sin*dy + cx
			sy := -sin*dx + cos*dy + cy

			x0 := int(math.Floor(sx))
			y0 := int(math.Floor(sy))
			fx := float32(sx - float64(x0))
			fy := float32(sy - float64(y0))

			for z := 0; z < g.Nz; z++ {
				v := g.sample(x0, y0, z)*(1-fx)*(1-fy) +
					g.sample(x0+1, y0, z)*fx*(1-fy) +
					g.sample(x0, y0+1, z)*(1-fx)*fy +
					g.sample(x0+1, y0+1, z)*fx*fy
				out.Set(x, y, z, v)
			}
		}
	}
	return out
}

func (g Grid3D) sample(x, y, z int) float32 {
	if x < 0 || x >= g.Nx || y < 0 || y >= g.Ny || z < 0 || z >= g.Nz {
		return 0
	}
	return g.At(x, y, z)
}

// SumY collapses the grid along the y axis, producing a density map indexed
// by (x, z)
func (g Grid3D) SumY() Grid2D {
	out := NewGrid2D(g.Nx, g.Nz)
	for x := 0; x < g.Nx; x++ {
		for z := 0; z < g.Nz; z++ {
			var sum float32
			for y := 0; y < g.Ny; y++ {
				sum += g.At(x, y, z)
			}
			out.Set(x, z, sum)
		}
	}
	return out
}

// Grid2D is a dense 2D density map stored in row-major order
type Grid2D struct {
	Rows, Cols int
	Data       []float32
}

// NewGrid2D allocates a zeroed map with the given dimensions
func NewGrid2D(rows, cols int) Grid2D {
	return Grid2D{
		Rows: rows,
		Cols: cols,
		Data: make([]float32, rows*cols),
	}
}

// At returns the value at (row, col)
func (g Grid2D) At(r, c int) float32 {
	return g.Data[r*g.Cols+c]
}

// Set writes the value at (row, col)
func (g Grid2D) Set(r, c int, v float32) {
	g.Data[r*g.Cols+c] = v
}

// Transpose returns the map with rows and columns swapped
func (g Grid2D) Transpose() Grid2D {
	out := NewGrid2D(g.Cols, g.Rows)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			out.Set(c, r, g.At(r, c))
		}
	}
	return out
}

// FlipVertical returns the map with row order reversed
func (g Grid2D) FlipVertical() Grid2D {
	out := NewGrid2D(g.Rows, g.Cols)
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			out.Set(g.Rows-1-r, c, g.At(r, c))
		}
	}
	return out
}
