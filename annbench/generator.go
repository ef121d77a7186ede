package annbench

import (
	"math/rand/v2"

	"github.com/gasparian/lsh-search-go/lsh"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	maxOuterAttempts = 10000
	innerMargin      = 1e-12
)

// NewGenerator creates a generator of dims-sized vectors inside [-border/2, border/2)
func NewGenerator(dims int, radius, border float64, seed uint64) (*Generator, error) {
	if dims <= 0 || !(radius > 0) || !(border > 0) {
		return nil, errBadGenerator
	}
	return &Generator{
		dims:    dims,
		radius:  radius,
		border:  border,
		uniform: distuv.Uniform{Min: -border / 2, Max: border / 2, Src: rand.NewPCG(seed, ^seed)},
	}, nil
}

// Query returns a random point inside the border
func (g *Generator) Query() []float64 {
	vec := make([]float64, g.dims)
	for i := range vec {
		vec[i] = g.uniform.Rand()
	}
	return vec
}

// Inner returns q shifted by a random non-negative offset with the l1 norm just under the radius.
// The offset is shrunk until rounding can't push the result beyond the radius.
func (g *Generator) Inner(q []float64) []float64 {
	offset := make([]float64, g.dims)
	sum := 0.0
	for sum == 0 {
		for i := range offset {
			offset[i] = g.uniform.Rand()/g.border + 0.5
		}
		sum = floats.Sum(offset)
	}
	vec := make([]float64, g.dims)
	scale := g.radius * (1 - innerMargin) / sum
	for {
		floats.AddScaledTo(vec, q, scale, offset)
		if lsh.L2(q, vec) <= g.radius {
			break
		}
		scale /= 2
	}
	g.inner++
	return vec
}

// Outer returns a random point inside the border lying strictly beyond the radius from q
func (g *Generator) Outer(q []float64) ([]float64, error) {
	for i := 0; i < maxOuterAttempts; i++ {
		vec := g.Query()
		if lsh.L2(q, vec) > g.radius {
			g.outer++
			return vec, nil
		}
	}
	return nil, errOuterUnreachable
}

// Counts returns the number of generated inner and outer vectors
func (g *Generator) Counts() (inner, outer int) {
	return g.inner, g.outer
}
