package lsh

import (
	"encoding/binary"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

const tol = 1e-6

// ConvertTo64 __
func ConvertTo64(ar []float32) []float64 {
	newar := make([]float64, len(ar))
	var v float32
	var i int
	for i, v = range ar {
		newar[i] = float64(v)
	}
	return newar
}

// NewVec creates new blas vector
func NewVec(data []float64) blas64.Vector {
	if data == nil {
		data = make([]float64, 0)
	}
	return blas64.Vector{
		N:    len(data),
		Inc:  1,
		Data: data,
	}
}

// L2 calculates l2-distance between two vectors
func L2(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// VecKey encodes the vector values into a map key, equal vectors get equal keys
func VecKey(vec []float64) string {
	buf := make([]byte, 8*len(vec))
	for i, v := range vec {
		if v == 0 {
			v = 0 // -0 and +0 are the same point
		}
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(v))
	}
	return string(buf)
}

func copyVec(vec []float64) []float64 {
	cp := make([]float64, len(vec))
	copy(cp, vec)
	return cp
}
