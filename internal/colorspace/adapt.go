package colorspace

import (
	"gonum.org/v1/gonum/mat"
)

// Bradford cone response matrix used for chromatic adaptation.
var bradford = mat.NewDense(3, 3, []float64{
	0.8951, 0.2664, -0.1614,
	-0.7502, 1.7135, 0.0367,
	0.0389, -0.0685, 1.0296,
})

var bradfordInv = func() *mat.Dense {
	var inv mat.Dense
	if err := inv.Inverse(bradford); err != nil {
		panic("colorspace: Bradford matrix is singular: " + err.Error())
	}
	return &inv
}()

// AdaptMatrix builds the Bradford adaptation matrix from the source to
// the destination white point: M^-1 * diag(M*D / M*S) * M.
func AdaptMatrix(src, dst WhitePoint) [3][3]float64 {
	srcV := src.vec()
	dstV := dst.vec()

	srcLMS := mat.NewVecDense(3, srcV[:])
	dstLMS := mat.NewVecDense(3, dstV[:])

	var srcCone, dstCone mat.VecDense
	srcCone.MulVec(bradford, srcLMS)
	dstCone.MulVec(bradford, dstLMS)

	scale := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		scale.Set(i, i, dstCone.AtVec(i)/srcCone.AtVec(i))
	}

	var tmp, transform mat.Dense
	tmp.Mul(scale, bradford)
	transform.Mul(bradfordInv, &tmp)

	var out [3][3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = transform.At(i, j)
		}
	}
	return out
}

// AdaptXYZOne re-expresses one XYZ triple captured under src as it
// would appear under dst.
func AdaptXYZOne(xyz Vec3, src, dst WhitePoint) Vec3 {
	m := AdaptMatrix(src, dst)
	return applyMatrix(m, xyz)
}

// AdaptXYZ applies the Bradford transform over a whole field. The same
// matrix is broadcast over every pixel.
func AdaptXYZ(xyz *Field, src, dst WhitePoint) *Field {
	m := AdaptMatrix(src, dst)
	out := NewField(xyz.W, xyz.H)
	for i, p := range xyz.Pix {
		out.Pix[i] = applyMatrix(m, p)
	}
	return out
}

func applyMatrix(m [3][3]float64, v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}
