package estimators

import (
	"fmt"

	filter "github.com/milosgajdos/go-estimate"
	"github.com/milosgajdos/go-estimate/noise"
	"gonum.org/v1/gonum/mat"
)

// cvModel is a linear constant-velocity motion model: position integrates
// velocity, everything else holds. It satisfies the filter model contract of
// the go-estimate UKF; the control and measurement arguments are unused
// because the model is autonomous.
type cvModel struct {
	a *mat.Dense // state propagation
	c *mat.Dense // observation
}

var _ filter.Model = (*cvModel)(nil)

func (m *cvModel) Propagate(x, _, _ mat.Vector) (mat.Vector, error) {
	nx, _ := m.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector length: %d", x.Len())
	}
	out := new(mat.VecDense)
	out.MulVec(m.a, x)
	return out, nil
}

func (m *cvModel) Observe(x, _, _ mat.Vector) (mat.Vector, error) {
	nx, _ := m.Dims()
	if x.Len() != nx {
		return nil, fmt.Errorf("invalid state vector length: %d", x.Len())
	}
	out := new(mat.VecDense)
	out.MulVec(m.c, x)
	return out, nil
}

func (m *cvModel) Dims() (int, int) {
	nx, _ := m.a.Dims()
	ny, _ := m.c.Dims()
	return nx, ny
}

// initCond seeds the filter with an initial state and covariance.
type initCond struct {
	x *mat.VecDense
	p *mat.SymDense
}

var _ filter.InitCond = (*initCond)(nil)

func (c *initCond) State() mat.Vector  { return c.x }
func (c *initCond) Cov() mat.Symmetric { return c.p }

// diagNoise builds zero-mean gaussian noise with a diagonal covariance.
func diagNoise(n int, v float64) (*noise.Gaussian, error) {
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, v)
	}
	return noise.NewGaussian(make([]float64, n), cov)
}
