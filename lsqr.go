package poisson

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDimension is returned when a right-hand side does not match the operator.
var ErrDimension = errors.New("poisson: dimension mismatch")

// Operator is a linear map that can be applied forward and transposed.
// *CSR implements it.
type Operator interface {
	Dims() (r, c int)
	MulVecTo(dst, x []float64)
	MulTransVecTo(dst, y []float64)
}

// StopReason tells why LSQR returned.
type StopReason int

const (
	// StopZeroSolution means x = 0 is exact (b = 0 or Aᵀb = 0).
	StopZeroSolution StopReason = iota
	// StopConsistent means the residual satisfied the BTol/ATol test.
	StopConsistent
	// StopLeastSquares means the normal-equation residual satisfied ATol.
	StopLeastSquares
	// StopIterationLimit means MaxIterations was reached first.
	StopIterationLimit
)

func (s StopReason) String() string {
	switch s {
	case StopZeroSolution:
		return "zero-solution"
	case StopConsistent:
		return "consistent"
	case StopLeastSquares:
		return "least-squares"
	case StopIterationLimit:
		return "iteration-limit"
	default:
		return fmt.Sprintf("StopReason(%d)", int(s))
	}
}

type SolverOptions struct {
	// Relative error in A. Also the normal-equation stopping tolerance.
	ATol float64
	// Relative error in b.
	BTol float64
	// Iteration cap. 0 selects 4*n.
	MaxIterations int
	// Tikhonov damping; 0 solves the plain least-squares problem.
	Damp float64
}

func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		ATol: 1e-10,
		BTol: 1e-10,
	}
}

type Result struct {
	X          []float64
	Iterations int
	Stop       StopReason
	// ResidualNorm is ‖b − Ax‖ (including the damping term).
	ResidualNorm float64
	// NormalResidualNorm estimates ‖Aᵀ(b − Ax)‖.
	NormalResidualNorm float64
}

// LSQR minimizes ‖Ax − b‖² + damp²‖x‖² with the Paige–Saunders
// bidiagonalization method. Starting from x = 0 it converges to the
// minimum-norm solution when A is rank deficient.
func LSQR(a Operator, b []float64, opt SolverOptions) (*Result, error) {
	m, n := a.Dims()
	if len(b) != m {
		return nil, fmt.Errorf("%w: operator has %d rows, rhs has %d", ErrDimension, m, len(b))
	}
	iterLim := opt.MaxIterations
	if iterLim <= 0 {
		iterLim = 4 * n
	}
	dampSq := opt.Damp * opt.Damp

	x := make([]float64, n)
	res := &Result{X: x}
	if n == 0 || m == 0 {
		res.ResidualNorm = floats.Norm(b, 2)
		return res, nil
	}

	u := make([]float64, m)
	copy(u, b)
	v := make([]float64, n)
	w := make([]float64, n)
	tmpM := make([]float64, m)
	tmpN := make([]float64, n)

	beta := floats.Norm(u, 2)
	if beta > 0 {
		floats.Scale(1/beta, u)
		a.MulTransVecTo(v, u)
	}
	alpha := floats.Norm(v, 2)
	if alpha > 0 {
		floats.Scale(1/alpha, v)
	}
	copy(w, v)

	bnorm := beta
	rhobar := alpha
	phibar := beta
	anorm := 0.0
	res2 := 0.0
	res.ResidualNorm = beta
	res.NormalResidualNorm = alpha * beta
	if res.NormalResidualNorm == 0 {
		return res, nil
	}

	for itn := 1; itn <= iterLim; itn++ {
		res.Iterations = itn

		// Continue the bidiagonalization:
		// beta*u = A*v - alpha*u, alpha*v = A'*u - beta*v.
		a.MulVecTo(tmpM, v)
		floats.AddScaledTo(u, tmpM, -alpha, u)
		beta = floats.Norm(u, 2)
		if beta > 0 {
			floats.Scale(1/beta, u)
			anorm = math.Sqrt(anorm*anorm + alpha*alpha + beta*beta + dampSq)
			a.MulTransVecTo(tmpN, u)
			floats.AddScaledTo(v, tmpN, -beta, v)
			alpha = floats.Norm(v, 2)
			if alpha > 0 {
				floats.Scale(1/alpha, v)
			}
		}

		// Eliminate the damping parameter.
		rhobar1 := math.Hypot(rhobar, opt.Damp)
		cs1 := rhobar / rhobar1
		sn1 := opt.Damp / rhobar1
		psi := sn1 * phibar
		phibar = cs1 * phibar

		// Eliminate the subdiagonal element of the lower bidiagonal matrix.
		rho := math.Hypot(rhobar1, beta)
		cs := rhobar1 / rho
		sn := beta / rho
		theta := sn * alpha
		rhobar = -cs * alpha
		phi := cs * phibar
		phibar = sn * phibar
		tau := sn * phi

		floats.AddScaled(x, phi/rho, w)
		floats.AddScaledTo(w, v, -theta/rho, w)

		res2 += psi * psi
		rnorm := math.Sqrt(phibar*phibar + res2)
		arnorm := alpha * math.Abs(tau)
		xnorm := floats.Norm(x, 2)
		res.ResidualNorm = rnorm
		res.NormalResidualNorm = arnorm

		test1 := rnorm / bnorm
		rtol := opt.BTol + opt.ATol*anorm*xnorm/bnorm
		if test1 <= rtol {
			res.Stop = StopConsistent
			return res, nil
		}
		if anorm*rnorm > 0 && arnorm/(anorm*rnorm) <= opt.ATol {
			res.Stop = StopLeastSquares
			return res, nil
		}
		if arnorm == 0 {
			res.Stop = StopLeastSquares
			return res, nil
		}
	}
	res.Stop = StopIterationLimit
	return res, nil
}
