package biquad

import "math/cmplx"

// Poles returns the z-plane poles of the section denominator:
//
//	1 + A1*z^-1 + A2*z^-2 = 0
func (c *Coefficients) Poles() [2]complex128 {
	return quadraticRoots(1, c.A1, c.A2)
}

// IsStable reports whether both poles lie strictly inside the unit circle.
func (c *Coefficients) IsStable() bool {
	p := c.Poles()

	return cmplx.Abs(p[0]) < 1 && cmplx.Abs(p[1]) < 1
}

// IsStable reports whether every section of the cascade is stable.
func (c *Chain) IsStable() bool {
	for i := range c.sections {
		if !c.sections[i].IsStable() {
			return false
		}
	}

	return true
}

// quadraticRoots returns the roots of a*x^2 + b*x + c, treating the
// degenerate linear and constant cases as zero roots.
func quadraticRoots(a, b, c float64) [2]complex128 {
	if a == 0 {
		if b == 0 {
			return [2]complex128{}
		}

		return [2]complex128{complex(-c/b, 0), 0}
	}

	d := cmplx.Sqrt(complex(b*b-4*a*c, 0))
	inv := complex(1/(2*a), 0)

	return [2]complex128{
		(-complex(b, 0) + d) * inv,
		(-complex(b, 0) - d) * inv,
	}
}
