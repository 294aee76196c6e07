package biquad

import (
	"math"
	"math/cmplx"
)

// Response computes the complex frequency response H(e^jw) of a biquad
// at the given frequency and sample rate (same units).
func (c *Coefficients) Response(freq, sampleRate float64) complex128 {
	w := 2 * math.Pi * freq / sampleRate
	ejw := cmplx.Exp(complex(0, -w))
	ej2w := cmplx.Exp(complex(0, -2*w))

	num := complex(c.B0, 0) + complex(c.B1, 0)*ejw + complex(c.B2, 0)*ej2w
	den := complex(1, 0) + complex(c.A1, 0)*ejw + complex(c.A2, 0)*ej2w

	return num / den
}

// MagnitudeSquared returns |H(f)|^2 using a closed-form expression.
func (c *Coefficients) MagnitudeSquared(freq, sampleRate float64) float64 {
	cw := 2 * math.Cos(2*math.Pi*freq/sampleRate)
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	num := (b0-b2)*(b0-b2) + b1*b1 + (b1*(b0+b2)+b0*b2*cw)*cw
	den := (1-a2)*(1-a2) + a1*a1 + (a1*(a2+1)+cw*a2)*cw

	return num / den
}

// MagnitudeDB returns 10*log10(|H(f)|^2).
func (c *Coefficients) MagnitudeDB(freq, sampleRate float64) float64 {
	return 10 * math.Log10(c.MagnitudeSquared(freq, sampleRate))
}

// Response computes the complex frequency response of the full cascade
// as the product of individual section responses.
func (c *Chain) Response(freq, sampleRate float64) complex128 {
	h := complex(1, 0)
	for i := range c.sections {
		h *= c.sections[i].Response(freq, sampleRate)
	}

	return h
}

// Magnitude returns |H(f)| of the full cascade.
func (c *Chain) Magnitude(freq, sampleRate float64) float64 {
	return cmplx.Abs(c.Response(freq, sampleRate))
}

// MagnitudeDB returns the cascaded magnitude response in dB.
func (c *Chain) MagnitudeDB(freq, sampleRate float64) float64 {
	return 20 * math.Log10(c.Magnitude(freq, sampleRate))
}
