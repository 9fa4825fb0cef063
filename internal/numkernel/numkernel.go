// Package numkernel implements the two numeric representations the engine
// can run under: arbitrary-precision rationals with a
// double-precision mirror, and log-domain (base-10) floats. Which one is
// active is chosen once at run start and threaded through every diagram
// operation via the Number interface — no component switches
// representation mid-run.
package numkernel

import (
	"math"
	"math/big"
)

// Number is the algebra the diagram adapter and evaluator compute over:
// +, x, max, and a log10 projection for reporting. Implementations must be
// immutable value types so ADD nodes can share them freely across caches.
type Number interface {
	Add(Number) Number
	Mul(Number) Number
	Max(Number) Number
	// Cmp returns -1, 0, or 1 as the receiver is less than, equal to, or
	// greater than other, without round-tripping through Log10 — in exact
	// rational mode this stays a precise big.Rat comparison, which Log10
	// equality cannot guarantee for two close-valued rationals.
	Cmp(Number) int
	Log10() float64
	// Float64 returns the value's native double approximation: the
	// big.Rat quotient in rational mode, or 10^Log10() in log mode.
	Float64() float64
	IsZero() bool
	String() string
}

// Mode selects which Number implementation a run uses.
type Mode int

const (
	// ModeRational uses exact big.Rat arithmetic (multiplePrecision=1) or
	// its double-precision mirror (multiplePrecision=0); both share the
	// same Add/Mul/Max semantics, only the stored representation differs.
	ModeRational Mode = iota
	// ModeLog represents numbers by their base-10 logarithm; Add becomes
	// logSumExp10, Mul becomes addition. Mutually exclusive with the
	// rational backend.
	ModeLog
)

// Zero returns the additive identity for mode.
func Zero(mode Mode, exact bool) Number {
	if mode == ModeLog {
		return LogNumber(math.Inf(-1))
	}
	return newRational(big.NewRat(0, 1), exact)
}

// One returns the multiplicative identity for mode.
func One(mode Mode, exact bool) Number {
	if mode == ModeLog {
		return LogNumber(0)
	}
	return newRational(big.NewRat(1, 1), exact)
}

// FromFloat64 lifts a non-negative weight (as read from the weight table)
// into the active mode's Number representation.
func FromFloat64(mode Mode, exact bool, f float64) Number {
	if mode == ModeLog {
		if f <= 0 {
			return LogNumber(math.Inf(-1))
		}
		return LogNumber(math.Log10(f))
	}
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		r = big.NewRat(0, 1)
	}
	return newRational(r, exact)
}

// --- Rational ---------------------------------------------------------

// Rational is the exact (big.Rat) or double-mirrored representation used
// in non-log mode. exact selects whether Add/Mul/Max keep the big.Rat
// precise or immediately collapse to its float64 mirror, matching
// multiplePrecision's two sub-modes.
type Rational struct {
	r     *big.Rat
	f     float64
	exact bool
}

func newRational(r *big.Rat, exact bool) Rational {
	f, _ := r.Float64()
	return Rational{r: r, f: f, exact: exact}
}

// NewRationalFromRat builds an exact Rational from a *big.Rat.
func NewRationalFromRat(r *big.Rat, exact bool) Rational {
	return newRational(new(big.Rat).Set(r), exact)
}

// NewRationalFromFloat builds a double-mirrored Rational directly.
func NewRationalFromFloat(f float64, exact bool) Rational {
	if exact {
		r := new(big.Rat).SetFloat64(f)
		if r == nil {
			r = big.NewRat(0, 1)
		}
		return newRational(r, exact)
	}
	return Rational{f: f, exact: false}
}

func (n Rational) Add(other Number) Number {
	o := other.(Rational)
	if n.exact {
		return newRational(new(big.Rat).Add(n.r, o.r), true)
	}
	return Rational{f: n.f + o.f}
}

func (n Rational) Mul(other Number) Number {
	o := other.(Rational)
	if n.exact {
		return newRational(new(big.Rat).Mul(n.r, o.r), true)
	}
	return Rational{f: n.f * o.f}
}

func (n Rational) Max(other Number) Number {
	o := other.(Rational)
	if n.exact {
		if n.r.Cmp(o.r) >= 0 {
			return n
		}
		return o
	}
	if n.f >= o.f {
		return n
	}
	return o
}

func (n Rational) Cmp(other Number) int {
	o := other.(Rational)
	if n.exact {
		return n.r.Cmp(o.r)
	}
	switch {
	case n.f < o.f:
		return -1
	case n.f > o.f:
		return 1
	default:
		return 0
	}
}

func (n Rational) Log10() float64 {
	if n.exact {
		f, _ := n.r.Float64()
		return math.Log10(f)
	}
	return math.Log10(n.f)
}

func (n Rational) IsZero() bool {
	if n.exact {
		return n.r.Sign() == 0
	}
	return n.f == 0
}

func (n Rational) Float64() float64 {
	if n.exact {
		f, _ := n.r.Float64()
		return f
	}
	return n.f
}

// Rat exposes the exact underlying big.Rat (only meaningful when exact).
func (n Rational) Rat() *big.Rat {
	if n.r == nil {
		return big.NewRat(0, 1)
	}
	return n.r
}

func (n Rational) String() string {
	if n.exact {
		return n.r.RatString()
	}
	return big.NewFloat(n.f).Text('g', -1)
}

// --- Log-domain ---------------------------------------------------------

// LogNumber stores log10(value); -Inf represents zero.
type LogNumber float64

func (n LogNumber) Add(other Number) Number {
	o := other.(LogNumber)
	return LogNumber(logSumExp10(float64(n), float64(o)))
}

func (n LogNumber) Mul(other Number) Number {
	o := other.(LogNumber)
	if math.IsInf(float64(n), -1) || math.IsInf(float64(o), -1) {
		return LogNumber(math.Inf(-1))
	}
	return LogNumber(float64(n) + float64(o))
}

func (n LogNumber) Max(other Number) Number {
	o := other.(LogNumber)
	if n >= o {
		return n
	}
	return o
}

func (n LogNumber) Cmp(other Number) int {
	o := other.(LogNumber)
	switch {
	case n < o:
		return -1
	case n > o:
		return 1
	default:
		return 0
	}
}

func (n LogNumber) Log10() float64 { return float64(n) }

func (n LogNumber) Float64() float64 {
	if math.IsInf(float64(n), -1) {
		return 0
	}
	return math.Pow(10, float64(n))
}

func (n LogNumber) IsZero() bool { return math.IsInf(float64(n), -1) }

func (n LogNumber) String() string {
	return big.NewFloat(float64(n)).Text('g', -1)
}

// logSumExp10 computes log10(10^a + 10^b) without overflow, the log-domain
// replacement for +.
func logSumExp10(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	hi, lo := a, b
	if b > a {
		hi, lo = b, a
	}
	return hi + math.Log10(1+math.Pow(10, lo-hi))
}
