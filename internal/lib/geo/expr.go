package geo

import (
	"fmt"
	"math"
	"strconv"
)

// Expr is a numeric expression that renders to SQL and evaluates in Go.
// The radius filter is written once as an Expr so the query text and the
// arithmetic checked in tests are the same formula.
type Expr interface {
	SQL() string
	Eval(vars map[string]float64) float64
}

// Var is a column or placeholder, e.g. "t.lat" or "$3". Eval looks it up by
// that name and yields NaN when it is unbound.
type Var string

func (v Var) SQL() string { return string(v) }

func (v Var) Eval(vars map[string]float64) float64 {
	x, ok := vars[string(v)]
	if !ok {
		return math.NaN()
	}
	return x
}

type num float64

func (n num) SQL() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }

func (n num) Eval(map[string]float64) float64 { return float64(n) }

type binary struct {
	op   byte
	l, r Expr
}

func (b binary) SQL() string {
	return fmt.Sprintf("(%s %c %s)", b.l.SQL(), b.op, b.r.SQL())
}

func (b binary) Eval(vars map[string]float64) float64 {
	l, r := b.l.Eval(vars), b.r.Eval(vars)
	switch b.op {
	case '+':
		return l + r
	case '-':
		return l - r
	case '*':
		return l * r
	}
	panic("geo: unknown operator " + string(b.op))
}

type call struct {
	name string
	fn   func(args ...float64) float64
	args []Expr
}

func (c call) SQL() string {
	s := c.name + "("
	for i, a := range c.args {
		if i > 0 {
			s += ", "
		}
		s += a.SQL()
	}
	return s + ")"
}

func (c call) Eval(vars map[string]float64) float64 {
	args := make([]float64, len(c.args))
	for i, a := range c.args {
		args[i] = a.Eval(vars)
	}
	return c.fn(args...)
}

func unary(name string, f func(float64) float64) func(Expr) Expr {
	return func(x Expr) Expr {
		return call{name: name, fn: func(a ...float64) float64 { return f(a[0]) }, args: []Expr{x}}
	}
}

var (
	radians = unary("radians", func(d float64) float64 { return d * math.Pi / 180 })
	sin     = unary("sin", math.Sin)
	cos     = unary("cos", math.Cos)
	acos    = unary("acos", math.Acos)
)

func least(a, b Expr) Expr {
	return call{name: "LEAST", fn: func(x ...float64) float64 { return math.Min(x[0], x[1]) }, args: []Expr{a, b}}
}

func greatest(a, b Expr) Expr {
	return call{name: "GREATEST", fn: func(x ...float64) float64 { return math.Max(x[0], x[1]) }, args: []Expr{a, b}}
}

func add(l, r Expr) Expr { return binary{op: '+', l: l, r: r} }
func sub(l, r Expr) Expr { return binary{op: '-', l: l, r: r} }
func mul(l, r Expr) Expr { return binary{op: '*', l: l, r: r} }

// CosineDistanceKm is the spherical law of cosines distance in kilometres
// between two points in degrees. The cosine is clamped to [-1, 1] so that
// rounding on equal or antipodal points never leaves the domain of acos.
func CosineDistanceKm(lat1, lon1, lat2, lon2 Expr) Expr {
	phi1, phi2 := radians(lat1), radians(lat2)

	cosine := add(
		mul(mul(cos(phi1), cos(phi2)), cos(sub(radians(lon2), radians(lon1)))),
		mul(sin(phi1), sin(phi2)),
	)

	return mul(num(EarthRadiusKm), acos(least(num(1), greatest(num(-1), cosine))))
}
