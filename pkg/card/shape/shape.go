// Package shape builds the outline of the card background: a rectangle whose
// corners can each be rounded outward, rounded inward, or left square.
package shape

import (
	"strconv"
	"strings"
)

// Corners holds one flag per corner.
type Corners struct {
	TopLeft     bool `json:"topLeft"`
	TopRight    bool `json:"topRight"`
	BottomLeft  bool `json:"bottomLeft"`
	BottomRight bool `json:"bottomRight"`
}

// Any reports whether at least one flag is set.
func (c Corners) Any() bool {
	return c.TopLeft || c.TopRight || c.BottomLeft || c.BottomRight
}

// Command is one path segment. Op is an SVG path command letter; all
// commands but the initial M are relative.
type Command struct {
	Op   byte
	Args []float64
}

// Path is a sequence of commands.
type Path []Command

// RoundedRect returns the outline of the w×h rectangle at (x, y).
//
// The path starts at (x+r, y) and runs clockwise. A rounded corner is an arc
// of radius r whose sweep flag is 0 when the corner is inward and 1
// otherwise; a square corner is two perpendicular segments of length r.
func RoundedRect(x, y, w, h, r float64, rounded, inward Corners) Path {
	p := Path{
		{'M', []float64{x + r, y}},
		{'h', []float64{w - 2*r}},
	}
	p = p.corner(rounded.TopRight, inward.TopRight, r, r, 'h', 'v')
	p = append(p, Command{'v', []float64{h - 2*r}})
	p = p.corner(rounded.BottomRight, inward.BottomRight, -r, r, 'v', 'h')
	p = append(p, Command{'h', []float64{2*r - w}})
	p = p.corner(rounded.BottomLeft, inward.BottomLeft, -r, -r, 'h', 'v')
	p = append(p, Command{'v', []float64{2*r - h}})
	p = p.corner(rounded.TopLeft, inward.TopLeft, r, -r, 'v', 'h')
	return append(p, Command{'z', nil})
}

// corner appends either an arc to (dx, dy) or the square equivalent: a
// segment along first followed by a segment along second.
func (p Path) corner(round, in bool, dx, dy float64, first, second byte) Path {
	if round {
		sweep := 1.0
		if in {
			sweep = 0
		}
		r := dx
		if r < 0 {
			r = -r
		}
		return append(p, Command{'a', []float64{r, r, 0, 0, sweep, dx, dy}})
	}
	pick := func(op byte) float64 {
		if op == 'h' {
			return dx
		}
		return dy
	}
	return append(p,
		Command{first, []float64{pick(first)}},
		Command{second, []float64{pick(second)}},
	)
}

// String renders the path as an SVG d attribute.
func (p Path) String() string {
	var b strings.Builder
	for _, c := range p {
		b.WriteByte(c.Op)
		switch c.Op {
		case 'a':
			// rx,ry rotation large-arc sweep dx,dy
			b.WriteString(num(c.Args[0]) + "," + num(c.Args[1]) + " ")
			b.WriteString(num(c.Args[2]) + " " + num(c.Args[3]) + " " + num(c.Args[4]) + " ")
			b.WriteString(num(c.Args[5]) + "," + num(c.Args[6]))
		default:
			for i, a := range c.Args {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(num(a))
			}
		}
	}
	return b.String()
}

// Start returns the absolute start point of the path.
func (p Path) Start() (x, y float64) {
	if len(p) == 0 || p[0].Op != 'M' {
		return 0, 0
	}
	return p[0].Args[0], p[0].Args[1]
}

// Displacement replays the relative commands and returns the net offset from
// the start point. A closed outline has zero displacement.
func (p Path) Displacement() (dx, dy float64) {
	for _, c := range p {
		switch c.Op {
		case 'h':
			dx += c.Args[0]
		case 'v':
			dy += c.Args[0]
		case 'a':
			dx += c.Args[5]
			dy += c.Args[6]
		}
	}
	return dx, dy
}

// Closed reports whether the path ends with z.
func (p Path) Closed() bool {
	return len(p) > 0 && p[len(p)-1].Op == 'z'
}

func num(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
