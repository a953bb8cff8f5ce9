package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseWKT parses POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON,
// MULTIPOLYGON and GEOMETRYCOLLECTION text into a node.
func ParseWKT(wkt string) (*Node, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	p := &wktParser{s: s}
	n, err := p.geometry()
	if err != nil {
		return nil, err
	}
	p.space()
	if p.pos < len(p.s) {
		return nil, fmt.Errorf("wkt: unexpected %q at %d", p.s[p.pos:], p.pos)
	}
	if n.Empty() {
		return nil, ErrNoGeometry
	}
	return n, nil
}

type wktParser struct {
	s   string
	pos int
}

func (p *wktParser) space() {
	for p.pos < len(p.s) && strings.ContainsRune(" \t\r\n", rune(p.s[p.pos])) {
		p.pos++
	}
}

func (p *wktParser) peek() byte {
	p.space()
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *wktParser) expect(c byte) error {
	if p.peek() != c {
		return fmt.Errorf("wkt: expected %q at %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *wktParser) word() string {
	p.space()
	start := p.pos
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			break
		}
		p.pos++
	}
	return strings.ToUpper(p.s[start:p.pos])
}

// tuple reads "x y [z [m]]" and keeps x and y.
func (p *wktParser) tuple() ([2]float64, error) {
	p.space()
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] != ',' && p.s[p.pos] != ')' {
		p.pos++
	}
	parts := strings.Fields(p.s[start:p.pos])
	if len(parts) < 2 {
		return [2]float64{}, fmt.Errorf("wkt: bad coordinate %q", p.s[start:p.pos])
	}
	x, err1 := strconv.ParseFloat(parts[0], 64)
	y, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return [2]float64{}, fmt.Errorf("wkt: bad coordinate %q", p.s[start:p.pos])
	}
	return [2]float64{x, y}, nil
}

// list parses "(" item {"," item} ")".
func (p *wktParser) list(item func() error) error {
	if err := p.expect('('); err != nil {
		return err
	}
	for {
		if err := item(); err != nil {
			return err
		}
		if p.peek() == ',' {
			p.pos++
			continue
		}
		return p.expect(')')
	}
}

func (p *wktParser) coords() ([][2]float64, error) {
	var out [][2]float64
	err := p.list(func() error {
		// MULTIPOINT allows both "(1 2, 3 4)" and "((1 2), (3 4))".
		if p.peek() == '(' {
			inner, err := p.coords()
			out = append(out, inner...)
			return err
		}
		t, err := p.tuple()
		out = append(out, t)
		return err
	})
	return out, err
}

func (p *wktParser) rings() ([][][2]float64, error) {
	var out [][][2]float64
	err := p.list(func() error {
		r, err := p.coords()
		out = append(out, r)
		return err
	})
	return out, err
}

func (p *wktParser) geometry() (*Node, error) {
	tag := p.word()
	if tag == "" {
		return nil, fmt.Errorf("wkt: expected geometry type at %d", p.pos)
	}
	empty := func(k Kind) (*Node, bool) {
		save := p.pos
		if p.word() == "EMPTY" {
			return &Node{Kind: k}, true
		}
		p.pos = save
		return nil, false
	}
	switch tag {
	case "POINT", "MULTIPOINT":
		if n, ok := empty(KindPoint); ok {
			return n, nil
		}
		pts, err := p.coords()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindPoint, Coordinates: pts}, nil
	case "LINESTRING":
		if n, ok := empty(KindLine); ok {
			return n, nil
		}
		ls, err := p.coords()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindLine, Paths: [][][2]float64{ls}}, nil
	case "MULTILINESTRING":
		if n, ok := empty(KindLine); ok {
			return n, nil
		}
		ls, err := p.rings()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindLine, Paths: ls}, nil
	case "POLYGON":
		if n, ok := empty(KindPolygon); ok {
			return n, nil
		}
		rings, err := p.rings()
		if err != nil {
			return nil, err
		}
		return &Node{Kind: KindPolygon, Polygons: []Polygon{{Outer: rings[0], Holes: rings[1:]}}}, nil
	case "MULTIPOLYGON":
		if n, ok := empty(KindPolygon); ok {
			return n, nil
		}
		n := &Node{Kind: KindPolygon}
		err := p.list(func() error {
			rings, err := p.rings()
			if err == nil {
				n.Polygons = append(n.Polygons, Polygon{Outer: rings[0], Holes: rings[1:]})
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	case "GEOMETRYCOLLECTION":
		if n, ok := empty(KindCollection); ok {
			return n, nil
		}
		n := &Node{Kind: KindCollection}
		err := p.list(func() error {
			g, err := p.geometry()
			if err == nil {
				n.Geometries = append(n.Geometries, g)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, fmt.Errorf("unsupported wkt type %q", tag)
}
