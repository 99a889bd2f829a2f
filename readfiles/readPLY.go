package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/types"
)

var ErrBadPLY = errors.New("malformed ply file")

type plyElement struct {
	name  string
	count int
	props []string
}

func (pe *plyElement) index(names ...string) int {
	for i, p := range pe.props {
		for _, n := range names {
			if p == n {
				return i
			}
		}
	}
	return -1
}

// ReadPLY loads an ASCII PLY quad mesh carrying a vector field and a scalar
// per vertex, then validates it
func ReadPLY(filename string, verbose bool) (qm *geometry2D.QuadMesh, err error) {
	var file *os.File
	if verbose {
		fmt.Printf("Reading PLY file named: %s\n", filename)
	}
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	if qm, err = ParsePLY(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if verbose {
		fmt.Printf("Read %d vertices, %d quads, bounds %s\n",
			len(qm.Verts), len(qm.Quads), qm.BBox)
	}
	return
}

// ParsePLY reads the header, the vertex element and the face element. The
// vertex element needs x and y; z, vx, vy and s (or scalar) default to zero
// and any other property, vz included, is ignored. Faces must list exactly
// four vertex indices. Other elements are skipped.
func ParsePLY(r io.Reader) (qm *geometry2D.QuadMesh, err error) {
	var (
		scanner  = bufio.NewScanner(r)
		lineNum  int
		elements []*plyElement
		verts    []types.Vertex
		quads    []types.Quad
	)
	next := func() (fields []string, ok bool) {
		for scanner.Scan() {
			lineNum++
			if fields = strings.Fields(scanner.Text()); len(fields) > 0 {
				return fields, true
			}
		}
		return nil, false
	}
	bad := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: line %d: %s", ErrBadPLY, lineNum, fmt.Sprintf(format, args...))
	}
	if fields, ok := next(); !ok || fields[0] != "ply" {
		return nil, bad("missing ply magic")
	}
	for header := true; header; {
		fields, ok := next()
		if !ok {
			return nil, bad("unexpected EOF in header")
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 || fields[1] != "ascii" {
				return nil, bad("only ascii format is supported")
			}
		case "comment", "obj_info":
		case "element":
			if len(fields) != 3 {
				return nil, bad("invalid element line")
			}
			count, cErr := strconv.Atoi(fields[2])
			if cErr != nil || count < 0 {
				return nil, bad("invalid element count %q", fields[2])
			}
			elements = append(elements, &plyElement{name: fields[1], count: count})
		case "property":
			if len(elements) == 0 {
				return nil, bad("property before element")
			}
			el := elements[len(elements)-1]
			el.props = append(el.props, fields[len(fields)-1])
		case "end_header":
			header = false
		default:
			return nil, bad("unknown header keyword %q", fields[0])
		}
	}
	for _, el := range elements {
		switch el.name {
		case "vertex":
			if verts, err = readPLYVertices(el, next, bad); err != nil {
				return
			}
		case "face":
			if quads, err = readPLYFaces(el, next, bad); err != nil {
				return
			}
		default:
			for i := 0; i < el.count; i++ {
				if _, ok := next(); !ok {
					return nil, bad("unexpected EOF in %s", el.name)
				}
			}
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}
	return geometry2D.NewQuadMesh(verts, quads)
}

func readPLYVertices(el *plyElement, next func() ([]string, bool),
	bad func(string, ...interface{}) error) (verts []types.Vertex, err error) {
	var (
		ix, iy = el.index("x"), el.index("y")
		iz     = el.index("z")
		ivx    = el.index("vx")
		ivy    = el.index("vy")
		is     = el.index("s", "scalar")
	)
	if ix < 0 || iy < 0 {
		return nil, bad("vertex element needs x and y")
	}
	verts = make([]types.Vertex, el.count)
	for i := range verts {
		fields, ok := next()
		if !ok {
			return nil, bad("unexpected EOF at vertex %d", i)
		}
		if len(fields) < len(el.props) {
			return nil, bad("vertex %d has %d values, want %d", i, len(fields), len(el.props))
		}
		vals := make([]float64, len(el.props))
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
				return nil, bad("vertex %d: %v", i, err)
			}
		}
		get := func(ind int) float64 {
			if ind < 0 {
				return 0
			}
			return vals[ind]
		}
		v := &verts[i]
		v.Pos.X, v.Pos.Y, v.Pos.Z = get(ix), get(iy), get(iz)
		v.Vector.X, v.Vector.Y = get(ivx), get(ivy)
		v.Scalar = get(is)
	}
	return
}

func readPLYFaces(el *plyElement, next func() ([]string, bool),
	bad func(string, ...interface{}) error) (quads []types.Quad, err error) {
	if el.index("vertex_indices", "vertex_index") < 0 {
		return nil, bad("face element needs vertex_indices")
	}
	quads = make([]types.Quad, el.count)
	for i := range quads {
		fields, ok := next()
		if !ok {
			return nil, bad("unexpected EOF at face %d", i)
		}
		if fields[0] != "4" || len(fields) < 5 {
			return nil, bad("face %d is not a quad", i)
		}
		for j := 0; j < 4; j++ {
			if quads[i].Verts[j], err = strconv.Atoi(fields[j+1]); err != nil {
				return nil, bad("face %d: %v", i, err)
			}
		}
	}
	return
}

// WritePLY writes the mesh in the layout ReadPLY expects
func WritePLY(w io.Writer, qm *geometry2D.QuadMesh) (err error) {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ply\nformat ascii 1.0\n")
	fmt.Fprintf(bw, "element vertex %d\n", len(qm.Verts))
	for _, p := range []string{"x", "y", "z", "vx", "vy", "vz", "s"} {
		fmt.Fprintf(bw, "property float %s\n", p)
	}
	fmt.Fprintf(bw, "element face %d\n", len(qm.Quads))
	fmt.Fprintf(bw, "property list uchar int vertex_indices\nend_header\n")
	for _, v := range qm.Verts {
		fmt.Fprintf(bw, "%s %s %s %s %s 0 %s\n",
			ff(v.Pos.X), ff(v.Pos.Y), ff(v.Pos.Z), ff(v.Vector.X), ff(v.Vector.Y), ff(v.Scalar))
	}
	for _, q := range qm.Quads {
		fmt.Fprintf(bw, "4 %d %d %d %d\n", q.Verts[0], q.Verts[1], q.Verts[2], q.Verts[3])
	}
	return bw.Flush()
}

func ff(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
