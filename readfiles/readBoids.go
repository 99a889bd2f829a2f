package readfiles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/notargets/fieldview/geometry2D"
	"github.com/notargets/fieldview/types"
)

var ErrBadBoidsLog = errors.New("malformed boids log")

// Snapshot is the boid positions logged at one time
type Snapshot struct {
	Time   float64
	Coords []r2.Vec
}

func ReadBoidsLog(filename string, verbose bool) (snaps []Snapshot, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return
	}
	defer file.Close()
	if snaps, err = ParseBoidsLog(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if verbose {
		fmt.Printf("Read %d snapshots from %s\n", len(snaps), filename)
	}
	return
}

// ParseBoidsLog reads one snapshot per line in the form
//
//	time:x,y;x,y;...
//
// A blank last line is allowed, any other malformed line is an error naming
// the line.
func ParseBoidsLog(r io.Reader) (snaps []Snapshot, err error) {
	var (
		scanner = bufio.NewScanner(r)
		lines   []string
	)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err = scanner.Err(); err != nil {
		return
	}
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" && i == len(lines)-1 {
			break
		}
		var snap Snapshot
		if snap, err = parseSnapshot(line); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrBadBoidsLog, i, err)
		}
		snaps = append(snaps, snap)
	}
	return
}

func parseSnapshot(line string) (snap Snapshot, err error) {
	ind := strings.Index(line, ":")
	if ind < 0 {
		return snap, fmt.Errorf("no time stamp")
	}
	if snap.Time, err = strconv.ParseFloat(line[:ind], 64); err != nil {
		return
	}
	pairs := strings.Split(line[ind+1:], ";")
	for j, pair := range pairs {
		if pair == "" && j == len(pairs)-1 {
			break
		}
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return snap, fmt.Errorf("bad coordinate pair %q", pair)
		}
		var p r2.Vec
		if p.X, err = strconv.ParseFloat(xy[0], 64); err != nil {
			return
		}
		if p.Y, err = strconv.ParseFloat(xy[1], 64); err != nil {
			return
		}
		snap.Coords = append(snap.Coords, p)
	}
	return
}

// BoidsToMesh grids the flock between two snapshots. The mesh has cells+1
// vertices per side over the bounds of both snapshots. Each boid is binned
// to its nearest vertex by its position in prev; a vertex carries the boid
// count as its scalar and the mean displacement to next as its vector.
// Boids are matched by their order in the snapshot.
func BoidsToMesh(prev, next Snapshot, cells int) (qm *geometry2D.QuadMesh, err error) {
	var (
		n  = len(prev.Coords)
		nv = cells + 1
		bb = types.BoundingBox{
			XMin: math.Inf(1), XMax: math.Inf(-1),
			YMin: math.Inf(1), YMax: math.Inf(-1),
		}
	)
	if cells < 1 {
		return nil, fmt.Errorf("need at least one cell, have %d", cells)
	}
	if len(next.Coords) < n {
		n = len(next.Coords)
	}
	if n == 0 {
		return nil, geometry2D.ErrEmptyMesh
	}
	for _, s := range []Snapshot{prev, next} {
		for _, p := range s.Coords[:n] {
			bb.XMin, bb.XMax = math.Min(bb.XMin, p.X), math.Max(bb.XMax, p.X)
			bb.YMin, bb.YMax = math.Min(bb.YMin, p.Y), math.Max(bb.YMax, p.Y)
		}
	}
	if bb.Width() == 0 {
		bb.XMin, bb.XMax = bb.XMin-0.5, bb.XMax+0.5
	}
	if bb.Height() == 0 {
		bb.YMin, bb.YMax = bb.YMin-0.5, bb.YMax+0.5
	}
	var (
		dx, dy = bb.Width() / float64(cells), bb.Height() / float64(cells)
		count  = make([]float64, nv*nv)
		disp   = make([]r2.Vec, nv*nv)
		bin    = func(x, y float64) int {
			i := int(math.Round((x - bb.XMin) / dx))
			j := int(math.Round((y - bb.YMin) / dy))
			return clampIndex(j, nv)*nv + clampIndex(i, nv)
		}
	)
	for k := 0; k < n; k++ {
		p := prev.Coords[k]
		b := bin(p.X, p.Y)
		count[b]++
		disp[b] = r2.Add(disp[b], r2.Sub(next.Coords[k], p))
	}
	return geometry2D.NewGridMesh(nv, nv, bb, func(x, y float64) (vx, vy, s float64) {
		b := bin(x, y)
		if s = count[b]; s > 0 {
			vx, vy = disp[b].X/s, disp[b].Y/s
		}
		return
	})
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
