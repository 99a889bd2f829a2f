package ibfv

import (
	"image"
	"math/rand"
	"time"
)

const (
	DefaultPatterns = 32
	DefaultTileSize = 64
	NoiseAlpha      = uint8(30) // 0.12 of full opacity, truncated
	luminanceCut    = 127
	phaseRange      = 256
	luminancePeriod = 255
)

// NoiseTile is a square RGBA texture, rows stored bottom to top like the
// pixel buffer
type NoiseTile struct {
	Size int
	Pix  []uint8
}

func (nt *NoiseTile) RGBA(i, j int) (r, g, b, a uint8) {
	ind := 4 * (j*nt.Size + i)
	return nt.Pix[ind], nt.Pix[ind+1], nt.Pix[ind+2], nt.Pix[ind+3]
}

// Image returns the tile as an image with row 0 at the top
func (nt *NoiseTile) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, nt.Size, nt.Size))
	for j := 0; j < nt.Size; j++ {
		src := nt.Pix[4*j*nt.Size : 4*(j+1)*nt.Size]
		dst := img.Pix[(nt.Size-1-j)*img.Stride:]
		copy(dst, src)
	}
	return img
}

// NoisePatternSet is the cyclic tile sequence blended in, one tile per frame
type NoisePatternSet struct {
	Tiles []NoiseTile
}

func (ns NoisePatternSet) Len() int { return len(ns.Tiles) }

func (ns NoisePatternSet) Tile(frame int) *NoiseTile {
	return &ns.Tiles[frame%len(ns.Tiles)]
}

// NoiseGenerator builds the tile set from one random phase per texel. Rand
// is the only source of randomness, a seeded source makes the output
// reproducible.
type NoiseGenerator struct {
	Patterns int
	Size     int
	Rand     *rand.Rand
}

func NewNoiseGenerator(rng *rand.Rand) *NoiseGenerator {
	return &NoiseGenerator{
		Patterns: DefaultPatterns,
		Size:     DefaultTileSize,
		Rand:     rng,
	}
}

func (ng *NoiseGenerator) Generate() (ns NoisePatternSet) {
	var (
		rng   = ng.Rand
		n     = ng.Size
		phase = make([]int, n*n)
		lut   [phaseRange]uint8
	)
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for i := range lut {
		if i >= luminanceCut {
			lut[i] = 255
		}
	}
	for i := range phase {
		phase[i] = rng.Intn(phaseRange)
	}
	ns.Tiles = make([]NoiseTile, ng.Patterns)
	for k := 0; k < ng.Patterns; k++ {
		t := k * phaseRange / ng.Patterns
		tile := NoiseTile{Size: n, Pix: make([]uint8, 4*n*n)}
		for i, ph := range phase {
			lum := lut[(t+ph)%luminancePeriod]
			tile.Pix[4*i+0] = lum
			tile.Pix[4*i+1] = lum
			tile.Pix[4*i+2] = lum
			tile.Pix[4*i+3] = NoiseAlpha
		}
		ns.Tiles[k] = tile
	}
	return
}
