package ibfv

import "image/color"

// TexVertex is a vertex in window coordinates with its texture coordinate
type TexVertex struct {
	X, Y float64
	U, V float64
}

type TexQuad [4]TexVertex

// Renderer is the drawing backend the advector runs against. Texture lookups
// wrap in both directions and filter linearly.
type Renderer interface {
	// Size is the framebuffer size in pixels
	Size() (width, height int)
	Clear(c color.RGBA)
	// DrawTextured fills each quad with texels replacing the framebuffer
	DrawTextured(tex *PixelBuffer, quads []TexQuad)
	// BlendTile covers the framebuffer with the tile repeated tmax times
	// across each axis, blended by the tile alpha
	BlendTile(tile *NoiseTile, tmax float64)
	// ReadPixels copies the framebuffer into dst, which has the framebuffer size
	ReadPixels(dst *PixelBuffer)
}
