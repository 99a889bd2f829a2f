package ibfv

// PixelBuffer is an RGB raster with row 0 at the bottom of the viewport,
// matching window coordinates from the projection
type PixelBuffer struct {
	Width, Height int
	Pix           []uint8
}

// NewPixelBuffer allocates a buffer filled with white
func NewPixelBuffer(width, height int) (pb *PixelBuffer) {
	pb = &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, 3*width*height),
	}
	pb.Fill(255, 255, 255)
	return
}

func (pb *PixelBuffer) Fill(r, g, b uint8) {
	for i := 0; i < len(pb.Pix); i += 3 {
		pb.Pix[i], pb.Pix[i+1], pb.Pix[i+2] = r, g, b
	}
}

func (pb *PixelBuffer) RGB(i, j int) (r, g, b uint8) {
	ind := 3 * (j*pb.Width + i)
	return pb.Pix[ind], pb.Pix[ind+1], pb.Pix[ind+2]
}

func (pb *PixelBuffer) SetRGB(i, j int, r, g, b uint8) {
	ind := 3 * (j*pb.Width + i)
	pb.Pix[ind], pb.Pix[ind+1], pb.Pix[ind+2] = r, g, b
}

func (pb *PixelBuffer) SameSize(width, height int) bool {
	return pb != nil && pb.Width == width && pb.Height == height
}
