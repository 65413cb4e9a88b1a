package beadpattern

import "image"

// Mirror flips img left to right in place.
func Mirror(img *image.NRGBA) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for i, j := 0, w-1; i < j; i, j = i+1, j-1 {
			a := row[i*4 : i*4+4 : i*4+4]
			b := row[j*4 : j*4+4 : j*4+4]
			a[0], a[1], a[2], a[3], b[0], b[1], b[2], b[3] = b[0], b[1], b[2], b[3], a[0], a[1], a[2], a[3]
		}
	}
}

// Mirror flips the pattern's grid and cell indices left to right.
func (p *Pattern) Mirror() {
	Mirror(p.Grid)
	for y := range p.Height {
		row := p.Cells[y*p.Width : (y+1)*p.Width]
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
}
