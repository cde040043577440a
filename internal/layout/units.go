package layout

// MMToPt converts millimeters to PostScript points (1 pt = 1/72 inch).
const MMToPt = 2.83465

// TargetPixels returns the pixel edge for a cell of the given physical size
// rendered at dpi. Source images are downsampled to this bound before being
// placed; they are never upsampled past their native resolution.
func TargetPixels(cellMM float64, dpi int) int {
	px := int(cellMM * MMToPt / 72.0 * float64(dpi))
	if px < 1 {
		return 1
	}
	return px
}
