package utils

const (
	NODETOL = 1.e-12
	// GRIDTOL is the relative tolerance for extents tiling a whole number of cells.
	GRIDTOL = 1.e-8
)
