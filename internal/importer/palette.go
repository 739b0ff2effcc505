package importer

import "math/rand/v2"

// projectPalette holds the colors assigned to projects created by an
// import. Colors are presentational only and never affect matching.
var projectPalette = []string{
	"#F44336", "#E91E63", "#9C27B0", "#673AB7",
	"#3F51B5", "#2196F3", "#03A9F4", "#00BCD4",
	"#009688", "#4CAF50", "#8BC34A", "#CDDC39",
	"#FF9800", "#FF5722", "#795548", "#607D8B",
}

// pickColor returns a uniform-random palette color.
func pickColor() string {
	return projectPalette[rand.IntN(len(projectPalette))]
}
