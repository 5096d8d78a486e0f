// Package viz renders orbits in the terminal: a braille dot-matrix
// canvas plus a bubbletea model that steps a system live and draws
// the XY plane with per-body trails and an energy sparkline.
package viz
