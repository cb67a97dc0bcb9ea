// Package viz renders computed spectra in the terminal.
//
//   - [Graph]: asciigraph line plot of one detector's spectrum
//   - [Canvas]: Braille pixel canvas backing the theta-omega
//     intensity map
//   - [SpectralMap]: angular/spectral intensity distribution on a
//     Canvas
//   - [Live]: Bubble Tea view following a sweep as traces accumulate
package viz
