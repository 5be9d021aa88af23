// Package viz is the terminal front end of the molecule viewer.
//
// A bubbletea program draws viewer frames on a braille [Canvas] with one
// colour per cell. Mouse and arrow keys drive the orbit camera through
// the viewer's input hub; alt+click focuses the atom under the pointer.
//
// # Key Bindings
//
//	+ -     zoom
//	tab     next molecule
//	v x     hide / delete molecule
//	l       toggle labels
//	d       toggle density cloud
//	[ ] { } positive / negative density threshold
//	f r s   frame all / reset view / save view
//	a       auto-rotate
//	t       cycle themes
//	?       help
package viz
