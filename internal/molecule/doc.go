// Package molecule holds the format-independent structure model.
//
//   - [Molecule]: named, ordered atoms and bonds plus display flags
//   - [Grid]: volumetric scalar field read from CUBE files
//   - [ElementSymbol]: atomic number to symbol lookup
//
// Molecules are created by the parsers or by [Demo] and owned by the
// scene's molecule list. Renderers borrow them; only explicit edit
// operations mutate atoms or bonds.
package molecule
