// Package parse converts MOL, SDF, XYZ and CUBE text into molecule models.
//
// The format parsers are pure functions over the file text. Fields that
// fail numeric conversion become NaN (coordinates) or 0 (counts and
// indices) rather than errors; a record that declares more atom or bond
// lines than it contains fails with molecule.ErrMalformedStructure.
//
// [Registry] dispatches on file extension (.mol, .sdf, .xyz, .cub, .cube,
// optionally followed by .gz or .zst) and [LoadFiles] parses a batch of
// files concurrently, keeping each file's failure local to it.
package parse
