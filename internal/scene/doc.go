// Package scene turns molecules into renderable primitives and tracks the
// edits, selection and camera focus the viewer applies to them.
//
// Composition is pure: a Sphere, Cylinder or Label is derived from the
// molecule and its Style every time, so an edit never patches geometry in
// place.
package scene
