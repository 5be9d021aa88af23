// Package camera holds the 3D camera and its orbit controls.
//
// Controls keeps the camera on a sphere around Target. Pointer, wheel and
// key input only accumulate pending rotation, pan and zoom; Update applies
// them once per frame, optionally damped, after clamping azimuth, polar
// angle, distance and zoom to their configured ranges.
//
// Input arrives either by calling the handler methods directly or by
// subscribing to an InputSource such as Hub. Everything runs on the
// caller's goroutine; Controls is not safe for concurrent use.
package camera
