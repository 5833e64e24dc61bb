//go:build debug

package coreconf

// Development builds park the controller on a port that does not collide
// with a release install running on the same machine.
const templateExternalController = "127.0.0.1:9872"
