// Package harness executes scripted input scenarios against the engine.
//
// A scenario is a YAML document describing a fake world (windows, tabs,
// named hit-test points), a sequence of input events and virtual-time
// advances, and assertions over the resulting command trace and final
// tab layout. Scenarios run entirely on the deterministic test doubles
// from internal/testutil, so the same scenario always produces the same
// trace, which in turn makes golden-file comparison meaningful.
//
// The package is used two ways: from Go tests via Run/RunWithGolden, and
// from the command line via "tabfling scenario", which loads a scenario
// file and prints the trace.
package harness
