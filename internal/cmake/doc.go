// Package cmake implements the external collaborators of the recipe
// lifecycle on top of CMake: the build driver (configure, build, test,
// install), the toolchain file generator, and the dependency-graph
// generator that writes find_package config files for each dependency.
package cmake
