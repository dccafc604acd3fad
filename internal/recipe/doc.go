// Package recipe defines the package recipe model: descriptive metadata,
// dependencies, settings axes, and the build policy naming which lifecycle
// steps run and in what order.
//
// Recipes are loaded from YAML:
//
//	name: libccl
//	license: MIT
//	settings: [os, compiler, build_type, arch]
//	version_file: cmake/version.cmake
//	requires:
//	  - ref: xxhash/0.8.1
//	    options: {shared: false, build_utils: false}
//	steps: [configure-dependencies, resolve-version, generate-toolchain,
//	        generate-dependency-graph, build, compute-package-identity,
//	        declare-package-info]
//	build: {test: true, install: true}
//	package_id_mode: header-only
//	libs: [libccl]
//
// The revisions the recipe went through are available as built-in
// profiles, see Builtin.
package recipe
