// Package lifecycle runs the recipe's build lifecycle.
//
// Each recipe.Hook has exactly one handler on Lifecycle. A driver either
// calls Run for one hook at a time, or hands the recipe's step list to
// Execute, which checks the ordering constraints and runs the steps in
// order, stopping at the first failure. Hooks share state only through
// the Invocation they are given; the resolved version in particular is
// written once by resolve-version and read by compute-package-identity and
// declare-package-info.
//
// Failures come back as *errors.StructuredError whose code tells a missing
// version field, an unreadable declaration file, a failed build step and a
// failed file copy apart.
package lifecycle
