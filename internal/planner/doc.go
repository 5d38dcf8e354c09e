// Package planner turns a list of source weight files and requested output
// formats into a types.ConversionPlan.
//
// Planning is pure path arithmetic plus one stat per target to record whether
// the output is already present. Nothing here runs a subprocess or writes to
// disk; see package executor for that.
//
//   - paths.go: intermediate/output path derivation and extension rules.
//   - planner.go: BuildPlan.
//   - formats.go: format normalization and the catalogue of known formats.
//   - validate.go: ValidateInputs, the pre-flight check hosts run before planning.
//   - discover.go: Discover, directory scan for source weight files.
//   - errors.go: input error types and IsInputError.
package planner
