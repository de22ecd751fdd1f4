// Package validate holds the validation metadata model consumed by the rule
// engine: typed field constraints, the Validator handle that exposes them,
// include composition between validators, and the registry that maps Go model
// types to their validators. The package stores and describes constraints; it
// never evaluates them against instance data.
package validate
