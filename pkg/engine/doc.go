// Package engine orchestrates schema annotation: it walks a schema's
// properties, asks the validate registry for field constraints, and applies
// every matching catalog rule, flattening included validators into the same
// schema. Failures never escape; each pass returns a diagnostics list and
// commits whatever mutations succeeded.
package engine
