// Package rules defines the transformation catalog that turns field level
// validation constraints into OpenAPI schema attributes. A Rule pairs a
// match predicate over a constraint with a mutation over an openapi3.Schema;
// the Catalog keeps rules ordered and unique by name so callers can replace
// built-ins or append their own.
package rules
