// Package jsonschema holds the JSON-Schema-shaped structure used for guided
// output. A [Schema] can be supplied directly by the caller (or built from a
// plain map via [FromMap]), generated from a Go type with [Generate], and
// enforced against a model's reply with [Validate].
package jsonschema
