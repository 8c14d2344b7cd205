// Package bedrock implements the provider interfaces for AWS Bedrock via
// the Converse and ConverseStream APIs of the bedrockruntime SDK client.
//
// Authentication uses static AWS credentials (access key, secret key and an
// optional session token) resolved at construction; no call leaves the
// process until a completion method runs. Bedrock's Converse API accepts a
// single candidate only, so requests with n > 1 are rejected as an
// unsupported capability. Guided JSON output is enforced by appending schema
// instructions to the system content; callers validate the returned
// document against the schema.
package bedrock
