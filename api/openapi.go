// Package api carries the OpenAPI description of the loyalty HTTP API.
package api

import _ "embed"

// OpenAPISpec is the OpenAPI 3.1 document for the API, embedded at build
// time and served at /openapi.json.
//
//go:embed openapi.yaml
var OpenAPISpec []byte
