// mockingj serves mock HTTP APIs generated from OpenAPI and Swagger
// specification documents.
package main

import "github.com/mockingj/mockingj/pkg/cli"

// Set via ldflags at build time.
var version = "dev"

func main() {
	cli.Execute(version)
}
