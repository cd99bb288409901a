package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunValidate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		path := writeSpec(t, `
swagger: "2.0"
info:
  title: Minimal
  version: "1.0"
paths:
  /things:
    get:
      responses:
        "200":
          description: ok
          schema:
            type: array
            items:
              type: string
`)
		assert.NoError(t, runValidate(validateCmd, []string{path}))
	})

	t.Run("schema errors surface", func(t *testing.T) {
		path := writeSpec(t, `
swagger: "2.0"
info:
  title: Broken
  version: "1.0"
paths:
  /things:
    get:
      responses:
        "200":
          description: ok
          schema:
            $ref: "#/definitions/Thing"
definitions:
  Thing:
    type: object
    properties:
      name:
        type: string
        minLength: -1
`)
		err := runValidate(validateCmd, []string{path})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation failed")
	})

	t.Run("missing file", func(t *testing.T) {
		err := runValidate(validateCmd, []string{filepath.Join(t.TempDir(), "nope.yaml")})
		assert.Error(t, err)
	})
}
