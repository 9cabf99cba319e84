// Package swagger serves the API description and a browser UI for it.
package swagger

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed swagger-ui
var content embed.FS

const documentFile = "openapi.yaml"

// GetHandler serves index.html and openapi.yaml from the embedded tree.
func GetHandler() (http.Handler, error) {
	subFS, err := fs.Sub(content, "swagger-ui")
	if err != nil {
		return nil, err
	}

	return http.FileServer(http.FS(subFS)), nil
}

// Document returns the raw OpenAPI document.
func Document() ([]byte, error) {
	return content.ReadFile("swagger-ui/" + documentFile)
}
