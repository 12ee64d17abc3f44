//go:build tools

package main

// Herramientas de desarrollo versionadas con el módulo.
// swag genera docs/swagger.json a partir de las anotaciones de los handlers.
import (
	_ "github.com/swaggo/swag/cmd/swag"
)
