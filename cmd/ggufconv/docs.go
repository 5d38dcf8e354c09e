package main

// General API documentation for swaggo. Regenerate the served document with
// `swag init -g cmd/ggufconv/docs.go -o internal/httpapi/docs`.
//
// @title           ggufconv API
// @version         1.0
// @description     HTTP API for planning and running GGUF model conversions.
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
