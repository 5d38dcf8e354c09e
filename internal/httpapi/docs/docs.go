// Package docs holds the OpenAPI document served under /swagger/.
// Regenerate with `swag init -g cmd/ggufconv/docs.go -o internal/httpapi/docs`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {"name": "MIT", "url": "https://opensource.org/licenses/MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/healthz": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["system"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "ok", "schema": {"type": "string"}}}
            }
        },
        "/readyz": {
            "get": {
                "produces": ["text/plain"],
                "tags": ["system"],
                "summary": "Readiness probe; 503 while a conversion run is active",
                "responses": {
                    "200": {"description": "ready", "schema": {"type": "string"}},
                    "503": {"description": "busy", "schema": {"type": "string"}}
                }
            }
        },
        "/formats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["conversion"],
                "summary": "List known quantization formats",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.FormatsResponse"}}}
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "tags": ["conversion"],
                "summary": "Active or most recent conversion run",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}}
            }
        },
        "/plan": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["conversion"],
                "summary": "Build a conversion plan without running it",
                "parameters": [
                    {"description": "Inputs and formats", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PlanResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/convert": {
            "post": {
                "description": "Each line is a ProgressEvent. The last line has kind \"done\" or \"failed\".",
                "consumes": ["application/json"],
                "produces": ["application/x-ndjson"],
                "tags": ["conversion"],
                "summary": "Run a conversion and stream progress as NDJSON",
                "parameters": [
                    {"description": "Inputs and formats", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PlanRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ProgressEvent"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "types.PlanRequest": {
            "type": "object",
            "properties": {
                "inputs": {"type": "array", "items": {"type": "string"}, "example": ["/models/flux.safetensors"]},
                "formats": {"type": "array", "items": {"type": "string"}, "example": ["Q4_K_M", "Q8_0"]},
                "output_dir": {"type": "string", "example": "/models/out"},
                "keep_intermediate": {"type": "boolean", "example": false}
            }
        },
        "types.ConversionTarget": {
            "type": "object",
            "properties": {
                "format": {"type": "string", "example": "Q4_K_M"},
                "output": {"type": "string", "example": "/models/flux-Q4_K_M.gguf"},
                "exists": {"type": "boolean", "example": false}
            }
        },
        "types.ModelPlanEntry": {
            "type": "object",
            "properties": {
                "input": {"type": "string", "example": "/models/flux.safetensors"},
                "f16": {"type": "string", "example": "/models/flux-F16.gguf"},
                "outputs": {"type": "array", "items": {"$ref": "#/definitions/types.ConversionTarget"}}
            }
        },
        "types.ConversionPlan": {
            "type": "object",
            "properties": {
                "entries": {"type": "array", "items": {"$ref": "#/definitions/types.ModelPlanEntry"}}
            }
        },
        "types.PlanResponse": {
            "type": "object",
            "properties": {
                "plan": {"$ref": "#/definitions/types.ConversionPlan"},
                "targets": {"type": "integer", "example": 4},
                "pending": {"type": "integer", "example": 3}
            }
        },
        "types.FormatGroup": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Q4"},
                "formats": {"type": "array", "items": {"type": "string"}, "example": ["Q4_0", "Q4_K_M"]}
            }
        },
        "types.FormatsResponse": {
            "type": "object",
            "properties": {
                "groups": {"type": "array", "items": {"$ref": "#/definitions/types.FormatGroup"}}
            }
        },
        "types.ProgressEvent": {
            "type": "object",
            "properties": {
                "kind": {"type": "string", "example": "completed"},
                "message": {"type": "string", "example": "Completed Q4_K_M quantization for model 1/2: flux.safetensors"},
                "progress": {"type": "number", "example": 50},
                "current": {"type": "integer", "example": 1},
                "total": {"type": "integer", "example": 2},
                "input": {"type": "string"},
                "format": {"type": "string"}
            }
        },
        "types.RunStatus": {
            "type": "object",
            "properties": {
                "active": {"type": "boolean", "example": true},
                "last": {"$ref": "#/definitions/types.ProgressEvent"},
                "started_unix": {"type": "integer", "example": 1700000000},
                "finished_unix": {"type": "integer", "example": 1700000100},
                "error": {"type": "string"}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "run": {"$ref": "#/definitions/types.RunStatus"},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        },
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "invalid JSON body"},
                "code": {"type": "integer", "example": 400}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "ggufconv API",
	Description:      "HTTP API for planning and running GGUF model conversions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
