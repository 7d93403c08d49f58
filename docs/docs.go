// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support",
            "email": "support@example.com"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/covers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["covers"],
                "summary": "List generated covers",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/covers/generate": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["covers"],
                "summary": "Generate a phone cover",
                "parameters": [
                    {"type": "string", "description": "Model name of a registered template", "name": "cover_model", "in": "formData", "required": true},
                    {"type": "file", "description": "Photo to place on the cover", "name": "user_image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.GenerateCoverResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/covers/{name}/qr": {
            "get": {
                "produces": ["image/png"],
                "tags": ["covers"],
                "summary": "Share QR code for a generated cover",
                "parameters": [
                    {"type": "string", "description": "Output identifier of the cover", "name": "name", "in": "path", "required": true},
                    {"type": "integer", "description": "Edge length in pixels (default 256, max 1024)", "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/templates": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "List cover templates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TemplateListResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"Bearer": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Register a cover template",
                "parameters": [
                    {"type": "string", "description": "Phone model name", "name": "cover_model", "in": "formData", "required": true},
                    {"type": "file", "description": "Template image", "name": "cover_template", "in": "formData", "required": true},
                    {"type": "string", "description": "Key color range override (JSON)", "name": "key_color", "in": "formData"},
                    {"type": "number", "description": "Brightness override", "name": "brightness", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.TemplateMutationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/templates/{id}": {
            "put": {
                "security": [{"Bearer": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Update a cover template",
                "parameters": [
                    {"type": "string", "description": "Template ID (UUID)", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Phone model name", "name": "cover_model", "in": "formData"},
                    {"type": "file", "description": "Template image", "name": "cover_template", "in": "formData"},
                    {"type": "string", "description": "Key color range override (JSON)", "name": "key_color", "in": "formData"},
                    {"type": "number", "description": "Brightness override", "name": "brightness", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TemplateMutationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"Bearer": []}],
                "tags": ["templates"],
                "summary": "Delete a cover template",
                "parameters": [
                    {"type": "string", "description": "Template ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/templates/{id}/inspect": {
            "get": {
                "security": [{"Bearer": []}],
                "produces": ["application/json"],
                "tags": ["templates"],
                "summary": "Inspect a cover template",
                "parameters": [
                    {"type": "string", "description": "Template ID (UUID)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.InspectionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "models.GenerateCoverResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "generated_image_url": {"type": "string"},
                "output_identifier": {"type": "string"},
                "alt": {"type": "string"}
            }
        },
        "models.TemplateResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "cover_model": {"type": "string"},
                "cover_template": {"type": "string"},
                "template_url": {"type": "string"},
                "key_color": {"type": "object"},
                "brightness": {"type": "number"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "models.TemplateListResponse": {
            "type": "object",
            "properties": {
                "templates": {"type": "array", "items": {"$ref": "#/definitions/models.TemplateResponse"}}
            }
        },
        "models.TemplateMutationResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "data": {"$ref": "#/definitions/models.TemplateResponse"}
            }
        },
        "models.InspectionResponse": {
            "type": "object",
            "properties": {
                "cover_model": {"type": "string"},
                "key_range": {"type": "object"},
                "region": {"type": "object"},
                "palette": {"type": "array", "items": {"type": "object"}}
            }
        },
        "models.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Phone Cover Generator API",
	Description:      "Backend API for compositing user photos into phone cover templates.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
