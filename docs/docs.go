// Package docs registers the OpenAPI description served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/forms/generate": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["forms"],
                "summary": "Generate a form schema from a prompt",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.GenerateFormRequest"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "429": {"description": "Too Many Requests"},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/forms": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["forms"],
                "summary": "Dashboard list of the caller's forms",
                "parameters": [
                    {"type": "string", "name": "search", "in": "query"},
                    {"type": "string", "default": "all", "name": "band", "in": "query"},
                    {"type": "string", "default": "latest", "name": "sort", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["forms"],
                "summary": "Save a generated form",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.CreateFormRequest"}}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/forms/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["forms"],
                "summary": "Get one of the caller's forms",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["forms"],
                "summary": "Delete a form and all of its submissions",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/submissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["submissions"],
                "summary": "Newest submissions across all of the caller's forms",
                "parameters": [{"type": "integer", "default": 200, "name": "limit", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/forms/{id}/submissions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["submissions"],
                "summary": "Page of a form's submissions",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 25, "name": "limit", "in": "query"},
                    {"type": "string", "name": "search", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/forms/{id}/submissions/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["submissions"],
                "summary": "Download every submission of a form",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "default": "csv", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "204": {"description": "no submissions"}, "404": {"description": "Not Found"}}
            }
        },
        "/forms/{id}/submissions/{sid}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["submissions"],
                "summary": "One submission of a form",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "sid", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/forms/{id}/submissions/{sid}/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["submissions"],
                "summary": "Download one submission",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "string", "name": "sid", "in": "path", "required": true},
                    {"type": "string", "default": "json", "name": "format", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Not Found"}}
            }
        },
        "/public/forms/{id}": {
            "get": {
                "tags": ["public"],
                "summary": "Public form with its rendered widgets",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/public/forms/{id}/submit": {
            "post": {
                "tags": ["public"],
                "summary": "Submit a response to a public form",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.SubmitFormRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Not Found"},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/uploads": {
            "post": {
                "consumes": ["multipart/form-data"],
                "tags": ["uploads"],
                "summary": "Upload a file for a file field",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"201": {"description": "Created"}, "413": {"description": "Request Entity Too Large"}, "415": {"description": "Unsupported Media Type"}}
            }
        },
        "/contact": {
            "post": {
                "tags": ["contact"],
                "summary": "Send a message from the contact page",
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/models.ContactMessage"}}],
                "responses": {"202": {"description": "Accepted"}, "400": {"description": "Bad Request"}}
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "integer"},
                "message": {"type": "string"},
                "errors": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "models.GenerateFormRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {"prompt": {"type": "string"}}
        },
        "models.CreateFormRequest": {
            "type": "object",
            "required": ["title", "schema"],
            "properties": {
                "title": {"type": "string"},
                "description": {"type": "string"},
                "schema": {"type": "object"},
                "is_public": {"type": "boolean"}
            }
        },
        "models.SubmitFormRequest": {
            "type": "object",
            "required": ["data"],
            "properties": {"data": {"type": "object"}}
        },
        "models.ContactMessage": {
            "type": "object",
            "required": ["name", "email", "message"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "subject": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "FormGen API",
	Description:      "AI form builder: generate, publish and collect form submissions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
