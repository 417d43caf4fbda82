// Package docs registers the OpenAPI document served under /v1/swagger.
// Regenerate with: swag init -g cmd/api/main.go
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
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["system"], "summary": "Service health",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        },
        "/recruiter-access": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["recruiter-access"], "summary": "List recruiter links",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["recruiter-access"], "summary": "Create a recruiter link",
                "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}}}
        },
        "/recruiter-access/validate": {
            "post": {"tags": ["recruiter-access"], "summary": "Check a recruiter token",
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "429": {"description": "Too Many Requests"}}}
        },
        "/portfolio/{user_id}": {
            "get": {"tags": ["portfolio"], "summary": "Read a portfolio",
                "parameters": [
                    {"type": "string", "name": "user_id", "in": "path", "required": true},
                    {"type": "string", "name": "access", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/portfolio/me/export": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["snapshot"], "summary": "Export the caller's portfolio",
                "parameters": [{"type": "string", "name": "format", "in": "query"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/portfolio/me/import": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["snapshot"], "summary": "Import a portfolio snapshot",
                "parameters": [{"type": "string", "name": "mode", "in": "query"}],
                "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "413": {"description": "Payload Too Large"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "Portfolio Backend API",
	Description:      "Portfolio visibility, recruiter access links and snapshot import/export.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
