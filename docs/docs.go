// Package docs serves the OpenAPI document behind /swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs --v3.1
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "servers": [
        {"url": "{{.BasePath}}"}
    ],
    "components": {
        "securitySchemes": {
            "BearerAuth": {
                "type": "apiKey",
                "in": "header",
                "name": "Authorization",
                "description": "Bearer token authentication. Format: \"Bearer {token}\""
            }
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "security": [], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Log out", "responses": {"204": {"description": "No Content"}}}},
        "/orders": {
            "get": {"tags": ["orders"], "summary": "List orders", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["orders"], "summary": "Create an order", "parameters": [{"name": "Idempotency-Key", "in": "header", "schema": {"type": "string"}}], "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}}}
        },
        "/orders/{id}": {"get": {"tags": ["orders"], "summary": "Get an order", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/orders/{id}/production-status": {"put": {"tags": ["orders"], "summary": "Change production status", "description": "Body: {\"production_status\": stage}. Stages, case-insensitive: intake, cut, assembled, sewn, qc, shipped, cancelled.", "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid transition"}, "404": {"description": "Not Found"}}}},
        "/stock": {
            "get": {"tags": ["stock"], "summary": "List stock entries", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["stock"], "summary": "Take a finished cover into stock", "responses": {"201": {"description": "Created"}}}
        },
        "/stock/{id}": {"get": {"tags": ["stock"], "summary": "Get a stock entry", "responses": {"200": {"description": "OK"}}}},
        "/stock/{id}/take-out": {"put": {"tags": ["stock"], "summary": "Take a cover out of stock", "responses": {"200": {"description": "OK"}}}},
        "/payroll/period": {"post": {"tags": ["payroll"], "summary": "Open a payroll period", "responses": {"201": {"description": "Created"}, "400": {"description": "Overlapping period"}}}},
        "/payroll/periods": {"get": {"tags": ["payroll"], "summary": "List payroll periods", "responses": {"200": {"description": "OK"}}}},
        "/payroll/lock/{id}": {"put": {"tags": ["payroll"], "summary": "Lock a period", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/payroll/unlock/{id}": {"put": {"tags": ["payroll"], "summary": "Unlock a period", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/payroll/save": {"post": {"tags": ["payroll"], "summary": "Save a payroll item", "responses": {"200": {"description": "OK"}, "400": {"description": "Period locked or missing, or invalid figures"}}}},
        "/payroll/periods/{id}/items": {"get": {"tags": ["payroll"], "summary": "List payroll items of a period", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/payroll/periods/{id}/lock-events": {"get": {"tags": ["payroll"], "summary": "List lock events of a period", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}},
        "/customers": {
            "get": {"tags": ["customers"], "summary": "List customers", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["customers"], "summary": "Create a customer", "responses": {"201": {"description": "Created"}}}
        },
        "/invoices": {
            "get": {"tags": ["invoices"], "summary": "List invoices", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["invoices"], "summary": "Issue an invoice", "parameters": [{"name": "Idempotency-Key", "in": "header", "schema": {"type": "string"}}], "responses": {"201": {"description": "Created"}}}
        },
        "/invoices/{id}": {"get": {"tags": ["invoices"], "summary": "Get an invoice", "responses": {"200": {"description": "OK"}}}},
        "/invoices/{id}/pdf": {"get": {"tags": ["invoices"], "summary": "Render an invoice as PDF", "responses": {"200": {"description": "OK", "content": {"application/pdf": {}}}}}},
        "/invoices/next-number/{docType}": {"get": {"tags": ["invoices"], "summary": "Preview the next document number", "responses": {"200": {"description": "OK"}}}},
        "/users": {
            "get": {"tags": ["users"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["users"], "summary": "Create a user", "responses": {"201": {"description": "Created"}}}
        },
        "/customers/{id}": {
            "get": {"tags": ["customers"], "summary": "Get a customer", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["customers"], "summary": "Update a customer", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["customers"], "summary": "Delete a customer", "responses": {"204": {"description": "No Content"}}}
        },
        "/users/{id}": {
            "get": {"tags": ["users"], "summary": "Get a user", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["users"], "summary": "Update a user", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user", "responses": {"204": {"description": "No Content"}}}
        },
        "/system/info": {"get": {"tags": ["system"], "summary": "Service information", "security": [], "responses": {"200": {"description": "OK"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Quark System API",
	Description:      "Workshop backend for seat-cover production orders, stock, payroll and invoices.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
