// Package docs registers the API description served at /swagger.
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
        "/members": {
            "get": {"tags": ["members"], "summary": "List members", "produces": ["application/json"],
                "parameters": [
                    {"type": "boolean", "name": "active", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "per_page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}}
        },
        "/members/join": {
            "post": {"tags": ["members"], "summary": "Join governance", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Caller-Identity", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/membership.JoinRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }}
        },
        "/members/leave": {
            "post": {"tags": ["members"], "summary": "Leave governance", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "X-Caller-Identity", "in": "header", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }}
        },
        "/members/{identity}": {
            "get": {"tags": ["members"], "summary": "Get a membership record", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "identity", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }}
        },
        "/proposals": {
            "get": {"tags": ["proposals"], "summary": "List proposals", "produces": ["application/json"],
                "parameters": [
                    {"enum": ["OPEN", "PASSED", "REJECTED", "EXPIRED"], "type": "string", "name": "state", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "per_page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}},
            "post": {"tags": ["proposals"], "summary": "Create a proposal", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Caller-Identity", "in": "header", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/proposal.CreateProposalRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }}
        },
        "/proposals/{id}": {
            "get": {"tags": ["proposals"], "summary": "Get a proposal", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }}
        },
        "/proposals/{id}/votes": {
            "get": {"tags": ["proposals"], "summary": "List the votes on a proposal", "produces": ["application/json"],
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}},
            "post": {"tags": ["proposals"], "summary": "Cast a vote", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Caller-Identity", "in": "header", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/proposal.VoteRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }}
        },
        "/proposals/{id}/finalize": {
            "post": {"tags": ["proposals"], "summary": "Finalize a proposal", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Caller-Identity", "in": "header", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.APIResponse"}}
                }}
        },
        "/parameters": {
            "get": {"tags": ["parameters"], "summary": "Get governance parameters", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}}
        },
        "/events": {
            "get": {"tags": ["events"], "summary": "List governance events", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "identity", "in": "query"},
                    {"type": "string", "name": "kind", "in": "query"},
                    {"type": "integer", "name": "proposal_id", "in": "query"},
                    {"type": "integer", "default": 1, "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "name": "per_page", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}}
        },
        "/payouts": {
            "get": {"tags": ["payouts"], "summary": "List the caller's payouts", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "X-Caller-Identity", "in": "header", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}}
        },
        "/payouts/{id}": {
            "get": {"tags": ["payouts"], "summary": "Get a payout", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Caller-Identity", "in": "header", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}}
        },
        "/payouts/{id}/retry": {
            "post": {"tags": ["payouts"], "summary": "Retry a failed payout", "produces": ["application/json"],
                "parameters": [
                    {"type": "string", "name": "X-Caller-Identity", "in": "header", "required": true},
                    {"type": "integer", "name": "id", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.APIResponse"}}}}
        }
    },
    "definitions": {
        "membership.JoinRequest": {
            "type": "object",
            "required": ["value"],
            "properties": {"value": {"type": "integer"}}
        },
        "proposal.CreateProposalRequest": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string"},
                "voting_period": {"type": "integer"},
                "member_removal_target": {"type": "string"},
                "fee_update_value": {"type": "integer"},
                "stake_update_value": {"type": "integer"},
                "category_update_value": {"type": "string"},
                "skill_update_value": {"type": "string"}
            }
        },
        "proposal.VoteRequest": {
            "type": "object",
            "required": ["choice"],
            "properties": {"choice": {"type": "string", "enum": ["FOR", "AGAINST"]}}
        },
        "response.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "array", "items": {"type": "string"}}
            }
        },
        "response.Meta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "response.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/response.APIError"},
                "meta": {"$ref": "#/definitions/response.Meta"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Workwise Governance API",
	Description:      "Membership, proposals and voting for the Workwise DAO.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
