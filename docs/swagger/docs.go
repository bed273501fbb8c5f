// Package swagger registers the OpenAPI document served under /swagger.
// Keep it in step with the @Router annotations on the feature handlers.
package swagger

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
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    },
    "security": [
        {
            "ApiKeyAuth": []
        }
    ],
    "paths": {
        "/matches/{id}": {
            "get": {
                "description": "Returns the match with its files, players and tags.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["query"],
                "summary": "Match Report",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Match ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "Match Report", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/files/{id}": {
            "get": {
                "description": "Returns a stored file with its source and parse metadata.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["query"],
                "summary": "File Report",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "File ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "File Report", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/series/{id}": {
            "get": {
                "description": "Returns a series with the matches it groups.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["query"],
                "summary": "Series Report",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "Series ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "Series Report", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/summary": {
            "get": {
                "description": "Returns row counts for matches, files, players and series.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["query"],
                "summary": "Database Summary",
                "responses": {
                    "200": {"description": "Summary", "schema": {"$ref": "#/definitions/Summary"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/peer/matches": {
            "get": {
                "description": "Lists every match with its file ids so another instance can mirror them.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["peer"],
                "summary": "List Peer Matches",
                "responses": {
                    "200": {"description": "Matches", "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/peer/files/{id}": {
            "get": {
                "description": "Streams the decompressed replay bytes of a stored file.",
                "produces": ["application/octet-stream"],
                "tags": ["peer"],
                "summary": "Download Peer File",
                "parameters": [
                    {
                        "type": "integer",
                        "description": "File ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "Replay", "schema": {"type": "file"}},
                    "400": {"description": "Invalid ID", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/audit": {
            "get": {
                "description": "Compares file rows against stored objects without changing either.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["audit"],
                "summary": "Audit Store",
                "parameters": [
                    {
                        "type": "boolean",
                        "description": "Include every inconsistent hash",
                        "name": "details",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {"description": "Audit Summary", "schema": {"type": "object", "additionalProperties": true}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/audit/{hash}": {
            "get": {
                "description": "Reports whether a content hash is present in the database and in storage.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["audit"],
                "summary": "Check Hash",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Content Hash",
                        "name": "hash",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "Check Result", "schema": {"$ref": "#/definitions/AuditResult"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "AuditResult": {
            "type": "object",
            "properties": {
                "key": {"type": "string"},
                "db_present": {"type": "boolean"},
                "storage_present": {"type": "boolean"},
                "metadata": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "Summary": {
            "type": "object",
            "properties": {
                "files": {"type": "integer"},
                "matches": {"type": "integer"},
                "players": {"type": "integer"},
                "series": {"type": "integer"},
                "tags": {"type": "integer"},
                "platforms": {"type": "array", "items": {"type": "object", "additionalProperties": true}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "mgzdb API",
	Description:      "Reports, audits and peer sync for the replay database.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
