// Package docs holds the OpenAPI document served at /swagger/.
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
        "/api/cities": {
            "get": {
                "description": "Returns every city without its points of interest, ordered by name.",
                "produces": ["application/json", "application/xml"],
                "tags": ["Cities"],
                "summary": "List cities",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.CityWithoutPointsOfInterest"}}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/api/cities/{cityId}": {
            "get": {
                "produces": ["application/json", "application/xml"],
                "tags": ["Cities"],
                "summary": "Get a city",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "cityId", "in": "path", "required": true},
                    {"type": "boolean", "description": "Embed the points of interest", "name": "includePointsOfInterest", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.City"}},
                    "404": {"description": "City Not Found", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/api/cities/{cityId}/pointsofinterest": {
            "get": {
                "description": "Returns every point of interest of a city, ordered by id.",
                "produces": ["application/json", "application/xml"],
                "tags": ["PointsOfInterest"],
                "summary": "List points of interest",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "cityId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/types.PointOfInterest"}}},
                    "404": {"description": "City Not Found", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json", "application/xml"],
                "tags": ["PointsOfInterest"],
                "summary": "Create a point of interest",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "cityId", "in": "path", "required": true},
                    {"description": "New point of interest", "name": "poi", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PointOfInterestForCreation"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/types.PointOfInterest"}, "headers": {"Location": {"type": "string", "description": "URL of the created point of interest"}}},
                    "400": {"description": "Validation Failed", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "404": {"description": "City Not Found", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        },
        "/api/cities/{cityId}/pointsofinterest/{id}": {
            "get": {
                "produces": ["application/json", "application/xml"],
                "tags": ["PointsOfInterest"],
                "summary": "Get a point of interest",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "cityId", "in": "path", "required": true},
                    {"type": "integer", "description": "Point of interest ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.PointOfInterest"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "tags": ["PointsOfInterest"],
                "summary": "Replace a point of interest",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "cityId", "in": "path", "required": true},
                    {"type": "integer", "description": "Point of interest ID", "name": "id", "in": "path", "required": true},
                    {"description": "Replacement values", "name": "poi", "in": "body", "required": true, "schema": {"$ref": "#/definitions/types.PointOfInterestForUpdate"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Validation Failed", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "description": "Applies a JSON Patch document (add, remove, replace, move, copy, test) to /name and /description.",
                "consumes": ["application/json"],
                "tags": ["PointsOfInterest"],
                "summary": "Partially update a point of interest",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "cityId", "in": "path", "required": true},
                    {"type": "integer", "description": "Point of interest ID", "name": "id", "in": "path", "required": true},
                    {"description": "JSON Patch document", "name": "patch", "in": "body", "required": true, "schema": {"type": "array", "items": {"$ref": "#/definitions/types.PatchOperation"}}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Invalid Patch", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes the point of interest and notifies the configured mailbox in the background.",
                "tags": ["PointsOfInterest"],
                "summary": "Delete a point of interest",
                "parameters": [
                    {"type": "integer", "description": "City ID", "name": "cityId", "in": "path", "required": true},
                    {"type": "integer", "description": "Point of interest ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.ErrorBody"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/api.ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "api.ErrorBody": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean", "example": false},
                "error": {"type": "string", "example": "point of interest not found"},
                "errors": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}},
                "request_id": {"type": "string"}
            }
        },
        "types.City": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "pointsOfInterest": {"type": "array", "items": {"$ref": "#/definitions/types.PointOfInterest"}}
            }
        },
        "types.CityWithoutPointsOfInterest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "types.PatchOperation": {
            "type": "object",
            "properties": {
                "op": {"type": "string", "enum": ["add", "remove", "replace", "move", "copy", "test"]},
                "path": {"type": "string", "example": "/description"},
                "from": {"type": "string"},
                "value": {"type": "string"}
            }
        },
        "types.PointOfInterest": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "name": {"type": "string"},
                "description": {"type": "string"}
            }
        },
        "types.PointOfInterestForCreation": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 50},
                "description": {"type": "string", "maxLength": 200}
            }
        },
        "types.PointOfInterestForUpdate": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string", "maxLength": 50},
                "description": {"type": "string", "maxLength": 200}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "City Info API",
	Description:      "Cities and their points of interest.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
