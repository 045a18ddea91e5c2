// Package docs registers the OpenAPI description served under /swagger/.
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
        "/fishes": {
            "get": {
                "produces": ["application/json"],
                "summary": "List fishes",
                "parameters": [
                    {"type": "string", "description": "Category filter", "name": "category", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/entities.Fish"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create fish",
                "parameters": [
                    {"description": "Fish", "name": "fish", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Fish"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/entities.Fish"}},
                    "406": {"description": "Not Acceptable"}
                }
            }
        },
        "/fishes/{id}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get fish",
                "parameters": [
                    {"type": "string", "description": "Fish ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Fish"}},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Update fish",
                "parameters": [
                    {"type": "string", "description": "Fish ID", "name": "id", "in": "path", "required": true},
                    {"description": "Fish", "name": "fish", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.Fish"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/entities.Fish"}},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "summary": "Delete fish",
                "parameters": [
                    {"type": "string", "description": "Fish ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/orders": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create order",
                "parameters": [
                    {"description": "Order", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.OrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Order"}},
                    "400": {"description": "Bad Request"}
                }
            }
        }
    },
    "definitions": {
        "models.Care": {
            "type": "object",
            "properties": {
                "level": {"type": "string"},
                "temperament": {"type": "string"},
                "tankSize": {"type": "string"},
                "temperature": {"type": "string"},
                "ph": {"type": "string"},
                "diet": {"type": "string"}
            }
        },
        "models.Fish": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "number"},
                "priceUnit": {"type": "string", "enum": ["weight", "piece"]},
                "originalPrice": {"type": "number"},
                "discount": {"type": "number"},
                "discountPrice": {"type": "number"},
                "availability": {"type": "string", "enum": ["in_stock", "sold_out"]},
                "category": {"type": "string"},
                "description": {"type": "string"},
                "image": {"type": "string"},
                "care": {"$ref": "#/definitions/models.Care"}
            }
        },
        "entities.Fish": {
            "allOf": [
                {"$ref": "#/definitions/models.Fish"},
                {
                    "type": "object",
                    "properties": {
                        "effectivePrice": {"type": "number"},
                        "savings": {"type": "number"}
                    }
                }
            ]
        },
        "models.OrderRequestItem": {
            "type": "object",
            "properties": {
                "fishId": {"type": "string"},
                "fish": {"$ref": "#/definitions/models.Fish"},
                "quantity": {"type": "integer"}
            }
        },
        "models.OrderRequest": {
            "type": "object",
            "properties": {
                "customerName": {"type": "string"},
                "customerPhone": {"type": "string"},
                "customerAddress": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.OrderRequestItem"}},
                "subtotal": {"type": "number"},
                "deliveryCharge": {"type": "number"},
                "total": {"type": "number"}
            }
        },
        "models.OrderItem": {
            "type": "object",
            "properties": {
                "fishId": {"type": "string"},
                "name": {"type": "string"},
                "priceUnit": {"type": "string"},
                "quantity": {"type": "integer"},
                "unitPrice": {"type": "number"},
                "lineTotal": {"type": "number"}
            }
        },
        "models.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "customerName": {"type": "string"},
                "customerPhone": {"type": "string"},
                "customerAddress": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.OrderItem"}},
                "subtotal": {"type": "number"},
                "deliveryCharge": {"type": "number"},
                "total": {"type": "number"},
                "status": {"type": "string", "enum": ["pending", "confirmed", "delivered", "cancelled"]},
                "createdAt": {"type": "string", "format": "date-time"}
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
	Title:            "Aquashop API",
	Description:      "Live aquarium fish storefront: catalog, cart and orders.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
