// Package docs registers the OpenAPI description of the REST API with swag.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/flights/": {
            "get": {"tags": ["flights"], "summary": "List flights", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Flight"}}}}},
            "post": {"tags": ["flights"], "summary": "Add a flight", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "flight", "required": true, "schema": {"$ref": "#/definitions/AddFlightInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Flight"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/flights/search": {
            "get": {"tags": ["flights"], "summary": "Search flights by route and day", "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "from", "type": "string", "required": true},
                    {"in": "query", "name": "to", "type": "string", "required": true},
                    {"in": "query", "name": "date", "type": "string", "format": "date", "required": true},
                    {"in": "query", "name": "airline", "type": "string"},
                    {"in": "query", "name": "min_price_cents", "type": "integer"},
                    {"in": "query", "name": "max_price_cents", "type": "integer"},
                    {"in": "query", "name": "seats", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Flight"}}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/flights/{id}": {
            "get": {"tags": ["flights"], "summary": "Get a flight", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Flight"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/reservations/": {
            "get": {"tags": ["reservations"], "summary": "Find reservations by traveler email", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "email", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Reservation"}}}}},
            "post": {"tags": ["reservations"], "summary": "Create a pending reservation", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"type": "object", "properties": {"flight_id": {"type": "string"}}}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Reservation"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/reservations/stats": {
            "get": {"tags": ["reservations"], "summary": "Reservation counts by status", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ReservationStats"}}}}
        },
        "/reservations/{id}": {
            "get": {"tags": ["reservations"], "summary": "Get a reservation", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Reservation"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}}},
            "delete": {"tags": ["reservations"], "summary": "Discard a pending reservation",
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"204": {"description": "No Content"}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/reservations/{id}/travelers": {
            "post": {"tags": ["reservations"], "summary": "Add a traveler", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "traveler", "required": true, "schema": {"$ref": "#/definitions/Traveler"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Reservation"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/reservations/{id}/travelers/{travelerId}": {
            "delete": {"tags": ["reservations"], "summary": "Remove a traveler", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "path", "name": "travelerId", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Reservation"}}}}
        },
        "/reservations/{id}/confirm": {
            "post": {"tags": ["reservations"], "summary": "Confirm with a settled payment", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}, {"in": "body", "name": "request", "required": true, "schema": {"type": "object", "properties": {"payment_id": {"type": "string"}}}}],
                "responses": {"200": {"description": "OK; confirmed is false when the flight lacks seats", "schema": {"type": "object", "properties": {"confirmed": {"type": "boolean"}, "reservation": {"$ref": "#/definitions/Reservation"}}}}}}
        },
        "/reservations/{id}/cancel": {
            "post": {"tags": ["reservations"], "summary": "Cancel a confirmed reservation", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Reservation"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/payments/": {
            "get": {"tags": ["payments"], "summary": "List payments of a reservation", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "reservation_id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Payment"}}}}},
            "post": {"tags": ["payments"], "summary": "Charge a card", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/ChargeRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Payment"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/payments/stats": {
            "get": {"tags": ["payments"], "summary": "Ledger statistics", "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/PaymentStats"}}}}
        },
        "/payments/{id}": {
            "get": {"tags": ["payments"], "summary": "Get a payment", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Payment"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/Error"}}}}
        },
        "/payments/{id}/refund": {
            "post": {"tags": ["payments"], "summary": "Refund a successful payment", "produces": ["application/json"],
                "parameters": [{"in": "path", "name": "id", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Payment"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/Error"}}}}
        }
    },
    "definitions": {
        "Error": {"type": "object", "properties": {"error": {"type": "string"}, "code": {"type": "string"}}},
        "Flight": {"type": "object", "properties": {
            "id": {"type": "string"}, "airline": {"type": "string"}, "from_airport": {"type": "string"}, "to_airport": {"type": "string"},
            "departure_time": {"type": "string", "format": "date-time"}, "arrival_time": {"type": "string", "format": "date-time"},
            "total_seats": {"type": "integer"}, "available_seats": {"type": "integer"}, "price_cents": {"type": "integer"}}},
        "AddFlightInput": {"type": "object", "properties": {
            "id": {"type": "string"}, "airline": {"type": "string"}, "from_airport": {"type": "string"}, "to_airport": {"type": "string"},
            "departure_time": {"type": "string", "format": "date-time"}, "arrival_time": {"type": "string", "format": "date-time"},
            "total_seats": {"type": "integer"}, "price_cents": {"type": "integer"}}},
        "Traveler": {"type": "object", "properties": {
            "id": {"type": "string"}, "first_name": {"type": "string"}, "last_name": {"type": "string"},
            "email": {"type": "string"}, "phone": {"type": "string"}, "age": {"type": "integer"}}},
        "Reservation": {"type": "object", "properties": {
            "id": {"type": "string"}, "flight_id": {"type": "string"},
            "travelers": {"type": "array", "items": {"$ref": "#/definitions/Traveler"}},
            "status": {"type": "string", "enum": ["PENDING", "CONFIRMED", "CANCELLED"]},
            "price_cents": {"type": "integer"}, "total_cents": {"type": "integer"}, "seats_held": {"type": "integer"},
            "payment_ref": {"type": "string"}}},
        "ReservationStats": {"type": "object", "properties": {
            "total": {"type": "integer"}, "pending": {"type": "integer"}, "confirmed": {"type": "integer"}, "cancelled": {"type": "integer"}}},
        "ChargeRequest": {"type": "object", "properties": {
            "reservation_id": {"type": "string"}, "amount_cents": {"type": "integer"},
            "card_number": {"type": "string"}, "cvv": {"type": "string"}, "expiry": {"type": "string", "example": "12/27"}}},
        "Payment": {"type": "object", "properties": {
            "id": {"type": "string"}, "reservation_id": {"type": "string"}, "amount_cents": {"type": "integer"},
            "masked_card": {"type": "string"}, "status": {"type": "string", "enum": ["PENDING", "SUCCESS", "FAILED", "REFUNDED"]}}},
        "PaymentStats": {"type": "object", "properties": {
            "total_revenue_cents": {"type": "integer"}, "total": {"type": "integer"}, "successful": {"type": "integer"},
            "failed": {"type": "integer"}, "refunded": {"type": "integer"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "SkyReserve API",
	Description:      "Flight inventory, reservations and payments.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
