// Package docs registers the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"},
        "GuestID": {"type": "apiKey", "name": "X-Guest-ID", "in": "header"}
    },
    "security": [{"BearerAuth": []}, {"GuestID": []}],
    "paths": {
        "/showtimes/{id}": {
            "get": {"tags": ["catalog"], "summary": "Showtime details",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/showtimes/{id}/seats": {
            "get": {"tags": ["availability"], "summary": "Seats of a showtime with their status for the caller",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/seat-types": {
            "get": {"tags": ["catalog"], "summary": "Seat types with prices and discounts",
                "responses": {"200": {"description": "OK"}}}
        },
        "/cart": {
            "get": {"tags": ["cart"], "summary": "Current cart of the caller", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["cart"], "summary": "Release every hold of the caller", "responses": {"200": {"description": "OK"}}}
        },
        "/cart/items": {
            "post": {"tags": ["cart"], "summary": "Hold a seat",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/HoldSeatRequest"}}],
                "responses": {"201": {"description": "Held"}, "409": {"description": "Seat taken"}}},
            "patch": {"tags": ["cart"], "summary": "Set or clear the discount of a held seat",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetDiscountRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No such hold"}, "400": {"description": "Discount does not apply"}}}
        },
        "/cart/items/{showtimeId}/{seatId}": {
            "delete": {"tags": ["cart"], "summary": "Release one hold; releasing an absent hold succeeds",
                "parameters": [
                    {"name": "showtimeId", "in": "path", "required": true, "type": "integer"},
                    {"name": "seatId", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/payments/orders": {
            "post": {"tags": ["payments"], "summary": "Create a payment order",
                "parameters": [{"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateOrderRequest"}}],
                "responses": {"201": {"description": "Created"}, "502": {"description": "Payment provider failure"}}}
        },
        "/payments/orders/{orderId}/capture": {
            "post": {"tags": ["payments"], "summary": "Capture the payment and finalize the booking",
                "parameters": [
                    {"name": "orderId", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CaptureOrderRequest"}}],
                "responses": {"201": {"description": "Booked"}, "200": {"description": "Order already booked"},
                    "402": {"description": "Payment not confirmed"}, "409": {"description": "Seat taken"}}}
        },
        "/bookings/{id}": {
            "get": {"tags": ["bookings"], "summary": "Booking of the caller",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string", "format": "uuid"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the owner"}}}
        },
        "/tickets/{token}": {
            "get": {"tags": ["bookings"], "summary": "Ticket by token",
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/tickets/{token}/qrcode": {
            "get": {"tags": ["bookings"], "summary": "Ticket QR code", "produces": ["image/png"],
                "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "PNG image"}}}
        },
        "/users/me/bookings": {
            "get": {"tags": ["bookings"], "summary": "Bookings of the signed in user",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Sign in required"}}}
        },
        "/users/me/points": {
            "get": {"tags": ["bookings"], "summary": "Loyalty balance and history",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Sign in required"}}}
        }
    },
    "definitions": {
        "HoldSeatRequest": {"type": "object", "required": ["seat_id", "showtime_id", "price"],
            "properties": {
                "seat_id": {"type": "integer"}, "showtime_id": {"type": "integer"},
                "price": {"type": "number"}, "seat_type_discount_id": {"type": "integer"}}},
        "SetDiscountRequest": {"type": "object", "required": ["seat_id", "showtime_id"],
            "properties": {
                "seat_id": {"type": "integer"}, "showtime_id": {"type": "integer"},
                "seat_type_discount_id": {"type": "integer"}}},
        "CreateOrderRequest": {"type": "object", "required": ["total_amount"],
            "properties": {"total_amount": {"type": "number"}}},
        "CaptureOrderRequest": {"type": "object", "required": ["first_name", "last_name", "email", "total_amount", "items"],
            "properties": {
                "first_name": {"type": "string"}, "last_name": {"type": "string"},
                "email": {"type": "string", "format": "email"}, "total_amount": {"type": "number"},
                "items": {"type": "array", "items": {"type": "object",
                    "properties": {"seat_id": {"type": "integer"}, "showtime_id": {"type": "integer"},
                        "seat_type_discount_id": {"type": "integer"}}}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Cinephoria reservation API",
	Description:      "Seat availability, carts with timed holds, and payment backed booking.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
