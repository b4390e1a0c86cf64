// Package swagger carries the static OpenAPI document served at /docs
// outside production.
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Escola Admin API",
        "description": "School administration API: users, classes, students and enrollment",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Register and login"},
        {"name": "Users", "description": "Account management"},
        {"name": "Classes", "description": "Class management"},
        {"name": "Students", "description": "Student registration and enrollment"}
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/Message"}},
                    "409": {"description": "Duplicate username or email", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Message"}},
                    "429": {"description": "Too many attempts", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update user",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/Message"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "delete": {
                "tags": ["Users"],
                "summary": "Delete user",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Self-deletion rejected", "schema": {"$ref": "#/definitions/Message"}},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Classes"],
                "summary": "List classes visible to the caller",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Classes"],
                "summary": "Create class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/classes/{id}": {
            "get": {
                "tags": ["Classes"],
                "summary": "Get class",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "put": {
                "tags": ["Classes"],
                "summary": "Update class",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ClassRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "delete": {
                "tags": ["Classes"],
                "summary": "Delete class",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/classes/{id}/roster.pdf": {
            "get": {
                "tags": ["Classes"],
                "summary": "Class roster PDF",
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "PDF document"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students visible to the caller",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Students"],
                "summary": "Create student with enrollments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "CPF or RG already registered", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/students/export.csv": {
            "get": {
                "tags": ["Students"],
                "summary": "Export visible students as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "responses": {"200": {"description": "CSV document"}}
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "put": {
                "tags": ["Students"],
                "summary": "Update student and replace enrollments",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}},
                    "409": {"description": "CPF or RG already registered", "schema": {"$ref": "#/definitions/Message"}}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete student",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "type": "integer", "required": true}],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        }
    },
    "definitions": {
        "Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "required": ["name", "username", "email", "password", "role"],
            "properties": {
                "name": {"type": "string"},
                "username": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "role": {"type": "string", "enum": ["admin", "professor"]},
                "phone": {"type": "string"},
                "classIds": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "UpdateUserRequest": {
            "type": "object",
            "required": ["name", "email", "role"],
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "professor"]},
                "phone": {"type": "string"},
                "password": {"type": "string", "minLength": 8},
                "classIds": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "ClassRequest": {
            "type": "object",
            "required": ["name", "shift", "time", "number_of_vacancies"],
            "properties": {
                "name": {"type": "string"},
                "shift": {"type": "string"},
                "time": {"type": "string"},
                "number_of_vacancies": {"type": "integer"},
                "professor_id": {"type": "integer"}
            }
        },
        "StudentRequest": {
            "type": "object",
            "required": ["name", "cpf", "rg"],
            "properties": {
                "name": {"type": "string"},
                "cpf": {"type": "string"},
                "rg": {"type": "string"},
                "birth_date": {"type": "string"},
                "age": {"type": "integer"},
                "responsible_name": {"type": "string"},
                "responsible_contact": {"type": "string"},
                "classIds": {"type": "array", "items": {"type": "integer"}}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
