// Package docs registra el documento OpenAPI servido en /swagger.
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
        "/pets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Listar mascotas",
                "parameters": [
                    {"type": "string", "description": "Solo en modo dev, ID de usuario", "name": "X-Debug-User-ID", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.PetProfile"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Agregar mascota",
                "parameters": [
                    {"description": "Datos de la mascota", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pets.petRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.PetProfile"}},
                    "400": {"description": "invalid json", "schema": {"type": "string"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/pets.validationErrorResponse"}},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/stats": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Estadísticas de mascotas",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.Statistics"}}
                }
            }
        },
        "/pets/sync": {
            "post": {
                "tags": ["pets"],
                "summary": "Reintentar persistencia",
                "responses": {
                    "204": {"description": "No Content"},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/delete-request": {
            "delete": {
                "tags": ["pets"],
                "summary": "Cancelar solicitud de borrado",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/pets/{petID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Perfil de mascota",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetProfile"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Editar mascota",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"description": "Formulario completo", "name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/pets.petRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetProfile"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/pets.validationErrorResponse"}},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            },
            "delete": {
                "tags": ["pets"],
                "summary": "Confirmar borrado",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true},
                    {"type": "string", "description": "Token de la solicitud de borrado", "name": "token", "in": "query", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "pet not found", "schema": {"type": "string"}},
                    "409": {"description": "delete confirmation mismatch", "schema": {"type": "string"}},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/delete-request": {
            "post": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Solicitar borrado",
                "parameters": [
                    {"type": "string", "description": "ID de la mascota", "name": "petID", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.deleteRequestResponse"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}},
                    "503": {"description": "storage unavailable", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "pets.PetProfile": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["dog", "cat", "bird", "rabbit", "hamster", "fish", "other"]},
                "breed": {"type": "string"},
                "age": {"type": "integer"},
                "gender": {"type": "string", "enum": ["male", "female"]},
                "weight": {"type": "number"},
                "vaccinationStatus": {"type": "string", "enum": ["up-to-date", "partial", "overdue", "unknown"]},
                "vaccinationNotes": {"type": "string"},
                "specialNeeds": {"type": "string"},
                "photo": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "pets.petRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "type": {"type": "string", "enum": ["dog", "cat", "bird", "rabbit", "hamster", "fish", "other"]},
                "breed": {"type": "string"},
                "age": {"type": "number"},
                "gender": {"type": "string", "enum": ["male", "female"]},
                "weight": {"type": "number"},
                "vaccinationStatus": {"type": "string", "enum": ["up-to-date", "partial", "overdue", "unknown"]},
                "vaccinationNotes": {"type": "string"},
                "specialNeeds": {"type": "string"},
                "photo": {"type": "string"},
                "photoMediaType": {"type": "string"},
                "photoSize": {"type": "integer"}
            }
        },
        "pets.Statistics": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "countByType": {"type": "object", "additionalProperties": {"type": "integer"}},
                "countByVaccinationStatus": {"type": "object", "additionalProperties": {"type": "integer"}},
                "averageAge": {"type": "number"}
            }
        },
        "pets.validationErrorResponse": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "pets.deleteRequestResponse": {
            "type": "object",
            "properties": {
                "petId": {"type": "string"},
                "token": {"type": "string"},
                "expiresAt": {"type": "string"}
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
	Title:            "Pet Party API",
	Description:      "Perfiles de mascotas con persistencia key-value por usuario.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
