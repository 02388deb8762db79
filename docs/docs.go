// Package docs registra la especificación OpenAPI servida en /swagger.
// Regenerar con: swag init -g cmd/api/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "auth", "description": "Login y OTP"},
        {"name": "admins", "description": "Cuentas del back office"},
        {"name": "customers", "description": "Clientes del sitio"},
        {"name": "doctors", "description": "Veterinarios y agenda semanal"},
        {"name": "slots", "description": "Turnos de los doctores"},
        {"name": "appointments", "description": "Citas"},
        {"name": "grooming", "description": "Reservas de grooming"},
        {"name": "boarding", "description": "Centros de hospedaje"},
        {"name": "products", "description": "Catálogo"},
        {"name": "testimonials", "description": "Testimonios"},
        {"name": "prescriptions", "description": "Recetas"},
        {"name": "messages", "description": "Formulario de contacto"}
    ],
    "paths": {
        "/health": {
            "get": {
                "produces": ["text/plain"],
                "summary": "Health check",
                "responses": {"200": {"description": "ok"}}
            }
        }
    }
}`

// SwaggerInfo contiene la información exportada de la spec.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Services API",
	Description:      "Citas veterinarias, grooming, hospedaje, catálogo y recetas.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
