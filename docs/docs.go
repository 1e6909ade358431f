// Package docs holds the OpenAPI description served at /api/swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health/ready": {
            "get": {
                "tags": ["ops"],
                "summary": "Readiness probe",
                "responses": {"200": {"description": "OK"}, "503": {"description": "Unavailable"}}
            }
        },
        "/settings": {
            "get": {
                "tags": ["site"],
                "summary": "Site settings",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/setup/status": {
            "get": {
                "tags": ["site"],
                "summary": "First-run status",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/setup": {
            "post": {
                "tags": ["site"],
                "summary": "Create the first admin",
                "consumes": ["application/json"],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "An admin already exists", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "tags": ["auth"],
                "summary": "Register",
                "consumes": ["application/json"],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "403": {"description": "Registration disabled", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {"tags": ["auth"], "summary": "Logout", "responses": {"200": {"description": "OK"}}}
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/onboarding": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Complete onboarding",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Username taken"}}
            }
        },
        "/auth/{provider}": {
            "get": {
                "tags": ["auth"],
                "summary": "Start OAuth login",
                "parameters": [{"type": "string", "name": "provider", "in": "path", "required": true}],
                "responses": {"302": {"description": "Redirect to provider"}}
            }
        },
        "/auth/{provider}/callback": {
            "get": {
                "tags": ["auth"],
                "summary": "OAuth callback",
                "parameters": [
                    {"type": "string", "name": "provider", "in": "path", "required": true},
                    {"type": "string", "name": "code", "in": "query", "required": true},
                    {"type": "string", "name": "state", "in": "query", "required": true}
                ],
                "responses": {"302": {"description": "Redirect to the site"}}
            }
        },
        "/categories": {
            "get": {"tags": ["content"], "summary": "List published categories", "responses": {"200": {"description": "OK"}}}
        },
        "/products": {
            "get": {"tags": ["content"], "summary": "List published products", "responses": {"200": {"description": "OK"}}}
        },
        "/products/{slug}": {
            "get": {
                "tags": ["content"],
                "summary": "Get a published product",
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/services": {
            "get": {"tags": ["content"], "summary": "List published services", "responses": {"200": {"description": "OK"}}}
        },
        "/projects": {
            "get": {"tags": ["content"], "summary": "List published projects", "responses": {"200": {"description": "OK"}}}
        },
        "/blog": {
            "get": {"tags": ["content"], "summary": "List published blog posts", "responses": {"200": {"description": "OK"}}}
        },
        "/blog/{slug}": {
            "get": {
                "tags": ["content"],
                "summary": "Read a blog post",
                "parameters": [{"type": "string", "name": "slug", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/contact": {
            "post": {
                "tags": ["site"],
                "summary": "Send a contact message",
                "responses": {"201": {"description": "Created"}, "403": {"description": "Contact form disabled"}, "429": {"description": "Too many requests"}}
            }
        },
        "/licenses/lookup": {
            "get": {
                "tags": ["licenses"],
                "summary": "Look up a license key",
                "parameters": [{"type": "string", "name": "key", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}
            }
        },
        "/licenses/activate": {
            "post": {
                "tags": ["licenses"],
                "summary": "Activate a license on a domain",
                "responses": {"200": {"description": "OK"}, "409": {"description": "Not active or limit reached"}}
            }
        },
        "/tools/totp": {
            "post": {"tags": ["tools"], "summary": "Current TOTP code", "responses": {"200": {"description": "OK"}}}
        },
        "/tools/password": {
            "get": {"tags": ["tools"], "summary": "Random password", "responses": {"200": {"description": "OK"}}}
        },
        "/tools/uuid": {
            "get": {"tags": ["tools"], "summary": "Random UUID", "responses": {"200": {"description": "OK"}}}
        },
        "/tools/slugify": {
            "post": {"tags": ["tools"], "summary": "Slugify text", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/dashboard": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Admin dashboard",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}
            }
        },
        "/admin/requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["admin"],
                "summary": "Recent requests",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/settings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Site settings", "responses": {"200": {"description": "OK"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Update site settings", "responses": {"200": {"description": "OK"}}}
        },
        "/admin/users": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List users", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create a user", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/products": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List products", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create a product", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/blog": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List blog posts", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Create a blog post", "responses": {"201": {"description": "Created"}}}
        },
        "/admin/licenses": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "List licenses", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Issue a license", "responses": {"201": {"description": "Created"}}}
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"},
                "code": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the session token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Business Site API",
	Description:      "Public site content, license activation and the admin back office.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
