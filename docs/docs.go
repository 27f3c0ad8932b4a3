// Package docs provides the generated Swagger/OpenAPI specification for the API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "email": "support@techhive.example"
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
        "/auth/signup": {
            "post": {
                "tags": ["auth"],
                "summary": "Create a new account",
                "responses": {
                    "201": {"description": "Created"},
                    "200": {"description": "Account already exists"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Log in and receive a JWT",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/posts": {
            "get": {
                "tags": ["posts"],
                "summary": "List visible posts",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["posts"],
                "security": [{"BearerAuth": []}],
                "summary": "Create a post",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/posts/{id}": {
            "get": {
                "tags": ["posts"],
                "summary": "Get a single post",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/posts/{id}/vote": {
            "patch": {
                "tags": ["engagement"],
                "security": [{"BearerAuth": []}],
                "summary": "Cast or switch a vote on a post",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/posts/{id}/like": {
            "patch": {
                "tags": ["engagement"],
                "security": [{"BearerAuth": []}],
                "summary": "Toggle a like on a post",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/posts/{id}/comment": {
            "post": {
                "tags": ["comments"],
                "security": [{"BearerAuth": []}],
                "summary": "Comment on a post or reply to a comment",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/comments/{id}/report": {
            "post": {
                "tags": ["moderation"],
                "security": [{"BearerAuth": []}],
                "summary": "Report a comment",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/admin/warn/{commentId}": {
            "put": {
                "tags": ["moderation"],
                "security": [{"BearerAuth": []}],
                "summary": "Warn a comment author and resolve its reports",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/users/{email}": {
            "put": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "Update a profile and sync its post snapshots",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/users/me/premium": {
            "post": {
                "tags": ["users"],
                "security": [{"BearerAuth": []}],
                "summary": "Upgrade the current account to premium",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and JWT token."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8460",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "TechHive API",
	Description:      "Community forum API with posts, comments, voting, and moderation",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
