package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Edu Archive API",
        "description": "Course, subject, note and question paper archive with a single administrator.",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "SessionCookie": {"type": "apiKey", "in": "header", "name": "Cookie"},
        "Bearer": {"type": "apiKey", "in": "header", "name": "Authorization"}
    },
    "tags": [
        {"name": "Browse", "description": "Public catalog"},
        {"name": "Auth", "description": "Administrator session"},
        {"name": "Admin", "description": "Catalog management"}
    ],
    "paths": {
        "/health": {
            "get": {"summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is unavailable"}
                }
            }
        },
        "/api/v1/overview": {
            "get": {
                "tags": ["Browse"],
                "summary": "Courses with the most recent notes and question papers",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/courses": {
            "get": {
                "tags": ["Browse"],
                "summary": "List courses",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/courses/{id}": {
            "get": {
                "tags": ["Browse"],
                "summary": "Course with its subjects",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/courses/{id}/subjects": {
            "get": {
                "tags": ["Browse"],
                "summary": "Subjects of a course ordered by semester",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/subjects/{id}/notes": {
            "get": {
                "tags": ["Browse"],
                "summary": "Notes of a subject, newest first",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/question-papers": {
            "get": {
                "tags": ["Browse"],
                "summary": "Filter question papers",
                "parameters": [
                    {"name": "semester", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "subject_id", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid filter"}
                }
            }
        },
        "/api/v1/question-papers/facets": {
            "get": {
                "tags": ["Browse"],
                "summary": "Distinct years and semesters",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/download/{key}": {
            "get": {
                "tags": ["Browse"],
                "summary": "Download a stored file under its original name",
                "produces": ["application/octet-stream"],
                "parameters": [{"name": "key", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "File content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/api/v1/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Start an admin session",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "Session issued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/api/v1/auth/logout": {
            "post": {
                "tags": ["Auth"],
                "summary": "End the current session",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "responses": {"204": {"description": "Logged out"}}
            }
        },
        "/api/v1/auth/password": {
            "post": {
                "tags": ["Auth"],
                "summary": "Change the admin password and revoke sessions",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}],
                "responses": {"204": {"description": "Password changed"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Current admin",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Counts and recent uploads",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/admin/courses": {
            "get": {
                "tags": ["Admin"],
                "summary": "List courses",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create course",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Name already exists"}
                }
            }
        },
        "/api/v1/admin/courses/{id}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update course",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseInput"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete course with its subjects, notes, papers and files",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}, "404": {"description": "Not found"}}
            }
        },
        "/api/v1/admin/subjects": {
            "get": {
                "tags": ["Admin"],
                "summary": "List subjects",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create subject",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/api/v1/admin/subjects/{id}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update subject",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubjectInput"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete subject with its notes, papers and files",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/v1/admin/notes": {
            "get": {
                "tags": ["Admin"],
                "summary": "List notes",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Upload note",
                "consumes": ["multipart/form-data"],
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "subject_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "415": {"description": "File type not allowed"}
                }
            }
        },
        "/api/v1/admin/notes/{id}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update note, optionally replacing its file",
                "consumes": ["multipart/form-data"],
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "description", "in": "formData", "type": "string"},
                    {"name": "subject_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete note and its file",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/v1/admin/question-papers": {
            "get": {
                "tags": ["Admin"],
                "summary": "List question papers",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Upload question paper",
                "consumes": ["multipart/form-data"],
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [
                    {"name": "title", "in": "formData", "required": true, "type": "string"},
                    {"name": "year", "in": "formData", "required": true, "type": "integer"},
                    {"name": "semester", "in": "formData", "required": true, "type": "integer"},
                    {"name": "exam_type", "in": "formData", "required": true, "type": "string", "enum": ["midterm", "endterm", "supplementary", "quiz", "other"]},
                    {"name": "subject_id", "in": "formData", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "415": {"description": "File type not allowed"}
                }
            }
        },
        "/api/v1/admin/question-papers/{id}": {
            "put": {
                "tags": ["Admin"],
                "summary": "Update question paper, optionally replacing its file",
                "consumes": ["multipart/form-data"],
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete question paper and its file",
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "Deleted"}}
            }
        },
        "/api/v1/admin/exports/question-papers": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the question paper catalog",
                "produces": ["text/csv", "application/pdf"],
                "security": [{"SessionCookie": []}, {"Bearer": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "semester", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "subject_id", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["username", "password"]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "old_password": {"type": "string"},
                "new_password": {"type": "string"}
            },
            "required": ["old_password", "new_password"]
        },
        "CourseInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"}
            },
            "required": ["name"]
        },
        "SubjectInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "course_id": {"type": "string"},
                "semester": {"type": "integer", "minimum": 1, "maximum": 10}
            },
            "required": ["name", "course_id", "semester"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "fields": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
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
