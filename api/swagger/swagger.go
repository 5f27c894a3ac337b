package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Notice Board API",
        "description": "Multi-tenant notice distribution for schools and colleges",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Registration, login and identity"},
        {"name": "Organizations", "description": "Tenant provisioning and join-code lookup"},
        {"name": "Academic Structure", "description": "Departments, classes and subjects"},
        {"name": "Teaching Assignments", "description": "Teacher to subject/class grants"},
        {"name": "Users", "description": "Member and admin management"},
        {"name": "Notices", "description": "Publishing, feeds and read receipts"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a new account",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid payload"},
                    "404": {"description": "Unknown organization code"},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate and issue a token",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/organizations": {
            "post": {
                "tags": ["Organizations"],
                "summary": "Provision an organization",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/organizations/code/{code}": {
            "get": {
                "tags": ["Organizations"],
                "summary": "Look up an organization by join code",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/departments": {
            "get": {
                "tags": ["Academic Structure"],
                "summary": "List departments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Academic Structure"],
                "summary": "Create a department",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/classes": {
            "get": {
                "tags": ["Academic Structure"],
                "summary": "List classes",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Academic Structure"],
                "summary": "Create a class",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/subjects": {
            "get": {
                "tags": ["Academic Structure"],
                "summary": "List subjects",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Academic Structure"],
                "summary": "Create a subject",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/teaching-assignments": {
            "get": {
                "tags": ["Teaching Assignments"],
                "summary": "List assignments",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Teaching Assignments"],
                "summary": "Assign a teacher to a subject and classes",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Teacher, subject or class not found"}
                }
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List organization members",
                "responses": {
                    "200": {"description": "OK"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/users/admins": {
            "post": {
                "tags": ["Users"],
                "summary": "Provision an admin account",
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/users/me/permissions": {
            "get": {
                "tags": ["Users"],
                "summary": "Capability flags for the caller",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/notices": {
            "get": {
                "tags": ["Notices"],
                "summary": "List notices for the organization board",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Missing organization context"}
                }
            },
            "post": {
                "tags": ["Notices"],
                "summary": "Publish a notice",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Invalid field combination"},
                    "403": {"description": "Outside write scope"}
                }
            }
        },
        "/notices/feed": {
            "get": {
                "tags": ["Notices"],
                "summary": "Student notice feed",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Student has no class assignment"}
                }
            }
        },
        "/notices/{id}/read": {
            "post": {
                "tags": ["Notices"],
                "summary": "Record a read receipt",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/notices/{id}/read-stats": {
            "get": {
                "tags": ["Notices"],
                "summary": "Read statistics for a notice",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/notices/{id}/read-stats/export": {
            "get": {
                "tags": ["Notices"],
                "summary": "Export read statistics as CSV or PDF",
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Unsupported format"}
                }
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
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
