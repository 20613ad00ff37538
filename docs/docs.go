// Package docs holds the Swagger document served at /swagger/.
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
        "/reports": {
            "get": {
                "description": "Get report jobs with their current status, newest first",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "List report jobs",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of jobs", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "List of jobs", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Job"}}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Upload a CSV or XLSX export and aggregate it synchronously as the given report type",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Upload a report",
                "parameters": [
                    {"type": "file", "description": "Report file (CSV or XLSX)", "name": "file", "in": "formData", "required": true},
                    {"type": "string", "description": "Report type, e.g. flipkart_order", "name": "type", "in": "formData", "required": true},
                    {"type": "string", "description": "First day to include (YYYY-MM-DD)", "name": "from", "in": "formData"},
                    {"type": "string", "description": "Last day to include (YYYY-MM-DD)", "name": "to", "in": "formData"},
                    {"type": "integer", "description": "Size of top and bottom tables", "name": "top", "in": "formData"}
                ],
                "responses": {
                    "201": {"description": "Report aggregated", "schema": {"$ref": "#/definitions/handler.CreateReportResponse"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "422": {"description": "Missing required columns", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal server error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Get report job",
                "parameters": [{"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Job details", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/reports/{id}/result": {
            "get": {
                "description": "Metrics, group tables, series, breakdowns and bid recommendations of a completed job",
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Get report result",
                "parameters": [{"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Aggregate result", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Result not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/reports/{id}/errors": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Get report errors",
                "parameters": [{"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Job errors", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/reports/{id}/stages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Get report stages",
                "parameters": [{"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "Job stages", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Job not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/reports/{id}/records": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Preview normalised records",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum number of rows", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Normalised rows", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Records not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/reports/{id}/{file}": {
            "get": {
                "description": "Download the normalised CSV, the result JSON or the result workbook",
                "produces": ["application/octet-stream"],
                "tags": ["files"],
                "summary": "Download export",
                "parameters": [
                    {"type": "string", "description": "Job ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "export.csv, export.json or export.xlsx", "name": "file", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "File download", "schema": {"type": "file"}},
                    "404": {"description": "File not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/report-types": {
            "get": {
                "produces": ["application/json"],
                "tags": ["catalog"],
                "summary": "List report types",
                "responses": {
                    "200": {"description": "Report types", "schema": {"type": "array", "items": {"type": "object", "additionalProperties": true}}}
                }
            }
        },
        "/healthz": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Healthy", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Unhealthy", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        }
    },
    "definitions": {
        "handler.CreateReportResponse": {
            "type": "object",
            "properties": {
                "job": {"$ref": "#/definitions/model.Job"},
                "result": {"type": "object", "additionalProperties": true},
                "files": {"type": "array", "items": {"$ref": "#/definitions/model.ExportFile"}}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "job_id": {"type": "string"},
                "report_type": {"type": "string"},
                "missing_columns": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.ExportFile": {
            "type": "object",
            "properties": {
                "format": {"type": "string"},
                "name": {"type": "string"},
                "url": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "model.Job": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "file_name": {"type": "string"},
                "report_type": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "ingesting", "aggregating", "exporting", "completed", "failed"]},
                "row_count": {"type": "integer"},
                "error": {"type": "string"},
                "from": {"type": "string"},
                "to": {"type": "string"},
                "top_n": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "E-commerce Reports API",
	Description:      "Upload marketplace exports and get aggregated sales, returns, inventory and campaign reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
