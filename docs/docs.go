// Package docs registers the OpenAPI description served at /api-docs. It is
// kept in the layout swag init emits and lists every route the server mounts.
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
        "/health": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "responses": {
                    "200": {
                        "description": "Service is up",
                        "schema": {
                            "$ref": "#/definitions/model.HealthResponse"
                        }
                    }
                }
            }
        },
        "/v1/invoices": {
            "get": {
                "description": "List uploaded invoice files in upload order. Text filters match by case-insensitive substring; a date range only matches invoices with a known issue date.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "List invoices",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Provider name contains",
                        "name": "provider",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Tax id contains",
                        "name": "taxId",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Invoice number contains",
                        "name": "invoiceNumber",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Issued on or after (YYYY-MM-DD)",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Issued on or before (YYYY-MM-DD)",
                        "name": "to",
                        "in": "query"
                    },
                    {
                        "enum": [
                            "idle",
                            "processing",
                            "success",
                            "error"
                        ],
                        "type": "string",
                        "description": "Processing status",
                        "name": "status",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Invoice files",
                        "schema": {
                            "$ref": "#/definitions/model.InvoiceFileListResponse"
                        }
                    },
                    "400": {
                        "description": "Invalid query parameters",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            },
            "post": {
                "description": "Register one or more invoice images or PDFs. Files are stored as idle until processed; the same document uploaded twice is registered once.",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Upload invoices",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Invoice images or PDFs",
                        "name": "files",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Registered files and rejected uploads",
                        "schema": {
                            "$ref": "#/definitions/model.UploadResponse"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/invoices/process": {
            "post": {
                "description": "Extract every idle file concurrently. Each file ends as success or error on its own.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Process pending invoices",
                "responses": {
                    "200": {
                        "description": "All invoice files after processing",
                        "schema": {
                            "$ref": "#/definitions/model.InvoiceFileListResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/invoices/process-file": {
            "post": {
                "description": "Upload a single invoice image or PDF and extract its data right away",
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Process an invoice",
                "parameters": [
                    {
                        "type": "file",
                        "description": "Invoice image or PDF",
                        "name": "file",
                        "in": "formData",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Processed file; status tells whether extraction succeeded",
                        "schema": {
                            "$ref": "#/definitions/domain.InvoiceFile"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "415": {
                        "description": "Unsupported document type",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/invoices/{id}": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Get an invoice",
                "parameters": [
                    {
                        "type": "string",
                        "description": "File id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Invoice file",
                        "schema": {
                            "$ref": "#/definitions/domain.InvoiceFile"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            },
            "delete": {
                "description": "Remove a file and its extracted data. Files being processed cannot be removed.",
                "tags": [
                    "invoices"
                ],
                "summary": "Delete an invoice",
                "parameters": [
                    {
                        "type": "string",
                        "description": "File id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "204": {
                        "description": "Deleted"
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "File is being processed",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/invoices/{id}/retry": {
            "post": {
                "description": "Extract an idle or failed file again",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "invoices"
                ],
                "summary": "Retry an invoice",
                "parameters": [
                    {
                        "type": "string",
                        "description": "File id",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "File after the attempt",
                        "schema": {
                            "$ref": "#/definitions/domain.InvoiceFile"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "File is being processed or already succeeded",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/dashboard": {
            "get": {
                "description": "Totals per provider, alerts and monthly spend series, recomputed from every successfully extracted invoice",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "dashboard"
                ],
                "summary": "Get the dashboard",
                "responses": {
                    "200": {
                        "description": "Dashboard",
                        "schema": {
                            "$ref": "#/definitions/domain.Dashboard"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/alerts": {
            "get": {
                "description": "Alerts sorted newest first, optionally limited to one kind",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "dashboard"
                ],
                "summary": "List alerts",
                "parameters": [
                    {
                        "enum": [
                            "duplicate",
                            "anomaly",
                            "new_provider",
                            "missing_invoice",
                            "cost_trend"
                        ],
                        "type": "string",
                        "description": "Alert kind",
                        "name": "kind",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Alerts",
                        "schema": {
                            "$ref": "#/definitions/model.AlertListResponse"
                        }
                    },
                    "400": {
                        "description": "Unknown alert kind",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/chat": {
            "post": {
                "description": "Streams the reply as server-sent events: \"message\" events carry text chunks, then a single \"done\" or \"error\" event carries the final model message. With includeContext the extracted invoices are sent along with the question.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "text/event-stream"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Ask the assistant",
                "parameters": [
                    {
                        "description": "Message",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/model.ChatRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Event stream",
                        "schema": {
                            "$ref": "#/definitions/model.ChatChunk"
                        }
                    },
                    "400": {
                        "description": "Empty message",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "409": {
                        "description": "Another message is being answered",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/chat/messages": {
            "get": {
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "chat"
                ],
                "summary": "Get the transcript",
                "responses": {
                    "200": {
                        "description": "Transcript",
                        "schema": {
                            "$ref": "#/definitions/model.ChatTranscriptResponse"
                        }
                    }
                }
            },
            "delete": {
                "description": "Start over with only the greeting",
                "tags": [
                    "chat"
                ],
                "summary": "Reset the transcript",
                "responses": {
                    "204": {
                        "description": "Reset"
                    },
                    "409": {
                        "description": "Another message is being answered",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/v1/export": {
            "get": {
                "description": "Download the successfully extracted invoices matching the filters. The essential layout has one row per invoice; the detailed layout has one row per line item.",
                "produces": [
                    "text/csv",
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "tags": [
                    "export"
                ],
                "summary": "Export invoices",
                "parameters": [
                    {
                        "enum": [
                            "csv",
                            "xlsx"
                        ],
                        "type": "string",
                        "default": "csv",
                        "description": "File format",
                        "name": "format",
                        "in": "query"
                    },
                    {
                        "enum": [
                            "essential",
                            "detailed"
                        ],
                        "type": "string",
                        "default": "essential",
                        "description": "Layout",
                        "name": "detail",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Provider name contains",
                        "name": "provider",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Tax id contains",
                        "name": "taxId",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Invoice number contains",
                        "name": "invoiceNumber",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Issued on or after (YYYY-MM-DD)",
                        "name": "from",
                        "in": "query"
                    },
                    {
                        "type": "string",
                        "description": "Issued on or before (YYYY-MM-DD)",
                        "name": "to",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Spreadsheet",
                        "schema": {
                            "type": "file"
                        }
                    },
                    "400": {
                        "description": "Invalid query parameters",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    },
                    "500": {
                        "description": "Internal server error",
                        "schema": {
                            "$ref": "#/definitions/model.ErrorResponse"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.LineItem": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "quantity": {
                    "type": "number"
                },
                "unitPrice": {
                    "type": "number"
                },
                "totalPrice": {
                    "type": "number"
                }
            }
        },
        "domain.InvoiceRecord": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "provider": {
                    "type": "string"
                },
                "taxId": {
                    "type": "string"
                },
                "invoiceNumber": {
                    "type": "string"
                },
                "issueDate": {
                    "type": "string",
                    "example": "2024-01-15"
                },
                "dueDate": {
                    "type": "string",
                    "example": "2024-01-15"
                },
                "total": {
                    "type": "number"
                },
                "taxableBase": {
                    "type": "number"
                },
                "taxAmount": {
                    "type": "number"
                },
                "lineItems": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.LineItem"
                    }
                }
            }
        },
        "domain.InvoiceFile": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "fileName": {
                    "type": "string"
                },
                "mediaType": {
                    "type": "string"
                },
                "size": {
                    "type": "integer"
                },
                "status": {
                    "type": "string",
                    "enum": [
                        "idle",
                        "processing",
                        "success",
                        "error"
                    ]
                },
                "record": {
                    "$ref": "#/definitions/domain.InvoiceRecord"
                },
                "error": {
                    "type": "string"
                },
                "archiveUrl": {
                    "type": "string"
                },
                "uploadedAt": {
                    "type": "string"
                },
                "processedAt": {
                    "type": "string"
                }
            }
        },
        "domain.Alert": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "string"
                },
                "kind": {
                    "type": "string",
                    "enum": [
                        "duplicate",
                        "anomaly",
                        "new_provider",
                        "missing_invoice",
                        "cost_trend"
                    ]
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "date": {
                    "type": "string",
                    "example": "2024-01-15"
                },
                "sourceRecordId": {
                    "type": "string"
                }
            }
        },
        "domain.ProviderAggregate": {
            "type": "object",
            "properties": {
                "provider": {
                    "type": "string"
                },
                "totalBilled": {
                    "type": "number"
                },
                "recordCount": {
                    "type": "integer"
                }
            }
        },
        "domain.SeriesPoint": {
            "type": "object",
            "properties": {
                "label": {
                    "type": "string",
                    "example": "Ene '24"
                },
                "year": {
                    "type": "integer"
                },
                "month": {
                    "type": "integer"
                },
                "amount": {
                    "type": "number"
                }
            }
        },
        "domain.Dashboard": {
            "type": "object",
            "properties": {
                "totalBilled": {
                    "type": "number"
                },
                "recordCount": {
                    "type": "integer"
                },
                "providerAggregates": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.ProviderAggregate"
                    }
                },
                "alerts": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Alert"
                    }
                },
                "unvalidatedProviderCount": {
                    "type": "integer"
                },
                "providerTimeSeries": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "$ref": "#/definitions/domain.SeriesPoint"
                        }
                    }
                },
                "conceptTimeSeries": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "array",
                        "items": {
                            "$ref": "#/definitions/domain.SeriesPoint"
                        }
                    }
                },
                "providers": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "concepts": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                }
            }
        },
        "domain.Message": {
            "type": "object",
            "properties": {
                "role": {
                    "type": "string",
                    "enum": [
                        "user",
                        "model"
                    ]
                },
                "text": {
                    "type": "string"
                }
            }
        },
        "model.ErrorDetail": {
            "type": "object",
            "properties": {
                "field": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                }
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "details": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.ErrorDetail"
                    }
                }
            }
        },
        "model.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                }
            }
        },
        "model.RejectedUpload": {
            "type": "object",
            "properties": {
                "fileName": {
                    "type": "string"
                },
                "reason": {
                    "type": "string"
                }
            }
        },
        "model.UploadResponse": {
            "type": "object",
            "properties": {
                "files": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.InvoiceFile"
                    }
                },
                "rejected": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/model.RejectedUpload"
                    }
                }
            }
        },
        "model.InvoiceFileListResponse": {
            "type": "object",
            "properties": {
                "files": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.InvoiceFile"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "model.AlertListResponse": {
            "type": "object",
            "properties": {
                "alerts": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Alert"
                    }
                },
                "count": {
                    "type": "integer"
                }
            }
        },
        "model.ChatRequest": {
            "type": "object",
            "required": [
                "message"
            ],
            "properties": {
                "message": {
                    "type": "string"
                },
                "includeContext": {
                    "type": "boolean"
                }
            }
        },
        "model.ChatChunk": {
            "type": "object",
            "properties": {
                "text": {
                    "type": "string"
                }
            }
        },
        "model.ChatTranscriptResponse": {
            "type": "object",
            "properties": {
                "messages": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/domain.Message"
                    }
                },
                "busy": {
                    "type": "boolean"
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Invoice Insights API",
	Description:      "Extracts logistics invoices with AI and serves spend aggregates, alerts, exports and an analysis assistant.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
