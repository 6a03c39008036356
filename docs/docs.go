// Package docs registers the OpenAPI document served under /swagger.
//
// The document is kept in step with the godoc annotations on the handlers.
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.1.0",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "servers": [{"url": "{{.BasePath}}"}],
  "components": {
    "securitySchemes": {
      "BearerAuth": {"type": "http", "scheme": "bearer", "bearerFormat": "JWT"}
    },
    "parameters": {
      "ID": {"name": "id", "in": "path", "required": true, "schema": {"type": "string", "format": "uuid"}},
      "Page": {"name": "page", "in": "query", "schema": {"type": "integer", "default": 1}},
      "PageSize": {"name": "page_size", "in": "query", "schema": {"type": "integer", "default": 20}}
    },
    "schemas": {
      "ErrorInfo": {
        "type": "object",
        "properties": {
          "code": {"type": "string", "example": "ERR_SHIFT_NOT_OPEN"},
          "message": {"type": "string"},
          "request_id": {"type": "string"},
          "timestamp": {"type": "string", "format": "date-time"},
          "details": {"type": "array", "items": {"type": "object", "properties": {"field": {"type": "string"}, "message": {"type": "string"}}}}
        }
      },
      "ErrorResponse": {
        "type": "object",
        "properties": {"success": {"type": "boolean", "example": false}, "error": {"$ref": "#/components/schemas/ErrorInfo"}}
      },
      "Envelope": {
        "type": "object",
        "properties": {
          "success": {"type": "boolean"},
          "data": {},
          "meta": {"type": "object", "properties": {"total": {"type": "integer"}, "page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_pages": {"type": "integer"}}}
        }
      },
      "DrawerRequest": {
        "type": "object",
        "required": ["name"],
        "properties": {"name": {"type": "string", "maxLength": 100}, "location": {"type": "string", "maxLength": 255}}
      },
      "StartShiftCommand": {
        "type": "object",
        "required": ["beginning_saldo"],
        "properties": {"beginning_saldo": {"type": "string", "example": "100000"}, "notes": {"type": "string"}}
      },
      "RecordTransactionCommand": {
        "type": "object",
        "required": ["type", "amount", "currency"],
        "properties": {
          "type": {"type": "string", "enum": ["in", "out", "in_out"]},
          "amount": {"type": "string", "example": "50000"},
          "currency": {"type": "string", "enum": ["UZS", "USD", "EUR", "RUB"]},
          "out_currency": {"type": "string"},
          "out_amount": {"type": "string"},
          "category": {"type": "string", "enum": ["sale", "expense", "change", "deposit", "withdrawal", "exchange", "refund", "other"]},
          "reference": {"type": "string"},
          "notes": {"type": "string"},
          "occurred_at": {"type": "string", "format": "date-time"}
        }
      },
      "CloseShiftCommand": {
        "type": "object",
        "required": ["counted_end_saldo", "denominations"],
        "properties": {
          "counted_end_saldo": {"type": "string"},
          "denominations": {"type": "array", "items": {"type": "object", "properties": {"denomination": {"type": "string"}, "quantity": {"type": "integer"}}}},
          "counted_balances": {"type": "object", "additionalProperties": {"type": "string"}},
          "notes": {"type": "string"},
          "discrepancy_reason": {"type": "string"}
        }
      },
      "ApproveShiftCommand": {"type": "object", "properties": {"notes": {"type": "string"}}},
      "RejectShiftCommand": {"type": "object", "required": ["reason"], "properties": {"reason": {"type": "string"}}},
      "AdjustShiftCommand": {
        "type": "object",
        "required": ["adjusted_amounts", "reason"],
        "properties": {"adjusted_amounts": {"type": "object", "additionalProperties": {"type": "string"}}, "reason": {"type": "string"}}
      }
    },
    "responses": {
      "OK": {"description": "Success", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}},
      "Created": {"description": "Created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}},
      "Error": {"description": "Error", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
    }
  },
  "security": [{"BearerAuth": []}],
  "paths": {
    "/health": {"get": {"operationId": "getHealth", "tags": ["system"], "summary": "Health check", "security": [], "responses": {"200": {"description": "Healthy"}, "503": {"description": "Database unreachable"}}}},
    "/system/info": {"get": {"operationId": "getSystemSystemInfo", "tags": ["system"], "summary": "Get system information", "responses": {"200": {"$ref": "#/components/responses/OK"}}}},
    "/system/ping": {"get": {"operationId": "pingSystem", "tags": ["system"], "summary": "Ping the API", "responses": {"200": {"$ref": "#/components/responses/OK"}}}},
    "/cashdesk/drawers": {
      "post": {"operationId": "createCashDrawer", "tags": ["cash-drawers"], "summary": "Create a cash drawer", "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/DrawerRequest"}}}}, "responses": {"201": {"$ref": "#/components/responses/Created"}, "400": {"$ref": "#/components/responses/Error"}, "403": {"$ref": "#/components/responses/Error"}}},
      "get": {"operationId": "listCashDrawers", "tags": ["cash-drawers"], "summary": "List cash drawers", "parameters": [{"name": "search", "in": "query", "schema": {"type": "string"}}, {"name": "is_active", "in": "query", "schema": {"type": "boolean"}}, {"$ref": "#/components/parameters/Page"}, {"$ref": "#/components/parameters/PageSize"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}
    },
    "/cashdesk/drawers/{id}": {
      "parameters": [{"$ref": "#/components/parameters/ID"}],
      "get": {"operationId": "getCashDrawer", "tags": ["cash-drawers"], "summary": "Get a cash drawer", "responses": {"200": {"$ref": "#/components/responses/OK"}, "404": {"$ref": "#/components/responses/Error"}}},
      "put": {"operationId": "updateCashDrawer", "tags": ["cash-drawers"], "summary": "Rename or relocate a cash drawer", "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/DrawerRequest"}}}}, "responses": {"200": {"$ref": "#/components/responses/OK"}, "404": {"$ref": "#/components/responses/Error"}}}
    },
    "/cashdesk/drawers/{id}/activate": {"parameters": [{"$ref": "#/components/parameters/ID"}], "post": {"operationId": "activateCashDrawer", "tags": ["cash-drawers"], "summary": "Activate a cash drawer", "responses": {"200": {"$ref": "#/components/responses/OK"}}}},
    "/cashdesk/drawers/{id}/deactivate": {"parameters": [{"$ref": "#/components/parameters/ID"}], "post": {"operationId": "deactivateCashDrawer", "tags": ["cash-drawers"], "summary": "Deactivate a cash drawer", "responses": {"200": {"$ref": "#/components/responses/OK"}, "409": {"$ref": "#/components/responses/Error"}}}},
    "/cashdesk/drawers/{id}/shifts": {"parameters": [{"$ref": "#/components/parameters/ID"}], "post": {"operationId": "startCashierShift", "tags": ["cashier-shifts"], "summary": "Open a shift on a drawer", "description": "A cashier can hold only one open shift, across all drawers.", "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/StartShiftCommand"}}}}, "responses": {"201": {"$ref": "#/components/responses/Created"}, "409": {"$ref": "#/components/responses/Error"}, "422": {"$ref": "#/components/responses/Error"}}}},
    "/cashdesk/shifts": {"get": {"operationId": "listCashierShifts", "tags": ["cashier-shifts"], "summary": "List shifts", "parameters": [{"name": "status", "in": "query", "schema": {"type": "string", "enum": ["open", "under_review", "closed"]}}, {"name": "drawer_id", "in": "query", "schema": {"type": "string", "format": "uuid"}}, {"name": "user_id", "in": "query", "schema": {"type": "string", "format": "uuid"}}, {"name": "from", "in": "query", "schema": {"type": "string", "format": "date"}}, {"name": "to", "in": "query", "schema": {"type": "string", "format": "date"}}, {"$ref": "#/components/parameters/Page"}, {"$ref": "#/components/parameters/PageSize"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}}},
    "/cashdesk/shifts/current": {"get": {"operationId": "getCurrentCashierShift", "tags": ["cashier-shifts"], "summary": "Get the caller's open shift", "responses": {"200": {"$ref": "#/components/responses/OK"}, "404": {"$ref": "#/components/responses/Error"}}}},
    "/cashdesk/shifts/{id}": {"parameters": [{"$ref": "#/components/parameters/ID"}], "get": {"operationId": "getCashierShift", "tags": ["cashier-shifts"], "summary": "Get a shift with its ledger, counts and end saldos", "responses": {"200": {"$ref": "#/components/responses/OK"}, "404": {"$ref": "#/components/responses/Error"}}}},
    "/cashdesk/shifts/{id}/summary": {"parameters": [{"$ref": "#/components/parameters/ID"}], "get": {"operationId": "getCashierShiftSummary", "tags": ["cashier-shifts"], "summary": "Per-currency and per-category totals", "responses": {"200": {"$ref": "#/components/responses/OK"}}}},
    "/cashdesk/shifts/{id}/report": {"parameters": [{"$ref": "#/components/parameters/ID"}], "get": {"operationId": "exportCashierShiftReport", "tags": ["cashier-shifts"], "summary": "Download the shift report as XLSX", "responses": {"200": {"description": "Workbook", "content": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {"schema": {"type": "string", "format": "binary"}}}}}}},
    "/cashdesk/shifts/{id}/report/archive": {"parameters": [{"$ref": "#/components/parameters/ID"}], "get": {"operationId": "getArchivedShiftReport", "tags": ["cashier-shifts"], "summary": "Download link for the archived report", "responses": {"200": {"$ref": "#/components/responses/OK"}, "404": {"$ref": "#/components/responses/Error"}, "422": {"$ref": "#/components/responses/Error"}}}},
    "/cashdesk/shifts/{id}/transactions": {
      "parameters": [{"$ref": "#/components/parameters/ID"}],
      "get": {"operationId": "listShiftTransactions", "tags": ["cashier-shifts"], "summary": "List a shift's ledger", "parameters": [{"name": "type", "in": "query", "schema": {"type": "string"}}, {"name": "currency", "in": "query", "schema": {"type": "string"}}, {"name": "category", "in": "query", "schema": {"type": "string"}}, {"$ref": "#/components/parameters/Page"}, {"$ref": "#/components/parameters/PageSize"}], "responses": {"200": {"$ref": "#/components/responses/OK"}}},
      "post": {"operationId": "recordCashTransaction", "tags": ["cashier-shifts"], "summary": "Record a cash movement", "parameters": [{"name": "Idempotency-Key", "in": "header", "schema": {"type": "string"}}], "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/RecordTransactionCommand"}}}}, "responses": {"201": {"$ref": "#/components/responses/Created"}, "400": {"$ref": "#/components/responses/Error"}, "403": {"$ref": "#/components/responses/Error"}, "409": {"$ref": "#/components/responses/Error"}, "422": {"$ref": "#/components/responses/Error"}}}
    },
    "/cashdesk/shifts/{id}/close": {"parameters": [{"$ref": "#/components/parameters/ID"}], "post": {"operationId": "closeCashierShift", "tags": ["cashier-shifts"], "summary": "Close a shift with the counted cash", "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CloseShiftCommand"}}}}, "responses": {"200": {"$ref": "#/components/responses/OK"}, "400": {"$ref": "#/components/responses/Error"}, "422": {"$ref": "#/components/responses/Error"}}}},
    "/cashdesk/shifts/{id}/approve": {"parameters": [{"$ref": "#/components/parameters/ID"}], "post": {"operationId": "approveCashierShift", "tags": ["cashier-shifts"], "summary": "Approve a shift under review", "requestBody": {"content": {"application/json": {"schema": {"$ref": "#/components/schemas/ApproveShiftCommand"}}}}, "responses": {"200": {"$ref": "#/components/responses/OK"}, "422": {"$ref": "#/components/responses/Error"}}}},
    "/cashdesk/shifts/{id}/reject": {"parameters": [{"$ref": "#/components/parameters/ID"}], "post": {"operationId": "rejectCashierShift", "tags": ["cashier-shifts"], "summary": "Send a shift under review back to its cashier", "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/RejectShiftCommand"}}}}, "responses": {"200": {"$ref": "#/components/responses/OK"}, "409": {"$ref": "#/components/responses/Error"}, "422": {"$ref": "#/components/responses/Error"}}}},
    "/cashdesk/shifts/{id}/adjust": {"parameters": [{"$ref": "#/components/parameters/ID"}], "post": {"operationId": "adjustCashierShift", "tags": ["cashier-shifts"], "summary": "Approve a shift with corrected counted amounts", "requestBody": {"required": true, "content": {"application/json": {"schema": {"$ref": "#/components/schemas/AdjustShiftCommand"}}}}, "responses": {"200": {"$ref": "#/components/responses/OK"}, "422": {"$ref": "#/components/responses/Error"}}}}
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Cashdesk API",
	Description:      "Cashier shifts, cash movements and end-of-shift reconciliation for hotel front desks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
