// Package docs provides Swagger documentation for the Auto Insurance API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Auto Insurance API",
        "description": "Car Insurance Quotation and Policy Management API.\n\nThis API implements a complete quotation workflow:\n1. **Drivers / Vehicles / Payment Methods** - Manage the reference entities\n2. **Quotations** - Price a driver/vehicle/payment combination\n3. **Decisions** - Approve or reject pending quotations\n4. **Policies** - Issue, manage and renew coverage from approved quotations",
        "contact": {
            "name": "API Support",
            "url": "https://github.com/MrKriegler/auto-insurance"
        },
        "license": {
            "name": "MIT"
        },
        "version": "1.0.0"
    },
    "host": "localhost:8080",
    "basePath": "/api/v1",
    "schemes": ["http", "https"],
    "consumes": ["application/json"],
    "produces": ["application/json"],
    "paths": {
        "/drivers": {
            "get": {
                "tags": ["Drivers"],
                "summary": "List all drivers",
                "operationId": "listDrivers",
                "responses": {
                    "200": {
                        "description": "Successful response",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/Driver"}
                        }
                    },
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "post": {
                "tags": ["Drivers"],
                "summary": "Create a driver",
                "operationId": "createDriver",
                "parameters": [
                    {
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/DriverInput"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Driver"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/drivers/{driver_id}": {
            "get": {
                "tags": ["Drivers"],
                "summary": "Get a driver by ID",
                "operationId": "getDriver",
                "parameters": [
                    {"name": "driver_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Successful response", "schema": {"$ref": "#/definitions/Driver"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "put": {
                "tags": ["Drivers"],
                "summary": "Update a driver",
                "operationId": "updateDriver",
                "parameters": [
                    {"name": "driver_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DriverInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Driver"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["Drivers"],
                "summary": "Delete a driver",
                "description": "Fails with 409 when a quotation references the driver.",
                "operationId": "deleteDriver",
                "parameters": [
                    {"name": "driver_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "409": {"description": "Referenced by a quotation", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/vehicles": {
            "get": {
                "tags": ["Vehicles"],
                "summary": "List all vehicles",
                "operationId": "listVehicles",
                "responses": {
                    "200": {
                        "description": "Successful response",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/Vehicle"}
                        }
                    }
                }
            },
            "post": {
                "tags": ["Vehicles"],
                "summary": "Create a vehicle",
                "operationId": "createVehicle",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VehicleInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Vehicle"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/vehicles/{vehicle_id}": {
            "get": {
                "tags": ["Vehicles"],
                "summary": "Get a vehicle by ID",
                "operationId": "getVehicle",
                "parameters": [
                    {"name": "vehicle_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Successful response", "schema": {"$ref": "#/definitions/Vehicle"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "put": {
                "tags": ["Vehicles"],
                "summary": "Update a vehicle",
                "operationId": "updateVehicle",
                "parameters": [
                    {"name": "vehicle_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VehicleInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Vehicle"}}
                }
            },
            "delete": {
                "tags": ["Vehicles"],
                "summary": "Delete a vehicle",
                "operationId": "deleteVehicle",
                "parameters": [
                    {"name": "vehicle_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Referenced by a quotation", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/payment-methods": {
            "get": {
                "tags": ["PaymentMethods"],
                "summary": "List all payment methods",
                "operationId": "listPaymentMethods",
                "responses": {
                    "200": {
                        "description": "Successful response",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/PaymentMethod"}
                        }
                    }
                }
            },
            "post": {
                "tags": ["PaymentMethods"],
                "summary": "Create a payment method",
                "operationId": "createPaymentMethod",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentMethodInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/PaymentMethod"}}
                }
            }
        },
        "/payment-methods/{payment_method_id}": {
            "get": {
                "tags": ["PaymentMethods"],
                "summary": "Get a payment method by ID",
                "operationId": "getPaymentMethod",
                "parameters": [
                    {"name": "payment_method_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Successful response", "schema": {"$ref": "#/definitions/PaymentMethod"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "put": {
                "tags": ["PaymentMethods"],
                "summary": "Update a payment method",
                "operationId": "updatePaymentMethod",
                "parameters": [
                    {"name": "payment_method_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PaymentMethodInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/PaymentMethod"}}
                }
            },
            "delete": {
                "tags": ["PaymentMethods"],
                "summary": "Delete a payment method",
                "operationId": "deletePaymentMethod",
                "parameters": [
                    {"name": "payment_method_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "409": {"description": "Referenced by a quotation", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/quotations": {
            "get": {
                "tags": ["Quotations"],
                "summary": "List quotations",
                "operationId": "listQuotations",
                "parameters": [
                    {"name": "driver_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["pending", "approved", "rejected"]}
                ],
                "responses": {
                    "200": {
                        "description": "Successful response",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/Quotation"}
                        }
                    }
                }
            },
            "post": {
                "tags": ["Quotations"],
                "summary": "Create a quotation",
                "description": "Resolves the referenced driver, vehicle and payment method, evaluates the risk once and persists the priced verdict. Rejected risks still return the full cost breakdown.",
                "operationId": "createQuotation",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QuotationInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Quotation"}},
                    "400": {"description": "Validation error or unresolvable reference", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/quotations/{quotation_id}": {
            "get": {
                "tags": ["Quotations"],
                "summary": "Get a quotation by ID",
                "operationId": "getQuotation",
                "parameters": [
                    {"name": "quotation_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Successful response", "schema": {"$ref": "#/definitions/Quotation"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            },
            "delete": {
                "tags": ["Quotations"],
                "summary": "Delete a quotation",
                "description": "Fails with 409 once a policy was issued from the quotation.",
                "operationId": "deleteQuotation",
                "parameters": [
                    {"name": "quotation_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "409": {"description": "Covered by a policy", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/quotations/{quotation_id}/status": {
            "patch": {
                "tags": ["Quotations"],
                "summary": "Approve or reject a quotation",
                "description": "Approved and rejected override each other while the quotation is unexpired; pending is never re-enterable.",
                "operationId": "setQuotationStatus",
                "parameters": [
                    {"name": "quotation_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/QuotationStatusInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Quotation"}},
                    "409": {"description": "Invalid transition or lost race", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "410": {"description": "Quotation expired", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/policies": {
            "get": {
                "tags": ["Policies"],
                "summary": "List policies",
                "operationId": "listPolicies",
                "parameters": [
                    {"name": "quotation_id", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["active", "expired", "cancelled", "suspended"]},
                    {"name": "limit", "in": "query", "type": "integer", "default": 20},
                    {"name": "offset", "in": "query", "type": "integer", "default": 0}
                ],
                "responses": {
                    "200": {"description": "Successful response", "schema": {"$ref": "#/definitions/PolicyList"}}
                }
            },
            "post": {
                "tags": ["Policies"],
                "summary": "Issue a policy from an approved quotation",
                "operationId": "issuePolicy",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/IssueInput"}}
                ],
                "responses": {
                    "201": {"description": "Issued", "schema": {"$ref": "#/definitions/Policy"}},
                    "404": {"description": "Quotation not found", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "409": {"description": "Quotation not approved or already covered", "schema": {"$ref": "#/definitions/ProblemDetails"}},
                    "410": {"description": "Quotation expired", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/policies/{policy_id}": {
            "get": {
                "tags": ["Policies"],
                "summary": "Get a policy by ID",
                "operationId": "getPolicy",
                "parameters": [
                    {"name": "policy_id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Successful response", "schema": {"$ref": "#/definitions/Policy"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/policies/by-number/{policy_number}": {
            "get": {
                "tags": ["Policies"],
                "summary": "Get a policy by its public number",
                "operationId": "getPolicyByNumber",
                "parameters": [
                    {"name": "policy_number", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Successful response", "schema": {"$ref": "#/definitions/Policy"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/policies/{policy_id}/status": {
            "patch": {
                "tags": ["Policies"],
                "summary": "Apply a manual lifecycle transition",
                "description": "Cancel, suspend or reactivate a policy. Cancelled policies are immutable; expired policies can only be renewed.",
                "operationId": "updatePolicyStatus",
                "parameters": [
                    {"name": "policy_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PolicyStatusInput"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Policy"}},
                    "409": {"description": "Invalid transition", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        },
        "/policies/{policy_id}:renew": {
            "post": {
                "tags": ["Policies"],
                "summary": "Renew an expired policy",
                "description": "Creates a successor policy linked to the same quotation. Each expired policy can be renewed at most once.",
                "operationId": "renewPolicy",
                "parameters": [
                    {"name": "policy_id", "in": "path", "required": true, "type": "string"},
                    {"name": "body", "in": "body", "schema": {"$ref": "#/definitions/RenewInput"}}
                ],
                "responses": {
                    "201": {"description": "Renewed", "schema": {"$ref": "#/definitions/Policy"}},
                    "409": {"description": "Policy not expired or already renewed", "schema": {"$ref": "#/definitions/ProblemDetails"}}
                }
            }
        }
    },
    "definitions": {
        "Driver": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "age": {"type": "integer"},
                "license_class": {"type": "string", "enum": ["A", "B", "C", "D", "E"]},
                "phone": {"type": "string"},
                "accidents": {"type": "integer"}
            }
        },
        "DriverInput": {
            "type": "object",
            "required": ["first_name", "last_name", "age", "license_class", "phone"],
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "age": {"type": "integer"},
                "license_class": {"type": "string", "enum": ["A", "B", "C", "D", "E"]},
                "phone": {"type": "string", "example": "5512345678"},
                "accidents": {"type": "integer"}
            }
        },
        "Vehicle": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "model": {"type": "string"},
                "year": {"type": "integer"},
                "color": {"type": "string"},
                "body_type": {"type": "string", "enum": ["sedan", "suv", "pickup", "compact", "sports", "hatchback", "van"]},
                "usage": {"type": "string", "enum": ["personal", "private", "commercial"]},
                "price": {"type": "number"}
            }
        },
        "VehicleInput": {
            "type": "object",
            "required": ["model", "year", "body_type", "usage", "price"],
            "properties": {
                "model": {"type": "string"},
                "year": {"type": "integer"},
                "color": {"type": "string"},
                "body_type": {"type": "string"},
                "usage": {"type": "string"},
                "price": {"type": "number"}
            }
        },
        "PaymentMethod": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "example": "credit card"},
                "validated": {"type": "boolean"}
            }
        },
        "PaymentMethodInput": {
            "type": "object",
            "required": ["type"],
            "properties": {
                "type": {"type": "string"},
                "validated": {"type": "boolean"}
            }
        },
        "LineItem": {
            "type": "object",
            "properties": {
                "label": {"type": "string", "example": "young driver"},
                "amount": {"type": "number"}
            }
        },
        "Quotation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "driver_id": {"type": "string"},
                "vehicle_id": {"type": "string"},
                "payment_method_id": {"type": "string"},
                "issued_at": {"type": "string", "format": "date-time"},
                "expires_at": {"type": "string", "format": "date-time"},
                "base_cost": {"type": "number"},
                "surcharges": {"type": "array", "items": {"$ref": "#/definitions/LineItem"}},
                "discounts": {"type": "array", "items": {"$ref": "#/definitions/LineItem"}},
                "surcharge_total": {"type": "number"},
                "discount_total": {"type": "number"},
                "final_cost": {"type": "number"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected"]},
                "rejection_reason": {"type": "string"},
                "terms_accepted": {"type": "boolean"},
                "expired": {"type": "boolean"}
            }
        },
        "QuotationInput": {
            "type": "object",
            "required": ["driver_id", "vehicle_id", "payment_method_id", "terms_accepted"],
            "properties": {
                "driver_id": {"type": "string"},
                "vehicle_id": {"type": "string"},
                "payment_method_id": {"type": "string"},
                "terms_accepted": {"type": "boolean"}
            }
        },
        "QuotationStatusInput": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["approved", "rejected"]},
                "reason": {"type": "string", "description": "Required when rejecting"}
            }
        },
        "Policy": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "number": {"type": "string", "example": "POL-1735689600000-0042"},
                "quotation_id": {"type": "string"},
                "renewed_from": {"type": "string"},
                "start_date": {"type": "string", "format": "date-time"},
                "end_date": {"type": "string", "format": "date-time"},
                "status": {"type": "string", "enum": ["active", "expired", "cancelled", "suspended"]},
                "notes": {"type": "array", "items": {"type": "string"}},
                "issued_at": {"type": "string", "format": "date-time"},
                "expired": {"type": "boolean"},
                "days_remaining": {"type": "integer"}
            }
        },
        "IssueInput": {
            "type": "object",
            "required": ["quotation_id"],
            "properties": {
                "quotation_id": {"type": "string"},
                "start_date": {"type": "string", "example": "2025-06-01"}
            }
        },
        "PolicyStatusInput": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["active", "cancelled", "suspended"]},
                "note": {"type": "string"}
            }
        },
        "RenewInput": {
            "type": "object",
            "properties": {
                "new_start_date": {"type": "string", "example": "2026-06-01"}
            }
        },
        "PolicyList": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/Policy"}},
                "total": {"type": "integer"},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        },
        "ProblemDetails": {
            "type": "object",
            "description": "RFC 7807 Problem Details",
            "properties": {
                "type": {"type": "string", "example": "about:blank"},
                "title": {"type": "string", "example": "Not Found"},
                "status": {"type": "integer", "example": 404},
                "detail": {"type": "string", "example": "Resource not found"}
            }
        }
    },
    "tags": [
        {"name": "Drivers", "description": "Driver records used for pricing"},
        {"name": "Vehicles", "description": "Insured vehicle catalog"},
        {"name": "PaymentMethods", "description": "Payment methods used at quotation time"},
        {"name": "Quotations", "description": "Priced, time-boxed offers"},
        {"name": "Policies", "description": "Issued coverage contracts"}
    ]
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Auto Insurance API",
	Description:      "Car Insurance Quotation and Policy Management API",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
