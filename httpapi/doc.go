// Package httpapi serves remedy matching over HTTP with gin.
//
// Routes:
//
//	GET /api/get_medicine_effect?medicine_name=NAME
//	GET /healthz
//
// Errors are JSON objects with a single "error" field. Lookup failures are
// reported as 404 with a message describing the failure.
package httpapi
