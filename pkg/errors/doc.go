// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeClusterAPI,
//	    "failed to list cluster images",
//	    listErr,
//	    map[string]interface{}{
//	        "resource": "images",
//	    },
//	)
package errors
