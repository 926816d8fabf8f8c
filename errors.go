// errors.go

package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	// ErrNotFound means no document matched a single-result query.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID means a path parameter is not a valid ObjectID hex string.
	ErrInvalidID = errors.New("invalid identifier")
	// ErrUpstreamTimeout means a store or payment-provider call exceeded its deadline.
	ErrUpstreamTimeout = errors.New("upstream timeout")
	// ErrUpstreamUnavailable means the store connection is gone.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// writeStoreError maps a store-layer error onto an HTTP response.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
	case errors.Is(err, ErrUpstreamTimeout), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "store timeout"})
	case errors.Is(err, ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
