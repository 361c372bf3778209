package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/trigg3rX/keybrowser/internal/scanner"
)

const scanTypeNotSupported = "scan per key type is not supported"

// StatusFor maps an error from the browser to an HTTP status and the message
// shown to the client.
func StatusFor(err error, req scanner.ScanRequest) (int, string) {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, scanner.ErrInvalidCursor),
		errors.Is(err, scanner.ErrInvalidClusterCursor),
		errors.Is(err, scanner.ErrUnknownClusterNode):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "the store did not answer in time"
	}

	var redisErr goredis.Error
	if errors.As(err, &redisErr) {
		msg := err.Error()
		if strings.HasPrefix(msg, "NOPERM") {
			return http.StatusForbidden, msg
		}
		if req.Type != "" && strings.Contains(strings.ToLower(msg), "syntax error") {
			return http.StatusBadRequest, scanTypeNotSupported
		}
	}
	return http.StatusInternalServerError, err.Error()
}

func (h *Handler) respondError(c *gin.Context, err error, req scanner.ScanRequest) {
	code, msg := StatusFor(err, req)
	if code >= http.StatusInternalServerError {
		h.logger.Errorf("Key browser request failed: %v", err)
	}
	c.Status(code)
	_ = c.Error(errors.New(msg))
}
