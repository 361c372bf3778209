package redis

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"

	redis "github.com/redis/go-redis/v9"
)

// IsRetryableError reports whether a connection attempt that failed with err
// is worth repeating.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// redis.Nil and other server replies are answers, not failures of the link.
	if errors.Is(err, redis.Nil) || isServerError(err) {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		var sysErr syscall.Errno
		if errors.As(opErr.Err, &sysErr) {
			if sysErr == syscall.ECONNREFUSED || sysErr == syscall.ECONNRESET {
				return true
			}
		}
	}

	// EOF often means the server closed the connection under us.
	return errors.Is(err, io.EOF)
}
