package adapter

import (
	"context"
	"errors"
	"net"
)

var (
	ErrUnauthorized   = errors.New("client unauthorized")
	ErrUnidentified   = errors.New("card not identified")
	ErrServerRejected = errors.New("server rejected request")
)

// IsTimeout reports whether err is a deadline failure: either the
// request context expired or the transport hit its own timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNetwork reports whether err is a transport-level failure (refused
// connection, DNS failure, reset) as opposed to a response the server
// actually produced.
func IsNetwork(err error) bool {
	if IsTimeout(err) {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
