package httpclient

import (
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/go-resty/resty/v2"
)

// MaxRetry is the number of retries attempted after the first request.
const MaxRetry = 5

// retryCondition retries connection-level failures and 5xx responses. Any other
// outcome, 4xx included, is final.
func retryCondition(resp *resty.Response, err error) bool {
	if err != nil {
		return isConnectionFailure(err)
	}
	return resp != nil && resp.StatusCode() >= http.StatusInternalServerError
}

func isConnectionFailure(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
