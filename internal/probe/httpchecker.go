package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
)

const userAgent = "Digital-Collections-Monitor/1.0 (Research Tool)"

// Failure classifications, in priority order.
const (
	msgTimeout    = "Request timeout"
	msgConnection = "Connection error"
)

type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker builds a checker whose client applies timeout to the
// whole request lifecycle, redirects included.
func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues one GET against rawURL and classifies the outcome. Every
// call path terminates in a valid ProbeResult; nothing escapes as an
// error or a panic.
func (h *HTTPChecker) Check(ctx context.Context, name, rawURL string) (res domain.ProbeResult) {
	res = domain.ProbeResult{
		CollectionName: name,
		URL:            rawURL,
		Timestamp:      time.Now().UTC(),
	}
	defer func() {
		if r := recover(); r != nil {
			res.StatusCode = nil
			res.ResponseTime = nil
			res.ContentLength = nil
			res.IsAccessible = false
			msg := fmt.Sprintf("Unexpected error: %v", r)
			res.ErrorMessage = &msg
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		msg := fmt.Sprintf("Unexpected error: %v", err)
		res.ErrorMessage = &msg
		return res
	}
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := h.Client.Do(req)
	if err != nil {
		msg := classify(err)
		res.ErrorMessage = &msg
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		msg := classify(err)
		res.ErrorMessage = &msg
		return res
	}
	elapsed := round2(time.Since(start).Seconds())

	code := resp.StatusCode
	length := int64(len(body))
	res.StatusCode = &code
	res.ResponseTime = &elapsed
	res.ContentLength = &length
	res.IsAccessible = code >= 200 && code < 400
	if !res.IsAccessible {
		msg := fmt.Sprintf("HTTP %d", code)
		res.ErrorMessage = &msg
	}
	return res
}

// classify maps a transport error onto the failure taxonomy. Timeouts win
// over everything, then connection-establishment failures (DNS, refused,
// TLS); any other transport error keeps its own description.
func classify(err error) string {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return msgTimeout
	}

	var (
		dnsErr  *net.DNSError
		opErr   *net.OpError
		certErr *tls.CertificateVerificationError
		recErr  tls.RecordHeaderError
		hostErr x509.HostnameError
		authErr x509.UnknownAuthorityError
	)
	if errors.As(err, &dnsErr) || errors.As(err, &opErr) ||
		errors.As(err, &certErr) || errors.As(err, &recErr) ||
		errors.As(err, &hostErr) || errors.As(err, &authErr) {
		return msgConnection
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return err.Error()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
