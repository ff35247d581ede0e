package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"korskola/pkg/logger"
)

const PaymentSignatureHeader = "X-Payment-Signature"

// PaymentSignatureVerification checks the HMAC-SHA256 of the body sent by the
// payment provider bridge. The body is restored for the next handler.
func PaymentSignatureVerification(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			signature := extractSignature(r)

			if signature == "" {
				rejectSignature(w, log, r, "Missing "+PaymentSignatureHeader+" header")
				return
			}

			body, err := readAndRestoreBody(r)
			if err != nil {
				rejectSignature(w, log, r, "Failed to read request body")
				return
			}

			if !VerifySignature(body, signature, secret) {
				rejectSignature(w, log, r, "Invalid webhook signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractSignature(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(PaymentSignatureHeader))
	if signature, found := strings.CutPrefix(header, "sha256="); found {
		return signature
	}
	return header
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}

func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(body []byte, receivedSignature string, secret string) bool {
	return hmac.Equal([]byte(Sign(body, secret)), []byte(strings.ToLower(receivedSignature)))
}

func rejectSignature(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Payment webhook verification failed",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	writeRawError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
}
