package paddle

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// MaxTimestampSkew is the replay-protection window around the signature
// timestamp. Deliveries whose ts differs from now by more than this are
// rejected regardless of HMAC validity.
const MaxTimestampSkew = 300 * time.Second

var (
	ErrMissingSignature  = errors.New("paddle-signature header missing or malformed")
	ErrStaleTimestamp    = errors.New("paddle signature timestamp outside allowed window")
	ErrSignatureMismatch = errors.New("paddle signature mismatch")
)

// VerifySignature checks a `Paddle-Signature: ts=<unix>;h1=<hex>` header
// against the raw request body. The signed payload is "{ts}:{body}" and the
// HMAC-SHA256 digest is compared in constant time.
func VerifySignature(header string, body []byte, secret string, now time.Time) error {
	ts, h1, ok := parseSignatureHeader(header)
	if !ok || secret == "" {
		return ErrMissingSignature
	}

	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return ErrMissingSignature
	}
	skew := now.Unix() - tsInt
	if skew < 0 {
		skew = -skew
	}
	if skew > int64(MaxTimestampSkew.Seconds()) {
		return ErrStaleTimestamp
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte(":"))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(h1)) {
		return ErrSignatureMismatch
	}
	return nil
}

// Sign produces a valid Paddle-Signature header value. Used by tests and
// local tooling.
func Sign(body []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte(":"))
	mac.Write(body)
	return "ts=" + ts + ";h1=" + hex.EncodeToString(mac.Sum(nil))
}

func parseSignatureHeader(header string) (ts, h1 string, ok bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", "", false
	}
	for _, part := range strings.Split(header, ";") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "ts":
			ts = kv[1]
		case "h1":
			h1 = kv[1]
		}
	}
	return ts, h1, ts != "" && h1 != ""
}
