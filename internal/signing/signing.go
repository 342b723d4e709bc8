// Package signing issues and checks HMAC-signed, expiring download links
// for exported artifacts.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrBadSignature = errors.New("invalid signature")
	ErrExpired      = errors.New("link expired")
)

// Signer generates and validates HMAC based signatures.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer.
func NewSigner(secret []byte) *Signer {
	return &Signer{secret: secret}
}

// Sign returns the hex signature over artifactID and the expiry.
func (s *Signer) Sign(artifactID string, expiresUnix int64) string {
	mac := hmac.New(sha256.New, s.secret)
	payload := fmt.Sprintf("%s:%d", artifactID, expiresUnix)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// Validate compares the provided signature with the expected one. It does
// not look at the expiry.
func (s *Signer) Validate(artifactID, expires, signature string) bool {
	exp, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		return false
	}
	expected := s.Sign(artifactID, exp)
	// hmac.Equal compares in constant time.
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Query returns the artifact, expires and signature parameters of a link
// valid for ttl from now.
func (s *Signer) Query(artifactID string, ttl time.Duration, now time.Time) url.Values {
	expires := now.Add(ttl).Unix()
	q := url.Values{}
	q.Set("artifact", artifactID)
	q.Set("expires", strconv.FormatInt(expires, 10))
	q.Set("signature", s.Sign(artifactID, expires))
	return q
}

// Check validates link parameters and returns the artifact id they grant.
func (s *Signer) Check(q url.Values, now time.Time) (string, error) {
	id, expires, sig := q.Get("artifact"), q.Get("expires"), q.Get("signature")
	if id == "" || !s.Validate(id, expires, sig) {
		return "", ErrBadSignature
	}
	exp, _ := strconv.ParseInt(expires, 10, 64)
	if now.Unix() > exp {
		return "", ErrExpired
	}
	return id, nil
}
