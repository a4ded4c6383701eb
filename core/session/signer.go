package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"
)

var salt = []byte("gradebook.core.session.signer")

type signer struct {
	secretKey []byte
}

// sign returns "<token>.<signature>".
func (s signer) sign(token string) string {
	return token + "." + s.signature(token)
}

// verify checks a signed value and returns the token it carries.
func (s signer) verify(value string) (string, bool) {
	if value == "" {
		return "", false
	}

	idx := strings.LastIndexByte(value, '.')
	if idx <= 0 || idx == len(value)-1 {
		return "", false
	}
	token, sig := value[:idx], value[idx+1:]

	// check that the token has not been tampered with
	if subtle.ConstantTimeCompare([]byte(s.signature(token)), []byte(sig)) == 0 {
		return "", false
	}
	return token, true
}

func (s signer) signature(token string) string {
	key := sha256.Sum256(append(append([]byte{}, salt...), s.secretKey...))
	h := hmac.New(sha256.New, key[:])
	h.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
