package util

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/core/model/response"
)

// CursorCodec signs pagination cursors so clients cannot forge offsets.
type CursorCodec struct {
	secret []byte
}

func NewCursorCodec(secret string) *CursorCodec {
	return &CursorCodec{secret: []byte(secret)}
}

func (cc *CursorCodec) hmacSignature(encoded string) string {
	mac := hmac.New(sha256.New, cc.secret)
	mac.Write([]byte(encoded))
	return base64.URLEncoding.EncodeToString(mac.Sum(nil))
}

func (cc *CursorCodec) verifySignature(encoded string, signature string) bool {
	expectedSignature := cc.hmacSignature(encoded)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

func (cc *CursorCodec) Encode(date string, id int) string {
	data := response.CursorData{Datetime: date, ID: id}
	jsonData, _ := json.Marshal(data)
	encoded := base64.URLEncoding.EncodeToString(jsonData)
	signature := cc.hmacSignature(encoded)

	return encoded + "." + signature
}

func (cc *CursorCodec) Decode(token string) (string, int, error) {
	parts := strings.Split(token, ".")

	if len(parts) != 2 {
		return "", 0, errors.New("invalid cursor format")
	}

	if !cc.verifySignature(parts[0], parts[1]) {
		return "", 0, errors.New("invalid cursor signature")
	}

	decoded, err := base64.URLEncoding.DecodeString(parts[0])

	if err != nil {
		return "", 0, err
	}

	var cursor response.CursorData

	if err := json.Unmarshal(decoded, &cursor); err != nil {
		return "", 0, err
	}

	return cursor.Datetime, cursor.ID, nil
}
