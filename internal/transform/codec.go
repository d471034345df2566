package transform

import (
	"encoding/base64"
	"unicode/utf8"
)

// EncodeBase64 encodes the UTF-8 bytes of text using the standard RFC 4648
// alphabet with padding. Encoding never fails.
func EncodeBase64(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// DecodeBase64 reverses EncodeBase64. Input containing characters outside
// the standard alphabet, structurally bad padding, or bytes that do not form
// valid UTF-8 after decoding all fail with *InvalidEncodingError.
func DecodeBase64(encoded string) (string, error) {
	decoded, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil {
		return "", &InvalidEncodingError{Input: encoded, Cause: err}
	}
	if !utf8.Valid(decoded) {
		return "", &InvalidEncodingError{Input: encoded, Reason: "decoded bytes are not valid UTF-8"}
	}
	return string(decoded), nil
}
