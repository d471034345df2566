package transform

import "fmt"

// InvalidEncodingError is the only failure the codec produces: the input was
// not well-formed Base64 text, or the decoded bytes were not valid UTF-8.
// Input preserves the offending text for boundary layers that want to echo
// it back to the user.
type InvalidEncodingError struct {
	Input  string
	Reason string
	Cause  error
}

func (e *InvalidEncodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid base64 input: %v", e.Cause)
	}
	return "invalid base64 input: " + e.Reason
}

func (e *InvalidEncodingError) Unwrap() error { return e.Cause }
