package transform

import (
	"context"
	"fmt"
	"strings"
)

// Algorithm identifies one of the transform families exposed at the CLI and
// API boundary. The set is closed: adding a family means adding a constant
// here and extending every switch below, which the compiler and tests keep
// honest.
type Algorithm string

const (
	AlgorithmCaesar Algorithm = "caesar"
	AlgorithmBase64 Algorithm = "base64"
)

// ParseAlgorithm maps a user-supplied name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case AlgorithmCaesar:
		return AlgorithmCaesar, nil
	case AlgorithmBase64:
		return AlgorithmBase64, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q (want caesar or base64)", name)
	}
}

// OperationName returns the registered operation implementing the algorithm
// in the requested direction.
func (a Algorithm) OperationName(encrypting bool) (string, error) {
	switch a {
	case AlgorithmCaesar:
		if encrypting {
			return OpCaesarEncrypt, nil
		}
		return OpCaesarDecrypt, nil
	case AlgorithmBase64:
		if encrypting {
			return OpBase64Encode, nil
		}
		return OpBase64Decode, nil
	default:
		return "", fmt.Errorf("unknown algorithm %q", string(a))
	}
}

// Apply runs the algorithm in the requested direction through the operation
// registry. encrypting selects the forward direction (encrypt/encode).
func Apply(ctx context.Context, algo Algorithm, encrypting bool, input string, params map[string]interface{}) (string, error) {
	name, err := algo.OperationName(encrypting)
	if err != nil {
		return "", err
	}
	op, ok := Lookup(name)
	if !ok {
		return "", fmt.Errorf("operation %s is not registered", name)
	}
	out, err := op.Execute(ctx, []byte(input), params)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
