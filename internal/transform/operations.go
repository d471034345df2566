package transform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Registered operation names.
const (
	OpCaesarEncrypt = "caesar_encrypt"
	OpCaesarDecrypt = "caesar_decrypt"
	OpBase64Encode  = "base64_encode"
	OpBase64Decode  = "base64_decode"
)

// DefaultShift is used when a Caesar operation receives no shift parameter.
// It matches the historical CLI default.
const DefaultShift = 3

// CaesarEncryptOp rotates Latin letters forward by the "shift" parameter.
type CaesarEncryptOp struct {
	BaseOperation
}

func (op *CaesarEncryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	shift, err := shiftParam(params)
	if err != nil {
		return nil, err
	}
	return []byte(EncryptCaesar(string(input), shift)), nil
}

// CaesarDecryptOp rotates Latin letters backward by the "shift" parameter.
type CaesarDecryptOp struct {
	BaseOperation
}

func (op *CaesarDecryptOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	shift, err := shiftParam(params)
	if err != nil {
		return nil, err
	}
	return []byte(DecryptCaesar(string(input), shift)), nil
}

// Base64EncodeOp encodes text as standard Base64.
type Base64EncodeOp struct {
	BaseOperation
}

func (op *Base64EncodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	return []byte(EncodeBase64(string(input))), nil
}

// Base64DecodeOp decodes standard Base64 back to text.
type Base64DecodeOp struct {
	BaseOperation
}

func (op *Base64DecodeOp) Execute(ctx context.Context, input []byte, params map[string]interface{}) ([]byte, error) {
	decoded, err := DecodeBase64(string(input))
	if err != nil {
		return nil, err
	}
	return []byte(decoded), nil
}

// shiftParam extracts the Caesar shift from operation parameters. JSON
// callers hand us float64, CLI callers int, recipe files sometimes strings.
func shiftParam(params map[string]interface{}) (int, error) {
	raw, ok := params["shift"]
	if !ok {
		return DefaultShift, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid shift parameter %q: %w", v, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("invalid shift parameter type %T", raw)
	}
}

// init registers the transform operations.
func init() {
	caesarEncrypt := &CaesarEncryptOp{
		BaseOperation: BaseOperation{
			NameValue:        OpCaesarEncrypt,
			TypeValue:        OperationTypeEncrypt,
			DescriptionValue: "Rotate Latin letters forward by the shift parameter",
		},
	}
	caesarDecrypt := &CaesarDecryptOp{
		BaseOperation: BaseOperation{
			NameValue:        OpCaesarDecrypt,
			TypeValue:        OperationTypeDecrypt,
			DescriptionValue: "Rotate Latin letters backward by the shift parameter",
		},
	}
	caesarEncrypt.ReverseOp = caesarDecrypt
	caesarDecrypt.ReverseOp = caesarEncrypt

	base64Encode := &Base64EncodeOp{
		BaseOperation: BaseOperation{
			NameValue:        OpBase64Encode,
			TypeValue:        OperationTypeEncode,
			DescriptionValue: "Encode text as standard Base64",
		},
	}
	base64Decode := &Base64DecodeOp{
		BaseOperation: BaseOperation{
			NameValue:        OpBase64Decode,
			TypeValue:        OperationTypeDecode,
			DescriptionValue: "Decode standard Base64 back to text",
		},
	}
	base64Encode.ReverseOp = base64Decode
	base64Decode.ReverseOp = base64Encode

	mustRegister(caesarEncrypt)
	mustRegister(caesarDecrypt)
	mustRegister(base64Encode)
	mustRegister(base64Decode)
}

func mustRegister(op Operation) {
	if err := Register(op); err != nil {
		panic(err)
	}
}
