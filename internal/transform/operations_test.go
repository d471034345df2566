package transform

import (
	"context"
	"errors"
	"testing"
)

func TestCaesarOperations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		params   map[string]interface{}
		expected string
	}{
		{"explicit shift", "abc", map[string]interface{}{"shift": 2}, "cde"},
		{"default shift", "Hello, World!", nil, "Khoor, Zruog!"},
		{"json number shift", "abc", map[string]interface{}{"shift": float64(2)}, "cde"},
		{"string shift", "abc", map[string]interface{}{"shift": "2"}, "cde"},
		{"negative shift", "Hello, World!", map[string]interface{}{"shift": -3}, "Ebiil, Tloia!"},
	}

	ctx := context.Background()
	encryptOp, _ := Lookup(OpCaesarEncrypt)
	decryptOp, _ := Lookup(OpCaesarDecrypt)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encrypted, err := encryptOp.Execute(ctx, []byte(tt.input), tt.params)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			if string(encrypted) != tt.expected {
				t.Errorf("encrypt: expected %q, got %q", tt.expected, string(encrypted))
			}

			decrypted, err := decryptOp.Execute(ctx, encrypted, tt.params)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if string(decrypted) != tt.input {
				t.Errorf("decrypt: expected %q, got %q", tt.input, string(decrypted))
			}
		})
	}
}

func TestCaesarOperationBadShiftParam(t *testing.T) {
	ctx := context.Background()
	op, _ := Lookup(OpCaesarEncrypt)

	for _, params := range []map[string]interface{}{
		{"shift": "three"},
		{"shift": []int{3}},
	} {
		if _, err := op.Execute(ctx, []byte("abc"), params); err == nil {
			t.Errorf("expected error for shift parameter %v", params["shift"])
		}
	}
}

func TestBase64Operations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple text", "Hello, World!", "SGVsbG8sIFdvcmxkIQ=="},
		{"empty string", "", ""},
		{"unicode", "Hello 世界", "SGVsbG8g5LiW55WM"},
	}

	ctx := context.Background()
	encoder, _ := Lookup(OpBase64Encode)
	decoder, _ := Lookup(OpBase64Decode)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := encoder.Execute(ctx, []byte(tt.input), nil)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}
			if string(encoded) != tt.expected {
				t.Errorf("encode: expected %q, got %q", tt.expected, string(encoded))
			}

			decoded, err := decoder.Execute(ctx, encoded, nil)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if string(decoded) != tt.input {
				t.Errorf("decode: expected %q, got %q", tt.input, string(decoded))
			}
		})
	}
}

func TestBase64DecodeOperationFailure(t *testing.T) {
	ctx := context.Background()
	decoder, _ := Lookup(OpBase64Decode)

	_, err := decoder.Execute(ctx, []byte("not-valid@@@"), nil)
	if err == nil {
		t.Fatal("expected decode of malformed input to fail")
	}
	var encErr *InvalidEncodingError
	if !errors.As(err, &encErr) {
		t.Fatalf("expected *InvalidEncodingError, got %T", err)
	}
}

func TestOperationReversibility(t *testing.T) {
	pairs := map[string]string{
		OpCaesarEncrypt: OpCaesarDecrypt,
		OpCaesarDecrypt: OpCaesarEncrypt,
		OpBase64Encode:  OpBase64Decode,
		OpBase64Decode:  OpBase64Encode,
	}

	for name, want := range pairs {
		t.Run(name, func(t *testing.T) {
			op, exists := Lookup(name)
			if !exists {
				t.Fatalf("operation %s not found", name)
			}
			reverse, ok := op.Reverse()
			if !ok {
				t.Fatalf("operation %s should be reversible", name)
			}
			if reverse.Name() != want {
				t.Errorf("reverse of %s = %s, want %s", name, reverse.Name(), want)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	if err := Register(nil); err == nil {
		t.Error("expected error registering nil operation")
	}

	op, _ := Lookup(OpCaesarEncrypt)
	if err := Register(op); err == nil {
		t.Error("expected error registering duplicate operation")
	}

	if _, exists := Lookup("missing_op"); exists {
		t.Error("Lookup returned an unregistered operation")
	}

	ops := List()
	if len(ops) < 4 {
		t.Fatalf("expected at least 4 registered operations, got %d", len(ops))
	}
	for i := 1; i < len(ops); i++ {
		if ops[i-1].Name() > ops[i].Name() {
			t.Fatalf("List is not sorted: %s > %s", ops[i-1].Name(), ops[i].Name())
		}
	}

	encrypts := ListByType(OperationTypeEncrypt)
	if len(encrypts) != 1 || encrypts[0].Name() != OpCaesarEncrypt {
		t.Errorf("unexpected encrypt operations: %v", names(encrypts))
	}
}

func names(ops []Operation) []string {
	out := make([]string, len(ops))
	for i, op := range ops {
		out[i] = op.Name()
	}
	return out
}
