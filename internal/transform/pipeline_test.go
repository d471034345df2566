package transform

import (
	"context"
	"testing"
)

func TestPipelineExecute(t *testing.T) {
	ctx := context.Background()

	pipeline := &Pipeline{
		Operations: []OperationConfig{
			{Name: OpCaesarEncrypt, Parameters: map[string]interface{}{"shift": 3}},
			{Name: OpBase64Encode},
		},
		Reversible: true,
	}

	out, err := pipeline.Execute(ctx, []byte("Hello, World!"))
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	// caesar(3) then base64: "Khoor, Zruog!" encoded.
	want := EncodeBase64("Khoor, Zruog!")
	if string(out) != want {
		t.Errorf("pipeline output = %q, want %q", string(out), want)
	}
}

func TestPipelineReverse(t *testing.T) {
	ctx := context.Background()

	pipeline := &Pipeline{
		Operations: []OperationConfig{
			{Name: OpCaesarEncrypt, Parameters: map[string]interface{}{"shift": 7}},
			{Name: OpBase64Encode},
		},
		Reversible: true,
	}

	input := []byte("Reversible pipelines round trip exactly.")
	forward, err := pipeline.Execute(ctx, input)
	if err != nil {
		t.Fatalf("forward pipeline failed: %v", err)
	}

	reversed, err := pipeline.Reverse()
	if err != nil {
		t.Fatalf("Reverse failed: %v", err)
	}

	if len(reversed.Operations) != 2 {
		t.Fatalf("expected 2 reversed operations, got %d", len(reversed.Operations))
	}
	if reversed.Operations[0].Name != OpBase64Decode {
		t.Errorf("first reversed op = %s, want %s", reversed.Operations[0].Name, OpBase64Decode)
	}
	if reversed.Operations[1].Name != OpCaesarDecrypt {
		t.Errorf("second reversed op = %s, want %s", reversed.Operations[1].Name, OpCaesarDecrypt)
	}

	back, err := reversed.Execute(ctx, forward)
	if err != nil {
		t.Fatalf("reversed pipeline failed: %v", err)
	}
	if string(back) != string(input) {
		t.Errorf("round trip = %q, want %q", string(back), string(input))
	}
}

func TestPipelineUnknownOperation(t *testing.T) {
	pipeline := &Pipeline{
		Operations: []OperationConfig{{Name: "rot47"}},
		Reversible: true,
	}

	if _, err := pipeline.Execute(context.Background(), []byte("x")); err == nil {
		t.Error("expected error for unknown operation")
	}
	if _, err := pipeline.Reverse(); err == nil {
		t.Error("expected Reverse error for unknown operation")
	}
}

func TestPipelineNotReversible(t *testing.T) {
	pipeline := &Pipeline{
		Operations: []OperationConfig{{Name: OpBase64Encode}},
		Reversible: false,
	}

	if _, err := pipeline.Reverse(); err == nil {
		t.Error("expected error reversing a non-reversible pipeline")
	}
}

func TestPipelineStepFailure(t *testing.T) {
	pipeline := &Pipeline{
		Operations: []OperationConfig{
			{Name: OpCaesarEncrypt},
			{Name: OpBase64Decode},
		},
	}

	// Caesar output of plain text is not valid base64 input.
	if _, err := pipeline.Execute(context.Background(), []byte("definitely not base64 @@@")); err == nil {
		t.Error("expected the decode step to fail")
	}
}
