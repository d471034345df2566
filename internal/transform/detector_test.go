package transform

import (
	"context"
	"testing"
)

func TestDetectBase64(t *testing.T) {
	detector := NewSmartDetector()
	ctx := context.Background()

	input := EncodeBase64("Hello World, this is a test message!")
	results, err := detector.Detect(ctx, []byte(input))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	if len(results) == 0 {
		t.Fatal("expected at least one detection")
	}
	top := results[0]
	if top.Encoding != "base64" {
		t.Errorf("top encoding = %s, want base64", top.Encoding)
	}
	if top.Operation != OpBase64Decode {
		t.Errorf("suggested operation = %s, want %s", top.Operation, OpBase64Decode)
	}
	if top.Confidence < 0.8 {
		t.Errorf("confidence = %.2f, want >= 0.8", top.Confidence)
	}
}

func TestDetectCaesar(t *testing.T) {
	detector := NewSmartDetector()
	ctx := context.Background()

	plaintext := "the quick brown fox jumps over the lazy dog and then keeps on running through the forest"
	for _, shift := range []int{1, 7, 13, 25} {
		encrypted := EncryptCaesar(plaintext, shift)

		results, err := detector.Detect(ctx, []byte(encrypted))
		if err != nil {
			t.Fatalf("Detect failed for shift %d: %v", shift, err)
		}

		var caesar *DetectionResult
		for i := range results {
			if results[i].Encoding == "caesar" {
				caesar = &results[i]
				break
			}
		}
		if caesar == nil {
			t.Fatalf("shift %d: no caesar candidate in %d results", shift, len(results))
		}
		if caesar.Operation != OpCaesarDecrypt {
			t.Errorf("shift %d: suggested operation = %s", shift, caesar.Operation)
		}
		got, ok := caesar.Parameters["shift"].(int)
		if !ok || got != shift {
			t.Errorf("shift %d: recovered shift = %v", shift, caesar.Parameters["shift"])
		}
	}
}

func TestDetectPlainEnglishNotCaesar(t *testing.T) {
	detector := NewSmartDetector()

	results, err := detector.Detect(context.Background(), []byte("the quick brown fox jumps over the lazy dog"))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	for _, r := range results {
		if r.Encoding == "caesar" {
			t.Errorf("plain English reported as caesar with confidence %.2f", r.Confidence)
		}
	}
}

func TestDetectEmptyInput(t *testing.T) {
	detector := NewSmartDetector()
	if _, err := detector.Detect(context.Background(), nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDetectShortInput(t *testing.T) {
	detector := NewSmartDetector()

	// Too short for both detectors: not a base64 block, too few letters.
	results, err := detector.Detect(context.Background(), []byte("hi"))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no detections for %q, got %d", "hi", len(results))
	}
}

func TestSupportedEncodings(t *testing.T) {
	detector := NewSmartDetector()
	encodings := detector.SupportedEncodings()
	if len(encodings) != 2 {
		t.Fatalf("expected 2 supported encodings, got %v", encodings)
	}
}

func TestDecodeAll(t *testing.T) {
	ctx := context.Background()

	plaintext := "meet me at the old harbour tomorrow at noon sharp"
	encrypted := EncryptCaesar(plaintext, 7)

	attempts, err := DecodeAll(ctx, []byte(encrypted))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}
	if len(attempts) == 0 {
		t.Fatal("expected at least one successful attempt")
	}

	found := false
	for _, attempt := range attempts {
		if attempt.Detection.Encoding == "caesar" {
			found = true
			if string(attempt.Decoded) != plaintext {
				t.Errorf("decoded = %q, want %q", string(attempt.Decoded), plaintext)
			}
			if !attempt.Success {
				t.Error("attempt not marked successful")
			}
		}
	}
	if !found {
		t.Error("no caesar attempt returned")
	}
}

func TestDecodeAllBase64(t *testing.T) {
	encoded := EncodeBase64("layered message")

	attempts, err := DecodeAll(context.Background(), []byte(encoded))
	if err != nil {
		t.Fatalf("DecodeAll failed: %v", err)
	}

	for _, attempt := range attempts {
		if attempt.Detection.Encoding == "base64" {
			if string(attempt.Decoded) != "layered message" {
				t.Errorf("decoded = %q, want %q", string(attempt.Decoded), "layered message")
			}
			return
		}
	}
	t.Error("no base64 attempt returned")
}
