package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunEncryptDecryptFileRoundTrip(t *testing.T) {
	restore := silenceOutput(t)
	defer restore()
	isolateConfig(t)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "plain.txt")
	encPath := filepath.Join(dir, "cipher.txt")
	decPath := filepath.Join(dir, "round.txt")
	if err := os.WriteFile(inPath, []byte("Hello, World!"), 0o644); err != nil {
		t.Fatal(err)
	}

	if code := runEncrypt([]string{"--algo", "caesar", "--shift", "7", "--in", inPath, "--out", encPath}); code != 0 {
		t.Fatalf("encrypt exited %d", code)
	}
	encrypted, err := os.ReadFile(encPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(encrypted) != "Olssv, Dvysk!" {
		t.Fatalf("unexpected ciphertext: %q", string(encrypted))
	}

	if code := runDecrypt([]string{"--algo", "caesar", "--shift", "7", "--in", encPath, "--out", decPath}); code != 0 {
		t.Fatalf("decrypt exited %d", code)
	}
	decrypted, err := os.ReadFile(decPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(decrypted) != "Hello, World!" {
		t.Fatalf("round trip mismatch: %q", string(decrypted))
	}
}

func TestRunEncryptBase64Literal(t *testing.T) {
	restore := silenceOutput(t)
	defer restore()
	isolateConfig(t)

	dir := t.TempDir()
	outPath := filepath.Join(dir, "encoded.txt")
	if code := runEncrypt([]string{"--algo", "base64", "--in", "Hello", "--out", outPath}); code != 0 {
		t.Fatalf("encrypt exited %d", code)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "SGVsbG8=" {
		t.Fatalf("unexpected output: %q", string(data))
	}
}

func TestRunDecryptInvalidBase64(t *testing.T) {
	restore := silenceOutput(t)
	defer restore()
	isolateConfig(t)

	if code := runDecrypt([]string{"--algo", "base64", "--in", "not-valid@@@"}); code != 1 {
		t.Fatalf("expected exit code 1 for invalid base64, got %d", code)
	}
}

func TestRunEncryptUnknownAlgorithm(t *testing.T) {
	restore := silenceOutput(t)
	defer restore()
	isolateConfig(t)

	if code := runEncrypt([]string{"--algo", "aes", "--in", "x"}); code != 2 {
		t.Fatalf("expected exit code 2 for unknown algorithm, got %d", code)
	}
}

func TestRunEncryptUsesConfiguredDefaultShift(t *testing.T) {
	restore := silenceOutput(t)
	defer restore()
	isolateConfig(t)
	t.Setenv("CLOAK_DEFAULT_SHIFT", "1")

	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.txt")
	if code := runEncrypt([]string{"--algo", "caesar", "--in", "abc", "--out", outPath}); code != 0 {
		t.Fatalf("encrypt exited %d", code)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != "bcd" {
		t.Fatalf("expected configured shift to apply, got %q", string(data))
	}
}

func TestRunEncryptWritesAuditLog(t *testing.T) {
	restore := silenceOutput(t)
	defer restore()
	isolateConfig(t)

	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	t.Setenv("CLOAK_AUDIT_LOG", logPath)

	if code := runEncrypt([]string{"--algo", "caesar", "--in", "abc", "--out", filepath.Join(t.TempDir(), "o.txt")}); code != 0 {
		t.Fatalf("encrypt exited %d", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("audit log not written: %v", err)
	}
	if !strings.Contains(string(data), "transform_applied") {
		t.Fatalf("audit log missing event: %s", string(data))
	}
}
