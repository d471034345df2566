package transform

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// SmartDetector guesses how a piece of text was transformed and suggests the
// operation that reverses it.
type SmartDetector struct{}

// NewSmartDetector creates a new smart detector.
func NewSmartDetector() *SmartDetector {
	return &SmartDetector{}
}

// Detect runs all detectors over the input, returning candidates sorted by
// confidence. Candidates below 0.3 confidence are dropped.
func (d *SmartDetector) Detect(ctx context.Context, input []byte) ([]DetectionResult, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	results := []DetectionResult{}
	results = append(results, d.detectBase64(input)...)
	results = append(results, d.detectCaesar(input)...)

	sort.Slice(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})

	filtered := []DetectionResult{}
	for _, r := range results {
		if r.Confidence >= 0.3 {
			filtered = append(filtered, r)
		}
	}

	return filtered, nil
}

// SupportedEncodings returns the encodings this detector can identify.
func (d *SmartDetector) SupportedEncodings() []string {
	return []string{"base64", "caesar"}
}

var base64Pattern = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// detectBase64 checks whether the input looks like, and strictly decodes as,
// standard Base64.
func (d *SmartDetector) detectBase64(input []byte) []DetectionResult {
	results := []DetectionResult{}
	inputStr := strings.TrimSpace(string(input))

	if len(inputStr) < 4 || len(inputStr)%4 != 0 {
		return results
	}
	if !base64Pattern.MatchString(inputStr) {
		return results
	}

	if _, err := DecodeBase64(inputStr); err == nil {
		results = append(results, DetectionResult{
			Encoding:   "base64",
			Confidence: 0.9,
			Reasoning:  "Matches the Base64 alphabet and decodes to valid UTF-8",
			Operation:  OpBase64Decode,
		})
	}

	return results
}

// detectCaesar scans all 25 non-identity rotations and scores the result of
// each against English letter frequencies with a chi-squared statistic. A
// rotation that scores clearly better than leaving the text alone is
// reported as a candidate, with the recovered shift in the parameters.
func (d *SmartDetector) detectCaesar(input []byte) []DetectionResult {
	results := []DetectionResult{}
	text := string(input)

	letters := 0
	runes := 0
	for _, r := range text {
		runes++
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	// Too little signal for frequency analysis.
	if letters < 12 || float64(letters) < 0.5*float64(runes) {
		return results
	}

	bestShift := 0
	bestScore := math.MaxFloat64
	for shift := 0; shift < alphabetSize; shift++ {
		score := englishChiSquared(DecryptCaesar(text, shift))
		if score < bestScore {
			bestScore = score
			bestShift = shift
		}
	}
	if bestShift == 0 {
		// The text already reads most like English unshifted.
		return results
	}

	normalized := bestScore / float64(letters)
	if normalized > 2.0 {
		return results
	}
	confidence := 0.9 - math.Min(normalized, 1.0)*0.4

	results = append(results, DetectionResult{
		Encoding:   "caesar",
		Confidence: confidence,
		Reasoning:  fmt.Sprintf("Letter frequencies best match English after rotating back by %d", bestShift),
		Operation:  OpCaesarDecrypt,
		Parameters: map[string]interface{}{"shift": bestShift},
	})

	return results
}

// englishFreq holds relative English letter frequencies in percent, a-z.
var englishFreq = [alphabetSize]float64{
	8.167, 1.492, 2.782, 4.253, 12.702, 2.228, 2.015, 6.094, 6.966, 0.153,
	0.772, 4.025, 2.406, 6.749, 7.507, 1.929, 0.095, 5.987, 6.327, 9.056,
	2.758, 0.978, 2.360, 0.150, 1.974, 0.074,
}

func englishChiSquared(text string) float64 {
	var counts [alphabetSize]int
	total := 0
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			counts[r-'a']++
			total++
		case r >= 'A' && r <= 'Z':
			counts[r-'A']++
			total++
		}
	}
	if total == 0 {
		return math.MaxFloat64
	}

	chi := 0.0
	for i, observed := range counts {
		expected := englishFreq[i] / 100 * float64(total)
		diff := float64(observed) - expected
		chi += diff * diff / expected
	}
	return chi
}

// DecodeAttempt is the result of applying a detected operation to the input.
type DecodeAttempt struct {
	Detection DetectionResult `json:"detection"`
	Decoded   []byte          `json:"decoded"`
	Success   bool            `json:"success"`
	Error     string          `json:"error,omitempty"`
}

// DecodeAll detects candidate encodings and applies each suggested operation,
// returning the attempts that succeeded.
func DecodeAll(ctx context.Context, input []byte) ([]DecodeAttempt, error) {
	detector := NewSmartDetector()
	detections, err := detector.Detect(ctx, input)
	if err != nil {
		return nil, err
	}

	results := []DecodeAttempt{}
	for _, detection := range detections {
		op, exists := Lookup(detection.Operation)
		if !exists {
			continue
		}

		decoded, err := op.Execute(ctx, input, detection.Parameters)
		if err != nil {
			continue
		}

		results = append(results, DecodeAttempt{
			Detection: detection,
			Decoded:   decoded,
			Success:   true,
		})
	}

	return results, nil
}
