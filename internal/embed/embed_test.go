package embed

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite clamped", []float32{1, 0}, []float32{-1, 0}, 0},
		{"empty", nil, nil, 0},
		{"mismatched length", []float32{1, 2}, []float32{1}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
	}
	for _, tc := range cases {
		if got := cosine(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: cosine = %f, want %f", tc.name, got, tc.want)
		}
	}
}

func TestCosine_Scaled(t *testing.T) {
	// Cosine is magnitude-invariant.
	a := []float32{3, 4}
	b := []float32{6, 8}
	if got := cosine(a, b); math.Abs(got-1) > 1e-6 {
		t.Errorf("Expected 1 for scaled vectors, got %f", got)
	}
}

func TestMemoKey(t *testing.T) {
	k1 := memoKey("Underlying NPAT of AUD 46.7mn")
	k2 := memoKey("Underlying NPAT of AUD 46.7mn")
	k3 := memoKey("something else")

	if k1 != k2 {
		t.Error("Expected stable keys for equal text")
	}
	if k1 == k3 {
		t.Error("Expected distinct keys for different text")
	}
	if len(k1) != 64 {
		t.Errorf("Expected sha256 hex key, got length %d", len(k1))
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{}, nil); err == nil {
		t.Error("Expected error without API key")
	}
}

func TestNewOpenAIProvider_Defaults(t *testing.T) {
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key"}, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.model == "" {
		t.Error("Expected default model")
	}
	if p.limiter == nil || p.store == nil {
		t.Error("Expected limiter and store initialized")
	}
}
