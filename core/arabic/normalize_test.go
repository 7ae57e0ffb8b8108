package arabic

import (
	"errors"
	"testing"

	"github.com/talebmz/ayagraph/core/qerrors"
)

func TestRemoveDiacritics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"no diacritics", "كتاب", "كتاب"},
		{"basmala fragment", "بِسْمِ", "بسم"},
		{"fully vocalized", "اللَّهِ", "الله"},
		{"only diacritics", "َُِّ", ""},
		{"non-arabic untouched", "abc", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemoveDiacritics(tt.input); got != tt.want {
				t.Errorf("RemoveDiacritics(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeHamza(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"أ", "ا"},
		{"إ", "ا"},
		{"آ", "ا"},
		{"ؤ", "و"},
		{"ئ", "ي"},
		{"ء", "ء"}, // bare hamza is not folded
	}

	for _, tt := range tests {
		if got := NormalizeHamza(tt.input); got != tt.want {
			t.Errorf("NormalizeHamza(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeAlef(t *testing.T) {
	if got := NormalizeAlef("ٱلرحمن"); got != "الرحمن" {
		t.Errorf("NormalizeAlef wasla = %q, want %q", got, "الرحمن")
	}
}

func TestNormalizeTaaMarbuta(t *testing.T) {
	if got := NormalizeTaaMarbuta("رحمة"); got != "رحمه" {
		t.Errorf("NormalizeTaaMarbuta = %q, want %q", got, "رحمه")
	}
}

func TestNormalizeStepOrder(t *testing.T) {
	// Alef with madda carries a maddah mark once decomposed; folding order
	// must remove diacritics before folding letter variants.
	input := "آمَنُوا"
	got, err := NormalizeDefault(input)
	if err != nil {
		t.Fatalf("NormalizeDefault failed: %v", err)
	}
	want := "امنوا"
	if got != want {
		t.Errorf("NormalizeDefault(%q) = %q, want %q", input, got, want)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	got, err := NormalizeDefault("")
	if err != nil {
		t.Fatalf("NormalizeDefault(\"\") failed: %v", err)
	}
	if got != "" {
		t.Errorf("NormalizeDefault(\"\") = %q, want empty", got)
	}
}

func TestNormalizeInvalidUTF8(t *testing.T) {
	_, err := NormalizeDefault(string([]byte{0xff, 0xfe}))
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
	if !errors.Is(err, qerrors.ErrNormalization) {
		t.Errorf("error = %v, want ErrNormalization", err)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ",
		"ٱلْحَمْدُ لِلَّهِ رَبِّ ٱلْعَٰلَمِينَ",
		"أَإِآؤئ",
		"رحمة الله",
		"plain ascii",
		"",
	}

	for _, input := range inputs {
		once, err := NormalizeDefault(input)
		if err != nil {
			t.Fatalf("first pass failed for %q: %v", input, err)
		}
		twice, err := NormalizeDefault(once)
		if err != nil {
			t.Fatalf("second pass failed for %q: %v", once, err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizeSelectiveOptions(t *testing.T) {
	input := "أَمَة"

	// Only diacritic removal: hamza and taa marbuta survive.
	got, err := Normalize(input, NormalizeOptions{RemoveDiacritics: true})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != "أمة" {
		t.Errorf("diacritics-only = %q, want %q", got, "أمة")
	}

	// Everything enabled.
	got, err = Normalize(input, DefaultNormalizeOptions())
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got != "امه" {
		t.Errorf("full = %q, want %q", got, "امه")
	}
}
