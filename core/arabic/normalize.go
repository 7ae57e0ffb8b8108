// Package arabic provides deterministic character-level transformations for
// Arabic script: normalization, Buckwalter transliteration, and word
// tokenization. The rule tables are fixed; this is text transformation,
// not linguistic analysis.
package arabic

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/talebmz/ayagraph/core/qerrors"
)

// errInvalidEncoding reports input that is not valid UTF-8. Substitution
// tables are defined over code points, so malformed input cannot be folded.
var errInvalidEncoding = errors.New("text is not valid UTF-8")

// Diacritics is the set of Arabic diacritical marks removed by normalization.
const Diacritics = "ً" + // fathatan
	"ٌ" + // dammatan
	"ٍ" + // kasratan
	"َ" + // fatha
	"ُ" + // damma
	"ِ" + // kasra
	"ّ" + // shadda
	"ْ" + // sukun
	"ٓ" + // maddah
	"ٔ" + // hamza above
	"ٕ" + // hamza below
	"ٖ" + // subscript alef
	"ٗ" + // inverted damma
	"٘" + // mark noon ghunna
	"ٰ" // superscript alef

// hamzaForms folds hamza-carrying letters to their base letters.
var hamzaForms = map[rune]rune{
	'أ': 'ا', // alef with hamza above -> alef
	'إ': 'ا', // alef with hamza below -> alef
	'آ': 'ا', // alef with madda -> alef
	'ؤ': 'و', // waw with hamza -> waw
	'ئ': 'ي', // yeh with hamza -> yeh
}

// alefForms folds alef variants to bare alef.
var alefForms = map[rune]rune{
	'أ': 'ا', // alef with hamza above
	'إ': 'ا', // alef with hamza below
	'آ': 'ا', // alef with madda
	'ٱ': 'ا', // alef wasla
}

const (
	taaMarbuta = 'ة'
	heh        = 'ه'
)

// NormalizeOptions toggles the individual normalization steps. Steps always
// run in the fixed order: diacritic removal, hamza folding, alef folding,
// taa marbuta folding. Order matters: folded hamza and alef letters are
// themselves potential diacritic carriers.
type NormalizeOptions struct {
	RemoveDiacritics    bool
	NormalizeHamza      bool
	NormalizeAlef       bool
	NormalizeTaaMarbuta bool
}

// DefaultNormalizeOptions enables every normalization step.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		RemoveDiacritics:    true,
		NormalizeHamza:      true,
		NormalizeAlef:       true,
		NormalizeTaaMarbuta: true,
	}
}

// RemoveDiacritics strips all Arabic diacritical marks from text.
func RemoveDiacritics(text string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(Diacritics, r) {
			return -1
		}
		return r
	}, text)
}

// NormalizeHamza folds hamza-carrying letters to their base forms.
func NormalizeHamza(text string) string {
	return foldRunes(text, hamzaForms)
}

// NormalizeAlef folds alef variants to bare alef.
func NormalizeAlef(text string) string {
	return foldRunes(text, alefForms)
}

// NormalizeTaaMarbuta folds taa marbuta to heh.
func NormalizeTaaMarbuta(text string) string {
	return strings.ReplaceAll(text, string(taaMarbuta), string(heh))
}

func foldRunes(text string, table map[rune]rune) string {
	return strings.Map(func(r rune) rune {
		if folded, ok := table[r]; ok {
			return folded
		}
		return r
	}, text)
}

// Normalize applies the enabled normalization steps in their fixed order.
// Empty input returns empty input. The transformation is idempotent: every
// step's output contains none of the characters that step substitutes.
func Normalize(text string, opts NormalizeOptions) (string, error) {
	if text == "" {
		return text, nil
	}
	if !utf8.ValidString(text) {
		return "", qerrors.Normalization("input", errInvalidEncoding)
	}

	if opts.RemoveDiacritics {
		text = RemoveDiacritics(text)
	}
	if opts.NormalizeHamza {
		text = NormalizeHamza(text)
	}
	if opts.NormalizeAlef {
		text = NormalizeAlef(text)
	}
	if opts.NormalizeTaaMarbuta {
		text = NormalizeTaaMarbuta(text)
	}

	return text, nil
}

// NormalizeDefault applies Normalize with DefaultNormalizeOptions.
func NormalizeDefault(text string) (string, error) {
	return Normalize(text, DefaultNormalizeOptions())
}
