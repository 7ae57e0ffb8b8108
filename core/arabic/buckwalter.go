package arabic

// Buckwalter transliteration: a strict bijection between Arabic letters and
// diacritics and an ASCII symbol set. Runes outside the table pass through
// unchanged in both directions, so mixed-script text is not round-trip safe;
// runes inside the table always are.

// arabicToBuckwalter is the forward mapping (Arabic -> ASCII).
var arabicToBuckwalter = map[rune]rune{
	// Letters
	'ء': '\'', // hamza
	'آ': '|',  // alef with madda
	'أ': '>',  // alef with hamza above
	'ؤ': '&',  // waw with hamza
	'إ': '<',  // alef with hamza below
	'ئ': '}',  // yeh with hamza
	'ا': 'A',  // alef
	'ب': 'b',  // beh
	'ة': 'p',  // teh marbuta
	'ت': 't',  // teh
	'ث': 'v',  // theh
	'ج': 'j',  // jeem
	'ح': 'H',  // hah
	'خ': 'x',  // khah
	'د': 'd',  // dal
	'ذ': '*',  // thal
	'ر': 'r',  // reh
	'ز': 'z',  // zain
	'س': 's',  // seen
	'ش': '$',  // sheen
	'ص': 'S',  // sad
	'ض': 'D',  // dad
	'ط': 'T',  // tah
	'ظ': 'Z',  // zah
	'ع': 'E',  // ain
	'غ': 'g',  // ghain
	'ـ': '_',  // tatweel
	'ف': 'f',  // feh
	'ق': 'q',  // qaf
	'ك': 'k',  // kaf
	'ل': 'l',  // lam
	'م': 'm',  // meem
	'ن': 'n',  // noon
	'ه': 'h',  // heh
	'و': 'w',  // waw
	'ى': 'Y',  // alef maksura
	'ي': 'y',  // yeh

	// Diacritics
	'ً': 'F', // fathatan
	'ٌ': 'N', // dammatan
	'ٍ': 'K', // kasratan
	'َ': 'a', // fatha
	'ُ': 'u', // damma
	'ِ': 'i', // kasra
	'ّ': '~', // shadda
	'ْ': 'o', // sukun
	'ٓ': '^', // maddah
	'ٔ': '#', // hamza above
	'ٰ': '`', // superscript alef

	// Additional characters
	'ٱ': '{', // alef wasla
}

// buckwalterToArabic is derived from the forward table at init, so the two
// directions cannot drift apart.
var buckwalterToArabic = func() map[rune]rune {
	m := make(map[rune]rune, len(arabicToBuckwalter))
	for ar, bw := range arabicToBuckwalter {
		m[bw] = ar
	}
	return m
}()

// ToBuckwalter converts Arabic text to Buckwalter transliteration.
// Non-Arabic runes are kept as-is.
func ToBuckwalter(text string) string {
	return foldRunes(text, arabicToBuckwalter)
}

// ToArabic converts Buckwalter transliteration back to Arabic text.
// Runes outside the Buckwalter symbol set are kept as-is.
func ToArabic(text string) string {
	return foldRunes(text, buckwalterToArabic)
}

// IsArabicRune reports whether r is in the forward transliteration table.
func IsArabicRune(r rune) bool {
	_, ok := arabicToBuckwalter[r]
	return ok
}

// IsBuckwalterRune reports whether r is a Buckwalter transliteration symbol.
func IsBuckwalterRune(r rune) bool {
	_, ok := buckwalterToArabic[r]
	return ok
}
