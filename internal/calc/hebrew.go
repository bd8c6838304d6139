package calc

import "strings"

// Words used by HebrewWords for values outside the convertible range and
// around zero/negatives.
const (
	HebrewZero     = "אפס"
	HebrewMinus    = "מינוס"
	HebrewTooLarge = "מספר גדול מדי להמרה"
)

// hebrewWordsMax is the largest value the group tables cover.
const hebrewWordsMax = 999_999_999

var hebrewOnes = []string{
	"", "אחד", "שניים", "שלושה", "ארבעה",
	"חמישה", "שישה", "שבעה", "שמונה", "תשעה",
}

var hebrewTeens = []string{
	"עשרה", "אחד עשר", "שנים עשר", "שלושה עשר", "ארבעה עשר",
	"חמישה עשר", "שישה עשר", "שבעה עשר", "שמונה עשר", "תשעה עשר",
}

var hebrewTens = []string{
	"", "", "עשרים", "שלושים", "ארבעים",
	"חמישים", "שישים", "שבעים", "שמונים", "תשעים",
}

var hebrewHundreds = []string{
	"", "מאה", "מאתיים", "שלוש מאות", "ארבע מאות",
	"חמש מאות", "שש מאות", "שבע מאות", "שמונה מאות", "תשע מאות",
}

// Counted thousands take the construct form up to ten thousand.
var hebrewThousands = []string{
	"", "אלף", "אלפיים", "שלושת אלפים", "ארבעת אלפים",
	"חמשת אלפים", "ששת אלפים", "שבעת אלפים", "שמונת אלפים", "תשעת אלפים",
	"עשרת אלפים",
}

// HebrewWords spells out an integer in Hebrew for the worded-amount line
// of the report. The value is decomposed into millions, thousands,
// hundreds and a tens-ones group; the conjunction "ו" appears only between
// the tens digit and the ones digit, never between groups. Values beyond
// ±999,999,999 return an explicit sentinel instead of a truncated spelling.
func HebrewWords(n int64) string {
	if n == 0 {
		return HebrewZero
	}
	if n < 0 {
		if -n > hebrewWordsMax {
			return HebrewTooLarge
		}
		return HebrewMinus + " " + HebrewWords(-n)
	}
	if n > hebrewWordsMax {
		return HebrewTooLarge
	}

	var groups []string
	if m := n / 1_000_000; m > 0 {
		switch m {
		case 1:
			groups = append(groups, "מיליון")
		case 2:
			groups = append(groups, "שני מיליון")
		default:
			groups = append(groups, hebrewGroup(m)+" מיליון")
		}
		n %= 1_000_000
	}
	if t := n / 1000; t > 0 {
		if t <= 10 {
			groups = append(groups, hebrewThousands[t])
		} else {
			groups = append(groups, hebrewGroup(t)+" אלף")
		}
		n %= 1000
	}
	if n > 0 {
		groups = append(groups, hebrewGroup(n))
	}
	return strings.Join(groups, " ")
}

// hebrewGroup spells a value in [1, 999].
func hebrewGroup(n int64) string {
	var parts []string
	if h := n / 100; h > 0 {
		parts = append(parts, hebrewHundreds[h])
		n %= 100
	}
	switch {
	case n == 0:
	case n < 10:
		parts = append(parts, hebrewOnes[n])
	case n < 20:
		parts = append(parts, hebrewTeens[n-10])
	default:
		word := hebrewTens[n/10]
		if ones := n % 10; ones > 0 {
			word += " ו" + hebrewOnes[ones]
		}
		parts = append(parts, word)
	}
	return strings.Join(parts, " ")
}
