package identity

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const fallbackSlug = "item"

// Generator выдает UUID v4 и слаги вида "2-komnatnaya-v-zhk-sever"
type Generator struct {
	lang language.Tag
}

func NewGenerator() *Generator {
	return &Generator{lang: language.Russian}
}

func (g *Generator) NewID() string {
	return uuid.NewString()
}

// Slugify приводит заголовок к нижнему регистру, транслитерирует кириллицу,
// убирает диакритику и схлопывает все остальное в одиночные дефисы.
func (g *Generator) Slugify(title string) string {
	// Caser и transform.Chain хранят состояние, поэтому создаются на каждый вызов
	lowered := cases.Lower(g.lang).String(title)
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(stripMarks, transliterate(lowered))
	if err != nil {
		plain = lowered
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range plain {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}

	if b.Len() == 0 {
		return fallbackSlug
	}
	return b.String()
}

var cyrillic = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya", 'і': "i", 'ў': "u",
}

func transliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if latin, ok := cyrillic[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
