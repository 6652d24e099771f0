package content

import "github.com/brianvoe/gofakeit/v7"

// cannedReviews is the curated review set for locales whose generic
// paragraphs would not be in the locale's language.
var cannedReviews = map[Locale][]string{
	EnUS: {
		"A gripping read from the first page to the last.",
		"Solid characters, but the middle drags a little.",
		"I kept thinking about this one for days afterwards.",
		"Not quite what I expected, in a good way.",
		"Beautifully written and carefully researched.",
		"The ending felt rushed, yet I would still recommend it.",
	},
	DeDE: {
		"Ein fesselndes Buch von der ersten bis zur letzten Seite.",
		"Die Figuren sind gut gezeichnet, der Mittelteil zieht sich etwas.",
		"Hat mich noch tagelang beschäftigt.",
		"Anders als erwartet, aber im positiven Sinne.",
		"Wunderschön geschrieben und sorgfältig recherchiert.",
		"Das Ende kam zu schnell, trotzdem klare Empfehlung.",
	},
	JaJP: {
		"最初のページから最後まで夢中で読みました。",
		"登場人物は魅力的ですが、中盤が少し長く感じました。",
		"読み終えた後も何日も心に残りました。",
		"予想とは違いましたが、良い意味で裏切られました。",
		"美しい文章で、丁寧に調べられています。",
		"結末は少し急ぎ足でしたが、おすすめです。",
	},
}

// CannedCount is the size of the canned review set used for a locale.
func CannedCount(locale Locale) int {
	return len(cannedSet(locale))
}

// Canned returns the i-th canned review for a locale, wrapping around.
// Locales without a set share the English one.
func Canned(locale Locale, i int) string {
	set := cannedSet(locale)
	if i < 0 {
		i = -i
	}
	return set[i%len(set)]
}

func cannedSet(locale Locale) []string {
	if set, ok := cannedReviews[locale]; ok {
		return set
	}
	return cannedReviews[EnUS]
}

type nameBank struct {
	given       []string
	family      []string
	familyFirst bool
}

func (b *nameBank) pick(fk *gofakeit.Faker) string {
	given := b.given[fk.Number(0, len(b.given)-1)]
	family := b.family[fk.Number(0, len(b.family)-1)]
	if b.familyFirst {
		return family + " " + given
	}
	return given + " " + family
}

// nameBanks covers locales where gofakeit's English names would look wrong.
var nameBanks = map[Locale]*nameBank{
	DeDE: {
		given: []string{
			"Anna", "Lukas", "Sophie", "Maximilian", "Marie", "Felix", "Lea", "Jonas",
			"Hannah", "Paul", "Laura", "Leon", "Mia", "Elias", "Clara", "Finn",
		},
		family: []string{
			"Müller", "Schmidt", "Schneider", "Fischer", "Weber", "Meyer", "Wagner", "Becker",
			"Schulz", "Hoffmann", "Koch", "Richter", "Klein", "Wolf", "Neumann", "Braun",
		},
	},
	JaJP: {
		given: []string{
			"陽翔", "結菜", "蓮", "葵", "湊", "陽葵", "大翔", "凛",
			"悠真", "芽依", "樹", "さくら", "颯太", "美咲", "健太", "由美",
		},
		family: []string{
			"佐藤", "鈴木", "高橋", "田中", "伊藤", "渡辺", "山本", "中村",
			"小林", "加藤", "吉田", "山田", "佐々木", "山口", "松本", "井上",
		},
		familyFirst: true,
	},
}
