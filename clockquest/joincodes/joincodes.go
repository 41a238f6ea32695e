// Package joincodes generates and normalizes world join codes made of
// three kid-friendly words, such as "BlueFrogMoon".
package joincodes

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"sort"
	"strings"
)

// words is the canonical word pool. TitleCase here is the canonical
// spelling used in stored codes.
var words = []string{
	"Apple", "Bear", "Blue", "Boat", "Cake",
	"Cloud", "Drum", "Duck", "Fish", "Fox",
	"Frog", "Gold", "Green", "Kite", "Leaf",
	"Lion", "Moon", "Owl", "Pig", "Red",
	"Sky", "Snow", "Star", "Sun", "Tree",
	"Wolf", "Zebra",
}

var (
	wordMap     = make(map[string]string, len(words))
	wordLengths []int
	lengthSet   = make(map[int]bool)

	tokenRe = regexp.MustCompile(`[A-Za-z]+`)
)

func init() {
	seen := make(map[int]bool)
	for _, w := range words {
		wordMap[strings.ToLower(w)] = w
		if !seen[len(w)] {
			seen[len(w)] = true
			wordLengths = append(wordLengths, len(w))
			lengthSet[len(w)] = true
		}
	}
	sort.Ints(wordLengths)
}

func pick() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic("joincodes: " + err.Error())
	}
	return words[n.Int64()]
}

// Generate returns a new join code made of three random words.
func Generate() string {
	return pick() + pick() + pick()
}

// Normalize restores a join code to canonical TitleCase with no
// separators. It accepts three separated words in any case, or a single
// glued token which it splits by trying known word lengths. Returns ""
// when the input cannot be resolved to three known words.
func Normalize(raw string) string {
	tokens := tokenRe.FindAllString(raw, -1)
	if len(tokens) == 0 {
		return ""
	}

	if len(tokens) == 3 {
		var b strings.Builder
		for _, tok := range tokens {
			canonical, ok := wordMap[strings.ToLower(tok)]
			if !ok {
				return ""
			}
			b.WriteString(canonical)
		}
		return b.String()
	}

	if len(tokens) != 1 {
		return ""
	}

	letters := strings.ToLower(tokens[0])
	for _, lenOne := range wordLengths {
		for _, lenTwo := range wordLengths {
			lenThree := len(letters) - lenOne - lenTwo
			if !lengthSet[lenThree] {
				continue
			}
			one := letters[:lenOne]
			two := letters[lenOne : lenOne+lenTwo]
			three := letters[lenOne+lenTwo:]
			w1, ok1 := wordMap[one]
			w2, ok2 := wordMap[two]
			w3, ok3 := wordMap[three]
			if ok1 && ok2 && ok3 {
				return w1 + w2 + w3
			}
		}
	}

	return ""
}
