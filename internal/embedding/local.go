package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	LocalDimension = 384
	LocalModel     = "local-hashing-384"

	wordWeight    = 1.0
	trigramWeight = 0.5
)

var tokenPattern = regexp.MustCompile(`\p{L}+|\p{N}+`)

// Local is an in-process feature-hashing embedder. Words and character
// trigrams of the accent-folded text are hashed into a fixed number of
// buckets, so "tradicional" and "tradición" land close together.
type Local struct {
	model string
	dim   int
}

func NewLocal(model string) *Local {
	if model == "" {
		model = LocalModel
	}
	return &Local{model: model, dim: LocalDimension}
}

func (l *Local) Name() string   { return "local" }
func (l *Local) Model() string  { return l.model }
func (l *Local) Dimension() int { return l.dim }

func (l *Local) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	acc := make([]float64, l.dim)
	tokens := Tokenize(text)
	if len(tokens) == 0 && strings.TrimSpace(text) != "" {
		tokens = []string{strings.ToLower(strings.TrimSpace(text))}
	}
	for _, tok := range tokens {
		acc[l.bucket("w:"+tok)] += wordWeight
		padded := []rune(" " + tok + " ")
		for i := 0; i+3 <= len(padded); i++ {
			acc[l.bucket("c:"+string(padded[i:i+3]))] += trigramWeight
		}
	}

	return normalize(acc), nil
}

func (l *Local) bucket(feature string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(feature))
	return int(h.Sum32() % uint32(l.dim))
}

// Tokenize lower-cases, strips accents and splits text into letter or digit runs.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(Fold(text), -1)
}

// Fold removes diacritics and lower-cases text: "Típico Café" -> "tipico cafe".
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = text
	}
	return strings.ToLower(folded)
}

func normalize(v []float64) []float32 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	length := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(x / length)
	}
	return out
}
