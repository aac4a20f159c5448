package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// acceptThreshold is the minimum similarity for a candidate to be accepted.
// Below it, short and generic words produce too many false positives;
// above it, plurals and partial names stop matching.
const acceptThreshold = 0.5

// intentVocabulary maps trigger words (matched as whole words against the
// normalized utterance) to their canonical intent.
var intentVocabulary = map[string]Intent{
	"comprar":  IntentAddToCart,
	"compra":   IntentAddToCart,
	"agregar":  IntentAddToCart,
	"agrega":   IntentAddToCart,
	"anadir":   IntentAddToCart,
	"add":      IntentAddToCart,
	"buy":      IntentAddToCart,
	"carrito":  IntentViewCart,
	"cart":     IntentViewCart,
	"cesta":    IntentViewCart,
	"checkout": IntentCheckout,
	"pagar":    IntentCheckout,
	"pago":     IntentCheckout,
	"pay":      IntentCheckout,
}

var utteranceNormalizer = strings.NewReplacer(
	"-", " ",
	"&", " and ",
	",", "",
)

// Normalize lowercases an utterance, replaces hyphens with spaces, spells
// out ampersands and strips commas. Candidate keys are expected to be
// stored already normalized.
func Normalize(text string) string {
	return strings.TrimSpace(utteranceNormalizer.Replace(strings.ToLower(text)))
}

// Resolve detects purchase intent, extracts a quantity and picks the best
// approximate product match from the candidate snapshot. An empty
// candidate set or an utterance that mentions no product yields a nil
// Product; the caller treats that as "ask for clarification", never as a
// failure.
func Resolve(utterance string, candidates Candidates) Resolution {
	normalized := Normalize(utterance)
	tokens := strings.Fields(normalized)

	resolution := Resolution{
		Intent:   detectIntent(tokens),
		Quantity: extractQuantity(tokens),
	}
	resolution.Product = bestMatch(normalized, candidates)
	return resolution
}

// detectIntent returns the canonical intent of the first token found in
// the vocabulary, or IntentNone.
func detectIntent(tokens []string) Intent {
	for _, token := range tokens {
		if intent, ok := intentVocabulary[token]; ok {
			return intent
		}
	}
	return IntentNone
}

// extractQuantity returns the first standalone integer in the utterance,
// defaulting to 1. It runs independently of intent and product detection.
func extractQuantity(tokens []string) int {
	for _, token := range tokens {
		n, err := strconv.Atoi(token)
		if err != nil {
			continue
		}
		if n >= 1 {
			return n
		}
	}
	return 1
}

// bestMatch scores every candidate key against the normalized utterance
// and returns the single best one above the acceptance threshold. Keys are
// visited in sorted order so ties resolve deterministically.
func bestMatch(normalized string, candidates Candidates) *Match {
	if len(candidates) == 0 {
		return nil
	}

	keys := make([]string, 0, len(candidates))
	for key := range candidates {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var best *Match
	for _, key := range keys {
		score := similarity(normalized, key)
		if score < acceptThreshold {
			continue
		}
		if best == nil || score > best.Score {
			product := candidates[key]
			best = &Match{
				Name:     key,
				ID:       product.ID,
				Category: product.Category,
				Score:    score,
			}
		}
	}
	return best
}
