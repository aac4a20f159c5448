package catalog

// Intent is the purchase intent detected in an utterance.
type Intent string

const (
	IntentNone      Intent = "none"
	IntentAddToCart Intent = "add_to_cart"
	IntentViewCart  Intent = "view_cart"
	IntentCheckout  Intent = "checkout"
)

// Product identifies a catalog entry.
type Product struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
}

// Candidates maps normalized product names to catalog entries. It is a
// read-only snapshot supplied by the caller for a single resolution; the
// resolver never caches it.
type Candidates map[string]Product

// Match is the best-scoring candidate for an utterance.
type Match struct {
	Name     string  `json:"name"`
	ID       int     `json:"id"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Resolution is the structured outcome of resolving one utterance.
// Product is nil when no candidate cleared the acceptance threshold,
// which is a legitimate outcome, not an error.
type Resolution struct {
	Intent   Intent `json:"intent"`
	Quantity int    `json:"quantity"`
	Product  *Match `json:"product,omitempty"`
}
