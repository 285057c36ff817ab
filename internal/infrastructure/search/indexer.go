// Package search pushes product groups into a Meilisearch index so the
// storefront can offer typo-tolerant group search.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/meilisearch/meilisearch-go"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/pawcompare/backend/internal/domain"
)

// groupSearchDoc is the flat document shape stored in the index. Meilisearch
// documents need a primary key, so every group gets a slug id derived from
// its (brand, baseProductName) key.
type groupSearchDoc struct {
	ID              string   `json:"id"`
	BaseProductName string   `json:"baseProductName"`
	Brand           string   `json:"brand"`
	Category        string   `json:"category,omitempty"`
	PetType         string   `json:"petType,omitempty"`
	VariantCount    int      `json:"variantCount"`
	PriceMin        float64  `json:"priceMin"`
	PriceMax        float64  `json:"priceMax"`
	BestUnitPrice   float64  `json:"bestUnitPrice,omitempty"`
	SearchTokens    []string `json:"searchTokens"`
}

// Indexer implements domain.GroupIndexer on a Meilisearch instance.
type Indexer struct {
	client    meilisearch.ServiceManager
	indexName string
}

// NewIndexer creates an indexer against the given Meilisearch host
func NewIndexer(host, apiKey, indexName string) *Indexer {
	return &Indexer{
		client:    meilisearch.New(host, meilisearch.WithAPIKey(apiKey)),
		indexName: indexName,
	}
}

// EnsureIndex creates the group index if it does not exist yet. Meilisearch
// answers index_already_exists with an error; that case is fine to ignore
// since the settings never change at runtime.
func (i *Indexer) EnsureIndex(ctx context.Context) error {
	_, err := i.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        i.indexName,
		PrimaryKey: "id",
	})
	if err != nil && !isAlreadyExists(err) {
		return fmt.Errorf("%w: creating index: %v", domain.ErrSearchUnavailable, err)
	}
	return nil
}

// IndexGroups replaces the documents for the given groups. Document ids are
// deterministic, so re-indexing the same group overwrites rather than
// duplicates.
func (i *Indexer) IndexGroups(ctx context.Context, groups []domain.ProductGroup) error {
	if len(groups) == 0 {
		return nil
	}

	docs := make([]groupSearchDoc, 0, len(groups))
	for _, g := range groups {
		docs = append(docs, toSearchDoc(g))
	}

	index := i.client.Index(i.indexName)
	if _, err := index.AddDocuments(docs, nil); err != nil {
		return fmt.Errorf("%w: adding documents: %v", domain.ErrSearchUnavailable, err)
	}
	return nil
}

func toSearchDoc(g domain.ProductGroup) groupSearchDoc {
	doc := groupSearchDoc{
		ID:              Slug(g.Brand + " " + g.BaseProductName),
		BaseProductName: g.BaseProductName,
		Brand:           g.Brand,
		Category:        g.Category,
		PetType:         g.PetType,
		VariantCount:    g.VariantCount,
		PriceMin:        g.PriceRange.Min,
		PriceMax:        g.PriceRange.Max,
		SearchTokens:    SearchTokens(g.Brand + " " + g.BaseProductName),
	}
	if g.BestValueID != "" {
		doc.BestUnitPrice = g.PriceRange.UnitMin
	}
	return doc
}

func isAlreadyExists(err error) bool {
	var apiErr *meilisearch.Error
	if errors.As(err, &apiErr) {
		return apiErr.MeilisearchApiError.Code == "index_already_exists"
	}
	return false
}

// Slug turns a group key into a stable, url-safe document id: diacritics
// folded, lowercased, runs of non-alphanumerics collapsed to single dashes.
func Slug(s string) string {
	folded := foldDiacritics(strings.ToLower(s))
	var b strings.Builder
	dash := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// SearchTokens produces the lowercase, diacritics-folded tokens stored
// alongside a document. Scraped names mix accented and plain spellings of the
// same brand, and folding both sides keeps them findable.
func SearchTokens(s string) []string {
	fields := strings.Fields(foldDiacritics(strings.ToLower(s)))
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// foldDiacritics strips combining marks via decompose, remove, recompose.
// The transformer chain is stateful, so build one per call.
func foldDiacritics(s string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(chain, s)
	if err != nil {
		return s
	}
	return out
}
