package engine

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/pkg/models"
)

// tokenPattern matches word tokens of two or more characters.
var tokenPattern = regexp.MustCompile(`[a-z0-9]{2,}`)

// englishStopWords are excluded from the term-weighting vocabulary.
var englishStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again all also am an and
		any are as at be because been before being below between both but by
		can could did do does doing down during each few for from further had
		has have having he her here hers him his how i if in into is it its
		itself just me more most my myself no nor not now of off on once only
		or other our ours out over own same she should so some such than that
		the their theirs them then there these they this those through to too
		under until up very was we were what when where which while who whom
		why will with you your yours`) {
		englishStopWords[w] = struct{}{}
	}
}

// SimilarityIndex holds a TF-IDF vector per catalog record and the
// precomputed pairwise cosine similarity matrix. It is rebuilt in full
// whenever the catalog is replaced; there is no incremental update. The full
// matrix is O(N²) in catalog size, acceptable for a small static catalog.
type SimilarityIndex struct {
	store *catalog.Store
	sim   *mat.Dense
}

// NewSimilarityIndex builds the model over the store's feature strings.
func NewSimilarityIndex(store *catalog.Store) *SimilarityIndex {
	records := store.All()
	n := len(records)
	if n == 0 {
		return &SimilarityIndex{store: store}
	}

	docs := make([][]string, n)
	df := make(map[string]int)
	for i, r := range records {
		docs[i] = tokenize(featureString(r))
		seen := make(map[string]struct{}, len(docs[i]))
		for _, tok := range docs[i] {
			if _, dup := seen[tok]; !dup {
				seen[tok] = struct{}{}
				df[tok]++
			}
		}
	}

	vocab := make(map[string]int, len(df))
	for _, doc := range docs {
		for _, tok := range doc {
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
	}

	// Smoothed idf so terms present in every document still carry weight.
	idf := make([]float64, len(vocab))
	for tok, col := range vocab {
		idf[col] = math.Log(float64(1+n)/float64(1+df[tok])) + 1
	}

	vectors := mat.NewDense(n, len(vocab), nil)
	for i, doc := range docs {
		row := vectors.RawRowView(i)
		for _, tok := range doc {
			row[vocab[tok]]++
		}
		for col := range row {
			row[col] *= idf[col]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}

	// Rows are unit vectors, so the Gram matrix is the cosine matrix:
	// symmetric, diagonal 1.0, entries in [0, 1].
	sim := mat.NewDense(n, n, nil)
	sim.Mul(vectors, vectors.T())

	return &SimilarityIndex{store: store, sim: sim}
}

// featureString concatenates every text attribute of a record. Tokens are
// deliberately not deduplicated: a term appearing in several fields
// reinforces its weight.
func featureString(r models.MealRecord) string {
	parts := make([]string, 0, 5+len(r.Tags)+len(r.Ingredients)+len(r.SuitableFor))
	parts = append(parts, r.Name, r.Description, r.Region, r.MealType)
	parts = append(parts, r.Tags...)
	parts = append(parts, r.Ingredients...)
	parts = append(parts, r.SuitableFor...)
	return strings.Join(parts, " ")
}

func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := englishStopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Similarity reports the cosine similarity between two records by catalog
// position.
func (si *SimilarityIndex) Similarity(i, j int) float64 {
	return si.sim.At(i, j)
}

// SimilarTo returns up to n records closest to the given meal, most similar
// first, ties broken by catalog order. The query record itself is excluded.
func (si *SimilarityIndex) SimilarTo(mealID string, n int) ([]models.MealRecord, error) {
	records := si.store.All()
	self := -1
	for i, r := range records {
		if r.ID == mealID {
			self = i
			break
		}
	}
	if self < 0 {
		return nil, fmt.Errorf("similarity lookup: %w: %q", catalog.ErrMealNotFound, mealID)
	}
	if n <= 0 {
		return nil, nil
	}

	candidates := make([]int, 0, len(records)-1)
	for i := range records {
		if i != self {
			candidates = append(candidates, i)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return si.sim.At(self, candidates[a]) > si.sim.At(self, candidates[b])
	})

	if n > len(candidates) {
		n = len(candidates)
	}
	result := make([]models.MealRecord, n)
	for i := 0; i < n; i++ {
		result[i] = records[candidates[i]]
	}
	return result, nil
}
