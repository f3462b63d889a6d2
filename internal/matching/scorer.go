package matching

import (
	"math"

	"github.com/james-bowman/nlp"
	"github.com/james-bowman/nlp/measures/pairwise"
	"gonum.org/v1/gonum/mat"

	"github.com/gitscout/gitscout/internal/skills"
)

// DefaultMinScore is the inclusion threshold for recommendations.
const DefaultMinScore = 0.5

// Scorer computes the match between two skill sets as the cosine similarity
// of their TF-IDF vectors. It is stateless; every call fits a fresh
// two-document vocabulary.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// Score returns a value in [0,1]. Identical non-empty sets score 1, an empty
// set on either side scores 0.
func (s *Scorer) Score(user, required skills.Set) float64 {
	if user.Len() == 0 || required.Len() == 0 {
		return 0
	}

	vectoriser := nlp.NewCountVectoriser()

	counts, err := vectoriser.FitTransform(user.Join(" "), required.Join(" "))
	if err != nil {
		return 0
	}

	weighted := smoothedTfidf(counts)

	similarity := pairwise.CosineSimilarity(weighted.ColView(0), weighted.ColView(1))

	// An all-zero vector (skill sets reduced to nothing by the vectoriser)
	// makes the cosine undefined.
	if math.IsNaN(similarity) {
		return 0
	}

	return math.Min(math.Max(similarity, 0), 1)
}

// smoothedTfidf weights the term count matrix (terms as rows, documents as
// columns) with the smoothed inverse document frequency
// idf(t) = log((1+n)/(1+df(t))) + 1. The +1 outside the log keeps terms
// occurring in every document weighted, so a term shared by both skill sets
// still contributes to the similarity and identical sets score 1.
func smoothedTfidf(counts mat.Matrix) *mat.Dense {
	weighted := mat.DenseCopyOf(counts)
	terms, docs := weighted.Dims()

	for t := 0; t < terms; t++ {
		df := 0
		for d := 0; d < docs; d++ {
			if weighted.At(t, d) > 0 {
				df++
			}
		}

		idf := math.Log(float64(1+docs)/float64(1+df)) + 1
		for d := 0; d < docs; d++ {
			weighted.Set(t, d, weighted.At(t, d)*idf)
		}
	}

	return weighted
}
