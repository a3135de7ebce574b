// Package match ranks job postings against free-text candidate profiles
// using a document-frequency weighted vector space fitted once over the
// corpus. The index is immutable after construction and safe for
// concurrent readers.
package match

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/similvitoria/IC-IA-LLMChatbot/internal/jobs"
)

// DefaultTopN bounds the result list when the caller does not.
const DefaultTopN = 5

// DefaultStopWords is the stop-word set for the bundled Portuguese corpus.
var DefaultStopWords = []string{
	"a", "o", "é", "de", "que", "em", "um", "para", "com", "não", "por", "uma",
}

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Result is one ranked posting. Score is cosine similarity in [0,1] and
// Rank is the 1-based position in the returned list.
type Result struct {
	JobID string  `json:"job_id"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Index holds the fitted vocabulary and the normalized posting vectors.
type Index struct {
	postings  *jobs.Postings
	vocab     map[string]int
	idf       []float64
	vectors   []map[int]float64
	stopWords map[string]struct{}
}

// NewIndex fits the vector space over the full posting corpus. Term
// weights use smoothed inverse document frequency (ln((1+n)/(1+df))+1)
// and every vector is L2-normalized, so cosine similarity reduces to a
// dot product.
func NewIndex(postings *jobs.Postings, stopWords []string) *Index {
	idx := &Index{
		postings:  postings,
		vocab:     make(map[string]int),
		stopWords: make(map[string]struct{}, len(stopWords)),
	}
	for _, w := range stopWords {
		idx.stopWords[strings.ToLower(w)] = struct{}{}
	}

	counts := make([]map[string]int, postings.Len())
	df := make(map[string]int)
	for i, posting := range postings.Items {
		counts[i] = idx.termCounts(posting.SearchText())
		for term := range counts[i] {
			df[term]++
			if _, ok := idx.vocab[term]; !ok {
				idx.vocab[term] = len(idx.vocab)
			}
		}
	}

	n := postings.Len()
	idx.idf = make([]float64, len(idx.vocab))
	for term, id := range idx.vocab {
		idx.idf[id] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	idx.vectors = make([]map[int]float64, n)
	for i, termCount := range counts {
		idx.vectors[i] = idx.vectorize(termCount)
	}

	return idx
}

// Rank projects the query into the fitted vocabulary and returns at most
// topN postings ordered by descending cosine similarity. Every posting is
// a candidate, zero scores rank last; the list is empty only when the
// corpus is empty or the query shares no terms with the fitted
// vocabulary. Ties keep the original corpus order.
func (idx *Index) Rank(query string, topN int) []Result {
	return idx.rank(query, topN, 0)
}

// RankCompatible behaves like Rank but additionally discards postings
// scoring below minScore before truncation.
func (idx *Index) RankCompatible(query string, topN int, minScore float64) []Result {
	return idx.rank(query, topN, minScore)
}

func (idx *Index) rank(query string, topN int, minScore float64) []Result {
	if topN <= 0 {
		topN = DefaultTopN
	}

	queryVec := idx.vectorize(idx.termCounts(strings.ToLower(query)))
	if len(queryVec) == 0 {
		return nil
	}

	var results []Result
	for i, docVec := range idx.vectors {
		score := dot(queryVec, docVec)
		if minScore > 0 && score < minScore {
			continue
		}
		results = append(results, Result{JobID: idx.postings.Items[i].ID, Score: score})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if len(results) > topN {
		results = results[:topN]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results
}

func (idx *Index) termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, token := range tokenPattern.FindAllString(text, -1) {
		if _, stop := idx.stopWords[token]; stop {
			continue
		}
		counts[token]++
	}
	return counts
}

// vectorize builds the L2-normalized tf-idf vector for the given term
// counts. Terms outside the fitted vocabulary contribute nothing.
func (idx *Index) vectorize(counts map[string]int) map[int]float64 {
	vec := make(map[int]float64)
	var norm float64
	for term, count := range counts {
		id, ok := idx.vocab[term]
		if !ok {
			continue
		}
		w := float64(count) * idx.idf[id]
		vec[id] = w
		norm += w * w
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	for id := range vec {
		vec[id] /= norm
	}
	return vec
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, w := range a {
		sum += w * b[id]
	}
	return sum
}
