package docindex

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/corvid-labs/magpie/pkg/common"
)

// SearchResult is one full-text search hit with its relevance score.
type SearchResult struct {
	Document common.Document `json:"document"`
	Score    float64         `json:"score"`
}

// SearchByKeyword returns every document whose keyword list contains the
// given term, in insertion order.
func (x *Index) SearchByKeyword(keyword string) []common.Document {
	x.mu.RLock()
	defer x.mu.RUnlock()

	ids := x.keywordIndex[strings.ToLower(keyword)]
	if len(ids) == 0 {
		return nil
	}

	results := make([]common.Document, 0, len(ids))
	for _, id := range x.docOrder {
		if _, ok := ids[id]; ok {
			results = append(results, *x.documents[id])
		}
	}
	return results
}

// FullTextSearch scores each document by the number of query terms present
// in its content plus twice the number present in its keyword list.
// Zero-score documents are excluded; equal scores keep insertion order.
func (x *Index) FullTextSearch(query string, maxResults int) []SearchResult {
	queryWords := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(query)) {
		queryWords[word] = struct{}{}
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	var results []SearchResult
	for _, id := range x.docOrder {
		doc := x.documents[id]
		contentLower := strings.ToLower(doc.Content)

		score := 0.0
		for word := range queryWords {
			if strings.Contains(contentLower, word) {
				score++
			}
			if slices.Contains(doc.Keywords, word) {
				score += 2
			}
		}

		if score > 0 {
			results = append(results, SearchResult{Document: *doc, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

// SimilarDocument is one similarity hit: Jaccard score over keyword sets
// and the keywords the two documents share.
type SimilarDocument struct {
	DocumentID     string   `json:"document_id"`
	Similarity     float64  `json:"similarity"`
	SharedKeywords []string `json:"shared_keywords"`
}

// SimilarDocuments ranks other documents by Jaccard similarity of keyword
// sets against the given document. Documents sharing no keyword are
// omitted; an unknown id yields an empty result.
func (x *Index) SimilarDocuments(id string, topN int) []SimilarDocument {
	x.mu.RLock()
	defer x.mu.RUnlock()

	doc, ok := x.documents[id]
	if !ok {
		return nil
	}

	var results []SimilarDocument
	for _, otherID := range x.docOrder {
		if otherID == id {
			continue
		}
		other := x.documents[otherID]

		var shared []string
		for _, keyword := range doc.Keywords {
			if slices.Contains(other.Keywords, keyword) {
				shared = append(shared, keyword)
			}
		}
		if len(shared) == 0 {
			continue
		}

		union := len(doc.Keywords) + len(other.Keywords) - len(shared)
		results = append(results, SimilarDocument{
			DocumentID:     otherID,
			Similarity:     float64(len(shared)) / float64(union),
			SharedKeywords: shared,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if topN > 0 && len(results) > topN {
		results = results[:topN]
	}
	return results
}

// CorpusStats summarizes the corpus: totals, per-file-type distribution,
// and the top 20 keywords by corpus-wide frequency.
func (x *Index) CorpusStats() common.CorpusStats {
	x.mu.RLock()
	defer x.mu.RUnlock()

	stats := common.CorpusStats{
		DocumentCount: len(x.documents),
		FileTypes:     make(map[string]int),
	}
	if len(x.documents) == 0 {
		return stats
	}

	type freq struct {
		keyword string
		count   int
		first   int
	}
	counts := make(map[string]*freq)
	var order []*freq
	position := 0

	for _, id := range x.docOrder {
		doc := x.documents[id]
		stats.TotalWords += doc.WordCount
		stats.TotalEntities += len(doc.EntityIDs)
		stats.FileTypes[doc.FileType]++
		for _, keyword := range doc.Keywords {
			f, ok := counts[keyword]
			if !ok {
				f = &freq{keyword: keyword, first: position}
				counts[keyword] = f
				order = append(order, f)
			}
			f.count++
			position++
		}
	}

	stats.AvgWordsPerDoc = float64(stats.TotalWords) / float64(len(x.documents))

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})
	if len(order) > topKeywords {
		order = order[:topKeywords]
	}
	for _, f := range order {
		stats.TopKeywords = append(stats.TopKeywords, common.KeywordCount{
			Keyword: f.keyword,
			Count:   f.count,
		})
	}

	return stats
}

// TimelineEntry is one document in the upload-date-ordered corpus view.
type TimelineEntry struct {
	DocumentID  string    `json:"document_id"`
	Filename    string    `json:"filename"`
	UploadDate  time.Time `json:"upload_date"`
	WordCount   int       `json:"word_count"`
	EntityCount int       `json:"entity_count"`
}

// Timeline returns all documents ordered by upload date, newest first.
func (x *Index) Timeline() []TimelineEntry {
	x.mu.RLock()
	defer x.mu.RUnlock()

	entries := make([]TimelineEntry, 0, len(x.docOrder))
	for _, id := range x.docOrder {
		doc := x.documents[id]
		entries = append(entries, TimelineEntry{
			DocumentID:  doc.ID,
			Filename:    doc.Filename,
			UploadDate:  doc.UploadDate,
			WordCount:   doc.WordCount,
			EntityCount: len(doc.EntityIDs),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UploadDate.After(entries[j].UploadDate)
	})
	return entries
}
