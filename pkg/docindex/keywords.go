package docindex

import (
	"regexp"
	"sort"
	"strings"

	"github.com/corvid-labs/magpie/pkg/common"
)

const (
	// topKeywords is how many frequency-ranked keywords a document keeps.
	topKeywords = 20

	// chunkSize and chunkOverlap define the overlapping word windows kept
	// for retrieval: 500-word windows advancing 400 words per step.
	chunkSize    = 500
	chunkOverlap = 100
)

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "and", "for", "that", "this", "with", "are", "was", "were",
		"been", "have", "has", "had", "from", "they", "will", "would", "could",
		"should", "may", "might", "can", "into", "which", "their",
		"there", "here", "where", "when", "what", "who", "how", "all", "each",
		"every", "both", "few", "more", "most", "other", "some", "such", "than",
		"too", "very", "just", "also", "now", "only", "even", "back", "after",
		"before", "over", "under", "again", "further", "then", "once", "about",
	} {
		stopwords[w] = struct{}{}
	}
}

// extractKeywords returns the topN most frequent terms of the text.
// Terms are lowercase alphabetic words, stopword-filtered, and at least
// four letters long. Frequency ties keep first-occurrence order, so the
// result is a pure function of the content.
func extractKeywords(text string, topN int) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	type freq struct {
		word  string
		count int
		first int
	}

	counts := make(map[string]*freq)
	var order []*freq
	for i, word := range words {
		if _, ok := stopwords[word]; ok {
			continue
		}
		if len(word) <= 3 {
			continue
		}
		f, ok := counts[word]
		if !ok {
			f = &freq{word: word, first: i}
			counts[word] = f
			order = append(order, f)
		}
		f.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if len(order) > topN {
		order = order[:topN]
	}
	keywords := make([]string, len(order))
	for i, f := range order {
		keywords[i] = f.word
	}
	return keywords
}

// chunkContent splits text into overlapping word windows with start/end
// word offsets. The final window may be shorter than size.
func chunkContent(text string, size, overlap int) []common.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []common.Chunk
	for start, idx := 0, 0; start < len(words); start, idx = start+size-overlap, idx+1 {
		end := min(start+size, len(words))
		chunks = append(chunks, common.Chunk{
			Index:     idx,
			Text:      strings.Join(words[start:end], " "),
			StartWord: start,
			EndWord:   end,
		})
	}
	return chunks
}
