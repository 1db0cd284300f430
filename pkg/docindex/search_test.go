package docindex

import (
	"testing"
)

func newCorpus() *Index {
	x := New(nil)
	x.AddDocument(AddDocumentParams{
		ID:       "doc1",
		Filename: "merger.txt",
		Content:  "merger merger merger between giants",
		FileType: "TXT",
	})
	x.AddDocument(AddDocumentParams{
		ID:       "doc2",
		Filename: "lawsuit.txt",
		Content:  "lawsuit filed over the merger outcome",
		FileType: "TXT",
	})
	x.AddDocument(AddDocumentParams{
		ID:       "doc3",
		Filename: "weather.md",
		Content:  "sunny skies expected tomorrow",
		FileType: "MD",
	})
	return x
}

func TestFullTextSearch(t *testing.T) {
	x := newCorpus()

	results := x.FullTextSearch("merger", 10)
	if len(results) != 2 {
		t.Fatalf("result count = %d, want 2", len(results))
	}
	// Both hold "merger" as content and keyword: 1 + 2 each. Equal scores
	// keep insertion order.
	if results[0].Document.ID != "doc1" || results[1].Document.ID != "doc2" {
		t.Errorf("result order = %s, %s", results[0].Document.ID, results[1].Document.ID)
	}
	if results[0].Score != 3 {
		t.Errorf("score = %v, want 3", results[0].Score)
	}

	if results := x.FullTextSearch("nonexistent", 10); len(results) != 0 {
		t.Errorf("zero-score documents included: %v", results)
	}

	if results := x.FullTextSearch("merger", 1); len(results) != 1 {
		t.Errorf("max_results not applied: %d results", len(results))
	}
}

func TestFullTextSearchMultiTermScoring(t *testing.T) {
	x := newCorpus()

	// doc2 matches both terms, doc1 only one.
	results := x.FullTextSearch("merger lawsuit", 10)
	if len(results) != 2 {
		t.Fatalf("result count = %d, want 2", len(results))
	}
	if results[0].Document.ID != "doc2" {
		t.Errorf("top result = %s, want doc2", results[0].Document.ID)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("scores not ordered: %v, %v", results[0].Score, results[1].Score)
	}
}

func TestSimilarDocuments(t *testing.T) {
	x := newCorpus()

	similar := x.SimilarDocuments("doc1", 5)
	if len(similar) != 1 {
		t.Fatalf("similar count = %d, want 1 (only doc2 shares a keyword)", len(similar))
	}
	hit := similar[0]
	if hit.DocumentID != "doc2" {
		t.Errorf("similar document = %s, want doc2", hit.DocumentID)
	}
	if len(hit.SharedKeywords) != 1 || hit.SharedKeywords[0] != "merger" {
		t.Errorf("shared keywords = %v, want [merger]", hit.SharedKeywords)
	}
	// doc1 keywords: merger, between, giants. doc2: lawsuit, filed,
	// merger, outcome. Jaccard = 1/6.
	if want := 1.0 / 6.0; hit.Similarity != want {
		t.Errorf("similarity = %v, want %v", hit.Similarity, want)
	}

	if similar := x.SimilarDocuments("missing", 5); similar != nil {
		t.Errorf("unknown id yielded results: %v", similar)
	}
}

func TestCorpusStats(t *testing.T) {
	x := newCorpus()

	stats := x.CorpusStats()
	if stats.DocumentCount != 3 {
		t.Errorf("document count = %d, want 3", stats.DocumentCount)
	}
	if stats.TotalWords != 5+6+4 {
		t.Errorf("total words = %d, want 15", stats.TotalWords)
	}
	if stats.FileTypes["TXT"] != 2 || stats.FileTypes["MD"] != 1 {
		t.Errorf("file types = %v", stats.FileTypes)
	}
	if len(stats.TopKeywords) == 0 || stats.TopKeywords[0].Keyword != "merger" {
		t.Errorf("top keywords = %v, want merger first", stats.TopKeywords)
	}
	if stats.TopKeywords[0].Count != 2 {
		t.Errorf("merger corpus count = %d, want 2", stats.TopKeywords[0].Count)
	}
}

func TestCorpusStatsEmpty(t *testing.T) {
	x := New(nil)
	stats := x.CorpusStats()
	if stats.DocumentCount != 0 || stats.AvgWordsPerDoc != 0 {
		t.Errorf("empty corpus stats = %+v", stats)
	}
}

func TestTimeline(t *testing.T) {
	x := newCorpus()

	timeline := x.Timeline()
	if len(timeline) != 3 {
		t.Fatalf("timeline length = %d, want 3", len(timeline))
	}
	for i := 1; i < len(timeline); i++ {
		if timeline[i].UploadDate.After(timeline[i-1].UploadDate) {
			t.Errorf("timeline not ordered newest first at index %d", i)
		}
	}
}
