package docindex

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		topN int
		want []string
	}{
		{
			name: "empty text",
			text: "",
			topN: 5,
			want: []string{},
		},
		{
			name: "stopwords and short words filtered",
			text: "the cat and the dog ran over the fence",
			topN: 5,
			want: []string{"fence"},
		},
		{
			name: "frequency ranking",
			text: "merger merger merger acquisition acquisition contract",
			topN: 5,
			want: []string{"merger", "acquisition", "contract"},
		},
		{
			name: "ties keep first occurrence order",
			text: "alpha bravo alpha bravo charlie",
			topN: 5,
			want: []string{"alpha", "bravo", "charlie"},
		},
		{
			name: "topN caps the result",
			text: "merger merger acquisition acquisition contract contract lawsuit",
			topN: 2,
			want: []string{"merger", "acquisition"},
		},
		{
			name: "lowercased and punctuation ignored",
			text: "Merger! MERGER? merger.",
			topN: 5,
			want: []string{"merger"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractKeywords(tt.text, tt.topN)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("extractKeywords = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractKeywordsDeterministic(t *testing.T) {
	text := strings.Repeat("merger acquisition contract lawsuit verdict appeal ", 10)
	first := extractKeywords(text, topKeywords)
	for i := 0; i < 10; i++ {
		if got := extractKeywords(text, topKeywords); !reflect.DeepEqual(got, first) {
			t.Fatalf("extraction is not deterministic: %v vs %v", got, first)
		}
	}
}

func TestChunkContent(t *testing.T) {
	words := make([]string, 0, 950)
	for i := 0; i < 950; i++ {
		words = append(words, "w"+string(rune('a'+i%26)))
	}
	text := strings.Join(words, " ")

	chunks := chunkContent(text, 500, 100)
	if len(chunks) != 3 {
		t.Fatalf("chunk count = %d, want 3", len(chunks))
	}

	wantOffsets := []struct{ start, end int }{
		{0, 500},
		{400, 900},
		{800, 950},
	}
	for i, want := range wantOffsets {
		if chunks[i].StartWord != want.start || chunks[i].EndWord != want.end {
			t.Errorf("chunk %d offsets = [%d, %d), want [%d, %d)",
				i, chunks[i].StartWord, chunks[i].EndWord, want.start, want.end)
		}
		if chunks[i].Index != i {
			t.Errorf("chunk %d index = %d", i, chunks[i].Index)
		}
		if got := len(strings.Fields(chunks[i].Text)); got != want.end-want.start {
			t.Errorf("chunk %d word count = %d, want %d", i, got, want.end-want.start)
		}
	}
}

func TestChunkContentShortDocument(t *testing.T) {
	chunks := chunkContent("just a few words", 500, 100)
	if len(chunks) != 1 {
		t.Fatalf("chunk count = %d, want 1", len(chunks))
	}
	if chunks[0].Text != "just a few words" {
		t.Errorf("chunk text = %q", chunks[0].Text)
	}

	if chunks := chunkContent("", 500, 100); chunks != nil {
		t.Errorf("empty content produced chunks: %v", chunks)
	}
}
