package reason

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/docindex"
	"github.com/corvid-labs/magpie/pkg/graph"
)

// newFixture builds a small two-document corpus: doc1 mentions Jane Smith
// and Acme Corp, doc2 mentions Jane Smith and Bob Lee.
func newFixture(t *testing.T) *Engine {
	t.Helper()

	g := graph.New(nil)
	docs := docindex.New(nil)

	content1 := "Jane Smith joined Acme Corp as chief counsel for the merger."
	g.IngestDocumentEntities("doc1", []common.EntityRecord{
		{Text: "Jane Smith", Type: "PERSON", Confidence: 0.9},
		{Text: "Acme Corp", Type: "ORG", Confidence: 0.9},
	}, content1)
	docs.AddDocument(docindex.AddDocumentParams{
		ID:       "doc1",
		Filename: "hire.txt",
		Content:  content1,
		FileType: "TXT",
	})

	content2 := "Dr. Jane Smith met Bob Lee to discuss the lawsuit."
	g.IngestDocumentEntities("doc2", []common.EntityRecord{
		{Text: "Dr. Jane Smith", Type: "PERSON", Confidence: 0.8},
		{Text: "Bob Lee", Type: "PERSON", Confidence: 0.9},
	}, content2)
	docs.AddDocument(docindex.AddDocumentParams{
		ID:       "doc2",
		Filename: "meeting.txt",
		Content:  content2,
		FileType: "TXT",
	})

	return New(g, docs)
}

func TestQueryEntityFound(t *testing.T) {
	e := newFixture(t)

	result := e.QueryEntity("Jane Smith")
	if !result.Found {
		t.Fatal("entity not found")
	}
	if result.Name != "Jane Smith" || result.Type != "PERSON" {
		t.Errorf("resolved to %s (%s)", result.Name, result.Type)
	}
	// Two mentions: the plain form in doc1 and the honorific alias in doc2.
	if result.MentionCount != 2 {
		t.Errorf("mention count = %d, want 2", result.MentionCount)
	}
	if len(result.Documents) != 2 {
		t.Fatalf("document count = %d, want 2", len(result.Documents))
	}
	if result.Documents[0].Filename != "hire.txt" || result.Documents[1].Filename != "meeting.txt" {
		t.Errorf("document filenames = %s, %s", result.Documents[0].Filename, result.Documents[1].Filename)
	}
	if len(result.Related) != 2 {
		t.Errorf("related count = %d, want 2 (Acme Corp, Bob Lee)", len(result.Related))
	}
	if !strings.HasPrefix(result.Summary, "Jane Smith is a PERSON mentioned in 2 document(s).") {
		t.Errorf("summary = %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "It appears together with:") {
		t.Errorf("summary missing co-occurrence sentence: %q", result.Summary)
	}
}

func TestQueryEntityNotFound(t *testing.T) {
	e := newFixture(t)

	result := e.QueryEntity("Zorblax")
	if result.Found {
		t.Fatal("nonexistent entity reported as found")
	}
	if want := "Entity 'Zorblax' not found in any document"; result.Summary != want {
		t.Errorf("summary = %q, want %q", result.Summary, want)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("suggestions = %v, want none for an unrelated name", result.Suggestions)
	}
}

func TestQueryEntityPartialResolution(t *testing.T) {
	e := newFixture(t)

	// "Smith" is not an indexed surface form but resolves through the
	// partial-name fallback.
	result := e.QueryEntity("Smith")
	if !result.Found {
		t.Fatal("partial name did not resolve")
	}
	if result.Name != "Jane Smith" {
		t.Errorf("resolved to %q, want Jane Smith", result.Name)
	}
}

func TestFindConnectionsSymmetric(t *testing.T) {
	e := newFixture(t)

	ab := e.FindConnections("Acme Corp", "Bob Lee")
	ba := e.FindConnections("Bob Lee", "Acme Corp")

	if !ab.Found || !ba.Found {
		t.Fatal("entities did not resolve")
	}
	if ab.Strength != ba.Strength {
		t.Errorf("strength differs: %s vs %s", ab.Strength, ba.Strength)
	}
	if !reflect.DeepEqual(ab.SharedDocuments, ba.SharedDocuments) {
		t.Errorf("shared documents differ: %v vs %v", ab.SharedDocuments, ba.SharedDocuments)
	}
	if !reflect.DeepEqual(ab.CommonConnections, ba.CommonConnections) {
		t.Errorf("common connections differ: %v vs %v", ab.CommonConnections, ba.CommonConnections)
	}
}

func TestFindConnectionsStrength(t *testing.T) {
	e := newFixture(t)

	// Direct CO_OCCURS edge from doc1.
	direct := e.FindConnections("Jane Smith", "Acme Corp")
	if direct.Strength != StrengthStrong {
		t.Errorf("strength = %s, want strong", direct.Strength)
	}
	if len(direct.Direct) != 1 {
		t.Errorf("direct relationship count = %d, want 1", len(direct.Direct))
	}
	if !reflect.DeepEqual(direct.SharedDocuments, []string{"doc1"}) {
		t.Errorf("shared documents = %v, want [doc1]", direct.SharedDocuments)
	}
	if !strings.Contains(direct.Summary, "direct relationship(s)") {
		t.Errorf("summary = %q", direct.Summary)
	}

	// Acme Corp and Bob Lee never co-occur; Jane Smith bridges them.
	bridged := e.FindConnections("Acme Corp", "Bob Lee")
	if bridged.Strength != StrengthWeak {
		t.Errorf("strength = %s, want weak", bridged.Strength)
	}
	if !reflect.DeepEqual(bridged.CommonConnections, []string{"Jane Smith"}) {
		t.Errorf("common connections = %v, want [Jane Smith]", bridged.CommonConnections)
	}
	if !strings.Contains(bridged.Summary, "connected through 1 common entities") {
		t.Errorf("summary = %q", bridged.Summary)
	}
}

func TestFindConnectionsNotFound(t *testing.T) {
	e := newFixture(t)

	result := e.FindConnections("Zorblax", "Jane Smith")
	if result.Found {
		t.Fatal("nonexistent entity reported as found")
	}
	if want := "Entity 'Zorblax' not found"; result.Message != want {
		t.Errorf("message = %q, want %q", result.Message, want)
	}
}

func TestAggregateByType(t *testing.T) {
	e := newFixture(t)

	result := e.AggregateByType("person")
	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	// Jane Smith has two mentions and ranks first.
	if result.Entities[0].Name != "Jane Smith" {
		t.Errorf("top entity = %s, want Jane Smith", result.Entities[0].Name)
	}
	if !reflect.DeepEqual(result.Entities[0].Documents, []string{"doc1", "doc2"}) {
		t.Errorf("documents = %v", result.Entities[0].Documents)
	}

	if result := e.AggregateByType("LOC"); result.Count != 0 {
		t.Errorf("LOC count = %d, want 0", result.Count)
	}
}

func TestFindContradictions(t *testing.T) {
	e := newFixture(t)

	report := e.FindContradictions()
	// Only Jane Smith spans two documents.
	if report.TotalFlagged != 1 {
		t.Fatalf("flagged count = %d, want 1", report.TotalFlagged)
	}
	flagged := report.Flagged[0]
	if flagged.Entity != "Jane Smith" {
		t.Errorf("flagged entity = %s", flagged.Entity)
	}
	if !reflect.DeepEqual(flagged.Documents, []string{"doc1", "doc2"}) {
		t.Errorf("flagged documents = %v", flagged.Documents)
	}
	if len(flagged.Contexts) != 2 {
		t.Errorf("contexts = %v, want one per document", flagged.Contexts)
	}
	if want := "Entity appears in multiple documents - manual review recommended"; flagged.Note != want {
		t.Errorf("note = %q", flagged.Note)
	}
}

func TestAnswerQuestionDispatch(t *testing.T) {
	e := newFixture(t)

	tests := []struct {
		name     string
		question string
		wantKind string
	}{
		{
			name:     "tell me about",
			question: "Tell me about Jane Smith",
			wantKind: "entity",
		},
		{
			name:     "what do we know about",
			question: `What do we know about "Acme Corp"?`,
			wantKind: "entity",
		},
		{
			name:     "connection question",
			question: "How is Jane Smith related to Bob Lee?",
			wantKind: "connection",
		},
		{
			name:     "connected variant",
			question: "how is Acme Corp connected to Bob Lee",
			wantKind: "connection",
		},
		{
			name:     "aggregation",
			question: "List all people",
			wantKind: "aggregate",
		},
		{
			name:     "which documents mention",
			question: "Which documents mention Bob Lee?",
			wantKind: "entity",
		},
		{
			name:     "fallback to search",
			question: "lawsuit details",
			wantKind: "search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := e.AnswerQuestion(tt.question)
			if answer.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", answer.Kind, tt.wantKind)
			}
			if answer.Query != tt.question {
				t.Errorf("query = %q, want the original question", answer.Query)
			}
		})
	}
}

func TestAnswerQuestionPayloads(t *testing.T) {
	e := newFixture(t)

	entity := e.AnswerQuestion("Tell me about Jane Smith")
	if entity.Entity == nil || !entity.Entity.Found {
		t.Errorf("entity payload = %+v", entity.Entity)
	}

	conn := e.AnswerQuestion("How is Jane Smith related to Bob Lee?")
	if conn.Connection == nil || !conn.Connection.Found {
		t.Fatalf("connection payload = %+v", conn.Connection)
	}
	if conn.Connection.Strength != StrengthStrong {
		t.Errorf("strength = %s, want strong (co-occur in doc2)", conn.Connection.Strength)
	}

	agg := e.AnswerQuestion("List all companies")
	if agg.Aggregate == nil || agg.Aggregate.EntityType != "ORG" {
		t.Errorf("aggregate payload = %+v", agg.Aggregate)
	}

	search := e.AnswerQuestion("merger news")
	if search.Kind != "search" || len(search.Search) == 0 {
		t.Errorf("search payload kind=%s results=%d", search.Kind, len(search.Search))
	}
}

func TestDocumentInsights(t *testing.T) {
	e := newFixture(t)

	insights, err := e.DocumentInsights("doc1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if insights.Filename != "hire.txt" {
		t.Errorf("filename = %s", insights.Filename)
	}
	if len(insights.KeyEntities) != 2 {
		t.Fatalf("key entity count = %d, want 2", len(insights.KeyEntities))
	}
	// Jane Smith has edges to both Acme Corp and Bob Lee; Acme only one.
	if insights.KeyEntities[0].Name != "Jane Smith" {
		t.Errorf("top key entity = %s, want Jane Smith", insights.KeyEntities[0].Name)
	}
	if len(insights.Connected) != 1 || insights.Connected[0].DocumentID != "doc2" {
		t.Errorf("connected documents = %+v, want doc2", insights.Connected)
	}

	_, err = e.DocumentInsights("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestOverview(t *testing.T) {
	e := newFixture(t)

	overview := e.Overview()
	if overview.Documents.DocumentCount != 2 {
		t.Errorf("document count = %d, want 2", overview.Documents.DocumentCount)
	}
	if overview.Graph.TotalEntities != 3 {
		t.Errorf("entity count = %d, want 3", overview.Graph.TotalEntities)
	}
	if len(overview.TopEntities) != 3 {
		t.Fatalf("top entity count = %d, want 3", len(overview.TopEntities))
	}
	if overview.TopEntities[0].Name != "Jane Smith" {
		t.Errorf("most connected entity = %s, want Jane Smith", overview.TopEntities[0].Name)
	}
}
