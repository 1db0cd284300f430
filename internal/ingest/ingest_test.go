package ingest

import (
	"context"
	"testing"

	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/docindex"
	"github.com/corvid-labs/magpie/pkg/graph"
)

func newService() (*Service, *graph.Graph, *docindex.Index) {
	g := graph.New(nil)
	docs := docindex.New(nil)
	return NewService(g, docs), g, docs
}

func TestIngestDocument(t *testing.T) {
	svc, g, docs := newService()

	doc, err := svc.IngestDocument(context.Background(), DocumentParams{
		Filename: "report.pdf",
		Content:  "Jane Smith signed the merger for Acme Corp.",
		Summary:  "Merger signing",
		Entities: []common.EntityRecord{
			{Text: "Jane Smith", Type: "PERSON", Confidence: 0.9},
			{Text: "Acme Corp", Type: "ORG", Confidence: 0.9},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.ID == "" {
		t.Error("document id not minted")
	}
	if doc.FileType != "PDF" {
		t.Errorf("file type = %q, want PDF derived from extension", doc.FileType)
	}
	if len(doc.EntityIDs) != 2 {
		t.Errorf("entity back-references = %v, want 2", doc.EntityIDs)
	}

	// Both stores see the document.
	if _, ok := docs.Document(doc.ID); !ok {
		t.Error("document not indexed")
	}
	if entities := g.EntitiesInDocument(doc.ID); len(entities) != 2 {
		t.Errorf("graph entities for document = %d, want 2", len(entities))
	}
	if g.Stats().TotalRelationships != 1 {
		t.Errorf("co-occurrence edges = %d, want 1", g.Stats().TotalRelationships)
	}
}

func TestIngestDocumentDefaultsFileType(t *testing.T) {
	svc, _, _ := newService()

	doc, err := svc.IngestDocument(context.Background(), DocumentParams{
		Filename: "notes",
		Content:  "plain content",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FileType != "TXT" {
		t.Errorf("file type = %q, want TXT default", doc.FileType)
	}
}

func TestIngestDocumentDeduplicatesEntityIDs(t *testing.T) {
	svc, _, _ := newService()

	// Two surface forms of the same person collapse to one entity id.
	doc, err := svc.IngestDocument(context.Background(), DocumentParams{
		Filename: "a.txt",
		Content:  "Dr. Jane Smith, also known as Jane Smith.",
		Entities: []common.EntityRecord{
			{Text: "Dr. Jane Smith", Type: "PERSON", Confidence: 0.8},
			{Text: "Jane Smith", Type: "PERSON", Confidence: 0.9},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.EntityIDs) != 1 {
		t.Errorf("entity ids = %v, want the merged entity once", doc.EntityIDs)
	}
}

func TestDeleteDocument(t *testing.T) {
	svc, _, docs := newService()

	doc, err := svc.IngestDocument(context.Background(), DocumentParams{
		Filename: "a.txt",
		Content:  "content",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !svc.DeleteDocument(context.Background(), doc.ID, false) {
		t.Fatal("delete returned false")
	}
	if svc.DeleteDocument(context.Background(), doc.ID, false) {
		t.Error("second delete returned true")
	}
	if _, ok := docs.Document(doc.ID); ok {
		t.Error("document still present after delete")
	}
}

func TestReset(t *testing.T) {
	svc, g, docs := newService()

	_, err := svc.IngestDocument(context.Background(), DocumentParams{
		Filename: "a.txt",
		Content:  "Jane Smith content",
		Entities: []common.EntityRecord{
			{Text: "Jane Smith", Type: "PERSON", Confidence: 0.9},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc.Reset(context.Background())

	if g.Stats().TotalEntities != 0 {
		t.Error("graph not cleared")
	}
	if len(docs.All()) != 0 {
		t.Error("document index not cleared")
	}
}
