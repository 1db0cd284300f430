package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/corvid-labs/magpie/internal/ingest"
	"github.com/corvid-labs/magpie/internal/server"
	"github.com/corvid-labs/magpie/internal/util"
	"github.com/corvid-labs/magpie/pkg/common"
	"github.com/corvid-labs/magpie/pkg/docindex"
	"github.com/corvid-labs/magpie/pkg/graph"
	"github.com/corvid-labs/magpie/pkg/logger"
	"github.com/corvid-labs/magpie/pkg/logger/console"
)

// namePattern matches runs of two or more capitalized words. Single
// capitalized words are skipped: they are mostly sentence starts.
var namePattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+\b`)

var orgSuffixes = []string{"Corp", "Inc", "Ltd", "LLC", "Company", "Group", "Labs"}

var honorifics = []string{"Mr", "Mrs", "Ms", "Dr", "Prof"}

// extractEntities is the offline stand-in for the NER service: a
// capitalized-phrase scan with suffix-based type guessing. Good enough to
// seed a corpus for local development.
func extractEntities(content string) []common.EntityRecord {
	seen := make(map[string]struct{})
	var records []common.EntityRecord

	for _, match := range namePattern.FindAllString(content, -1) {
		if _, ok := seen[match]; ok {
			continue
		}
		seen[match] = struct{}{}

		entityType := "PERSON"
		for _, suffix := range orgSuffixes {
			if strings.HasSuffix(match, suffix) {
				entityType = "ORG"
				break
			}
		}
		records = append(records, common.EntityRecord{
			Text:       match,
			Type:       entityType,
			Confidence: 0.7,
		})
	}

	// Honorific-prefixed names are a strong PERSON signal, even when
	// the name itself is a single word.
	for _, h := range honorifics {
		p := regexp.MustCompile(`\b` + h + `\.\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*`)
		for _, match := range p.FindAllString(content, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			records = append(records, common.EntityRecord{
				Text:       match,
				Type:       "PERSON",
				Confidence: 0.8,
			})
		}
	}

	return records
}

func main() {
	dir := flag.String("dir", ".", "directory of .txt and .md files to import")
	concurrency := flag.Int("concurrency", 4, "number of files ingested in parallel")
	flag.Parse()

	util.LoadEnv()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots := server.NewSnapshotStore(ctx)

	g := graph.New(snapshots)
	if err := g.Load(ctx); err != nil {
		logger.Fatal("Failed to load graph snapshot", "err", err)
	}
	docs := docindex.New(snapshots)
	if err := docs.Load(ctx); err != nil {
		logger.Fatal("Failed to load document snapshot", "err", err)
	}
	svc := ingest.NewService(g, docs)

	var paths []string
	err := filepath.WalkDir(*dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".txt", ".md":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		logger.Fatal("Failed to walk import directory", "dir", *dir, "err", err)
	}
	if len(paths) == 0 {
		color.Yellow("No .txt or .md files found in %s", *dir)
		return
	}

	color.Cyan("Importing %d file(s) from %s", len(paths), *dir)

	var imported, failed atomic.Int64
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(*concurrency)

	for _, path := range paths {
		path := path
		group.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				failed.Add(1)
				color.Red("  ✗ %s: %v", path, err)
				return nil
			}

			doc, err := svc.IngestDocument(groupCtx, ingest.DocumentParams{
				Filename: filepath.Base(path),
				Content:  string(content),
				Entities: extractEntities(string(content)),
				// one flush for the whole batch, below
				Flush: false,
			})
			if err != nil {
				failed.Add(1)
				color.Red("  ✗ %s: %v", path, err)
				return nil
			}

			imported.Add(1)
			color.Green("  ✓ %s (%d words, %d entities)",
				filepath.Base(path), doc.WordCount, len(doc.EntityIDs))
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		logger.Error("Import interrupted", "err", err)
	}

	svc.Flush(ctx)

	fmt.Println()
	color.Cyan("Imported %d, failed %d. Graph now holds %d documents.",
		imported.Load(), failed.Load(), g.DocumentCount())
}
