// Command extract runs the entity/relation/assertion pipeline over one or
// more text documents and folds the results into a single cross-document
// knowledge graph, printed as JSON.
//
// Usage:
//
//	go run ./cmd/extract --input ./docs --out graph.json
//	go run ./cmd/extract --input chapter1.txt --input chapter2.txt
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/kittclouds/gokitt/pkg/config"
	"github.com/kittclouds/gokitt/pkg/docstore"
	"github.com/kittclouds/gokitt/pkg/graph"
	"github.com/kittclouds/gokitt/pkg/pipeline"
)

type stringSlice []string

func (s *stringSlice) String() string { return strings.Join(*s, ", ") }
func (s *stringSlice) Set(val string) error {
	*s = append(*s, val)
	return nil
}

func main() {
	var inputs stringSlice
	flag.Var(&inputs, "input", "file or directory to process (repeatable)")
	var (
		outPath      = flag.String("out", "", "output path for the merged graph JSON (default: stdout)")
		promote      = flag.Int("promote-threshold", 2, "mention count required to promote a candidate to an entity")
		summaryConc  = flag.Int("summary-concurrency", 8, "concurrency for community summarization")
		jsonLog      = flag.Bool("json-log", false, "emit structured logs as JSON instead of text")
		chunkWorkers = flag.Int("chunk-workers", 0, "override the per-document chunk worker count (0: use default)")
	)
	flag.Parse()

	level := slog.LevelInfo
	var handler slog.Handler
	if *jsonLog {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))

	if len(inputs) == 0 {
		slog.Error("no --input given")
		os.Exit(1)
	}

	cfg := config.Default()
	if *chunkWorkers > 0 {
		cfg.ChunkWorkers = *chunkWorkers
	}

	p, err := pipeline.New(cfg, *promote)
	if err != nil {
		slog.Error("building pipeline", "error", err)
		os.Exit(1)
	}
	defer p.Close()

	docs, err := collectDocs(inputs)
	if err != nil {
		slog.Error("collecting documents", "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		slog.Error("no documents found under the given inputs")
		os.Exit(1)
	}

	ctx := context.Background()
	builder := graph.NewBuilder(cfg)

	for _, d := range docs {
		slog.Info("processing document", "path", d.path, "bytes", len(d.text))
		doc := p.ProcessDocument(ctx, d.path, d.text)
		for _, e := range doc.Errors {
			slog.Warn("chunk processing error", "doc", d.path, "error", e)
		}
		slog.Info("document processed",
			"path", d.path,
			"entities", len(doc.Entities),
			"spans", len(doc.Spans),
			"relations", len(doc.Relations),
			"assertions", len(doc.Assertions),
		)
		builder.AddDocument(pipeline.ToGraphInput(d.path, doc))
	}

	g := builder.Result()
	communities := graph.DetectCommunities(g)
	communities = graph.SummarizeCommunities(ctx, communities, g.Entities, graph.DescriptiveSummarizer{}, *summaryConc)

	slog.Info("graph built", "entities", len(g.Entities), "relations", len(g.Relations), "communities", len(communities))

	out := struct {
		Graph       graph.Graph       `json:"graph"`
		Communities []graph.Community `json:"communities"`
	}{Graph: g, Communities: communities}

	w := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			slog.Error("creating output file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		slog.Error("encoding output", "error", err)
		os.Exit(1)
	}
}

type docInput struct {
	path string
	text string
}

// collectDocs expands each input path into one docInput per .txt file found,
// recursing into directories and treating a plain file argument as itself.
// A docstore.Store dedupes paths reachable through more than one --input
// (a file named directly that a sibling directory walk also turns up).
func collectDocs(inputs []string) ([]docInput, error) {
	cache := docstore.New()
	var order []string

	visit := func(path string) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		fp := info.Size()
		if cache.Unchanged(path, fp) {
			return nil
		}
		text, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		cache.Upsert(path, string(text), fp)
		order = append(order, path)
		return nil
	}

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := visit(in); err != nil {
				return nil, err
			}
			continue
		}
		err = filepath.WalkDir(in, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".txt") {
				return nil
			}
			return visit(path)
		})
		if err != nil {
			return nil, err
		}
	}

	docs := make([]docInput, len(order))
	for i, id := range order {
		docs[i] = docInput{path: id, text: cache.GetText(id)}
	}
	return docs, nil
}
