package main

import (
	"bufio"
	"context"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/ingestion"
)

// seedBatchSize is how many concepts of one hierarchy level are ingested per
// pipeline call. Parents must exist before their children, so each taxonomy
// level is flushed before the next begins.
const seedBatchSize = 5

// demoTaxonomy is a small IS-A hierarchy spanning several domains, ordered
// so every parent appears before its children.
var demoTaxonomy = []ingestion.Concept{
	{Label: "entity", Domain: core.DomainGeneral, Importance: 10},

	{Label: "organism", Domain: core.DomainGeneral, Parent: "entity", Importance: 9},
	{Label: "artifact", Domain: core.DomainGeneral, Parent: "entity", Importance: 8},
	{Label: "abstraction", Domain: core.DomainGeneral, Parent: "entity", Importance: 8},

	{Label: "animal", Domain: core.DomainGeneral, Parent: "organism", Importance: 8},
	{Label: "plant", Domain: core.DomainGeneral, Parent: "organism", Importance: 7},
	{Label: "software", Domain: core.DomainCode, Parent: "artifact", Importance: 8},
	{Label: "document", Domain: core.DomainLegal, Parent: "artifact", Importance: 7},
	{Label: "theory", Domain: core.DomainResearch, Parent: "abstraction", Importance: 7},
	{Label: "artwork", Domain: core.DomainCreative, Parent: "artifact", Importance: 7},

	{Label: "mammal", Domain: core.DomainGeneral, Parent: "animal", Importance: 7},
	{Label: "bird", Domain: core.DomainGeneral, Parent: "animal", Importance: 6},
	{Label: "reptile", Domain: core.DomainGeneral, Parent: "animal", Importance: 6},
	{Label: "tree", Domain: core.DomainGeneral, Parent: "plant", Importance: 6},
	{Label: "flower", Domain: core.DomainGeneral, Parent: "plant", Importance: 5},
	{Label: "compiler", Domain: core.DomainCode, Parent: "software", Importance: 7},
	{Label: "database", Domain: core.DomainCode, Parent: "software", Importance: 7},
	{Label: "operating system", Domain: core.DomainCode, Parent: "software", Importance: 7},
	{Label: "contract", Domain: core.DomainLegal, Parent: "document", Importance: 7},
	{Label: "patent", Domain: core.DomainLegal, Parent: "document", Importance: 6},
	{Label: "diagnosis", Domain: core.DomainMedical, Parent: "theory", Importance: 7},
	{Label: "hypothesis", Domain: core.DomainResearch, Parent: "theory", Importance: 6},
	{Label: "painting", Domain: core.DomainCreative, Parent: "artwork", Importance: 6},
	{Label: "sculpture", Domain: core.DomainCreative, Parent: "artwork", Importance: 5},

	{Label: "dog", Domain: core.DomainGeneral, Parent: "mammal", Importance: 6},
	{Label: "cat", Domain: core.DomainGeneral, Parent: "mammal", Importance: 6},
	{Label: "whale", Domain: core.DomainGeneral, Parent: "mammal", Importance: 5},
	{Label: "eagle", Domain: core.DomainGeneral, Parent: "bird", Importance: 5},
	{Label: "penguin", Domain: core.DomainGeneral, Parent: "bird", Importance: 5},
	{Label: "snake", Domain: core.DomainGeneral, Parent: "reptile", Importance: 5},
	{Label: "oak", Domain: core.DomainGeneral, Parent: "tree", Importance: 4},
	{Label: "rose", Domain: core.DomainGeneral, Parent: "flower", Importance: 4},
	{Label: "optimizing compiler", Domain: core.DomainCode, Parent: "compiler", Importance: 5},
	{Label: "graph database", Domain: core.DomainCode, Parent: "database", Importance: 6},
	{Label: "relational database", Domain: core.DomainCode, Parent: "database", Importance: 6},
	{Label: "employment contract", Domain: core.DomainLegal, Parent: "contract", Importance: 5},
	{Label: "differential diagnosis", Domain: core.DomainMedical, Parent: "diagnosis", Importance: 6},
	{Label: "null hypothesis", Domain: core.DomainResearch, Parent: "hypothesis", Importance: 5},
	{Label: "oil painting", Domain: core.DomainCreative, Parent: "painting", Importance: 4},
}

// conceptsFromFile reads seed concepts from a file, one per line:
// label|domain|parent. Domain and parent may be empty; blank lines and
// lines starting with '#' are skipped.
func conceptsFromFile(filename string) ([]ingestion.Concept, error) {
	lines, err := linesFromFile(filename)
	if err != nil {
		return nil, err
	}

	var concepts []ingestion.Concept
	lineNo := 0
	for line := range lines {
		lineNo++
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "|")
		concept := ingestion.Concept{
			Label:  strings.TrimSpace(fields[0]),
			Domain: core.DomainGeneral,
		}
		if concept.Label == "" {
			return nil, fmt.Errorf("line %d: empty label", lineNo)
		}
		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			domain, ok := core.ParseDomain(strings.TrimSpace(fields[1]))
			if !ok {
				return nil, fmt.Errorf("line %d: unknown domain %q", lineNo, fields[1])
			}
			concept.Domain = domain
		}
		if len(fields) > 2 {
			concept.Parent = strings.TrimSpace(fields[2])
		}

		concepts = append(concepts, concept)
	}

	return concepts, nil
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// seedConcepts ingests concepts in order, flushing a batch whenever the
// next concept's parent was created in the current batch. Returns the
// number of concepts ingested.
func seedConcepts(ctx context.Context, pipeline *ingestion.Pipeline, concepts []ingestion.Concept) (int, error) {
	batch := make([]ingestion.Concept, 0, seedBatchSize)
	pending := make(map[string]bool, seedBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := pipeline.Ingest(ctx, batch...); err != nil {
			return err
		}
		batch = batch[:0]
		clear(pending)
		return nil
	}

	total := 0
	for _, concept := range concepts {
		// A child cannot share a batch with its parent.
		if pending[concept.Parent] || len(batch) == seedBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
		batch = append(batch, concept)
		pending[concept.Label] = true
		total++
	}

	return total, flush()
}
