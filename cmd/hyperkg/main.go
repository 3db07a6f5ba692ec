// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/hyperkg"
	"github.com/poiesic/hyperkg/ai"
	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/retune"
	"github.com/poiesic/hyperkg/search"
	"github.com/poiesic/hyperkg/traversal"
	"github.com/urfave/cli/v2"
)

var dbFlag = &cli.StringFlag{
	Name:     "db",
	Aliases:  []string{"d"},
	Usage:    "Path to BadgerDB database directory",
	Required: true,
}

var embeddingFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "embedding-host",
		Usage: "Embedding service host URL",
		Value: "http://localhost:11434/v1",
	},
	&cli.StringFlag{
		Name:  "embedding-model",
		Usage: "Embedding model name",
		Value: "embeddinggemma",
	},
}

var domainFlag = &cli.StringFlag{
	Name:  "domain",
	Usage: "Query domain biasing edge costs (general, code, legal, medical, creative, research)",
	Value: "general",
}

func main() {
	app := &cli.App{
		Name:  "hyperkg",
		Usage: "Hyperbolic knowledge-graph reasoning engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Ingest a demo IS-A taxonomy, or one read from a file",
				Action: seedCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "src",
						Usage: "File of seed concepts, one 'label|domain|parent' per line",
					},
				}, embeddingFlags...),
			},
			{
				Name:      "entails",
				Usage:     "Check whether one concept subsumes another",
				ArgsUsage: "ANCESTOR DESCENDANT",
				Action:    entailsCommand,
				Flags:     []cli.Flag{dbFlag},
			},
			{
				Name:      "search",
				Usage:     "Find concepts similar to a query",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:  "within",
						Usage: "Restrict hits to descendants of this concept",
					},
					&cli.IntFlag{
						Name:  "max-hits",
						Usage: "Maximum number of results",
						Value: 5,
					},
				}, embeddingFlags...),
			},
			{
				Name:      "bfs",
				Usage:     "Breadth-first traversal from a concept",
				ArgsUsage: "START",
				Action:    bfsCommand,
				Flags: []cli.Flag{
					dbFlag,
					domainFlag,
					&cli.IntFlag{
						Name:  "max-depth",
						Usage: "Depth limit",
						Value: traversal.DefaultMaxDepth,
					},
					&cli.IntFlag{
						Name:  "max-nodes",
						Usage: "Node limit",
						Value: traversal.DefaultMaxNodes,
					},
				},
			},
			{
				Name:      "dfs",
				Usage:     "Depth-first traversal from a concept",
				ArgsUsage: "START",
				Action:    dfsCommand,
				Flags: []cli.Flag{
					dbFlag,
					domainFlag,
					&cli.IntFlag{
						Name:  "max-depth",
						Usage: "Depth limit",
						Value: traversal.DefaultMaxDepth,
					},
					&cli.BoolFlag{
						Name:  "post-order",
						Usage: "Also emit nodes in finish order",
					},
				},
			},
			{
				Name:      "path",
				Usage:     "Cheapest path between two concepts",
				ArgsUsage: "START GOAL",
				Action:    pathCommand,
				Flags: []cli.Flag{
					dbFlag,
					domainFlag,
					&cli.IntFlag{
						Name:  "max-expansions",
						Usage: "Expansion limit",
						Value: traversal.DefaultMaxExpansions,
					},
					&cli.BoolFlag{
						Name:  "no-heuristic",
						Usage: "Disable the geometric heuristic (plain Dijkstra)",
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print record counts for a database",
				Action: statsCommand,
				Flags:  []cli.Flag{dbFlag},
			},
			{
				Name:   "retune",
				Usage:  "Recalibrate all stored cones under a new aperture schedule",
				Action: retuneCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.Float64Flag{
						Name:  "base-aperture",
						Usage: "Aperture at depth zero (radians)",
						Value: 1.0,
					},
					&cli.Float64Flag{
						Name:  "decay",
						Usage: "Per-depth aperture decay factor",
						Value: 0.85,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of cones to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N cones",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDatabase(c *cli.Context, opts ...hyperkg.DatabaseOption) (*hyperkg.Database, error) {
	dbPath := c.String("db")
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if c.IsSet("embedding-host") || c.IsSet("embedding-model") {
		aiConfig := ai.NewConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithModel(c.String("embedding-model")),
		)
		if err := aiConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		opts = append(opts, hyperkg.WithAIConfig(aiConfig))
	}

	db, err := hyperkg.NewDatabase(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func resolveNode(ctx context.Context, db *hyperkg.Database, label string) (*core.GraphNode, error) {
	node, err := db.GraphRepository().FindNodeByLabel(ctx, label)
	if err != nil {
		return nil, fmt.Errorf("unknown concept %q: %w", label, err)
	}
	return node, nil
}

func queryDomain(c *cli.Context) (core.Domain, error) {
	domain, ok := core.ParseDomain(c.String("domain"))
	if !ok {
		return 0, fmt.Errorf("unknown domain %q", c.String("domain"))
	}
	return domain, nil
}

func seedCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		return fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}
	defer pipeline.Release()

	concepts := demoTaxonomy
	if src := c.String("src"); src != "" {
		concepts, err = conceptsFromFile(src)
		if err != nil {
			return fmt.Errorf("failed to read seed file: %w", err)
		}
	}

	ctx := context.Background()
	count, err := seedConcepts(ctx, pipeline, concepts)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Seeded %d concepts\n", count)
	return nil
}

func entailsCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: entails ANCESTOR DESCENDANT")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	ancestor, descendant := c.Args().Get(0), c.Args().Get(1)
	entailed, score, err := searcher.Entails(context.Background(), ancestor, descendant)
	if err != nil {
		return err
	}

	if entailed {
		fmt.Printf("%s IS-A %s (membership %.3f)\n", descendant, ancestor, score)
	} else {
		fmt.Printf("%s is not a %s (membership %.3f)\n", descendant, ancestor, score)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("usage: search QUERY...")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	searcher, err := db.NewSearcher()
	if err != nil {
		return err
	}

	ctx := context.Background()
	query := strings.Join(c.Args().Slice(), " ")
	maxHits := c.Int("max-hits")

	var results []*search.Result
	if within := c.String("within"); within != "" {
		results, err = searcher.FindWithin(ctx, query, within, maxHits)
	} else {
		results, err = searcher.FindSimilar(ctx, query, maxHits)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: '%s' (%d)[%0.3f]\n", i, hit.Node.Label, hit.Node.Id, hit.Score)
	}
	return nil
}

func bfsCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: bfs START")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	domain, err := queryDomain(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start, err := resolveNode(ctx, db, c.Args().First())
	if err != nil {
		return err
	}

	result, err := db.BFS(ctx, start.Id, traversal.Params{
		QueryDomain: domain,
		MaxDepth:    c.Int("max-depth"),
		MaxNodes:    c.Int("max-nodes"),
	})
	if err != nil {
		return err
	}

	for _, visit := range result.Visits {
		fmt.Printf("depth %d: %d\n", visit.Depth, visit.Node)
	}
	fmt.Printf("visited %d nodes over %d depths (truncated: %t)\n",
		len(result.Visits), len(result.DepthCounts), result.Truncated)
	return nil
}

func dfsCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: dfs START")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	domain, err := queryDomain(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start, err := resolveNode(ctx, db, c.Args().First())
	if err != nil {
		return err
	}

	result, err := db.DFS(ctx, start.Id, traversal.Params{
		QueryDomain: domain,
		MaxDepth:    c.Int("max-depth"),
		PostOrder:   c.Bool("post-order"),
	})
	if err != nil {
		return err
	}

	fmt.Printf("pre-order: %v\n", result.PreOrder)
	if c.Bool("post-order") {
		fmt.Printf("post-order: %v\n", result.PostOrder)
	}
	fmt.Printf("back edges: %d (truncated: %t)\n", result.BackEdges, result.Truncated)
	return nil
}

func pathCommand(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: path START GOAL")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	domain, err := queryDomain(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start, err := resolveNode(ctx, db, c.Args().Get(0))
	if err != nil {
		return err
	}
	goal, err := resolveNode(ctx, db, c.Args().Get(1))
	if err != nil {
		return err
	}

	result, err := db.FindPath(ctx, start.Id, goal.Id, traversal.PathParams{
		QueryDomain:      domain,
		MaxExpansions:    c.Int("max-expansions"),
		DisableHeuristic: c.Bool("no-heuristic"),
	})
	if err != nil {
		return err
	}

	if !result.Found {
		fmt.Printf("no path (expanded %d nodes, truncated: %t)\n", result.Expanded, result.Truncated)
		return nil
	}

	fmt.Printf("path: %v\n", result.Path)
	fmt.Printf("cost %.3f, expanded %d nodes\n", result.Cost, result.Expanded)
	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("nodes: %d\nedges: %d\npoints: %d\ncones: %d\n",
		stats.Nodes, stats.Edges, stats.Points, stats.Cones)
	return nil
}

func retuneCommand(c *cli.Context) error {
	coneCfg := entailment.DefaultConeConfig()
	coneCfg.BaseAperture = float32(c.Float64("base-aperture"))
	coneCfg.ApertureDecay = float32(c.Float64("decay"))
	if err := coneCfg.Validate(); err != nil {
		return fmt.Errorf("invalid aperture schedule: %w", err)
	}

	retuneConfig := &retune.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	// Validate config
	if retuneConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if retuneConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if retuneConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c, hyperkg.WithConeConfig(coneCfg))
	if err != nil {
		return err
	}
	defer db.Close()

	retuner := db.NewRetuner(retuneConfig, os.Stderr)

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Base aperture: %.3f, decay: %.3f\n",
		coneCfg.BaseAperture, coneCfg.ApertureDecay)
	fmt.Fprintln(os.Stderr)

	if err := retuner.Run(context.Background(), nil); err != nil {
		return fmt.Errorf("retuning failed: %w", err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
