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


package hyperkg

import (
	"context"
	"io"
	"log/slog"

	"github.com/poiesic/hyperkg/ai"
	"github.com/poiesic/hyperkg/ai/openai"
	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/geometry"
	"github.com/poiesic/hyperkg/ingestion"
	"github.com/poiesic/hyperkg/retune"
	"github.com/poiesic/hyperkg/search"
	"github.com/poiesic/hyperkg/storage"
	"github.com/poiesic/hyperkg/storage/badger"
	"github.com/poiesic/hyperkg/traversal"
)

// Database composes the storage, geometry, and AI layers into a single
// knowledge-graph handle.
type Database struct {
	backend   *badger.Backend
	graphRepo storage.GraphRepository
	embedder  ai.Embedder
	ball      *geometry.Ball
	coneCfg   entailment.ConeConfig
	engine    *traversal.Engine
	logger    *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig      *ai.Config
	hyperbolicCfg geometry.HyperbolicConfig
	coneCfg       entailment.ConeConfig
	inMemory      bool
}

// WithAIConfig overrides the embedding service configuration.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithHyperbolicConfig overrides the Poincare ball configuration.
func WithHyperbolicConfig(cfg geometry.HyperbolicConfig) DatabaseOption {
	return func(o *databaseOptions) {
		o.hyperbolicCfg = cfg
	}
}

// WithConeConfig overrides the entailment cone aperture schedule.
func WithConeConfig(cfg entailment.ConeConfig) DatabaseOption {
	return func(o *databaseOptions) {
		o.coneCfg = cfg
	}
}

// WithInMemory opens the store without touching the filesystem, for tests
// and throwaway graphs.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig:      ai.DefaultConfig(), // Default if not provided
		hyperbolicCfg: geometry.DefaultHyperbolicConfig(),
		coneCfg:       entailment.DefaultConeConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	ball, err := geometry.NewBall(options.hyperbolicCfg)
	if err != nil {
		return nil, err
	}
	if err := options.coneCfg.Validate(); err != nil {
		return nil, err
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create graph repository
	graphRepo, err := badger.NewGraphRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create the embedder with configured settings
	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		graphRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:   backend,
		graphRepo: graphRepo,
		embedder:  embedder,
		ball:      ball,
		coneCfg:   options.coneCfg,
		engine:    traversal.NewEngine(graphRepo, ball),
		logger:    slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close repositories
	if err := db.graphRepo.Close(); err != nil {
		db.logger.Error("error closing graph repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) GraphRepository() storage.GraphRepository {
	return db.graphRepo
}

// Ball exposes the configured Poincare ball.
func (db *Database) Ball() *geometry.Ball {
	return db.ball
}

// ConeConfig exposes the configured aperture schedule.
func (db *Database) ConeConfig() entailment.ConeConfig {
	return db.coneCfg
}

func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.graphRepo, db.embedder, db.ball, db.coneCfg, opts...)
}

func (db *Database) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(db.graphRepo, db.embedder, db.ball, db.coneCfg, opts...)
}

// NewRetuner builds a retuner that recalibrates every stored cone under the
// database's aperture schedule, writing progress to the given writer.
func (db *Database) NewRetuner(config *retune.Config, progress io.Writer) *retune.Retuner {
	return retune.NewRetuner(db.graphRepo, db.coneCfg, config, progress)
}

// BFS runs a breadth-first traversal from start.
func (db *Database) BFS(ctx context.Context, start core.ID, params traversal.Params) (*traversal.BFSResult, error) {
	return db.engine.BFS(ctx, start, params)
}

// DFS runs a depth-first traversal from start.
func (db *Database) DFS(ctx context.Context, start core.ID, params traversal.Params) (*traversal.DFSResult, error) {
	return db.engine.DFS(ctx, start, params)
}

// FindPath runs a best-first path search between two nodes. Edges on a
// found path have their traversal counts bumped; count updates are logged,
// not fatal.
func (db *Database) FindPath(ctx context.Context, start, goal core.ID, params traversal.PathParams) (*traversal.PathResult, error) {
	result, err := db.engine.FindPath(ctx, start, goal, params)
	if err != nil {
		return nil, err
	}

	if result.Found {
		if err := db.recordPathTraversals(ctx, result.Path); err != nil {
			db.logger.Warn("error recording path traversals", "err", err)
		}
	}
	return result, nil
}

// recordPathTraversals increments the traversal count of the first edge
// linking each consecutive pair on the path.
func (db *Database) recordPathTraversals(ctx context.Context, path []core.ID) error {
	for i := 0; i+1 < len(path); i++ {
		edges, err := db.graphRepo.GetAdjacency(ctx, path[i])
		if err != nil {
			return err
		}
		for _, edge := range edges {
			if edge.Target == path[i+1] {
				if err := db.graphRepo.RecordTraversals(ctx, path[i], edge.Id); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

// Stats reports record counts for the underlying store.
func (db *Database) Stats(ctx context.Context) (*storage.GraphStats, error) {
	return db.graphRepo.Stats(ctx)
}
