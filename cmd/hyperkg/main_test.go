package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/hyperkg/ai/mock"
	"github.com/poiesic/hyperkg/core"
	"github.com/poiesic/hyperkg/entailment"
	"github.com/poiesic/hyperkg/geometry"
	"github.com/poiesic/hyperkg/ingestion"
	"github.com/poiesic/hyperkg/storage"
	"github.com/poiesic/hyperkg/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func setupTestPipeline(t *testing.T) (*ingestion.Pipeline, storage.GraphRepository) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	ball, err := geometry.NewBall(geometry.DefaultHyperbolicConfig())
	require.NoError(t, err)

	pipeline, err := ingestion.NewPipeline(repo, mock.NewEmbedder(), ball, entailment.DefaultConeConfig())
	require.NoError(t, err)
	t.Cleanup(pipeline.Release)

	return pipeline, repo
}

func TestSeedConcepts_DemoTaxonomy(t *testing.T) {
	pipeline, repo := setupTestPipeline(t)

	count, err := seedConcepts(context.Background(), pipeline, demoTaxonomy)
	require.NoError(t, err)
	assert.Equal(t, len(demoTaxonomy), count)

	ctx := context.Background()

	// Depths follow the hierarchy.
	root, err := repo.FindNodeByLabel(ctx, "entity")
	require.NoError(t, err)
	assert.EqualValues(t, 0, root.Depth)

	dog, err := repo.FindNodeByLabel(ctx, "dog")
	require.NoError(t, err)
	assert.EqualValues(t, 4, dog.Depth)

	// The root's adjacency carries hierarchy edges to its children.
	edges, err := repo.GetAdjacency(ctx, root.Id)
	require.NoError(t, err)
	assert.Len(t, edges, 3)
	for _, edge := range edges {
		assert.Equal(t, core.EdgeTypeHierarchical, edge.Type)
	}
}

func TestSeedConcepts_ParentInSameBatchFlushes(t *testing.T) {
	pipeline, repo := setupTestPipeline(t)

	concepts := []ingestion.Concept{
		{Label: "vehicle", Domain: core.DomainGeneral},
		{Label: "car", Domain: core.DomainGeneral, Parent: "vehicle"},
		{Label: "sedan", Domain: core.DomainGeneral, Parent: "car"},
	}

	count, err := seedConcepts(context.Background(), pipeline, concepts)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	sedan, err := repo.FindNodeByLabel(context.Background(), "sedan")
	require.NoError(t, err)
	assert.EqualValues(t, 2, sedan.Depth)
}

func TestConceptsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.txt")
	contents := `# demo taxonomy
vehicle|general
car|general|vehicle

bike||vehicle
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	concepts, err := conceptsFromFile(path)
	require.NoError(t, err)
	require.Len(t, concepts, 3)

	assert.Equal(t, ingestion.Concept{Label: "vehicle", Domain: core.DomainGeneral}, concepts[0])
	assert.Equal(t, "vehicle", concepts[1].Parent)
	assert.Equal(t, ingestion.Concept{Label: "bike", Domain: core.DomainGeneral, Parent: "vehicle"}, concepts[2])
}

func TestConceptsFromFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := conceptsFromFile(filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})

	t.Run("unknown domain", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.txt")
		require.NoError(t, os.WriteFile(path, []byte("thing|astrology\n"), 0644))

		_, err := conceptsFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown domain")
	})

	t.Run("empty label", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "seed.txt")
		require.NoError(t, os.WriteFile(path, []byte("|general\n"), 0644))

		_, err := conceptsFromFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty label")
	})
}

func TestSetupLogger(t *testing.T) {
	run := func(level string) error {
		app := &cli.App{
			Name: "hyperkg",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
		return app.Run([]string{"hyperkg", "--log-level", level})
	}

	for _, level := range []string{"debug", "info", "WARN", "error"} {
		assert.NoError(t, run(level), "level %q should be accepted", level)
	}

	err := run("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestCommandArgValidation(t *testing.T) {
	app := &cli.App{
		Name: "hyperkg",
		Commands: []*cli.Command{
			{
				Name:   "entails",
				Action: entailsCommand,
				Flags:  []cli.Flag{dbFlag},
			},
		},
	}

	err := app.Run([]string{"hyperkg", "entails", "--db", t.TempDir(), "only-one-arg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage: entails")
}
