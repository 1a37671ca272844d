// test/e2e/e2e_test.go
//
// End-to-end tests against a running stack: Zeebe on localhost:26500,
// Postgres and Redis per configs/config.yaml. Gated behind RUN_E2E_TESTS
// so the unit suite stays self-contained.
package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandscore-workers/internal/common/config"
	"brandscore-workers/internal/common/database"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/embedding"
	"brandscore-workers/internal/models"
	"brandscore-workers/internal/retrieval"
	"brandscore-workers/internal/scoring"
	"brandscore-workers/internal/store"

	analyzetheme "brandscore-workers/internal/workers/content/analyze-theme"
	rankcontent "brandscore-workers/internal/workers/content/rank-content"
	retrievebrandcontext "brandscore-workers/internal/workers/content/retrieve-brand-context"
	validatecontent "brandscore-workers/internal/workers/content/validate-content"
)

var (
	zeebeClient zbc.Client
	pgClient    *database.PostgresClient
	redisClient *database.RedisClient
	cfg         *config.Config
	log         logger.Logger
)

func TestMain(m *testing.M) {
	if os.Getenv("RUN_E2E_TESTS") != "true" {
		fmt.Println("RUN_E2E_TESTS not set, skipping e2e suite")
		os.Exit(0)
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	log = logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	zeebeClient, err = zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Zeebe: %v", err))
	}

	pgClient, err = database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Postgres: %v", err))
	}
	redisClient, err = database.NewRedis(cfg.Database.Redis)
	if err != nil {
		panic(fmt.Sprintf("failed to connect to Redis: %v", err))
	}

	code := m.Run()

	redisClient.Close()
	pgClient.Close()
	zeebeClient.Close()
	os.Exit(code)
}

func TestConnectivity(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("zeebe topology", func(t *testing.T) {
		topology, err := zeebeClient.NewTopologyCommand().Send(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, topology.GetBrokers())
	})

	t.Run("postgres ping", func(t *testing.T) {
		require.NoError(t, pgClient.Ping(ctx))
	})

	t.Run("redis ping", func(t *testing.T) {
		require.NoError(t, redisClient.Ping(ctx))
	})
}

// fixture holds the IDs of seeded rows and removes them on cleanup.
type fixture struct {
	themeID    string
	projectID  string
	contentIDs []string
}

func seedProject(t *testing.T, contentTexts []string) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		themeID:   uuid.NewString(),
		projectID: uuid.NewString(),
	}

	_, err := pgClient.Exec(ctx, `
		INSERT INTO themes (id, name, tags, inspirations, font)
		VALUES ($1, $2, $3, $4, $5)`,
		f.themeID, "Modern Tech",
		pq.Array([]string{"modern", "minimal", "blue"}),
		pq.Array([]string{"clean dashboards", "swiss typography"}),
		"Inter")
	require.NoError(t, err)

	_, err = pgClient.Exec(ctx, `
		INSERT INTO projects (id, name, description, goals, customer_type, theme_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		f.projectID, "Summer Launch",
		"Launch campaign for the new analytics product",
		"Drive signups from technical buyers", "b2b", f.themeID)
	require.NoError(t, err)

	for i, text := range contentTexts {
		id := uuid.NewString()
		_, err = pgClient.Exec(ctx, `
			INSERT INTO content (id, project_id, media_type, text_content, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			id, f.projectID, models.MediaTypeText, text,
			time.Now().Add(time.Duration(i)*time.Second).UTC().Format(time.RFC3339))
		require.NoError(t, err)
		f.contentIDs = append(f.contentIDs, id)
	}

	t.Cleanup(func() {
		ctx := context.Background()
		for _, id := range f.contentIDs {
			pgClient.Exec(ctx, `DELETE FROM embeddings WHERE content_id = $1`, id)
			pgClient.Exec(ctx, `DELETE FROM content WHERE id = $1`, id)
		}
		pgClient.Exec(ctx, `DELETE FROM projects WHERE id = $1`, f.projectID)
		pgClient.Exec(ctx, `DELETE FROM themes WHERE id = $1`, f.themeID)
	})
	return f
}

// newScoringStack wires the real stores and engine the way worker-manager
// does. Embedding stays on the deterministic fallback path so the suite
// does not depend on an external model.
func newScoringStack(t *testing.T) (*store.ContentStore, *store.ProjectStore, *scoring.Engine, *embedding.Provider, *retrieval.Retriever) {
	t.Helper()

	embCfg := cfg.Embedding
	embCfg.Enabled = false
	provider := embedding.NewProvider(embCfg, log)

	embeddings := store.NewEmbeddingStore(
		pgClient.GetDB(), redisClient.GetClient(),
		time.Duration(cfg.Embedding.CacheTTL)*time.Second, log)

	contents := store.NewContentStore(pgClient.GetDB(), log)
	projects := store.NewProjectStore(pgClient.GetDB(), log)
	engine := scoring.NewEngine(provider, embeddings, log)
	retriever := retrieval.NewRetriever(provider, embeddings, log)
	return contents, projects, engine, provider, retriever
}

func TestValidateContent_EndToEnd(t *testing.T) {
	f := seedProject(t, []string{
		"Modern minimal dashboards for technical buyers. Clean blue design, clear signup flow.",
	})
	contents, projects, engine, _, _ := newScoringStack(t)
	handler := validatecontent.NewHandler(validatecontent.LoadConfig(), contents, projects, engine, log)

	out, err := handler.Execute(context.Background(), &validatecontent.Input{
		ContentID: f.contentIDs[0],
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, out.BrandConsistencyScore, 0)
	assert.LessOrEqual(t, out.BrandConsistencyScore, 100)
	assert.Equal(t, scoring.Combine(out.BrandConsistencyScore, out.QualityScore), out.OverallScore)
	assert.NotEmpty(t, out.Summary)
	assert.NotEmpty(t, out.Recommendations)

	// The scoring pass persists the content embedding.
	row := pgClient.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM embeddings WHERE content_id = $1`, f.contentIDs[0])
	var n int
	require.NoError(t, row.Scan(&n))
	assert.Equal(t, 1, n)
}

func TestValidateContent_TransientContent(t *testing.T) {
	f := seedProject(t, nil)
	contents, projects, engine, _, _ := newScoringStack(t)
	handler := validatecontent.NewHandler(validatecontent.LoadConfig(), contents, projects, engine, log)

	out, err := handler.Execute(context.Background(), &validatecontent.Input{
		Content:   "Draft headline for the summer launch landing page.",
		ProjectID: f.projectID,
	})
	require.NoError(t, err)
	assert.Equal(t, scoring.Combine(out.BrandConsistencyScore, out.QualityScore), out.OverallScore)
}

func TestRankContent_EndToEnd(t *testing.T) {
	f := seedProject(t, []string{
		"Modern minimal analytics dashboards, blue and clean.",
		"BUY NOW!!! limited offer!!!",
		"Technical deep dive into the launch architecture, written for engineers.",
	})
	contents, projects, engine, _, _ := newScoringStack(t)
	handler := rankcontent.NewHandler(rankcontent.LoadConfig(), contents, projects, engine, log)

	out, err := handler.Execute(context.Background(), &rankcontent.Input{
		ProjectID: f.projectID,
	})
	require.NoError(t, err)

	require.Len(t, out.RankedContent, 3)
	assert.Equal(t, 3, out.Summary.TotalRanked)
	assert.Equal(t, f.projectID, out.Summary.ProjectID)
	assert.Equal(t, f.themeID, out.Summary.ThemeID)
	for i := 1; i < len(out.RankedContent); i++ {
		assert.GreaterOrEqual(t,
			out.RankedContent[i-1].OverallScore, out.RankedContent[i].OverallScore)
	}

	t.Run("explicit ids with limit", func(t *testing.T) {
		limited, err := handler.Execute(context.Background(), &rankcontent.Input{
			ContentIDs: f.contentIDs,
			Limit:      1,
		})
		require.NoError(t, err)
		assert.Len(t, limited.RankedContent, 1)
		assert.Equal(t, 3, limited.Summary.TotalRanked)
	})
}

func TestAnalyzeTheme_EndToEnd(t *testing.T) {
	handler := analyzetheme.NewHandler(analyzetheme.LoadConfig(), log)

	out, err := handler.Execute(context.Background(), &analyzetheme.Input{
		Theme: models.Theme{
			Name:         "Modern Tech",
			Tags:         []string{"modern", "minimal", "blue"},
			Inspirations: []string{"clean dashboards"},
			Font:         "Inter",
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out.ThemeAnalysis.DominantStyles, "modern")
	assert.NotEmpty(t, out.ThemeAnalysis.ColorPalette.Primary)
	assert.GreaterOrEqual(t, out.ThemeAnalysis.BrandStrength, 0)
	assert.LessOrEqual(t, out.ThemeAnalysis.BrandStrength, 100)
}

func TestRetrieveBrandContext_EndToEnd(t *testing.T) {
	f := seedProject(t, []string{
		"Minimal blue dashboard hero copy.",
		"Quarterly roadmap update for existing customers.",
		"Minimal blue dashboard hero copy.",
	})
	contents, projects, _, provider, retriever := newScoringStack(t)
	handler := retrievebrandcontext.NewHandler(
		retrievebrandcontext.LoadConfig(), contents, projects, provider, retriever, log)

	out, err := handler.Execute(context.Background(), &retrievebrandcontext.Input{
		ProjectID: f.projectID,
		QueryText: "Minimal blue dashboard hero copy.",
		TopK:      2,
	})
	require.NoError(t, err)

	require.Len(t, out.References, 2)
	// The identical items share the query's fallback vector, so they rank
	// on top with similarity ~1.
	assert.InDelta(t, 1.0, out.References[0].Similarity, 1e-9)
	assert.InDelta(t, 1.0, out.References[1].Similarity, 1e-9)
	assert.Greater(t, out.AvgSimilarity, 0.0)
	assert.Len(t, out.Descriptions, 2)
}
