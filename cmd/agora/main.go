package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nidhogg/agora-world/internal/agent"
	"github.com/nidhogg/agora-world/internal/api"
	"github.com/nidhogg/agora-world/internal/config"
	"github.com/nidhogg/agora-world/internal/gateway"
	"github.com/nidhogg/agora-world/internal/memory"
	"github.com/nidhogg/agora-world/internal/recall"
	"github.com/nidhogg/agora-world/internal/relation"
	"github.com/nidhogg/agora-world/internal/rng"
	"github.com/nidhogg/agora-world/internal/store"
	"github.com/nidhogg/agora-world/internal/world"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	logger.Info("Starting Agora World...")

	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/agora.json"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Fatal("failed to load config", zap.String("path", cfgPath), zap.Error(err))
	}
	logger.Info("Config loaded", zap.String("path", cfgPath))

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	src := rng.New(seed)

	bootCtx := context.Background()

	// Initialize PostgreSQL store
	var pgStore *store.Store
	if cfg.Database.Postgres.DSN != "" {
		ps, pgErr := store.New(bootCtx, cfg.Database.Postgres.DSN, logger)
		if pgErr != nil {
			logger.Warn("PostgreSQL unavailable, running without persistence", zap.Error(pgErr))
		} else {
			if mErr := ps.Migrate(bootCtx, "migrations"); mErr != nil {
				logger.Fatal("migration failed", zap.Error(mErr))
			}
			pgStore = ps
		}
	}

	// Initialize relationship graph
	var graph *relation.Graph
	if cfg.Database.Neo4j.URI != "" {
		g, gErr := relation.NewGraph(bootCtx, cfg.Database.Neo4j.URI, cfg.Database.Neo4j.User, cfg.Database.Neo4j.Password, 1, logger)
		if gErr != nil {
			logger.Warn("Neo4j unavailable, running without relationships", zap.Error(gErr))
		} else {
			graph = g
		}
	}

	// Initialize memory stream
	var memStore *memory.Store
	if cfg.Database.Redis.URL != "" {
		ms, mErr := memory.NewStore(bootCtx, cfg.Database.Redis.URL, logger)
		if mErr != nil {
			logger.Warn("Redis unavailable, running without memory streams", zap.Error(mErr))
		} else {
			memStore = ms
		}
	}

	// Initialize recall index
	var recallIdx *recall.Index
	if cfg.Database.Qdrant.Host != "" {
		ri, rErr := recall.NewIndex(bootCtx, cfg.Database.Qdrant.Host, cfg.Database.Qdrant.Port)
		if rErr != nil {
			logger.Warn("Qdrant unavailable, running without recall", zap.Error(rErr))
		} else {
			recallIdx = ri
		}
	}

	// Initialize gateway
	gw := gateway.NewGateway(logger)
	if cfg.Gateway.Discord.Enabled && cfg.Gateway.Discord.BotToken != "" {
		gw.Register(gateway.NewDiscordAdapter(cfg.Gateway.Discord.BotToken, cfg.Gateway.Discord.ChannelID, logger))
	}
	if cfg.Gateway.Slack.Enabled && cfg.Gateway.Slack.BotToken != "" {
		gw.Register(gateway.NewSlackAdapter(cfg.Gateway.Slack.BotToken, cfg.Gateway.Slack.Channel, logger))
	}
	broadcaster := gateway.NewBroadcaster(gw, logger)
	if err := gw.ConnectAll(bootCtx); err != nil {
		logger.Warn("some gateway adapters failed to connect", zap.Error(err))
	}

	// World clock
	clock := world.NewClock(cfg.Simulation.TickIntervalDuration(), cfg.Simulation.Speed, logger)

	// Tick runner requires persistence for snapshots and commits
	var runner *world.Runner
	if pgStore != nil {
		runner = world.NewRunner(src,
			snapshotFunc(pgStore, graph, memStore),
			commitFunc(pgStore, memStore, recallIdx),
			listFunc(pgStore, logger),
			broadcaster,
			cfg.Simulation.DramaCadence,
			logger,
		)
		clock.AddListener(runner)
	} else {
		logger.Warn("no persistence configured, tick runner disabled")
	}

	if graph != nil {
		clock.AddListener(graph)
	}

	clock.Start()
	logger.Info("World simulation started")

	// Build HTTP handler
	handler := api.NewHandler(src, clock, runner, pgStore, recallIdx, broadcaster, gw, logger)

	port := fmt.Sprintf("%d", cfg.Server.Port)
	if port == "0" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("Agora World listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Agora World...")
	clock.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
	if graph != nil {
		graph.Close(shutdownCtx)
	}
	if memStore != nil {
		memStore.Close()
	}
	if recallIdx != nil {
		recallIdx.Close()
	}
	if pgStore != nil {
		pgStore.Close()
	}
	gw.Close()
}

// snapshotFunc assembles a read-only tick snapshot from the backing
// stores. Relationship and memory lookups degrade to empty slices when
// their backends are not configured.
func snapshotFunc(pg *store.Store, graph *relation.Graph, mem *memory.Store) world.SnapshotFunc {
	return func(ctx context.Context, agentID string) (world.Snapshot, error) {
		state, err := pg.GetState(ctx, agentID)
		if err != nil {
			return world.Snapshot{}, fmt.Errorf("load state: %w", err)
		}
		rooms, err := pg.ListRooms(ctx)
		if err != nil {
			return world.Snapshot{}, fmt.Errorf("load rooms: %w", err)
		}
		all, err := pg.ListStates(ctx)
		if err != nil {
			return world.Snapshot{}, fmt.Errorf("load agents: %w", err)
		}
		others := make([]agent.State, 0, len(all))
		for _, a := range all {
			if a.ID != agentID {
				others = append(others, a)
			}
		}
		tools, err := pg.ListTools(ctx)
		if err != nil {
			return world.Snapshot{}, fmt.Errorf("load tools: %w", err)
		}
		profs, err := pg.ListProficiencies(ctx, agentID)
		if err != nil {
			return world.Snapshot{}, fmt.Errorf("load proficiencies: %w", err)
		}

		snap := world.Snapshot{
			State:         state,
			Rooms:         rooms,
			Others:        others,
			Tools:         tools,
			Proficiencies: profs,
		}
		if graph != nil {
			if rels, rErr := graph.For(ctx, agentID); rErr == nil {
				snap.Relationships = rels
			}
		}
		if mem != nil {
			if recent, mErr := mem.Recent(ctx, agentID, 20); mErr == nil {
				snap.RecentMemories = recent
				snap.LastActionKind = world.LastAction(recent)
			}
		}
		return snap, nil
	}
}

// commitFunc persists a decision: state, decayed proficiencies, and a
// memory entry for the chosen action.
func commitFunc(pg *store.Store, mem *memory.Store, idx *recall.Index) world.CommitFunc {
	return func(ctx context.Context, d world.Decision) error {
		if err := pg.SaveState(ctx, d.State); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
		for _, p := range d.Proficiencies {
			if err := pg.SaveProficiency(ctx, p); err != nil {
				return fmt.Errorf("save proficiency %s: %w", p.ToolID, err)
			}
		}
		if d.Chosen == nil || mem == nil {
			return nil
		}
		entry := agent.MemoryEntry{
			ID:         uuid.New().String(),
			SourceType: "action",
			SourceID:   d.Chosen.TargetID,
			Tags:       []string{string(d.Chosen.Kind), string(d.Phase)},
			Content:    d.Chosen.Label,
			CreatedAt:  time.Now(),
		}
		if err := mem.Append(ctx, d.AgentID, entry); err != nil {
			return fmt.Errorf("append memory: %w", err)
		}
		if idx != nil {
			if err := idx.IndexMemory(ctx, d.AgentID, entry); err != nil {
				return fmt.Errorf("index memory: %w", err)
			}
		}
		return nil
	}
}

// listFunc enumerates agent ids to tick. Errors are logged and yield an
// empty round rather than stopping the clock.
func listFunc(pg *store.Store, logger *zap.Logger) world.ListAgentsFunc {
	return func() []string {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ids, err := pg.AgentIDs(ctx)
		if err != nil {
			logger.Warn("list agents failed", zap.Error(err))
			return nil
		}
		return ids
	}
}
