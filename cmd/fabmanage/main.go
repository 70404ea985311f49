package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/kamilarndt/fabmanage/pkg/application/notify"
	"github.com/kamilarndt/fabmanage/pkg/application/services/demandgen"
	"github.com/kamilarndt/fabmanage/pkg/application/services/kanban"
	"github.com/kamilarndt/fabmanage/pkg/application/services/lifecycle"
	"github.com/kamilarndt/fabmanage/pkg/application/services/reservation"
	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
	"github.com/kamilarndt/fabmanage/pkg/domain/repositories"
	"github.com/kamilarndt/fabmanage/pkg/domain/services/statusmap"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/events"
	csvrepo "github.com/kamilarndt/fabmanage/pkg/infrastructure/repositories/csv"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/repositories/httpapi"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/repositories/memory"
	"github.com/kamilarndt/fabmanage/pkg/infrastructure/repositories/sqlite"
	workshoptest "github.com/kamilarndt/fabmanage/pkg/infrastructure/testing"
)

func main() {
	// Command line flags
	var (
		apiURL        = flag.String("api", "", "Base URL of the tile collection API (optional)")
		dbPath        = flag.String("db", "", "Path to a local SQLite database (optional)")
		materialsFile = flag.String("materials", "", "Path to materials seed CSV file")
		tilesFile     = flag.String("tiles", "", "Path to tiles seed CSV file")
		verbose       = flag.Bool("verbose", false, "Enable verbose output")
	)

	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	if err := run(context.Background(), log, *apiURL, *dbPath, *materialsFile, *tilesFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log zerolog.Logger, apiURL, dbPath, materialsFile, tilesFile string) error {
	tileRepo, demandRepo, materialRepo, err := buildRepositories(ctx, log, apiURL, dbPath, materialsFile, tilesFile)
	if err != nil {
		return err
	}

	notifier := notify.NewLogNotifier(log)
	bus := events.NewBus()
	bus.Subscribe([]string{events.TileStatusChangedEvent}, func(e events.Event) {
		data := e.Data().(events.TileStatusChanged)
		log.Info().
			Str("tile", data.TileID).
			Stringer("from", data.From).
			Stringer("to", data.To).
			Int("progress", data.Progress).
			Msg("tile moved")
	})

	store := lifecycle.NewStore(tileRepo, notifier, bus, log)
	if err := store.Initialize(ctx); err != nil {
		return fmt.Errorf("loading tile collection: %w", err)
	}
	defer store.Wait()

	printBoards(store)

	// Walk the first queued tile through the CNC board.
	board := kanban.NewDragController(store, entities.ViewCNC, log)
	for _, tile := range store.ByStage(entities.StageCncQueue) {
		if err := board.HandleDrop(ctx, tile.ID, string(entities.CncCutting)); err != nil {
			return err
		}
		break
	}

	// Open a BOM editing session against the material store.
	ledger := reservation.NewLedger(materialRepo, notifier, bus, log)
	generator := demandgen.NewGenerator(demandRepo, notifier, bus, log)
	for _, tile := range store.List() {
		if len(tile.BOM) == 0 {
			continue
		}
		for _, line := range tile.BOM {
			if err := ledger.AddLine(line); err != nil {
				log.Warn().Err(err).Str("tile", tile.ID).Msg("reservation rejected")
			}
		}
		if _, err := generator.Generate(ctx, tile); err != nil {
			log.Warn().Err(err).Str("tile", tile.ID).Msg("demand generation aborted")
		}
		ledger.Commit()
		break
	}

	printBoards(store)
	return nil
}

func buildRepositories(ctx context.Context, log zerolog.Logger, apiURL, dbPath, materialsFile, tilesFile string) (repositories.TileRepository, repositories.DemandRepository, repositories.MaterialRepository, error) {
	materialRepo := memory.NewMaterialRepository()
	if materialsFile != "" {
		materials, err := csvrepo.NewLoader().LoadMaterials(materialsFile)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := materialRepo.LoadMaterials(materials); err != nil {
			return nil, nil, nil, err
		}
	}

	switch {
	case apiURL != "":
		return httpapi.NewTileClient(apiURL, log), httpapi.NewDemandClient(apiURL, log), materialRepo, nil

	case dbPath != "":
		db, err := sqlite.Open(ctx, dbPath)
		if err != nil {
			return nil, nil, nil, err
		}
		tileRepo := sqlite.NewTileRepository(db)
		if tilesFile != "" {
			if err := seedTiles(ctx, tileRepo, tilesFile); err != nil {
				return nil, nil, nil, err
			}
		}
		return tileRepo, sqlite.NewDemandRepository(db), materialRepo, nil

	case tilesFile != "":
		tileRepo := memory.NewTileRepository()
		if err := seedTiles(ctx, tileRepo, tilesFile); err != nil {
			return nil, nil, nil, err
		}
		return tileRepo, memory.NewDemandRepository(), materialRepo, nil

	default:
		// No persistence configured: run against the built-in scenario.
		tileRepo, seededMaterials, demandRepo := workshoptest.BuildWorkshopTestData()
		if materialsFile == "" {
			return tileRepo, demandRepo, seededMaterials, nil
		}
		return tileRepo, demandRepo, materialRepo, nil
	}
}

func seedTiles(ctx context.Context, repo repositories.TileRepository, tilesFile string) error {
	tiles, err := csvrepo.NewLoader().LoadTiles(tilesFile)
	if err != nil {
		return err
	}
	existing, err := repo.FetchAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return repo.SaveAll(ctx, tiles)
}

func printBoards(store *lifecycle.Store) {
	for _, view := range []entities.View{entities.ViewProject, entities.ViewCNC} {
		fmt.Printf("== %s board ==\n", view)
		for _, stage := range entities.AllStages {
			column := store.ByStage(stage)
			if len(column) == 0 {
				continue
			}
			fmt.Printf("  %s\n", statusmap.ViewLabel(stage, view))
			for _, tile := range column {
				fmt.Printf("    %-6s %-24s %3d%%\n", tile.ID, tile.Name, tile.Progress)
			}
		}
	}
}
