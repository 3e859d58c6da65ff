package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"parcel-routing-service/internal/adapters/distance"
	"parcel-routing-service/internal/adapters/repositories"
	"parcel-routing-service/internal/api"
	"parcel-routing-service/internal/api/handlers"
	"parcel-routing-service/internal/config"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/platform/db"
	"parcel-routing-service/internal/platform/metrics"
	"parcel-routing-service/internal/platform/obs"
	"parcel-routing-service/internal/ports"
	"parcel-routing-service/internal/services"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It loads the fleet, items and distance matrix, plans the day once, and
// serves read-only queries over the result.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	fleetPath := config.Get("FLEET_CONFIG", "data/fleet.yaml")
	itemsPath := config.Get("ITEMS_PATH", "data/seeds/items.json")
	matrixPath := config.Get("MATRIX_PATH", "data/seeds/distances.json")
	databaseURL := strings.TrimSpace(config.Get("DATABASE_URL", ""))
	port := config.Get("PORT", "8080")

	metrics.RegisterDefault()
	ctx := obs.WithRunID(context.Background())

	fleet, err := config.LoadFleet(fleetPath)
	if err != nil {
		log.Fatal(err)
	}

	var (
		repo   ports.ItemRepository
		matrix *distance.Matrix
	)
	if databaseURL != "" {
		conn, err := db.Open(ctx, databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		repo = repositories.NewSQLItemRepository(conn)
		matrix, err = repositories.LoadDistanceMatrix(ctx, conn)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		repo = repositories.JSONItemSource{Path: itemsPath}
		matrix, err = distance.LoadMatrixJSON(matrixPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	dispatch, clock, err := plan(ctx, fleet, repo, matrix)
	if err != nil {
		var infeasible *domain.InfeasibleScheduleError
		if errors.As(err, &infeasible) {
			for _, v := range infeasible.Violations {
				log.Printf("late %s", v)
			}
		}
		log.Fatal(err)
	}

	router := api.NewRouter(dispatch, clock, matrix)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func plan(ctx context.Context, fleet *config.Fleet, repo ports.ItemRepository, matrix *distance.Matrix) (*services.Dispatch, handlers.Clock, error) {
	day, err := fleet.Day()
	if err != nil {
		return nil, handlers.Clock{}, fmt.Errorf("plan: %w", err)
	}
	eod, err := fleet.EndOfDayAt()
	if err != nil {
		return nil, handlers.Clock{}, fmt.Errorf("plan: end of day: %w", err)
	}

	vehicles, err := fleet.Build(matrix)
	if err != nil {
		return nil, handlers.Clock{}, fmt.Errorf("plan: %w", err)
	}

	req := services.PlanDeliveriesRequest{
		Vehicles:  vehicles,
		Day:       day,
		EndOfDay:  eod,
		MaxPasses: fleet.MaxPasses,
	}
	dispatch, err := services.PlanDeliveries(ctx, req, repo, matrix, matrix)
	if err != nil {
		return nil, handlers.Clock{}, err
	}

	return dispatch, handlers.Clock{Day: day, Default: eod}, nil
}
