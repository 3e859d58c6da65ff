package repositories_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"parcel-routing-service/internal/adapters/distance"
	"parcel-routing-service/internal/adapters/repositories"
	"parcel-routing-service/internal/domain"
	"parcel-routing-service/internal/platform/db"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresRepositorySuite runs the schema, seed and read paths against a
// throwaway Postgres container.
type PostgresRepositorySuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *sql.DB
}

func TestPostgresRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	suite.Run(t, new(PostgresRepositorySuite))
}

func (s *PostgresRepositorySuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	conn, err := db.Open(ctx, connStr)
	s.Require().NoError(err)
	s.db = conn

	s.Require().NoError(repositories.InitSchema(ctx, s.db))
	// Running twice must be harmless.
	s.Require().NoError(repositories.InitSchema(ctx, s.db))
}

func (s *PostgresRepositorySuite) SetupTest() {
	_, err := s.db.Exec("TRUNCATE TABLE distances, locations, items")
	s.Require().NoError(err)
}

func (s *PostgresRepositorySuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		s.Require().NoError(s.container.Terminate(context.Background()))
	}
}

func (s *PostgresRepositorySuite) TestSeedAndListItems() {
	ctx := context.Background()
	records := []domain.ItemRecord{
		{ID: 2, Address: "2530 S 500 E", Deadline: "EOD", Weight: 44, Note: "Can only be on truck 2"},
		{ID: 1, Address: "195 W Oakland Ave", City: "Salt Lake City", State: "UT", Zip: "84115", Deadline: "10:30 AM", Weight: 21},
	}
	s.Require().NoError(repositories.SeedItems(ctx, s.db, records))

	// Re-seeding replaces rather than duplicates.
	records[0].Weight = 45
	s.Require().NoError(repositories.SeedItems(ctx, s.db, records))

	got, err := repositories.NewSQLItemRepository(s.db).ListItems(ctx)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(records[1], got[0])
	s.Equal(45, got[1].Weight)
	s.Equal("Can only be on truck 2", got[1].Note)
}

func (s *PostgresRepositorySuite) TestSeedItemsRejectsBadRecord() {
	err := repositories.SeedItems(context.Background(), s.db, []domain.ItemRecord{{ID: 0, Address: "x", Deadline: "EOD"}})
	s.Require().Error(err)
}

func (s *PostgresRepositorySuite) TestSeedAndLoadMatrix() {
	ctx := context.Background()
	f := func(v float64) *float64 { return &v }
	seed := distance.MatrixSeed{
		Locations: []string{"Hub", "A", "B"},
		Distances: [][]*float64{
			{f(0)},
			{f(3), f(0)},
			{f(4), f(2), f(0)},
		},
	}
	s.Require().NoError(repositories.SeedMatrix(ctx, s.db, seed))

	m, err := repositories.LoadDistanceMatrix(ctx, s.db)
	s.Require().NoError(err)
	s.Equal(3, m.LocationCount())

	d, ok := m.Distance(2, 1)
	s.True(ok)
	s.Equal(2.0, d)

	_, ok = m.Distance(1, 2)
	s.False(ok, "only the stored direction is present")

	idx, ok := m.LocationIndex("b")
	s.True(ok)
	s.Equal(2, idx)
}
