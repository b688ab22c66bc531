package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/internal/models"
	"github.com/seanpicks/edge/pkg/config"
	"github.com/seanpicks/edge/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Enable UUID extension for PostgreSQL
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.TrackedBet{},
		&models.BetSnapshot{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_tracked_bets_result_kickoff ON tracked_bets(result, kickoff)",
		"CREATE INDEX IF NOT EXISTS idx_tracked_bets_teams ON tracked_bets(home_team, away_team)",
		"CREATE INDEX IF NOT EXISTS idx_bet_snapshots_sport_taken ON bet_snapshots(sport, taken_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"bet_snapshots",
		"tracked_bets",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	kickoff := time.Now().Add(48 * time.Hour)

	bets := []models.TrackedBet{
		{
			GameID:        "seed_nfl_001",
			Sport:         string(betting.SportNFL),
			HomeTeam:      "Philadelphia Eagles",
			AwayTeam:      "Dallas Cowboys",
			Kickoff:       kickoff,
			PickSide:      string(betting.SideHome),
			PickMarket:    string(betting.MarketSpread),
			PickLine:      -3.5,
			PickLabel:     "Philadelphia Eagles -3.5",
			Confidence:    0.58,
			Edge:          5.6,
			KellyStake:    0.021,
			Patterns:      datatypes.JSON([]byte(`["Division underdog historically covers"]`)),
			Result:        string(betting.ResultPending),
			FirstSeen:     time.Now(),
			LastSeen:      time.Now(),
			TimesAppeared: 1,
		},
		{
			GameID:        "seed_nfl_002",
			Sport:         string(betting.SportNFL),
			HomeTeam:      "Buffalo Bills",
			AwayTeam:      "New York Jets",
			Kickoff:       kickoff.Add(3 * time.Hour),
			PickSide:      string(betting.SideUnder),
			PickMarket:    string(betting.MarketTotal),
			PickLine:      44.5,
			PickLabel:     "Under 44.5",
			Confidence:    0.61,
			Edge:          8.6,
			KellyStake:    0.03,
			Patterns:      datatypes.JSON([]byte(`["Wind over 15mph favors under"]`)),
			Result:        string(betting.ResultPending),
			FirstSeen:     time.Now(),
			LastSeen:      time.Now(),
			TimesAppeared: 1,
		},
	}

	if err := db.Create(&bets).Error; err != nil {
		return fmt.Errorf("failed to seed tracked bets: %w", err)
	}

	logrus.Infof("Seeded %d tracked bets", len(bets))
	return nil
}
