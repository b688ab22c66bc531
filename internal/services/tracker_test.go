package services

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/internal/models"
	"github.com/seanpicks/edge/pkg/database"
)

func testTracker(t *testing.T) *BetTracker {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TrackedBet{}, &models.BetSnapshot{}))

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewBetTracker(&database.DB{DB: db}, log)
}

func testGame() *betting.Game {
	return &betting.Game{
		ID:       "nfl-100",
		Sport:    betting.SportNFL,
		HomeTeam: "Buffalo Bills",
		AwayTeam: "New York Jets",
		Kickoff:  time.Now().UTC().Add(4 * time.Hour),
		Spread:   -6.5,
		Total:    41.5,
	}
}

func homeSpreadRec(line float64) betting.BetRecommendation {
	return betting.BetRecommendation{
		Market: betting.MarketSpread,
		Pick: betting.Pick{
			Side:   betting.SideHome,
			Market: betting.MarketSpread,
			Line:   line,
			Label:  "Buffalo Bills -6.5",
		},
		Confidence: 0.58,
		Edge:       5.6,
	}
}

func TestTrackBetUpsert(t *testing.T) {
	tracker := testTracker(t)
	g := testGame()

	first, err := tracker.TrackBet(g, homeSpreadRec(-6.5), 0.019)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TimesAppeared)
	assert.Equal(t, string(betting.ResultPending), first.Result)

	// Same game and market: counters bump, no second row
	rec := homeSpreadRec(-7.0)
	rec.Confidence = 0.60
	second, err := tracker.TrackBet(g, rec, 0.021)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.TimesAppeared)
	assert.Equal(t, 0.60, second.Confidence)
	assert.Equal(t, -7.0, second.PickLine)

	var count int64
	tracker.db.Model(&models.TrackedBet{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGradeSpread(t *testing.T) {
	tests := []struct {
		name       string
		pick       betting.Pick
		home, away int
		expected   betting.Result
	}{
		{
			"home favorite covers",
			betting.Pick{Side: betting.SideHome, Market: betting.MarketSpread, Line: -6.5},
			30, 20, betting.ResultWin,
		},
		{
			"home favorite fails to cover",
			betting.Pick{Side: betting.SideHome, Market: betting.MarketSpread, Line: -6.5},
			24, 20, betting.ResultLoss,
		},
		{
			"away dog covers on a loss",
			betting.Pick{Side: betting.SideAway, Market: betting.MarketSpread, Line: 6.5},
			24, 20, betting.ResultWin,
		},
		{
			"whole number push",
			betting.Pick{Side: betting.SideHome, Market: betting.MarketSpread, Line: -7.0},
			27, 20, betting.ResultPush,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Grade(tt.pick, tt.home, tt.away))
		})
	}
}

func TestGradeTotalAndMoneyline(t *testing.T) {
	over := betting.Pick{Side: betting.SideOver, Market: betting.MarketTotal, Line: 41.5}
	under := betting.Pick{Side: betting.SideUnder, Market: betting.MarketTotal, Line: 41.5}

	assert.Equal(t, betting.ResultWin, Grade(over, 24, 20))
	assert.Equal(t, betting.ResultLoss, Grade(over, 20, 17))
	assert.Equal(t, betting.ResultWin, Grade(under, 20, 17))

	push := betting.Pick{Side: betting.SideOver, Market: betting.MarketTotal, Line: 44.0}
	assert.Equal(t, betting.ResultPush, Grade(push, 24, 20))

	homeML := betting.Pick{Side: betting.SideHome, Market: betting.MarketMoneyline}
	assert.Equal(t, betting.ResultWin, Grade(homeML, 24, 20))
	assert.Equal(t, betting.ResultLoss, Grade(homeML, 20, 24))
	assert.Equal(t, betting.ResultPush, Grade(homeML, 20, 20))
}

func TestGradeIsIdempotent(t *testing.T) {
	pick := betting.Pick{Side: betting.SideHome, Market: betting.MarketSpread, Line: -3.0}

	first := Grade(pick, 27, 20)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Grade(pick, 27, 20))
	}
}

func TestUpdateGameResult(t *testing.T) {
	tracker := testTracker(t)
	g := testGame()

	_, err := tracker.TrackBet(g, homeSpreadRec(-6.5), 0.019)
	require.NoError(t, err)

	graded, err := tracker.UpdateGameResult(g.ID, 30, 20)
	require.NoError(t, err)
	require.Len(t, graded, 1)

	bet := graded[0]
	assert.Equal(t, string(betting.ResultWin), bet.Result)
	require.NotNil(t, bet.HomeScore)
	assert.Equal(t, 30, *bet.HomeScore)
	assert.NotNil(t, bet.GradedAt)

	// Re-grading the same score changes nothing
	again, err := tracker.UpdateGameResult(g.ID, 30, 20)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, string(betting.ResultWin), again[0].Result)
}

func TestUpdateResultByTeams(t *testing.T) {
	tracker := testTracker(t)
	g := testGame()
	g.Kickoff = time.Now().UTC().Add(-2 * time.Hour)

	_, err := tracker.TrackBet(g, homeSpreadRec(-6.5), 0.019)
	require.NoError(t, err)

	graded, err := tracker.UpdateResultByTeams("Buffalo Bills", "New York Jets", 17, 20)
	require.NoError(t, err)
	require.Len(t, graded, 1)
	assert.Equal(t, string(betting.ResultLoss), graded[0].Result)

	// No pending bets remain for these teams
	graded, err = tracker.UpdateResultByTeams("Buffalo Bills", "New York Jets", 17, 20)
	require.NoError(t, err)
	assert.Empty(t, graded)
}

func TestPerformanceStats(t *testing.T) {
	tracker := testTracker(t)

	seed := func(gameID string, confidence float64, result betting.Result) {
		bet := models.TrackedBet{
			GameID:        gameID,
			Sport:         "nfl",
			HomeTeam:      "Home",
			AwayTeam:      "Away",
			Kickoff:       time.Now().UTC().Add(-24 * time.Hour),
			PickSide:      string(betting.SideHome),
			PickMarket:    string(betting.MarketSpread),
			PickLabel:     "Home -3.0",
			Confidence:    confidence,
			Result:        string(result),
			FirstSeen:     time.Now().UTC().Add(-24 * time.Hour),
			LastSeen:      time.Now().UTC(),
			TimesAppeared: 1,
		}
		require.NoError(t, tracker.db.Create(&bet).Error)
	}

	seed("g1", 0.62, betting.ResultWin)
	seed("g2", 0.61, betting.ResultWin)
	seed("g3", 0.57, betting.ResultLoss)
	seed("g4", 0.52, betting.ResultPush)

	stats, err := tracker.Performance(7)
	require.NoError(t, err)

	assert.Equal(t, "2-1-1", stats.Record)
	assert.InDelta(t, 66.67, stats.WinRate, 0.01)
	assert.Equal(t, 1.0, stats.Units)
	assert.Equal(t, 4, stats.TotalBets)
	assert.Equal(t, "2-0", stats.ByConfidence["high"].Record)
	assert.Equal(t, "0-1", stats.ByConfidence["medium"].Record)
	assert.Equal(t, 1, stats.ByConfidence["low"].Count)
}

func TestPendingAndRecent(t *testing.T) {
	tracker := testTracker(t)
	g := testGame()

	_, err := tracker.TrackBet(g, homeSpreadRec(-6.5), 0.019)
	require.NoError(t, err)

	pending, err := tracker.PendingBets()
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = tracker.UpdateGameResult(g.ID, 30, 20)
	require.NoError(t, err)

	pending, err = tracker.PendingBets()
	require.NoError(t, err)
	assert.Empty(t, pending)

	recent, err := tracker.RecentResults(10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, string(betting.ResultWin), recent[0].Result)
}

func TestSnapshot(t *testing.T) {
	tracker := testTracker(t)

	snap, err := tracker.CreateSnapshot(betting.SportNFL, []betting.BetRecommendation{
		homeSpreadRec(-6.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.BetCount)
	assert.NotEmpty(t, snap.ID)
}

func TestDeleteStaleSnapshots(t *testing.T) {
	tracker := testTracker(t)

	fresh, err := tracker.CreateSnapshot(betting.SportNFL, []betting.BetRecommendation{})
	require.NoError(t, err)

	stale, err := tracker.CreateSnapshot(betting.SportNFL, []betting.BetRecommendation{})
	require.NoError(t, err)
	require.NoError(t, tracker.db.Model(&models.BetSnapshot{}).
		Where("id = ?", stale.ID).
		Update("taken_at", time.Now().UTC().Add(-45*24*time.Hour)).Error)

	removed, err := tracker.DeleteStaleSnapshots(time.Now().UTC().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var remaining []models.BetSnapshot
	require.NoError(t, tracker.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)

	// A second pass finds nothing left to remove
	removed, err = tracker.DeleteStaleSnapshots(time.Now().UTC().Add(-30 * 24 * time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed)
}
