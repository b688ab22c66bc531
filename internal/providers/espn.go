package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seanpicks/edge/internal/betting"
)

// ESPN's hidden scoreboard endpoints, keyed by sport
var espnScoreboards = map[betting.Sport]string{
	betting.SportNFL:   "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard",
	betting.SportNCAAF: "https://site.api.espn.com/apis/site/v2/sports/football/college-football/scoreboard",
	betting.SportMLB:   "https://site.api.espn.com/apis/site/v2/sports/baseball/mlb/scoreboard",
}

// ESPNClient reads live and final scores from the ESPN scoreboard API.
// It backs up The Odds API score feed when quota runs out.
type ESPNClient struct {
	client *Client
	cache  betting.CacheProvider
	logger *logrus.Logger
}

func NewESPNClient(cache betting.CacheProvider, logger *logrus.Logger) *ESPNClient {
	return &ESPNClient{
		client: NewClient(ClientOptions{
			Name:           "espn",
			Timeout:        10 * time.Second,
			RequestsPerSec: 3,
		}, logger),
		cache:  cache,
		logger: logger,
	}
}

type espnScoreboardResponse struct {
	Events []struct {
		ID     string `json:"id"`
		Date   string `json:"date"`
		Name   string `json:"name"`
		Status struct {
			Type struct {
				Completed bool   `json:"completed"`
				State     string `json:"state"`
			} `json:"type"`
		} `json:"status"`
		Competitions []struct {
			Competitors []struct {
				HomeAway string `json:"homeAway"`
				Score    string `json:"score"`
				Team     struct {
					DisplayName string `json:"displayName"`
				} `json:"team"`
			} `json:"competitors"`
		} `json:"competitions"`
	} `json:"events"`
}

// GameScore is one scoreboard entry with team names for matching
// against tracked bets.
type GameScore struct {
	EventID   string `json:"event_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Completed bool   `json:"completed"`
}

// GetScoreboard fetches the current scoreboard for a sport
func (c *ESPNClient) GetScoreboard(ctx context.Context, sport betting.Sport) ([]GameScore, error) {
	endpoint, ok := espnScoreboards[sport]
	if !ok {
		return nil, fmt.Errorf("no scoreboard endpoint for sport %s", sport)
	}

	cacheKey := fmt.Sprintf("espn:scoreboard:%s", sport)
	var cached []GameScore
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	var raw espnScoreboardResponse
	if err := c.client.GetJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch scoreboard: %w", err)
	}

	scores := make([]GameScore, 0, len(raw.Events))
	for _, event := range raw.Events {
		if len(event.Competitions) == 0 {
			continue
		}

		score := GameScore{
			EventID:   event.ID,
			Completed: event.Status.Type.Completed,
		}
		for _, competitor := range event.Competitions[0].Competitors {
			var points int
			fmt.Sscanf(competitor.Score, "%d", &points)
			if competitor.HomeAway == "home" {
				score.HomeTeam = competitor.Team.DisplayName
				score.HomeScore = points
			} else {
				score.AwayTeam = competitor.Team.DisplayName
				score.AwayScore = points
			}
		}
		scores = append(scores, score)
	}

	c.logger.WithFields(logrus.Fields{
		"sport":  sport,
		"events": len(scores),
	}).Debug("Fetched ESPN scoreboard")

	if len(scores) > 0 {
		c.cache.SetSimple(cacheKey, scores, 2*time.Minute)
	}
	return scores, nil
}
