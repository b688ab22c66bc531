package providers

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/pkg/config"
)

const oddsAPIBase = "https://api.the-odds-api.com/v4"

// Book classification for sharp/square line comparison
var (
	sharpBooks  = []string{"pinnacle", "betonlineag", "bookmaker", "circasports"}
	squareBooks = []string{"draftkings", "fanduel", "betmgm", "williamhill_us"}
)

// OddsAPIClient fetches lines and scores from The Odds API
type OddsAPIClient struct {
	client *Client
	cache  betting.CacheProvider
	apiKey string
	logger *logrus.Logger
}

func NewOddsAPIClient(cfg *config.Config, cache betting.CacheProvider, logger *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		client: NewClient(ClientOptions{
			Name:           "odds-api",
			Timeout:        cfg.ExternalAPITimeout,
			RequestsPerSec: cfg.OddsRateLimit,
		}, logger),
		cache:  cache,
		apiKey: cfg.OddsAPIKey,
		logger: logger,
	}
}

type oddsAPIOutcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Point float64 `json:"point"`
}

type oddsAPIMarket struct {
	Key      string           `json:"key"`
	Outcomes []oddsAPIOutcome `json:"outcomes"`
}

type oddsAPIBookmaker struct {
	Key        string          `json:"key"`
	Title      string          `json:"title"`
	LastUpdate time.Time       `json:"last_update"`
	Markets    []oddsAPIMarket `json:"markets"`
}

type oddsAPIGame struct {
	ID           string             `json:"id"`
	SportKey     string             `json:"sport_key"`
	CommenceTime time.Time          `json:"commence_time"`
	HomeTeam     string             `json:"home_team"`
	AwayTeam     string             `json:"away_team"`
	Bookmakers   []oddsAPIBookmaker `json:"bookmakers"`
}

type oddsAPIScore struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Scores    []struct {
		Name  string `json:"name"`
		Score string `json:"score"`
	} `json:"scores"`
}

// GetGames fetches upcoming games with consensus lines for a sport
func (c *OddsAPIClient) GetGames(ctx context.Context, sport betting.Sport) ([]betting.Game, error) {
	cacheKey := fmt.Sprintf("odds:%s", sport)

	var cached []betting.Game
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	params := url.Values{
		"apiKey":     {c.apiKey},
		"regions":    {"us"},
		"markets":    {"spreads,totals,h2h"},
		"oddsFormat": {"american"},
	}
	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", oddsAPIBase, sport.OddsAPIKey(), params.Encode())

	var raw []oddsAPIGame
	if err := c.client.GetJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch odds: %w", err)
	}

	games := make([]betting.Game, 0, len(raw))
	for _, g := range raw {
		games = append(games, c.convert(sport, g))
	}

	c.logger.WithFields(logrus.Fields{
		"sport": sport,
		"games": len(games),
	}).Info("Fetched games from odds API")

	if len(games) > 0 {
		c.cache.SetSimple(cacheKey, games, 5*time.Minute)
	}
	return games, nil
}

// GetScores fetches final scores for recently completed games
func (c *OddsAPIClient) GetScores(ctx context.Context, sport betting.Sport, daysFrom int) ([]betting.FinalScore, error) {
	cacheKey := fmt.Sprintf("scores:%s", sport)

	var cached []betting.FinalScore
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return cached, nil
	}

	params := url.Values{
		"apiKey":   {c.apiKey},
		"daysFrom": {fmt.Sprintf("%d", daysFrom)},
	}
	endpoint := fmt.Sprintf("%s/sports/%s/scores?%s", oddsAPIBase, sport.OddsAPIKey(), params.Encode())

	var raw []oddsAPIScore
	if err := c.client.GetJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch scores: %w", err)
	}

	scores := make([]betting.FinalScore, 0, len(raw))
	for _, s := range raw {
		if !s.Completed {
			continue
		}
		final := betting.FinalScore{GameID: s.ID, Completed: true}
		for _, entry := range s.Scores {
			var points int
			if _, err := fmt.Sscanf(entry.Score, "%d", &points); err != nil {
				continue
			}
			switch entry.Name {
			case s.HomeTeam:
				final.HomeScore = points
			case s.AwayTeam:
				final.AwayScore = points
			}
		}
		scores = append(scores, final)
	}

	if len(scores) > 0 {
		c.cache.SetSimple(cacheKey, scores, 2*time.Minute)
	}
	return scores, nil
}

// convert flattens a bookmaker list into consensus lines plus the
// sharp/square split the analyzer feeds on.
func (c *OddsAPIClient) convert(sport betting.Sport, raw oddsAPIGame) betting.Game {
	game := betting.Game{
		ID:       raw.ID,
		Sport:    sport,
		HomeTeam: raw.HomeTeam,
		AwayTeam: raw.AwayTeam,
		Kickoff:  raw.CommenceTime,
		Attrs:    map[string]interface{}{},
	}

	var spreads, totals []float64
	sharp := map[string][]float64{}
	square := map[string][]float64{}

	for _, book := range raw.Bookmakers {
		game.Bookmakers = append(game.Bookmakers, book.Title)

		for _, market := range book.Markets {
			switch market.Key {
			case "spreads":
				for _, outcome := range market.Outcomes {
					if outcome.Name != raw.HomeTeam {
						continue
					}
					spreads = append(spreads, outcome.Point)
					if isBook(book.Key, sharpBooks) {
						sharp["spread"] = append(sharp["spread"], outcome.Point)
					}
					if isBook(book.Key, squareBooks) {
						square["spread"] = append(square["spread"], outcome.Point)
					}
				}
			case "totals":
				for _, outcome := range market.Outcomes {
					if outcome.Name == "Over" {
						totals = append(totals, outcome.Point)
					}
				}
			case "h2h":
				for _, outcome := range market.Outcomes {
					switch outcome.Name {
					case raw.HomeTeam:
						game.HomeMoneyline = int(outcome.Price)
					case raw.AwayTeam:
						game.AwayMoneyline = int(outcome.Price)
					}
				}
			}
		}
	}

	game.Spread = mean(spreads)
	game.Total = mean(totals)

	if len(spreads) > 1 {
		low, high := spreads[0], spreads[0]
		for _, s := range spreads[1:] {
			low = math.Min(low, s)
			high = math.Max(high, s)
		}
		game.Attrs["line_variance"] = high - low
	}

	if len(sharp["spread"]) > 0 && len(square["spread"]) > 0 {
		game.Attrs["sharp_spread"] = mean(sharp["spread"])
		game.Attrs["square_spread"] = mean(square["spread"])
	}

	return game
}

func isBook(key string, books []string) bool {
	for _, b := range books {
		if strings.Contains(key, b) {
			return true
		}
	}
	return false
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
