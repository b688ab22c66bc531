package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seanpicks/edge/internal/analyzer"
	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/internal/providers"
	"github.com/seanpicks/edge/pkg/config"
)

// SignalAggregator assembles fully-populated games: posted lines from
// the odds feed, weather at the venue, estimated public splits and the
// derived market signals. Provider failures degrade the affected
// signal to neutral instead of failing the whole poll.
type SignalAggregator struct {
	cache      *CacheService
	logger     *logrus.Logger
	odds       *providers.OddsAPIClient
	weather    *providers.WeatherClient
	public     *providers.PublicBettingEstimator
	calculator *analyzer.ConfidenceCalculator
}

func NewSignalAggregator(cfg *config.Config, cache *CacheService, logger *logrus.Logger) *SignalAggregator {
	return &SignalAggregator{
		cache:      cache,
		logger:     logger,
		odds:       providers.NewOddsAPIClient(cfg, cache, logger),
		weather:    providers.NewWeatherClient(cfg, cache, logger),
		public:     providers.NewPublicBettingEstimator(),
		calculator: analyzer.NewConfidenceCalculator(),
	}
}

// Games returns enriched games for a sport. Only the odds feed is
// required; everything else fails open.
func (a *SignalAggregator) Games(ctx context.Context, sport betting.Sport) ([]betting.Game, error) {
	games, err := a.odds.GetGames(ctx, sport)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for %s: %w", sport, err)
	}

	var wg sync.WaitGroup
	for i := range games {
		wg.Add(1)
		go func(g *betting.Game) {
			defer wg.Done()
			a.enrich(ctx, g)
		}(&games[i])
	}
	wg.Wait()

	return games, nil
}

// Scores proxies the odds API score feed
func (a *SignalAggregator) Scores(ctx context.Context, sport betting.Sport, daysFrom int) ([]betting.FinalScore, error) {
	return a.odds.GetScores(ctx, sport, daysFrom)
}

func (a *SignalAggregator) enrich(ctx context.Context, g *betting.Game) {
	if g.Attrs == nil {
		g.Attrs = map[string]interface{}{}
	}

	// Weather only matters for outdoor football
	if g.Sport == betting.SportNFL || g.Sport == betting.SportNCAAF {
		weather, err := a.weather.GetGameWeather(ctx, g.HomeTeam)
		if err != nil {
			a.logger.WithFields(logrus.Fields{
				"game":  g.Matchup(),
				"error": err.Error(),
			}).Warn("Weather unavailable, continuing without it")
		} else {
			g.Weather = weather
		}
	}

	g.Public = a.public.Estimate(g)

	record := a.recordLineMove(g)
	signals := a.signals(g, record)
	g.Attrs["signal_confidence"] = a.calculator.Calculate(signals)
	g.Attrs["signals"] = signals
}

// recordLineMove diffs the current consensus spread against the last
// observed one and appends to the cached line history.
func (a *SignalAggregator) recordLineMove(g *betting.Game) []betting.LineMove {
	key := LineHistoryCacheKey(g.ID)

	var history []betting.LineMove
	a.cache.GetSimple(key, &history)

	if len(history) == 0 || lastSpread(history) != g.Spread {
		move := betting.LineMove{
			Book:      "consensus",
			Delta:     g.Spread,
			Timestamp: time.Now().UTC(),
		}
		if len(history) > 0 {
			prev := lastSpread(history)
			move.Delta = g.Spread - prev
			if move.Delta > 0 {
				move.Direction = 1
			} else if move.Delta < 0 {
				move.Direction = -1
			}
			g.Attrs["opening_spread"] = history[0].Delta
			g.Attrs["line_movement"] = g.Spread - history[0].Delta
		}
		history = append(history, move)
		a.cache.SetSimple(key, history, 24*time.Hour)
	}

	g.LineHistory = history
	return history
}

func lastSpread(history []betting.LineMove) float64 {
	spread := history[0].Delta
	for _, m := range history[1:] {
		spread += m.Delta
	}
	return spread
}

// signals derives the fixed market signal set from an enriched game
func (a *SignalAggregator) signals(g *betting.Game, history []betting.LineMove) betting.SignalSet {
	set := betting.SignalSet{
		LineVariance: g.Float("line_variance", 0),
		SteamMove:    a.calculator.DetectSteamMove(history),
		WeatherEdge:  a.calculator.WeatherImpact(g.Weather),
	}

	set.KeyNumberEdge, _ = a.calculator.CheckKeyNumber(g.Spread)

	// Sharp and square books disagreeing on the line is the cleanest
	// sharp-action tell available without a paid feed.
	sharp := g.Float("sharp_spread", g.Spread)
	square := g.Float("square_spread", g.Spread)
	set.SharpAction = math.Abs(sharp-square) >= 0.5

	if g.Public != nil {
		set.PublicFade = g.Public.PublicPercentage >= 80

		if opening := g.Float("opening_spread", g.Spread); opening != g.Spread {
			homePublic := g.Public.TicketPercentage
			set.ReverseLineMovement = a.calculator.DetectReverseLineMovement(opening, g.Spread, homePublic)
		}
	}

	return set
}
