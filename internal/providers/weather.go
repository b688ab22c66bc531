package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seanpicks/edge/internal/betting"
	"github.com/seanpicks/edge/pkg/config"
)

const weatherAPIBase = "https://api.openweathermap.org/data/2.5/weather"

type stadium struct {
	City string
	Dome bool
}

// stadiums maps home teams to their venue. Retractable roofs count as
// outdoor; they are usually open in betting-relevant weather.
var stadiums = map[string]stadium{
	"Buffalo Bills":         {City: "Orchard Park,NY"},
	"Miami Dolphins":        {City: "Miami Gardens,FL"},
	"New England Patriots":  {City: "Foxborough,MA"},
	"New York Jets":         {City: "East Rutherford,NJ"},
	"Baltimore Ravens":      {City: "Baltimore,MD"},
	"Cincinnati Bengals":    {City: "Cincinnati,OH"},
	"Cleveland Browns":      {City: "Cleveland,OH"},
	"Pittsburgh Steelers":   {City: "Pittsburgh,PA"},
	"Houston Texans":        {City: "Houston,TX"},
	"Indianapolis Colts":    {City: "Indianapolis,IN"},
	"Jacksonville Jaguars":  {City: "Jacksonville,FL"},
	"Tennessee Titans":      {City: "Nashville,TN"},
	"Denver Broncos":        {City: "Denver,CO"},
	"Kansas City Chiefs":    {City: "Kansas City,MO"},
	"Las Vegas Raiders":     {City: "Las Vegas,NV", Dome: true},
	"Los Angeles Chargers":  {City: "Inglewood,CA", Dome: true},
	"Dallas Cowboys":        {City: "Arlington,TX"},
	"New York Giants":       {City: "East Rutherford,NJ"},
	"Philadelphia Eagles":   {City: "Philadelphia,PA"},
	"Washington Commanders": {City: "Landover,MD"},
	"Chicago Bears":         {City: "Chicago,IL"},
	"Detroit Lions":         {City: "Detroit,MI", Dome: true},
	"Green Bay Packers":     {City: "Green Bay,WI"},
	"Minnesota Vikings":     {City: "Minneapolis,MN", Dome: true},
	"Atlanta Falcons":       {City: "Atlanta,GA"},
	"Carolina Panthers":     {City: "Charlotte,NC"},
	"New Orleans Saints":    {City: "New Orleans,LA", Dome: true},
	"Tampa Bay Buccaneers":  {City: "Tampa,FL"},
	"Arizona Cardinals":     {City: "Glendale,AZ"},
	"Los Angeles Rams":      {City: "Inglewood,CA", Dome: true},
	"San Francisco 49ers":   {City: "Santa Clara,CA"},
	"Seattle Seahawks":      {City: "Seattle,WA"},
}

// WeatherClient fetches game-time conditions from OpenWeatherMap
type WeatherClient struct {
	client *Client
	cache  betting.CacheProvider
	apiKey string
	logger *logrus.Logger
}

func NewWeatherClient(cfg *config.Config, cache betting.CacheProvider, logger *logrus.Logger) *WeatherClient {
	return &WeatherClient{
		client: NewClient(ClientOptions{
			Name:           "openweathermap",
			Timeout:        cfg.ExternalAPITimeout,
			RequestsPerSec: 2,
		}, logger),
		cache:  cache,
		apiKey: cfg.WeatherAPIKey,
		logger: logger,
	}
}

type weatherResponse struct {
	Weather []struct {
		ID   int    `json:"id"`
		Main string `json:"main"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// GetGameWeather returns conditions at the home team's stadium. Dome
// games short-circuit without an API call. Unknown venues return nil
// so the analyzer treats weather as unavailable.
func (c *WeatherClient) GetGameWeather(ctx context.Context, homeTeam string) (*betting.Weather, error) {
	venue, ok := stadiums[homeTeam]
	if !ok {
		return nil, nil
	}
	if venue.Dome {
		return &betting.Weather{IsDome: true, Conditions: "dome"}, nil
	}

	cacheKey := fmt.Sprintf("weather:%s", venue.City)
	var cached betting.Weather
	if err := c.cache.GetSimple(cacheKey, &cached); err == nil {
		return &cached, nil
	}

	params := url.Values{
		"q":     {venue.City},
		"appid": {c.apiKey},
		"units": {"imperial"},
	}

	var raw weatherResponse
	if err := c.client.GetJSON(ctx, weatherAPIBase+"?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch weather for %s: %w", venue.City, err)
	}

	weather := betting.Weather{
		Temperature: raw.Main.Temp,
		WindSpeed:   raw.Wind.Speed,
	}
	if len(raw.Weather) > 0 {
		weather.Conditions = raw.Weather[0].Main
		weather.Precipitation = isPrecipitation(raw.Weather[0].ID)
	}

	c.cache.SetSimple(cacheKey, weather, 30*time.Minute)
	return &weather, nil
}

// isPrecipitation classifies OpenWeatherMap condition codes:
// 2xx thunderstorm, 3xx drizzle, 5xx rain, 6xx snow.
func isPrecipitation(code int) bool {
	return code >= 200 && code <= 622
}
