package football

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"fanclub-backend/internal/retry"
)

// Match is the slice of a football-data.org fixture the frontend needs.
type Match struct {
	ID          int64     `json:"id"`
	UTCDate     time.Time `json:"utc_date"`
	Competition string    `json:"competition"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	Status      string    `json:"status"`
	Score       string    `json:"score,omitempty"`
}

type Player struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Position    string `json:"position"`
	Nationality string `json:"nationality"`
	ShirtNumber int    `json:"shirt_number,omitempty"`
}

type Client struct {
	baseURL string
	apiKey  string
	teamID  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey, teamID string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		teamID:  teamID,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Fixtures returns the club's matches for the current season, most recent
// first. Without an API key it serves the built-in fallback fixtures so the
// site keeps working in development.
func (c *Client) Fixtures(ctx context.Context) ([]Match, error) {
	if c.apiKey == "" {
		return fallbackFixtures(), nil
	}

	var payload struct {
		Matches []struct {
			ID          int64  `json:"id"`
			UTCDate     string `json:"utcDate"`
			Status      string `json:"status"`
			Competition struct {
				Name string `json:"name"`
			} `json:"competition"`
			HomeTeam struct {
				Name string `json:"name"`
			} `json:"homeTeam"`
			AwayTeam struct {
				Name string `json:"name"`
			} `json:"awayTeam"`
			Score struct {
				FullTime struct {
					Home *int `json:"home"`
					Away *int `json:"away"`
				} `json:"fullTime"`
			} `json:"score"`
		} `json:"matches"`
	}

	url := fmt.Sprintf("%s/teams/%s/matches?limit=100", c.baseURL, c.teamID)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		date, err := time.Parse(time.RFC3339, m.UTCDate)
		if err != nil {
			continue
		}
		match := Match{
			ID:          m.ID,
			UTCDate:     date,
			Competition: m.Competition.Name,
			HomeTeam:    m.HomeTeam.Name,
			AwayTeam:    m.AwayTeam.Name,
			Status:      m.Status,
		}
		if m.Score.FullTime.Home != nil && m.Score.FullTime.Away != nil {
			match.Score = fmt.Sprintf("%d-%d", *m.Score.FullTime.Home, *m.Score.FullTime.Away)
		}
		matches = append(matches, match)
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].UTCDate.After(matches[j].UTCDate)
	})

	return matches, nil
}

// Squad returns the club's current roster. Falls back to the built-in squad
// when no API key is configured.
func (c *Client) Squad(ctx context.Context) ([]Player, error) {
	if c.apiKey == "" {
		return fallbackSquad(), nil
	}

	var payload struct {
		Squad []struct {
			ID          int64  `json:"id"`
			Name        string `json:"name"`
			Position    string `json:"position"`
			Nationality string `json:"nationality"`
			ShirtNumber int    `json:"shirtNumber"`
		} `json:"squad"`
	}

	url := fmt.Sprintf("%s/teams/%s", c.baseURL, c.teamID)
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	players := make([]Player, 0, len(payload.Squad))
	for _, p := range payload.Squad {
		players = append(players, Player{
			ID:          p.ID,
			Name:        p.Name,
			Position:    p.Position,
			Nationality: p.Nationality,
			ShirtNumber: p.ShirtNumber,
		})
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].ShirtNumber < players[j].ShirtNumber
	})

	return players, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	return retry.DoWithRetry(ctx, 3, 500*time.Millisecond, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Auth-Token", c.apiKey)

		resp, err := c.httpc.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("football api status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}
