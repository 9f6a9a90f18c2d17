package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/riannelimje/git-streak/internal/contrib"
	"github.com/riannelimje/git-streak/internal/registry"
)

// DefaultGitHubEndpoint is the public GraphQL API.
const DefaultGitHubEndpoint = "https://api.github.com/graphql"

// ErrMissingToken is returned when the GitHub source has no access token.
var ErrMissingToken = errors.New("sources: github token is required")

const contributionsQuery = `
query($username: String!, $from: DateTime!, $to: DateTime!) {
  user(login: $username) {
    contributionsCollection(from: $from, to: $to) {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            date
            contributionCount
          }
        }
      }
    }
  }
}`

const viewerQuery = `
query {
  viewer {
    login
  }
}`

// GitHub fetches a user's contribution calendar over the GraphQL API.
type GitHub struct {
	Token    string
	User     string // empty means the token's owner
	Endpoint string
	Client   *http.Client
}

// NewGitHub creates a client with the default endpoint and a 15s timeout when
// those are not given.
func NewGitHub(token, user string) *GitHub {
	return &GitHub{
		Token:    token,
		User:     user,
		Endpoint: DefaultGitHubEndpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// ID implements registry.Source.
func (g *GitHub) ID() string {
	return "github"
}

// Fetch implements registry.Source. It returns at most the last 365 days,
// sorted by date.
func (g *GitHub) Fetch(ctx context.Context, now time.Time) ([]contrib.Day, error) {
	if g.Token == "" {
		return nil, ErrMissingToken
	}

	user := g.User
	if user == "" {
		login, err := g.Viewer(ctx)
		if err != nil {
			return nil, err
		}
		user = login
	}

	to := now.UTC()
	from := to.AddDate(0, 0, -contrib.WindowDays)

	var data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []struct {
							Date              string `json:"date"`
							ContributionCount int    `json:"contributionCount"`
						} `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	}
	vars := map[string]any{
		"username": user,
		"from":     from.Format(time.RFC3339),
		"to":       to.Format(time.RFC3339),
	}
	if err := g.query(ctx, contributionsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, fmt.Errorf("sources: github user %q not found", user)
	}

	var days []contrib.Day
	for _, week := range data.User.ContributionsCollection.ContributionCalendar.Weeks {
		for _, d := range week.ContributionDays {
			days = append(days, contrib.Day{Date: d.Date, Count: d.ContributionCount})
		}
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})
	if len(days) > contrib.WindowDays {
		days = days[len(days)-contrib.WindowDays:]
	}
	return days, nil
}

// Viewer returns the login that owns the token.
func (g *GitHub) Viewer(ctx context.Context) (string, error) {
	if g.Token == "" {
		return "", ErrMissingToken
	}
	var data struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}
	if err := g.query(ctx, viewerQuery, nil, &data); err != nil {
		return "", err
	}
	if data.Viewer.Login == "" {
		return "", errors.New("sources: github viewer has no login")
	}
	return data.Viewer.Login, nil
}

type graphQLError struct {
	Message string `json:"message"`
}

func (g *GitHub) query(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{"query": query, "variables": vars})
	if err != nil {
		return fmt.Errorf("sources: cannot encode github query: %w", err)
	}

	endpoint := g.Endpoint
	if endpoint == "" {
		endpoint = DefaultGitHubEndpoint
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sources: cannot build github request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.Token)
	req.Header.Set("Content-Type", "application/json")

	client := g.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sources: github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sources: github returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("sources: cannot decode github response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("sources: github api errors: %s", strings.Join(msgs, "; "))
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return errors.New("sources: github response has no data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("sources: cannot decode github data: %w", err)
	}
	return nil
}

func init() {
	registry.Register(registry.Info{
		ID:          "github",
		Title:       "GitHub",
		Description: "Your real contribution calendar (needs a token)",
	}, func(o registry.Options) (registry.Source, error) {
		if o.Token == "" {
			return nil, ErrMissingToken
		}
		g := NewGitHub(o.Token, o.User)
		if o.Endpoint != "" {
			g.Endpoint = o.Endpoint
		}
		if o.HTTPClient != nil {
			g.Client = o.HTTPClient
		} else if o.Timeout > 0 {
			g.Client = &http.Client{Timeout: o.Timeout}
		}
		return g, nil
	})
}
