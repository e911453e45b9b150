// YouTube Data API [Source] implementation
//
// Talks to the playlistItems endpoint with an API key. Requests are
// rate-limited client-side to stay inside the default quota.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/desertthunder/vidtrack/internal/models"
	"github.com/desertthunder/vidtrack/internal/shared"
)

const defaultYTBaseURL string = "https://www.googleapis.com/youtube/v3"

// pageSize is the maximum page size permitted by the playlistItems endpoint.
const pageSize = 50

// YouTubeService implements the Source interface for the YouTube Data API.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	playlistID string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewYouTubeService creates a new YouTube source for the given playlist.
//
// baseURL and client default to the public API endpoint and
// [http.DefaultClient] when empty.
func NewYouTubeService(apiKey, playlistID, baseURL string, client *http.Client) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &YouTubeService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		playlistID: playlistID,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(4), 1),
	}
}

// Name returns the source name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// playlistItemsResponse mirrors the subset of the playlistItems payload the
// tracker consumes.
type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoID          string `json:"videoId"`
			VideoPublishedAt string `json:"videoPublishedAt"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// apiErrorResponse is the error envelope the API returns on non-2xx statuses.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// GetPage fetches one page of playlist items.
//
// Calls GET /playlistItems with part=snippet,contentDetails and the maximum
// page size. Quota and rate-limit failures are wrapped in
// [shared.ErrRateLimited] so callers can classify them.
func (y *YouTubeService) GetPage(ctx context.Context, cursor string) (*models.Page, error) {
	if y.apiKey == "" {
		return nil, shared.ErrMissingAPIKey
	}

	if err := y.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	params := url.Values{}
	params.Set("part", "snippet,contentDetails")
	params.Set("maxResults", fmt.Sprintf("%d", pageSize))
	params.Set("playlistId", y.playlistID)
	params.Set("key", y.apiKey)
	if cursor != "" {
		params.Set("pageToken", cursor)
	}

	apiURL := fmt.Sprintf("%s/playlistItems?%s", y.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, y.classifyStatus(resp)
	}

	var payload playlistItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	page := &models.Page{
		Items:      make([]models.RawItem, 0, len(payload.Items)),
		NextCursor: payload.NextPageToken,
	}
	for _, item := range payload.Items {
		page.Items = append(page.Items, models.RawItem{
			Title:       item.Snippet.Title,
			VideoID:     item.ContentDetails.VideoID,
			PublishedAt: item.ContentDetails.VideoPublishedAt,
		})
	}

	return page, nil
}

func (y *YouTubeService) classifyStatus(resp *http.Response) error {
	var errResp apiErrorResponse
	detail := ""
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
		detail = ": " + errResp.Error.Message
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d)%s", shared.ErrRateLimited, resp.StatusCode, detail)
	case http.StatusForbidden:
		for _, e := range errResp.Error.Errors {
			if e.Reason == "quotaExceeded" || e.Reason == "rateLimitExceeded" {
				return fmt.Errorf("%w (status %d)%s", shared.ErrRateLimited, resp.StatusCode, detail)
			}
		}
	}
	return fmt.Errorf("%w: status %d%s", shared.ErrAPIRequest, resp.StatusCode, detail)
}
