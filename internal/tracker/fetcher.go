package tracker

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"civiport/backend/internal/models"
)

// HTTPFetcher loads the complaint list from the portal's REST API.
type HTTPFetcher struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewHTTPFetcher targets the given API base URL (no trailing slash).
func NewHTTPFetcher(baseURL, token string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchComplaints issues GET /api/complaints/user/:id and decodes the
// ordered-by-recency list.
func (f *HTTPFetcher) FetchComplaints(ownerID string) ([]models.Complaint, error) {
	req, err := http.NewRequest(http.MethodGet, f.BaseURL+"/api/complaints/user/"+ownerID, nil)
	if err != nil {
		return nil, err
	}
	if f.Token != "" {
		req.Header.Set("Authorization", "Bearer "+f.Token)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch complaints: unexpected status %d", resp.StatusCode)
	}

	var complaints []models.Complaint
	if err := json.NewDecoder(resp.Body).Decode(&complaints); err != nil {
		return nil, err
	}
	return complaints, nil
}
