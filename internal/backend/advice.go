package backend

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/amishk599/jobmatch/internal/model"
)

// FallbackAdvice is shown when the backend answers without any advice text.
const FallbackAdvice = "No advice generated."

type adviceRequest struct {
	Preferences model.Preferences  `json:"preferences"`
	Jobs        []model.JobPosting `json:"jobs"`
}

type adviceResponse struct {
	Advice *string `json:"advice"`
}

// MatchAdvice asks the backend for a narrative assessment of how well jobs
// fit prefs.
func (c *Client) MatchAdvice(ctx context.Context, prefs model.Preferences, jobs []model.JobPosting) (string, error) {
	body, err := c.postJSON(ctx, "/api/agents/match-advice", adviceRequest{Preferences: prefs, Jobs: jobs})
	if err != nil {
		return "", err
	}

	var resp adviceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &model.UnexpectedError{Op: "decode advice", Err: err}
	}
	if resp.Advice == nil || strings.TrimSpace(*resp.Advice) == "" {
		return FallbackAdvice, nil
	}
	return *resp.Advice, nil
}

type pingResponse struct {
	Message string `json:"message"`
}

// Ping calls the backend root and returns its welcome message.
func (c *Client) Ping(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "/", nil)
	if err != nil {
		return "", err
	}

	var resp pingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &model.UnexpectedError{Op: "decode ping", Err: err}
	}
	return resp.Message, nil
}
