package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/amishk599/jobmatch/internal/model"
)

// postingWire accepts both posting shapes the backend has served:
// company/location, and the legacy owner.name/locationAddress.
type postingWire struct {
	Title           string  `json:"title"`
	Location        string  `json:"location"`
	Company         string  `json:"company"`
	URL             *string `json:"url"`
	LocationAddress string  `json:"locationAddress"`
	Owner           *struct {
		Name string `json:"name"`
	} `json:"owner"`
}

func (w postingWire) normalize() model.JobPosting {
	p := model.JobPosting{
		Title:    w.Title,
		Location: w.Location,
		Company:  w.Company,
	}
	if p.Location == "" {
		p.Location = w.LocationAddress
	}
	if p.Company == "" && w.Owner != nil {
		p.Company = w.Owner.Name
	}
	if w.URL != nil {
		p.URL = *w.URL
	}
	return p
}

// jobsEnvelope is the legacy {"result": {"jobs": [...]}} shape; a top-level
// "jobs" field is accepted too.
type jobsEnvelope struct {
	Result *struct {
		Jobs []*postingWire `json:"jobs"`
	} `json:"result"`
	Jobs []*postingWire `json:"jobs"`
}

// SearchJobs fetches postings for location. Only the location (plus optional
// paging) is sent to the backend.
func (c *Client) SearchJobs(ctx context.Context, location string, opts model.SearchOptions) ([]model.JobPosting, error) {
	query := url.Values{}
	query.Set("location", location)
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	body, err := c.get(ctx, "/api/jobs", query)
	if err != nil {
		return nil, err
	}
	return parseJobs(body)
}

// parseJobs decodes a bare array or an envelope. Empty and null results are
// an empty, non-nil slice.
func parseJobs(body []byte) ([]model.JobPosting, error) {
	trimmed := bytes.TrimSpace(body)
	if isNull(trimmed) {
		return []model.JobPosting{}, nil
	}

	var wires []*postingWire
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &wires); err != nil {
			return nil, &model.UnexpectedError{Op: "decode jobs", Err: err}
		}
	case '{':
		var env jobsEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, &model.UnexpectedError{Op: "decode jobs", Err: err}
		}
		if env.Result != nil && env.Result.Jobs != nil {
			wires = env.Result.Jobs
		} else {
			wires = env.Jobs
		}
	default:
		return nil, &model.UnexpectedError{Op: "decode jobs", Err: fmt.Errorf("unexpected body %.20q", trimmed)}
	}

	jobs := make([]model.JobPosting, 0, len(wires))
	for _, w := range wires {
		if w == nil {
			continue
		}
		jobs = append(jobs, w.normalize())
	}
	return jobs, nil
}
