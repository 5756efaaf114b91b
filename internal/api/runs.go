package api

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/altinukshini/harvester-reports/internal/model"
)

const runsPath = "/harvester-reports/runs"

// ListRuns fetches the run selector payload. A 404 means the reports
// feature is disabled on the instance and yields an empty payload, as
// does a body that does not decode; callers must cope with no runs.
func (c *Client) ListRuns(ctx context.Context) (model.RunsPayload, error) {
	body, err := c.get(ctx, runsPath, nil)
	if err != nil {
		if StatusCode(err) == 404 {
			return emptyPayload(), nil
		}
		return model.RunsPayload{}, errors.Wrap(err, "list runs")
	}
	var payload model.RunsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Warn().Err(err).Int("bytes", len(body)).Msg("api: malformed runs payload")
		return emptyPayload(), nil
	}
	if payload.Runs == nil {
		payload.Runs = []model.Run{}
	}
	return payload, nil
}

func emptyPayload() model.RunsPayload {
	return model.RunsPayload{Runs: []model.Run{}}
}
