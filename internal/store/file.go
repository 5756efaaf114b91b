package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/altinukshini/harvester-reports/internal/model"
)

// FileStore reads runs from a JSON file holding either an array of runs or
// a runs payload object.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) RecentRuns(ctx context.Context, limit int) ([]model.Run, error) {
	data, err := ioutil.ReadFile(s.Path)
	if err != nil {
		return nil, errors.Wrap(err, "read runs file")
	}
	runs, err := DecodeRuns(data)
	if err != nil {
		return nil, errors.Wrapf(err, "runs file %s", s.Path)
	}
	return FilterRuns(runs, RunFilter{StartedOnly: true, Limit: limit}), nil
}

// DecodeRuns accepts `[...]` or `{"runs": [...]}`.
func DecodeRuns(data []byte) ([]model.Run, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.New("empty runs document")
	}
	if data[0] == '[' {
		var runs []model.Run
		if err := json.Unmarshal(data, &runs); err != nil {
			return nil, errors.Wrap(err, "decode runs")
		}
		return runs, nil
	}
	var p model.RunsPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "decode runs payload")
	}
	return p.Runs, nil
}
