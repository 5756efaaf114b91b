package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/altinukshini/harvester-reports/internal/model"
)

const auditLogsPath = "/api/audit-logs/"

// MaxExportSize is how many hits a single export fetches.
const MaxExportSize = 1000

type SearchParams struct {
	Query     string
	Filters   []model.FacetFilter
	SortBy    string
	SortOrder string
	Page      int
	Size      int
}

// reservedParams are never overwritten by a facet filter.
var reservedParams = map[string]bool{"q": true, "sort": true, "page": true, "size": true}

// ParamsFromState maps the shared query state to audit log search params.
func ParamsFromState(s model.QueryState) SearchParams {
	return SearchParams{
		Query:     s.QueryString,
		Filters:   s.Filters,
		SortBy:    s.SortBy,
		SortOrder: s.SortOrder,
		Page:      s.Page,
		Size:      s.Size,
	}
}

func (p SearchParams) Values() url.Values {
	v := url.Values{}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	for _, f := range p.Filters {
		if f.Field == "" || reservedParams[f.Field] {
			continue
		}
		v.Add(f.Field, f.Value)
	}
	switch {
	case p.SortBy != "":
		v.Set("sort", p.SortBy)
	case p.SortOrder == model.SortOrderAsc:
		v.Set("sort", model.SortOldest)
	case p.SortOrder == model.SortOrderDesc:
		v.Set("sort", model.SortNewest)
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	} else {
		v.Set("size", "20")
	}
	return v
}

func (p SearchParams) QueryString() string {
	if qs := p.Values().Encode(); qs != "" {
		return "?" + qs
	}
	return ""
}

func (c *Client) SearchAuditLogs(ctx context.Context, p SearchParams) (model.AuditLogPage, error) {
	body, err := c.get(ctx, auditLogsPath, p.Values())
	if err != nil {
		return model.AuditLogPage{}, errors.Wrap(err, "search audit logs")
	}
	return DecodeAuditLogs(body)
}

// DecodeAuditLogs reads an audit log search response. Fields missing from
// a hit are left empty.
func DecodeAuditLogs(body []byte) (model.AuditLogPage, error) {
	if !gjson.ValidBytes(body) {
		return model.AuditLogPage{}, errors.New("audit logs: invalid json")
	}
	res := gjson.ParseBytes(body)

	var page model.AuditLogPage
	total := res.Get("hits.total")
	if total.IsObject() {
		total = total.Get("value")
	}
	page.Total = int(total.Int())

	res.Get("hits.hits").ForEach(func(_, hit gjson.Result) bool {
		page.Entries = append(page.Entries, model.LogEntry{
			ID:           hit.Get("id").String(),
			Created:      hit.Get("created").String(),
			Action:       hit.Get("action").String(),
			ResourceType: hit.Get("resource.type").String(),
			ResourceID:   hit.Get("resource.id").String(),
			UserID:       hit.Get("user.id").String(),
			UserEmail:    hit.Get("user.email").String(),
		})
		return true
	})
	return page, nil
}
