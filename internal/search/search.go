package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/sa-matric/connect/internal/models"
)

const Index = "deadlines"

func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Deadline, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description", "universityName", "bursaryName"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encoding query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source models.Deadline `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	deadlines := make([]models.Deadline, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		deadlines[i] = hit.Source
	}
	return r.Hits.Total.Value, deadlines, nil
}

// IndexDeadlines refreshes the search index from the deadlines table,
// one document per row keyed by id. Called once at startup.
func IndexDeadlines(ctx context.Context, es *elasticsearch.Client, index string, deadlines []models.Deadline) error {
	for _, d := range deadlines {
		data, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("search: encoding deadline %d: %w", d.ID, err)
		}

		res, err := es.Index(
			index,
			bytes.NewReader(data),
			es.Index.WithDocumentID(strconv.FormatUint(uint64(d.ID), 10)),
			es.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("search: indexing deadline %d: %w", d.ID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("search: indexing deadline %d: %s", d.ID, res.Status())
		}
	}
	return nil
}
