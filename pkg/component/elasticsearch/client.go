// Package elasticsearch provides a thin Elasticsearch client for index
// bootstrap and search. Requests are attempted once.
package elasticsearch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/kart-io/logger"
	"go.opentelemetry.io/otel/attribute"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/kart-io/medisearch/pkg/infra/tracing"
	options "github.com/kart-io/medisearch/pkg/options/elasticsearch"
	"github.com/kart-io/medisearch/pkg/utils/json"
)

const tracerName = "github.com/kart-io/medisearch/pkg/component/elasticsearch"

// Client wraps the official go-elasticsearch client.
type Client struct {
	es   *es.Client
	opts *options.Options
}

// BulkItem is one document of a bulk index request.
type BulkItem struct {
	ID   string
	Body any
}

// BulkResult summarizes a bulk response.
type BulkResult struct {
	Indexed int
	Failed  int
	// Errors holds one message per failed item.
	Errors []string
}

// Hit is a single search hit.
type Hit struct {
	ID     string          `json:"_id"`
	Index  string          `json:"_index"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// SearchResponse is the subset of the search API response the service reads.
type SearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// New creates a client from options. No request is sent.
//
// A cloud-id that starts with http:// or https:// is used as the only node
// address; any other non-empty value is treated as an Elastic Cloud id.
func New(opts *options.Options) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("elasticsearch options cannot be nil")
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid elasticsearch options: %w", utilerrors.NewAggregate(errs))
	}

	cfg := es.Config{
		APIKey:       opts.APIKey,
		Username:     opts.Username,
		Password:     opts.Password,
		DisableRetry: true,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: opts.Timeout,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConnsPerHost:   10,
		},
	}
	switch {
	case opts.IsDirectURL():
		cfg.Addresses = []string{opts.CloudID}
	case opts.CloudID != "":
		cfg.CloudID = opts.CloudID
	default:
		cfg.Addresses = opts.Addresses
	}

	client, err := es.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	logger.Infow("Elasticsearch client created", "target", opts.String())
	return &Client{es: client, opts: opts}, nil
}

// Options returns the options the client was built from.
func (c *Client) Options() *options.Options {
	return c.opts
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "elasticsearch.ping")
	defer func() { tracing.End(span, err) }()

	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer closeBody(res)
	if res.IsError() {
		return responseError("ping", res)
	}
	return nil
}

// IndexExists reports whether index exists.
func (c *Client) IndexExists(ctx context.Context, index string) (exists bool, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "elasticsearch.indices.exists",
		attribute.String("db.elasticsearch.index", index))
	defer func() { tracing.End(span, err) }()

	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", index, err)
	}
	defer closeBody(res)

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, responseError("check index "+index, res)
	}
}

// CreateIndex creates index with the given mapping document.
func (c *Client) CreateIndex(ctx context.Context, index string, mapping any) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "elasticsearch.indices.create",
		attribute.String("db.elasticsearch.index", index))
	defer func() { tracing.End(span, err) }()

	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}

	res, err := c.es.Indices.Create(index,
		c.es.Indices.Create.WithContext(ctx),
		c.es.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return responseError("create index "+index, res)
	}
	return nil
}

// Bulk indexes items into index. With refresh set the documents are
// searchable when Bulk returns. Per-item failures are reported in the
// result, not as an error.
func (c *Client) Bulk(ctx context.Context, index string, items []BulkItem, refresh bool) (result BulkResult, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "elasticsearch.bulk",
		attribute.String("db.elasticsearch.index", index),
		attribute.Int("db.elasticsearch.bulk.items", len(items)))
	defer func() { tracing.End(span, err) }()

	if len(items) == 0 {
		return result, nil
	}

	var buf bytes.Buffer
	for _, item := range items {
		meta := map[string]any{"index": map[string]any{"_index": index, "_id": item.ID}}
		if err = writeNDJSON(&buf, meta, item.Body); err != nil {
			return result, err
		}
	}

	opts := []func(*esapi.BulkRequest){
		c.es.Bulk.WithContext(ctx),
		c.es.Bulk.WithIndex(index),
	}
	if refresh {
		opts = append(opts, c.es.Bulk.WithRefresh("true"))
	}

	res, err := c.es.Bulk(&buf, opts...)
	if err != nil {
		return result, fmt.Errorf("bulk index %s: %w", index, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return result, responseError("bulk index "+index, res)
	}

	var parsed struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err = json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return result, fmt.Errorf("decode bulk response: %w", err)
	}

	for _, entry := range parsed.Items {
		for _, op := range entry {
			if op.Error != nil || op.Status >= 300 {
				result.Failed++
				reason := fmt.Sprintf("status %d", op.Status)
				if op.Error != nil {
					reason = op.Error.Type + ": " + op.Error.Reason
				}
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", op.ID, reason))
				continue
			}
			result.Indexed++
		}
	}
	return result, nil
}

// Search runs body against index.
func (c *Client) Search(ctx context.Context, index string, body any) (resp *SearchResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "elasticsearch.search",
		attribute.String("db.elasticsearch.index", index))
	defer func() { tracing.End(span, err) }()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode search body: %w", err)
	}

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return nil, responseError("search "+index, res)
	}

	resp = &SearchResponse{}
	if err = json.NewDecoder(res.Body).Decode(resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	span.SetAttributes(attribute.Int("db.elasticsearch.hits", len(resp.Hits.Hits)))
	return resp, nil
}

func writeNDJSON(buf *bytes.Buffer, lines ...any) error {
	for _, line := range lines {
		b, err := json.Marshal(line)
		if err != nil {
			return fmt.Errorf("encode bulk line: %w", err)
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return nil
}

// ResponseError is returned when Elasticsearch answers with an error status.
type ResponseError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: elasticsearch returned %d: %s", e.Op, e.StatusCode, e.Body)
}

func responseError(op string, res *esapi.Response) error {
	b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	return &ResponseError{Op: op, StatusCode: res.StatusCode, Body: string(b)}
}

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_ = res.Body.Close()
	}
}
