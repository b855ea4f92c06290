package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"

	"hnassist/internal/components/assert"
	"hnassist/internal/components/restyutil"
	"hnassist/internal/components/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ItemId identifies a story, comment, job or poll. It is kept opaque.
type ItemId string

// Item is the json record returned by the api, passed through untouched.
// It is nil when the api answered `null` (ex. the id does not exist yet).
type Item map[string]any

// ItemResult is the outcome of fetching a single item as part of a batch.
// Exactly one of Item and Err is meaningful.
type ItemResult struct {
	Id   ItemId
	Item Item
	Err  error
}

// itemWindow is the number of ids FetchItems looks at, counted from the start of the
// list. Paging is not applied on top of it.
const itemWindow = 21

// StoryKinds are the story lists the api exposes.
var StoryKinds = []string{
	"topstories",
	"newstories",
	"beststories",
	"askstories",
	"showstories",
	"jobstories",
}

// ItemFetcher reads items from the json api. It holds no session, the api does not
// need one.
type ItemFetcher struct {
	apiBase string
	http    *resty.Client
	tel     telemetry.API
}

// NewItemFetcher creates a fetcher against config.ApiBase. `dump` can be nil.
func NewItemFetcher(config Config, tel telemetry.API, dump restyutil.InstrumentOutput) (ItemFetcher, error) {
	assert.NotNil("tel", tel)

	_, err := validateBase("api_base", config.ApiBase)
	if err != nil {
		return ItemFetcher{}, err
	}

	tel = telemetry.NewScopedAPI("hackernews", tel)
	client := newHttpClient(config, "api", tel, dump)
	client.SetCookieJar(nil)

	return ItemFetcher{
		apiBase: strings.TrimSuffix(config.ApiBase, "/"),
		http:    client,
		tel:     tel,
	}, nil
}

// getJson fetches link and decodes the body into out.
func (f ItemFetcher) getJson(ctx context.Context, link string, out any) error {
	res, err := f.http.R().
		SetContext(ctx).
		SetHeader("accept", "application/json").
		Get(link)
	if err != nil {
		return &NetworkError{Url: link, Err: err}
	}
	if res.IsError() {
		return &NetworkError{Url: link, Status: res.StatusCode()}
	}

	err = json.Unmarshal(res.Body(), out)
	if err != nil {
		return &ParseError{Url: link, Err: err}
	}
	return nil
}

func (f ItemFetcher) itemUrl(id ItemId) string {
	return fmt.Sprintf("%s/item/%s.json", f.apiBase, url.PathEscape(string(id)))
}

// FetchItem fetches a single item. Failures are reported and then returned.
func (f ItemFetcher) FetchItem(ctx context.Context, id ItemId) (Item, error) {
	ctx, span := tracer.Start(ctx, "ItemFetcher:FetchItem", trace.WithAttributes(
		attribute.String("item_id", string(id)),
	))
	defer span.End()

	var item Item
	err := f.getJson(ctx, f.itemUrl(id), &item)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch item")
		f.tel.ReportBroken(report_items_fetch_item, err, id)
		return nil, fmt.Errorf("fetch item %s: %w", id, err)
	}

	f.tel.ReportDebug("fetched item", id, len(item))
	return item, nil
}

// FetchItems fetches the first 21 ids of `ids` concurrently.
//
// `page` and `limit` are accepted for the callers that pass them, but the window is
// always the head of the list. Every id gets its own request, a failing request does
// not affect the others. Results are in the same order as `ids`.
func (f ItemFetcher) FetchItems(ctx context.Context, page, limit int, ids []ItemId) []ItemResult {
	ctx, span := tracer.Start(ctx, "ItemFetcher:FetchItems", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("limit", limit),
		attribute.Int("ids", len(ids)),
	))
	defer span.End()

	window := ids
	if len(window) > itemWindow {
		window = window[:itemWindow]
	}

	results := make([]ItemResult, len(window))
	wg := sync.WaitGroup{}
	for i, id := range window {
		wg.Add(1)
		go func() {
			defer wg.Done()
			item, err := f.FetchItem(ctx, id)
			results[i] = ItemResult{Id: id, Item: item, Err: err}
		}()
	}
	wg.Wait()

	var fetched int64
	for _, r := range results {
		if r.Err == nil {
			fetched++
		}
	}
	itemsFetchedCounter.Add(ctx, fetched)
	f.tel.ReportCount(report_items_fetch_items, fetched)
	if fetched < int64(len(results)) {
		span.SetStatus(codes.Error, fmt.Sprintf("%d items failed", int64(len(results))-fetched))
	}

	return results
}

// FetchStoryIds fetches one of the story lists, `kind` must be one of StoryKinds.
func (f ItemFetcher) FetchStoryIds(ctx context.Context, kind string) ([]ItemId, error) {
	ctx, span := tracer.Start(ctx, "ItemFetcher:FetchStoryIds", trace.WithAttributes(
		attribute.String("kind", kind),
	))
	defer span.End()

	if !slices.Contains(StoryKinds, kind) {
		err := fmt.Errorf("unknown story kind '%s', expected one of %s", kind, strings.Join(StoryKinds, ", "))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var ids []json.Number
	err := f.getJson(ctx, fmt.Sprintf("%s/%s.json", f.apiBase, kind), &ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch story ids")
		f.tel.ReportBroken(report_items_fetch_story_ids, err, kind)
		return nil, fmt.Errorf("fetch %s: %w", kind, err)
	}

	out := make([]ItemId, len(ids))
	for i, id := range ids {
		out[i] = ItemId(id.String())
	}
	return out, nil
}
