package hackernews

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_items_fetch_item      = "items.fetch-item"
	report_items_fetch_items     = "items.fetch-items"
	report_items_fetch_story_ids = "items.fetch-story-ids"
	report_tokens_item_page      = "tokens.item-page"
	report_tokens_upvote_url     = "tokens.upvote-url"
	report_tokens_comment_hmac   = "tokens.comment-hmac"
	report_executor_upvote       = "executor.upvote"
	report_executor_login        = "executor.login"
	report_executor_comment      = "executor.comment"
	report_api_upvote            = "api.upvote"
	report_api_login             = "api.login"
	report_api_comment           = "api.comment"
)

var tracer = otel.Tracer("internal/scrapers/hackernews")
var meter = otel.Meter("internal/scrapers/hackernews")

var actionCounter, _ = meter.Int64Counter(
	"hackernews.actions",
	metric.WithDescription("mutating requests made against the site, by action and outcome"),
)
var itemsFetchedCounter, _ = meter.Int64Counter(
	"hackernews.items.fetched",
	metric.WithDescription("items successfully fetched from the json api"),
)

func recordAction(ctx context.Context, action string, err error) {
	actionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.Bool("ok", err == nil),
	))
}
