package hackernews

import (
	"context"
	"fmt"

	"hnassist/internal/components/assert"
	"hnassist/internal/components/htmlutil"
	"hnassist/internal/components/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TokenResolver scrapes the one-time tokens the site embeds in item pages. A token is
// only good for the page it was scraped from and may be invalidated at any time, so it
// is fetched right before the action that needs it and never kept.
type TokenResolver struct {
	tel telemetry.API
}

func NewTokenResolver(tel telemetry.API) TokenResolver {
	assert.NotNil("tel", tel)
	return TokenResolver{tel: telemetry.NewScopedAPI("hackernews", tel)}
}

func (r TokenResolver) itemPage(ctx context.Context, sess *Session, id ItemId) (*goquery.Document, error) {
	link := sess.ItemPageUrl(id)

	res, err := sess.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		err = &NetworkError{Url: link, Err: err}
		r.tel.ReportBroken(report_tokens_item_page, err, id)
		return nil, err
	}
	if res.IsError() {
		err = &NetworkError{Url: link, Status: res.StatusCode()}
		r.tel.ReportBroken(report_tokens_item_page, err, id)
		return nil, err
	}

	doc, err := htmlutil.ParseDocument(res.Body())
	if err != nil {
		err = &ParseError{Url: link, Err: err}
		r.tel.ReportBroken(report_tokens_item_page, err, id)
		return nil, err
	}
	return doc, nil
}

func (r TokenResolver) scrape(
	ctx context.Context,
	sess *Session,
	id ItemId,
	spanName, reportId, selector, attr string,
) (string, error) {
	ctx, span := tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.String("item_id", string(id)),
	))
	defer span.End()

	doc, err := r.itemPage(ctx, sess, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get item page")
		return "", err
	}

	value, ok := htmlutil.Attr(doc, selector, attr)
	if !ok || value == "" {
		err := &ScrapeError{Url: sess.ItemPageUrl(id), Selector: selector, Attr: attr}
		span.SetStatus(codes.Error, err.Error())
		r.tel.ReportWarning(reportId, err, id)
		return "", err
	}
	return value, nil
}

// UpvoteUrl returns the href of the upvote arrow (the element with id `up_<id>`) on the
// item page. The href is returned as-is, it is relative to the item page.
func (r TokenResolver) UpvoteUrl(ctx context.Context, sess *Session, id ItemId) (string, error) {
	return r.scrape(
		ctx, sess, id,
		"TokenResolver:UpvoteUrl",
		report_tokens_upvote_url,
		htmlutil.IdSelector(fmt.Sprintf("up_%s", id)),
		"href",
	)
}

// CommentHmac returns the value of the hidden `hmac` field of the reply form on the
// item page.
func (r TokenResolver) CommentHmac(ctx context.Context, sess *Session, id ItemId) (string, error) {
	return r.scrape(
		ctx, sess, id,
		"TokenResolver:CommentHmac",
		report_tokens_comment_hmac,
		htmlutil.InputSelector("hmac"),
		"value",
	)
}
