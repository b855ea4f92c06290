package hackernews

import (
	"context"
	"fmt"
	"regexp"

	"hnassist/internal/components/assert"
	"hnassist/internal/components/telemetry"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// the site answers a rejected login with a 200 page containing this text
var badLoginRegex = regexp.MustCompile(`(?i)Bad Login`)

// Executor performs the requests that change state on the site. Each action is one
// request, preceded by at most one token resolution.
type Executor struct {
	resolver TokenResolver
	tel      telemetry.API
}

func NewExecutor(tel telemetry.API) Executor {
	assert.NotNil("tel", tel)
	return Executor{
		resolver: NewTokenResolver(tel),
		tel:      telemetry.NewScopedAPI("hackernews", tel),
	}
}

func (e Executor) fail(span trace.Span, reportId string, err error, params ...any) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	e.tel.ReportWarning(reportId, append([]any{err}, params...)...)
}

// Upvote votes on an item as the session's user. Any completed vote request counts as
// success, the response status is not inspected.
func (e Executor) Upvote(ctx context.Context, sess *Session, id ItemId) (err error) {
	ctx, span := tracer.Start(ctx, "Executor:Upvote", trace.WithAttributes(
		attribute.String("item_id", string(id)),
	))
	defer span.End()
	defer func() { recordAction(ctx, "upvote", err) }()

	href, err := e.resolver.UpvoteUrl(ctx, sess, id)
	if err != nil {
		e.fail(span, report_executor_upvote, err, id)
		return fmt.Errorf("upvote %s: %w", id, err)
	}
	link, err := sess.resolve(id, href)
	if err != nil {
		err = &ParseError{Url: sess.ItemPageUrl(id), Err: err}
		e.fail(span, report_executor_upvote, err, id)
		return fmt.Errorf("upvote %s: %w", id, err)
	}

	_, err = sess.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		err = &NetworkError{Url: link, Err: err}
		e.fail(span, report_executor_upvote, err, id)
		return fmt.Errorf("upvote %s: %w", id, err)
	}

	e.tel.ReportDebug("upvoted", id)
	return nil
}

// Login posts the credentials to the login form. On success the session cookie ends up
// in the session's cookie jar. ErrBadLogin is returned when the site rejects the
// credentials.
func (e Executor) Login(ctx context.Context, sess *Session, username, password string) (err error) {
	ctx, span := tracer.Start(ctx, "Executor:Login", trace.WithAttributes(
		attribute.String("username", username),
	))
	defer span.End()
	defer func() { recordAction(ctx, "login", err) }()

	link := fmt.Sprintf("%s/login", sess.SiteBase)
	res, err := sess.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"acct": username,
			"pw":   password,
			"goto": "news",
		}).
		Post(link)
	if err != nil {
		err = &NetworkError{Url: link, Err: err}
		e.fail(span, report_executor_login, err, username)
		return fmt.Errorf("login: %w", err)
	}

	if badLoginRegex.Match(res.Body()) {
		e.fail(span, report_executor_login, ErrBadLogin, username)
		return fmt.Errorf("login %s: %w", username, ErrBadLogin)
	}

	e.tel.ReportDebug("logged in", username)
	return nil
}

// Comment replies to an item (a story or another comment). Any completed post counts
// as success.
func (e Executor) Comment(ctx context.Context, sess *Session, id ItemId, text string) (err error) {
	ctx, span := tracer.Start(ctx, "Executor:Comment", trace.WithAttributes(
		attribute.String("item_id", string(id)),
	))
	defer span.End()
	defer func() { recordAction(ctx, "comment", err) }()

	hmac, err := e.resolver.CommentHmac(ctx, sess, id)
	if err != nil {
		e.fail(span, report_executor_comment, err, id)
		return fmt.Errorf("comment on %s: %w", id, err)
	}

	link := fmt.Sprintf("%s/comment", sess.SiteBase)
	_, err = sess.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"parent": string(id),
			"goto":   fmt.Sprintf("item?id=%s", id),
			"hmac":   hmac,
			"text":   text,
		}).
		Post(link)
	if err != nil {
		err = &NetworkError{Url: link, Err: err}
		e.fail(span, report_executor_comment, err, id)
		return fmt.Errorf("comment on %s: %w", id, err)
	}

	e.tel.ReportDebug("commented", id, len(text))
	return nil
}
