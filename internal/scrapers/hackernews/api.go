package hackernews

import (
	"context"

	"hnassist/internal/components/assert"
	"hnassist/internal/components/restyutil"
	"hnassist/internal/components/telemetry"
)

// Api is the surface handed to presentation code: a page of items plus the three
// actions, which collapse every failure into `false`. The failure itself is reported
// through telemetry. Code that needs to know why an action failed should use
// Executor directly.
type Api struct {
	Items    ItemFetcher
	Session  *Session
	Executor Executor

	tel telemetry.API
}

// NewApi wires a fetcher, a fresh session and an executor from one config. `dump`
// can be nil.
func NewApi(config Config, tel telemetry.API, dump restyutil.InstrumentOutput) (Api, error) {
	assert.NotNil("tel", tel)

	err := config.Validate()
	if err != nil {
		return Api{}, err
	}
	items, err := NewItemFetcher(config, tel, dump)
	if err != nil {
		return Api{}, err
	}
	sess, err := NewSession(config, tel, dump)
	if err != nil {
		return Api{}, err
	}

	return Api{
		Items:    items,
		Session:  sess,
		Executor: NewExecutor(tel),
		tel:      telemetry.NewScopedAPI("hackernews", tel),
	}, nil
}

// GetItems returns the outcome of fetching each of the first 21 ids, in order.
func (a Api) GetItems(ctx context.Context, page, limit int, ids []ItemId) []ItemResult {
	return a.Items.FetchItems(ctx, page, limit, ids)
}

func (a Api) Upvote(ctx context.Context, id ItemId) bool {
	err := a.Executor.Upvote(ctx, a.Session, id)
	if err != nil {
		a.tel.ReportWarning(report_api_upvote, err)
		return false
	}
	return true
}

func (a Api) Login(ctx context.Context, username, password string) bool {
	err := a.Executor.Login(ctx, a.Session, username, password)
	if err != nil {
		a.tel.ReportWarning(report_api_login, err)
		return false
	}
	return true
}

func (a Api) Comment(ctx context.Context, id ItemId, text string) bool {
	err := a.Executor.Comment(ctx, a.Session, id, text)
	if err != nil {
		a.tel.ReportWarning(report_api_comment, err)
		return false
	}
	return true
}
