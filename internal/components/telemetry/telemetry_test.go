package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("items", NewScopedAPI("hackernews", rec))

	scoped.ReportBroken("fetch-item", "boom")
	scoped.ReportWarning("login")
	scoped.ReportDebug("fetched item", "1")
	scoped.ReportCount("fetch-items", 21)

	reports := rec.Reports()
	require.Len(t, reports, 4)
	require.Equal(t, "hackernews: items: fetch-item", reports[0].Id)
	require.Equal(t, []any{"boom"}, reports[0].Params)
	require.Equal(t, ReportKindWarning, reports[1].Kind)
	require.Equal(t, "hackernews: items: fetched item", reports[2].Id)
	require.Equal(t, int64(21), reports[3].Count)

	require.Len(t, rec.Filter(ReportKindBroken, "fetch-item"), 1)
	require.Empty(t, rec.Filter(ReportKindBroken, "login"))
}

func useSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	sr := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return sr
}

func TestInstrumentRestyResponse(t *testing.T) {
	sr := useSpanRecorder(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	rec := &Recorder{}
	client := resty.New().SetBaseURL(server.URL)
	InstrumentResty(client, "test/http", rec)

	res, err := client.R().SetContext(context.Background()).Get("/item?id=1")
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, res.StatusCode())

	require.Len(t, rec.Filter(ReportKindDebug, report_resty_request), 1)
	responses := rec.Filter(ReportKindDebug, report_resty_response)
	require.Len(t, responses, 1)
	require.Equal(t, uint64(1), responses[0].Params[0])
	require.Empty(t, rec.Filter(ReportKindBroken, report_resty_response))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "http GET", spans[0].Name())
	require.NotEqual(t, codes.Error, spans[0].Status().Code)
}

func TestInstrumentRestyError(t *testing.T) {
	sr := useSpanRecorder(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, "test/http", rec)

	_, err := client.R().Get(url + "/item?id=1")
	require.Error(t, err)

	broken := rec.Filter(ReportKindBroken, report_resty_response)
	require.Len(t, broken, 1)
	require.Equal(t, "GET", broken[0].Params[1])

	spans := sr.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
