package ycharts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pointsAAPL = `{"meta":{"status":"ok"},"response":{"AAPL":{"meta":{"status":"ok"},"results":{"price":{"meta":{"status":"ok"},"data":["2016-09-15",115.39]}}}}}`

	seriesAAPL = `{
		"response": {"AAPL": {"results": {"price": {
			"data": [["2016-09-12", 105.44], ["2016-09-13", 107.95], ["2016-09-14", 111.77], ["2016-09-15", 115.39]],
			"meta": {"status": "ok"}}}, "meta": {"status": "ok"}}},
		"meta": {"url": "http://ycharts.com/api/v3/companies/AAPL/series/price?start_date=2016-09-10", "status": "ok"}
	}`

	infoAAPL = `{
		"response": {"AAPL": {"results": {"name": {"data": "Apple", "meta": {"status": "ok"}}}, "meta": {"status": "ok"}}},
		"meta": {"url": "http://ycharts.com/api/v3/companies/AAPL/info/name", "status": "ok"}
	}`

	infoTooMany = `{
		"response": {},
		"meta": {
			"error_message": "Too many identifiers. Ensure 100 or less.",
			"status": "error",
			"error_code": 414,
			"url": "http://ycharts.com/api/v3/companies/TOOMANY/info/name"
		}
	}`
)

// fixtures maps request URIs to canned response bodies.
var fixtures = map[string]string{
	"/v3/companies/AAPL/points/price":                        pointsAAPL,
	"/v3/companies/AAPL/series/price?start_date=2016-09-10": seriesAAPL,
	"/v3/companies/AAPL/info/name":                           infoAAPL,
	"/v3/companies/TOOMANY/info/name":                        infoTooMany,
}

// newFixtureServer serves fixtures and rejects requests without the API key.
func newFixtureServer(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(AuthHeader) != "api_key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := fixtures[r.URL.RequestURI()]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(baseURL string) Config {
	return Config{APIKey: "api_key", BaseURL: baseURL, APIVersion: "v3"}
}

// recordingDoer records requests and answers every one with status/body.
type recordingDoer struct {
	mu     sync.Mutex
	urls   []string
	status int
	body   string
}

func (d *recordingDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.urls = append(d.urls, req.URL.String())
	d.mu.Unlock()

	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	body := d.body
	if body == "" {
		body = `{"meta":{"status":"ok"},"response":{}}`
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}, nil
}

func (d *recordingDoer) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.urls...)
}

func newRecordingClient(r Resource, doer *recordingDoer, opts ...Option) *Client {
	opts = append([]Option{WithHTTPClient(doer)}, opts...)
	return New(Config{APIKey: "api_key"}, r, opts...)
}

func decodeFixture(t *testing.T, body string) Document {
	t.Helper()
	doc, err := DecodeDocument(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestClient_Points_ReturnsDocumentUnchanged(t *testing.T) {
	t.Parallel()

	server := newFixtureServer(t)
	client := NewCompanyClient(testConfig(server.URL), WithHTTPClient(server.Client()))

	doc, err := client.Points(context.Background(), []string{"AAPL"}, []string{"price"}, Date{})
	require.NoError(t, err)

	assert.Equal(t, decodeFixture(t, pointsAAPL), doc)
	assert.Equal(t, "ok", doc.Meta().Status)

	price := doc["response"].(map[string]any)["AAPL"].(map[string]any)["results"].(map[string]any)["price"].(map[string]any)
	assert.Equal(t, []any{"2016-09-15", json.Number("115.39")}, price["data"])
}

func TestClient_Points_KeepsLargeIntegersExact(t *testing.T) {
	t.Parallel()

	body := `{"meta":{"status":"ok"},"response":{"AAPL":{"results":{"shares":{"data":["2016-09-15",12345678901234567891]}}}}}`
	doer := &recordingDoer{body: body}

	doc, err := newRecordingClient(Companies, doer).Points(context.Background(), []string{"AAPL"}, []string{"shares"}, Date{})
	require.NoError(t, err)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(b), `["2016-09-15",12345678901234567891]`)
}

func TestClient_Series_StartDate(t *testing.T) {
	t.Parallel()

	server := newFixtureServer(t)
	client := NewCompanyClient(testConfig(server.URL), WithHTTPClient(server.Client()))

	start := On(time.Date(2016, 9, 10, 15, 30, 0, 0, time.UTC))
	doc, err := client.Series(context.Background(), []string{"AAPL"}, []string{"price"}, SeriesOptions{Start: start})
	require.NoError(t, err)

	price := doc["response"].(map[string]any)["AAPL"].(map[string]any)["results"].(map[string]any)["price"].(map[string]any)
	expected := []any{
		[]any{"2016-09-12", json.Number("105.44")},
		[]any{"2016-09-13", json.Number("107.95")},
		[]any{"2016-09-14", json.Number("111.77")},
		[]any{"2016-09-15", json.Number("115.39")},
	}
	assert.Equal(t, expected, price["data"])
}

func TestClient_Info(t *testing.T) {
	t.Parallel()

	server := newFixtureServer(t)
	client := NewCompanyClient(testConfig(server.URL), WithHTTPClient(server.Client()))

	doc, err := client.Info(context.Background(), []string{"AAPL"}, []string{"name"})
	require.NoError(t, err)

	name := doc["response"].(map[string]any)["AAPL"].(map[string]any)["results"].(map[string]any)["name"].(map[string]any)
	assert.Equal(t, "Apple", name["data"])
}

func TestClient_Info_TooManyIdentifiers(t *testing.T) {
	t.Parallel()

	server := newFixtureServer(t)
	client := NewCompanyClient(testConfig(server.URL), WithHTTPClient(server.Client()))

	doc, err := client.Info(context.Background(), []string{"TOOMANY"}, []string{"name"})
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrTooLong)

	var yerr *Error
	require.ErrorAs(t, err, &yerr)
	assert.Equal(t, 414, yerr.Code)
	assert.Equal(t, "Too many identifiers. Ensure 100 or less.", yerr.Message)
	assert.Equal(t, "Too many identifiers. Ensure 100 or less. code:414", yerr.Error())
}

func TestClient_Unauthorized(t *testing.T) {
	t.Parallel()

	server := newFixtureServer(t)
	cfg := testConfig(server.URL)
	cfg.APIKey = "wrong"
	client := NewCompanyClient(cfg, WithHTTPClient(server.Client()))

	_, err := client.Info(context.Background(), []string{"AAPL"}, []string{"name"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_RequestURL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		name     string
		call     func(c *Client) (Document, error)
		expected string
	}{
		{
			name: "points without date has no query",
			call: func(c *Client) (Document, error) {
				return c.Points(ctx, []string{"AAPL", "MSFT"}, []string{"price", "market_cap"}, Date{})
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL,MSFT/points/price,market_cap",
		},
		{
			name: "points with relative date",
			call: func(c *Client) (Document, error) {
				return c.Points(ctx, []string{"AAPL"}, []string{"price"}, PeriodsAgo(-5))
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL/points/price?date=-5",
		},
		{
			name: "points with calendar date",
			call: func(c *Client) (Document, error) {
				return c.Points(ctx, []string{"AAPL"}, []string{"price"}, On(time.Date(2016, 9, 10, 0, 0, 0, 0, time.UTC)))
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL/points/price?date=2016-09-10",
		},
		{
			name: "series with only aggregate function",
			call: func(c *Client) (Document, error) {
				return c.Series(ctx, []string{"AAPL"}, []string{"price"}, SeriesOptions{AggregateFunction: "max"})
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL/series/price?aggregate_function=max",
		},
		{
			name: "series with every option",
			call: func(c *Client) (Document, error) {
				return c.Series(ctx, []string{"AAPL"}, []string{"price"}, SeriesOptions{
					Start:             On(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)),
					End:               PeriodsAgo(-1),
					ResampleFrequency: "monthly",
					ResampleFunction:  "mean",
					FillMethod:        "previous",
					AggregateFunction: "max",
				})
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL/series/price?aggregate_function=max&end_date=-1&fill_method=previous&resample_frequency=monthly&resample_function=mean&start_date=2016-01-01",
		},
		{
			name: "whitespace is stripped from identifiers",
			call: func(c *Client) (Document, error) {
				return c.Info(ctx, []string{" AAPL", "MSFT "}, []string{"name", " description"})
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL,MSFT/info/name,description",
		},
		{
			name: "list defaults to page 1",
			call: func(c *Client) (Document, error) {
				return c.List(ctx, ListOptions{})
			},
			expected: "https://ycharts.com/api/v3/companies?page=1",
		},
		{
			name: "list with filter",
			call: func(c *Client) (Document, error) {
				return c.List(ctx, ListOptions{Page: 3, FilterName: "sector", FilterValue: "Technology"})
			},
			expected: "https://ycharts.com/api/v3/companies?page=3&sector=Technology",
		},
		{
			name: "dividends",
			call: func(c *Client) (Document, error) {
				return c.Dividends(ctx, []string{"AAPL"}, DividendOptions{
					ExStart:      On(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)),
					DividendType: "regular",
				})
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL/dividends?dividend_type=regular&ex_start_date=2015-01-01",
		},
		{
			name: "splits without options",
			call: func(c *Client) (Document, error) {
				return c.StockSplits(ctx, []string{"AAPL"}, SplitOptions{})
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL/splits",
		},
		{
			name: "spinoffs",
			call: func(c *Client) (Document, error) {
				return c.StockSpinoffs(ctx, []string{"AAPL"}, SpinoffOptions{End: PeriodsAgo(-2)})
			},
			expected: "https://ycharts.com/api/v3/companies/AAPL/spinoffs?spinoff_end_date=-2",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doer := &recordingDoer{}
			_, err := tt.call(newRecordingClient(Companies, doer))
			require.NoError(t, err)
			assert.Equal(t, []string{tt.expected}, doer.calls())
		})
	}
}

func TestClient_ValidationHappensBeforeRequest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		name     string
		resource Resource
		call     func(c *Client) (Document, error)
	}{
		{
			name:     "non-negative point date",
			resource: Companies,
			call: func(c *Client) (Document, error) {
				return c.Points(ctx, []string{"AAPL"}, []string{"price"}, PeriodsAgo(45))
			},
		},
		{
			name:     "zero point date",
			resource: Companies,
			call: func(c *Client) (Document, error) {
				return c.Points(ctx, []string{"AAPL"}, []string{"price"}, PeriodsAgo(0))
			},
		},
		{
			name:     "non-negative series end date",
			resource: Companies,
			call: func(c *Client) (Document, error) {
				return c.Series(ctx, []string{"AAPL"}, []string{"price"}, SeriesOptions{End: PeriodsAgo(3)})
			},
		},
		{
			name:     "non-negative dividend date",
			resource: MutualFunds,
			call: func(c *Client) (Document, error) {
				return c.Dividends(ctx, []string{"VFIAX"}, DividendOptions{ExEnd: PeriodsAgo(1)})
			},
		},
		{
			name:     "filter not allowed",
			resource: Companies,
			call: func(c *Client) (Document, error) {
				return c.List(ctx, ListOptions{FilterName: "fund_family", FilterValue: "Vanguard"})
			},
		},
		{
			name:     "no symbols",
			resource: Companies,
			call: func(c *Client) (Document, error) {
				return c.Points(ctx, nil, []string{"price"}, Date{})
			},
		},
		{
			name:     "no codes for companies",
			resource: Companies,
			call: func(c *Client) (Document, error) {
				return c.Series(ctx, []string{"AAPL"}, nil, SeriesOptions{})
			},
		},
		{
			name:     "codes for indicators",
			resource: Indicators,
			call: func(c *Client) (Document, error) {
				return c.Points(ctx, []string{"USGDP"}, []string{"price"}, Date{})
			},
		},
		{
			name:     "dividends on indicators",
			resource: Indicators,
			call: func(c *Client) (Document, error) {
				return c.Dividends(ctx, []string{"USGDP"}, DividendOptions{})
			},
		},
		{
			name:     "splits on mutual funds",
			resource: MutualFunds,
			call: func(c *Client) (Document, error) {
				return c.StockSplits(ctx, []string{"VFIAX"}, SplitOptions{})
			},
		},
		{
			name:     "spinoffs on mutual funds",
			resource: MutualFunds,
			call: func(c *Client) (Document, error) {
				return c.StockSpinoffs(ctx, []string{"VFIAX"}, SpinoffOptions{})
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doer := &recordingDoer{}
			doc, err := tt.call(newRecordingClient(tt.resource, doer))

			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrMalformedRequest)
			var yerr *Error
			require.ErrorAs(t, err, &yerr)
			assert.Equal(t, http.StatusBadRequest, yerr.Code)
			assert.Empty(t, doer.calls(), "no request should be sent")
		})
	}
}

func TestClient_TransportStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		kind    error
		code    int
		message string
	}{
		{"not found", http.StatusNotFound, ErrNotFound, 404, "URL not found."},
		{"unauthorized", http.StatusUnauthorized, ErrUnauthorized, 401, "Invalid or Missing API Key."},
		{"bad request", http.StatusBadRequest, ErrMalformedRequest, 400, "Bad Request (HTTP 400)"},
		{"forbidden", http.StatusForbidden, ErrMalformedRequest, 400, "Forbidden (HTTP 403)"},
		{"internal server error", http.StatusInternalServerError, ErrMalformedRequest, 400, "Internal Server Error (HTTP 500)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doer := &recordingDoer{status: tt.status, body: "not json"}
			_, err := newRecordingClient(Companies, doer).Info(context.Background(), []string{"AAPL"}, []string{"name"})

			assert.ErrorIs(t, err, tt.kind)
			var yerr *Error
			require.ErrorAs(t, err, &yerr)
			assert.Equal(t, tt.code, yerr.Code)
			assert.Equal(t, tt.message, yerr.Message)
			assert.Len(t, doer.calls(), 1, "exactly one attempt")
		})
	}
}

func TestClient_PayloadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		lenient bool
		kind    error
		code    int
		message string
	}{
		{
			name:    "server declared 400",
			body:    `{"meta":{"status":"error","error_code":400,"error_message":"Invalid calculation code."},"response":{}}`,
			kind:    ErrMalformedRequest,
			code:    400,
			message: "Invalid calculation code.",
		},
		{
			name:    "server declared 414",
			body:    infoTooMany,
			kind:    ErrTooLong,
			code:    414,
			message: "Too many identifiers. Ensure 100 or less.",
		},
		{
			name:    "unknown code is malformed by default",
			body:    `{"meta":{"status":"error","error_code":503,"error_message":"Try again later."},"response":{}}`,
			kind:    ErrMalformedRequest,
			code:    503,
			message: "Try again later.",
		},
		{
			name:    "414 is raised even when lenient",
			body:    infoTooMany,
			lenient: true,
			kind:    ErrTooLong,
			code:    414,
			message: "Too many identifiers. Ensure 100 or less.",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opts []Option
			if tt.lenient {
				opts = append(opts, WithLenientErrors())
			}
			doer := &recordingDoer{body: tt.body}
			_, err := newRecordingClient(Companies, doer, opts...).Info(context.Background(), []string{"AAPL"}, []string{"name"})

			assert.ErrorIs(t, err, tt.kind)
			var yerr *Error
			require.ErrorAs(t, err, &yerr)
			assert.Equal(t, tt.code, yerr.Code)
			assert.Equal(t, tt.message, yerr.Message)
		})
	}
}

func TestClient_LenientReturnsUnknownErrorDocument(t *testing.T) {
	t.Parallel()

	body := `{"meta":{"status":"error","error_code":503,"error_message":"Try again later."},"response":{}}`
	doer := &recordingDoer{body: body}
	client := newRecordingClient(Companies, doer, WithLenientErrors())

	doc, err := client.Info(context.Background(), []string{"AAPL"}, []string{"name"})
	require.NoError(t, err)
	assert.Equal(t, decodeFixture(t, body), doc)
	assert.Equal(t, 503, doc.Meta().ErrorCode)
}

func TestClient_InvalidJSON(t *testing.T) {
	t.Parallel()

	doer := &recordingDoer{body: `{invalid json`}
	_, err := newRecordingClient(Companies, doer).Info(context.Background(), []string{"AAPL"}, []string{"name"})

	require.Error(t, err)
	var yerr *Error
	assert.False(t, errors.As(err, &yerr), "decode failures are not classified")
	assert.Contains(t, err.Error(), "decode response")
}

type failingDoer struct{ err error }

func (d failingDoer) Do(*http.Request) (*http.Response, error) { return nil, d.err }

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("connection refused")
	client := NewCompanyClient(Config{APIKey: "api_key"}, WithHTTPClient(failingDoer{err: sentinel}))

	_, err := client.Points(context.Background(), []string{"AAPL"}, []string{"price"}, Date{})
	assert.ErrorIs(t, err, sentinel)
}

func TestClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewCompanyClient(testConfig(server.URL), WithHTTPClient(server.Client()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Points(ctx, []string{"AAPL"}, []string{"price"}, Date{})
	require.Error(t, err)
}

func TestClient_RepeatedQueriesAreIdentical(t *testing.T) {
	t.Parallel()

	server := newFixtureServer(t)
	client := NewCompanyClient(testConfig(server.URL), WithHTTPClient(server.Client()))

	first, err := client.Points(context.Background(), []string{"AAPL"}, []string{"price"}, Date{})
	require.NoError(t, err)
	second, err := client.Points(context.Background(), []string{"AAPL"}, []string{"price"}, Date{})
	require.NoError(t, err)

	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestIndicatorClient(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	doer := &recordingDoer{}
	client := NewIndicatorClient(Config{APIKey: "api_key"}, WithHTTPClient(doer))

	_, err := client.Points(ctx, []string{"I:USGDP"}, PeriodsAgo(-1))
	require.NoError(t, err)
	_, err = client.Series(ctx, []string{"I:USGDP", "I:USCPI"}, SeriesOptions{ResampleFrequency: "yearly"})
	require.NoError(t, err)
	_, err = client.Info(ctx, []string{"I:USGDP"}, []string{"name"})
	require.NoError(t, err)
	_, err = client.List(ctx, ListOptions{Page: 2, FilterName: "region", FilterValue: "USA"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://ycharts.com/api/v3/indicators/I:USGDP/points?date=-1",
		"https://ycharts.com/api/v3/indicators/I:USGDP,I:USCPI/series?resample_frequency=yearly",
		"https://ycharts.com/api/v3/indicators/I:USGDP/info/name",
		"https://ycharts.com/api/v3/indicators?page=2&region=USA",
	}, doer.calls())
}

func TestClient_SendsAuthHeader(t *testing.T) {
	t.Parallel()

	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-YCHARTSAUTHORIZATION")
		_, _ = w.Write([]byte(`{"meta":{"status":"ok"},"response":[]}`))
	}))
	defer server.Close()

	cfg := Config{APIKey: "secret-key", BaseURL: server.URL + "/", APIVersion: "/v3/"}
	_, err := NewMutualFundClient(cfg, WithHTTPClient(server.Client())).List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "secret-key", got)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	client := New(Config{APIKey: "k"}, Companies)

	assert.Equal(t, DefaultBaseURL, client.cfg.BaseURL)
	assert.Equal(t, DefaultAPIVersion, client.cfg.APIVersion)
	assert.NotNil(t, client.doer)
	assert.NotNil(t, client.logger)
	assert.Equal(t, Companies.Path, client.Resource().Path)
}
