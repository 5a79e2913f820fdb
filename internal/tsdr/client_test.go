package tsdr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const statusPayload = `{
	"trademarks": [{
		"gsList": [
			{
				"usClasses": [{"code": "100", "description": "Miscellaneous"}],
				"internationalClasses": [{"code": "025", "description": "Clothing"}],
				"description": "Shirts and hats"
			},
			{
				"usClasses": [{"code": "100", "description": "Miscellaneous"}, {"code": "101", "description": "Advertising"}],
				"internationalClasses": [{"code": "035", "description": "Advertising services"}],
				"description": "Retail store services"
			}
		],
		"status": {"filingDate": "03/18/2019"}
	}]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithURLs(srv.URL+"/status/%s", srv.URL+"/image/%s")}, opts...)
	return NewClient("test-key", opts...), srv
}

func TestFetchClasses(t *testing.T) {
	var gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("USPTO-API-KEY")
		w.Write([]byte(statusPayload))
	})

	set, err := client.FetchClasses(context.Background(), "90123456")
	if err != nil {
		t.Fatalf("FetchClasses: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if got := set.USCodes(); len(got) != 2 || got[0] != "100" || got[1] != "101" {
		t.Errorf("us codes = %v", got)
	}
	if got := set.InternationalCodes(); len(got) != 2 || got[0] != "025" || got[1] != "035" {
		t.Errorf("intl codes = %v", got)
	}
	if set.Description != "Shirts and hats | Retail store services" {
		t.Errorf("description = %q", set.Description)
	}
	if set.FilingDate != "03/18/2019" {
		t.Errorf("filing date = %q", set.FilingDate)
	}
}

func TestFetchClassesRetriesServerErrors(t *testing.T) {
	attempts := 0
	var slept []time.Duration
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(statusPayload))
	}, WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	set, err := client.FetchClasses(context.Background(), "90123456")
	if err != nil {
		t.Fatalf("FetchClasses: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Errorf("backoff = %v, want [1s 2s]", slept)
	}
	if len(set.USCodes()) != 2 {
		t.Errorf("us codes = %v", set.USCodes())
	}
}

type fakeNetError struct{ timeout bool }

func (e *fakeNetError) Error() string   { return "fake net error" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestClassifyTransport(t *testing.T) {
	cases := []struct {
		name string
		err  error
		tag  string
	}{
		{"net timeout", &fakeNetError{timeout: true}, "timeout"},
		{"deadline exceeded", context.DeadlineExceeded, "timeout"},
		{"non-timeout net error", &fakeNetError{}, "connection"},
		{"plain failure", errors.New("connection refused"), "connection"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			re := classifyTransport("90123456", c.err)
			if re.Tag != c.tag {
				t.Errorf("tag = %q, want %q", re.Tag, c.tag)
			}
			if !re.Retryable {
				t.Error("transport failures must be retryable")
			}
			if re.Serial != "90123456" {
				t.Errorf("serial = %q", re.Serial)
			}
		})
	}
}

func TestTimeoutRetriedTwiceThenSucceeds(t *testing.T) {
	attempts := 0
	var slept []time.Duration
	err := DefaultPolicy.Do(context.Background(),
		func(d time.Duration) { slept = append(slept, d) },
		func() error {
			attempts++
			if attempts < 3 {
				return classifyTransport("90123456", &fakeNetError{timeout: true})
			}
			return nil
		})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Errorf("backoff = %v, want [1s 2s]", slept)
	}
}

func TestFetchClassesRetriesConnectionErrors(t *testing.T) {
	// Closing the server before the call forces a dial failure on every
	// attempt.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var slept []time.Duration
	client := NewClient("test-key",
		WithURLs(url+"/status/%s", url+"/image/%s"),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	_, err := client.FetchClasses(context.Background(), "90123456")
	if err == nil {
		t.Fatal("expected error")
	}
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T", err)
	}
	if re.Tag != "connection" || !re.Retryable {
		t.Errorf("got tag %q retryable=%v", re.Tag, re.Retryable)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Errorf("backoff = %v, want [1s 2s]", slept)
	}
}

func TestFetchClassesNoRetryOnClientError(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}, WithSleep(func(time.Duration) { t.Error("unexpected sleep") }))

	_, err := client.FetchClasses(context.Background(), "90123456")
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T", err)
	}
	if re.Tag != "http_404" || re.Retryable {
		t.Errorf("got tag %q retryable=%v", re.Tag, re.Retryable)
	}
	if re.Serial != "90123456" {
		t.Errorf("serial = %q", re.Serial)
	}
}

func TestFetchClassesExhaustsBudget(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}, WithSleep(func(time.Duration) {}))

	_, err := client.FetchClasses(context.Background(), "90123456")
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	var re *RequestError
	if !errors.As(err, &re) || re.Tag != "http_502" {
		t.Errorf("err = %v", err)
	}
}

func TestFetchClassesMalformedPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true`))
	})
	set, err := client.FetchClasses(context.Background(), "90123456")
	if err != nil {
		t.Fatalf("FetchClasses: %v", err)
	}
	if len(set.USClasses) != 0 || len(set.InternationalClasses) != 0 || set.Description != "" {
		t.Errorf("got %+v, want empty set", set)
	}
}

func TestFetchClassesEmptyTrademarks(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trademarks": []}`))
	})
	set, err := client.FetchClasses(context.Background(), "90123456")
	if err != nil {
		t.Fatalf("FetchClasses: %v", err)
	}
	if len(set.USClasses) != 0 {
		t.Errorf("got %+v, want empty set", set)
	}
}

func TestFetchImageNotRetried(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	})
	if _, err := client.FetchImage(context.Background(), "90123456"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestPolicyContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := DefaultPolicy.Do(ctx, func(time.Duration) {}, func() error {
		t.Error("fn should not run after cancellation")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPolicyNonRetryableStopsEarly(t *testing.T) {
	calls := 0
	err := DefaultPolicy.Do(context.Background(), func(time.Duration) {}, func() error {
		calls++
		return &RequestError{Serial: "x", Tag: "http_400", Retryable: false, Err: errors.New("bad request")}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
