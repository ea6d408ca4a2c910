package search_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"partprice/internal/adapters/search"
	"partprice/internal/domain"
	"partprice/internal/pricing"
)

const page = `<html><body>
<div class="result"><a class="result__snippet">Acme X1 for 10,50€ today</a></div>
<div class="result"><a class="result__snippet">In stock, ships <b>tomorrow</b></a></div>
<div class="result"><span class="other">12,00€</span></div>
</body></html>`

func TestClient_Search_SnippetsQueryAndHeaders(t *testing.T) {
	var gotQ, gotUA, gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQ = r.URL.Query().Get("q")
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer ts.Close()

	cl := search.New(ts.URL, time.Second)
	res := cl.Search(context.Background(), "Acme", "X1/2")
	if !res.OK() {
		t.Fatalf("unexpected failure: %v (%s)", res.Err, res.Failure)
	}
	if gotPath != "/html/" || gotQ != "Acme X1/2 price" || gotUA != "Mozilla/5.0" {
		t.Fatalf("unexpected request path=%q q=%q ua=%q", gotPath, gotQ, gotUA)
	}
	want := []string{"Acme X1 for 10,50€ today", "In stock, ships tomorrow"}
	if !reflect.DeepEqual(res.Fragments, want) {
		t.Fatalf("fragments = %q, want %q", res.Fragments, want)
	}
	if res.Status != http.StatusOK {
		t.Fatalf("status = %d", res.Status)
	}
}

func TestClient_Search_NoSnippets(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>nothing</body></html>"))
	}))
	defer ts.Close()

	res := search.New(ts.URL, time.Second).Search(context.Background(), "Acme", "X1")
	if !res.OK() || res.Fragments == nil || len(res.Fragments) != 0 {
		t.Fatalf("expected empty success, got %+v", res)
	}
}

func TestClient_Search_Timeout(t *testing.T) {
	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-done:
		}
	}))
	defer ts.Close()
	defer close(done)

	res := search.New(ts.URL, 50*time.Millisecond).Search(context.Background(), "Acme", "X1")
	if res.Failure != domain.FailureTimeout {
		t.Fatalf("expected timeout, got %s (%v)", res.Failure, res.Err)
	}
	if len(res.Fragments) != 0 {
		t.Fatalf("expected no fragments on failure")
	}
}

func TestClient_Search_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	res := search.New(ts.URL, time.Second).Search(context.Background(), "Acme", "X1")
	if res.Failure != domain.FailureStatus || res.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected status failure, got %+v", res)
	}
}

func TestClient_Search_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	base := ts.URL
	ts.Close()

	res := search.New(base, time.Second).Search(context.Background(), "Acme", "X1")
	if res.Failure != domain.FailureNetwork {
		t.Fatalf("expected network failure, got %s (%v)", res.Failure, res.Err)
	}
}

func TestClient_URL_Escapes(t *testing.T) {
	cl := search.New("https://example.test/", 0)
	got := cl.URL("Acme & Co", "X 1")
	want := "https://example.test/html/?q=Acme+%26+Co+X+1+price"
	if got != want {
		t.Fatalf("URL = %q, want %q", got, want)
	}
}

func TestSnippets_NoBreakSpaceKeepsPrice(t *testing.T) {
	frags, err := search.Snippets([]byte(`<a class="result__snippet">Acme X1 ab 19,99&nbsp;€ inkl. MwSt</a>`))
	if err != nil {
		t.Fatalf("snippets: %v", err)
	}
	if len(frags) != 1 || frags[0] != "Acme X1 ab 19,99\u00a0€ inkl. MwSt" {
		t.Fatalf("fragments = %q", frags)
	}
	got := pricing.ExtractPrices(frags)
	if len(got) != 1 || got[0].Price != 19.99 {
		t.Fatalf("prices = %+v", got)
	}
}
