package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// rewriteTransport sends every request to the test server, keeping the path.
type rewriteTransport struct {
	target *url.URL
}

func (t rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = t.target.Scheme
	r.URL.Host = t.target.Host
	r.Host = t.target.Host
	return http.DefaultTransport.RoundTrip(r)
}

func newTestScraper(t *testing.T, handler http.Handler) *Scraper {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, _ := url.Parse(srv.URL)
	return New(Config{Delay: time.Millisecond, Timeout: 5 * time.Second, Transport: rewriteTransport{target}}, zap.NewNop())
}

func TestValidateURL(t *testing.T) {
	for _, ok := range []string{
		"https://www.arabam.com/galeri/ornek",
		"http://arabam.com/x",
	} {
		_, err := ValidateURL(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{
		"",
		"ftp://www.arabam.com/x",
		"https://sahibinden.com/?ref=arabam.com",
		"https://notarabam.com/x",
		"arabam.com/galeri",
	} {
		_, err := ValidateURL(bad)
		assert.ErrorIs(t, err, ErrInvalidURL, bad)
	}
}

func TestScrapeTable(t *testing.T) {
	var requests int32
	s := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		assert.Equal(t, "https://www.arabam.com/", r.Header.Get("Referer"))
		fmt.Fprint(w, `<table><tbody>
<tr><td></td><td>Opel Corsa</td><td>1.4 Enjoy</td><td>2016</td><td>97.000 km</td><td>Siyah</td><td>540.000 TL</td></tr>
</tbody></table>`)
	}))

	res, err := s.Scrape(context.Background(), "https://www.arabam.com/galeri/test")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "Opel", res.Cars[0].Brand)
	assert.Equal(t, 97000, res.Cars[0].Km)
	assert.EqualValues(t, 1, atomic.LoadInt32(&requests))
}

func TestScrapeDetailPagesSkipsFailures(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/galeri/test", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<ul>
<li><a href="/ilan/ok/1">1</a></li>
<li><a href="/ilan/missing/2">2</a></li>
<li><a href="/ilan/noprice/3">3</a></li>
</ul>`)
	})
	mux.HandleFunc("/ilan/ok/1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h1>Volkswagen Golf 1.6 TDI</h1><span class="price">1.100.000 TL</span>
<div class="details">2018 model, 80.000 km, dizel, otomatik, gri</div>`)
	})
	mux.HandleFunc("/ilan/noprice/3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h1>Fiat Doblo</h1>`)
	})
	s := newTestScraper(t, mux)

	res, err := s.Scrape(context.Background(), "https://www.arabam.com/galeri/test")
	require.NoError(t, err)
	require.Equal(t, 1, res.Count)
	car := res.Cars[0]
	assert.Equal(t, "Volkswagen", car.Brand)
	assert.Equal(t, "Golf 1.6 TDI", car.Model)
	assert.Equal(t, 2018, car.Year)
	assert.Equal(t, 80000, car.Km)
	assert.Equal(t, "Gri", car.Color)
	assert.Len(t, res.Skipped, 2)
}

func TestScrapeGalleryError(t *testing.T) {
	s := newTestScraper(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))

	_, err := s.Scrape(context.Background(), "https://www.arabam.com/galeri/none")
	assert.ErrorIs(t, err, ErrFetch)
}

func TestScrapeHonoursCancellation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/galeri/slow", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<a href="/ilan/a/1">1</a><a href="/ilan/b/2">2</a>`)
	})
	mux.HandleFunc("/ilan/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<h1>Fiat Egea</h1><span class="price">700.000 TL</span>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	target, _ := url.Parse(srv.URL)
	s := New(Config{Delay: time.Hour, Transport: rewriteTransport{target}}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := s.Scrape(ctx, "https://www.arabam.com/galeri/slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScrapeRejectsForeignURL(t *testing.T) {
	s := New(Config{}, zap.NewNop())
	_, err := s.Scrape(context.Background(), "https://example.com/galeri")
	assert.ErrorIs(t, err, ErrInvalidURL)
}
