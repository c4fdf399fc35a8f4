package pipeline

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/cheekybits/is"
	geojson "github.com/paulmach/go.geojson"
	"go.uber.org/zap"
)

func newTestServer() *httptest.Server {
	s := NewServer(New(NewConfig(), zap.NewNop()), zap.NewNop())
	return httptest.NewServer(s.Handler())
}

func TestServerSplit(t *testing.T) {
	is := is.New(t)

	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/split", "application/geo+json", strings.NewReader(collection))
	is.NoErr(err)
	defer resp.Body.Close()

	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("X-Features-Split"), "2")
	is.Equal(resp.Header.Get("X-Features-Skipped"), "2")

	timing := resp.Header.Get("Server-Timing")
	for _, stage := range []string{"decode;", "split;", "encode;"} {
		is.True(strings.Contains(timing, stage))
	}

	data, err := io.ReadAll(resp.Body)
	is.NoErr(err)

	fc, err := geojson.UnmarshalFeatureCollection(data)
	is.NoErr(err)
	is.Equal(len(fc.Features), 5)
	is.True(fc.Features[0].PropertyMustBool(DefaultMarkProperty))
}

func TestServerErrors(t *testing.T) {
	is := is.New(t)

	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/split")
	is.NoErr(err)
	resp.Body.Close()
	is.Equal(resp.StatusCode, http.StatusMethodNotAllowed)

	resp, err = http.Post(ts.URL+"/split", "application/geo+json", strings.NewReader("{"))
	is.NoErr(err)
	resp.Body.Close()
	is.Equal(resp.StatusCode, http.StatusBadRequest)

	bad := `{"type": "FeatureCollection", "features": [
		{"type": "Feature", "properties": {}, "geometry": {"type": "Polygon", "coordinates": [[[1], [2, 3], [4, 5], [1]]]}}
	]}`
	resp, err = http.Post(ts.URL+"/split", "application/geo+json", strings.NewReader(bad))
	is.NoErr(err)
	resp.Body.Close()
	is.Equal(resp.StatusCode, http.StatusUnprocessableEntity)

	resp, err = http.Post(ts.URL+"/split", "application/geo+json", strings.NewReader(nullCollection))
	is.NoErr(err)
	resp.Body.Close()
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(resp.Header.Get("X-Features-Skipped"), "1")

	resp, err = http.Get(ts.URL + "/healthz")
	is.NoErr(err)
	resp.Body.Close()
	is.Equal(resp.StatusCode, http.StatusOK)
}

func TestServerBodyErrors(t *testing.T) {
	is := is.New(t)

	s := NewServer(New(nil, nil), nil)
	s.maxBody = 16

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/split", strings.NewReader(collection)))
	is.Equal(w.Code, http.StatusRequestEntityTooLarge)

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/split", iotest.ErrReader(errors.New("connection reset"))))
	is.Equal(w.Code, http.StatusBadRequest)
}

func TestServerHealth(t *testing.T) {
	is := is.New(t)

	ts := newTestServer()
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	is.NoErr(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	is.NoErr(err)
	is.Equal(resp.StatusCode, http.StatusOK)
	is.Equal(string(body), "ok")
}

func TestServerStop(t *testing.T) {
	is := is.New(t)

	s := NewServer(New(nil, nil), nil)
	errs := make(chan error, 1)
	go func() {
		errs <- s.Start("127.0.0.1:0")
	}()

	time.Sleep(100 * time.Millisecond)
	s.Stop()
	is.NoErr(<-errs)
}
