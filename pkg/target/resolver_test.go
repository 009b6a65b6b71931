package target

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interactions-lab/robopong/pkg/profile"
)

type fakeDetector struct {
	detections []Detection
	err        error
}

func (f *fakeDetector) Detections(context.Context) ([]Detection, error) {
	return f.detections, f.err
}

func TestResolveConcreteTargetPassesThrough(t *testing.T) {
	t.Parallel()

	// Detector state must not matter for concrete requests.
	r := NewResolver(&fakeDetector{err: &UnavailableError{Err: errors.New("down")}})

	for _, target := range []profile.Target{profile.Cup4, profile.Kill, profile.Trick} {
		got := r.Resolve(context.Background(), For(target))
		assert.Equal(t, target, got)
	}
}

func TestResolveAutoPicksHighestConfidence(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeDetector{detections: []Detection{
		{ClassID: 4, Confidence: 0.9},
		{ClassID: 1, Confidence: 0.5},
	}})

	got := r.Resolve(context.Background(), Auto())
	assert.Equal(t, profile.Cup5, got)
}

func TestResolveAutoEmptySnapshotFallsBack(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeDetector{})
	got := r.Resolve(context.Background(), Auto())
	assert.Equal(t, profile.Cup2, got)
}

func TestResolveAutoUnavailableFallsBack(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeDetector{err: &UnavailableError{Err: errors.New("connection refused")}})
	got := r.Resolve(context.Background(), Auto())
	assert.Equal(t, profile.Cup3, got)
}

func TestResolveAutoOtherErrorFallsBack(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeDetector{err: errors.New("status 500")})
	got := r.Resolve(context.Background(), Auto())
	assert.Equal(t, profile.Cup2, got)
}

func TestResolveAutoBadClassFallsBack(t *testing.T) {
	t.Parallel()

	r := NewResolver(&fakeDetector{detections: []Detection{{ClassID: 9, Confidence: 0.8}}})
	got := r.Resolve(context.Background(), Auto())
	assert.Equal(t, profile.Cup2, got)
}

func TestClientDecodesDetections(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/detections", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"status": "ok",
			"num_detections": 2,
			"detections": [
				{"class_id": 2, "confidence": 0.91, "bbox": {"x1": 10, "y1": 20, "x2": 30, "y2": 40}, "center": {"x": 20, "y": 30}},
				{"class_id": 0, "confidence": 0.40, "bbox": {"x1": 1, "y1": 2, "x2": 3, "y2": 4}, "center": {"x": 2, "y": 3}}
			]
		}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	got, err := client.Detections(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].ClassID)
	assert.Equal(t, 0.91, got[0].Confidence)
	assert.Equal(t, 20.0, got[0].Center.X)
}

func TestClientTimeoutIsUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte(`{"detections": []}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	client.Timeout = 20 * time.Millisecond

	_, err := client.Detections(context.Background())
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestClientConnectionRefusedIsUnavailable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(server.URL)
	_, err := client.Detections(context.Background())

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestClientBadStatusIsOrdinaryError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL)
	_, err := client.Detections(context.Background())
	require.Error(t, err)

	var unavailable *UnavailableError
	assert.False(t, errors.As(err, &unavailable))
}

func TestEndToEndAutoAgainstHTTPDetector(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","detections":[{"class_id":4,"confidence":0.9},{"class_id":1,"confidence":0.5}]}`))
	}))
	t.Cleanup(server.Close)

	r := NewResolver(NewClient(server.URL))
	assert.Equal(t, profile.Cup5, r.Resolve(context.Background(), Auto()))
}
