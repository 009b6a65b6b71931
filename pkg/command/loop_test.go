package command

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interactions-lab/robopong/pkg/engine"
	"github.com/interactions-lab/robopong/pkg/gateway"
	"github.com/interactions-lab/robopong/pkg/history"
	"github.com/interactions-lab/robopong/pkg/pose"
	"github.com/interactions-lab/robopong/pkg/profile"
	"github.com/interactions-lab/robopong/pkg/session"
	"github.com/interactions-lab/robopong/pkg/target"
)

type fakeDevice struct {
	current  pose.Pose
	moves    int
	grips    int
	releases int
}

func (f *fakeDevice) Authenticate(context.Context, gateway.Operator) (string, error) {
	return "tok", nil
}

func (f *fakeDevice) OperatorToken(context.Context) (string, error) { return "", nil }

func (f *fakeDevice) Release(context.Context, string) error {
	f.releases++
	return nil
}

func (f *fakeDevice) Pose(context.Context, string) (pose.Pose, error) {
	return f.current, nil
}

func (f *fakeDevice) MoveTo(_ context.Context, _ string, target pose.Pose, _ int) error {
	f.moves++
	f.current = target
	return nil
}

func (f *fakeDevice) SetGripper(context.Context, string, int) error {
	f.grips++
	return nil
}

type fakeDetector struct {
	detections []target.Detection
	err        error
}

func (f *fakeDetector) Detections(context.Context) ([]target.Detection, error) {
	return f.detections, f.err
}

func newTestLoop(t *testing.T, dev *fakeDevice, det target.Detector) (*Loop, *history.Store) {
	t.Helper()
	dev.current = pose.Home

	sess := session.NewManager(dev, gateway.Operator{Name: "test"}, nil)
	eng := engine.New(engine.Config{
		Device:  dev,
		Session: sess,
		Clock:   func(context.Context, time.Duration) error { return nil },
	})

	store, err := history.Open(filepath.Join(t.TempDir(), "shots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return NewLoop(Config{
		Session:  sess,
		Engine:   eng,
		Resolver: target.NewResolver(det),
		Store:    store,
	}), store
}

// drive runs the loop over the given commands and collects one result per
// command, in order.
func drive(t *testing.T, loop *Loop, cmds ...Command) []Result {
	t.Helper()

	in := make(chan Command, len(cmds))
	for _, c := range cmds {
		in <- c
	}

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background(), in) }()

	var results []Result
	for i := 0; i < len(cmds); i++ {
		select {
		case r := <-loop.Results():
			results = append(results, r)
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for result %d", i)
		}
	}

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after terminate")
	}
	return results
}

func TestLoopExecutesCommandsInOrder(t *testing.T) {
	dev := &fakeDevice{}
	det := &fakeDetector{detections: []target.Detection{{ClassID: 4, Confidence: 0.9}}}
	loop, store := newTestLoop(t, dev, det)

	results := drive(t, loop,
		Login{}, Start{}, Shoot{Request: target.Auto()}, Terminate{},
	)

	require.Len(t, results, 4)
	for i, want := range []string{"login", "start", "shoot auto", "terminate"} {
		assert.Equal(t, want, results[i].Cmd.String())
		assert.NoError(t, results[i].Err)
	}
	assert.Equal(t, profile.Cup5, results[2].Target)

	// Shot landed in the history log.
	recs, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "cup_5", recs[0].Target)
	assert.Equal(t, "ok", recs[0].Outcome)
}

func TestLoopShootBeforeStartReportsNotReady(t *testing.T) {
	dev := &fakeDevice{}
	loop, _ := newTestLoop(t, dev, &fakeDetector{})

	results := drive(t, loop,
		Login{}, Shoot{Request: target.For(profile.Cup1)}, Terminate{},
	)

	require.Len(t, results, 3)
	assert.ErrorIs(t, results[1].Err, engine.ErrNotReady)
	assert.Equal(t, profile.Cup1, results[1].Target)
}

func TestLoopShootWithoutLoginReportsNotAuthenticated(t *testing.T) {
	loop, _ := newTestLoop(t, &fakeDevice{}, &fakeDetector{})

	results := drive(t, loop, Start{}, Terminate{})
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, session.ErrNotAuthenticated)
}

func TestLoopDetectorDownFallsBackToCup3(t *testing.T) {
	dev := &fakeDevice{}
	det := &fakeDetector{err: &target.UnavailableError{Err: context.DeadlineExceeded}}
	loop, _ := newTestLoop(t, dev, det)

	results := drive(t, loop,
		Login{}, Start{}, Shoot{Request: target.Auto()}, Terminate{},
	)
	assert.Equal(t, profile.Cup3, results[2].Target)
	assert.NoError(t, results[2].Err)
}

func TestLoopReleasesSessionOnTerminate(t *testing.T) {
	dev := &fakeDevice{}
	loop, _ := newTestLoop(t, dev, &fakeDetector{})

	drive(t, loop, Login{}, Terminate{})
	assert.Equal(t, 1, dev.releases)
}

func TestLoopStopsWhenChannelCloses(t *testing.T) {
	loop, _ := newTestLoop(t, &fakeDevice{}, &fakeDetector{})

	in := make(chan Command)
	close(in)

	err := loop.Run(context.Background(), in)
	assert.NoError(t, err)
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	loop, _ := newTestLoop(t, &fakeDevice{}, &fakeDetector{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := loop.Run(ctx, make(chan Command))
	assert.ErrorIs(t, err, context.Canceled)
}
