package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/interactions-lab/robopong/pkg/gateway"
	"github.com/interactions-lab/robopong/pkg/pose"
)

// fakeDevice records the authentication-related calls made against it.
type fakeDevice struct {
	nextToken     string
	danglingToken string
	authErr       error
	releaseErr    error

	authCalls    int
	releaseCalls []string
	calls        []string
}

func (f *fakeDevice) Authenticate(_ context.Context, _ gateway.Operator) (string, error) {
	f.authCalls++
	f.calls = append(f.calls, "authenticate")
	if f.authErr != nil {
		return "", f.authErr
	}
	return fmt.Sprintf("%s-%d", f.nextToken, f.authCalls), nil
}

func (f *fakeDevice) OperatorToken(context.Context) (string, error) {
	f.calls = append(f.calls, "operator-token")
	return f.danglingToken, nil
}

func (f *fakeDevice) Release(_ context.Context, token string) error {
	f.calls = append(f.calls, "release")
	f.releaseCalls = append(f.releaseCalls, token)
	return f.releaseErr
}

func (f *fakeDevice) Pose(context.Context, string) (pose.Pose, error) {
	return pose.Pose{}, nil
}

func (f *fakeDevice) MoveTo(context.Context, string, pose.Pose, int) error { return nil }
func (f *fakeDevice) SetGripper(context.Context, string, int) error       { return nil }

func TestLoginStoresToken(t *testing.T) {
	dev := &fakeDevice{nextToken: "tok"}
	m := NewManager(dev, gateway.Operator{Name: "op"}, nil)

	require.NoError(t, m.Login(context.Background()))

	token, err := m.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.True(t, m.LoggedIn())
}

func TestLoginWhileLoggedInReleasesExactlyOnce(t *testing.T) {
	dev := &fakeDevice{nextToken: "tok"}
	m := NewManager(dev, gateway.Operator{}, nil)

	require.NoError(t, m.Login(context.Background()))
	require.NoError(t, m.Login(context.Background()))

	require.Len(t, dev.releaseCalls, 1)
	assert.Equal(t, "tok-1", dev.releaseCalls[0])

	token, err := m.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-2", token)
}

func TestLoginReleasesDanglingSession(t *testing.T) {
	dev := &fakeDevice{nextToken: "tok", danglingToken: "stale"}
	m := NewManager(dev, gateway.Operator{}, nil)

	require.NoError(t, m.Login(context.Background()))

	require.Len(t, dev.releaseCalls, 1)
	assert.Equal(t, "stale", dev.releaseCalls[0])
}

func TestLogoffWhenLoggedOutIsNoop(t *testing.T) {
	dev := &fakeDevice{}
	m := NewManager(dev, gateway.Operator{}, nil)

	require.NoError(t, m.Logoff(context.Background()))
	assert.Empty(t, dev.releaseCalls)
}

func TestLogoffSwallowsReleaseFailure(t *testing.T) {
	dev := &fakeDevice{nextToken: "tok", releaseErr: errors.New("boom")}
	m := NewManager(dev, gateway.Operator{}, nil)

	require.NoError(t, m.Login(context.Background()))
	require.NoError(t, m.Logoff(context.Background()))

	assert.False(t, m.LoggedIn())
	_, err := m.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestLoginSurfacesAuthError(t *testing.T) {
	authErr := &gateway.AuthError{Reason: "no token"}
	dev := &fakeDevice{authErr: authErr}
	m := NewManager(dev, gateway.Operator{}, nil)

	err := m.Login(context.Background())
	var got *gateway.AuthError
	require.ErrorAs(t, err, &got)
	assert.False(t, m.LoggedIn())
}

func TestTokenWhenLoggedOut(t *testing.T) {
	m := NewManager(&fakeDevice{}, gateway.Operator{}, nil)
	_, err := m.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
