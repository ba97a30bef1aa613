package app

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/instsrc/internal/config"
	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/store"
	"github.com/stacklok/instsrc/internal/store/mocks"
)

// freeAddress returns a loopback address with a port that was free a moment ago
func freeAddress(t *testing.T) string {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func createTestApp(t *testing.T, st store.Store, targetRoot string) *SourceApp {
	t.Helper()
	app, err := NewSourceApp(context.Background(),
		WithConfig(&config.Config{TargetRoot: targetRoot}),
		WithAddress(freeAddress(t)),
		WithStore(st),
	)
	require.NoError(t, err)
	return app
}

func getIDs(t *testing.T, url string) []int {
	t.Helper()
	resp, err := http.Get(url) //nolint:gosec // test server on loopback
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		IDs []int `json:"ids"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.IDs
}

func TestSourceApp_StartStop(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	st := store.NewMemoryStore()
	require.NoError(t, st.Save(context.Background(), root, []store.Record{{
		URL:     "dir://" + root + "/missing-media",
		Alias:   "missing",
		Type:    "YaST",
		Enabled: true,
	}}))

	app := createTestApp(t, st, root)
	base := "http://" + app.GetHTTPServer().Addr

	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Start()
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/readiness") //nolint:gosec // test server on loopback
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	// The restored source is kept but disabled because its media is gone
	assert.Len(t, getIDs(t, base+"/v1/sources/current"), 1)
	assert.Empty(t, getIDs(t, base+"/v1/sources/current?enabled=true"))

	require.NoError(t, app.Stop(5*time.Second))

	select {
	case startErr := <-errChan:
		require.NoError(t, startErr)
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not return after Stop()")
	}

	records, err := st.Load(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "dir://"+root+"/missing-media", records[0].URL)
}

func TestSourceApp_StartRestoreFailure(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	root := t.TempDir()
	st := mocks.NewMockStore(ctrl)
	st.EXPECT().Load(gomock.Any(), root).Return(nil, errs.IO("read sources", errors.New("permission denied")))

	app := createTestApp(t, st, root)

	err := app.Start()
	require.Error(t, err)
	require.ErrorIs(t, err, errs.ErrIO)
	assert.Contains(t, err.Error(), "failed to start source manager")

	// Nothing was restored, so nothing is saved on the way out
	require.NoError(t, app.Stop(time.Second))
}

func TestSourceApp_StopIdempotent(t *testing.T) {
	t.Parallel()

	app := createTestApp(t, store.NewMemoryStore(), t.TempDir())

	require.NoError(t, app.Stop(time.Second))
	require.NoError(t, app.Stop(time.Second))
}

func TestSourceApp_StartError_AddressInUse(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { listener.Close() })

	app := createTestApp(t, store.NewMemoryStore(), t.TempDir())
	app.GetHTTPServer().Addr = listener.Addr().String()

	err = app.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP server failed")
	require.NoError(t, app.Stop(time.Second))
}
