package engine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/resolvable"
)

func testMedia(t *testing.T, name string) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("testdata", name))
	require.NoError(t, err)
	return abs
}

func TestEnumerateProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     func(t *testing.T) string
		want    []Product
		wantErr error
	}{
		{
			name: "products file",
			url:  func(t *testing.T) string { return "dir://" + testMedia(t, "multi") },
			want: []Product{
				{Dir: "/CD1", Name: "SUSE Linux Enterprise Server 10"},
				{Dir: "/addon", Name: "SDK"},
			},
		},
		{
			name: "single product media",
			url:  func(t *testing.T) string { return testMedia(t, "single") },
			want: []Product{{Dir: RootProductDir}},
		},
		{
			name:    "unsupported scheme",
			url:     func(*testing.T) string { return "ftp://mirror/sles" },
			wantErr: errs.ErrScan,
		},
		{
			name:    "relative path",
			url:     func(*testing.T) string { return "testdata/multi" },
			wantErr: errs.ErrScan,
		},
		{
			name:    "missing media",
			url:     func(t *testing.T) string { return "file://" + filepath.Join(t.TempDir(), "gone") },
			wantErr: errs.ErrScan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewMediaEngine().EnumerateProducts(context.Background(), tt.url(t))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenSource(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := NewMediaEngine()
	url := "dir://" + testMedia(t, "multi")

	h, err := e.OpenSource(ctx, url, "CD1")
	require.NoError(t, err)
	assert.Equal(t, "/CD1", h.ProductDir)
	assert.Equal(t, "YaST", h.Type)
	assert.False(t, h.Autorefresh)
	assert.Equal(t, "SUSE-Linux-Enterprise-Server", h.Product.Name)

	h, err = e.OpenSource(ctx, url, "/addon")
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceType, h.Type)
	assert.True(t, h.Autorefresh)

	_, err = e.OpenSource(ctx, url, "/")
	require.ErrorIs(t, err, errs.ErrScan)
	assert.Contains(t, err.Error(), "no product descriptor found")

	_, err = e.OpenSource(ctx, "dir://"+testMedia(t, "broken"), "/missing")
	require.ErrorIs(t, err, errs.ErrScan)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = e.OpenSource(canceled, url, "/CD1")
	require.ErrorIs(t, err, context.Canceled)
}

func TestResolvables(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := NewMediaEngine()

	h, err := e.OpenSource(ctx, "dir://"+testMedia(t, "multi"), "/CD1")
	require.NoError(t, err)

	items, err := e.Resolvables(ctx, h)
	require.NoError(t, err)
	require.Len(t, items, 6)

	byName := map[string]*resolvable.Resolvable{}
	for _, item := range items {
		require.NoError(t, item.Validate())
		byName[item.Kind.String()+"/"+item.Name] = item
	}

	product := byName["product/SUSE-Linux-Enterprise-Server"]
	require.NotNil(t, product)
	assert.Equal(t, resolvable.ProductDetails{Vendor: "SUSE LINUX Products GmbH", Label: "SUSE Linux Enterprise Server 10"}, product.Details)

	devel := byName["selection/devel"]
	require.NotNil(t, devel)
	assert.Equal(t, []string{"gcc", "gcc-doc-de", "make"}, devel.Packages().For("de"))
	assert.Equal(t, "", devel.Category())

	base := byName["pattern/base"]
	require.NotNil(t, base)
	assert.True(t, base.Installed)
	assert.Equal(t, resolvable.PatternBaseCategory, base.Category())

	x11, ok := byName["pattern/x11"].Details.(resolvable.PatternDetails)
	require.True(t, ok)
	assert.False(t, x11.Visible)
	assert.Equal(t, "x11.sh", x11.Script)

	assert.NotNil(t, byName["package/gcc"])

	_, err = e.Resolvables(ctx, &Handle{URL: "dir:///x"})
	require.ErrorIs(t, err, errs.ErrScan)
}
