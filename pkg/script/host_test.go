package script

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexdb/vex/pkg/core"
	"github.com/vexdb/vex/pkg/hosted"
)

func newTestStore(t *testing.T) *core.VectorStore {
	t.Helper()
	store, err := core.New(filepath.Join(t.TempDir(), "vex.db"), 3)
	require.NoError(t, err)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { store.Close() })

	for i, v := range [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	} {
		require.NoError(t, store.Upsert(context.Background(), &core.Embedding{
			ID:     fmt.Sprintf("v%d", i),
			Vector: v,
		}))
	}
	return store
}

func newTestHost(t *testing.T) *Host {
	t.Helper()
	host, err := NewHost(newTestStore(t), nil)
	require.NoError(t, err)
	return host
}

func TestRunValidation(t *testing.T) {
	host := newTestHost(t)

	_, err := host.Run(context.Background(), `
import (
	"vex/boundary"
	"vex/hosted"
)

boundary.ParseInts(hosted.NewArrayList(
	hosted.NewInteger(1),
	hosted.NewInteger(2),
	hosted.NewInteger(3),
))
boundary.ParseIntsOpt(hosted.OptionalEmpty())
boundary.ParseLongs(hosted.NewArrayList(hosted.NewLong(1)))
`)
	require.NoError(t, err)
}

func TestRunExceptionSurfaces(t *testing.T) {
	host := newTestHost(t)

	_, err := host.Run(context.Background(), `
import "vex/boundary"

boundary.ParseInts(nil)
`)
	require.Error(t, err)

	var exc *hosted.Exception
	require.ErrorAs(t, err, &exc)
	assert.Equal(t, hosted.ExNullPointer, exc.Name)
}

func TestRunScriptRecoversException(t *testing.T) {
	host := newTestHost(t)

	got, err := host.Run(context.Background(), `
import (
	"vex/boundary"
	"vex/hosted"
)

func tryParse() (caught string) {
	defer func() {
		if r := recover(); r != nil {
			caught = r.(*hosted.Exception).Name
		}
	}()
	boundary.ParseLongs(hosted.NewArrayList(hosted.NewString("not a long")))
	return ""
}

tryParse()
`)
	require.NoError(t, err)
	assert.Equal(t, hosted.ExRuntime, got)
}

func TestRunSearch(t *testing.T) {
	host := newTestHost(t)

	got, err := host.Run(context.Background(), `
import (
	"vex/boundary"
	"vex/hosted"
)

q := hosted.NewQueryDescriptor()
q.SetColumn("vector")
q.SetKey([]float32{1, 0, 0})
q.SetK(2)
q.SetDistanceType("cosine")
boundary.SearchWithQuery(hosted.OptionalOf(q))
`)
	require.NoError(t, err)
	assert.Equal(t, int32(2), got)
}

func TestRunSearchAbsentQuery(t *testing.T) {
	host := newTestHost(t)

	got, err := host.Run(context.Background(), `
import (
	"vex/boundary"
	"vex/hosted"
)

boundary.SearchWithQuery(hosted.OptionalEmpty())
`)
	require.NoError(t, err)
	assert.Equal(t, int32(0), got)
}

func TestRunBuildIndex(t *testing.T) {
	store := newTestStore(t)
	for i := 0; i < 40; i++ {
		require.NoError(t, store.Upsert(context.Background(), &core.Embedding{
			Vector: []float32{float32(i), float32(i % 7), float32(i % 3)},
		}))
	}
	host, err := NewHost(store, nil)
	require.NoError(t, err)

	_, err = host.Run(context.Background(), `
import (
	"vex/boundary"
	"vex/hosted"
)

p := hosted.NewIndexParamsDescriptor()
p.SetMetricType("l2")
p.SetNumPartitions(4)
p.SetMaxIterations(10)
boundary.BuildIndexWithParams(p)
`)
	require.NoError(t, err)
	assert.True(t, store.HasIndex())
}

func TestRunBadQueryThrows(t *testing.T) {
	host := newTestHost(t)

	_, err := host.Run(context.Background(), `
import (
	"vex/boundary"
	"vex/hosted"
)

q := hosted.NewQueryDescriptor()
q.SetColumn("vector")
q.SetKey([]float32{1, 0, 0})
q.SetK(1)
q.SetRefineFactor(-2)
boundary.SearchWithQuery(hosted.OptionalOf(q))
`)
	var exc *hosted.Exception
	require.ErrorAs(t, err, &exc)
	assert.Equal(t, hosted.ExIllegalArgument, exc.Name)
}

func TestSessionIDs(t *testing.T) {
	store := newTestStore(t)
	a, err := NewHost(store, nil)
	require.NoError(t, err)
	b, err := NewHost(store, nil)
	require.NoError(t, err)

	assert.NotEmpty(t, a.Session())
	assert.NotEqual(t, a.Session(), b.Session())
}
