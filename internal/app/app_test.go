package app_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/buildsched/internal/adapters/shell"
	"go.trai.ch/buildsched/internal/app"
	"go.trai.ch/buildsched/internal/core/domain"
	"go.trai.ch/buildsched/internal/core/ports"
	"go.trai.ch/buildsched/internal/core/ports/mocks"
	"go.trai.ch/buildsched/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

// permissiveStore wires a MockDataStore to let any single-transform,
// no-dependency build pass straight through the association/content
// bookkeeping without asserting exact call counts.
func permissiveStore(ctrl *gomock.Controller) *mocks.MockDataStore {
	store := mocks.NewMockDataStore(ctrl)
	store.EXPECT().ResolveAssociation(gomock.Any(), gomock.Any(), gomock.Any()).Return(domain.DataHash{}, false, nil).AnyTimes()
	store.EXPECT().RegisterAssociation(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	store.EXPECT().RetrieveDisabledTransformKeyHash(gomock.Any(), gomock.Any()).Return(domain.DataHash{}, false, nil).AnyTimes()
	store.EXPECT().RegisterDisabledTransformKeyHash(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	store.EXPECT().WriteData(gomock.Any(), gomock.Any()).Return(domain.DataHash{}, nil).AnyTimes()
	store.EXPECT().DoesDataExist(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	store.EXPECT().CommitChanges(gomock.Any()).Return(nil).AnyTimes()
	return store
}

func newTestApp(t *testing.T, loader ports.ConfigLoader) (*app.App, *mocks.MockDataStore) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warn(gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	mockStore := permissiveStore(ctrl)
	mockHasher := mocks.NewMockHasher(ctrl)
	mockResolver := mocks.NewMockInputResolver(ctrl)

	sched := scheduler.NewScheduler(
		mockStore, mockHasher, mockResolver,
		noopThreadPool{}, noopFarm{}, noopSnDbs{},
		mockLogger, noopTelemetry{},
	)

	executor := shell.NewExecutor(mockLogger)
	a := app.New(loader, sched, executor, mockHasher, noopThreadPool{}, noopFarm{}, noopSnDbs{})
	return a, mockStore
}

func TestApp_Build_SingleLocalTransformWithNoOutputsSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(".").Return(&ports.BuildManifest{Transforms: []ports.TransformSpec{
		{
			Name:      "noop",
			TypeName:  "noop",
			Substrate: "local",
			Config:    map[string]string{"cmd": "true"},
		},
	}}, nil)

	a, _ := newTestApp(t, mockLoader)

	status, err := a.Build(context.Background(), ".", scheduler.BuildSchedulerConfig{})
	require.NoError(t, err)
	require.Equal(t, scheduler.BuildStatusOK, status)
}

func TestApp_Build_ConfigLoaderError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(".").Return(nil, errors.New("manifest not found"))

	a, _ := newTestApp(t, mockLoader)
	_, err := a.Build(context.Background(), ".", scheduler.BuildSchedulerConfig{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load build manifest")
}

func TestApp_Build_FailedCommandReportsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLoader.EXPECT().Load(".").Return(&ports.BuildManifest{Transforms: []ports.TransformSpec{
		{
			Name:      "fails",
			TypeName:  "fails",
			Substrate: "local",
			Config:    map[string]string{"cmd": "false"},
		},
	}}, nil)

	a, _ := newTestApp(t, mockLoader)

	status, err := a.Build(context.Background(), ".", scheduler.BuildSchedulerConfig{})
	require.NoError(t, err)
	require.Equal(t, scheduler.BuildStatusErrorOccurred, status)
}

type noopThreadPool struct{}

func (noopThreadPool) Submit(context.Context, func(context.Context) (ports.ThreadPoolResult, error)) (string, error) {
	return "", nil
}

func (noopThreadPool) Poll(context.Context, string) (ports.ThreadPoolResult, bool, error) {
	return ports.ThreadPoolResult{}, false, nil
}

func (noopThreadPool) Close(context.Context) error { return nil }

type noopFarm struct{}

func (noopFarm) Submit(context.Context, ports.FarmJobSpec) (string, error) { return "", nil }

func (noopFarm) Poll(context.Context, string) (ports.FarmJobResult, bool, error) {
	return ports.FarmJobResult{}, false, nil
}

type noopSnDbs struct{}

func (noopSnDbs) Submit(context.Context, ports.SnDbsJobSpec) (string, error) { return "", nil }

func (noopSnDbs) Poll(context.Context, string) (ports.SnDbsJobResult, bool, error) {
	return ports.SnDbsJobResult{}, false, nil
}

type noopTelemetry struct{}

func (noopTelemetry) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	return ctx, noopVertex{}
}

func (noopTelemetry) Close() error { return nil }

type noopVertex struct{}

func (noopVertex) Stdout() io.Writer              { return io.Discard }
func (noopVertex) Stderr() io.Writer              { return io.Discard }
func (noopVertex) Log(domain.LogLevel, string)    {}
func (noopVertex) Complete(error)                 {}
func (noopVertex) Cached()                        {}
