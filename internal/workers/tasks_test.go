package workers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammerola/sweetshop-be/internal/core/ports"
)

type fakeClient struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeClient) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "task-1", Type: task.Type()}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnqueuer_EnqueueLowStock(t *testing.T) {
	alert := ports.LowStockAlert{ItemID: 1001, Name: "Kaju Katli", Quantity: 2, Threshold: 5}

	tests := []struct {
		name      string
		clientErr error
		wantErr   bool
		wantTasks int
	}{
		{name: "enqueues_alert", wantTasks: 1},
		{name: "duplicate_is_not_an_error", clientErr: asynq.ErrDuplicateTask},
		{name: "conflicting_id_is_not_an_error", clientErr: asynq.ErrTaskIDConflict},
		{name: "broker_failure", clientErr: errors.New("connection refused"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{err: tt.clientErr}
			e := newEnqueuer(client, 3, discard())

			err := e.EnqueueLowStock(context.Background(), alert)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), TypeLowStock)
				return
			}
			require.NoError(t, err)
			require.Len(t, client.tasks, tt.wantTasks)

			if tt.wantTasks > 0 {
				task := client.tasks[0]
				assert.Equal(t, TypeLowStock, task.Type())

				var got ports.LowStockAlert
				require.NoError(t, json.Unmarshal(task.Payload(), &got))
				assert.Equal(t, alert, got)
			}
		})
	}
}

func TestEnqueuer_EnqueueLowStock_OneAlertPerItem(t *testing.T) {
	mr := miniredis.RunT(t)
	opt := asynq.RedisClientOpt{Addr: mr.Addr()}

	client := asynq.NewClient(opt)
	t.Cleanup(func() { client.Close() })
	inspector := asynq.NewInspector(opt)
	t.Cleanup(func() { inspector.Close() })

	e := NewEnqueuer(client, 3, discard())
	ctx := context.Background()

	for _, qty := range []int{5, 4, 3} {
		alert := ports.LowStockAlert{ItemID: 1001, Name: "Kaju Katli", Quantity: qty, Threshold: 5}
		require.NoError(t, e.EnqueueLowStock(ctx, alert))
	}
	require.NoError(t, e.EnqueueLowStock(ctx, ports.LowStockAlert{ItemID: 1002, Name: "Gulab Jamun", Quantity: 1, Threshold: 5}))

	pending, err := inspector.ListPendingTasks(QueueCritical)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	ids := []string{pending[0].ID, pending[1].ID}
	assert.ElementsMatch(t, []string{LowStockTaskID(1001), LowStockTaskID(1002)}, ids)

	for _, info := range pending {
		if info.ID != LowStockTaskID(1001) {
			continue
		}
		var got ports.LowStockAlert
		require.NoError(t, json.Unmarshal(info.Payload, &got))
		assert.Equal(t, 5, got.Quantity)
	}
}

func TestEnqueuer_EnqueueBackup(t *testing.T) {
	client := &fakeClient{}
	e := newEnqueuer(client, 2, discard())

	require.NoError(t, e.EnqueueBackup(context.Background()))
	require.Len(t, client.tasks, 1)
	assert.Equal(t, TypeCatalogBackup, client.tasks[0].Type())

	client.err = errors.New("down")
	assert.Error(t, e.EnqueueBackup(context.Background()))
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		name  string
		retry int
		want  time.Duration
	}{
		{name: "first_retry", retry: 0, want: time.Second},
		{name: "third_retry", retry: 3, want: 8 * time.Second},
		{name: "capped", retry: 12, want: 10 * time.Minute},
		{name: "large_count_does_not_overflow", retry: 200, want: 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExponentialBackoff(tt.retry, nil, nil))
		})
	}
}
