package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const schema = `
CREATE TABLE jobs_job (
	id uuid PRIMARY KEY,
	task text NOT NULL
);
CREATE TABLE jobs_run (
	id uuid PRIMARY KEY,
	job_id uuid NOT NULL REFERENCES jobs_job(id),
	parent_run_id uuid NULL,
	title text NULL,
	started_at timestamp NULL,
	finished_at timestamp NULL,
	status varchar(1) NULL,
	message text NULL
);`

const seed = `
INSERT INTO jobs_job (id, task) VALUES
	('11111111-1111-1111-1111-111111111111', 'process_inspire'),
	('22222222-2222-2222-2222-222222222222', 'other_task');
INSERT INTO jobs_run (id, job_id, parent_run_id, title, started_at, finished_at, status) VALUES
	('aaaaaaaa-0000-0000-0000-000000000001', '11111111-1111-1111-1111-111111111111', NULL, NULL, '2024-01-01 00:00:00', '2024-01-01 01:00:00', 'S'),
	('aaaaaaaa-0000-0000-0000-000000000002', '11111111-1111-1111-1111-111111111111', NULL, 'Latest', '2024-02-01 00:00:00.5', NULL, 'R'),
	('aaaaaaaa-0000-0000-0000-000000000003', '11111111-1111-1111-1111-111111111111', 'aaaaaaaa-0000-0000-0000-000000000002', NULL, '2024-02-01 00:01:00', NULL, 'R'),
	('aaaaaaaa-0000-0000-0000-000000000004', '11111111-1111-1111-1111-111111111111', NULL, NULL, NULL, NULL, 'Q'),
	('aaaaaaaa-0000-0000-0000-000000000005', '22222222-2222-2222-2222-222222222222', NULL, NULL, '2024-03-01 00:00:00', NULL, 'R');`

func TestIntegrationPostgresStore(t *testing.T) {
	if os.Getenv("HARVESTER_INTEGRATION") == "" {
		t.Skip("Set HARVESTER_INTEGRATION=1 to run integration tests")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "harvester",
				"POSTGRES_PASSWORD": "harvester",
				"POSTGRES_DB":       "harvester",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://harvester:harvester@%s:%s/harvester?sslmode=disable", host, port.Port())

	pool, err := Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, schema)
	require.NoError(t, err)

	empty, err := NewPostgresStore(pool, "process_inspire").RecentRuns(ctx, 20)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = pool.Exec(ctx, seed)
	require.NoError(t, err)

	runs, err := NewPostgresStore(pool, "process_inspire").RecentRuns(ctx, 20)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, "aaaaaaaa-0000-0000-0000-000000000002", runs[0].ID)
	assert.Equal(t, "Latest", runs[0].Title)
	assert.Equal(t, "2024-02-01T00:00:00.500000", string(runs[0].StartedAt))
	assert.True(t, runs[0].InProgress())

	assert.Equal(t, "Run aaaaaaaa-0000-0000-0000-000000000001", runs[1].Title)
	assert.Equal(t, "2024-01-01T01:00:00", string(runs[1].FinishedAt))

	missing, err := NewPostgresStore(pool, "no_such_task").RecentRuns(ctx, 20)
	require.NoError(t, err)
	assert.Empty(t, missing)

	payload, err := LoadPayload(ctx, NewPostgresStore(pool, "process_inspire"), 1)
	require.NoError(t, err)
	require.Len(t, payload.Runs, 1)
	assert.Equal(t, runs[0].ID, payload.DefaultRun.ID)
}
