package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/altinukshini/harvester-reports/internal/model"
)

// ErrJobNotFound means no job runs the configured task.
var ErrJobNotFound = errors.New("harvester job not found")

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Querier is the part of *pgxpool.Pool the store uses.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// PostgresStore reads runs from the jobs tables.
type PostgresStore struct {
	db   Querier
	task string
}

func NewPostgresStore(db Querier, task string) *PostgresStore {
	return &PostgresStore{db: db, task: task}
}

// Connect opens a pool on dsn and checks it answers.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Wrap(err, "parse database url")
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return pool, nil
}

func JobQuery(task string) sq.SelectBuilder {
	return psql.Select("id::text").
		From("jobs_job").
		Where(sq.Eq{"task": task}).
		Limit(1)
}

func RunsQuery(jobID string, limit int) sq.SelectBuilder {
	return psql.Select("id::text", "title", "started_at", "finished_at", "status::text", "message").
		From("jobs_run").
		Where(sq.Eq{"job_id": jobID, "parent_run_id": nil}).
		Where(sq.NotEq{"started_at": nil}).
		OrderBy("started_at DESC").
		Limit(uint64(limit))
}

func (s *PostgresStore) jobID(ctx context.Context) (string, error) {
	stmt, args, err := JobQuery(s.task).ToSql()
	if err != nil {
		return "", errors.Wrap(err, "build job query")
	}
	var id string
	if err := s.db.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.Wrapf(ErrJobNotFound, "task %q", s.task)
		}
		return "", errors.Wrap(err, "query job")
	}
	return id, nil
}

// RecentRuns returns an empty list when the job does not exist.
func (s *PostgresStore) RecentRuns(ctx context.Context, limit int) ([]model.Run, error) {
	jobID, err := s.jobID(ctx)
	if errors.Is(err, ErrJobNotFound) {
		log.Warn().Str("task", s.task).Msg("store: no harvester job")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	stmt, args, err := RunsQuery(jobID, limit).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build runs query")
	}
	rows, err := s.db.Query(ctx, stmt, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var (
			id                string
			title, status     *string
			message           *string
			started, finished *time.Time
		)
		if err := rows.Scan(&id, &title, &started, &finished, &status, &message); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, runFromRow(id, title, started, finished, status, message))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate runs")
	}
	return runs, nil
}

func runFromRow(id string, title *string, started, finished *time.Time, status, message *string) model.Run {
	r := model.Run{ID: id, Title: fmt.Sprintf("Run %s", id)}
	if title != nil && *title != "" {
		r.Title = *title
	}
	if started != nil {
		r.StartedAt = model.ISOTimestamp(*started)
	}
	if finished != nil {
		r.FinishedAt = model.ISOTimestamp(*finished)
	}
	if status != nil {
		r.Status = model.RunStatus(*status)
	}
	if message != nil {
		r.Message = *message
	}
	return r
}
