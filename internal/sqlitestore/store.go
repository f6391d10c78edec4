// Package sqlitestore keeps a SQLite copy of every extracted question bank,
// one row per run, topic and question.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"oposiciones/quiz-extract/internal/fileutils"
	"oposiciones/quiz-extract/internal/models"
)

// Store manages the question bank SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if err := fileutils.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			topics_processed INTEGER DEFAULT 0,
			topics_skipped INTEGER DEFAULT 0,
			pdfs_processed INTEGER DEFAULT 0,
			questions INTEGER DEFAULT 0,
			warnings INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS topics (
			run_id TEXT NOT NULL REFERENCES runs(id),
			tema INTEGER NOT NULL,
			module TEXT NOT NULL,
			total_questions INTEGER NOT NULL,
			PRIMARY KEY (run_id, tema)
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			run_id TEXT NOT NULL,
			tema INTEGER NOT NULL,
			id TEXT NOT NULL,
			superblock TEXT NOT NULL,
			subblock TEXT NOT NULL,
			question TEXT NOT NULL,
			options TEXT NOT NULL,
			correct_answer INTEGER NOT NULL,
			explanation TEXT,
			PRIMARY KEY (run_id, id),
			FOREIGN KEY (run_id, tema) REFERENCES topics(run_id, tema)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_superblock ON questions(superblock)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET started_at=excluded.started_at`,
		runID, startedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// SaveTopic stores the bundle of one topic, replacing any earlier copy for
// the same run.
func (s *Store) SaveTopic(ctx context.Context, runID string, tema int, bundle *models.TopicBundle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE run_id = ? AND tema = ?`, runID, tema); err != nil {
		return fmt.Errorf("deleting old questions: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO topics (run_id, tema, module, total_questions) VALUES (?, ?, ?, ?)
		 ON CONFLICT(run_id, tema) DO UPDATE SET
			module=excluded.module, total_questions=excluded.total_questions`,
		runID, tema, bundle.Module, bundle.TotalQuestions,
	)
	if err != nil {
		return fmt.Errorf("upserting topic: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO questions (run_id, tema, id, superblock, subblock, question, options, correct_answer, explanation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, q := range bundle.Questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("encoding options of %s: %w", q.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			runID, tema, q.ID, q.Superblock, q.Subblock, q.Question,
			string(optionsJSON), q.CorrectAnswer, q.Explanation,
		)
		if err != nil {
			return fmt.Errorf("inserting question %s: %w", q.ID, err)
		}
	}

	return tx.Commit()
}

// FinishRun stores the final counts of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, summary *models.RunSummary, finishedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, topics_processed = ?, topics_skipped = ?,
			pdfs_processed = ?, questions = ?, warnings = ?
		 WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339Nano),
		len(summary.TopicsProcessed), len(summary.TopicsSkipped),
		summary.PDFsProcessed, summary.Questions, summary.Warnings,
		runID,
	)
	if err != nil {
		return fmt.Errorf("updating run: %w", err)
	}
	return nil
}

// Questions returns the stored questions of a topic in id order of insertion.
func (s *Store) Questions(ctx context.Context, runID string, tema int) ([]models.FormattedQuestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, superblock, subblock, question, options, correct_answer, explanation
		 FROM questions WHERE run_id = ? AND tema = ? ORDER BY rowid`,
		runID, tema,
	)
	if err != nil {
		return nil, fmt.Errorf("querying questions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.FormattedQuestion
	for rows.Next() {
		var q models.FormattedQuestion
		var optionsJSON string
		if err := rows.Scan(&q.ID, &q.Superblock, &q.Subblock, &q.Question, &optionsJSON, &q.CorrectAnswer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
			return nil, fmt.Errorf("decoding options of %s: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// RunCount returns the questions count recorded for a run, or an error if
// the run is unknown.
func (s *Store) RunCount(ctx context.Context, runID string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT questions FROM runs WHERE id = ?`, runID).Scan(&n); err != nil {
		return 0, fmt.Errorf("querying run %s: %w", runID, err)
	}
	return n, nil
}

// RunRecorder saves topic bundles under a fixed run id.
type RunRecorder struct {
	store *Store
	runID string
}

// ForRun returns a recorder bound to runID.
func (s *Store) ForRun(runID string) *RunRecorder {
	return &RunRecorder{store: s, runID: runID}
}

// SaveTopic stores bundle under the recorder's run.
func (r *RunRecorder) SaveTopic(ctx context.Context, tema int, bundle *models.TopicBundle) error {
	return r.store.SaveTopic(ctx, r.runID, tema, bundle)
}
