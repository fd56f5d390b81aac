// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/okrav/glossa/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// dateLayout is the ISO-8601 calendar date format used for scheduling
// fields. Dates stored this way compare correctly as strings, which the
// due-filter queries rely on.
const dateLayout = "2006-01-02"

// Store wraps SQLite access for vocabulary and level data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS vocab (
			word TEXT NOT NULL,
			language TEXT NOT NULL,
			translation TEXT NOT NULL,
			proficiency INTEGER NOT NULL DEFAULT 0,
			last_reviewed TEXT NOT NULL,
			next_review_date TEXT,
			PRIMARY KEY (word, language)
		);`,
		`CREATE TABLE IF NOT EXISTS user_levels (
			language TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			last_assessed TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS review_sessions (
			id TEXT PRIMARY KEY,
			language TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			forgot INTEGER NOT NULL,
			hard INTEGER NOT NULL,
			easy INTEGER NOT NULL,
			practice INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS review_log (
			session_id TEXT NOT NULL,
			word TEXT NOT NULL,
			language TEXT NOT NULL,
			outcome TEXT NOT NULL,
			old_proficiency INTEGER NOT NULL,
			new_proficiency INTEGER NOT NULL,
			reviewed_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_vocab_due ON vocab(language, next_review_date);`,
		`CREATE INDEX IF NOT EXISTS idx_review_sessions_ended_at ON review_sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_review_log_word ON review_log(language, word);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertWordIfAbsent inserts a new vocabulary item due immediately. If an
// item already exists for (word, language) nothing changes, so accumulated
// review progress survives re-extraction of the same word. The returned
// bool reports whether a new row was inserted.
func (s *Store) UpsertWordIfAbsent(ctx context.Context, word, lang, translation string, asOf time.Time) (bool, error) {
	today := asOf.Format(dateLayout)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO vocab (word, language, translation, proficiency, last_reviewed, next_review_date)
		 VALUES (?, ?, ?, 0, ?, ?)
		 ON CONFLICT (word, language) DO NOTHING`,
		word, lang, translation, today, today,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveCandidates ingests an untrusted candidate list idempotently.
// Entries with a blank word or translation are skipped rather than
// faulting the batch. Returns the words that were newly inserted.
func (s *Store) SaveCandidates(ctx context.Context, lang string, candidates []model.Candidate, asOf time.Time) ([]string, error) {
	var saved []string
	for _, c := range candidates {
		word := strings.TrimSpace(c.Word)
		translation := strings.TrimSpace(c.Translation)
		if word == "" || translation == "" {
			continue
		}
		inserted, err := s.UpsertWordIfAbsent(ctx, word, lang, translation, asOf)
		if err != nil {
			return saved, err
		}
		if inserted {
			saved = append(saved, word)
		}
	}
	return saved, nil
}

// UpdateProgress overwrites the scheduling fields for an existing item.
// A missing key is a silent no-op.
func (s *Store) UpdateProgress(ctx context.Context, word, lang string, proficiency int, nextReview time.Time, asOf time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE vocab
		 SET proficiency = ?, last_reviewed = ?, next_review_date = ?
		 WHERE word = ? AND language = ?`,
		proficiency, asOf.Format(dateLayout), nextReview.Format(dateLayout), word, lang,
	)
	return err
}

// dueFilter matches items whose next review date is unset or not after the
// given day. Dates are ISO strings, so <= compares correctly.
const dueFilter = `language = ? AND (next_review_date IS NULL OR next_review_date = '' OR next_review_date <= ?)`

// QueryDue returns up to limit due items for a language in randomized
// order. Randomization is per call so a learner with more due words than
// the limit does not keep seeing the same subset.
func (s *Store) QueryDue(ctx context.Context, lang string, asOf time.Time, limit int) ([]model.VocabItem, error) {
	query := fmt.Sprintf(`SELECT word, language, translation, proficiency, last_reviewed, next_review_date
		FROM vocab
		WHERE %s
		ORDER BY RANDOM()
		LIMIT ?`, dueFilter)
	rows, err := s.db.QueryContext(ctx, query, lang, asOf.Format(dateLayout), limit)
	if err != nil {
		return nil, err
	}
	return scanVocabRows(rows)
}

// CountDue returns the number of due items for a language.
func (s *Store) CountDue(ctx context.Context, lang string, asOf time.Time) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM vocab WHERE %s`, dueFilter)
	var count int
	if err := s.db.QueryRowContext(ctx, query, lang, asOf.Format(dateLayout)).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SampleAny returns a random sample of items regardless of due dates,
// for supplementary practice when nothing is due.
func (s *Store) SampleAny(ctx context.Context, lang string, limit int) ([]model.VocabItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, language, translation, proficiency, last_reviewed, next_review_date
		 FROM vocab
		 WHERE language = ?
		 ORDER BY RANDOM()
		 LIMIT ?`, lang, limit)
	if err != nil {
		return nil, err
	}
	return scanVocabRows(rows)
}

// ListWords returns all vocabulary for a language ordered by word.
func (s *Store) ListWords(ctx context.Context, lang string) ([]model.VocabItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT word, language, translation, proficiency, last_reviewed, next_review_date
		 FROM vocab
		 WHERE language = ?
		 ORDER BY word ASC`, lang)
	if err != nil {
		return nil, err
	}
	return scanVocabRows(rows)
}

func scanVocabRows(rows *sql.Rows) ([]model.VocabItem, error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var items []model.VocabItem
	for rows.Next() {
		var item model.VocabItem
		var lastReviewed string
		var nextReview sql.NullString
		if err := rows.Scan(&item.Word, &item.Language, &item.Translation, &item.Proficiency, &lastReviewed, &nextReview); err != nil {
			return nil, err
		}
		parsed, err := time.ParseInLocation(dateLayout, lastReviewed, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid last_reviewed for %q: %w", item.Word, err)
		}
		item.LastReviewed = parsed
		if nextReview.Valid && nextReview.String != "" {
			next, err := time.ParseInLocation(dateLayout, nextReview.String, time.Local)
			if err != nil {
				return nil, fmt.Errorf("invalid next_review_date for %q: %w", item.Word, err)
			}
			item.NextReview = &next
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetLevel returns the assessed level for a language, defaulting to A1
// when the language has never been assessed.
func (s *Store) GetLevel(ctx context.Context, lang string) (model.Level, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT level FROM user_levels WHERE language = ?`, lang).Scan(&raw)
	if err == sql.ErrNoRows {
		return model.DefaultLevel, nil
	}
	if err != nil {
		return "", err
	}
	level, err := model.ParseLevel(raw)
	if err != nil {
		return "", fmt.Errorf("stored level for %s: %w", lang, err)
	}
	return level, nil
}

// SetLevel upserts the level record for a language in place.
func (s *Store) SetLevel(ctx context.Context, lang string, level model.Level, asOf time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_levels (language, level, last_assessed)
		 VALUES (?, ?, ?)
		 ON CONFLICT (language) DO UPDATE SET level = excluded.level, last_assessed = excluded.last_assessed`,
		lang, string(level), asOf.Format(dateLayout),
	)
	return err
}

// InsertReviewSession stores a completed review session summary.
func (s *Store) InsertReviewSession(ctx context.Context, stats model.SessionStats) error {
	practice := 0
	if stats.Practice {
		practice = 1
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO review_sessions (id, language, started_at, ended_at, forgot, hard, easy, practice)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.ID,
		stats.Lang,
		stats.StartedAt.Format(time.RFC3339Nano),
		stats.EndedAt.Format(time.RFC3339Nano),
		stats.Forgot,
		stats.Hard,
		stats.Easy,
		practice,
	)
	return err
}

// AppendReviewLog records a single judgment.
func (s *Store) AppendReviewLog(ctx context.Context, ev model.ReviewEvent) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO review_log (session_id, word, language, outcome, old_proficiency, new_proficiency, reviewed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.SessionID,
		ev.Word,
		ev.Language,
		string(ev.Outcome),
		ev.OldProficiency,
		ev.NewProficiency,
		ev.ReviewedAt.Format(time.RFC3339Nano),
	)
	return err
}

// ListReviewSessions returns session aggregates filtered by stats config.
func (s *Store) ListReviewSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Lang != "" {
		clauses = append(clauses, "language = ?")
		args = append(args, cfg.Lang)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, forgot, hard, easy, practice
		FROM review_sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		var practice int
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.Forgot, &agg.Hard, &agg.Easy, &practice); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		agg.Practice = practice != 0
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListWordAggregates joins vocabulary with review-log outcome counts.
// An empty lang matches every language.
func (s *Store) ListWordAggregates(ctx context.Context, lang string) ([]model.WordAggregate, error) {
	clause := "1=1"
	args := []any{}
	if lang != "" {
		clause = "v.language = ?"
		args = append(args, lang)
	}
	query := fmt.Sprintf(`SELECT v.word, v.translation, v.proficiency,
			COALESCE(SUM(CASE WHEN l.outcome = 'forgot' THEN 1 ELSE 0 END), 0) AS forgot,
			COALESCE(SUM(CASE WHEN l.outcome = 'hard' THEN 1 ELSE 0 END), 0) AS hard,
			COALESCE(SUM(CASE WHEN l.outcome = 'easy' THEN 1 ELSE 0 END), 0) AS easy
		 FROM vocab v
		 LEFT JOIN review_log l ON l.word = v.word AND l.language = v.language
		 WHERE %s
		 GROUP BY v.word, v.language, v.translation, v.proficiency
		 ORDER BY v.word ASC`, clause)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var aggs []model.WordAggregate
	for rows.Next() {
		var agg model.WordAggregate
		if err := rows.Scan(&agg.Word, &agg.Translation, &agg.Proficiency, &agg.Forgot, &agg.Hard, &agg.Easy); err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}
