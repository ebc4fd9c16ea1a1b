package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLStore persists quizzes and attempts in SQL (sqlite or postgres).
// Question sets and answer maps are stored as JSON columns; the schema lives
// in internal/db.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	sj, err := json.Marshal(q.Settings)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes
		(id,course_id,title,description,published,access_code,available_at,until_at,
		 time_limit_minutes,multiple_attempts,max_attempts,show_correct,questions_json,settings_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		ON CONFLICT (id) DO UPDATE SET
		 course_id=EXCLUDED.course_id, title=EXCLUDED.title, description=EXCLUDED.description,
		 published=EXCLUDED.published, access_code=EXCLUDED.access_code,
		 available_at=EXCLUDED.available_at, until_at=EXCLUDED.until_at,
		 time_limit_minutes=EXCLUDED.time_limit_minutes, multiple_attempts=EXCLUDED.multiple_attempts,
		 max_attempts=EXCLUDED.max_attempts, show_correct=EXCLUDED.show_correct,
		 questions_json=EXCLUDED.questions_json, settings_json=EXCLUDED.settings_json`,
		q.ID, q.CourseID, q.Title, q.Description, q.Published, q.AccessCode,
		unixOrNil(q.AvailableAt), unixOrNil(q.UntilAt),
		q.TimeLimitMinutes, q.MultipleAttempts, q.MaxAttempts, string(q.ShowCorrect),
		string(qj), string(sj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,course_id,title,description,published,access_code,
		available_at,until_at,time_limit_minutes,multiple_attempts,max_attempts,show_correct,
		questions_json,settings_json,created_at FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var show, qjson, sjson string
	var availAt, untilAt sql.NullInt64
	if err := row.Scan(&q.ID, &q.CourseID, &q.Title, &q.Description, &q.Published, &q.AccessCode,
		&availAt, &untilAt, &q.TimeLimitMinutes, &q.MultipleAttempts, &q.MaxAttempts, &show,
		&qjson, &sjson, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrQuizNotFound
		}
		return Quiz{}, err
	}
	q.ShowCorrect = ShowCorrectAnswers(show)
	q.AvailableAt = timeOrNil(availAt)
	q.UntilAt = timeOrNil(untilAt)
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, fmt.Errorf("decode questions for quiz %s: %w", id, err)
	}
	if sjson != "" && sjson != "null" {
		if err := json.Unmarshal([]byte(sjson), &q.Settings); err != nil {
			return Quiz{}, fmt.Errorf("decode settings for quiz %s: %w", id, err)
		}
	}
	return q, nil
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrQuizNotFound
	}
	return nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error) {
	where := []string{"1=1"}
	args := []any{}
	if opts.CourseID != "" {
		args = append(args, opts.CourseID)
		where = append(where, fmt.Sprintf("course_id=$%d", len(args)))
	}
	if opts.PublishedOnly {
		where = append(where, "published")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, opts.Offset)
	query := fmt.Sprintf(`SELECT id,course_id,title,published,available_at,until_at,questions_json
		FROM quizzes WHERE %s ORDER BY title LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), len(args)-1, len(args))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuizSummary
	for rows.Next() {
		var sum QuizSummary
		var availAt, untilAt sql.NullInt64
		var qjson string
		if err := rows.Scan(&sum.ID, &sum.CourseID, &sum.Title, &sum.Published, &availAt, &untilAt, &qjson); err != nil {
			return nil, err
		}
		sum.AvailableAt = timeOrNil(availAt)
		sum.UntilAt = timeOrNil(untilAt)
		var questions []Question
		if err := json.Unmarshal([]byte(qjson), &questions); err == nil {
			sum.QuestionCount = len(questions)
			for _, qu := range questions {
				sum.TotalPoints += qu.Points
			}
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) error {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM quizzes WHERE id=$1`, a.QuizID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrQuizNotFound
		}
		return err
	}
	// Check-then-create under the transaction; the partial unique index on
	// (quiz_id, student_id) WHERE status='in_progress' backstops races.
	var open int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM attempts WHERE quiz_id=$1 AND student_id=$2 AND status='in_progress'`,
		a.QuizID, a.StudentID).Scan(&open)
	if err == nil {
		return ErrAttemptInProgress
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = tx.ExecContext(ctx, `INSERT INTO attempts
		(id,quiz_id,student_id,status,started_at,deadline,answers_json)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.QuizID, a.StudentID, string(a.Status), a.StartedAt.Unix(), unixOrNil(a.Deadline), string(aj))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAttemptInProgress
		}
		return err
	}
	return tx.Commit()
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	return s.scanAttempt(s.db.QueryRowContext(ctx, `SELECT id,quiz_id,student_id,status,started_at,deadline,
		answers_json,submitted_at,score,graded_json FROM attempts WHERE id=$1`, id))
}

func (s *SQLStore) LatestAttempt(ctx context.Context, quizID, studentID string) (Attempt, error) {
	return s.scanAttempt(s.db.QueryRowContext(ctx, `SELECT id,quiz_id,student_id,status,started_at,deadline,
		answers_json,submitted_at,score,graded_json FROM attempts
		WHERE quiz_id=$1 AND student_id=$2 ORDER BY started_at DESC LIMIT 1`, quizID, studentID))
}

func (s *SQLStore) CountSubmitted(ctx context.Context, quizID, studentID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attempts WHERE quiz_id=$1 AND student_id=$2 AND status='submitted'`,
		quizID, studentID).Scan(&n)
	return n, err
}

func (s *SQLStore) SaveAnswers(ctx context.Context, attemptID string, answers map[string]string) error {
	a, err := s.GetAttempt(ctx, attemptID)
	if err != nil {
		return err
	}
	if a.Status != StatusInProgress {
		return ErrInvalidState
	}
	if a.Answers == nil {
		a.Answers = map[string]string{}
	}
	for k, v := range answers {
		a.Answers[k] = v
	}
	buf, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE attempts SET answers_json=$1 WHERE id=$2 AND status='in_progress'`,
		string(buf), attemptID)
	return err
}

func (s *SQLStore) FinalizeSubmission(ctx context.Context, a Attempt) error {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	gj, err := json.Marshal(a.Graded)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE attempts
		SET status='submitted', score=$1, answers_json=$2, graded_json=$3, submitted_at=$4
		WHERE id=$5 AND status='in_progress'`,
		a.Score, string(aj), string(gj), unixOrNil(a.SubmittedAt), a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Either missing or already terminal; disambiguate for the caller.
		if _, err := s.GetAttempt(ctx, a.ID); err != nil {
			return err
		}
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	where := []string{"1=1"}
	args := []any{}
	if opts.QuizID != "" {
		args = append(args, opts.QuizID)
		where = append(where, fmt.Sprintf("quiz_id=$%d", len(args)))
	}
	if opts.StudentID != "" {
		args = append(args, opts.StudentID)
		where = append(where, fmt.Sprintf("student_id=$%d", len(args)))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		where = append(where, fmt.Sprintf("status=$%d", len(args)))
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, opts.Offset)
	query := fmt.Sprintf(`SELECT id,quiz_id,student_id,status,started_at,deadline,
		answers_json,submitted_at,score,graded_json FROM attempts
		WHERE %s ORDER BY started_at DESC LIMIT $%d OFFSET $%d`,
		strings.Join(where, " AND "), len(args)-1, len(args))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		a, err := scanAttemptRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLStore) scanAttempt(row *sql.Row) (Attempt, error) {
	a, err := scanAttemptRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, err
}

func scanAttemptRow(row rowScanner) (Attempt, error) {
	var a Attempt
	var status, ajson string
	var started int64
	var deadline, submittedAt sql.NullInt64
	var score sql.NullFloat64
	var gjson sql.NullString
	if err := row.Scan(&a.ID, &a.QuizID, &a.StudentID, &status, &started, &deadline,
		&ajson, &submittedAt, &score, &gjson); err != nil {
		return Attempt{}, err
	}
	a.Status = AttemptStatus(status)
	a.StartedAt = time.Unix(started, 0).UTC()
	a.Deadline = timeOrNil(deadline)
	a.SubmittedAt = timeOrNil(submittedAt)
	if score.Valid {
		a.Score = &score.Float64
	}
	if err := json.Unmarshal([]byte(ajson), &a.Answers); err != nil || a.Answers == nil {
		a.Answers = map[string]string{}
	}
	if gjson.Valid && gjson.String != "" {
		if err := json.Unmarshal([]byte(gjson.String), &a.Graded); err != nil {
			return Attempt{}, fmt.Errorf("decode graded answers for attempt %s: %w", a.ID, err)
		}
	}
	return a, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite
		strings.Contains(msg, "duplicate key") // postgres
}
