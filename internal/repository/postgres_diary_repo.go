package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ansmoon/bbogle/internal/model"
)

// PostgresDiaryRepo 는 PostgreSQL을 사용한 개발일지 리포지토리.
type PostgresDiaryRepo struct {
	db *sql.DB
}

// NewPostgresDiaryRepo 는 PostgresDiaryRepo를 생성한다.
func NewPostgresDiaryRepo(db *sql.DB) *PostgresDiaryRepo {
	return &PostgresDiaryRepo{db: db}
}

// Create 는 개발일지와 답변들을 동일 트랜잭션으로 생성한다.
func (r *PostgresDiaryRepo) Create(ctx context.Context, diary *model.Diary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO diaries (project_id, title)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		diary.ProjectID, diary.Title,
	).Scan(&diary.ID, &diary.CreatedAt, &diary.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert diary: %w", err)
	}

	for i := range diary.Answers {
		answer := &diary.Answers[i]
		answer.DiaryID = diary.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO answers (diary_id, question_id, answer)
			 VALUES ($1, $2, $3)
			 RETURNING id`,
			answer.DiaryID, answer.QuestionID, answer.Answer,
		).Scan(&answer.ID)
		if err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID 는 지정 ID의 개발일지를 답변들과 함께 조회한다. 없으면 nil을 반환한다.
func (r *PostgresDiaryRepo) FindByID(ctx context.Context, id int) (*model.Diary, error) {
	diary := &model.Diary{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, project_id, title, created_at, updated_at FROM diaries WHERE id = $1`,
		id,
	).Scan(&diary.ID, &diary.ProjectID, &diary.Title, &diary.CreatedAt, &diary.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find diary by ID: %w", err)
	}

	answers, err := r.listAnswers(ctx, diary.ID)
	if err != nil {
		return nil, err
	}
	diary.Answers = answers

	return diary, nil
}

// ListByProjectID 는 프로젝트의 개발일지를 최신 작성순으로 반환한다.
func (r *PostgresDiaryRepo) ListByProjectID(ctx context.Context, projectID int) ([]*model.Diary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, project_id, title, created_at, updated_at
		 FROM diaries WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diaries: %w", err)
	}
	defer rows.Close()

	var diaries []*model.Diary
	for rows.Next() {
		diary := &model.Diary{}
		if err := rows.Scan(&diary.ID, &diary.ProjectID, &diary.Title,
			&diary.CreatedAt, &diary.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan diary: %w", err)
		}
		diaries = append(diaries, diary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate diaries: %w", err)
	}

	for _, diary := range diaries {
		answers, err := r.listAnswers(ctx, diary.ID)
		if err != nil {
			return nil, err
		}
		diary.Answers = answers
	}

	return diaries, nil
}

// Update 는 개발일지 제목과 답변들을 동일 트랜잭션으로 갱신한다.
// 답변은 전체 삭제 후 재삽입으로 갱신한다.
func (r *PostgresDiaryRepo) Update(ctx context.Context, diary *model.Diary) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE diaries SET title = $1, updated_at = now() WHERE id = $2`,
		diary.Title, diary.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update diary: %w", err)
	}
	if err := requireRowsAffected(result, "diary", diary.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE diary_id = $1`, diary.ID); err != nil {
		return fmt.Errorf("failed to clear answers: %w", err)
	}

	for i := range diary.Answers {
		answer := &diary.Answers[i]
		answer.DiaryID = diary.ID
		err := tx.QueryRowContext(ctx,
			`INSERT INTO answers (diary_id, question_id, answer)
			 VALUES ($1, $2, $3)
			 RETURNING id`,
			answer.DiaryID, answer.QuestionID, answer.Answer,
		).Scan(&answer.ID)
		if err != nil {
			return fmt.Errorf("failed to insert answer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete 는 지정 ID의 개발일지를 삭제한다.
func (r *PostgresDiaryRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM diaries WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete diary: %w", err)
	}
	return requireRowsAffected(result, "diary", id)
}

// listAnswers 는 개발일지의 답변을 질문 ID 순으로 조회한다.
func (r *PostgresDiaryRepo) listAnswers(ctx context.Context, diaryID int) ([]model.Answer, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, diary_id, question_id, answer
		 FROM answers WHERE diary_id = $1 ORDER BY question_id`,
		diaryID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}
	defer rows.Close()

	var answers []model.Answer
	for rows.Next() {
		var answer model.Answer
		if err := rows.Scan(&answer.ID, &answer.DiaryID, &answer.QuestionID, &answer.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, answer)
	}
	return answers, rows.Err()
}

// compile-time interface check
var _ DiaryRepository = (*PostgresDiaryRepo)(nil)

// PostgresQuestionRepo 는 PostgreSQL을 사용한 질문 리포지토리.
type PostgresQuestionRepo struct {
	db *sql.DB
}

// NewPostgresQuestionRepo 는 PostgresQuestionRepo를 생성한다.
func NewPostgresQuestionRepo(db *sql.DB) *PostgresQuestionRepo {
	return &PostgresQuestionRepo{db: db}
}

// ListAll 은 전체 질문을 ID 순으로 반환한다.
func (r *PostgresQuestionRepo) ListAll(ctx context.Context) ([]*model.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, description FROM questions ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer rows.Close()

	var questions []*model.Question
	for rows.Next() {
		question := &model.Question{}
		if err := rows.Scan(&question.ID, &question.Description); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

// compile-time interface check
var _ QuestionRepository = (*PostgresQuestionRepo)(nil)
