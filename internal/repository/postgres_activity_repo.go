package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/lib/pq"
)

// PostgresActivityRepo 는 PostgreSQL을 사용한 경험 리포지토리.
// 키워드 연결은 activity_keywords 조인 테이블로 관리한다.
type PostgresActivityRepo struct {
	db *sql.DB
}

// NewPostgresActivityRepo 는 PostgresActivityRepo를 생성한다.
func NewPostgresActivityRepo(db *sql.DB) *PostgresActivityRepo {
	return &PostgresActivityRepo{db: db}
}

// Create 는 경험과 키워드 연결을 동일 트랜잭션으로 생성한다.
func (r *PostgresActivityRepo) Create(ctx context.Context, activity *model.Activity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO activities (user_id, project_id, title, content, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		activity.UserID, nullableProjectID(activity.ProjectID), activity.Title,
		activity.Content, activity.StartDate, activity.EndDate,
	).Scan(&activity.ID, &activity.CreatedAt, &activity.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	if err := insertActivityKeywords(ctx, tx, activity.ID, activity.Keywords); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID 는 지정 ID의 경험을 키워드와 함께 조회한다. 없으면 nil을 반환한다.
func (r *PostgresActivityRepo) FindByID(ctx context.Context, id int) (*model.Activity, error) {
	activity := &model.Activity{}
	var projectID sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, project_id, title, content, start_date, end_date, created_at, updated_at
		 FROM activities WHERE id = $1`,
		id,
	).Scan(&activity.ID, &activity.UserID, &projectID, &activity.Title, &activity.Content,
		&activity.StartDate, &activity.EndDate, &activity.CreatedAt, &activity.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find activity by ID: %w", err)
	}
	if projectID.Valid {
		activity.ProjectID = int(projectID.Int64)
	}

	keywords, err := r.listKeywords(ctx, activity.ID)
	if err != nil {
		return nil, err
	}
	activity.Keywords = keywords

	return activity, nil
}

// Search 는 검색 조건(검색어, 키워드 ID, 프로젝트 ID)에 맞는 회원의 경험을 반환한다.
// 조건이 모두 비어 있으면 전체 조회가 된다.
func (r *PostgresActivityRepo) Search(ctx context.Context, userID int, cond model.ActivitySearchCond) ([]*model.Activity, error) {
	query := strings.Builder{}
	query.WriteString(
		`SELECT DISTINCT a.id, a.user_id, a.project_id, a.title, a.content,
		        a.start_date, a.end_date, a.created_at, a.updated_at
		 FROM activities a`)

	args := []any{userID}
	var where []string
	where = append(where, "a.user_id = $1")

	if len(cond.Keywords) > 0 {
		query.WriteString(" JOIN activity_keywords ak ON ak.activity_id = a.id")
		args = append(args, pq.Array(cond.Keywords))
		where = append(where, fmt.Sprintf("ak.keyword_id = ANY($%d)", len(args)))
	}
	if cond.Word != "" {
		args = append(args, "%"+cond.Word+"%")
		where = append(where, fmt.Sprintf("(a.title ILIKE $%d OR a.content ILIKE $%d)", len(args), len(args)))
	}
	if len(cond.Projects) > 0 {
		args = append(args, pq.Array(cond.Projects))
		where = append(where, fmt.Sprintf("a.project_id = ANY($%d)", len(args)))
	}

	query.WriteString(" WHERE " + strings.Join(where, " AND "))
	query.WriteString(" ORDER BY a.created_at DESC, a.id DESC")

	return r.listWithKeywords(ctx, query.String(), args...)
}

// ListByProjectID 는 특정 프로젝트에 연결된 회원의 경험을 반환한다.
func (r *PostgresActivityRepo) ListByProjectID(ctx context.Context, userID, projectID int) ([]*model.Activity, error) {
	return r.listWithKeywords(ctx,
		`SELECT a.id, a.user_id, a.project_id, a.title, a.content,
		        a.start_date, a.end_date, a.created_at, a.updated_at
		 FROM activities a
		 WHERE a.user_id = $1 AND a.project_id = $2
		 ORDER BY a.created_at DESC, a.id DESC`,
		userID, projectID)
}

// Update 는 경험 정보와 키워드 연결을 동일 트랜잭션으로 갱신한다.
// 키워드 연결은 전체 삭제 후 재삽입으로 갱신한다.
func (r *PostgresActivityRepo) Update(ctx context.Context, activity *model.Activity) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE activities
		 SET title = $1, content = $2, start_date = $3, end_date = $4, project_id = $5,
		     updated_at = now()
		 WHERE id = $6`,
		activity.Title, activity.Content, activity.StartDate, activity.EndDate,
		nullableProjectID(activity.ProjectID), activity.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	if err := requireRowsAffected(result, "activity", activity.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM activity_keywords WHERE activity_id = $1`, activity.ID); err != nil {
		return fmt.Errorf("failed to clear activity keywords: %w", err)
	}
	if err := insertActivityKeywords(ctx, tx, activity.ID, activity.Keywords); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Delete 는 지정 ID의 경험을 삭제한다.
func (r *PostgresActivityRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM activities WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return requireRowsAffected(result, "activity", id)
}

// listWithKeywords 는 경험 목록 쿼리를 실행하고 각 경험에 키워드를 채운다.
func (r *PostgresActivityRepo) listWithKeywords(ctx context.Context, query string, args ...any) ([]*model.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []*model.Activity
	for rows.Next() {
		activity := &model.Activity{}
		var projectID sql.NullInt64
		if err := rows.Scan(&activity.ID, &activity.UserID, &projectID, &activity.Title,
			&activity.Content, &activity.StartDate, &activity.EndDate,
			&activity.CreatedAt, &activity.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if projectID.Valid {
			activity.ProjectID = int(projectID.Int64)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	for _, activity := range activities {
		keywords, err := r.listKeywords(ctx, activity.ID)
		if err != nil {
			return nil, err
		}
		activity.Keywords = keywords
	}

	return activities, nil
}

// listKeywords 는 경험에 연결된 키워드를 ID 순으로 조회한다.
func (r *PostgresActivityRepo) listKeywords(ctx context.Context, activityID int) ([]model.Keyword, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT k.id, k.name, k.type
		 FROM keywords k
		 JOIN activity_keywords ak ON ak.keyword_id = k.id
		 WHERE ak.activity_id = $1
		 ORDER BY k.id`,
		activityID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity keywords: %w", err)
	}
	defer rows.Close()

	var keywords []model.Keyword
	for rows.Next() {
		var keyword model.Keyword
		if err := rows.Scan(&keyword.ID, &keyword.Name, &keyword.Type); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		keywords = append(keywords, keyword)
	}
	return keywords, rows.Err()
}

// insertActivityKeywords 는 경험-키워드 연결을 삽입한다.
func insertActivityKeywords(ctx context.Context, tx *sql.Tx, activityID int, keywords []model.Keyword) error {
	for _, keyword := range keywords {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO activity_keywords (activity_id, keyword_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			activityID, keyword.ID,
		); err != nil {
			return fmt.Errorf("failed to insert activity keyword: %w", err)
		}
	}
	return nil
}

// nullableProjectID 는 0을 NULL로 변환한다. 미연결 경험을 표현한다.
func nullableProjectID(projectID int) sql.NullInt64 {
	if projectID == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(projectID), Valid: true}
}

// compile-time interface check
var _ ActivityRepository = (*PostgresActivityRepo)(nil)

// PostgresKeywordRepo 는 PostgreSQL을 사용한 키워드 리포지토리.
type PostgresKeywordRepo struct {
	db *sql.DB
}

// NewPostgresKeywordRepo 는 PostgresKeywordRepo를 생성한다.
func NewPostgresKeywordRepo(db *sql.DB) *PostgresKeywordRepo {
	return &PostgresKeywordRepo{db: db}
}

// ListAll 은 전체 키워드를 ID 순으로 반환한다.
func (r *PostgresKeywordRepo) ListAll(ctx context.Context) ([]*model.Keyword, error) {
	return r.listBy(ctx, `SELECT id, name, type FROM keywords ORDER BY id`)
}

// FindByIDs 는 지정된 ID 집합의 키워드를 반환한다. 존재하지 않는 ID는 무시된다.
func (r *PostgresKeywordRepo) FindByIDs(ctx context.Context, ids []int) ([]*model.Keyword, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.listBy(ctx,
		`SELECT id, name, type FROM keywords WHERE id = ANY($1) ORDER BY id`,
		pq.Array(ids))
}

func (r *PostgresKeywordRepo) listBy(ctx context.Context, query string, args ...any) ([]*model.Keyword, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list keywords: %w", err)
	}
	defer rows.Close()

	var keywords []*model.Keyword
	for rows.Next() {
		keyword := &model.Keyword{}
		if err := rows.Scan(&keyword.ID, &keyword.Name, &keyword.Type); err != nil {
			return nil, fmt.Errorf("failed to scan keyword: %w", err)
		}
		keywords = append(keywords, keyword)
	}
	return keywords, rows.Err()
}

// compile-time interface check
var _ KeywordRepository = (*PostgresKeywordRepo)(nil)
