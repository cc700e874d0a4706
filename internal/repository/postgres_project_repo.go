package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ansmoon/bbogle/internal/model"
)

// PostgresProjectRepo 는 PostgreSQL을 사용한 프로젝트 리포지토리.
// 역할/스킬 리스트는 project_roles, project_skills 테이블에 순서 보존으로 저장한다.
type PostgresProjectRepo struct {
	db *sql.DB
}

// NewPostgresProjectRepo 는 PostgresProjectRepo를 생성한다.
func NewPostgresProjectRepo(db *sql.DB) *PostgresProjectRepo {
	return &PostgresProjectRepo{db: db}
}

// Create 는 프로젝트와 역할/스킬 리스트를 동일 트랜잭션으로 생성한다.
func (r *PostgresProjectRepo) Create(ctx context.Context, project *model.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO projects
		   (user_id, title, image, description, start_date, end_date, member_count,
		    status, notification_status, notification_hour, notification_minute)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		project.UserID, project.Title, project.Image, project.Description,
		project.StartDate, project.EndDate, project.MemberCount,
		model.ProjectStatusInProgress, project.NotificationStatus,
		project.NotificationTime.Hour, project.NotificationTime.Minute,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	project.Status = model.ProjectStatusInProgress

	if err := insertProjectTags(ctx, tx, project.ID, project.Roles, project.Skills); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID 는 지정 ID의 프로젝트를 역할/스킬 리스트와 함께 조회한다. 없으면 nil을 반환한다.
func (r *PostgresProjectRepo) FindByID(ctx context.Context, id int) (*model.Project, error) {
	project := &model.Project{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, image, description, start_date, end_date, member_count,
		        status, notification_status, notification_hour, notification_minute, summary,
		        created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&project.ID, &project.UserID, &project.Title, &project.Image, &project.Description,
		&project.StartDate, &project.EndDate, &project.MemberCount, &project.Status,
		&project.NotificationStatus, &project.NotificationTime.Hour, &project.NotificationTime.Minute,
		&project.Summary, &project.CreatedAt, &project.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project by ID: %w", err)
	}

	if err := r.loadTags(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// ListByUserID 는 회원의 전체 프로젝트를 최신 생성순으로 반환한다.
func (r *PostgresProjectRepo) ListByUserID(ctx context.Context, userID int) ([]*model.Project, error) {
	return r.list(ctx,
		`SELECT id, user_id, title, image, description, start_date, end_date, member_count,
		        status, notification_status, notification_hour, notification_minute, summary,
		        created_at, updated_at
		 FROM projects WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

// ListInProgressByUserID 는 회원의 진행중 프로젝트만 반환한다.
func (r *PostgresProjectRepo) ListInProgressByUserID(ctx context.Context, userID int) ([]*model.Project, error) {
	return r.list(ctx,
		`SELECT id, user_id, title, image, description, start_date, end_date, member_count,
		        status, notification_status, notification_hour, notification_minute, summary,
		        created_at, updated_at
		 FROM projects WHERE user_id = $1 AND status = 'in_progress' ORDER BY created_at DESC`,
		userID)
}

// ListDueForNotification 은 알림이 켜진 진행중 프로젝트 중
// 알림 시각이 지정 시/분과 일치하는 것을 반환한다.
func (r *PostgresProjectRepo) ListDueForNotification(ctx context.Context, hour, minute int) ([]*model.Project, error) {
	return r.list(ctx,
		`SELECT id, user_id, title, image, description, start_date, end_date, member_count,
		        status, notification_status, notification_hour, notification_minute, summary,
		        created_at, updated_at
		 FROM projects
		 WHERE notification_status AND status = 'in_progress'
		   AND notification_hour = $1 AND notification_minute = $2`,
		hour, minute)
}

// Update 는 프로젝트 기본 정보와 역할/스킬 리스트를 동일 트랜잭션으로 갱신한다.
func (r *PostgresProjectRepo) Update(ctx context.Context, project *model.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE projects
		 SET title = $1, image = $2, description = $3, start_date = $4, end_date = $5,
		     member_count = $6, notification_status = $7, notification_hour = $8,
		     notification_minute = $9, updated_at = now()
		 WHERE id = $10`,
		project.Title, project.Image, project.Description, project.StartDate, project.EndDate,
		project.MemberCount, project.NotificationStatus,
		project.NotificationTime.Hour, project.NotificationTime.Minute, project.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if err := requireRowsAffected(result, "project", project.ID); err != nil {
		return err
	}

	// 역할/스킬은 전체 삭제 후 재삽입으로 갱신한다
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_roles WHERE project_id = $1`, project.ID); err != nil {
		return fmt.Errorf("failed to clear project roles: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM project_skills WHERE project_id = $1`, project.ID); err != nil {
		return fmt.Errorf("failed to clear project skills: %w", err)
	}
	if err := insertProjectTags(ctx, tx, project.ID, project.Roles, project.Skills); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// End 는 프로젝트 상태를 종료로 변경하고 AI 회고 요약을 저장한다.
func (r *PostgresProjectRepo) End(ctx context.Context, id int, summary string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects
		 SET status = 'ended', summary = $1, notification_status = FALSE, updated_at = now()
		 WHERE id = $2`,
		summary, id,
	)
	if err != nil {
		return fmt.Errorf("failed to end project: %w", err)
	}
	return requireRowsAffected(result, "project", id)
}

// UpdateNotification 은 알림 ON/OFF 상태를 변경한다.
func (r *PostgresProjectRepo) UpdateNotification(ctx context.Context, id int, status bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE projects SET notification_status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update notification status: %w", err)
	}
	return requireRowsAffected(result, "project", id)
}

// Delete 는 지정 ID의 프로젝트를 삭제한다.
func (r *PostgresProjectRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return requireRowsAffected(result, "project", id)
}

// list 는 프로젝트 목록 쿼리를 실행하고 각 프로젝트에 역할/스킬을 채운다.
func (r *PostgresProjectRepo) list(ctx context.Context, query string, args ...any) ([]*model.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		project := &model.Project{}
		if err := rows.Scan(&project.ID, &project.UserID, &project.Title, &project.Image,
			&project.Description, &project.StartDate, &project.EndDate, &project.MemberCount,
			&project.Status, &project.NotificationStatus,
			&project.NotificationTime.Hour, &project.NotificationTime.Minute,
			&project.Summary, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	for _, project := range projects {
		if err := r.loadTags(ctx, project); err != nil {
			return nil, err
		}
	}

	return projects, nil
}

// loadTags 는 프로젝트의 역할/스킬 리스트를 순서대로 채운다.
func (r *PostgresProjectRepo) loadTags(ctx context.Context, project *model.Project) error {
	roles, err := r.listTags(ctx, "project_roles", project.ID)
	if err != nil {
		return err
	}
	skills, err := r.listTags(ctx, "project_skills", project.ID)
	if err != nil {
		return err
	}
	project.Roles = roles
	project.Skills = skills
	return nil
}

// listTags 는 태그 테이블에서 프로젝트의 이름 리스트를 position 순으로 조회한다.
func (r *PostgresProjectRepo) listTags(ctx context.Context, table string, projectID int) ([]string, error) {
	// table은 내부 상수("project_roles"/"project_skills")만 전달된다
	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT name FROM %s WHERE project_id = $1 ORDER BY position`, table),
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// insertProjectTags 는 역할/스킬 리스트를 position 순번과 함께 삽입한다.
func insertProjectTags(ctx context.Context, tx *sql.Tx, projectID int, roles, skills []string) error {
	for i, name := range roles {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_roles (project_id, position, name) VALUES ($1, $2, $3)`,
			projectID, i, name,
		); err != nil {
			return fmt.Errorf("failed to insert project role: %w", err)
		}
	}
	for i, name := range skills {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO project_skills (project_id, position, name) VALUES ($1, $2, $3)`,
			projectID, i, name,
		); err != nil {
			return fmt.Errorf("failed to insert project skill: %w", err)
		}
	}
	return nil
}

// compile-time interface check
var _ ProjectRepository = (*PostgresProjectRepo)(nil)
