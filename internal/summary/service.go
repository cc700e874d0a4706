package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/ansmoon/bbogle/internal/model"
	"github.com/ansmoon/bbogle/internal/repository"
)

// JobPublisher 는 작업 발행 인터페이스. Publisher가 구현한다.
type JobPublisher interface {
	PublishSummary(ctx context.Context, req SummaryRequest) (string, error)
	PublishRetrospective(ctx context.Context, req RetrospectiveRequest) (string, error)
	PublishExperience(ctx context.Context, req ExperienceRequest) (string, error)
}

// ResultGetter 는 작업 결과의 조회 인터페이스. ResultStore가 구현한다.
type ResultGetter interface {
	Get(ctx context.Context, jobID string) ([]byte, error)
}

// JobService 는 AI 작업 요청의 서비스 레이어.
// 도메인 데이터를 작업 요청 본문으로 조립해 발행하고, 결과 폴링을 제공한다.
type JobService struct {
	publisher   JobPublisher
	results     ResultGetter
	projectRepo repository.ProjectRepository
	diaryRepo   repository.DiaryRepository
	keywordRepo repository.KeywordRepository
}

// NewJobService 는 JobService의 새 인스턴스를 생성한다.
func NewJobService(
	publisher JobPublisher,
	results ResultGetter,
	projectRepo repository.ProjectRepository,
	diaryRepo repository.DiaryRepository,
	keywordRepo repository.KeywordRepository,
) *JobService {
	return &JobService{
		publisher:   publisher,
		results:     results,
		projectRepo: projectRepo,
		diaryRepo:   diaryRepo,
		keywordRepo: keywordRepo,
	}
}

// RequestRetrospective 는 프로젝트의 전체 개발일지로 회고 생성 작업을 발행한다.
// 발행된 작업 ID를 반환하며, 결과는 GetResult로 폴링한다.
func (s *JobService) RequestRetrospective(ctx context.Context, userID, projectID int) (string, error) {
	if _, err := s.findOwnedProject(ctx, userID, projectID); err != nil {
		return "", err
	}

	diaries, err := s.diaryRepo.ListByProjectID(ctx, projectID)
	if err != nil {
		return "", fmt.Errorf("개발일지 조회에 실패했습니다: %w", err)
	}

	logs := make([]DailyLog, len(diaries))
	for i, diary := range diaries {
		logs[i] = DailyLog{
			Title:   diary.Title,
			Content: joinAnswers(diary.Answers),
		}
	}

	return s.publisher.PublishRetrospective(ctx, RetrospectiveRequest{Data: logs})
}

// RequestExperience 는 종료된 프로젝트의 회고 요약으로 경험 추출 작업을 발행한다.
// 회고 요약이 아직 없는 프로젝트는 요청할 수 없다.
func (s *JobService) RequestExperience(ctx context.Context, userID, projectID int) (string, error) {
	project, err := s.findOwnedProject(ctx, userID, projectID)
	if err != nil {
		return "", err
	}
	if project.Summary == "" {
		return "", model.NewInvalidRequestError()
	}

	keywords, err := s.keywordRepo.ListAll(ctx)
	if err != nil {
		return "", fmt.Errorf("키워드 조회에 실패했습니다: %w", err)
	}

	refs := make([]KeywordRef, len(keywords))
	for i, kw := range keywords {
		refs[i] = KeywordRef{ID: kw.ID, Name: kw.Name, Type: int(kw.Type)}
	}

	return s.publisher.PublishExperience(ctx, ExperienceRequest{
		Data: ExperienceRequestData{
			RetrospectiveContent: project.Summary,
			Keywords:             refs,
		},
	})
}

// RequestDiarySummary 는 개발일지 하나의 답변들로 요약 생성 작업을 발행한다.
func (s *JobService) RequestDiarySummary(ctx context.Context, userID, diaryID int) (string, error) {
	diary, err := s.diaryRepo.FindByID(ctx, diaryID)
	if err != nil {
		return "", fmt.Errorf("개발일지 조회에 실패했습니다: %w", err)
	}
	if diary == nil {
		return "", model.NewDiaryNotFoundError(diaryID)
	}
	if _, err := s.findOwnedProject(ctx, userID, diary.ProjectID); err != nil {
		return "", model.NewDiaryNotFoundError(diaryID)
	}

	answers := make([]string, 0, len(diary.Answers))
	for _, answer := range diary.Answers {
		if answer.Answer != "" {
			answers = append(answers, answer.Answer)
		}
	}

	return s.publisher.PublishSummary(ctx, SummaryRequest{Data: answers})
}

// GetResult 는 작업 결과(JSON 원문)를 반환한다.
// 결과가 아직 없으면 ErrResultNotFound를 반환한다.
func (s *JobService) GetResult(ctx context.Context, jobID string) ([]byte, error) {
	return s.results.Get(ctx, jobID)
}

// findOwnedProject 는 프로젝트 조회와 소유권 확인을 수행한다.
func (s *JobService) findOwnedProject(ctx context.Context, userID, projectID int) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("프로젝트 조회에 실패했습니다: %w", err)
	}
	if project == nil || project.UserID != userID {
		return nil, model.NewProjectNotFoundError(projectID)
	}
	return project, nil
}

// joinAnswers 는 일지의 답변들을 하나의 본문으로 합친다.
// 빈 답변은 건너뛴다.
func joinAnswers(answers []model.Answer) string {
	parts := make([]string, 0, len(answers))
	for _, answer := range answers {
		if answer.Answer != "" {
			parts = append(parts, answer.Answer)
		}
	}
	return strings.Join(parts, "\n")
}
