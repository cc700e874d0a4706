// Package summary 는 AI 서버와의 비동기 작업 파이프라인을 제공한다.
//
// 백엔드는 RabbitMQ의 요청 큐(summaryQueue, retrospectiveQueue, experienceQueue)에
// 작업을 발행하고, AI 서버는 처리 결과를 responseQueue로 회신한다.
// 요청과 응답은 correlation id(작업 ID)로 대응된다.
package summary

// 큐 이름. AI 서버와의 계약이므로 변경 시 양쪽을 함께 바꿔야 한다.
const (
	SummaryQueue       = "summaryQueue"
	RetrospectiveQueue = "retrospectiveQueue"
	ExperienceQueue    = "experienceQueue"
	ResponseQueue      = "responseQueue"
)

// DailyLog 는 회고 생성 요청에 담기는 하루치 개발일지 내용.
type DailyLog struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// KeywordRef 는 경험 추출 요청에 담기는 키워드 참조.
type KeywordRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type int    `json:"type"`
}

// SummaryRequest 는 개발일지 요약 생성 요청의 본문.
type SummaryRequest struct {
	Data []string `json:"data"`
}

// RetrospectiveRequest 는 프로젝트 회고 생성 요청의 본문.
type RetrospectiveRequest struct {
	Data []DailyLog `json:"data"`
}

// ExperienceRequest 는 경험 추출 요청의 본문.
type ExperienceRequest struct {
	Data ExperienceRequestData `json:"data"`
}

// ExperienceRequestData 는 경험 추출의 입력: 회고 본문과 후보 키워드.
type ExperienceRequestData struct {
	RetrospectiveContent string       `json:"retrospective_content"`
	Keywords             []KeywordRef `json:"keywords"`
}
