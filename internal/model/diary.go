package model

import "time"

// Diary 는 프로젝트에 속한 하루치 개발일지를 표현한다.
// 일지는 정해진 질문(Question)에 대한 답변(Answer)들의 묶음이다.
type Diary struct {
	ID        int
	ProjectID int
	Title     string
	Answers   []Answer
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Question 은 개발일지 작성 시 제시되는 고정 질문을 표현한다.
type Question struct {
	ID          int
	Description string
}

// Answer 는 개발일지의 질문 하나에 대한 답변을 표현한다.
// 답변하지 않은 질문은 빈 문자열로 저장된다.
type Answer struct {
	ID         int
	DiaryID    int
	QuestionID int
	Answer     string
}
