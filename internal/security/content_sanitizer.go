// Package security 는 애플리케이션의 보안 기능을 제공한다.
//
// ContentSanitizerService 는 회원이 작성한 개발일지 답변과 경험 내용을
// 저장 전에 새니타이즈해 XSS 등의 보안 위험으로부터 보호한다.
// bluemonday 라이브러리의 허용 리스트 기반 정책으로
// 안전한 태그와 속성만 통과시킨다.
package security

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService 는 사용자 작성 콘텐츠 새니타이즈 기능의 인터페이스.
// 개발일지 답변과 경험 내용의 저장 전에 사용된다.
type ContentSanitizerService interface {
	// Sanitize 는 콘텐츠를 새니타이즈해 안전한 HTML을 반환한다.
	// 허용 태그(p, br, a, ul, ol, li, blockquote, pre, code, strong, em)만 통과시키고
	// script, iframe, style 태그와 on* 이벤트 속성을 제거한다.
	// a 태그에는 target="_blank"와 rel="noopener noreferrer"가 자동 부여된다.
	// 빈 문자열 입력에는 빈 문자열을 반환한다.
	// 같은 입력에는 항상 같은 출력을 반환한다(멱등).
	Sanitize(raw string) string
}

// contentSanitizer 는 ContentSanitizerService의 구현.
// bluemonday 정책을 보관하며 스레드 안전하게 새니타이즈한다.
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer 는 ContentSanitizerService의 새 인스턴스를 생성한다.
// 초기화 시 bluemonday 커스텀 정책을 구축한다.
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	// 허용 태그(속성 없는 단순 태그)
	// script, iframe, style 등은 허용 리스트에 넣지 않아 자동으로 제거된다
	// on* 이벤트 속성은 bluemonday 기본값으로 허용되지 않는다
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	// a 태그: href만 허용하고 외부 링크 속성을 강제 부여
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize 는 콘텐츠를 새니타이즈해 안전한 HTML을 반환한다.
func (s *contentSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
