// Package handler 는 HTTP 핸들러를 제공한다.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ansmoon/bbogle/internal/model"
)

// apiErrorResponse 는 통일 에러 포맷의 응답.
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeJSONResponse 는 payload를 JSON으로 직렬화해 응답한다.
func writeJSONResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

// writeAPIErrorResponse 는 통일 포맷으로 에러 응답을 기록한다.
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSONResponse(w, statusCode, apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError 는 서비스 레이어의 에러를 적절한 HTTP 상태 코드로 변환한다.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError 이외의 에러는 내부 서버 에러로 취급한다
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "내부 오류가 발생했습니다.",
		Category: "system",
		Action:   "잠시 후 다시 시도해 주세요.",
	})
}

// mapAPIErrorToHTTPStatus 는 APIError 코드를 HTTP 상태 코드로 매핑한다.
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUserNotFound,
		model.ErrCodeProjectNotFound,
		model.ErrCodeDiaryNotFound,
		model.ErrCodeActivityNotFound,
		model.ErrCodeKeywordNotFound:
		return http.StatusNotFound
	case model.ErrCodeUnauthorized, model.ErrCodeInvalidRefresh:
		return http.StatusUnauthorized
	case model.ErrCodeForbiddenResource:
		return http.StatusForbidden
	case model.ErrCodeInvalidRequest, model.ErrCodeProjectEnded:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
