package session

import "github.com/minsukim/ptstudio/go-api-server/internal/model"

type BookSessionRequest struct {
	ProgramID     uint32 `json:"programId" binding:"required"`
	SessionNumber int    `json:"sessionNumber" binding:"required,gt=0"`

	Date      string `json:"date" binding:"required,dateymd"`
	StartTime string `json:"startTime" binding:"required,timehm"`
	Duration  int    `json:"duration" binding:"omitempty,gt=0"` // 미입력 시 프로그램 기본값

	// 미입력 시 회차별 담당 → 대표 트레이너 순으로 결정
	TrainerID *uint32 `json:"trainerId"`

	MemberIDs []uint32 `json:"memberIds" binding:"required,min=1"`
}

// BookSessionResponse reports partial failures: members that could not be
// booked are listed and the successfully created rows are kept.
type BookSessionResponse struct {
	Sessions        []SessionResponse `json:"sessions"`
	FailedMemberIDs []uint32          `json:"failedMemberIds,omitempty"`
}

type UpdateSessionRequest struct {
	Date      *string `json:"date" binding:"omitempty,dateymd"`
	StartTime *string `json:"startTime" binding:"omitempty,timehm"`
	Duration  *int    `json:"duration" binding:"omitempty,gt=0"`

	TrainerID *uint32 `json:"trainerId"`

	AttendedMemberIDs *[]uint32 `json:"attendedMemberIds" binding:"omitempty,min=1"`
}

type CompleteSessionRequest struct {
	// 최종 출석 명단 (미입력 시 예약 시점 명단 유지)
	AttendedMemberIDs *[]uint32 `json:"attendedMemberIds" binding:"omitempty,min=1"`

	// 완료 시점 수기 조정 금액 (정산에서 trainerFee 대신 사용)
	SessionFee *float64 `json:"sessionFee" binding:"omitempty,gte=0"`
}

type SessionResponse struct {
	ID            uint32 `json:"id"`
	ProgramID     uint32 `json:"programId"`
	SessionNumber int    `json:"sessionNumber"`
	TrainerID     uint32 `json:"trainerId"`

	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Duration  int    `json:"duration"`

	Status            string   `json:"status"`
	AttendedMemberIDs []uint32 `json:"attendedMemberIds"`

	TrainerFee float64  `json:"trainerFee"`
	FeeType    string   `json:"feeType"`
	FeeRate    float64  `json:"feeRate"`
	StoredRate float64  `json:"storedRate"` // 구 클라이언트 호환: 고정 금액이면 -1
	SessionFee *float64 `json:"sessionFee"`

	CompletedAt *string `json:"completedAt"`
}

type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

func toSessionResponse(s *model.Session) SessionResponse {
	var completedAt *string
	if s.CompletedAt != nil {
		v := s.CompletedAt.Format("2006-01-02 15:04:05")
		completedAt = &v
	}

	return SessionResponse{
		ID:                s.ID,
		ProgramID:         s.ProgramID,
		SessionNumber:     s.SessionNumber,
		TrainerID:         s.TrainerID,
		Date:              s.Date,
		StartTime:         s.StartTime,
		Duration:          s.Duration,
		Status:            s.Status,
		AttendedMemberIDs: s.AttendedMemberIDs,
		TrainerFee:        s.TrainerFee,
		FeeType:           s.FeeType,
		FeeRate:           s.FeeRate,
		StoredRate:        s.LegacyRate(),
		SessionFee:        s.SessionFee,
		CompletedAt:       completedAt,
	}
}
