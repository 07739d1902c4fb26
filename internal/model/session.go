package model

import (
	"fmt"
	"time"
)

// Session status values.
const (
	SessionStatusBooked    = "booked"
	SessionStatusCompleted = "completed"
)

// Session is one scheduled or completed training occurrence. Each session row
// owns exactly one booked member at creation time (multi-member bookings
// create one row per member sharing the same session number).
//
// FeeType/FeeRate carry the compensation rule that produced TrainerFee.
// They reflect the trainer's branch rate at booking/last-edit time and are
// NOT automatically correct after a rate change until the rate-change
// propagation has run.
type Session struct {
	ID uint32 `gorm:"column:id;primaryKey;autoIncrement"`

	ProgramID     uint32 `gorm:"column:program_id;not null;index"`
	SessionNumber int    `gorm:"column:session_number;not null"`
	TrainerID     uint32 `gorm:"column:trainer_id;not null;index"`

	Date      string `gorm:"column:session_date;type:VARCHAR2(10);not null;index"` // YYYY-MM-DD
	StartTime string `gorm:"column:start_time;type:VARCHAR2(5);not null"`          // HH:MM
	Duration  int    `gorm:"column:duration;not null"`                             // 분

	Status            string   `gorm:"column:status;type:VARCHAR2(20);not null"` // booked | completed
	AttendedMemberIDs []uint32 `gorm:"column:attended_member_ids;serializer:json"`

	TrainerFee float64  `gorm:"column:trainer_fee;not null"`
	FeeType    string   `gorm:"column:fee_type;type:VARCHAR2(20);not null"` // percentage | fixed
	FeeRate    float64  `gorm:"column:fee_rate;not null"`                   // percentage일 때만 의미
	SessionFee *float64 `gorm:"column:session_fee"`                         // 완료 시 수기 조정 금액

	CompletedAt *time.Time `gorm:"column:completed_at"`

	BaseEntity
}

func (*Session) TableName() string {
	return "training_session"
}

// StartsAt parses Date + StartTime in the server's local time zone.
func (s *Session) StartsAt() (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", s.Date+" "+s.StartTime, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("세션 일시 파싱 실패 (%s %s): %w", s.Date, s.StartTime, err)
	}
	return t, nil
}

// IsCompleted reports whether the session has been completed.
func (s *Session) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// LegacyRate renders the stored rate for legacy clients: the fraction for
// percentage rates, -1 for fixed fees.
func (s *Session) LegacyRate() float64 {
	if s.FeeType == RateTypeFixed {
		return -1
	}
	return s.FeeRate
}
