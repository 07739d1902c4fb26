package member

import "github.com/minsukim/ptstudio/go-api-server/internal/model"

type CreateMemberRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Contact  string `json:"contact" binding:"required,phone"`
	BranchID uint32 `json:"branchId" binding:"required"`

	ReferrerID        *uint32 `json:"referrerId"`
	AssignedTrainerID *uint32 `json:"assignedTrainerId"`

	ExerciseGoals      []string `json:"exerciseGoals" binding:"omitempty,dive,max=100"`
	Motivation         string   `json:"motivation" binding:"omitempty,max=500"`
	MedicalHistory     string   `json:"medicalHistory" binding:"omitempty,max=1000"`
	ExerciseExperience string   `json:"exerciseExperience" binding:"omitempty,max=500"`
	PreferredTimes     []string `json:"preferredTimes" binding:"omitempty,dive,max=50"`
	Occupation         string   `json:"occupation" binding:"omitempty,max=100"`
	Memo               string   `json:"memo" binding:"omitempty,max=1000"`
}

// UpdateMemberRequest is a patch: nil fields are left untouched.
// 연락처 등 문자열 필드도 포인터로 받아 "지우기"와 "건드리지 않기"를 구분한다.
type UpdateMemberRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Contact  *string `json:"contact" binding:"omitempty,phone"`
	BranchID *uint32 `json:"branchId"`

	ReferrerID        *uint32 `json:"referrerId"`
	AssignedTrainerID *uint32 `json:"assignedTrainerId"`

	ExerciseGoals      *[]string `json:"exerciseGoals" binding:"omitempty,dive,max=100"`
	Motivation         *string   `json:"motivation" binding:"omitempty,max=500"`
	MedicalHistory     *string   `json:"medicalHistory" binding:"omitempty,max=1000"`
	ExerciseExperience *string   `json:"exerciseExperience" binding:"omitempty,max=500"`
	PreferredTimes     *[]string `json:"preferredTimes" binding:"omitempty,dive,max=50"`
	Occupation         *string   `json:"occupation" binding:"omitempty,max=100"`
	Memo               *string   `json:"memo" binding:"omitempty,max=1000"`
}

type MemberResponse struct {
	ID       uint32 `json:"id"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	BranchID uint32 `json:"branchId"`

	ReferrerID        *uint32 `json:"referrerId"`
	AssignedTrainerID *uint32 `json:"assignedTrainerId"`

	ExerciseGoals      []string `json:"exerciseGoals"`
	Motivation         string   `json:"motivation"`
	MedicalHistory     string   `json:"medicalHistory"`
	ExerciseExperience string   `json:"exerciseExperience"`
	PreferredTimes     []string `json:"preferredTimes"`
	Occupation         string   `json:"occupation"`
	Memo               string   `json:"memo"`
}

type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

func toMemberResponse(m *model.Member) MemberResponse {
	return MemberResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Contact:            m.Contact,
		BranchID:           m.BranchID,
		ReferrerID:         m.ReferrerID,
		AssignedTrainerID:  m.AssignedTrainerID,
		ExerciseGoals:      m.ExerciseGoals,
		Motivation:         m.Motivation,
		MedicalHistory:     m.MedicalHistory,
		ExerciseExperience: m.ExerciseExperience,
		PreferredTimes:     m.PreferredTimes,
		Occupation:         m.Occupation,
		Memo:               m.Memo,
	}
}
