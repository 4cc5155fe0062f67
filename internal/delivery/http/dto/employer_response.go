package dto

import (
	"github.com/google/uuid"

	"teamleopard/internal/domain/posting"
	"teamleopard/internal/usecase"
)

type PostingResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employment_type"`
	SalaryRange    string    `json:"salary_range"`
	Status         string    `json:"status"`
	ExpectedSkills []string  `json:"expected_skills"`
	CompanyID      uuid.UUID `json:"company_id"`
	PostedAt       string    `json:"posted_at"`
	Deadline       *string   `json:"deadline"`
}

func NewPostingResponse(p posting.Posting) PostingResponse {
	return PostingResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Location:       p.Location,
		EmploymentType: p.EmploymentType,
		SalaryRange:    p.SalaryRange,
		Status:         p.Status,
		ExpectedSkills: p.Skills(),
		CompanyID:      p.CompanyID,
		PostedAt:       formatTime(p.PostedAt),
		Deadline:       formatTimePtr(p.Deadline),
	}
}

type StatsResponse struct {
	TotalPostings     int            `json:"total_postings"`
	OpenPostings      int            `json:"open_postings"`
	TotalApplications int            `json:"total_applications"`
	ByStatus          map[string]int `json:"applications_by_status"`
}

func NewStatsResponse(s usecase.DashboardStats) StatsResponse {
	return StatsResponse{
		TotalPostings:     s.TotalPostings,
		OpenPostings:      s.OpenPostings,
		TotalApplications: s.TotalApplications,
		ByStatus:          s.ByStatus,
	}
}
