package dto

import (
	"github.com/google/uuid"

	"teamleopard/internal/usecase"
)

type JobResponse struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	EmploymentType string    `json:"employment_type"`
	SalaryRange    string    `json:"salary_range"`
	Status         string    `json:"status"`
	ExpectedSkills []string  `json:"expected_skills"`
	CompanyID      uuid.UUID `json:"company_id"`
	CompanyName    string    `json:"company_name"`
	PostedAt       string    `json:"posted_at"`
	PostedAgo      string    `json:"posted_ago"`
	Deadline       *string   `json:"deadline"`
}

func NewJobResponse(it usecase.JobListItem) JobResponse {
	skills := it.Skills
	if skills == nil {
		skills = []string{}
	}
	return JobResponse{
		ID:             it.ID,
		Title:          it.Title,
		Description:    it.Description,
		Location:       it.Location,
		EmploymentType: it.EmploymentType,
		SalaryRange:    it.SalaryRange,
		Status:         it.Status,
		ExpectedSkills: skills,
		CompanyID:      it.CompanyID,
		CompanyName:    it.CompanyName,
		PostedAt:       formatTime(it.PostedAt),
		PostedAgo:      it.PostedAgo,
		Deadline:       formatTimePtr(it.Deadline),
	}
}

type SavedJobResponse struct {
	Job     JobResponse `json:"job"`
	SavedAt string      `json:"saved_at"`
}

func NewSavedJobResponse(v usecase.SavedJobView) SavedJobResponse {
	return SavedJobResponse{Job: NewJobResponse(v.Job), SavedAt: formatTime(v.SavedAt)}
}
