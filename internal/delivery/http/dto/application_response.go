package dto

import (
	"github.com/google/uuid"

	"teamleopard/internal/domain/application"
	"teamleopard/internal/usecase"
)

type ApplicationResponse struct {
	ID             int64  `json:"id"`
	JobPostingID   int64  `json:"job_posting_id"`
	PostingTitle   string `json:"posting_title,omitempty"`
	Location       string `json:"location,omitempty"`
	CompanyID      string `json:"company_id,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	CoverLetter    string `json:"cover_letter"`
	ResumePath     string `json:"resume_path"`
	ResumeFileName string `json:"resume_file_name"`
	Status         string `json:"status"`
	Badge          string `json:"badge"`
	CreatedAt      string `json:"created_at"`
}

type CreatedApplicationResponse struct {
	ID           int64     `json:"id"`
	EmployeeID   uuid.UUID `json:"employee_id"`
	JobPostingID int64     `json:"job_posting_id"`
	ResumePath   string    `json:"resume_path"`
	Status       string    `json:"status"`
	CreatedAt    string    `json:"created_at"`
}

func NewCreatedApplicationResponse(a application.Application) CreatedApplicationResponse {
	return CreatedApplicationResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		JobPostingID: a.JobPostingID,
		ResumePath:   a.ResumeURL,
		Status:       a.Status,
		CreatedAt:    formatTime(a.CreatedAt),
	}
}

func NewApplicationResponse(v usecase.ApplicationView) ApplicationResponse {
	return ApplicationResponse{
		ID:             v.ID,
		JobPostingID:   v.PostingID,
		PostingTitle:   v.PostingTitle,
		Location:       v.Location,
		CompanyID:      v.CompanyID,
		CompanyName:    v.CompanyName,
		CoverLetter:    v.CoverLetter,
		ResumePath:     v.ResumePath,
		ResumeFileName: v.ResumeFileName,
		Status:         v.Status,
		Badge:          v.Badge,
		CreatedAt:      formatTime(v.CreatedAt),
	}
}

type ResumeResponse struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	UpdatedAt string `json:"updated_at"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

func NewResumeResponse(r usecase.StoredResume) ResumeResponse {
	return ResumeResponse{
		Name:      r.Name,
		Path:      r.Path,
		Size:      r.Size,
		UpdatedAt: formatTime(r.UpdatedAt),
		URL:       r.URL,
		ExpiresAt: formatTime(r.ExpiresAt),
	}
}

type ApplicantResponse struct {
	ID             int64  `json:"id"`
	JobPostingID   int64  `json:"job_posting_id"`
	EmployeeID     string `json:"employee_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	CoverLetter    string `json:"cover_letter"`
	ResumeFileName string `json:"resume_file_name"`
	ResumeURL      string `json:"resume_url"`
	Status         string `json:"status"`
	Badge          string `json:"badge"`
	CreatedAt      string `json:"created_at"`
}

func NewApplicantResponse(v usecase.ApplicantView) ApplicantResponse {
	return ApplicantResponse{
		ID:             v.ID,
		JobPostingID:   v.PostingID,
		EmployeeID:     v.EmployeeID,
		Name:           v.Name,
		Email:          v.Email,
		CoverLetter:    v.CoverLetter,
		ResumeFileName: v.ResumeFileName,
		ResumeURL:      v.ResumeURL,
		Status:         v.Status,
		Badge:          v.Badge,
		CreatedAt:      formatTime(v.CreatedAt),
	}
}
