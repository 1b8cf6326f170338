package dto

import "jobradar/internal/matcher"

type MatchJobsRequest struct {
	ResumeText  string `json:"resumeText"`
	PrimaryRole string `json:"primaryRole"`
}

type MatchJobsResponse struct {
	Matches []matcher.Match `json:"matches"`
}
