package dto

import "github.com/spec-kit/ticket-dashboard/internal/domain"

// EmployeeSummary is the resolved employee of a session.
type EmployeeSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
}

// NewEmployeeSummary maps an employee; nil stays nil.
func NewEmployeeSummary(e *domain.Employee) *EmployeeSummary {
	if e == nil {
		return nil
	}
	return &EmployeeSummary{ID: e.ID, FullName: e.DisplayName(), Email: e.Email}
}

// ThemeResponse carries the viewer's theme preference.
type ThemeResponse struct {
	Theme domain.Theme `json:"theme"`
}

// ThemeRequest sets the theme explicitly.
type ThemeRequest struct {
	Theme string `json:"theme"`
}
