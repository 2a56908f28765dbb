package domain

// Employee is the directory entry resolved from the token identity.
type Employee struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// DisplayName mirrors PersonRef.DisplayName for directory entries.
func (e *Employee) DisplayName() string {
	if e == nil {
		return ""
	}
	if e.FullName != "" {
		return e.FullName
	}
	return e.Name
}
