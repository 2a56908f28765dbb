package domain

// IdentityClaim is the token payload field naming the employee.
const IdentityClaim = "id"

// Identity is the decoded caller behind a bearer credential.
type Identity struct {
	EmployeeID string
	Token      string
}
