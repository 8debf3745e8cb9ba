package dto

import "sitepass/internal/entity"

type CreateEmployeeRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Department string `json:"department" validate:"omitempty"`
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
}

func EmployeeResponseFromEntity(employee *entity.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         employee.ID.String(),
		EmployeeID: employee.EmployeeID,
		Name:       employee.Name,
		Email:      employee.Email,
		Department: employee.Department,
	}
}

func EmployeeResponsesFromEntities(employees []entity.Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		responses = append(responses, EmployeeResponseFromEntity(&employees[i]))
	}
	return responses
}
