package service

import (
	"hr-admin/internal/dto"
	"hr-admin/internal/model"
)

// ── 模型 → 响应 DTO ──

func toUserResponse(u *model.User, employeeID uint) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Role:       u.Role,
		EmployeeID: employeeID,
	}
}

func toEmployeeBrief(e *model.Employee) *dto.EmployeeBrief {
	if e == nil {
		return nil
	}
	return &dto.EmployeeBrief{ID: e.ID, FirstName: e.FirstName, LastName: e.LastName}
}

func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:           e.ID,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		Email:        e.Email,
		Telephone:    e.Telephone,
		Status:       e.Status,
		ManagerID:    e.ManagerID,
		UserID:       e.UserID,
		Manager:      toEmployeeBrief(e.Manager),
		Departments:  make([]dto.DepartmentBrief, 0, len(e.DepartmentEmployees)),
		Subordinates: make([]dto.EmployeeBrief, 0, len(e.Subordinates)),
	}
	if e.User != nil {
		u := toUserResponse(e.User, e.ID)
		resp.User = &u
	}
	for _, de := range e.DepartmentEmployees {
		if de.Department == nil {
			resp.Departments = append(resp.Departments, dto.DepartmentBrief{ID: de.DepartmentID})
			continue
		}
		resp.Departments = append(resp.Departments, dto.DepartmentBrief{ID: de.Department.ID, Name: de.Department.Name})
	}
	for i := range e.Subordinates {
		resp.Subordinates = append(resp.Subordinates, *toEmployeeBrief(&e.Subordinates[i]))
	}
	return resp
}

func toEmployeeResponses(emps []model.Employee) []dto.EmployeeResponse {
	result := make([]dto.EmployeeResponse, 0, len(emps))
	for i := range emps {
		result = append(result, toEmployeeResponse(&emps[i]))
	}
	return result
}

func toDepartmentResponse(d *model.Department) dto.DepartmentResponse {
	return dto.DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		Status:    d.Status,
		ManagerID: d.ManagerID,
		Manager:   toEmployeeBrief(d.Manager),
	}
}
