package service

import (
	"context"

	"go.uber.org/zap"

	"hr-admin/internal/dto"
	"hr-admin/internal/model"
	"hr-admin/internal/repository"
	apperrors "hr-admin/pkg/errors"
)

// ManagerService 经理视图业务接口，供下拉选择等场景使用，不做角色校验
type ManagerService interface {
	List(ctx context.Context) ([]dto.ManagerResponse, error)
}

type managerService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewManagerService 创建 ManagerService 实例
func NewManagerService(repo *repository.Repository, logger *zap.Logger) ManagerService {
	return &managerService{repo: repo, logger: logger}
}

func (s *managerService) List(ctx context.Context) ([]dto.ManagerResponse, error) {
	managers, err := s.repo.Employee.ListByRole(ctx, model.RoleManager)
	if err != nil {
		s.logger.Error("查询经理列表失败", zap.Error(err))
		return nil, apperrors.Internal("查询经理列表", err)
	}

	result := make([]dto.ManagerResponse, 0, len(managers))
	for i := range managers {
		m := &managers[i]

		item := dto.ManagerResponse{
			ID:                 m.ID,
			Name:               m.FullName(),
			Departments:        make([]dto.DepartmentBrief, 0, len(m.ManagedDepartments)),
			SubordinatesStatus: dto.SubordinatesNone,
			SubordinateCount:   len(m.Subordinates),
			Subordinates:       make([]dto.SubordinateItem, 0, len(m.Subordinates)),
		}
		if len(m.Subordinates) > 0 {
			item.SubordinatesStatus = dto.SubordinatesSome
		}
		for _, d := range m.ManagedDepartments {
			item.Departments = append(item.Departments, dto.DepartmentBrief{ID: d.ID, Name: d.Name})
		}
		for j := range m.Subordinates {
			item.Subordinates = append(item.Subordinates, dto.SubordinateItem{
				ID:   m.Subordinates[j].ID,
				Name: m.Subordinates[j].FullName(),
			})
		}

		result = append(result, item)
	}

	return result, nil
}
