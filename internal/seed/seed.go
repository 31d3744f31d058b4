// Package seed 从 YAML 文件初始化账号、员工与部门，是创建 ADMIN / MANAGER 账号的唯一途径。
// 以邮箱、部门名称为幂等键，重复执行只补齐缺失的记录。
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"hr-admin/internal/model"
	"hr-admin/internal/repository"
	"hr-admin/pkg/password"
)

// File 种子文件结构
type File struct {
	Users       []User       `yaml:"users"`
	Departments []Department `yaml:"departments"`
}

// User 账号及其员工档案
type User struct {
	Email        string       `yaml:"email"`
	Password     string       `yaml:"password,omitempty"` // 为空时使用 auth.default_password
	Role         model.Role   `yaml:"role"`
	FirstName    string       `yaml:"first_name"`
	LastName     string       `yaml:"last_name"`
	Telephone    string       `yaml:"telephone"`
	Status       model.Status `yaml:"status,omitempty"`
	ManagerEmail string       `yaml:"manager_email,omitempty"`
}

// Department 部门，经理与成员均以邮箱引用
type Department struct {
	Name         string       `yaml:"name"`
	Status       model.Status `yaml:"status,omitempty"`
	ManagerEmail string       `yaml:"manager_email"`
	Members      []string     `yaml:"members,omitempty"`
}

// Result 本次执行新建的记录数
type Result struct {
	UsersCreated       int
	UsersSkipped       int
	DepartmentsCreated int
	DepartmentsSkipped int
}

// LoadFile 读取并校验种子文件
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse 解析种子 YAML，拒绝未知字段
func Parse(r io.Reader) (*File, error) {
	var f File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate 校验字段完整性与文件内引用
func (f *File) Validate() error {
	emails := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		switch {
		case u.Email == "":
			return fmt.Errorf("users[%d]: email 不能为空", i)
		case emails[u.Email]:
			return fmt.Errorf("users[%d]: 邮箱 %s 重复", i, u.Email)
		case !u.Role.Valid():
			return fmt.Errorf("users[%d]: 未知角色 %q", i, u.Role)
		case u.FirstName == "" || u.LastName == "":
			return fmt.Errorf("users[%d]: 姓名不能为空", i)
		case u.Status != "" && !u.Status.Valid():
			return fmt.Errorf("users[%d]: 未知状态 %q", i, u.Status)
		}
		emails[u.Email] = true
	}

	names := make(map[string]bool, len(f.Departments))
	for i, d := range f.Departments {
		switch {
		case d.Name == "":
			return fmt.Errorf("departments[%d]: name 不能为空", i)
		case names[d.Name]:
			return fmt.Errorf("departments[%d]: 部门 %s 重复", i, d.Name)
		case d.ManagerEmail == "":
			return fmt.Errorf("departments[%d]: manager_email 不能为空", i)
		case d.Status != "" && !d.Status.Valid():
			return fmt.Errorf("departments[%d]: 未知状态 %q", i, d.Status)
		}
		names[d.Name] = true
	}
	return nil
}

// Seeder 将种子文件写入存储
type Seeder struct {
	repo            *repository.Repository
	hasher          *password.Hasher
	defaultPassword string
	logger          *zap.Logger
}

// NewSeeder 创建 Seeder
func NewSeeder(repo *repository.Repository, hasher *password.Hasher, defaultPassword string, logger *zap.Logger) *Seeder {
	return &Seeder{repo: repo, hasher: hasher, defaultPassword: defaultPassword, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Apply 整个文件在一个事务内写入
// ═══════════════════════════════════════════════════════════
//
// 顺序：
//  1. 账号 + 员工（已存在的邮箱跳过）
//  2. 回填上级（仅对本次新建的员工）
//  3. 部门（已存在的名称跳过）+ 经理与成员关系

func (s *Seeder) Apply(ctx context.Context, f *File) (*Result, error) {
	result := &Result{}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		created := make(map[string]*model.Employee)

		// ── 1. 账号 + 员工 ──
		for _, u := range f.Users {
			_, err := tx.User.GetByEmail(ctx, u.Email)
			if err == nil {
				result.UsersSkipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("查询账号 %s 失败: %w", u.Email, err)
			}

			emp, err := s.createUser(ctx, tx, u)
			if err != nil {
				return err
			}
			created[u.Email] = emp
			result.UsersCreated++
		}

		// ── 2. 上级 ──
		for _, u := range f.Users {
			emp, ok := created[u.Email]
			if !ok || u.ManagerEmail == "" {
				continue
			}
			manager, err := employeeByEmail(ctx, tx, u.ManagerEmail)
			if err != nil {
				return fmt.Errorf("%s 的上级: %w", u.Email, err)
			}
			if manager.ID == emp.ID {
				return fmt.Errorf("%s 不能是自己的上级", u.Email)
			}
			if err := requireManagerRole(manager, u.ManagerEmail); err != nil {
				return fmt.Errorf("%s 的上级: %w", u.Email, err)
			}
			emp.ManagerID = &manager.ID
			if err := tx.Employee.Update(ctx, emp); err != nil {
				return fmt.Errorf("设置 %s 的上级失败: %w", u.Email, err)
			}
		}

		// ── 3. 部门 ──
		for _, d := range f.Departments {
			_, err := tx.Department.GetByName(ctx, d.Name)
			if err == nil {
				result.DepartmentsSkipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("查询部门 %s 失败: %w", d.Name, err)
			}

			if err := s.createDepartment(ctx, tx, d); err != nil {
				return err
			}
			result.DepartmentsCreated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("种子数据写入完成",
		zap.Int("users_created", result.UsersCreated),
		zap.Int("users_skipped", result.UsersSkipped),
		zap.Int("departments_created", result.DepartmentsCreated),
		zap.Int("departments_skipped", result.DepartmentsSkipped),
	)
	return result, nil
}

func (s *Seeder) createUser(ctx context.Context, tx *repository.Repository, u User) (*model.Employee, error) {
	plain := u.Password
	if plain == "" {
		plain = s.defaultPassword
	}
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, fmt.Errorf("生成 %s 的密码哈希失败: %w", u.Email, err)
	}

	user := &model.User{Email: u.Email, PasswordHash: hash, Role: u.Role}
	if err := tx.User.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建账号 %s 失败: %w", u.Email, err)
	}

	status := u.Status
	if status == "" {
		status = model.StatusActive
	}
	emp := &model.Employee{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Telephone: u.Telephone,
		Status:    status,
		UserID:    user.ID,
	}
	if err := tx.Employee.Create(ctx, emp); err != nil {
		return nil, fmt.Errorf("创建员工 %s 失败: %w", u.Email, err)
	}
	return emp, nil
}

func (s *Seeder) createDepartment(ctx context.Context, tx *repository.Repository, d Department) error {
	manager, err := employeeByEmail(ctx, tx, d.ManagerEmail)
	if err != nil {
		return fmt.Errorf("部门 %s 的经理: %w", d.Name, err)
	}
	if err := requireManagerRole(manager, d.ManagerEmail); err != nil {
		return fmt.Errorf("部门 %s 的经理: %w", d.Name, err)
	}

	status := d.Status
	if status == "" {
		status = model.StatusActive
	}
	dept := &model.Department{Name: d.Name, Status: status, ManagerID: manager.ID}
	if err := tx.Department.Create(ctx, dept); err != nil {
		return fmt.Errorf("创建部门 %s 失败: %w", d.Name, err)
	}

	if err := tx.Department.UpsertMember(ctx, dept.ID, manager.ID); err != nil {
		return fmt.Errorf("写入部门 %s 经理关系失败: %w", d.Name, err)
	}
	for _, email := range d.Members {
		member, err := employeeByEmail(ctx, tx, email)
		if err != nil {
			return fmt.Errorf("部门 %s 的成员: %w", d.Name, err)
		}
		if err := tx.Department.UpsertMember(ctx, dept.ID, member.ID); err != nil {
			return fmt.Errorf("写入部门 %s 成员关系失败: %w", d.Name, err)
		}
	}
	return nil
}

// employeeByEmail 经账号邮箱定位员工
func employeeByEmail(ctx context.Context, tx *repository.Repository, email string) (*model.Employee, error) {
	user, err := tx.User.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("邮箱 %s 不存在", email)
		}
		return nil, fmt.Errorf("查询账号 %s 失败: %w", email, err)
	}
	emp, err := tx.Employee.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("邮箱 %s 没有员工档案", email)
		}
		return nil, fmt.Errorf("查询员工 %s 失败: %w", email, err)
	}
	return emp, nil
}

// requireManagerRole 上级 / 部门经理须为 MANAGER 或 ADMIN
func requireManagerRole(emp *model.Employee, email string) error {
	if emp.User == nil || !emp.User.Role.CanManage() {
		return fmt.Errorf("%s 不是经理或管理员", email)
	}
	return nil
}
