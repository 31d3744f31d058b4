package service

import (
	"context"
	"errors"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hr-admin/internal/auth"
	"hr-admin/internal/model"
	"hr-admin/internal/repository"
	"hr-admin/pkg/password"
)

// ═══════════════════════════════════════════════════════════
// 内存存储：三个 mock repo 共享同一份数据，以便关联查询
// ═══════════════════════════════════════════════════════════

var errStoreDown = errors.New("connection refused")

type memberKey struct {
	employeeID   uint
	departmentID uint
}

type fakeStore struct {
	users       map[uint]*model.User
	employees   map[uint]*model.Employee
	departments map[uint]*model.Department
	members     map[memberKey]bool

	nextUserID, nextEmpID, nextDeptID uint

	// failures 按 "Repo.Method" 注入错误
	failures map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       make(map[uint]*model.User),
		employees:   make(map[uint]*model.Employee),
		departments: make(map[uint]*model.Department),
		members:     make(map[memberKey]bool),
		failures:    make(map[string]error),
	}
}

func (s *fakeStore) fail(op string) error {
	return s.failures[op]
}

// hydrate 按 withDetails 的加载范围补齐关联
func (s *fakeStore) hydrate(e *model.Employee) model.Employee {
	out := *e
	if u, ok := s.users[e.UserID]; ok {
		uc := *u
		out.User = &uc
	}
	if e.ManagerID != nil {
		if m, ok := s.employees[*e.ManagerID]; ok {
			mc := *m
			out.Manager = &mc
		}
	}
	out.Subordinates = nil
	for _, id := range s.sortedEmployeeIDs() {
		sub := s.employees[id]
		if sub.ManagerID != nil && *sub.ManagerID == e.ID {
			out.Subordinates = append(out.Subordinates, *sub)
		}
	}
	out.DepartmentEmployees = nil
	for _, deptID := range s.memberDepartments(e.ID) {
		d := *s.departments[deptID]
		out.DepartmentEmployees = append(out.DepartmentEmployees, model.DepartmentEmployee{
			EmployeeID: e.ID, DepartmentID: deptID, Department: &d,
		})
	}
	out.ManagedDepartments = nil
	for _, id := range s.sortedDepartmentIDs() {
		if s.departments[id].ManagerID == e.ID {
			out.ManagedDepartments = append(out.ManagedDepartments, *s.departments[id])
		}
	}
	return out
}

func (s *fakeStore) sortedEmployeeIDs() []uint {
	ids := make([]uint, 0, len(s.employees))
	for id := range s.employees {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *fakeStore) sortedDepartmentIDs() []uint {
	ids := make([]uint, 0, len(s.departments))
	for id := range s.departments {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *fakeStore) memberDepartments(employeeID uint) []uint {
	var ids []uint
	for k := range s.members {
		if k.employeeID == employeeID {
			ids = append(ids, k.departmentID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *fakeStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if err := m.s.fail("User.Create"); err != nil {
		return err
	}
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	m.s.nextUserID++
	user.ID = m.s.nextUserID
	user.CreatedAt = time.Now()
	uc := *user
	m.s.users[user.ID] = &uc
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uint) (*model.User, error) {
	if err := m.s.fail("User.GetByID"); err != nil {
		return nil, err
	}
	if u, ok := m.s.users[id]; ok {
		uc := *u
		return &uc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if err := m.s.fail("User.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range m.s.users {
		if u.Email == email {
			uc := *u
			return &uc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateEmail(_ context.Context, id uint, email string) error {
	if err := m.s.fail("User.UpdateEmail"); err != nil {
		return err
	}
	if u, ok := m.s.users[id]; ok {
		u.Email = email
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id uint, hash string) error {
	if err := m.s.fail("User.UpdatePassword"); err != nil {
		return err
	}
	if u, ok := m.s.users[id]; ok {
		u.PasswordHash = hash
	}
	return nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct{ s *fakeStore }

func (m *mockEmployeeRepo) Create(_ context.Context, emp *model.Employee) error {
	if err := m.s.fail("Employee.Create"); err != nil {
		return err
	}
	m.s.nextEmpID++
	emp.ID = m.s.nextEmpID
	ec := *emp
	m.s.employees[emp.ID] = &ec
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id uint) (*model.Employee, error) {
	if err := m.s.fail("Employee.GetByID"); err != nil {
		return nil, err
	}
	e, ok := m.s.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *e
	if u, ok := m.s.users[e.UserID]; ok {
		uc := *u
		out.User = &uc
	}
	return &out, nil
}

func (m *mockEmployeeRepo) GetByUserID(_ context.Context, userID uint) (*model.Employee, error) {
	if err := m.s.fail("Employee.GetByUserID"); err != nil {
		return nil, err
	}
	for _, e := range m.s.employees {
		if e.UserID == userID {
			out := m.s.hydrate(e)
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, f repository.EmployeeFilter) ([]model.Employee, error) {
	if err := m.s.fail("Employee.List"); err != nil {
		return nil, err
	}
	var result []model.Employee
	for _, id := range m.s.sortedEmployeeIDs() {
		e := m.s.employees[id]
		if f.UserID != nil && e.UserID != *f.UserID {
			continue
		}
		if f.ManagerID != nil && (e.ManagerID == nil || *e.ManagerID != *f.ManagerID) {
			continue
		}
		if f.Status != nil && e.Status != *f.Status {
			continue
		}
		depts := m.s.memberDepartments(e.ID)
		if len(f.InDepartments) > 0 {
			if !slices.ContainsFunc(depts, func(d uint) bool { return slices.Contains(f.InDepartments, d) }) {
				continue
			}
		} else if f.HasDepartment && len(depts) == 0 {
			continue
		}
		result = append(result, m.s.hydrate(e))
	}
	return result, nil
}

func (m *mockEmployeeRepo) ListByRole(_ context.Context, role model.Role) ([]model.Employee, error) {
	if err := m.s.fail("Employee.ListByRole"); err != nil {
		return nil, err
	}
	var result []model.Employee
	for _, id := range m.s.sortedEmployeeIDs() {
		e := m.s.employees[id]
		if u, ok := m.s.users[e.UserID]; ok && u.Role == role {
			result = append(result, m.s.hydrate(e))
		}
	}
	return result, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, emp *model.Employee) error {
	if err := m.s.fail("Employee.Update"); err != nil {
		return err
	}
	e, ok := m.s.employees[emp.ID]
	if !ok {
		return nil
	}
	e.FirstName = emp.FirstName
	e.LastName = emp.LastName
	e.Email = emp.Email
	e.Telephone = emp.Telephone
	e.Status = emp.Status
	e.ManagerID = emp.ManagerID
	return nil
}

func (m *mockEmployeeRepo) UpdateStatus(_ context.Context, id uint, status model.Status) error {
	if err := m.s.fail("Employee.UpdateStatus"); err != nil {
		return err
	}
	if e, ok := m.s.employees[id]; ok {
		e.Status = status
	}
	return nil
}

func (m *mockEmployeeRepo) AddDepartments(_ context.Context, employeeID uint, departmentIDs []uint) error {
	if err := m.s.fail("Employee.AddDepartments"); err != nil {
		return err
	}
	for _, d := range departmentIDs {
		m.s.members[memberKey{employeeID, d}] = true
	}
	return nil
}

// ── Mock DepartmentRepository ──

type mockDeptRepo struct{ s *fakeStore }

func (m *mockDeptRepo) Create(_ context.Context, dept *model.Department) error {
	if err := m.s.fail("Department.Create"); err != nil {
		return err
	}
	m.s.nextDeptID++
	dept.ID = m.s.nextDeptID
	dc := *dept
	dc.Manager = nil
	m.s.departments[dept.ID] = &dc
	return nil
}

func (m *mockDeptRepo) GetByID(_ context.Context, id uint) (*model.Department, error) {
	if err := m.s.fail("Department.GetByID"); err != nil {
		return nil, err
	}
	if d, ok := m.s.departments[id]; ok {
		return m.withManager(d), nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) GetByName(_ context.Context, name string) (*model.Department, error) {
	for _, d := range m.s.departments {
		if d.Name == name {
			dc := *d
			return &dc, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeptRepo) List(_ context.Context, f repository.DepartmentFilter) ([]model.Department, error) {
	if err := m.s.fail("Department.List"); err != nil {
		return nil, err
	}
	var result []model.Department
	for _, id := range m.s.sortedDepartmentIDs() {
		d := m.s.departments[id]
		if f.ManagerID != nil && d.ManagerID != *f.ManagerID {
			continue
		}
		result = append(result, *m.withManager(d))
	}
	return result, nil
}

func (m *mockDeptRepo) ListByIDs(_ context.Context, ids []uint) ([]model.Department, error) {
	if err := m.s.fail("Department.ListByIDs"); err != nil {
		return nil, err
	}
	var result []model.Department
	for _, id := range m.s.sortedDepartmentIDs() {
		if slices.Contains(ids, id) {
			result = append(result, *m.s.departments[id])
		}
	}
	return result, nil
}

func (m *mockDeptRepo) Update(_ context.Context, dept *model.Department) error {
	if err := m.s.fail("Department.Update"); err != nil {
		return err
	}
	if d, ok := m.s.departments[dept.ID]; ok {
		d.Name = dept.Name
		d.Status = dept.Status
		d.ManagerID = dept.ManagerID
	}
	return nil
}

func (m *mockDeptRepo) UpdateStatus(_ context.Context, id uint, status model.Status) (int64, error) {
	if err := m.s.fail("Department.UpdateStatus"); err != nil {
		return 0, err
	}
	d, ok := m.s.departments[id]
	if !ok {
		return 0, nil
	}
	d.Status = status
	return 1, nil
}

func (m *mockDeptRepo) UpsertMember(_ context.Context, departmentID, employeeID uint) error {
	if err := m.s.fail("Department.UpsertMember"); err != nil {
		return err
	}
	m.s.members[memberKey{employeeID, departmentID}] = true
	return nil
}

func (m *mockDeptRepo) ListMemberDepartmentIDs(_ context.Context, employeeID uint) ([]uint, error) {
	if err := m.s.fail("Department.ListMemberDepartmentIDs"); err != nil {
		return nil, err
	}
	return m.s.memberDepartments(employeeID), nil
}

func (m *mockDeptRepo) withManager(d *model.Department) *model.Department {
	dc := *d
	if e, ok := m.s.employees[d.ManagerID]; ok {
		ec := *e
		dc.Manager = &ec
	}
	return &dc
}

// ── Mock TokenBlacklist ──

type mockBlacklist struct {
	revoked map[string]time.Duration
	err     error
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.revoked[jti] = ttl
	return nil
}

func (m *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

// ═══════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════

const testPassword = "Password123#"

var testHasher = password.NewHasher(4)

func newTestRepo(s *fakeStore) *repository.Repository {
	return &repository.Repository{
		User:       &mockUserRepo{s: s},
		Employee:   &mockEmployeeRepo{s: s},
		Department: &mockDeptRepo{s: s},
	}
}

// addEmployee 直接写入一名账号 + 员工，密码为 testPassword
func (s *fakeStore) addEmployee(first string, role model.Role, managerID *uint, deptIDs ...uint) *model.Employee {
	hash, _ := testHasher.Hash(testPassword)
	s.nextUserID++
	user := &model.User{ID: s.nextUserID, Email: first + "@hr.test", PasswordHash: hash, Role: role}
	s.users[user.ID] = user

	s.nextEmpID++
	emp := &model.Employee{
		ID:        s.nextEmpID,
		FirstName: first,
		LastName:  "Test",
		Email:     user.Email,
		Telephone: "5550100",
		Status:    model.StatusActive,
		ManagerID: managerID,
		UserID:    user.ID,
	}
	s.employees[emp.ID] = emp
	for _, d := range deptIDs {
		s.members[memberKey{emp.ID, d}] = true
	}
	return emp
}

func (s *fakeStore) addDepartment(name string, managerID uint) *model.Department {
	s.nextDeptID++
	d := &model.Department{ID: s.nextDeptID, Name: name, Status: model.StatusActive, ManagerID: managerID}
	s.departments[d.ID] = d
	s.members[memberKey{managerID, d.ID}] = true
	return d
}

func (s *fakeStore) join(employeeID, departmentID uint) {
	s.members[memberKey{employeeID, departmentID}] = true
}

// identityOf 构造员工对应的调用方身份
func (s *fakeStore) identityOf(e *model.Employee) *auth.Identity {
	u := s.users[e.UserID]
	return &auth.Identity{UserID: u.ID, EmployeeID: e.ID, Email: u.Email, Role: u.Role}
}

// orgFixture 典型组织结构（括号内为员工 ID，账号 ID = 100 + 员工 ID）
//
//	admin(1)
//	 └─ mgr(2) ── 负责 Engineering(1)
//	     ├─ alice(3)  ∈ Engineering
//	     ├─ bob(4)    ∈ Sales（mgr 不属于 Sales）
//	     └─ dave(6)   无部门
//	other(5) 经理 ── 负责 Sales(2)
//	     └─ carol(7) ∈ Engineering
type orgFixture struct {
	store                                      *fakeStore
	admin, mgr, alice, bob, other, dave, carol *model.Employee
	eng, sales                                 *model.Department
}

func newOrgFixture() *orgFixture {
	s := newFakeStore()
	// 账号 ID 与员工 ID 错开，避免二者混用时测试仍能通过
	s.nextUserID = 100
	f := &orgFixture{store: s}
	f.admin = s.addEmployee("admin", model.RoleAdmin, nil)
	f.mgr = s.addEmployee("mgr", model.RoleManager, &f.admin.ID)
	f.alice = s.addEmployee("alice", model.RoleEmployee, &f.mgr.ID)
	f.bob = s.addEmployee("bob", model.RoleEmployee, &f.mgr.ID)
	f.other = s.addEmployee("other", model.RoleManager, &f.admin.ID)
	f.dave = s.addEmployee("dave", model.RoleEmployee, &f.mgr.ID)
	f.carol = s.addEmployee("carol", model.RoleEmployee, &f.other.ID)

	f.eng = s.addDepartment("Engineering", f.mgr.ID)
	f.sales = s.addDepartment("Sales", f.other.ID)
	s.join(f.alice.ID, f.eng.ID)
	s.join(f.bob.ID, f.sales.ID)
	s.join(f.carol.ID, f.eng.ID)
	return f
}

func (f *orgFixture) repo() *repository.Repository {
	return newTestRepo(f.store)
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
