package dto

// ── 经理视图 DTO ──

// 下属状态
const (
	SubordinatesNone = "none"
	SubordinatesSome = "some"
)

// ManagerResponse 经理及其负责部门、下属列表
type ManagerResponse struct {
	ID                 uint              `json:"id"`
	Name               string            `json:"name"`
	Departments        []DepartmentBrief `json:"departments"`
	SubordinatesStatus string            `json:"subordinates_status"` // none | some
	SubordinateCount   int               `json:"subordinate_count"`
	Subordinates       []SubordinateItem `json:"subordinates"`
}

// SubordinateItem 下属摘要
type SubordinateItem struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
