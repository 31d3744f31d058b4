package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"hr-admin/internal/auth"
	"hr-admin/internal/dto"
)

// ExportService 导出业务接口
//
// 导出范围与 EmployeeService.List 完全一致（按调用方角色收窄），
// 以 bytes.Buffer 返回，由 Handler 层设置响应头后写出。
type ExportService interface {
	// ExportEmployees 导出调用方可见的员工列表为 Excel
	ExportEmployees(ctx context.Context, id *auth.Identity) (*bytes.Buffer, string, error)
}

type exportService struct {
	employees EmployeeService
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(employees EmployeeService, logger *zap.Logger) ExportService {
	return &exportService{employees: employees, logger: logger, now: time.Now}
}

const employeeSheet = "员工列表"

var employeeHeaders = []string{"ID", "名", "姓", "邮箱", "电话", "状态", "上级", "所属部门", "角色"}

// ═══════════════════════════════════════════════════════════
// ExportEmployees 导出员工列表
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet「员工列表」
//   - 第 1 行表头，此后每名员工一行，按员工 ID 升序
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportEmployees(ctx context.Context, id *auth.Identity) (*bytes.Buffer, string, error) {
	rows, err := s.employees.List(ctx, id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(employeeSheet)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, h := range employeeHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(employeeSheet, cell, h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(employeeHeaders))
	_ = f.SetCellStyle(employeeSheet, "A1", lastCol+"1", headerStyle)
	_ = f.SetColWidth(employeeSheet, "A", "A", 8)
	_ = f.SetColWidth(employeeSheet, "B", "C", 14)
	_ = f.SetColWidth(employeeSheet, "D", "D", 28)
	_ = f.SetColWidth(employeeSheet, "E", "G", 16)
	_ = f.SetColWidth(employeeSheet, "H", "H", 30)

	// 数据行
	for r, e := range rows {
		values := employeeRow(e)
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(employeeSheet, cell, v); err != nil {
				s.logger.Error("写入单元格失败", zap.String("cell", cell), zap.Error(err))
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("employees_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// employeeRow 单名员工对应的一行单元格值
func employeeRow(e dto.EmployeeResponse) []interface{} {
	manager := ""
	if e.Manager != nil {
		manager = e.Manager.FirstName + " " + e.Manager.LastName
	}

	names := make([]string, 0, len(e.Departments))
	for _, d := range e.Departments {
		names = append(names, d.Name)
	}

	role := ""
	if e.User != nil {
		role = string(e.User.Role)
	}

	return []interface{}{
		e.ID,
		e.FirstName,
		e.LastName,
		e.Email,
		e.Telephone,
		string(e.Status),
		manager,
		strings.Join(names, ", "),
		role,
	}
}
