package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"hr-admin/internal/auth"
)

func setupTestExportService() (ExportService, *orgFixture) {
	f := newOrgFixture()
	employees := NewEmployeeService(f.repo(), testHasher, testPassword, nopLogger())
	svc := NewExportService(employees, nopLogger()).(*exportService)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return svc, f
}

func TestExportService_ExportEmployees_Admin(t *testing.T) {
	svc, f := setupTestExportService()

	buf, filename, err := svc.ExportEmployees(context.Background(), f.store.identityOf(f.admin))
	if err != nil {
		t.Fatalf("ExportEmployees 应成功: %v", err)
	}
	if filename != "employees_20260301.xlsx" {
		t.Errorf("文件名不符: %s", filename)
	}

	wb, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(employeeSheet)
	if err != nil {
		t.Fatalf("读取 Sheet 失败: %v", err)
	}
	if len(rows) != 1+7 {
		t.Fatalf("期望 1 行表头 + 7 行数据，实际 %d 行", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][3] != "邮箱" {
		t.Errorf("表头不符: %v", rows[0])
	}
	// alice: 上级 mgr，部门 Engineering
	alice := rows[3]
	if alice[3] != "alice@hr.test" || alice[6] != "mgr Test" || alice[7] != "Engineering" || alice[8] != "EMPLOYEE" {
		t.Errorf("alice 行不符: %v", alice)
	}
}

func TestExportService_ExportEmployees_ScopedByRole(t *testing.T) {
	svc, f := setupTestExportService()

	buf, _, err := svc.ExportEmployees(context.Background(), f.store.identityOf(f.bob))
	if err != nil {
		t.Fatalf("ExportEmployees 应成功: %v", err)
	}
	wb, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer wb.Close()

	rows, _ := wb.GetRows(employeeSheet)
	if len(rows) != 2 || rows[1][3] != "bob@hr.test" {
		t.Errorf("员工只应导出本人，实际 %v", rows)
	}
}

func TestExportService_ExportEmployees_Unauthenticated(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportEmployees(context.Background(), nil)
	if !errors.Is(err, auth.ErrUnauthenticated) {
		t.Errorf("期望 ErrUnauthenticated，实际: %v", err)
	}
}
