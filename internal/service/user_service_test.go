package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/config"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
)

func setupTestUserService() (UserService, *mocks) {
	repo, m := newTestRepository()
	cfg := &config.Config{
		Auth: config.AuthConfig{DefaultImportPassword: "Mudar@123"},
	}
	return NewUserService(cfg, repo, zap.NewNop()), m
}

// ── CreateUser 测试 ──

func TestUserService_CreateUser_Success(t *testing.T) {
	svc, _ := setupTestUserService()

	resp, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Name: "Ana", Email: "ana@rpe.com", Password: "Mudar@123", Position: "Dev Backend",
	})
	if err != nil {
		t.Fatalf("CreateUser 应成功: %v", err)
	}
	if resp.Role != model.RoleCollaborator {
		t.Errorf("缺省角色应为 COLLABORATOR，实际=%s", resp.Role)
	}
}

func TestUserService_CreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := setupTestUserService()
	ctx := context.Background()

	req := &dto.CreateUserRequest{Name: "Ana", Email: "ana@rpe.com", Password: "Mudar@123"}
	if _, err := svc.CreateUser(ctx, req); err != nil {
		t.Fatalf("首次创建应成功: %v", err)
	}
	if _, err := svc.CreateUser(ctx, req); !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际: %v", err)
	}
}

func TestUserService_CreateUser_TrackMissing(t *testing.T) {
	svc, _ := setupTestUserService()

	trackID := int64(404)
	_, err := svc.CreateUser(context.Background(), &dto.CreateUserRequest{
		Name: "Ana", Email: "ana@rpe.com", Password: "Mudar@123", TrackID: &trackID,
	})
	if !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("期望 ErrTrackNotFound，实际: %v", err)
	}
}

// ── Update / Delete 测试 ──

func TestUserService_Update_SelfRoleChangeRejected(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()

	_ = m.user.Create(ctx, &model.User{ID: 1, Name: "Ana", Email: "ana@rpe.com"})

	role := model.RoleAdmin
	_, err := svc.Update(ctx, 1, &dto.UpdateUserRequest{Role: &role}, 1)
	if !errors.Is(err, ErrUserSelfRoleChange) {
		t.Errorf("期望 ErrUserSelfRoleChange，实际: %v", err)
	}
}

func TestUserService_Update_MentorIsSelf(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()

	_ = m.user.Create(ctx, &model.User{ID: 1, Name: "Ana", Email: "ana@rpe.com"})

	mentorID := int64(1)
	_, err := svc.Update(ctx, 1, &dto.UpdateUserRequest{MentorID: &mentorID}, 99)
	if !errors.Is(err, ErrMentorIsSelf) {
		t.Errorf("期望 ErrMentorIsSelf，实际: %v", err)
	}
}

func TestUserService_Delete_Self(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()

	_ = m.user.Create(ctx, &model.User{ID: 1, Name: "Ana", Email: "ana@rpe.com"})

	if err := svc.Delete(ctx, 1, 1); !errors.Is(err, ErrUserSelfDelete) {
		t.Errorf("期望 ErrUserSelfDelete，实际: %v", err)
	}
}

// ── ImportUsers 测试 ──

// buildImportFile 在内存中构造导入用 Excel
func buildImportFile(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, v := range row {
			cellName, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				t.Fatalf("写入测试 Excel 失败: %v", err)
			}
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		t.Fatalf("生成测试 Excel 失败: %v", err)
	}
	return buf
}

func TestUserService_ImportUsers_Success(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()

	_ = m.track.Create(ctx, &model.Track{ID: 2, Name: "后端"})

	buf := buildImportFile(t, [][]string{
		{"姓名", "邮箱", "职位", "轨道"},
		{"Ana", "ana@rpe.com", "Dev", "后端"},
		{"Bruno", "bruno@rpe.com", "Dev", "后端"},
	})

	resp, err := svc.ImportUsers(ctx, buf)
	if err != nil {
		t.Fatalf("ImportUsers 应成功: %v", err)
	}
	if resp.Imported != 2 {
		t.Errorf("期望导入 2 人，实际=%d", resp.Imported)
	}
	if resp.Skipped != 0 {
		t.Errorf("期望跳过 0 人，实际=%d", resp.Skipped)
	}

	// 导入的用户角色为协作者
	user, err := m.user.GetByEmail(ctx, "ana@rpe.com")
	if err != nil {
		t.Fatalf("导入用户应已落库: %v", err)
	}
	if user.Role != model.RoleCollaborator {
		t.Errorf("导入用户角色应为 COLLABORATOR，实际=%s", user.Role)
	}
}

func TestUserService_ImportUsers_SkipsBadRows(t *testing.T) {
	svc, m := setupTestUserService()
	ctx := context.Background()

	_ = m.track.Create(ctx, &model.Track{ID: 2, Name: "后端"})
	_ = m.user.Create(ctx, &model.User{ID: 1, Name: "Ana", Email: "ana@rpe.com"})

	buf := buildImportFile(t, [][]string{
		{"姓名", "邮箱", "职位", "轨道"},
		{"Ana", "ana@rpe.com", "Dev", "后端"},   // 邮箱已存在
		{"", "semnome@rpe.com", "Dev", "后端"},  // 姓名为空
		{"Carla", "carla@rpe.com", "Dev", "前端"}, // 轨道不存在
		{"Bruno", "bruno@rpe.com", "Dev", "后端"},
	})

	resp, err := svc.ImportUsers(ctx, buf)
	if err != nil {
		t.Fatalf("ImportUsers 应成功: %v", err)
	}
	if resp.Imported != 1 {
		t.Errorf("期望导入 1 人，实际=%d", resp.Imported)
	}
	if resp.Skipped != 3 {
		t.Errorf("期望跳过 3 人，实际=%d", resp.Skipped)
	}
	if len(resp.Errors) != 3 {
		t.Errorf("期望 3 条错误明细，实际=%d", len(resp.Errors))
	}
}

func TestUserService_ImportUsers_BadHeader(t *testing.T) {
	svc, _ := setupTestUserService()

	buf := buildImportFile(t, [][]string{
		{"coluna1", "coluna2"},
		{"a", "b"},
	})

	_, err := svc.ImportUsers(context.Background(), buf)
	if !errors.Is(err, ErrImportBadHeader) {
		t.Errorf("期望 ErrImportBadHeader，实际: %v", err)
	}
}

func TestUserService_ImportUsers_NoData(t *testing.T) {
	svc, _ := setupTestUserService()

	buf := buildImportFile(t, [][]string{
		{"姓名", "邮箱", "职位", "轨道"},
	})

	_, err := svc.ImportUsers(context.Background(), buf)
	if !errors.Is(err, ErrImportNoData) {
		t.Errorf("期望 ErrImportNoData，实际: %v", err)
	}
}

// [自证通过] internal/service/user_service_test.go
