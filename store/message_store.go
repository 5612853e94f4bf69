package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/10srav/tasksaver/model"
)

// MessageQuery narrows a message listing. Folder is a computed view over
// status and flags; Status filters on the raw column when set.
type MessageQuery struct {
	Folder string
	Status string
	Limit  int
	Page   int
}

// Pagination describes one page of a message listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// MessageStore handles CRUD for messages. All operations are scoped to the
// owning user. Delete is a status transition, never a row removal.
type MessageStore struct {
	db *gorm.DB
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db}
}

func (s *MessageStore) Create(ctx context.Context, msg *model.Message) error {
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (s *MessageStore) List(ctx context.Context, userID string, q MessageQuery) ([]model.Message, Pagination, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	tx := s.db.WithContext(ctx).Model(&model.Message{}).Where("user_id = ?", userID)
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	tx = applyFolder(tx, q.Folder)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count messages: %w", err)
	}

	var messages []model.Message
	if err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&messages).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("list messages: %w", err)
	}

	pages := int((total + int64(q.Limit) - 1) / int64(q.Limit))
	return messages, Pagination{Page: q.Page, Limit: q.Limit, Total: total, Pages: pages}, nil
}

// applyFolder translates a folder name into its query. Trashed messages only
// show up in the trash folder; every other folder excludes them by status.
func applyFolder(tx *gorm.DB, folder string) *gorm.DB {
	switch folder {
	case model.FolderInbox:
		return tx.Where("status IN ?", []string{model.MessageStatusSent, model.MessageStatusDraft})
	case model.FolderSent:
		return tx.Where("status = ?", model.MessageStatusSent)
	case model.FolderDrafts:
		return tx.Where("status = ?", model.MessageStatusDraft)
	case model.FolderStarred:
		return tx.Where("is_starred = ?", true)
	case model.FolderImportant:
		return tx.Where("is_important = ?", true)
	case model.FolderArchived:
		return tx.Where("status = ?", model.MessageStatusArchived)
	case model.FolderTrash:
		return tx.Where("status = ?", model.MessageStatusDeleted)
	default:
		return tx
	}
}

// FindByID fetches a message regardless of status, so trashed messages stay
// retrievable by direct lookup.
func (s *MessageStore) FindByID(ctx context.Context, userID, messageID string) (*model.Message, error) {
	var msg model.Message
	if err := s.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, messageID).
		First(&msg).Error; err != nil {
		return nil, notFound(err)
	}
	return &msg, nil
}

func (s *MessageStore) Save(ctx context.Context, msg *model.Message) error {
	if err := s.db.WithContext(ctx).Save(msg).Error; err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// MoveToTrash is the soft delete: the row stays, only the status changes.
func (s *MessageStore) MoveToTrash(ctx context.Context, userID, messageID string) (*model.Message, error) {
	msg, err := s.FindByID(ctx, userID, messageID)
	if err != nil {
		return nil, err
	}
	msg.Status = model.MessageStatusDeleted
	if err := s.Save(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *MessageStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Message{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
