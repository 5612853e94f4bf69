package model

import "time"

const (
	MessagePriorityLow    = "low"
	MessagePriorityNormal = "normal"
	MessagePriorityHigh   = "high"
)

const (
	MessageStatusDraft    = "draft"
	MessageStatusSent     = "sent"
	MessageStatusArchived = "archived"
	MessageStatusDeleted  = "deleted"
)

// Folder names are computed views over status and flags, not stored fields.
const (
	FolderInbox     = "inbox"
	FolderSent      = "sent"
	FolderDrafts    = "drafts"
	FolderStarred   = "starred"
	FolderImportant = "important"
	FolderArchived  = "archived"
	FolderTrash     = "trash"
)

// Attachment holds metadata only; the blob lives in object storage under
// ObjectKey when content was uploaded.
type Attachment struct {
	Filename  string `json:"filename"`
	Size      int64  `json:"size"`
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	ObjectKey string `json:"objectKey,omitempty"`
}

type Message struct {
	Model
	UserID         string       `gorm:"type:varchar(36);not null;index" json:"userId"`
	From           string       `gorm:"type:text;not null" json:"from"`
	To             []string     `gorm:"type:json;serializer:json" json:"to"`
	Cc             []string     `gorm:"type:json;serializer:json" json:"cc"`
	Bcc            []string     `gorm:"type:json;serializer:json" json:"bcc"`
	Subject        string       `gorm:"type:text;not null" json:"subject"`
	Body           string       `gorm:"type:text;not null" json:"body"`
	IsHTML         bool         `gorm:"not null;default:false" json:"isHtml"`
	Priority       string       `gorm:"type:varchar(16);not null;default:normal" json:"priority"`
	Status         string       `gorm:"type:varchar(16);not null;default:draft;index" json:"status"`
	IsRead         bool         `gorm:"not null;default:false" json:"isRead"`
	IsStarred      bool         `gorm:"not null;default:false" json:"isStarred"`
	IsImportant    bool         `gorm:"not null;default:false" json:"isImportant"`
	Labels         []string     `gorm:"type:json;serializer:json" json:"labels"`
	Attachments    []Attachment `gorm:"type:json;serializer:json" json:"attachments"`
	RelatedTaskID  string       `gorm:"type:varchar(36)" json:"relatedTaskId,omitempty"`
	RelatedEventID string       `gorm:"type:varchar(36)" json:"relatedEventId,omitempty"`
	ThreadID       string       `gorm:"type:varchar(64);index" json:"threadId,omitempty"`
	SentAt         *time.Time   `json:"sentAt,omitempty"`
}
