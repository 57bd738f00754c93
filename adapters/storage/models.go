package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/satriahrh/lumi/domain"
)

// userModel.Email is nullable so the unique index admits many users
// without an address.
type userModel struct {
	ID           string  `gorm:"type:uuid;primaryKey"`
	Name         string  `gorm:"size:255"`
	Email        *string `gorm:"size:255;uniqueIndex"`
	PasswordHash string  `gorm:"size:255"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m *userModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type conversationModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;not null;index"`
	Pillar    string `gorm:"size:32"`
	Title     string `gorm:"size:500"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (conversationModel) TableName() string { return "conversations" }

func (m *conversationModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type messageModel struct {
	ID             string `gorm:"type:uuid;primaryKey"`
	ConversationID string `gorm:"type:uuid;not null;index"`
	Role           string `gorm:"size:16;not null"`
	Content        string `gorm:"type:text;not null"`
	CreatedAt      time.Time
}

func (messageModel) TableName() string { return "messages" }

func (m *messageModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type contentModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	UserID    string `gorm:"type:uuid;not null;index"`
	Pillar    string `gorm:"size:32;index"`
	Type      string `gorm:"size:64"`
	Title     string `gorm:"size:500"`
	Content   string `gorm:"type:text;not null"`
	Metadata  datatypes.JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (contentModel) TableName() string { return "contents" }

func (m *contentModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type goalModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	UserID      string `gorm:"type:uuid;not null;index"`
	Title       string `gorm:"size:500;not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:16;not null;default:'active';index"`
	Pillar      string `gorm:"size:32;index"`
	TargetDate  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func (goalModel) TableName() string { return "goals" }

func (m *goalModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type taskModel struct {
	ID          string  `gorm:"type:uuid;primaryKey"`
	UserID      string  `gorm:"type:uuid;not null;index"`
	GoalID      *string `gorm:"type:uuid;index"`
	Title       string  `gorm:"size:500;not null"`
	Description string  `gorm:"type:text"`
	Status      string  `gorm:"size:16;not null;default:'pending';index"`
	Pillar      string  `gorm:"size:32;index"`
	Priority    string  `gorm:"size:8;not null;default:'medium'"`
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

func (taskModel) TableName() string { return "tasks" }

func (m *taskModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func allModels() []any {
	return []any{
		&userModel{},
		&conversationModel{},
		&messageModel{},
		&contentModel{},
		&goalModel{},
		&taskModel{},
	}
}

// ─────────────────────────────────────────────
// domain conversions
// ─────────────────────────────────────────────

func fromUser(u *domain.User) *userModel {
	m := &userModel{
		ID:           u.ID,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.Email != "" {
		email := u.Email
		m.Email = &email
	}
	return m
}

func (m *userModel) toDomain() *domain.User {
	u := &domain.User{
		ID:           m.ID,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Email != nil {
		u.Email = *m.Email
	}
	return u
}

func (m *conversationModel) toDomain() domain.Conversation {
	return domain.Conversation{
		ID:        m.ID,
		UserID:    m.UserID,
		Pillar:    domain.Pillar(m.Pillar),
		Title:     m.Title,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (m *messageModel) toDomain() domain.Message {
	return domain.Message{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		Role:           domain.Role(m.Role),
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
	}
}

func fromContent(c *domain.Content) (*contentModel, error) {
	m := &contentModel{
		ID:        c.ID,
		UserID:    c.UserID,
		Pillar:    string(c.Pillar),
		Type:      c.Type,
		Title:     c.Title,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Metadata != nil {
		raw, err := json.Marshal(c.Metadata)
		if err != nil {
			return nil, err
		}
		m.Metadata = datatypes.JSON(raw)
	}
	return m, nil
}

func (m *contentModel) toDomain() (domain.Content, error) {
	c := domain.Content{
		ID:        m.ID,
		UserID:    m.UserID,
		Pillar:    domain.Pillar(m.Pillar),
		Type:      m.Type,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &c.Metadata); err != nil {
			return c, err
		}
	}
	return c, nil
}

func fromGoal(g *domain.Goal) *goalModel {
	return &goalModel{
		ID:          g.ID,
		UserID:      g.UserID,
		Title:       g.Title,
		Description: g.Description,
		Status:      string(g.Status),
		Pillar:      string(g.Pillar),
		TargetDate:  g.TargetDate,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		CompletedAt: g.CompletedAt,
	}
}

func (m *goalModel) toDomain() domain.Goal {
	return domain.Goal{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.GoalStatus(m.Status),
		Pillar:      domain.Pillar(m.Pillar),
		TargetDate:  m.TargetDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CompletedAt: m.CompletedAt,
	}
}

func fromTask(t *domain.Task) *taskModel {
	return &taskModel{
		ID:          t.ID,
		UserID:      t.UserID,
		GoalID:      t.GoalID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Pillar:      string(t.Pillar),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func (m *taskModel) toDomain() domain.Task {
	return domain.Task{
		ID:          m.ID,
		UserID:      m.UserID,
		GoalID:      m.GoalID,
		Title:       m.Title,
		Description: m.Description,
		Status:      domain.TaskStatus(m.Status),
		Pillar:      domain.Pillar(m.Pillar),
		Priority:    domain.TaskPriority(m.Priority),
		DueDate:     m.DueDate,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CompletedAt: m.CompletedAt,
	}
}
