package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Pillar    Pillar    `json:"pillar,omitempty"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is immutable once written.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Content is a generated artifact such as a caption or a video script.
type Content struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Pillar    Pillar         `json:"pillar,omitempty"`
	Type      string         `json:"type,omitempty"`
	Title     string         `json:"title,omitempty"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalCancelled GoalStatus = "cancelled"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case GoalActive, GoalCompleted, GoalCancelled:
		return true
	}
	return false
}

type Goal struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      GoalStatus `json:"status"`
	Pillar      Pillar     `json:"pillar,omitempty"`
	TargetDate  *time.Time `json:"target_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted, TaskCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	GoalID      *string      `json:"goal_id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Pillar      Pillar       `json:"pillar,omitempty"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// Stats is the dashboard summary for one user.
type Stats struct {
	TasksCompleted  int64 `json:"tasksCompleted"`
	ContentsCreated int64 `json:"contentsCreated"`
	ActiveGoals     int64 `json:"activeGoals"`
	HoursEconomized int64 `json:"hoursEconomized"`
}

// Empty values in a filter match everything.
type TaskFilter struct {
	UserID string
	Status TaskStatus
	Pillar Pillar
}

type GoalFilter struct {
	UserID string
	Status GoalStatus
	Pillar Pillar
}

type ContentFilter struct {
	UserID string
	Pillar Pillar
	Type   string
}

// Store is the hosted relational store. Implementations return ErrNotFound
// for missing rows and never delete. Rows owned by another user count as
// missing.
type Store interface {
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, user *User) error

	CreateConversation(ctx context.Context, conv *Conversation) error
	CreateMessage(ctx context.Context, userID string, msg *Message) error
	ListMessages(ctx context.Context, userID, conversationID string) ([]Message, error)

	CreateContent(ctx context.Context, content *Content) error
	ListContents(ctx context.Context, filter ContentFilter) ([]Content, error)
	CountContents(ctx context.Context, filter ContentFilter) (int64, error)

	CreateGoal(ctx context.Context, goal *Goal) error
	UpdateGoalStatus(ctx context.Context, userID, id string, status GoalStatus, at time.Time) (*Goal, error)
	ListGoals(ctx context.Context, filter GoalFilter) ([]Goal, error)
	CountGoals(ctx context.Context, filter GoalFilter) (int64, error)

	CreateTask(ctx context.Context, task *Task) error
	UpdateTaskStatus(ctx context.Context, userID, id string, status TaskStatus, at time.Time) (*Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	CountTasks(ctx context.Context, filter TaskFilter) (int64, error)
}
