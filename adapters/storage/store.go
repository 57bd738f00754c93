package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/utils/log"
)

// Store implements domain.Store on gorm. It never deletes rows.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the tables. Hosted databases usually manage
// their own schema; this is for local and test databases.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.With(zap.Int("tables", len(allModels()))).Info("database tables migrated")
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database connection: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// ─────────────────────────────────────────────
// users
// ─────────────────────────────────────────────

func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.toDomain(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	return m.toDomain(), nil
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	m := fromUser(user)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	*user = *m.toDomain()
	return nil
}

// ─────────────────────────────────────────────
// conversations & messages
// ─────────────────────────────────────────────

func (s *Store) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	m := &conversationModel{
		ID:        conv.ID,
		UserID:    conv.UserID,
		Pillar:    string(conv.Pillar),
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	*conv = m.toDomain()
	return nil
}

// ownConversation reports ErrNotFound unless the conversation belongs to userID.
func (s *Store) ownConversation(ctx context.Context, userID, conversationID string) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&conversationModel{}).
		Where("id = ? AND user_id = ?", conversationID, userID).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("look up conversation: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) CreateMessage(ctx context.Context, userID string, msg *domain.Message) error {
	if err := s.ownConversation(ctx, userID, msg.ConversationID); err != nil {
		return err
	}
	m := &messageModel{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Role:           string(msg.Role),
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	*msg = m.toDomain()
	return nil
}

// ListMessages is empty for a conversation the user does not own.
func (s *Store) ListMessages(ctx context.Context, userID, conversationID string) ([]domain.Message, error) {
	owned := s.db.Table(conversationModel{}.TableName()).Select("id").Where("user_id = ?", userID)
	var rows []messageModel
	err := s.db.WithContext(ctx).
		Where("conversation_id = ? AND conversation_id IN (?)", conversationID, owned).
		Order("created_at asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	out := make([]domain.Message, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// ─────────────────────────────────────────────
// contents
// ─────────────────────────────────────────────

func (s *Store) CreateContent(ctx context.Context, content *domain.Content) error {
	m, err := fromContent(content)
	if err != nil {
		return fmt.Errorf("encode content metadata: %w", err)
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	content.ID = m.ID
	return nil
}

func (s *Store) contentQuery(ctx context.Context, f domain.ContentFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&contentModel{}).Where("user_id = ?", f.UserID)
	if f.Pillar != "" {
		q = q.Where("pillar = ?", string(f.Pillar))
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	return q
}

func (s *Store) ListContents(ctx context.Context, f domain.ContentFilter) ([]domain.Content, error) {
	var rows []contentModel
	if err := s.contentQuery(ctx, f).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	out := make([]domain.Content, 0, len(rows))
	for i := range rows {
		c, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode content %s metadata: %w", rows[i].ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) CountContents(ctx context.Context, f domain.ContentFilter) (int64, error) {
	var n int64
	if err := s.contentQuery(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count contents: %w", err)
	}
	return n, nil
}

// completedAt keeps an existing completed_at when the row is already
// completed. SET expressions see the row as it was before the update.
func completedAt(completed string, at time.Time) clause.Expr {
	return gorm.Expr("CASE WHEN status = ? THEN completed_at ELSE ? END", completed, at)
}

// ─────────────────────────────────────────────
// goals
// ─────────────────────────────────────────────

func (s *Store) CreateGoal(ctx context.Context, goal *domain.Goal) error {
	m := fromGoal(goal)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	*goal = m.toDomain()
	return nil
}

// UpdateGoalStatus sets completed_at only on the transition to completed;
// repeating completed keeps the first timestamp.
func (s *Store) UpdateGoalStatus(ctx context.Context, userID, id string, status domain.GoalStatus, at time.Time) (*domain.Goal, error) {
	updates := map[string]any{"status": string(status), "updated_at": at}
	if status == domain.GoalCompleted {
		updates["completed_at"] = completedAt(string(status), at)
	}

	res := s.db.WithContext(ctx).Model(&goalModel{}).Where("id = ? AND user_id = ?", id, userID).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update goal: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var m goalModel
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	g := m.toDomain()
	return &g, nil
}

func (s *Store) goalQuery(ctx context.Context, f domain.GoalFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&goalModel{}).Where("user_id = ?", f.UserID)
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Pillar != "" {
		q = q.Where("pillar = ?", string(f.Pillar))
	}
	return q
}

func (s *Store) ListGoals(ctx context.Context, f domain.GoalFilter) ([]domain.Goal, error) {
	var rows []goalModel
	if err := s.goalQuery(ctx, f).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	out := make([]domain.Goal, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) CountGoals(ctx context.Context, f domain.GoalFilter) (int64, error) {
	var n int64
	if err := s.goalQuery(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return n, nil
}

// ─────────────────────────────────────────────
// tasks
// ─────────────────────────────────────────────

func (s *Store) CreateTask(ctx context.Context, task *domain.Task) error {
	m := fromTask(task)
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	*task = m.toDomain()
	return nil
}

// UpdateTaskStatus sets completed_at only on the transition to completed;
// repeating completed keeps the first timestamp.
func (s *Store) UpdateTaskStatus(ctx context.Context, userID, id string, status domain.TaskStatus, at time.Time) (*domain.Task, error) {
	updates := map[string]any{"status": string(status), "updated_at": at}
	if status == domain.TaskCompleted {
		updates["completed_at"] = completedAt(string(status), at)
	}

	res := s.db.WithContext(ctx).Model(&taskModel{}).Where("id = ? AND user_id = ?", id, userID).Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var m taskModel
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error; err != nil {
		return nil, notFound(err)
	}
	t := m.toDomain()
	return &t, nil
}

func (s *Store) taskQuery(ctx context.Context, f domain.TaskFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&taskModel{}).Where("user_id = ?", f.UserID)
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Pillar != "" {
		q = q.Where("pillar = ?", string(f.Pillar))
	}
	return q
}

func (s *Store) ListTasks(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	var rows []taskModel
	if err := s.taskQuery(ctx, f).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	out := make([]domain.Task, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (s *Store) CountTasks(ctx context.Context, f domain.TaskFilter) (int64, error) {
	var n int64
	if err := s.taskQuery(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return n, nil
}

var _ domain.Store = (*Store)(nil)
