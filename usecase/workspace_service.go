package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/lumi/domain"
	"github.com/satriahrh/lumi/utils/log"
)

// DefaultUserID is the identity used when a caller supplies none.
const DefaultUserID = "00000000-0000-0000-0000-000000000001"

const (
	defaultUserName  = "Usuário Teste"
	defaultUserEmail = "teste@lumi.com"

	// hoursPerCompletedTask is a presentation heuristic, not a measurement.
	hoursPerCompletedTask = 2

	simulatedConversationID = "temp-conversation-id"
)

// SimulatedStats is served when the store is not configured.
var SimulatedStats = domain.Stats{
	TasksCompleted:  12,
	ContentsCreated: 8,
	ActiveGoals:     3,
	HoursEconomized: 24,
}

var (
	ErrInvalidPillar   = errors.New("invalid pillar")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidRole     = errors.New("invalid message role")
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
)

// WorkspaceService reads and writes tasks, goals, content and conversations.
// Store failures are logged and swallowed; only validation errors are
// returned. A nil store, or configured=false, serves simulated data.
type WorkspaceService struct {
	store      domain.Store
	configured bool
	now        func() time.Time
}

func NewWorkspaceService(store domain.Store, configured bool) *WorkspaceService {
	return &WorkspaceService{
		store:      store,
		configured: configured && store != nil,
		now:        time.Now,
	}
}

func (s *WorkspaceService) Configured() bool {
	return s.configured
}

func userOrDefault(userID string) string {
	if userID == "" {
		return DefaultUserID
	}
	return userID
}

func optionalPillar(p domain.Pillar) error {
	if p != "" && !p.Valid() {
		return ErrInvalidPillar
	}
	return nil
}

// ensureUser lazily creates the user row before dependent writes. Two
// concurrent first writes may both try to insert; the loser fails and is logged.
func (s *WorkspaceService) ensureUser(ctx context.Context, userID string) bool {
	_, err := s.store.GetUser(ctx, userID)
	if err == nil {
		return true
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.WithCtx(ctx).Error("failed to look up user", zap.String("target_user", userID), zap.Error(err))
		return false
	}

	now := s.now()
	user := &domain.User{
		ID:        userID,
		Name:      defaultUserName,
		Email:     defaultUserEmail,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if userID != DefaultUserID {
		// email is unique; only the placeholder identity gets the placeholder address
		user.Email = ""
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		log.WithCtx(ctx).Error("failed to create user", zap.String("target_user", userID), zap.Error(err))
		return false
	}
	return true
}

func (s *WorkspaceService) GetStats(ctx context.Context, userID string) domain.Stats {
	if !s.configured {
		return SimulatedStats
	}
	userID = userOrDefault(userID)
	s.ensureUser(ctx, userID)

	logger := log.WithCtx(ctx)

	completed, err := s.store.CountTasks(ctx, domain.TaskFilter{UserID: userID, Status: domain.TaskCompleted})
	if err != nil {
		logger.Error("failed to count completed tasks", zap.Error(err))
		return domain.Stats{}
	}
	contents, err := s.store.CountContents(ctx, domain.ContentFilter{UserID: userID})
	if err != nil {
		logger.Error("failed to count contents", zap.Error(err))
		return domain.Stats{}
	}
	goals, err := s.store.CountGoals(ctx, domain.GoalFilter{UserID: userID, Status: domain.GoalActive})
	if err != nil {
		logger.Error("failed to count active goals", zap.Error(err))
		return domain.Stats{}
	}

	return domain.Stats{
		TasksCompleted:  completed,
		ContentsCreated: contents,
		ActiveGoals:     goals,
		HoursEconomized: completed * hoursPerCompletedTask,
	}
}

type CreateConversationInput struct {
	UserID string
	Pillar domain.Pillar
	Title  string
}

func (s *WorkspaceService) CreateConversation(ctx context.Context, in CreateConversationInput) (*domain.Conversation, error) {
	if err := optionalPillar(in.Pillar); err != nil {
		return nil, err
	}
	if !s.configured {
		return &domain.Conversation{ID: simulatedConversationID}, nil
	}

	userID := userOrDefault(in.UserID)
	s.ensureUser(ctx, userID)

	now := s.now()
	conv := &domain.Conversation{
		UserID:    userID,
		Pillar:    in.Pillar,
		Title:     in.Title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		log.WithCtx(ctx).Error("failed to create conversation", zap.Error(err))
		return nil, nil
	}
	return conv, nil
}

// SaveMessage appends to a conversation owned by userID. A conversation owned
// by someone else is treated as missing.
func (s *WorkspaceService) SaveMessage(ctx context.Context, userID, conversationID string, role domain.Role, content string) (*domain.Message, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if !s.configured {
		return nil, nil
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      s.now(),
	}
	if err := s.store.CreateMessage(ctx, userOrDefault(userID), msg); err != nil {
		log.WithCtx(ctx).Error("failed to save message", zap.String("conversation_id", conversationID), zap.Error(err))
		return nil, nil
	}
	return msg, nil
}

// GetMessages returns a conversation in chronological order, or nothing when
// userID does not own it.
func (s *WorkspaceService) GetMessages(ctx context.Context, userID, conversationID string) []domain.Message {
	if !s.configured {
		return []domain.Message{}
	}
	msgs, err := s.store.ListMessages(ctx, userOrDefault(userID), conversationID)
	if err != nil {
		log.WithCtx(ctx).Error("failed to list messages", zap.String("conversation_id", conversationID), zap.Error(err))
		return []domain.Message{}
	}
	return nonNil(msgs)
}

type SaveContentInput struct {
	UserID   string
	Pillar   domain.Pillar
	Type     string
	Title    string
	Content  string
	Metadata map[string]any
}

func (s *WorkspaceService) SaveContent(ctx context.Context, in SaveContentInput) (*domain.Content, error) {
	if err := optionalPillar(in.Pillar); err != nil {
		return nil, err
	}
	if in.Content == "" {
		return nil, ErrContentRequired
	}
	if !s.configured {
		return nil, nil
	}

	userID := userOrDefault(in.UserID)
	s.ensureUser(ctx, userID)

	now := s.now()
	content := &domain.Content{
		UserID:    userID,
		Pillar:    in.Pillar,
		Type:      in.Type,
		Title:     in.Title,
		Content:   in.Content,
		Metadata:  in.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateContent(ctx, content); err != nil {
		log.WithCtx(ctx).Error("failed to save content", zap.Error(err))
		return nil, nil
	}
	return content, nil
}

func (s *WorkspaceService) GetContents(ctx context.Context, filter domain.ContentFilter) ([]domain.Content, error) {
	if err := optionalPillar(filter.Pillar); err != nil {
		return nil, err
	}
	if !s.configured {
		return []domain.Content{}, nil
	}
	filter.UserID = userOrDefault(filter.UserID)
	contents, err := s.store.ListContents(ctx, filter)
	if err != nil {
		log.WithCtx(ctx).Error("failed to list contents", zap.Error(err))
		return []domain.Content{}, nil
	}
	return nonNil(contents), nil
}

type CreateGoalInput struct {
	UserID      string
	Title       string
	Description string
	Pillar      domain.Pillar
	TargetDate  *time.Time
}

func (s *WorkspaceService) CreateGoal(ctx context.Context, in CreateGoalInput) (*domain.Goal, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if err := optionalPillar(in.Pillar); err != nil {
		return nil, err
	}
	if !s.configured {
		return nil, nil
	}

	userID := userOrDefault(in.UserID)
	s.ensureUser(ctx, userID)

	now := s.now()
	goal := &domain.Goal{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.GoalActive,
		Pillar:      in.Pillar,
		TargetDate:  in.TargetDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		log.WithCtx(ctx).Error("failed to create goal", zap.Error(err))
		return nil, nil
	}
	return goal, nil
}

func (s *WorkspaceService) UpdateGoalStatus(ctx context.Context, userID, goalID string, status domain.GoalStatus) (*domain.Goal, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !s.configured {
		return nil, nil
	}
	goal, err := s.store.UpdateGoalStatus(ctx, userOrDefault(userID), goalID, status, s.now())
	if err != nil {
		log.WithCtx(ctx).Error("failed to update goal", zap.String("goal_id", goalID), zap.Error(err))
		return nil, nil
	}
	return goal, nil
}

func (s *WorkspaceService) GetGoals(ctx context.Context, filter domain.GoalFilter) ([]domain.Goal, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := optionalPillar(filter.Pillar); err != nil {
		return nil, err
	}
	if !s.configured {
		return []domain.Goal{}, nil
	}
	filter.UserID = userOrDefault(filter.UserID)
	goals, err := s.store.ListGoals(ctx, filter)
	if err != nil {
		log.WithCtx(ctx).Error("failed to list goals", zap.Error(err))
		return []domain.Goal{}, nil
	}
	return nonNil(goals), nil
}

type CreateTaskInput struct {
	UserID      string
	Title       string
	Description string
	Pillar      domain.Pillar
	Priority    domain.TaskPriority // empty means medium
	DueDate     *time.Time
	GoalID      *string
}

func (s *WorkspaceService) CreateTask(ctx context.Context, in CreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, ErrTitleRequired
	}
	if err := optionalPillar(in.Pillar); err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, ErrInvalidPriority
	}
	if !s.configured {
		return nil, nil
	}

	userID := userOrDefault(in.UserID)
	s.ensureUser(ctx, userID)

	now := s.now()
	task := &domain.Task{
		UserID:      userID,
		GoalID:      in.GoalID,
		Title:       in.Title,
		Description: in.Description,
		Status:      domain.TaskPending,
		Pillar:      in.Pillar,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateTask(ctx, task); err != nil {
		log.WithCtx(ctx).Error("failed to create task", zap.Error(err))
		return nil, nil
	}
	return task, nil
}

func (s *WorkspaceService) UpdateTaskStatus(ctx context.Context, userID, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if !s.configured {
		return nil, nil
	}
	task, err := s.store.UpdateTaskStatus(ctx, userOrDefault(userID), taskID, status, s.now())
	if err != nil {
		log.WithCtx(ctx).Error("failed to update task", zap.String("task_id", taskID), zap.Error(err))
		return nil, nil
	}
	return task, nil
}

func (s *WorkspaceService) GetTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if err := optionalPillar(filter.Pillar); err != nil {
		return nil, err
	}
	if !s.configured {
		return []domain.Task{}, nil
	}
	filter.UserID = userOrDefault(filter.UserID)
	tasks, err := s.store.ListTasks(ctx, filter)
	if err != nil {
		log.WithCtx(ctx).Error("failed to list tasks", zap.Error(err))
		return []domain.Task{}, nil
	}
	return nonNil(tasks), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
