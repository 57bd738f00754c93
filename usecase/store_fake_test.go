package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/satriahrh/lumi/domain"
)

// memStore is an in-memory domain.Store. Setting err makes every call fail.
type memStore struct {
	mu       sync.Mutex
	err      error
	seq      int
	users    map[string]*domain.User
	convs    []domain.Conversation
	messages []domain.Message
	contents []domain.Content
	goals    []domain.Goal
	tasks    []domain.Task
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*domain.User{}}
}

func (m *memStore) id() string {
	m.seq++
	return fmt.Sprintf("id-%d", m.seq)
}

func (m *memStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) CreateUser(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if user.ID == "" {
		user.ID = m.id()
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) CreateConversation(_ context.Context, conv *domain.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	conv.ID = m.id()
	m.convs = append(m.convs, *conv)
	return nil
}

func (m *memStore) ownsConversation(userID, conversationID string) bool {
	for _, c := range m.convs {
		if c.ID == conversationID && c.UserID == userID {
			return true
		}
	}
	return false
}

func (m *memStore) CreateMessage(_ context.Context, userID string, msg *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if !m.ownsConversation(userID, msg.ConversationID) {
		return domain.ErrNotFound
	}
	msg.ID = m.id()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *memStore) ListMessages(_ context.Context, userID, conversationID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if !m.ownsConversation(userID, conversationID) {
		return nil, nil
	}
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *memStore) CreateContent(_ context.Context, content *domain.Content) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	content.ID = m.id()
	m.contents = append(m.contents, *content)
	return nil
}

func (m *memStore) matchContents(f domain.ContentFilter) []domain.Content {
	var out []domain.Content
	for _, c := range m.contents {
		if c.UserID != f.UserID || (f.Pillar != "" && c.Pillar != f.Pillar) || (f.Type != "" && c.Type != f.Type) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (m *memStore) ListContents(_ context.Context, f domain.ContentFilter) ([]domain.Content, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.matchContents(f), nil
}

func (m *memStore) CountContents(_ context.Context, f domain.ContentFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.matchContents(f))), nil
}

func (m *memStore) CreateGoal(_ context.Context, goal *domain.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	goal.ID = m.id()
	m.goals = append(m.goals, *goal)
	return nil
}

func (m *memStore) UpdateGoalStatus(_ context.Context, userID, id string, status domain.GoalStatus, at time.Time) (*domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.goals {
		if m.goals[i].ID == id && m.goals[i].UserID == userID {
			if status == domain.GoalCompleted && m.goals[i].Status != domain.GoalCompleted {
				m.goals[i].CompletedAt = &at
			}
			m.goals[i].Status = status
			m.goals[i].UpdatedAt = at
			g := m.goals[i]
			return &g, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) matchGoals(f domain.GoalFilter) []domain.Goal {
	var out []domain.Goal
	for _, g := range m.goals {
		if g.UserID != f.UserID || (f.Status != "" && g.Status != f.Status) || (f.Pillar != "" && g.Pillar != f.Pillar) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func (m *memStore) ListGoals(_ context.Context, f domain.GoalFilter) ([]domain.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.matchGoals(f), nil
}

func (m *memStore) CountGoals(_ context.Context, f domain.GoalFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.matchGoals(f))), nil
}

func (m *memStore) CreateTask(_ context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	task.ID = m.id()
	m.tasks = append(m.tasks, *task)
	return nil
}

func (m *memStore) UpdateTaskStatus(_ context.Context, userID, id string, status domain.TaskStatus, at time.Time) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id && m.tasks[i].UserID == userID {
			if status == domain.TaskCompleted && m.tasks[i].Status != domain.TaskCompleted {
				m.tasks[i].CompletedAt = &at
			}
			m.tasks[i].Status = status
			m.tasks[i].UpdatedAt = at
			t := m.tasks[i]
			return &t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) matchTasks(f domain.TaskFilter) []domain.Task {
	var out []domain.Task
	for _, t := range m.tasks {
		if t.UserID != f.UserID || (f.Status != "" && t.Status != f.Status) || (f.Pillar != "" && t.Pillar != f.Pillar) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (m *memStore) ListTasks(_ context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.matchTasks(f), nil
}

func (m *memStore) CountTasks(_ context.Context, f domain.TaskFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.matchTasks(f))), nil
}

var _ domain.Store = (*memStore)(nil)
