package service

import (
	"sort"

	"github.com/SathwikUK/Virtual-Study-Mugen/internal/models"
	"gorm.io/gorm"
)

// MockGroupRepository is an in-memory implementation of
// repository.GroupRepositoryInterface for tests.
type MockGroupRepository struct {
	groups      map[uint]*models.Group
	memberships map[uint]map[uint]struct{}
	nextID      uint
}

func NewMockGroupRepository() *MockGroupRepository {
	return &MockGroupRepository{
		groups:      make(map[uint]*models.Group),
		memberships: make(map[uint]map[uint]struct{}),
		nextID:      1,
	}
}

func (m *MockGroupRepository) Create(group *models.Group) error {
	if group.ID == 0 {
		group.ID = m.nextID
		m.nextID++
	}
	m.groups[group.ID] = group
	return nil
}

func (m *MockGroupRepository) FindByID(id uint) (*models.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *MockGroupRepository) Update(group *models.Group) error {
	if _, ok := m.groups[group.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.groups[group.ID] = group
	return nil
}

func (m *MockGroupRepository) AddMember(groupID, userID uint) error {
	if _, ok := m.memberships[groupID]; !ok {
		m.memberships[groupID] = make(map[uint]struct{})
	}
	m.memberships[groupID][userID] = struct{}{}
	return nil
}

func (m *MockGroupRepository) RemoveMember(groupID, userID uint) error {
	if gm, ok := m.memberships[groupID]; ok {
		delete(gm, userID)
	}
	return nil
}

func (m *MockGroupRepository) GetMembers(groupID uint) ([]models.User, error) {
	ids, _ := m.GetMemberIDs(groupID)
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, models.User{ID: id})
	}
	return users, nil
}

func (m *MockGroupRepository) GetMemberIDs(groupID uint) ([]uint, error) {
	var ids []uint
	if gm, ok := m.memberships[groupID]; ok {
		for uid := range gm {
			ids = append(ids, uid)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *MockGroupRepository) IsMember(groupID, userID uint) (bool, error) {
	if gm, ok := m.memberships[groupID]; ok {
		_, ok := gm[userID]
		return ok, nil
	}
	return false, nil
}

func (m *MockGroupRepository) GetUserGroups(userID uint) ([]models.Group, error) {
	var out []models.Group
	for gid, gm := range m.memberships {
		if _, ok := gm[userID]; ok {
			if g, ok := m.groups[gid]; ok {
				out = append(out, *g)
			}
		}
	}
	return out, nil
}
