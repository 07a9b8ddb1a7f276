package service

import (
	"context"

	"covid_tracker/internal/model"
	"covid_tracker/internal/repository"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users  []*model.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{nextID: 1} }

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return repository.ErrUniqueViolation
		}
		if user.SocialID != nil && u.SocialID != nil && u.Provider != nil && user.Provider != nil &&
			*u.SocialID == *user.SocialID && *u.Provider == *user.Provider {
			return repository.ErrUniqueViolation
		}
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users = append(f.users, &stored)
	return nil
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindBySocial(_ context.Context, provider, socialID string) (*model.User, error) {
	for _, u := range f.users {
		if u.Provider != nil && u.SocialID != nil && *u.Provider == provider && *u.SocialID == socialID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id int, role string) error {
	for _, u := range f.users {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return repository.ErrUniqueViolation
}

type fakeStatRepo struct {
	stats  []model.CovidStat
	nextID int64
	err    error
}

func newFakeStatRepo() *fakeStatRepo { return &fakeStatRepo{nextID: 1} }

func (f *fakeStatRepo) Create(_ context.Context, stat *model.CovidStat) error {
	if f.err != nil {
		return f.err
	}
	stat.ID = f.nextID
	f.nextID++
	f.stats = append(f.stats, *stat)
	return nil
}

func (f *fakeStatRepo) FindByID(_ context.Context, id int64) (*model.CovidStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.stats {
		if s.ID == id {
			copied := s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStatRepo) FindAll(_ context.Context) ([]model.CovidStat, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.CovidStat, len(f.stats))
	copy(out, f.stats)
	return out, nil
}

func (f *fakeStatRepo) Update(_ context.Context, stat *model.CovidStat) error {
	if f.err != nil {
		return f.err
	}
	for i, s := range f.stats {
		if s.ID == stat.ID {
			f.stats[i] = *stat
			return nil
		}
	}
	return ErrStatNotFound
}

func (f *fakeStatRepo) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i, s := range f.stats {
		if s.ID == id {
			f.stats = append(f.stats[:i], f.stats[i+1:]...)
			return nil
		}
	}
	return ErrStatNotFound
}

func (f *fakeStatRepo) CreateBatch(_ context.Context, stats []model.CovidStat) error {
	if f.err != nil {
		return f.err
	}
	for i := range stats {
		stats[i].ID = f.nextID
		f.nextID++
		f.stats = append(f.stats, stats[i])
	}
	return nil
}
