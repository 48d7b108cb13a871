package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/kurochkinivan/iot_center/internal/domain"
)

type GroupService struct {
	log        *slog.Logger
	groups     GroupsRepository
	transactor Transactor
	cache      Cache
}

func NewGroupService(log *slog.Logger, groups GroupsRepository, transactor Transactor, cache Cache) *GroupService {
	return &GroupService{
		log:        log,
		groups:     groups,
		transactor: transactor,
		cache:      cache,
	}
}

func (s *GroupService) Names(ctx context.Context) ([]string, error) {
	return cached(ctx, s.cache, s.transactor, keyGroupNames, s.groups.Names)
}

func (s *GroupService) Groups(ctx context.Context) ([]*domain.Group, error) {
	return cached(ctx, s.cache, s.transactor, keyGroupsAll, s.groups.Groups)
}

func (s *GroupService) Default(ctx context.Context) (*domain.Group, error) {
	return cached(ctx, s.cache, s.transactor, keyGroupDefault, s.groups.Default)
}

func (s *GroupService) Group(ctx context.Context, id int64) (*domain.Group, error) {
	key := keyGroupByIDBase + strconv.FormatInt(id, 10)
	return cached(ctx, s.cache, s.transactor, key, func(ctx context.Context) (*domain.Group, error) {
		return s.groups.GroupByID(ctx, id)
	})
}

func (s *GroupService) NameExists(ctx context.Context, name string) (bool, error) {
	return s.groups.NameExists(ctx, name, 0)
}

func (s *GroupService) Create(ctx context.Context, in domain.GroupInput) (*domain.Group, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var group *domain.Group
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.groups.NameExists(ctx, in.Name, 0)
		if err != nil {
			return fmt.Errorf("failed to check group name: %w", err)
		}
		if exists {
			return domain.ErrGroupExists
		}

		group, err = s.groups.CreateGroup(ctx, in)
		if err != nil {
			return fmt.Errorf("failed to create group: %w", err)
		}

		invalidate(ctx, s.cache, s.transactor, keyGroupsPrefix)

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "group created", slog.Int64("id", group.ID), slog.String("group_name", group.Name))

	return group, nil
}

// Update renames a group and changes its description. The default group is
// immutable, and the new name must not belong to another group.
func (s *GroupService) Update(ctx context.Context, id int64, in domain.GroupInput) (*domain.Group, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var group *domain.Group
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.groups.GroupByID(ctx, id)
		if err != nil {
			return err
		}
		if current.IsDefault {
			return domain.ErrDefaultGroupLocked
		}

		taken, err := s.groups.NameExists(ctx, in.Name, id)
		if err != nil {
			return fmt.Errorf("failed to check group name: %w", err)
		}
		if taken {
			return domain.ErrGroupExists
		}

		group, err = s.groups.UpdateGroup(ctx, id, in)
		if err != nil {
			return err
		}

		invalidate(ctx, s.cache, s.transactor, keyGroupsPrefix)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// Delete removes a group after moving its devices to the default group.
func (s *GroupService) Delete(ctx context.Context, id int64) (*domain.GroupDeletion, error) {
	var res *domain.GroupDeletion
	err := s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		group, err := s.groups.GroupByID(ctx, id)
		if err != nil {
			return err
		}
		if group.IsDefault {
			return domain.ErrDefaultGroupLocked
		}

		def, err := s.groups.Default(ctx)
		if err != nil {
			return err
		}

		moved, err := s.groups.ReassignAndDelete(ctx, id, group.Name, def.Name)
		if err != nil {
			return err
		}

		res = &domain.GroupDeletion{
			DeletedGroupID:    group.ID,
			DeletedGroupName:  group.Name,
			MovedDevicesCount: moved,
			DefaultGroupName:  def.Name,
		}

		invalidate(ctx, s.cache, s.transactor, keyGroupsPrefix)

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "group deleted",
		slog.String("group_name", res.DeletedGroupName),
		slog.Int64("moved_devices", res.MovedDevicesCount))

	return res, nil
}
