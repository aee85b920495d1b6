package family

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	inviteCodeLength   = 8
	inviteCodeAttempts = 10
	inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
}

// NewService builds the registry. A nil cache or non-positive ttl disables
// membership caching.
func NewService(repo Repository, cache Cache, cacheTTL time.Duration) *Service {
	if cache == nil || cacheTTL <= 0 {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

// ResolveMembership returns ErrNoFamily when the user is not affiliated.
func (s *Service) ResolveMembership(ctx context.Context, userID string) (*Membership, error) {
	if cached, ok := s.cache.GetByUserID(userID); ok {
		return cached, nil
	}

	familyID, err := s.repo.GetUserFamilyID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if familyID == nil || *familyID == "" {
		return nil, ErrNoFamily
	}

	family, err := s.repo.GetFamilyByID(ctx, *familyID)
	if err != nil {
		return nil, err
	}

	membership := NewMembership(userID, *family)
	s.cache.SetByUserID(userID, &membership, s.cacheTTL)
	return &membership, nil
}

func (s *Service) GetFamilyByUser(ctx context.Context, userID string) (*Family, Role, error) {
	membership, err := s.ResolveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoFamily) {
			return nil, "", ErrFamilyNotFound
		}
		return nil, "", err
	}
	family := membership.Family
	return &family, membership.Role, nil
}

func (s *Service) CreateFamily(ctx context.Context, userID string, input CreateFamilyInput) (*Family, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if input.MonthlyContribution.IsNegative() {
		return nil, ErrInvalidAmount
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetUserFamilyID(ctx, userID)
		if err != nil {
			return err
		}
		if current != nil && *current != "" {
			return ErrAlreadyInFamily
		}

		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		family := Family{
			ID:                  uuid.NewString(),
			Name:                name,
			InviteCode:          code,
			OwnerID:             userID,
			MonthlyContribution: input.MonthlyContribution.Round(2),
		}
		if err := tx.CreateFamily(ctx, &family); err != nil {
			return err
		}

		linked, err := tx.LinkUser(ctx, userID, family.ID)
		if err != nil {
			return err
		}
		if !linked {
			return ErrAlreadyInFamily
		}

		result = family
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByUserID(userID)
	return &result, nil
}

// JoinFamily refuses users that already belong to a family; switching
// families is not supported.
func (s *Service) JoinFamily(ctx context.Context, userID, code string) (*Family, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrCodeRequired
	}

	var result Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		family, err := tx.GetFamilyByCode(ctx, code)
		if err != nil {
			return err
		}

		linked, err := tx.LinkUser(ctx, userID, family.ID)
		if err != nil {
			return err
		}
		if !linked {
			return ErrAlreadyInFamily
		}

		result = *family
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.DeleteByUserID(userID)
	return &result, nil
}

// ListMembers returns an empty list for unaffiliated users. The owner comes
// first, the rest are sorted by name.
func (s *Service) ListMembers(ctx context.Context, userID string) ([]Member, error) {
	membership, err := s.ResolveMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoFamily) {
			return []Member{}, nil
		}
		return nil, err
	}

	members, err := s.repo.ListMembers(ctx, membership.FamilyID())
	if err != nil {
		return nil, err
	}

	for i := range members {
		members[i].Role = RoleFor(&membership.Family, members[i].UserID)
	}
	sort.SliceStable(members, func(i, j int) bool {
		if (members[i].Role == RoleOwner) != (members[j].Role == RoleOwner) {
			return members[i].Role == RoleOwner
		}
		return strings.ToLower(members[i].FullName) < strings.ToLower(members[j].FullName)
	})

	return members, nil
}

func (s *Service) IsMember(ctx context.Context, familyID, userID string) (bool, error) {
	return s.repo.IsMember(ctx, familyID, userID)
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < inviteCodeAttempts; i++ {
		code, err := generateCode(inviteCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func generateCode(length int) (string, error) {
	max := big.NewInt(int64(len(inviteCodeAlphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(inviteCodeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}
