package family

import "time"

type Cache interface {
	GetByUserID(userID string) (*Membership, bool)
	SetByUserID(userID string, membership *Membership, ttl time.Duration)
	DeleteByUserID(userID string)
	Clear()
}

type noopCache struct{}

func (noopCache) GetByUserID(string) (*Membership, bool) {
	return nil, false
}

func (noopCache) SetByUserID(string, *Membership, time.Duration) {}

func (noopCache) DeleteByUserID(string) {}

func (noopCache) Clear() {}
