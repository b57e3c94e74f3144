//go:build wireinject

package dao

import (
	"Ninety/dao/cache"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewMember,
	NewPoint,
	NewToken,
	NewRedemption,
	NewPointRequest,
	NewSystemConfig,
	NewAdmin,
	cache.NewConversationStorage,
	cache.NewLockStorage,
)
