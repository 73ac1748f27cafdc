package handlers

import (
	"time"

	"github.com/vladimiradmaev/sweet-friend/internal/interfaces"
	"github.com/vladimiradmaev/sweet-friend/internal/state"
)

// Dependencies holds all service dependencies for handlers
type Dependencies struct {
	Users    interfaces.UserServiceInterface
	Chat     interfaces.ChatServiceInterface
	Food     interfaces.FoodAnalysisServiceInterface
	Logs     interfaces.LogServiceInterface
	Glucose  interfaces.GlucoseServiceInterface
	Advice   interfaces.AdviceServiceInterface
	// Dexcom is nil when no client credentials are configured
	Dexcom   interfaces.DexcomServiceInterface
	State    state.Store
	// Location is the time zone chart labels are shown in; nil means UTC
	Location *time.Location
}
