package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles and A/B testing.
// Supports gradual rollout, user targeting, and time-windowed experiments.
//
// Product alignment: the hub rewards teaching as much as learning, so
// gamification toggles (boards, badges, points) default on and social
// surfaces roll out gradually.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	userOverrides map[int]map[string]bool // userID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Users are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time

	// A/B test variant (for experiments)
	Variants []string
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	UserID  int  // Community user ID
	IsAdmin bool // Is admin user
}

// Predefined feature flag names.
const (
	// === Matching Features ===
	FeatureMatchFinder       = "match.finder"        // Skill-complement match finder
	FeatureMatchAIRecommend  = "match.ai_recommend"  // LLM-backed recommendations
	FeatureMatchShowReason   = "match.show_reason"   // "Offers X" / "Wants X" labels
	FeatureMatchLocationHint = "match.location_hint" // Show candidate locations

	// === Leaderboard Features ===
	FeatureBoardTopTeachers  = "board.top_teachers"  // Taught-sessions board
	FeatureBoardTopLearners  = "board.top_learners"  // Learned-sessions board
	FeatureBoardMonthly      = "board.monthly"       // This-month learner board
	FeatureBoardTopRated     = "board.top_rated"     // Average-rating board
	FeatureBoardRedisCache   = "board.redis_cache"   // Serve boards from Redis
	FeatureBoardGlobalPoints = "board.global_points" // Full points ranking

	// === Reputation Features ===
	FeatureBadgesDerived = "badges.derived" // Recompute badges from stats
	FeatureBadgesShowAll = "badges.show_all" // Show locked badges too

	// === Session Features ===
	FeatureSessionBooking     = "session.booking"      // Book sessions from matches
	FeatureSessionPointsAward = "session.points_award" // Points on completion
	FeatureSessionReviews     = "session.reviews"      // Review completed sessions

	// === Messaging Features ===
	FeatureMessagingInbox  = "messaging.inbox"  // Conversation list
	FeatureMessagingUnread = "messaging.unread" // Unread indicators
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:      make(map[string]*Feature),
		userOverrides: make(map[int]map[string]bool),
	}

	// Initialize all features with defaults
	ff.initializeDefaults()

	// Load overrides from environment
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Matching features - the finder is the core product, always on
	ff.features[FeatureMatchFinder] = &Feature{
		Name:           FeatureMatchFinder,
		Description:    "Skill-complement match finder",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureMatchAIRecommend] = &Feature{
		Name:           FeatureMatchAIRecommend,
		Description:    "LLM-backed match recommendations",
		Enabled:        true,
		RolloutPercent: 50, // Gradual rollout while model costs settle
	}

	ff.features[FeatureMatchShowReason] = &Feature{
		Name:           FeatureMatchShowReason,
		Description:    "Show match reason labels",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureMatchLocationHint] = &Feature{
		Name:           FeatureMatchLocationHint,
		Description:    "Show candidate locations on match cards",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Leaderboard features - all four boards ship together
	ff.features[FeatureBoardTopTeachers] = &Feature{
		Name:           FeatureBoardTopTeachers,
		Description:    "Top teachers board",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureBoardTopLearners] = &Feature{
		Name:           FeatureBoardTopLearners,
		Description:    "Top learners board",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureBoardMonthly] = &Feature{
		Name:           FeatureBoardMonthly,
		Description:    "Monthly learner board",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureBoardTopRated] = &Feature{
		Name:           FeatureBoardTopRated,
		Description:    "Top rated teachers board",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureBoardRedisCache] = &Feature{
		Name:           FeatureBoardRedisCache,
		Description:    "Serve leaderboards from Redis cache",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureBoardGlobalPoints] = &Feature{
		Name:           FeatureBoardGlobalPoints,
		Description:    "Full community points ranking",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Reputation features
	ff.features[FeatureBadgesDerived] = &Feature{
		Name:           FeatureBadgesDerived,
		Description:    "Derive badges from session stats",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureBadgesShowAll] = &Feature{
		Name:           FeatureBadgesShowAll,
		Description:    "Show locked badges on profiles",
		Enabled:        false, // Phase 2
		RolloutPercent: 0,
	}

	// Session features
	ff.features[FeatureSessionBooking] = &Feature{
		Name:           FeatureSessionBooking,
		Description:    "Book sessions from match cards",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureSessionPointsAward] = &Feature{
		Name:           FeatureSessionPointsAward,
		Description:    "Award points when sessions complete",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureSessionReviews] = &Feature{
		Name:           FeatureSessionReviews,
		Description:    "Review completed sessions",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Messaging features
	ff.features[FeatureMessagingInbox] = &Feature{
		Name:           FeatureMessagingInbox,
		Description:    "Conversation inbox",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureMessagingUnread] = &Feature{
		Name:           FeatureMessagingUnread,
		Description:    "Unread message indicators",
		Enabled:        true,
		RolloutPercent: 50, // A/B test
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_MATCH_AI_RECOMMEND=true
// Example: FEATURE_MESSAGING_UNREAD=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "match.ai_recommend" -> "FEATURE_MATCH_AI_RECOMMEND"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check user overrides first
	if ctx != nil && ctx.UserID != 0 {
		if userOverrides, ok := ff.userOverrides[ctx.UserID]; ok {
			if enabled, ok := userOverrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admin users get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	// Check if feature is enabled at all
	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.UserID != 0 {
		return ff.isInRollout(ctx.UserID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a user is in the rollout percentage.
// Uses consistent hashing so users stay in their bucket.
func (ff *FeatureFlags) isInRollout(userID int, featureName string, percent int) bool {
	// Create a consistent hash for this user+feature combination
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(strconv.Itoa(userID)))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// GetVariant returns the A/B test variant for a user.
// Returns empty string if no variants defined or feature disabled.
func (ff *FeatureFlags) GetVariant(featureName string, ctx *FeatureContext) string {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok || !ff.IsEnabled(featureName, ctx) {
		return ""
	}

	if len(feature.Variants) == 0 {
		return ""
	}

	// Use consistent hashing to assign variant
	h := fnv.New32a()
	h.Write([]byte(featureName + "_variant"))
	h.Write([]byte(strconv.Itoa(ctx.UserID)))
	hash := h.Sum32()

	variantIndex := int(hash % uint32(len(feature.Variants)))
	return feature.Variants[variantIndex]
}

// SetUserOverride sets a feature override for a specific user.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetUserOverride(userID int, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.userOverrides[userID]; !ok {
		ff.userOverrides[userID] = make(map[string]bool)
	}
	ff.userOverrides[userID][featureName] = enabled
}

// ClearUserOverrides removes all overrides for a user.
func (ff *FeatureFlags) ClearUserOverrides(userID int) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.userOverrides, userID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		// Return a copy
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// BoardsEnabled checks if any leaderboard surface is enabled.
func (ff *FeatureFlags) BoardsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureBoardTopTeachers, ctx) ||
		ff.IsEnabled(FeatureBoardTopLearners, ctx) ||
		ff.IsEnabled(FeatureBoardMonthly, ctx) ||
		ff.IsEnabled(FeatureBoardTopRated, ctx)
}

// AIRecommendationsEnabled checks if the LLM recommender may be called.
func (ff *FeatureFlags) AIRecommendationsEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureMatchAIRecommend, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
