package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Task progress statuses. A row only ever moves forward, except for a
// verification rejection which drops it back to AVAILABLE.
const (
	TaskStatusLocked        = "LOCKED"
	TaskStatusAvailable     = "AVAILABLE"
	TaskStatusInProgress    = "IN_PROGRESS"
	TaskStatusPendingVerify = "PENDING_VERIFY"
	TaskStatusCompleted     = "COMPLETED"
)

// Coin transaction type tags.
const (
	CoinTxTypeSignupBonus   = "SIGNUP_BONUS"
	CoinTxTypeTaskReward    = "TASK_REWARD"
	CoinTxTypeReferralBonus = "REFERRAL_BONUS"
	CoinTxTypePurchase      = "PURCHASE"
	CoinTxTypeAdminAdjust   = "ADMIN_ADJUSTMENT"
)

const (
	ReferralStatusRegistered         = "REGISTERED"
	ReferralStatusCompletedFirstTask = "COMPLETED_FIRST_TASK"
	ReferralStatusRewardGiven        = "REWARD_GIVEN"
)

// Reference types carried on coin transactions.
const (
	ReferenceTypeUserTask = "user_task"
	ReferenceTypeReferral = "referral"
	ReferenceTypeOrder    = "order"
)

// System setting keys.
const (
	SettingSignupBonusCoins   = "signup_bonus_coins"
	SettingReferralBonusCoins = "referral_bonus_coins"
)
