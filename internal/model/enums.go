package model

// FlowKind distinguishes the two independent conversation kinds a user can
// run. At most one session per kind is active at a time.
type FlowKind string

const (
	FlowReport FlowKind = "report"
	FlowSearch FlowKind = "search"
)

type Step string

const (
	StepCity         Step = "city"
	StepStore        Step = "store"
	StepBranch       Step = "branch"
	StepStoreConfirm Step = "store_confirm"
	StepProduct      Step = "product"
	StepBrand        Step = "brand"
	StepUnitType     Step = "unit_type"
	StepUnitQuantity Step = "unit_quantity"
	StepPrice        Step = "price"
	StepUnits        Step = "units"
	StepClub         Step = "club"
	StepLimit        Step = "limit"
	StepCart         Step = "cart"
	StepComplete     Step = "complete"
	StepCanceled     Step = "canceled"

	// Search flow only.
	StepLocation Step = "location"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)
