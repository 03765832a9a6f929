package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUpdatedAt = "updated_at"
	fieldIsDoctor  = "is_doctor"
	fieldStatus    = "status"
	fieldPhotoKey  = "photo_key"
	fieldUnseen    = "unseen_notifications"
	fieldSeen      = "seen_notifications"
)
