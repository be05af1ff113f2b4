package matching

import (
	"github.com/google/uuid"

	"github.com/plantswapio/plantswap-backend/pkg/enums"
)

// PerfectMatchTrade is a symmetric trade opportunity where both
// parties hold something the other wants.
type PerfectMatchTrade struct {
	RequestingUserID   uuid.UUID       `json:"requesting_user_id"`
	RequestingUsername string          `json:"requesting_username"`
	ReceivingUserID    uuid.UUID       `json:"receiving_user_id"`
	ReceivingUsername  string          `json:"receiving_username"`
	SpeciesID          uuid.UUID       `json:"species_id"`
	Kind               enums.MatchKind `json:"kind"`
}

// TradeCandidate is a potential trading partner with tiered match counts.
// Species matches rank strictly above genus/family matches.
type TradeCandidate struct {
	UserID          uuid.UUID       `json:"user_id"`
	Username        string          `json:"username"`
	SpeciesMatches  int             `json:"species_matches"`
	OtherMatches    int             `json:"other_matches"`
	TradeInProgress int             `json:"trade_in_progress"`
	Kind            enums.MatchKind `json:"kind"`
}
