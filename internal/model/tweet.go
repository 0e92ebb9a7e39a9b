package model

import "time"

// Tweet is a user-owned record in the `tweets` table.  Ownership is
// established at creation from the authenticated identity and never
// changes afterwards; only the text is mutable.
type Tweet struct {
    ID        uint64    `json:"id"`
    UserID    uint64    `json:"user_id"`
    Text      string    `json:"text"`
    CreatedAt time.Time `json:"created_at"`
    UpdatedAt time.Time `json:"updated_at"`
}
