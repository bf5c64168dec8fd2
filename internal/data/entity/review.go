package entity

import "github.com/google/uuid"

type Review struct {
	BaseSimple
	ListingID uuid.UUID `db:"listing_id"`
	UserName  string    `db:"user_name"`
	Rating    int       `db:"rating"`
	Text      string    `db:"text"`
}
