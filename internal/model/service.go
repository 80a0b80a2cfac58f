package model

import "time"

// Service represents a fireworks display package in the public
// catalog.  Prices are integer cents; PriceRangeMin/Max bound the
// quoted range shown to clients while BasePriceCents is the starting
// point used when drafting a booking.
//
// Fields:
//  ID                – primary key identifier.
//  Name              – display name of the package.
//  Slug              – unique URL-friendly identifier.
//  Category          – catalog grouping (e.g. "wedding", "corporate").
//  Description       – long-form description.
//  Features          – JSON array of feature strings.
//  BasePriceCents    – starting price in cents.
//  PriceRangeMinCents, PriceRangeMaxCents – quoted price range.
//  Duration          – human-readable display duration.
//  IsPopular         – featured on the landing page.
//  IsActive          – soft-delete flag; inactive services are hidden.
//  DisplayOrder      – sort key for catalog listings.
//  MinGuests, MaxGuests – recommended audience size (nullable).
//  CreatedAt, UpdatedAt – audit timestamps.
type Service struct {
    ID                 uint64    // services.id
    Name               string    // services.name
    Slug               string    // services.slug
    Category           string    // services.category
    Description        string    // services.description
    Features           string    // services.features (JSON)
    BasePriceCents     int64     // services.base_price_cents
    PriceRangeMinCents int64     // services.price_range_min_cents
    PriceRangeMaxCents int64     // services.price_range_max_cents
    Duration           string    // services.duration
    IsPopular          bool      // services.is_popular
    IsActive           bool      // services.is_active
    DisplayOrder       int       // services.display_order
    MinGuests          *int      // services.min_guests (nullable)
    MaxGuests          *int      // services.max_guests (nullable)
    CreatedAt          time.Time // services.created_at
    UpdatedAt          time.Time // services.updated_at
}
