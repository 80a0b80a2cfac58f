package model

import "time"

// Testimonial is a client review.  New testimonials always start
// unapproved and only appear publicly once an admin approves them.
//
// Fields:
//  ID          – primary key identifier.
//  ClientName  – reviewer's name.
//  EventType   – kind of event the review refers to.
//  EventDate   – when the event took place (nullable).
//  Rating      – 1 to 5 stars.
//  Testimonial – review body.
//  IsApproved  – admin approval flag (false on intake).
//  IsFeatured  – shown prominently on the landing page.
//  CreatedAt   – submission timestamp.
type Testimonial struct {
    ID          uint64     // testimonials.id
    ClientName  string     // testimonials.client_name
    EventType   string     // testimonials.event_type
    EventDate   *time.Time // testimonials.event_date (nullable)
    Rating      int        // testimonials.rating
    Testimonial string     // testimonials.testimonial
    IsApproved  bool       // testimonials.is_approved
    IsFeatured  bool       // testimonials.is_featured
    CreatedAt   time.Time  // testimonials.created_at
}

// NewsletterSubscriber is an entry on the mailing list.  Emails are
// unique; unsubscribing flips IsActive instead of deleting the row so
// a resubscribe can reactivate the original record.
//
// Fields:
//  ID             – primary key identifier.
//  Email          – unique, stored lowercase.
//  Name           – optional display name.
//  Source         – where the subscription came from (e.g. "website").
//  IsActive       – subscription state.
//  SubscribedAt   – first (or latest re-) subscription time.
//  UnsubscribedAt – when the subscriber opted out (nullable).
type NewsletterSubscriber struct {
    ID             uint64     // newsletter_subscribers.id
    Email          string     // newsletter_subscribers.email
    Name           string     // newsletter_subscribers.name
    Source         string     // newsletter_subscribers.source
    IsActive       bool       // newsletter_subscribers.is_active
    SubscribedAt   time.Time  // newsletter_subscribers.subscribed_at
    UnsubscribedAt *time.Time // newsletter_subscribers.unsubscribed_at (nullable)
}
