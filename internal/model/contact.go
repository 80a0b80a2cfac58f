package model

import "time"

// ContactMessage stores a contact form submission from a potential
// client.  Staff mark messages read and responded through the admin
// endpoints; notes hold free-text follow-up remarks.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – submitter's name.
//  Email     – submitter's email, stored lowercase.
//  Phone     – submitter's phone number.
//  EventType – kind of event the inquiry is about.
//  EventDate – tentative event date (nullable).
//  Budget    – free-text budget indication (optional).
//  Message   – the inquiry body.
//  IsRead    – whether staff have opened the message.
//  Responded – whether staff have replied.
//  Notes     – internal follow-up notes (optional).
//  CreatedAt – submission timestamp.
type ContactMessage struct {
    ID        uint64     // contact_messages.id
    Name      string     // contact_messages.name
    Email     string     // contact_messages.email
    Phone     string     // contact_messages.phone
    EventType string     // contact_messages.event_type
    EventDate *time.Time // contact_messages.event_date (nullable)
    Budget    string     // contact_messages.budget
    Message   string     // contact_messages.message
    IsRead    bool       // contact_messages.is_read
    Responded bool       // contact_messages.responded
    Notes     string     // contact_messages.notes
    CreatedAt time.Time  // contact_messages.created_at
}
