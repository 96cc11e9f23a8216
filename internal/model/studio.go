package model

import "time"

// Room is a physical space events are scheduled into.
type Room struct {
	ID          int64
	Name        string
	Description string
}

// Lesson is a class template led by a trainer person.
type Lesson struct {
	ID             int64
	Name           string
	Description    string
	TrainerID      int64
	Trainer        *Person
	DurationMinute int
	BasePrice      float32
}

// Abonnement is a subscription product bundling a visit count, a validity
// window and a price, linked to the lessons it covers.
type Abonnement struct {
	ID                int64
	Name              string
	Validity          AbonnementValidity
	MaxNumberOfVisits int
	BasePrice         float32
	MaxDiscount       Discount
	LessonIDs         []int64
}

// SoldAbonnement snapshots an abonnement at the moment of sale so later
// edits to the product do not rewrite what the client bought.
type SoldAbonnement struct {
	ID                int64
	PersonID          int64
	Active            bool
	DateSale          time.Time
	DateExpiration    time.Time
	PriceSold         float32
	Discount          Discount
	VisitCounter      int
	Name              string
	Validity          AbonnementValidity
	MaxNumberOfVisits int
	BasePrice         float32
	LessonIDs         []int64
}

// Event is one scheduled occurrence of a lesson in a room.
type Event struct {
	ID        int64
	LessonID  int64
	Lesson    *Lesson
	RoomID    int64
	Room      *Room
	StartsAt  time.Time
}
