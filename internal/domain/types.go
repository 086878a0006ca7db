package domain

import "time"

// Item is a category of recyclable material a collection point can accept.
// The catalog is seeded by migration and never mutated at runtime; Image is
// the icon filename served under /assets.
type Item struct {
	ID    int64
	Title string
	Image string
}

// Point is a registered physical collection location. Image holds the stored
// filename of the uploaded photo, or "" when none was submitted.
type Point struct {
	ID        int64
	Image     string
	Name      string
	Email     string
	Whatsapp  string
	Latitude  float64
	Longitude float64
	City      string
	County    string
	CreatedAt time.Time
}
