package portfolio

import "time"

// Image references an uploaded asset with its alt text.
type Image struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
	Alt      string `json:"alt,omitempty" bson:"alt,omitempty"`
}

type Category struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Work is a portfolio item. Category is populated on reads and never stored.
type Work struct {
	ID          string    `json:"_id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	CategoryID  string    `json:"categoryId" bson:"category"`
	Category    *Category `json:"category" bson:"-"`
	Image       *Image    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Skill level is a percentage in [0,100].
type Skill struct {
	ID         string    `json:"_id" bson:"_id"`
	Name       string    `json:"name" bson:"name"`
	Level      int       `json:"level" bson:"level"`
	CategoryID string    `json:"categoryId,omitempty" bson:"category,omitempty"`
	Category   *Category `json:"category,omitempty" bson:"-"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

type Review struct {
	ID        string    `json:"_id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Message   string    `json:"message" bson:"message"`
	Image     *Image    `json:"image,omitempty" bson:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
