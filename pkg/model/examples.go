package model

// User and Product are illustrative schemas; no route stores them.

type User struct {
	Name     string `json:"name" bson:"name"`
	Email    string `json:"email" bson:"email"`
	Address  string `json:"address" bson:"address"`
	Age      *int64 `json:"age,omitempty" bson:"age,omitempty"`
	IsActive bool   `json:"is_active" bson:"is_active"`
}

type Product struct {
	Title       string  `json:"title" bson:"title"`
	Description *string `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64 `json:"price" bson:"price"`
	Category    string  `json:"category" bson:"category"`
	InStock     bool    `json:"in_stock" bson:"in_stock"`
}
