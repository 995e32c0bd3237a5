package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product represents an item in the catalog
type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	CategoryID         primitive.ObjectID `bson:"category_id,omitempty" json:"category_id,omitempty"`
	Subcategory        string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Price              float64            `bson:"price" json:"price"`
	OriginalPrice      float64            `bson:"original_price,omitempty" json:"original_price,omitempty"`
	DiscountPercentage int                `bson:"discount_percentage,omitempty" json:"discount_percentage,omitempty"`
	Image              string             `bson:"image,omitempty" json:"image,omitempty"`
	Weight             string             `bson:"weight,omitempty" json:"weight,omitempty"`
	Stock              int                `bson:"stock" json:"stock"`
	IsInStock          bool               `bson:"is_in_stock" json:"is_in_stock"`
	IsFeatured         bool               `bson:"is_featured" json:"is_featured"`
	IsActive           bool               `bson:"is_active" json:"is_active"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}

// Category groups products in the catalog
type Category struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name"`
	Slug         string             `bson:"slug" json:"slug"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	Image        string             `bson:"image,omitempty" json:"image,omitempty"`
	Icon         string             `bson:"icon,omitempty" json:"icon,omitempty"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	DisplayOrder int                `bson:"display_order" json:"display_order"`
}

// ProductPage is a paginated product listing response.
type ProductPage struct {
	Products   []Product `json:"products"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}
