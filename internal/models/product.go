package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	OnSale        bool               `bson:"-" json:"onSale"`
	Image         string             `bson:"image" json:"image"`
	Images        StringList         `bson:"images" json:"images"`
	Category      string             `bson:"category" json:"category"`
	Brand         string             `bson:"brand" json:"brand"`
	Sizes         []float64          `bson:"sizes" json:"sizes"`
	Colors        StringList         `bson:"colors" json:"colors"`
	Features      StringList         `bson:"features" json:"features"`
	InStock       bool               `bson:"inStock" json:"inStock"`
	StockQuantity int                `bson:"stockQuantity" json:"stockQuantity"`
	IsNew         bool               `bson:"isNew" json:"isNew"`
	IsFeatured    bool               `bson:"isFeatured" json:"isFeatured"`
	Rating        float64            `bson:"rating" json:"rating"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsProductOnSale reports whether a pre-discount price is set above the
// current price.
func IsProductOnSale(price, originalPrice float64) bool {
	return originalPrice > 0 && originalPrice > price
}

// Normalize fills derived fields and replaces nil slices so JSON output is
// stable.
func (p *Product) Normalize() {
	p.OnSale = IsProductOnSale(p.Price, p.OriginalPrice)
	p.Images = p.Images.Compact()
	p.Colors = p.Colors.Compact()
	p.Features = p.Features.Compact()
	if p.Sizes == nil {
		p.Sizes = []float64{}
	}
	if p.Image == "" && len(p.Images) > 0 {
		p.Image = p.Images[0]
	}
}

// MainImage is the image frozen into order lines.
func (p Product) MainImage() string {
	if p.Image != "" {
		return p.Image
	}
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}
