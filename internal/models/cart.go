package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartLine is one entry of a user's cart. A line is identified by
// (Product, Size) and its Quantity is never below 1.
type CartLine struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Size     float64            `bson:"size" json:"size"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

func NewCartLine(productID primitive.ObjectID, size float64, quantity int) (CartLine, error) {
	if quantity < 1 {
		return CartLine{}, ErrInvalidQuantity
	}
	return CartLine{Product: productID, Size: size, Quantity: quantity}, nil
}

func (l CartLine) Matches(productID primitive.ObjectID, size float64) bool {
	return l.Product == productID && l.Size == size
}

// MergeCartLine adds line to lines, incrementing the quantity of an existing
// (product, size) entry instead of appending a duplicate.
func MergeCartLine(lines []CartLine, line CartLine) []CartLine {
	out := make([]CartLine, 0, len(lines)+1)
	merged := false
	for _, existing := range lines {
		if !merged && existing.Matches(line.Product, line.Size) {
			existing.Quantity += line.Quantity
			merged = true
		}
		out = append(out, existing)
	}
	if !merged {
		out = append(out, line)
	}
	return out
}

// SetCartLineQuantity sets the quantity of the (product, size) line. A
// quantity of zero or less removes the line. The bool reports whether the
// line existed.
func SetCartLineQuantity(lines []CartLine, productID primitive.ObjectID, size float64, quantity int) ([]CartLine, bool) {
	if quantity <= 0 {
		return RemoveCartLine(lines, productID, size)
	}
	out := make([]CartLine, 0, len(lines))
	found := false
	for _, existing := range lines {
		if existing.Matches(productID, size) {
			existing.Quantity = quantity
			found = true
		}
		out = append(out, existing)
	}
	return out, found
}

func RemoveCartLine(lines []CartLine, productID primitive.ObjectID, size float64) ([]CartLine, bool) {
	out := make([]CartLine, 0, len(lines))
	found := false
	for _, existing := range lines {
		if existing.Matches(productID, size) {
			found = true
			continue
		}
		out = append(out, existing)
	}
	return out, found
}

// CartItem is a cart line with its product resolved.
type CartItem struct {
	Product  Product `json:"product"`
	Size     float64 `json:"size"`
	Quantity int     `json:"quantity"`
}
