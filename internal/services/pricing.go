package services

// pricingUpdate is the price pair after applying an update on top of the
// stored values.
type pricingUpdate struct {
	Price         float64
	OriginalPrice float64
}

// validatePricing requires a positive price and, when a pre-discount price
// is set, one strictly above the current price.
func validatePricing(price, originalPrice float64) fieldErrors {
	problems := fieldErrors{}
	if price <= 0 {
		problems.add("price", "Price must be greater than 0")
	}
	if originalPrice < 0 {
		problems.add("originalPrice", "Original price cannot be negative")
	} else if originalPrice > 0 && originalPrice <= price {
		problems.add("originalPrice", "Original price must be greater than price")
	}
	return problems
}

// resolvePricing merges the requested changes with the stored prices so the
// pair is validated as it will be persisted. An original price of 0 clears
// the discount.
func resolvePricing(existingPrice, existingOriginal float64, price, originalPrice *float64) (pricingUpdate, fieldErrors) {
	result := pricingUpdate{Price: existingPrice, OriginalPrice: existingOriginal}
	if price != nil {
		result.Price = *price
	}
	if originalPrice != nil {
		result.OriginalPrice = *originalPrice
	}
	return result, validatePricing(result.Price, result.OriginalPrice)
}
