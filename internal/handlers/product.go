package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/services"
)

const cacheHeader = "X-Cache"

type productRequest struct {
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	Image         string    `json:"image"`
	Images        []string  `json:"images"`
	Category      string    `json:"category"`
	Brand         string    `json:"brand"`
	Sizes         []float64 `json:"sizes"`
	Colors        []string  `json:"colors"`
	Features      []string  `json:"features"`
	InStock       *bool     `json:"inStock"`
	StockQuantity *int      `json:"stockQuantity"`
	IsNew         bool      `json:"isNew"`
	IsFeatured    bool      `json:"isFeatured"`
	Rating        float64   `json:"rating"`
}

type productPatchRequest struct {
	Name          *string    `json:"name"`
	Description   *string    `json:"description"`
	Price         *float64   `json:"price"`
	OriginalPrice *float64   `json:"originalPrice"`
	Image         *string    `json:"image"`
	Images        *[]string  `json:"images"`
	Category      *string    `json:"category"`
	Brand         *string    `json:"brand"`
	Sizes         *[]float64 `json:"sizes"`
	Colors        *[]string  `json:"colors"`
	Features      *[]string  `json:"features"`
	InStock       *bool      `json:"inStock"`
	StockQuantity *int       `json:"stockQuantity"`
	IsNew         *bool      `json:"isNew"`
	IsFeatured    *bool      `json:"isFeatured"`
	Rating        *float64   `json:"rating"`
}

func setCacheHeader(c *gin.Context, source services.Source) {
	if source == services.SourceCache {
		c.Header(cacheHeader, "HIT")
		return
	}
	c.Header(cacheHeader, "MISS")
}

func productQueryFromRequest(c *gin.Context) (services.ProductQuery, error) {
	page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
	if err != nil {
		return services.ProductQuery{}, err
	}

	category := strings.TrimSpace(c.Query("category"))
	if strings.EqualFold(category, "all") {
		category = ""
	}

	return services.ProductQuery{
		Category:   category,
		Search:     c.Query("search"),
		IsNew:      c.Query("isNew") == "true",
		IsFeatured: c.Query("isFeatured") == "true",
		Page:       page,
		Limit:      limit,
	}, nil
}

func GetProducts(productService *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		query, err := productQueryFromRequest(c)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		page, source, err := productService.List(ctx, query)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		setCacheHeader(c, source)
		payload := gin.H{"products": page.Products, "source": source}
		if page.Page > 0 {
			payload["page"] = page.Page
			payload["limit"] = page.Limit
		}
		respond(c, http.StatusOK, payload)
	}
}

func GetProduct(productService *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id", "Product not found")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, source, err := productService.Get(ctx, id)
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		setCacheHeader(c, source)
		respond(c, http.StatusOK, gin.H{"product": product, "source": source})
	}
}

func CreateProduct(productService *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := productService.Create(ctx, services.ProductInput{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			Image:         req.Image,
			Images:        req.Images,
			Category:      req.Category,
			Brand:         req.Brand,
			Sizes:         req.Sizes,
			Colors:        req.Colors,
			Features:      req.Features,
			InStock:       req.InStock,
			StockQuantity: req.StockQuantity,
			IsNew:         req.IsNew,
			IsFeatured:    req.IsFeatured,
			Rating:        req.Rating,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] created product %s", route, product.ID.Hex())
		respond(c, http.StatusCreated, gin.H{"product": product})
	}
}

func UpdateProduct(productService *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id", "Product not found")
		if !ok {
			return
		}

		var req productPatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := productService.Update(ctx, id, services.ProductPatch{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			Image:         req.Image,
			Images:        req.Images,
			Category:      req.Category,
			Brand:         req.Brand,
			Sizes:         req.Sizes,
			Colors:        req.Colors,
			Features:      req.Features,
			InStock:       req.InStock,
			StockQuantity: req.StockQuantity,
			IsNew:         req.IsNew,
			IsFeatured:    req.IsFeatured,
			Rating:        req.Rating,
		})
		if err != nil {
			respondServiceError(c, route, err)
			return
		}

		respond(c, http.StatusOK, gin.H{"product": product})
	}
}

func DeleteProduct(productService *services.ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"
		defer handlePanic(c, route)

		id, ok := objectIDParam(c, route, "id", "Product not found")
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := productService.Delete(ctx, id); err != nil {
			respondServiceError(c, route, err)
			return
		}

		log.Printf("[%s] deleted product %s", route, id.Hex())
		respond(c, http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
