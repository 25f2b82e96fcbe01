package services

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/cache"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/store"
)

// Source tells whether a product read was served from the cache or the
// database.
type Source string

const (
	SourceCache Source = "cache"
	SourceStore Source = "db"
)

const (
	listKeyPrefix   = "products:list:"
	detailKeyPrefix = "products:detail:"
)

type ProductQuery struct {
	Category   string
	Search     string
	IsNew      bool
	IsFeatured bool
	// Page and Limit paginate only when both are positive.
	Page  int64
	Limit int64
}

func (q ProductQuery) paginated() bool {
	return q.Page > 0 && q.Limit > 0
}

// CacheKey is stable for equal queries regardless of parameter order in the
// request.
func (q ProductQuery) CacheKey() string {
	values := url.Values{}
	if category := strings.TrimSpace(q.Category); category != "" {
		values.Set("category", category)
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("search", strings.ToLower(search))
	}
	if q.IsNew {
		values.Set("isNew", "true")
	}
	if q.IsFeatured {
		values.Set("isFeatured", "true")
	}
	if q.paginated() {
		values.Set("page", strconv.FormatInt(q.Page, 10))
		values.Set("limit", strconv.FormatInt(q.Limit, 10))
	}
	return listKeyPrefix + values.Encode()
}

func detailKey(id primitive.ObjectID) string {
	return detailKeyPrefix + id.Hex()
}

type ProductPage struct {
	Products []models.Product `json:"products"`
	Page     int64            `json:"page,omitempty"`
	Limit    int64            `json:"limit,omitempty"`
}

type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	OriginalPrice float64
	Image         string
	Images        []string
	Category      string
	Brand         string
	Sizes         []float64
	Colors        []string
	Features      []string
	InStock       *bool
	StockQuantity *int
	IsNew         bool
	IsFeatured    bool
	Rating        float64
}

// ProductPatch carries the fields an admin changes. Nil fields are kept.
type ProductPatch struct {
	Name          *string
	Description   *string
	Price         *float64
	OriginalPrice *float64
	Image         *string
	Images        *[]string
	Category      *string
	Brand         *string
	Sizes         *[]float64
	Colors        *[]string
	Features      *[]string
	InStock       *bool
	StockQuantity *int
	IsNew         *bool
	IsFeatured    *bool
	Rating        *float64
}

type ProductService struct {
	products store.ProductStore
	cache    cache.Cache
	ttl      time.Duration
	metrics  *metrics.AppMetrics
	now      func() time.Time
}

func NewProductService(products store.ProductStore, c cache.Cache, ttl time.Duration, m *metrics.AppMetrics) *ProductService {
	if c == nil {
		c = cache.Noop{}
	}
	return &ProductService{products: products, cache: c, ttl: ttl, metrics: m, now: time.Now}
}

func (s *ProductService) cacheGet(ctx context.Context, kind, key string, dst interface{}) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Printf("[CACHE] [WARN] get %s failed: %v", key, err)
		}
		s.metrics.RecordCache(ctx, kind, false)
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		log.Printf("[CACHE] [WARN] corrupt entry %s: %v", key, err)
		s.metrics.RecordCache(ctx, kind, false)
		return false
	}
	s.metrics.RecordCache(ctx, kind, true)
	return true
}

func (s *ProductService) cacheSet(ctx context.Context, key string, value interface{}) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[CACHE] [WARN] encode %s failed: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
		log.Printf("[CACHE] [WARN] set %s failed: %v", key, err)
	}
}

// invalidate drops the detail entry for id (when given) and every list entry.
func (s *ProductService) invalidate(ctx context.Context, id *primitive.ObjectID) {
	if id != nil {
		if err := s.cache.Delete(ctx, detailKey(*id)); err != nil {
			log.Printf("[CACHE] [WARN] delete %s failed: %v", detailKey(*id), err)
		}
	}
	if err := s.cache.InvalidatePrefix(ctx, listKeyPrefix); err != nil {
		log.Printf("[CACHE] [WARN] flush %s* failed: %v", listKeyPrefix, err)
	}
}

func (s *ProductService) List(ctx context.Context, q ProductQuery) (ProductPage, Source, error) {
	key := q.CacheKey()

	var page ProductPage
	if s.cacheGet(ctx, "list", key, &page) {
		return page, SourceCache, nil
	}

	filter := store.ProductFilter{
		Category:   q.Category,
		Search:     q.Search,
		IsNew:      q.IsNew,
		IsFeatured: q.IsFeatured,
	}
	if q.paginated() {
		filter.Skip = (q.Page - 1) * q.Limit
		filter.Limit = q.Limit
		page.Page = q.Page
		page.Limit = q.Limit
	}

	products, err := s.products.List(ctx, filter)
	if err != nil {
		return ProductPage{}, "", err
	}
	page.Products = products

	s.cacheSet(ctx, key, page)
	return page, SourceStore, nil
}

func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (models.Product, Source, error) {
	key := detailKey(id)

	var product models.Product
	if s.cacheGet(ctx, "detail", key, &product) {
		return product, SourceCache, nil
	}

	product, err := s.products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, "", ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, "", err
	}

	s.cacheSet(ctx, key, product)
	return product, SourceStore, nil
}

func validateProductText(problems fieldErrors, field, label, value string) {
	if strings.TrimSpace(value) == "" {
		problems.add(field, label+" is required")
	}
}

func validateStock(problems fieldErrors, stockQuantity *int, rating *float64) {
	if stockQuantity != nil && *stockQuantity < 0 {
		problems.add("stockQuantity", "Stock quantity cannot be negative")
	}
	if rating != nil && (*rating < 0 || *rating > 5) {
		problems.add("rating", "Rating must be between 0 and 5")
	}
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	problems := validatePricing(in.Price, in.OriginalPrice)
	validateProductText(problems, "name", "Name", in.Name)
	validateProductText(problems, "description", "Description", in.Description)
	validateProductText(problems, "category", "Category", in.Category)
	validateProductText(problems, "brand", "Brand", in.Brand)
	if strings.TrimSpace(in.Image) == "" && len(in.Images) == 0 {
		problems.add("image", "Image is required")
	}
	validateStock(problems, in.StockQuantity, &in.Rating)
	if err := problems.err(); err != nil {
		return models.Product{}, err
	}

	now := s.now()
	product := &models.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price,
		OriginalPrice: in.OriginalPrice,
		Image:         strings.TrimSpace(in.Image),
		Images:        models.StringList(in.Images),
		Category:      strings.TrimSpace(in.Category),
		Brand:         strings.TrimSpace(in.Brand),
		Sizes:         in.Sizes,
		Colors:        models.StringList(in.Colors),
		Features:      models.StringList(in.Features),
		InStock:       true,
		IsNew:         in.IsNew,
		IsFeatured:    in.IsFeatured,
		Rating:        in.Rating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.InStock != nil {
		product.InStock = *in.InStock
	}
	if in.StockQuantity != nil {
		product.StockQuantity = *in.StockQuantity
		product.InStock = *in.StockQuantity > 0
	}
	product.Normalize()

	if err := s.products.Create(ctx, product); err != nil {
		return models.Product{}, err
	}

	s.invalidate(ctx, nil)
	log.Println("[PRODUCT] [INFO] product created:", product.ID.Hex())
	return *product, nil
}

func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, patch ProductPatch) (models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	pricing, problems := resolvePricing(existing.Price, existing.OriginalPrice, patch.Price, patch.OriginalPrice)
	textFields := []struct {
		field, label string
		value        *string
	}{
		{"name", "Name", patch.Name},
		{"description", "Description", patch.Description},
		{"category", "Category", patch.Category},
		{"brand", "Brand", patch.Brand},
		{"image", "Image", patch.Image},
	}
	for _, text := range textFields {
		if text.value != nil {
			validateProductText(problems, text.field, text.label, *text.value)
		}
	}
	validateStock(problems, patch.StockQuantity, patch.Rating)
	if err := problems.err(); err != nil {
		return models.Product{}, err
	}

	update := store.ProductUpdate{
		Name:          trimmed(patch.Name),
		Description:   trimmed(patch.Description),
		Image:         trimmed(patch.Image),
		Images:        patch.Images,
		Category:      trimmed(patch.Category),
		Brand:         trimmed(patch.Brand),
		Sizes:         patch.Sizes,
		Colors:        patch.Colors,
		Features:      patch.Features,
		InStock:       patch.InStock,
		StockQuantity: patch.StockQuantity,
		IsNew:         patch.IsNew,
		IsFeatured:    patch.IsFeatured,
		Rating:        patch.Rating,
	}
	if patch.Price != nil {
		update.Price = &pricing.Price
	}
	if patch.OriginalPrice != nil {
		update.OriginalPrice = &pricing.OriginalPrice
	}
	if patch.StockQuantity != nil {
		inStock := *patch.StockQuantity > 0
		update.InStock = &inStock
	}

	product, err := s.products.Update(ctx, id, update)
	if errors.Is(err, store.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, err
	}

	s.invalidate(ctx, &id)
	log.Println("[PRODUCT] [INFO] product updated:", id.Hex())
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, &id)
	log.Println("[PRODUCT] [INFO] product deleted:", id.Hex())
	return nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	t := strings.TrimSpace(*value)
	return &t
}
