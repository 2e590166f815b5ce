package views

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"retaildash/apiclient"
	"retaildash/models"
)

const msgSaleFailed = "Failed to record sale"

// SaleFields is the sales form as typed by the user.
type SaleFields struct {
	ProductID string `form:"productId"`
	StoreID   string `form:"storeId"`
	Quantity  string `form:"quantity"`
	UnitPrice string `form:"unitPrice"`
}

// DefaultSaleFields is the state of an empty form.
func DefaultSaleFields() SaleFields {
	return SaleFields{StoreID: "1"}
}

// Total is quantity × unitPrice, available once both fields hold numbers.
func (f SaleFields) Total() (decimal.Decimal, bool) {
	if f.Quantity == "" || f.UnitPrice == "" {
		return decimal.Zero, false
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(f.Quantity))
	if err != nil {
		return decimal.Zero, false
	}
	price, err := decimal.NewFromString(strings.TrimSpace(f.UnitPrice))
	if err != nil {
		return decimal.Zero, false
	}
	return qty.Mul(price), true
}

// Parse converts the typed fields into a sale and validates it.
func (f SaleFields) Parse(validate *validator.Validate) (models.SaleInput, error) {
	var in models.SaleInput
	var err error

	if in.ProductID, err = parseID("productId", f.ProductID); err != nil {
		return in, err
	}
	if in.StoreID, err = parseID("storeId", f.StoreID); err != nil {
		return in, err
	}
	qty, err := parseID("quantity", f.Quantity)
	if err != nil {
		return in, err
	}
	in.Quantity = int(qty)

	price := strings.TrimSpace(f.UnitPrice)
	if price == "" {
		return in, invalidSale("unitPrice: This field is required")
	}
	if in.UnitPrice, err = decimal.NewFromString(price); err != nil {
		return in, invalidSale("unitPrice: Must be a number")
	}

	if err := validate.Struct(in); err != nil {
		return in, invalidSale(validationMessage(err))
	}
	return in, nil
}

// SaleError is a local validation failure of the sales form.
type SaleError struct {
	Message string
}

func invalidSale(msg string) error { return &SaleError{Message: msg} }

func (e *SaleError) Error() string { return ErrInvalidSale.Error() + ": " + e.Message }

func (e *SaleError) Unwrap() error { return ErrInvalidSale }

func parseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalidSale(field + ": This field is required")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidSale(field + ": Must be a whole number")
	}
	return n, nil
}

// SalesSnapshot is a copy of the sales form's state for rendering.
type SalesSnapshot struct {
	Fields          SaleFields
	Products        []models.Product
	ProductsLoading bool
	ProductsError   string
	Submitting      bool
	Success         string
	Error           string
}

// SalesForm records sales transactions.
type SalesForm struct {
	env      Env
	validate *validator.Validate

	mu              sync.Mutex
	fields          SaleFields
	products        []models.Product
	productsLoading bool
	productsErr     string
	submitting      bool
	success         string
	err             string
}

// NewSalesForm creates an empty form.
func NewSalesForm(env Env) *SalesForm {
	return &SalesForm{
		env:      env,
		validate: newValidator(),
		fields:   DefaultSaleFields(),
	}
}

// LoadProducts fetches the catalog for the product selector.
func (f *SalesForm) LoadProducts(ctx context.Context) error {
	f.mu.Lock()
	f.productsLoading = true
	f.mu.Unlock()

	products, err := f.env.API.Products(ctx, f.env.token())

	f.mu.Lock()
	defer f.mu.Unlock()
	f.productsLoading = false
	if err != nil {
		f.productsErr = "Failed to load products"
		f.env.logger().Warn("Error loading products", zap.Error(err))
		return err
	}
	f.products = products
	f.productsErr = ""
	return nil
}

// Submit validates fields and records the sale. On success the form is reset with
// the store kept at its default.
func (f *SalesForm) Submit(ctx context.Context, fields SaleFields) (*models.SaleResult, error) {
	f.mu.Lock()
	f.fields = fields
	f.success = ""
	f.err = ""
	if f.productsLoading {
		f.mu.Unlock()
		return nil, ErrCatalogLoading
	}
	in, err := fields.Parse(f.validate)
	if err != nil {
		var se *SaleError
		if errors.As(err, &se) {
			f.err = se.Message
		}
		f.mu.Unlock()
		return nil, err
	}
	f.submitting = true
	f.mu.Unlock()

	result, err := f.env.API.RecordSale(ctx, f.env.token(), in)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		f.err = apiclient.MessageOf(err)
		if f.err == "" {
			f.err = msgSaleFailed
		}
		f.env.logger().Warn("Error recording sale", zap.Int64("product_id", in.ProductID), zap.Error(err))
		return nil, err
	}
	f.success = fmt.Sprintf("Sale recorded successfully! Transaction ID: %d", result.ID)
	f.fields = DefaultSaleFields()
	return result, nil
}

// Snapshot returns a copy of the current state.
func (f *SalesForm) Snapshot() SalesSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return SalesSnapshot{
		Fields:          f.fields,
		Products:        append([]models.Product(nil), f.products...),
		ProductsLoading: f.productsLoading,
		ProductsError:   f.productsErr,
		Submitting:      f.submitting,
		Success:         f.success,
		Error:           f.err,
	}
}
