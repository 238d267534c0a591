package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/storefront/catalog-api/internal/api/metrics"
	"github.com/storefront/catalog-api/internal/core/domain"
	"github.com/storefront/catalog-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /api/products.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   productResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	products, err := h.service.List(c.Request().Context())
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "product store unavailable"})
		}
		return err
	}

	out := make([]productResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/products/:id. It does not require a token.
//
// @Summary      Get a product by id
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "Product id"
// @Success      200  {object}  productResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	p, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return productError(c, err)
	}
	return c.JSON(http.StatusOK, toProductResponse(p))
}

// Create handles POST /api/products. The id is assigned by the store.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	p, err := h.service.Create(c.Request().Context(), ports.CreateProductInput{
		ProductInput: req.input(),
		Actor:        principal.Name,
	})
	if err != nil {
		return productError(c, err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	c.Response().Header().Set(echo.HeaderLocation, fmt.Sprintf("/api/products/%d", p.ID))
	return c.JSON(http.StatusCreated, toProductResponse(p))
}

// Update handles PUT /api/products/:id. The body id must match the path id;
// that check runs before payload validation.
//
// @Summary      Replace a product
// @Tags         products
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  int             true  "Product id"
// @Param        body  body  productRequest  true  "Product"
// @Success      204  "No Content"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if req.ID != id {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: domain.ErrProductIDMismatch.Error()})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.service.Update(c.Request().Context(), ports.UpdateProductInput{
		ProductInput: req.input(),
		PathID:       id,
		ID:           req.ID,
		Version:      req.Version,
		Actor:        principal.Name,
	})
	if err != nil {
		return productError(c, err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /api/products/:id. Only Admin callers reach it.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  int  true  "Product id"
// @Success      204  "No Content"
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id, principal.Name); err != nil {
		return productError(c, err)
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	return c.NoContent(http.StatusNoContent)
}

func (r *productRequest) input() ports.ProductInput {
	in := ports.ProductInput{
		Name:        r.Name,
		Price:       r.Price,
		Description: r.Description,
	}
	if r.StockQuantity != nil {
		in.StockQuantity = *r.StockQuantity
	}
	return in
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	return id, nil
}

// productError renders the product errors a client can act on and hands
// everything else to the central error handler.
func productError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: domain.ErrProductNotFound.Error()})
	case errors.Is(err, domain.ErrProductIDMismatch):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: domain.ErrProductIDMismatch.Error()})
	case errors.Is(err, domain.ErrInvalidProduct):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "product store unavailable"})
	}
	return err
}
