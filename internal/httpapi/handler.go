package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/freshmart-cart/internal/cart"
	"github.com/nikolayk812/freshmart-cart/internal/checkout"
	"github.com/nikolayk812/freshmart-cart/internal/domain"
	"github.com/nikolayk812/freshmart-cart/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

type Handler struct {
	storage  port.SlotStorage
	slotKey  string
	currency currency.Unit
	catalog  port.ProductCatalog
	checkout *checkout.Service
	logger   *zap.Logger
}

func NewHandler(
	storage port.SlotStorage,
	slotKey string,
	unit currency.Unit,
	catalog port.ProductCatalog,
	checkoutService *checkout.Service,
	logger *zap.Logger,
) *Handler {
	if slotKey == "" {
		slotKey = cart.DefaultSlotKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		storage:  storage,
		slotKey:  slotKey,
		currency: unit,
		catalog:  catalog,
		checkout: checkoutService,
		logger:   logger,
	}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/products", h.ListProducts)

	r.GET("/cart", h.GetCart)
	r.DELETE("/cart", h.ClearCart)
	r.GET("/cart/totals", h.GetTotals)
	r.POST("/cart/items", h.AddItem)
	r.PUT("/cart/items/:productId", h.UpdateQuantity)
	r.DELETE("/cart/items/:productId", h.RemoveItem)

	r.POST("/checkout", h.Checkout)
}

// store builds the per-session cart store; each session owns its own slot.
func (h *Handler) store(c *gin.Context) *cart.Store {
	session := sessionID(c)

	return cart.New(h.storage, h.slotKey+":"+session,
		cart.WithCurrency(h.currency),
		cart.WithLogger(h.logger.With(zap.String("session", session))))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// ListProducts handles GET /products
func (h *Handler) ListProducts(c *gin.Context) {
	if h.catalog == nil {
		c.JSON(http.StatusServiceUnavailable, errorDTO{Error: "Catalog unavailable"})
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("catalog listing failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorDTO{Error: "Catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, mapProductsToDTO(products))
}

func (h *Handler) GetCart(c *gin.Context) {
	store := h.store(c)
	h.respondCart(c, store, store.Load(c.Request.Context()))
}

func (h *Handler) GetTotals(c *gin.Context) {
	totals := h.store(c).Totals(c.Request.Context(), nil)
	c.JSON(http.StatusOK, mapTotalsToDTO(totals))
}

// AddItem handles POST /cart/items
func (h *Handler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorDTO{Error: "Invalid request body"})
		return
	}

	ctx := c.Request.Context()
	store := h.store(c)

	var product domain.Product
	switch {
	case req.Product != nil:
		product = mapProductToDomain(*req.Product)
	case req.ProductID != "" && h.catalog != nil:
		var err error
		product, err = h.catalog.GetProduct(ctx, req.ProductID)
		if errors.Is(err, port.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, errorDTO{Error: "Product not found"})
			return
		}
		if err != nil {
			h.logger.Error("catalog lookup failed", zap.String("product_id", string(req.ProductID)), zap.Error(err))
			c.JSON(http.StatusBadGateway, errorDTO{Error: "Catalog unavailable"})
			return
		}
	case req.ProductID != "":
		c.JSON(http.StatusServiceUnavailable, errorDTO{Error: "Catalog unavailable"})
		return
	}

	items := store.Add(ctx, product, domain.QuantityFromJSON(req.Quantity))
	h.respondCart(c, store, items)
}

// UpdateQuantity handles PUT /cart/items/:productId
func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorDTO{Error: "Invalid request body"})
		return
	}

	store := h.store(c)
	items := store.UpdateQuantity(c.Request.Context(), domain.ProductID(c.Param("productId")), domain.QuantityFromJSON(req.Quantity))
	h.respondCart(c, store, items)
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *Handler) RemoveItem(c *gin.Context) {
	store := h.store(c)
	items := store.Remove(c.Request.Context(), domain.ProductID(c.Param("productId")))
	h.respondCart(c, store, items)
}

func (h *Handler) ClearCart(c *gin.Context) {
	h.store(c).Clear(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// Checkout handles POST /checkout
func (h *Handler) Checkout(c *gin.Context) {
	if h.checkout == nil {
		c.JSON(http.StatusServiceUnavailable, errorDTO{Error: "Checkout unavailable"})
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorDTO{Error: "Invalid request body"})
		return
	}

	confirmation, err := h.checkout.PlaceOrder(c.Request.Context(), h.store(c), domain.Customer{
		FullName: req.FullName,
		Email:    req.Email,
		Address:  req.Address,
		City:     req.City,
		Notes:    req.Notes,
		UserID:   req.UserID,
	})
	switch {
	case errors.Is(err, checkout.ErrMissingContact), errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, errorDTO{Error: err.Error()})
		return
	case err != nil:
		h.logger.Error("checkout failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorDTO{Error: "Unable to place order right now."})
		return
	}

	c.JSON(http.StatusCreated, orderDTO{ID: confirmation.ID})
}

func (h *Handler) respondCart(c *gin.Context, store *cart.Store, items []domain.LineItem) {
	c.JSON(http.StatusOK, mapCartToDTO(items, store.Totals(c.Request.Context(), items)))
}
