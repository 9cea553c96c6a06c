package webserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/registrapos/registra/internal/catalog"
	"github.com/registrapos/registra/internal/checkout"
	"github.com/registrapos/registra/internal/domain"
)

// fail writes the FastAPI-compatible error shape the front-end expects.
func fail(c echo.Context, status int, detail string) error {
	return c.JSON(status, echo.Map{"detail": detail})
}

type searchRequest struct {
	JanCode string `json:"jan_code" validate:"required"`
}

type purchaseRequest struct {
	JanCodes    []string `json:"jan_codes" validate:"required,min=1"`
	CashierCode string   `json:"cashier_code"`
}

func (s *WebServer) healthcheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Hello World"})
}

// searchProduct looks up one product by JAN code.
func (s *WebServer) searchProduct(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "jan_code is required")
	}

	product, err := s.products.FindByCode(c.Request().Context(), req.JanCode)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return fail(c, http.StatusNotFound, "Product not found")
		}
		zap.L().Error("product search failed", zap.String("jan_code", req.JanCode), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Database error: "+err.Error())
	}
	return c.JSON(http.StatusOK, product)
}

// purchase records a transaction for the submitted JAN codes and returns
// the receipt. Any unresolved code fails the whole request.
func (s *WebServer) purchase(c echo.Context) error {
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, http.StatusBadRequest, "jan_codes must not be empty")
	}

	receipt, err := s.checkout.Purchase(c.Request().Context(), req.JanCodes, req.CashierCode)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrProductNotFound):
			return fail(c, http.StatusNotFound, err.Error())
		case errors.Is(err, checkout.ErrNoItems):
			return fail(c, http.StatusBadRequest, err.Error())
		default:
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, receipt)
}

type transactionResponse struct {
	*domain.Transaction
	Details []*domain.TransactionDetail `json:"details"`
}

// getTransaction reads back a recorded transaction with its line items.
func (s *WebServer) getTransaction(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid transaction id")
	}

	trd, details, err := s.checkout.GetReceipt(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, checkout.ErrTransactionNotFound) {
			return fail(c, http.StatusNotFound, "Transaction not found")
		}
		return fail(c, http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, transactionResponse{Transaction: trd, Details: details})
}
