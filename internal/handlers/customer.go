package handlers

import (
	"net/http"

	"github.com/alimgiray/gcrm/internal/middleware"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/services"
	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var input models.CreateCustomerInput
	if !bindJSON(c, &input) {
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), middleware.OwnerID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.GetCustomers(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomer)
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomer)
	if !ok {
		return
	}

	var input models.UpdateCustomerInput
	if !bindJSON(c, &input) {
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), middleware.OwnerID(c), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomer)
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
