package handlers

import (
	"net/http"

	"github.com/alimgiray/gcrm/internal/middleware"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/services"
	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService *services.CampaignService
}

func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// Create launches a campaign against the given customer lists
func (h *CampaignHandler) Create(c *gin.Context) {
	var input models.CreateCampaignInput
	if !bindJSON(c, &input) {
		return
	}

	detail, err := h.campaignService.CreateCampaign(c.Request.Context(), middleware.OwnerID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *CampaignHandler) List(c *gin.Context) {
	campaigns, err := h.campaignService.GetCampaigns(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h *CampaignHandler) Get(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCampaign)
	if !ok {
		return
	}

	detail, err := h.campaignService.GetCampaign(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Update changes a campaign; customerListIds, when present, replaces its targeting
func (h *CampaignHandler) Update(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCampaign)
	if !ok {
		return
	}

	var input models.UpdateCampaignInput
	if !bindJSON(c, &input) {
		return
	}

	detail, err := h.campaignService.UpdateCampaign(c.Request.Context(), middleware.OwnerID(c), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *CampaignHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCampaign)
	if !ok {
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CampaignHandler) Customers(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCampaign)
	if !ok {
		return
	}

	customers, err := h.campaignService.GetCampaignCustomers(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}
