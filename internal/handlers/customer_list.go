package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/alimgiray/gcrm/internal/importer"
	"github.com/alimgiray/gcrm/internal/middleware"
	"github.com/alimgiray/gcrm/internal/models"
	"github.com/alimgiray/gcrm/internal/services"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CustomerListHandler struct {
	listService    *services.CustomerListService
	importService  *services.ImportService
	maxUploadBytes int64
}

func NewCustomerListHandler(listService *services.CustomerListService, importService *services.ImportService, maxUploadBytes int64) *CustomerListHandler {
	return &CustomerListHandler{
		listService:    listService,
		importService:  importService,
		maxUploadBytes: maxUploadBytes,
	}
}

// Create handles POST /api/customer-lists
func (h *CustomerListHandler) Create(c *gin.Context) {
	var input models.CreateCustomerListInput
	if !bindJSON(c, &input) {
		return
	}

	list, err := h.listService.CreateCustomerList(c.Request.Context(), middleware.OwnerID(c), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, list)
}

// List handles GET /api/customer-lists
func (h *CustomerListHandler) List(c *gin.Context) {
	lists, err := h.listService.GetCustomerLists(c.Request.Context(), middleware.OwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// Get handles GET /api/customer-lists/:id
func (h *CustomerListHandler) Get(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomerList)
	if !ok {
		return
	}

	list, err := h.listService.GetCustomerList(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Update handles PUT /api/customer-lists/:id
func (h *CustomerListHandler) Update(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomerList)
	if !ok {
		return
	}

	var input models.UpdateCustomerListInput
	if !bindJSON(c, &input) {
		return
	}

	list, err := h.listService.UpdateCustomerList(c.Request.Context(), middleware.OwnerID(c), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Delete handles DELETE /api/customer-lists/:id
func (h *CustomerListHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomerList)
	if !ok {
		return
	}

	if err := h.listService.DeleteCustomerList(c.Request.Context(), middleware.OwnerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Customers handles GET /api/customer-lists/:id/customers
func (h *CustomerListHandler) Customers(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomerList)
	if !ok {
		return
	}

	customers, err := h.listService.GetCustomers(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// Upload handles POST /api/customer-lists/:id/upload-csv. The multipart
// field "file" holds a CSV or XLSX document.
func (h *CustomerListHandler) Upload(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomerList)
	if !ok {
		return
	}

	if h.maxUploadBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, models.NewFieldError("file", fmt.Sprintf("File exceeds the %d byte limit", h.maxUploadBytes)))
			return
		}
		respondError(c, models.NewFieldError("file", "No file uploaded"))
		return
	}

	format, ok := detectFormat(header)
	if !ok {
		respondError(c, models.NewFieldError("file", "Only CSV or XLSX files are allowed"))
		return
	}

	content, err := readUpload(header)
	if err != nil {
		respondError(c, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := h.importService.ImportCustomers(c.Request.Context(), middleware.OwnerID(c), id, format, content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       fmt.Sprintf("Successfully imported %d customers", result.ImportedCount),
		"importedCount": result.ImportedCount,
		"errors":        result.Errors,
	})
}

// Export handles GET /api/customer-lists/:id/export
func (h *CustomerListHandler) Export(c *gin.Context) {
	id, ok := pathID(c, models.ResourceCustomerList)
	if !ok {
		return
	}

	list, content, err := h.listService.ExportCustomerList(c.Request.Context(), middleware.OwnerID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName(list.Name)+".xlsx"))
	c.Data(http.StatusOK, xlsxContentType, content)
}

func detectFormat(header *multipart.FileHeader) (importer.Format, bool) {
	contentType := header.Header.Get("Content-Type")
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		return importer.FormatCSV, true
	case ".xlsx":
		return importer.FormatXLSX, true
	}

	switch {
	case strings.HasPrefix(contentType, "text/csv"):
		return importer.FormatCSV, true
	case strings.HasPrefix(contentType, xlsxContentType):
		return importer.FormatXLSX, true
	}
	return "", false
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

// downloadName keeps letters, digits, dashes and underscores of name
func downloadName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, name)
	if cleaned == "" {
		return "customers"
	}
	return cleaned
}
