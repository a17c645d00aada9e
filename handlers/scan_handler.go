package handlers

import (
	"bufio"
	"context"
	"log"
	"strconv"

	"github.com/dlGuiri/Dental-Lens/database"
	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/dlGuiri/Dental-Lens/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScanHandler struct {
	Inference *services.InferenceClient
}

func NewScanHandler(inference *services.InferenceClient) *ScanHandler {
	return &ScanHandler{Inference: inference}
}

type CreateScanRecordRequest struct {
	Date                 *string  `json:"date"`
	Notes                []string `json:"notes"`
	ImageURLs            []string `json:"image_urls"`
	LimeVisualizationURL *string  `json:"lime_visualization_url"`
	Result               []string `json:"result"`
}

func (h *ScanHandler) CreateScanRecord(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var req CreateScanRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	record := models.ScanRecord{
		UserID:               userID,
		Date:                 req.Date,
		Notes:                req.Notes,
		ImageURLs:            req.ImageURLs,
		LimeVisualizationURL: req.LimeVisualizationURL,
		Result:               req.Result,
	}
	if err := database.DB.Create(&record).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create scan record"})
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (h *ScanHandler) GetMyScanRecords(c *fiber.Ctx) error {
	userID, _ := currentUser(c)

	var records []models.ScanRecord
	if err := database.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&records).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch scan records"})
	}
	return c.JSON(records)
}

func (h *ScanHandler) UpdateScanRecord(c *fiber.Ctx) error {
	recordID, err := uuid.Parse(c.Params("recordId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	var req CreateScanRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	var record models.ScanRecord
	if err := database.DB.First(&record, "id = ?", recordID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Scan record not found"})
	}

	updates := map[string]interface{}{}
	if req.Date != nil {
		updates["date"] = *req.Date
	}
	if req.Notes != nil {
		updates["notes"] = req.Notes
	}
	if req.ImageURLs != nil {
		updates["image_urls"] = req.ImageURLs
	}
	if req.LimeVisualizationURL != nil {
		updates["lime_visualization_url"] = *req.LimeVisualizationURL
	}
	if req.Result != nil {
		updates["result"] = req.Result
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Nothing to update"})
	}

	if err := database.DB.Model(&record).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update scan record"})
	}
	return c.JSON(record)
}

func (h *ScanHandler) DeleteScanRecord(c *fiber.Ctx) error {
	recordID, err := uuid.Parse(c.Params("recordId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	result := database.DB.Delete(&models.ScanRecord{}, "id = ?", recordID)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete scan record"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Scan record not found"})
	}
	return c.JSON(fiber.Map{"status": "deleted"})
}

// AnalyzeScan proxies the uploaded image to the model API's fast
// classification endpoint.
func (h *ScanHandler) AnalyzeScan(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing scan image"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read scan image"})
	}
	defer file.Close()

	prediction, err := h.Inference.PredictFast(c.Context(), fileHeader.Filename, file)
	if err != nil {
		log.Printf("Scan analysis failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Scan analysis failed"})
	}
	return c.JSON(prediction)
}

// ExplainScan requests the slower LIME explanation for an image.
func (h *ScanHandler) ExplainScan(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing scan image"})
	}

	numSamples, _ := strconv.Atoi(c.Query("num_samples", "300"))

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot read scan image"})
	}
	defer file.Close()

	explanation, err := h.Inference.GenerateLime(c.Context(), fileHeader.Filename, file, numSamples)
	if err != nil {
		log.Printf("LIME explanation failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "LIME explanation failed"})
	}
	return c.JSON(explanation)
}

// AssistantChat streams the model's chatbot tokens straight through to
// the client as they arrive.
func (h *ScanHandler) AssistantChat(c *fiber.Ctx) error {
	type Request struct {
		Prompt string  `json:"prompt" validate:"required"`
		Image  *string `json:"image"`
	}
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	inference := h.Inference
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		if err := inference.StreamChat(context.Background(), req.Prompt, req.Image, w); err != nil {
			log.Printf("Assistant stream failed: %v", err)
		}
	})
	return nil
}

// GenerateReport renders the record into a PDF and returns its URL.
func (h *ScanHandler) GenerateReport(c *fiber.Ctx) error {
	recordID, err := uuid.Parse(c.Params("recordId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID"})
	}

	reportURL, err := services.GenerateScanReport(database.DB, recordID)
	if err != nil {
		return serviceError(c, err, "Failed to generate report")
	}
	return c.JSON(fiber.Map{"report_url": reportURL})
}
